package onnx

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNMSInputsOffsetsByClass(t *testing.T) {
	rects, scores := nmsInputs([]candidate{
		{box: [4]float64{10.7, 20.2, 30, 40}, score: 0.9, class: 0},
		{box: [4]float64{10, 20, 30, 40}, score: 0.5, class: 2},
	})

	require.Len(t, rects, 2)
	assert.Equal(t, image.Rect(10, 20, 30, 40), rects[0])
	assert.Equal(t, image.Rect(10+2*classOffset, 20+2*classOffset, 30+2*classOffset, 40+2*classOffset), rects[1])
	assert.False(t, rects[0].Overlaps(rects[1]))
	assert.Equal(t, []float32{0.9, 0.5}, scores)
}

func TestRank(t *testing.T) {
	cands := []candidate{
		{score: 0.3, class: 0},
		{score: 0.8, class: 1},
		{score: 0.5, class: 2},
		{score: 0.8, class: 3},
	}

	tests := []struct {
		name    string
		indices []int
		maxDet  int
		want    []int // classes in output order
	}{
		{"orders by score, stable on ties", []int{0, 1, 2, 3}, 300, []int{1, 3, 2, 0}},
		{"keeps only indices", []int{2, 0}, 300, []int{2, 0}},
		{"caps at max det", []int{0, 1, 2, 3}, 2, []int{1, 3}},
		{"ignores out of range", []int{5, -1, 2}, 300, []int{2}},
		{"nothing kept", nil, 300, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rank(cands, tt.indices, tt.maxDet)
			classes := make([]int, 0, len(got))
			for _, c := range got {
				classes = append(classes, c.class)
			}
			assert.Equal(t, tt.want, classes)
		})
	}
}

func TestSuppress(t *testing.T) {
	m := &Model{confidence: 0.25, iou: 0.7, maxDet: 300}

	keep := m.suppress([]candidate{
		{box: [4]float64{0, 0, 100, 100}, score: 0.8, class: 0},
		{box: [4]float64{2, 2, 102, 102}, score: 0.9, class: 0},
		{box: [4]float64{0, 0, 100, 100}, score: 0.7, class: 1},
		{box: [4]float64{300, 300, 350, 350}, score: 0.6, class: 0},
	})

	require.Len(t, keep, 3)
	assert.InDelta(t, 0.9, keep[0].score, 1e-6)
	assert.Equal(t, 1, keep[1].class)
	assert.Equal(t, [4]float64{300, 300, 350, 350}, keep[2].box)

	assert.Nil(t, m.suppress(nil))
}
