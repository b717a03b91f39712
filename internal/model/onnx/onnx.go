// Package onnx runs YOLOv8 ONNX exports through the OpenCV DNN module.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ivlev/objdetect/internal/config"
	"github.com/ivlev/objdetect/internal/model"
)

// classOffset separates boxes of different classes so NMS runs per class
const classOffset = 7680

type Model struct {
	net   gocv.Net
	names model.Names

	inputSize  int
	confidence float32
	iou        float32
	maxDet     int
}

// New loads the network and its class table.
func New(cfg config.ModelConfig) (*Model, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrModelNotFound, cfg.Path)
		}
		return nil, err
	}

	names, err := model.ResolveNames(cfg.Names)
	if err != nil {
		return nil, err
	}

	net := gocv.ReadNetFromONNX(cfg.Path)
	if net.Empty() {
		return nil, fmt.Errorf("load onnx model %s: network is empty", cfg.Path)
	}

	return &Model{
		net:        net,
		names:      names,
		inputSize:  cfg.InputSize,
		confidence: float32(cfg.Confidence),
		iou:        float32(cfg.IoU),
		maxDet:     cfg.MaxDet,
	}, nil
}

func (m *Model) Names() model.Names {
	return m.names
}

func (m *Model) Close() error {
	return m.net.Close()
}

func (m *Model) Predict(ctx context.Context, img image.Image) ([]model.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	lb := model.NewLetterbox(b.Dx(), b.Dy(), m.inputSize)
	canvas := lb.Apply(img, m.inputSize)

	mat, err := gocv.ImageToMatRGB(canvas)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	// ImageToMatRGB stores pixels in BGR order, the network expects RGB
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(m.inputSize, m.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 || dims[0] != 1 || dims[1] <= 4 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	nc, anchors := dims[1]-4, dims[2]
	if m.names.Len() < nc {
		return nil, fmt.Errorf("class table has %d names, model outputs %d classes", m.names.Len(), nc)
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	cands := decode(data, nc, anchors, m.confidence)
	keep := m.suppress(cands)

	dets := make([]model.Detection, 0, len(keep))
	for _, c := range keep {
		dets = append(dets, model.Detection{
			Box:   lb.Unmap(c.box[0], c.box[1], c.box[2], c.box[3]),
			Score: c.score,
			Class: c.class,
		})
	}
	return dets, nil
}

// suppress applies class-aware NMS and returns survivors by descending score
func (m *Model) suppress(cands []candidate) []candidate {
	if len(cands) == 0 {
		return nil
	}

	rects, scores := nmsInputs(cands)
	indices := gocv.NMSBoxes(rects, scores, m.confidence, m.iou)
	return rank(cands, indices, m.maxDet)
}

// nmsInputs shifts each box by its class so boxes of different classes never overlap
func nmsInputs(cands []candidate) ([]image.Rectangle, []float32) {
	rects := make([]image.Rectangle, len(cands))
	scores := make([]float32, len(cands))
	for i, c := range cands {
		off := float64(c.class * classOffset)
		rects[i] = image.Rect(
			int(c.box[0]+off), int(c.box[1]+off),
			int(c.box[2]+off), int(c.box[3]+off),
		)
		scores[i] = c.score
	}
	return rects, scores
}

// rank picks the kept candidates, orders them by score and caps them at maxDet.
func rank(cands []candidate, indices []int, maxDet int) []candidate {
	keep := make([]candidate, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(cands) {
			continue
		}
		keep = append(keep, cands[idx])
	}
	sort.SliceStable(keep, func(i, j int) bool {
		return keep[i].score > keep[j].score
	})

	if maxDet > 0 && len(keep) > maxDet {
		keep = keep[:maxDet]
	}
	return keep
}
