package onnx

// candidate is a pre-NMS box in letterboxed input space
type candidate struct {
	box   [4]float64 // x1, y1, x2, y2
	score float32
	class int
}

// decode reads a YOLOv8 head laid out as [4+nc][anchors]:
// rows 0-3 are cx, cy, w, h and the remaining rows are class scores.
func decode(data []float32, nc, anchors int, threshold float32) []candidate {
	if len(data) < (4+nc)*anchors {
		return nil
	}

	var cands []candidate
	for a := 0; a < anchors; a++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < nc; c++ {
			s := data[(4+c)*anchors+a]
			if best < 0 || s > bestScore {
				best, bestScore = c, s
			}
		}
		// NaN scores fail the comparison and are dropped
		if !(bestScore >= threshold) {
			continue
		}

		cx := float64(data[a])
		cy := float64(data[anchors+a])
		w := float64(data[2*anchors+a])
		h := float64(data[3*anchors+a])

		cands = append(cands, candidate{
			box:   [4]float64{cx - w/2, cy - h/2, cx + w/2, cy + h/2},
			score: bestScore,
			class: best,
		})
	}
	return cands
}
