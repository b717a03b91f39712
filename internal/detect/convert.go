package detect

import (
	"math"
	"strconv"

	"github.com/ivlev/objdetect/internal/model"
)

// Mocks are appended to every successful result after the model output.
var Mocks = [...]DetectedObject{
	{Label: "diamond", Confidence: 0.99, BBox: [4]int{320, 240, 50, 50}},
	{Label: "substrate", Confidence: 0.95, BBox: [4]int{100, 100, 200, 50}},
}

// FromDetection converts a raw model detection into an output entry.
// Width and height are taken from the unrounded corners.
func FromDetection(d model.Detection, names model.Names) DetectedObject {
	x1, y1, x2, y2 := d.Box[0], d.Box[1], d.Box[2], d.Box[3]
	return DetectedObject{
		Label:      names.Label(d.Class),
		Confidence: RoundConfidence(float64(d.Score)),
		BBox: [4]int{
			roundInt(x1),
			roundInt(y1),
			roundInt(x2 - x1),
			roundInt(y2 - y1),
		},
	}
}

// NewDetectionResult builds the success payload: converted detections in
// model order followed by the mocks.
func NewDetectionResult(dets []model.Detection, names model.Names) DetectionResult {
	objects := make([]DetectedObject, 0, len(dets)+len(Mocks))
	for _, d := range dets {
		objects = append(objects, FromDetection(d, names))
	}
	objects = append(objects, Mocks[:]...)

	return DetectionResult{
		DetectedObjects:  objects,
		ProcessingTimeMs: 0,
	}
}

// RoundConfidence rounds to two decimals using the exact decimal value of v.
func RoundConfidence(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// roundInt rounds half to even.
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}
