package detect

import (
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// NoImagePathMessage is the payload text for a run without an image argument.
const NoImagePathMessage = "No image path provided"

// ErrNoImagePath is returned when the CLI gets no positional image argument.
var ErrNoImagePath = errors.New(NoImagePathMessage)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DetectedObject is a single entry of the output list
type DetectedObject struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	BBox       [4]int  `json:"bbox"` // x, y, width, height
}

// DetectionResult is the payload of a successful run
type DetectionResult struct {
	DetectedObjects  []DetectedObject `json:"detected_objects"`
	ProcessingTimeMs int              `json:"processing_time_ms"`
}

// ErrorResult is the payload of a run whose detection step failed
type ErrorResult struct {
	Error           string           `json:"error"`
	DetectedObjects []DetectedObject `json:"detected_objects"`
}

// UsageError is the payload of a run that never reached detection
type UsageError struct {
	Error string `json:"error"`
}

// NewErrorResult formats any error into the failure payload.
func NewErrorResult(err error) ErrorResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorResult{
		Error:           msg,
		DetectedObjects: []DetectedObject{},
	}
}

// WriteJSON writes v as one line of JSON.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
