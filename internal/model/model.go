package model

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrUnknownBackend is returned for a backend name with no registered model.
	ErrUnknownBackend = errors.New("unknown model backend")
	// ErrModelNotFound is returned when the model file does not exist.
	ErrModelNotFound = errors.New("model file not found")
)

// Detection is one raw object reported by a model
type Detection struct {
	Box   [4]float64 // x1, y1, x2, y2 in source image pixels
	Score float32    // 0.0-1.0
	Class int
}

// Model is the pretrained detector behind the CLI
type Model interface {
	// Predict runs inference on a single image. Detections are returned in
	// the order the model ranks them.
	Predict(ctx context.Context, img image.Image) ([]Detection, error)
	Names() Names
	Close() error
}
