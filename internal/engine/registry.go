package engine

import (
	"fmt"

	"github.com/ivlev/objdetect/internal/config"
	"github.com/ivlev/objdetect/internal/model"
	"github.com/ivlev/objdetect/internal/model/onnx"
	"github.com/ivlev/objdetect/internal/model/remote"
)

// NewModel creates a model for the configured backend
func NewModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.Backend {
	case config.BackendONNX, "":
		return onnx.New(cfg)
	case config.BackendRemote:
		return remote.New(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownBackend, cfg.Backend)
	}
}
