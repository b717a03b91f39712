package engine

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/objdetect/internal/config"
	"github.com/ivlev/objdetect/internal/detect"
	"github.com/ivlev/objdetect/internal/model"
	"github.com/ivlev/objdetect/internal/source"
	"github.com/ivlev/objdetect/internal/system"
)

// ModelFactory creates the model for one run
type ModelFactory func(cfg config.ModelConfig) (model.Model, error)

// ImageLoader decodes the input file
type ImageLoader func(path string, dpi int) (image.Image, error)

type DetectionProject struct {
	Config    *config.Config
	Log       *logrus.Entry
	NewModel  ModelFactory
	LoadImage ImageLoader
}

func NewDetectionProject(cfg *config.Config, log *logrus.Entry) *DetectionProject {
	return &DetectionProject{
		Config:    cfg,
		Log:       log,
		NewModel:  NewModel,
		LoadImage: source.Load,
	}
}

// Run loads the model and detects objects on the configured image.
// Anything written to stdout meanwhile is discarded. A panic inside the
// model is returned as an error.
func (p *DetectionProject) Run(ctx context.Context) (detect.DetectionResult, error) {
	var result detect.DetectionResult

	err := system.SuppressStdout(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		result, err = p.detect(ctx)
		return err
	})

	return result, err
}

func (p *DetectionProject) detect(ctx context.Context) (detect.DetectionResult, error) {
	log := p.Log.WithField("component", "engine")
	start := time.Now()

	before := p.snapshot(log, "before model load")

	m, err := p.NewModel(p.Config.Model)
	if err != nil {
		return detect.DetectionResult{}, err
	}
	defer m.Close()

	log.WithFields(logrus.Fields{
		"backend": p.Config.Model.Backend,
		"model":   p.Config.Model.Path,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("model loaded")

	if p.Config.ShowStats {
		after := p.snapshot(log, "after model load")
		log.WithField("rss_delta", after.RSSDelta(before)).Info("model memory")
	}

	img, err := p.LoadImage(p.Config.ImagePath, p.Config.Source.PDFDPI)
	if err != nil {
		return detect.DetectionResult{}, err
	}
	b := img.Bounds()
	log.WithFields(logrus.Fields{
		"image":  p.Config.ImagePath,
		"width":  b.Dx(),
		"height": b.Dy(),
	}).Debug("image decoded")

	inferStart := time.Now()
	dets, err := m.Predict(ctx, img)
	if err != nil {
		return detect.DetectionResult{}, err
	}

	log.WithFields(logrus.Fields{
		"detections": len(dets),
		"elapsed":    time.Since(inferStart).Round(time.Millisecond),
	}).Info("inference done")

	if p.Config.ShowStats {
		p.snapshot(log, "after inference")
	}

	return detect.NewDetectionResult(dets, m.Names()), nil
}

func (p *DetectionProject) snapshot(log *logrus.Entry, stage string) system.Snapshot {
	if !p.Config.ShowStats {
		return system.Snapshot{}
	}
	s, err := system.TakeSnapshot()
	if err != nil {
		log.WithError(err).Warn("resource snapshot incomplete")
	}
	log.WithFields(s.Fields()).Info(stage)
	return s
}
