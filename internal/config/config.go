package config

import "time"

const (
	DefaultConfigPath = "objdetect.yaml"
	DefaultEnvPath    = ".env"

	BackendONNX   = "onnx"
	BackendRemote = "remote"
)

type Config struct {
	ImagePath string `yaml:"-"`
	ShowStats bool   `yaml:"-"`

	Model  ModelConfig  `yaml:"model"`
	Source SourceConfig `yaml:"source"`
	Log    LogConfig    `yaml:"log"`
}

type ModelConfig struct {
	Backend    string        `yaml:"backend" validate:"oneof=onnx remote"`
	Path       string        `yaml:"path" validate:"required_if=Backend onnx"`
	Names      string        `yaml:"names"`
	InputSize  int           `yaml:"input_size" validate:"gt=0"`
	Confidence float64       `yaml:"confidence" validate:"gte=0,lte=1"`
	IoU        float64       `yaml:"iou" validate:"gte=0,lte=1"`
	MaxDet     int           `yaml:"max_det" validate:"gte=1"`
	RemoteURL  string        `yaml:"remote_url" validate:"required_if=Backend remote"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
}

type SourceConfig struct {
	PDFDPI int `yaml:"pdf_dpi" validate:"gte=36,lte=1200"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	Color bool   `yaml:"color"`
}

// NewDefaultConfig returns the settings used when no file overrides them.
// The thresholds match what yolov8n is usually run with.
func NewDefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Backend:    BackendONNX,
			Path:       "yolov8n.onnx",
			InputSize:  640,
			Confidence: 0.25,
			IoU:        0.7,
			MaxDet:     300,
			RemoteURL:  "ws://localhost:8080/ws",
			Timeout:    30 * time.Second,
		},
		Source: SourceConfig{
			PDFDPI: 150,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
