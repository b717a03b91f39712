package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivlev/objdetect/internal/config"
	"github.com/ivlev/objdetect/internal/detect"
	"github.com/ivlev/objdetect/internal/engine"
	"github.com/ivlev/objdetect/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one detection and returns the process exit code.
// stdout only ever receives a single JSON line.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("objdetect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: objdetect [flags] <image_path>\n\n")
		fs.PrintDefaults()
	}

	configPtr := fs.String("config", config.DefaultConfigPath, "Path to the YAML config")
	envPtr := fs.String("env", config.DefaultEnvPath, "Path to a .env file with OBJDETECT_* overrides")
	backendPtr := fs.String("backend", "", "Model backend: onnx, remote")
	modelPtr := fs.String("model", "", "Path to the ONNX model")
	namesPtr := fs.String("names", "", "YAML file with the class names table")
	remotePtr := fs.String("remote-url", "", "Detection server websocket URL")
	confPtr := fs.Float64("conf", 0, "Minimum detection confidence (0-1)")
	dpiPtr := fs.Int("dpi", 0, "Render DPI for PDF input")
	logLevelPtr := fs.String("log-level", "", "Log level: debug, info, warn, error, silent")
	logFilePtr := fs.String("log-file", "", "Also write logs to this rotated file")
	statsPtr := fs.Bool("stats", false, "Log memory usage around model load and inference")

	if err := fs.Parse(args); err != nil {
		writeJSON(stderr, stdout, detect.UsageError{Error: err.Error()})
		return 1
	}

	if fs.NArg() < 1 {
		writeJSON(stderr, stdout, detect.UsageError{Error: detect.ErrNoImagePath.Error()})
		return 1
	}

	cfg, err := resolveConfig(*configPtr, *envPtr)
	if err != nil {
		writeJSON(stderr, stdout, detect.NewErrorResult(err))
		return 0
	}

	cfg.ImagePath = fs.Arg(0)
	cfg.ShowStats = *statsPtr

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Model.Backend = *backendPtr
		case "model":
			cfg.Model.Path = *modelPtr
		case "names":
			cfg.Model.Names = *namesPtr
		case "remote-url":
			cfg.Model.RemoteURL = *remotePtr
		case "conf":
			cfg.Model.Confidence = *confPtr
		case "dpi":
			cfg.Source.PDFDPI = *dpiPtr
		case "log-level":
			cfg.Log.Level = *logLevelPtr
		case "log-file":
			cfg.Log.File = *logFilePtr
		}
	})

	if err := cfg.Validate(); err != nil {
		writeJSON(stderr, stdout, detect.NewErrorResult(err))
		return 0
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Color:  cfg.Log.Color,
		Output: stderr,
	})
	if err != nil {
		writeJSON(stderr, stdout, detect.NewErrorResult(err))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewDetectionProject(cfg, log)
	result, err := project.Run(ctx)
	if err != nil {
		log.WithError(err).Error("detection failed")
		writeJSON(stderr, stdout, detect.NewErrorResult(err))
		return 0
	}

	writeJSON(stderr, stdout, result)
	return 0
}

func resolveConfig(configPath, envPath string) (*config.Config, error) {
	if err := config.LoadEnv(envPath); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeJSON falls back to an error payload when v cannot be encoded, so
// stdout still carries one JSON line.
func writeJSON(stderr, stdout io.Writer, v any) {
	err := detect.WriteJSON(stdout, v)
	if err == nil {
		return
	}
	fmt.Fprintf(stderr, "write result: %v\n", err)

	if _, ok := v.(detect.ErrorResult); ok {
		return
	}
	if err := detect.WriteJSON(stdout, detect.NewErrorResult(err)); err != nil {
		fmt.Fprintf(stderr, "write error result: %v\n", err)
	}
}
