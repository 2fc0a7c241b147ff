// Package config defines the cantus runtime configuration and its loader.
package config

import (
	"errors"
	"fmt"
)

// Default configuration values.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultRenderIndent = 4
	DefaultPlotTheme    = "westeros"
	DefaultPlotWidth    = "900px"
	DefaultPlotHeight   = "500px"
)

// ErrBadLogLevel indicates an unrecognized log level name.
var ErrBadLogLevel = errors.New("bad log level")

// ErrBadLogFormat indicates an unrecognized log format name.
var ErrBadLogFormat = errors.New("bad log format")

// ErrBadIndent indicates a non-positive render indent width.
var ErrBadIndent = errors.New("render indent must be positive")

// Config is the full cantus configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Render   RenderConfig   `mapstructure:"render"`
	Validation ValidateConfig `mapstructure:"validate"`
	Plot     PlotConfig     `mapstructure:"plot"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig controls LilyPond text emission.
type RenderConfig struct {
	Indent int `mapstructure:"indent"`
}

// ValidateConfig controls the well-formedness run.
type ValidateConfig struct {
	Checks   []string `mapstructure:"checks"`
	FailFast bool     `mapstructure:"fail_fast"`
}

// PlotConfig controls chart output.
type PlotConfig struct {
	Theme  string `mapstructure:"theme"`
	Width  string `mapstructure:"width"`
	Height string `mapstructure:"height"`
}

// Validate checks the configuration for contradictions.
func (cfg *Config) Validate() error {
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrBadLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrBadLogFormat, cfg.Log.Format)
	}

	if cfg.Render.Indent <= 0 {
		return fmt.Errorf("%w: %d", ErrBadIndent, cfg.Render.Indent)
	}

	return nil
}
