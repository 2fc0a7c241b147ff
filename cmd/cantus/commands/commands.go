// Package commands implements CLI command handlers for cantus.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/internal/config"
	"github.com/Sumatoshi-tech/cantus/pkg/observability"
	"github.com/Sumatoshi-tech/cantus/pkg/scorejson"
)

// stdinPath is the input argument selecting standard input.
const stdinPath = "-"

// loadEnvironment resolves the runtime configuration and process logger
// for a command invocation.
func loadEnvironment(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		configPath = ""
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := observability.NewLogger(observability.Config{
		Level: observability.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.Format == "json",
	})

	return cfg, logger, nil
}

// loadScore reads and builds a score descriptor from a path or stdin.
func loadScore(inputPath string) (*scorejson.Score, error) {
	var reader io.Reader

	if inputPath == stdinPath {
		reader = os.Stdin
	} else {
		file, err := os.Open(inputPath)
		if err != nil {
			return nil, fmt.Errorf("opening score descriptor: %w", err)
		}
		defer file.Close()

		reader = file
	}

	built, err := scorejson.Load(reader)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", inputLabel(inputPath), err)
	}

	return built, nil
}

func inputLabel(inputPath string) string {
	if inputPath == stdinPath {
		return "stdin"
	}

	return inputPath
}
