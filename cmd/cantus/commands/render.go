package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/pkg/lily"
	"github.com/Sumatoshi-tech/cantus/pkg/wellformed"
)

// outputFileMode is the permission set for written LilyPond files.
const outputFileMode = 0o644

// RenderCommand holds configuration for the render command.
type RenderCommand struct {
	outputPath string
	skipChecks bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	rc := &RenderCommand{}

	cmd := &cobra.Command{
		Use:   "render <score.json|->",
		Short: "Render a score descriptor as LilyPond source",
		Long: `Render a score descriptor as LilyPond source.

The descriptor is checked for well-formedness before rendering unless
--skip-checks is given.

Examples:
  cantus render score.json
  cantus render - < score.json
  cantus render --output score.ly score.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&rc.outputPath, "output", "o", "", "write LilyPond source to file instead of stdout")
	cmd.Flags().BoolVar(&rc.skipChecks, "skip-checks", false, "render without running well-formedness checks")

	return cmd
}

func (rc *RenderCommand) run(cmd *cobra.Command, inputPath string) error {
	cfg, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	built, err := loadScore(inputPath)
	if err != nil {
		return err
	}

	if !rc.skipChecks {
		report := wellformed.Validate(built.Root, built.Registry)
		if !report.IsWellFormed() {
			violations := report.Violations()

			for _, violation := range violations {
				logger.Error("well-formedness violation",
					"check", violation.Check,
					"detail", violation.Message)
			}

			return fmt.Errorf("score %s is not well formed (%d violations)",
				inputLabel(inputPath), len(violations))
		}
	}

	renderer := lily.Renderer{
		Registry:    built.Registry,
		Annotations: built.Annotations,
		Indent:      strings.Repeat(" ", cfg.Render.Indent),
	}

	source := renderer.Format(built.Root) + "\n"

	if rc.outputPath == "" {
		fmt.Fprint(os.Stdout, source)

		return nil
	}

	writeErr := os.WriteFile(rc.outputPath, []byte(source), outputFileMode)
	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", rc.outputPath, writeErr)
	}

	logger.Info("rendered score", "input", inputLabel(inputPath), "output", rc.outputPath)

	return nil
}
