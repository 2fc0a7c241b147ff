package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/pkg/wellformed"
)

// ErrUnknownCheck indicates a requested check name is not registered.
var ErrUnknownCheck = errors.New("unknown check")

// ErrNotWellFormed indicates the score failed validation.
var ErrNotWellFormed = errors.New("score is not well formed")

// ValidateCommand holds configuration for the validate command.
type ValidateCommand struct {
	checkNames []string
	failFast   bool
	noColor    bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	vc := &ValidateCommand{}

	cmd := &cobra.Command{
		Use:   "validate <score.json|->",
		Short: "Run well-formedness checks on a score descriptor",
		Long: `Run well-formedness checks on a score descriptor.

Examples:
  cantus validate score.json
  cantus validate - < score.json
  cantus validate --checks offset-cross-check,empty-containers score.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return vc.run(cmd, args[0])
		},
	}

	cmd.Flags().StringSliceVar(&vc.checkNames, "checks", nil,
		"check names to run (default: all)")
	cmd.Flags().BoolVar(&vc.failFast, "fail-fast", false, "stop at the first failing check")
	cmd.Flags().BoolVar(&vc.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (vc *ValidateCommand) run(cmd *cobra.Command, inputPath string) error {
	cfg, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	if vc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	if len(vc.checkNames) == 0 {
		vc.checkNames = cfg.Validation.Checks
	}

	if !cmd.Flags().Changed("fail-fast") {
		vc.failFast = cfg.Validation.FailFast
	}

	built, err := loadScore(inputPath)
	if err != nil {
		return err
	}

	checks, err := selectChecks(vc.checkNames)
	if err != nil {
		return err
	}

	var violations []wellformed.Violation

	for _, check := range checks {
		found := check.Run(built.Root, built.Registry)
		violations = append(violations, found...)

		if vc.failFast && len(found) > 0 {
			break
		}
	}

	logger.Debug("validation finished",
		"input", inputLabel(inputPath),
		"checks", len(checks),
		"violations", len(violations))

	if len(violations) == 0 {
		color.New(color.FgGreen).Fprintf(os.Stdout, "Score is well formed (%s)\n", inputLabel(inputPath))

		return nil
	}

	color.New(color.FgRed).Fprintf(os.Stdout, "Score validation failed (%s)\n\n", inputLabel(inputPath))
	fmt.Fprintln(os.Stdout, violationTable(violations))

	return fmt.Errorf("%w: %d violations", ErrNotWellFormed, len(violations))
}

// selectChecks resolves check names against the default check set. An
// empty selection runs every check.
func selectChecks(names []string) ([]wellformed.Check, error) {
	available := wellformed.DefaultChecks()
	if len(names) == 0 {
		return available, nil
	}

	byName := make(map[string]wellformed.Check, len(available))
	for _, check := range available {
		byName[check.Name()] = check
	}

	selected := make([]wellformed.Check, 0, len(names))

	for _, name := range names {
		check, found := byName[name]
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
		}

		selected = append(selected, check)
	}

	return selected, nil
}

func violationTable(violations []wellformed.Violation) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Check", "Subject", "Message"})

	for _, violation := range violations {
		tbl.AppendRow(table.Row{violation.Check, violation.Subject, violation.Message})
	}

	tbl.AppendFooter(table.Row{"", "", fmt.Sprintf("Total: %d violations", len(violations))})

	return tbl.Render()
}
