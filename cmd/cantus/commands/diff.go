package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/pkg/lily"
)

// diffArgCount is the number of descriptors the diff command compares.
const diffArgCount = 2

// DiffCommand holds configuration for the diff command.
type DiffCommand struct {
	noColor bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand() *cobra.Command {
	dc := &DiffCommand{}

	cmd := &cobra.Command{
		Use:   "diff <a.json> <b.json>",
		Short: "Compare the rendered output of two score descriptors",
		Long: `Render two score descriptors and show a line diff of their
LilyPond output. Exits non-zero when the outputs differ.

Examples:
  cantus diff before.json after.json`,
		Args: cobra.ExactArgs(diffArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dc.run(cmd, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&dc.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (dc *DiffCommand) run(cmd *cobra.Command, leftPath, rightPath string) error {
	cfg, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	if dc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	indent := strings.Repeat(" ", cfg.Render.Indent)

	leftSource, err := renderForDiff(leftPath, indent)
	if err != nil {
		return err
	}

	rightSource, err := renderForDiff(rightPath, indent)
	if err != nil {
		return err
	}

	if leftSource == rightSource {
		color.New(color.FgGreen).Fprintln(os.Stdout, "Rendered outputs are identical")

		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(leftSource, rightSource, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	printDiffs(diffs)

	logger.Debug("rendered diff", "left", leftPath, "right", rightPath, "hunks", len(diffs))

	return fmt.Errorf("rendered outputs differ: %s vs %s", leftPath, rightPath)
}

func renderForDiff(inputPath, indent string) (string, error) {
	built, err := loadScore(inputPath)
	if err != nil {
		return "", err
	}

	renderer := lily.Renderer{
		Registry:    built.Registry,
		Annotations: built.Annotations,
		Indent:      indent,
	}

	return renderer.Format(built.Root), nil
}

func printDiffs(diffs []diffmatchpatch.Diff) {
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			color.New(color.FgRed).Fprint(os.Stdout, prefixLines(diff.Text, "-"))
		case diffmatchpatch.DiffInsert:
			color.New(color.FgGreen).Fprint(os.Stdout, prefixLines(diff.Text, "+"))
		case diffmatchpatch.DiffEqual:
			fmt.Fprint(os.Stdout, prefixLines(diff.Text, " "))
		}
	}

	fmt.Fprintln(os.Stdout)
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		if line != "" {
			lines[index] = prefix + " " + line
		}
	}

	return strings.Join(lines, "\n")
}
