package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/pkg/lily"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

// InspectCommand holds configuration for the inspect command.
type InspectCommand struct {
	showLeaves bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	ic := &InspectCommand{}

	cmd := &cobra.Command{
		Use:   "inspect <score.json|->",
		Short: "Summarize a score descriptor's structure and timing",
		Long: `Summarize a score descriptor: component counts per kind, total
duration, and spanner attachments.

Examples:
  cantus inspect score.json
  cantus inspect --leaves score.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ic.run(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&ic.showLeaves, "leaves", false, "list every leaf with its offsets")

	return cmd
}

func (ic *InspectCommand) run(cmd *cobra.Command, inputPath string) error {
	_, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	built, err := loadScore(inputPath)
	if err != nil {
		return err
	}

	counts := make(map[score.Kind]int)
	total := 0

	score.Walk(built.Root, func(component score.Component) bool {
		counts[component.Kind()]++
		total++

		return true
	})

	logger.Debug("inspected score", "input", inputLabel(inputPath), "components", total)

	fmt.Fprintf(os.Stdout, "Score: %s\n", inputLabel(inputPath))
	fmt.Fprintf(os.Stdout, "Components: %s\n", humanize.Comma(int64(total)))
	fmt.Fprintf(os.Stdout, "Duration: %s whole notes\n", score.ProlatedDuration(built.Root))
	fmt.Fprintf(os.Stdout, "Spanners: %d\n", built.Registry.Len())

	rendered := lily.Renderer{Registry: built.Registry, Annotations: built.Annotations}.Format(built.Root)
	fmt.Fprintf(os.Stdout, "Rendered size: %s\n\n", humanize.Bytes(uint64(len(rendered))))

	fmt.Fprintln(os.Stdout, kindTable(counts))

	if ic.showLeaves {
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, leafTable(built.Root))
	}

	return nil
}

func kindTable(counts map[score.Kind]int) string {
	kinds := make([]score.Kind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Kind", "Count"})

	for _, kind := range kinds {
		tbl.AppendRow(table.Row{kind.String(), humanize.Comma(int64(counts[kind]))})
	}

	return tbl.Render()
}

func leafTable(root score.Component) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"#", "Kind", "Written", "Prolated", "Start", "Stop"})

	for index, leaf := range score.Leaves(root) {
		tbl.AppendRow(table.Row{
			index,
			leaf.Kind().String(),
			leaf.WrittenDuration().String(),
			score.ProlatedDuration(leaf).String(),
			score.StartOffset(leaf).String(),
			score.StopOffset(leaf).String(),
		})
	}

	return tbl.Render()
}
