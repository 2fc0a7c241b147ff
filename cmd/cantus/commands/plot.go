package commands

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cantus/pkg/score"
	"github.com/Sumatoshi-tech/cantus/pkg/scorejson"
)

// PlotCommand holds configuration for the plot command.
type PlotCommand struct {
	outputPath string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	pc := &PlotCommand{}

	cmd := &cobra.Command{
		Use:   "plot <score.json|->",
		Short: "Chart a score's leaf durations over time",
		Long: `Chart a score's prolated leaf durations against their start
offsets, writing an HTML page.

Examples:
  cantus plot score.json
  cantus plot --output timing.html score.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return pc.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&pc.outputPath, "output", "o", "score.html", "output HTML path")

	return cmd
}

func (pc *PlotCommand) run(cmd *cobra.Command, inputPath string) error {
	cfg, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	built, err := loadScore(inputPath)
	if err != nil {
		return err
	}

	chart := buildDurationChart(built, cfg.Plot.Theme, cfg.Plot.Width, cfg.Plot.Height)

	file, err := os.Create(pc.outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", pc.outputPath, err)
	}
	defer file.Close()

	renderErr := chart.Render(file)
	if renderErr != nil {
		return fmt.Errorf("rendering chart: %w", renderErr)
	}

	logger.Info("plotted score", "input", inputLabel(inputPath), "output", pc.outputPath)

	return nil
}

func buildDurationChart(built *scorejson.Score, theme, width, height string) *charts.Bar {
	leaves := score.Leaves(built.Root)

	labels := make([]string, len(leaves))
	durations := make([]opts.BarData, len(leaves))

	for index, leaf := range leaves {
		labels[index] = score.StartOffset(leaf).String()
		durations[index] = opts.BarData{Value: score.ProlatedDuration(leaf).Float64()}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  theme,
			Width:  width,
			Height: height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Leaf durations",
			Subtitle: "Prolated duration per leaf, by start offset (whole notes)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Start offset"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Duration"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Duration", durations)

	return bar
}
