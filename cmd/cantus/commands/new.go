package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/cantus/internal/config"
	"github.com/Sumatoshi-tech/cantus/pkg/catalog"
	"github.com/Sumatoshi-tech/cantus/pkg/scorejson"
)

// scaffoldFileMode is the permission set for written descriptors.
const scaffoldFileMode = 0o644

// maxScaffoldMeasures bounds the interactive measure count.
const maxScaffoldMeasures = 512

// ErrOutputExists indicates the scaffold target already exists.
var ErrOutputExists = errors.New("output file already exists")

var successStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#2CD7C7")).
	Bold(true)

// NewCommand holds configuration for the new command.
type NewCommand struct {
	name       string
	instrument string
	signature  string
	measures   string
	outputPath string
	force      bool
}

// NewNewCommand creates the new command.
func NewNewCommand() *cobra.Command {
	nc := &NewCommand{}

	cmd := &cobra.Command{
		Use:   "new [output.json]",
		Short: "Scaffold a score descriptor interactively",
		Long: `Scaffold a score descriptor: one staff with one voice of empty
measures, the instrument's clef attached to the first leaf.

Flags answer the prompts non-interactively.

Examples:
  cantus new
  cantus new --name etude --instrument cello --signature 3/4 --measures 8 etude.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				nc.outputPath = args[0]
			}

			return nc.run(cmd)
		},
	}

	cmd.Flags().StringVar(&nc.name, "name", "", "score name")
	cmd.Flags().StringVar(&nc.instrument, "instrument", "", "instrument from the built-in catalog")
	cmd.Flags().StringVar(&nc.signature, "signature", "4/4", "time signature")
	cmd.Flags().StringVar(&nc.measures, "measures", "4", "number of measures")
	cmd.Flags().BoolVar(&nc.force, "force", false, "overwrite an existing output file")

	return cmd
}

func (nc *NewCommand) run(cmd *cobra.Command) error {
	_, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	if nc.name == "" || nc.instrument == "" {
		promptErr := nc.prompt()
		if promptErr != nil {
			return fmt.Errorf("scaffold prompt: %w", promptErr)
		}
	}

	measureCount, err := strconv.Atoi(nc.measures)
	if err != nil || measureCount <= 0 || measureCount > maxScaffoldMeasures {
		return fmt.Errorf("bad measure count %q", nc.measures)
	}

	instrument, err := catalog.LookupInstrument(nc.instrument)
	if err != nil {
		return err
	}

	descriptor := scaffoldDescriptor(nc.name, nc.signature, measureCount, instrument)

	// Round-trip through the builder so a scaffold that does not load is
	// never written.
	if _, buildErr := scorejson.Build(descriptor); buildErr != nil {
		return fmt.Errorf("scaffold does not build: %w", buildErr)
	}

	encoded, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scaffold: %w", err)
	}

	encoded = append(encoded, '\n')

	outputPath := nc.outputPath
	if outputPath == "" {
		outputPath = nc.name + ".json"
	}

	if !nc.force {
		if _, statErr := os.Stat(outputPath); statErr == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, outputPath)
		}
	}

	writeErr := os.WriteFile(outputPath, encoded, scaffoldFileMode)
	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", outputPath, writeErr)
	}

	configPath, configErr := writeSeedConfig(filepath.Dir(outputPath))
	if configErr != nil {
		return configErr
	}

	logger.Info("scaffolded score", "output", outputPath, "measures", measureCount)
	fmt.Fprintln(os.Stdout, successStyle.Render(fmt.Sprintf("Created %s (%s, %s, %d measures)",
		outputPath, instrument.Name, nc.signature, measureCount)))

	if configPath != "" {
		fmt.Fprintln(os.Stdout, successStyle.Render("Created "+configPath))
	}

	return nil
}

// writeSeedConfig writes a default .cantus.yaml next to the scaffold
// unless one is already there. Returns the written path, or empty when
// the file existed.
func writeSeedConfig(dir string) (string, error) {
	configPath := filepath.Join(dir, ".cantus.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return "", nil
	}

	seed := map[string]any{
		"log":    map[string]any{"level": config.DefaultLogLevel, "format": config.DefaultLogFormat},
		"render": map[string]any{"indent": config.DefaultRenderIndent},
	}

	encoded, err := yaml.Marshal(seed)
	if err != nil {
		return "", fmt.Errorf("encoding seed config: %w", err)
	}

	if err := os.WriteFile(configPath, encoded, scaffoldFileMode); err != nil {
		return "", fmt.Errorf("writing %s: %w", configPath, err)
	}

	return configPath, nil
}

func (nc *NewCommand) prompt() error {
	instruments, err := catalog.Instruments()
	if err != nil {
		return err
	}

	options := make([]huh.Option[string], 0, len(instruments))
	for _, instrument := range instruments {
		options = append(options, huh.NewOption(instrument.Name, instrument.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Score name").
				Value(&nc.name).
				Validate(func(value string) error {
					if value == "" {
						return errors.New("name is required")
					}

					return nil
				}),
			huh.NewSelect[string]().
				Title("Instrument").
				Options(options...).
				Value(&nc.instrument),
			huh.NewInput().
				Title("Time signature").
				Value(&nc.signature),
			huh.NewInput().
				Title("Measures").
				Value(&nc.measures),
		),
	)

	return form.Run()
}

// scaffoldDescriptor builds a one-staff, one-voice descriptor of empty
// measures carrying the instrument's clef and the chosen meter.
func scaffoldDescriptor(name, signature string, measureCount int, instrument catalog.Instrument) scorejson.Descriptor {
	measures := make([]scorejson.Component, 0, measureCount)

	for i := 0; i < measureCount; i++ {
		measures = append(measures, scorejson.Component{
			Type:      "measure",
			Signature: signature,
			Components: []scorejson.Component{
				{Type: "skip", Duration: signature},
			},
		})
	}

	return scorejson.Descriptor{
		Name: name,
		Staves: []scorejson.StaffDescriptor{
			{
				Name: instrument.Name,
				Voices: []scorejson.VoiceDescriptor{
					{
						Name:       instrument.Name + "-1",
						Components: measures,
					},
				},
			},
		},
		Indicators: []scorejson.IndicatorDescriptor{
			{Type: "clef", Voice: instrument.Name + "-1", Index: 0, Value: instrument.Clef},
			{Type: "time-signature", Voice: instrument.Name + "-1", Index: 0, Value: signature},
		},
	}
}
