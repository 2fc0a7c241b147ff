// Package catalog provides a built-in reference of instruments and clefs
// with their written sounding ranges.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/cantus/pkg/pitch"
)

//go:embed instruments.yaml
var instrumentsYAML []byte

// ErrUnknownInstrument indicates a lookup for an instrument that is not in
// the catalog.
var ErrUnknownInstrument = errors.New("unknown instrument")

// ErrUnknownClef indicates a lookup for a clef that is not in the catalog.
var ErrUnknownClef = errors.New("unknown clef")

// Clef describes a clef and the staff position of middle C under it.
// Position 0 is the middle staff line; positive values are below it.
type Clef struct {
	Name            string `yaml:"name"`
	MiddleCPosition int    `yaml:"middle_c_position"`
}

// Range bounds an instrument's playable pitches, inclusive on both ends.
type Range struct {
	Low  string `yaml:"low"`
	High string `yaml:"high"`
}

// Instrument describes a catalog instrument: its default clef and range.
type Instrument struct {
	Name  string `yaml:"name"`
	Clef  string `yaml:"clef"`
	Range Range  `yaml:"range"`
}

// InRange reports whether the named pitch falls within the instrument's
// range. Malformed pitch names report false.
func (instrument Instrument) InRange(name string) bool {
	p, err := pitch.Parse(name)
	if err != nil {
		return false
	}

	low, err := pitch.Parse(instrument.Range.Low)
	if err != nil {
		return false
	}

	high, err := pitch.Parse(instrument.Range.High)
	if err != nil {
		return false
	}

	semitones := p.Semitones()

	return low.Semitones() <= semitones && semitones <= high.Semitones()
}

type catalogData struct {
	Clefs       []Clef       `yaml:"clefs"`
	Instruments []Instrument `yaml:"instruments"`
}

var (
	loadOnce sync.Once
	loaded   catalogData
	loadErr  error
)

func load() (catalogData, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(instrumentsYAML, &loaded)
		if loadErr != nil {
			loadErr = fmt.Errorf("decoding embedded catalog: %w", loadErr)
		}
	})

	return loaded, loadErr
}

// Instruments returns all catalog instruments sorted by name.
func Instruments() ([]Instrument, error) {
	data, err := load()
	if err != nil {
		return nil, err
	}

	instruments := make([]Instrument, len(data.Instruments))
	copy(instruments, data.Instruments)
	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Name < instruments[j].Name
	})

	return instruments, nil
}

// Clefs returns all catalog clefs in declaration order.
func Clefs() ([]Clef, error) {
	data, err := load()
	if err != nil {
		return nil, err
	}

	clefs := make([]Clef, len(data.Clefs))
	copy(clefs, data.Clefs)

	return clefs, nil
}

// LookupInstrument finds an instrument by name, case-insensitively.
func LookupInstrument(name string) (Instrument, error) {
	data, err := load()
	if err != nil {
		return Instrument{}, err
	}

	for _, instrument := range data.Instruments {
		if strings.EqualFold(instrument.Name, name) {
			return instrument, nil
		}
	}

	return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
}

// LookupClef finds a clef by name, case-insensitively.
func LookupClef(name string) (Clef, error) {
	data, err := load()
	if err != nil {
		return Clef{}, err
	}

	for _, clef := range data.Clefs {
		if strings.EqualFold(clef.Name, name) {
			return clef, nil
		}
	}

	return Clef{}, fmt.Errorf("%w: %q", ErrUnknownClef, name)
}
