// Package pitch provides named-pitch value objects with LilyPond
// spelling. Octave 0 is the octave of middle C, written c'.
package pitch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadPitchName is returned when a pitch name cannot be parsed.
var ErrBadPitchName = errors.New("pitch: malformed pitch name")

// Step bounds and alteration bounds for a valid pitch.
const (
	stepCount     = 7
	minAlteration = -2
	maxAlteration = 2
)

var stepNames = [stepCount]string{"c", "d", "e", "f", "g", "a", "b"}

// Semitone distance of each diatonic step above c.
var stepSemitones = [stepCount]int{0, 2, 4, 5, 7, 9, 11}

// Pitch is a named pitch: diatonic step, chromatic alteration, octave.
type Pitch struct {
	Step       int // 0..6 for c..b
	Alteration int // -2..2, flats negative
	Octave     int // 0 is the octave of middle C (c')
}

// New creates a pitch, validating step and alteration ranges.
func New(step, alteration, octave int) (Pitch, error) {
	if step < 0 || stepCount <= step {
		return Pitch{}, fmt.Errorf("step %d: %w", step, ErrBadPitchName)
	}

	if alteration < minAlteration || maxAlteration < alteration {
		return Pitch{}, fmt.Errorf("alteration %d: %w", alteration, ErrBadPitchName)
	}

	return Pitch{Step: step, Alteration: alteration, Octave: octave}, nil
}

// Semitones returns the chromatic pitch number, 0 for middle C.
func (p Pitch) Semitones() int {
	return p.Octave*12 + stepSemitones[p.Step] + p.Alteration
}

// Less orders pitches by sounding height.
func (p Pitch) Less(other Pitch) bool {
	return p.Semitones() < other.Semitones()
}

// Name renders the pitch in LilyPond absolute syntax, e.g. "cis'" or "ees,".
func (p Pitch) Name() string {
	var buf strings.Builder

	buf.WriteString(stepNames[p.Step])

	switch {
	case p.Alteration > 0:
		for i := 0; i < p.Alteration; i++ {
			buf.WriteString("is")
		}
	case p.Alteration < 0:
		for i := 0; i > p.Alteration; i-- {
			buf.WriteString("es")
		}
	}

	// Octave -1 is the unmarked octave: "c" with no ticks or commas.
	if p.Octave < 0 {
		for i := -2; i >= p.Octave; i-- {
			buf.WriteByte(',')
		}
	} else {
		for i := 0; i <= p.Octave; i++ {
			buf.WriteByte('\'')
		}
	}

	return buf.String()
}

// String is the LilyPond name.
func (p Pitch) String() string {
	return p.Name()
}

// Parse reads a LilyPond absolute pitch name such as "c'", "fis" or "bes,".
func Parse(name string) (Pitch, error) {
	if name == "" {
		return Pitch{}, fmt.Errorf("empty name: %w", ErrBadPitchName)
	}

	rest := name
	step := -1

	for idx, stepName := range stepNames {
		if strings.HasPrefix(rest, stepName) {
			step = idx

			break
		}
	}

	if step < 0 {
		return Pitch{}, fmt.Errorf("%q: %w", name, ErrBadPitchName)
	}

	rest = rest[1:]
	alteration := 0

	for {
		if strings.HasPrefix(rest, "is") {
			alteration++
			rest = rest[2:]

			continue
		}

		if strings.HasPrefix(rest, "es") {
			alteration--
			rest = rest[2:]

			continue
		}

		break
	}

	// "ees"/"aes" style flats write the e before the es suffix.
	if (step == 2 || step == 5) && strings.HasPrefix(rest, "s") {
		alteration--
		rest = rest[1:]
	}

	octave := -1

	for rest != "" {
		switch rest[0] {
		case '\'':
			octave++
		case ',':
			octave--
		default:
			return Pitch{}, fmt.Errorf("%q: %w", name, ErrBadPitchName)
		}

		rest = rest[1:]
	}

	return New(step, alteration, octave)
}
