// Package scorejson loads score descriptors from JSON. Input is checked
// against an embedded JSON schema before any tree is built, so builder
// errors only ever concern musical semantics, never shape.
package scorejson

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/cantus/pkg/indicator"
	"github.com/Sumatoshi-tech/cantus/pkg/pitch"
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
	"github.com/Sumatoshi-tech/cantus/pkg/spanner"
)

//go:embed score-schema.json
var schemaJSON []byte

// ErrSchemaViolation indicates the input does not satisfy the descriptor
// schema. The wrapped message lists every violation.
var ErrSchemaViolation = errors.New("score descriptor schema violation")

// ErrUnknownVoice indicates a spanner or indicator names a voice that the
// descriptor does not declare.
var ErrUnknownVoice = errors.New("unknown voice")

// ErrLeafIndex indicates a spanner or indicator addresses a leaf index
// outside its voice.
var ErrLeafIndex = errors.New("leaf index out of range")

// ErrDuplicateVoice indicates two voices declare the same name, which
// would make spanner and indicator targets ambiguous.
var ErrDuplicateVoice = errors.New("duplicate voice name")

// Descriptor is the top-level JSON document.
type Descriptor struct {
	Name       string                `json:"name"`
	Staves     []StaffDescriptor     `json:"staves"`
	Spanners   []SpannerDescriptor   `json:"spanners"`
	Indicators []IndicatorDescriptor `json:"indicators"`
}

// StaffDescriptor declares one staff and its voices.
type StaffDescriptor struct {
	Name   string            `json:"name"`
	Voices []VoiceDescriptor `json:"voices"`
}

// VoiceDescriptor declares one voice and its component sequence.
type VoiceDescriptor struct {
	Name       string      `json:"name"`
	Components []Component `json:"components"`
}

// Component is one node in a voice: a leaf or a nested container.
type Component struct {
	Type         string      `json:"type"`
	Pitch        string      `json:"pitch,omitempty"`
	Pitches      []string    `json:"pitches,omitempty"`
	Duration     string      `json:"duration,omitempty"`
	Multiplier   string      `json:"multiplier,omitempty"`
	Signature    string      `json:"signature,omitempty"`
	Simultaneous bool        `json:"simultaneous,omitempty"`
	Components   []Component `json:"components,omitempty"`
}

// SpannerDescriptor attaches a spanner over a closed leaf range of a voice.
// Start and Stop index the voice's leaves, inclusive on both ends.
type SpannerDescriptor struct {
	Type  string `json:"type"`
	Shape string `json:"shape,omitempty"`
	Voice string `json:"voice"`
	Start int    `json:"start"`
	Stop  int    `json:"stop"`
}

// IndicatorDescriptor attaches an indicator to one leaf of a voice.
type IndicatorDescriptor struct {
	Type  string `json:"type"`
	Voice string `json:"voice"`
	Index int    `json:"index"`
	Value string `json:"value"`
}

// Score bundles the built tree with its attachment tables.
type Score struct {
	Root        *score.Context
	Registry    *spanner.Registry
	Annotations *indicator.Annotations
}

// Load reads, validates and builds a score descriptor.
func Load(reader io.Reader) (*Score, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}

	return LoadBytes(raw)
}

// LoadBytes validates raw JSON against the embedded schema and builds the
// score it describes.
func LoadBytes(raw []byte) (*Score, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var descriptor Descriptor

	if err := json.Unmarshal(raw, &descriptor); err != nil {
		return nil, fmt.Errorf("decoding descriptor: %w", err)
	}

	return Build(descriptor)
}

func validateSchema(raw []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	inputLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, inputLoader)
	if err != nil {
		return fmt.Errorf("validating descriptor: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var messages []string

	for _, violation := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", violation.Field(), violation.Description()))
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(messages, "; "))
}

// Build constructs the score tree described by descriptor and performs
// the spanner and indicator attachments.
func Build(descriptor Descriptor) (*Score, error) {
	name := descriptor.Name
	if name == "" {
		name = "score"
	}

	root := score.NewScore(name)
	voices := make(map[string]*score.Context)

	for staffIndex, staffDesc := range descriptor.Staves {
		staff, err := buildStaff(staffIndex, staffDesc, voices)
		if err != nil {
			return nil, err
		}

		if err := score.Append(root, staff); err != nil {
			return nil, fmt.Errorf("appending staff %q: %w", staffDesc.Name, err)
		}
	}

	built := &Score{
		Root:        root,
		Registry:    spanner.NewRegistry(),
		Annotations: indicator.NewAnnotations(),
	}

	if err := attachSpanners(built, descriptor.Spanners, voices); err != nil {
		return nil, err
	}

	if err := attachIndicators(built, descriptor.Indicators, voices); err != nil {
		return nil, err
	}

	return built, nil
}

func buildStaff(index int, descriptor StaffDescriptor, voices map[string]*score.Context) (*score.Context, error) {
	staffName := descriptor.Name
	if staffName == "" {
		staffName = "staff-" + strconv.Itoa(index+1)
	}

	staff := score.NewStaff(staffName)

	for voiceIndex, voiceDesc := range descriptor.Voices {
		voiceName := voiceDesc.Name
		if voiceName == "" {
			voiceName = staffName + "-voice-" + strconv.Itoa(voiceIndex+1)
		}

		if _, taken := voices[voiceName]; taken {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateVoice, voiceName)
		}

		voice := score.NewVoice(voiceName)

		for _, componentDesc := range voiceDesc.Components {
			component, err := buildComponent(componentDesc)
			if err != nil {
				return nil, fmt.Errorf("voice %q: %w", voiceName, err)
			}

			if err := score.Append(voice, component); err != nil {
				return nil, fmt.Errorf("voice %q: %w", voiceName, err)
			}
		}

		voices[voiceName] = voice

		if err := score.Append(staff, voice); err != nil {
			return nil, fmt.Errorf("staff %q: %w", staffName, err)
		}
	}

	return staff, nil
}

func buildComponent(descriptor Component) (score.Component, error) {
	switch descriptor.Type {
	case "note":
		return buildNote(descriptor)
	case "rest":
		written, err := parseDuration(descriptor.Duration)
		if err != nil {
			return nil, err
		}

		return score.NewRest(written)
	case "chord":
		return buildChord(descriptor)
	case "skip":
		written, err := parseDuration(descriptor.Duration)
		if err != nil {
			return nil, err
		}

		return score.NewSkip(written)
	case "tuplet":
		return buildTuplet(descriptor)
	case "measure":
		return buildMeasure(descriptor)
	case "container":
		return buildContainer(descriptor)
	default:
		return nil, fmt.Errorf("unsupported component type %q", descriptor.Type)
	}
}

func buildNote(descriptor Component) (score.Component, error) {
	written, err := parseDuration(descriptor.Duration)
	if err != nil {
		return nil, err
	}

	notePitch, err := pitch.Parse(descriptor.Pitch)
	if err != nil {
		return nil, fmt.Errorf("note pitch %q: %w", descriptor.Pitch, err)
	}

	return score.NewNote(notePitch, written)
}

func buildChord(descriptor Component) (score.Component, error) {
	written, err := parseDuration(descriptor.Duration)
	if err != nil {
		return nil, err
	}

	pitches := make([]pitch.Pitch, 0, len(descriptor.Pitches))

	for _, name := range descriptor.Pitches {
		chordPitch, err := pitch.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("chord pitch %q: %w", name, err)
		}

		pitches = append(pitches, chordPitch)
	}

	return score.NewChord(pitches, written)
}

func buildTuplet(descriptor Component) (score.Component, error) {
	numerator, denominator, err := parsePair(descriptor.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("tuplet multiplier: %w", err)
	}

	mult, err := rational.NewMultiplier(numerator, denominator)
	if err != nil {
		return nil, fmt.Errorf("tuplet multiplier: %w", err)
	}

	tuplet := score.NewTuplet(mult)

	for _, childDesc := range descriptor.Components {
		child, err := buildComponent(childDesc)
		if err != nil {
			return nil, err
		}

		if err := score.Append(tuplet, child); err != nil {
			return nil, err
		}
	}

	return tuplet, nil
}

func buildMeasure(descriptor Component) (score.Component, error) {
	numerator, denominator, err := parsePair(descriptor.Signature)
	if err != nil {
		return nil, fmt.Errorf("measure signature: %w", err)
	}

	measure := score.NewMeasure(rational.Pair{Numerator: int(numerator), Denominator: int(denominator)})

	for _, childDesc := range descriptor.Components {
		child, err := buildComponent(childDesc)
		if err != nil {
			return nil, err
		}

		if err := score.Append(measure, child); err != nil {
			return nil, err
		}
	}

	return measure, nil
}

func buildContainer(descriptor Component) (score.Component, error) {
	var container *score.Container

	if descriptor.Simultaneous {
		container = score.NewSimultaneousContainer()
	} else {
		container = score.NewContainer()
	}

	for _, childDesc := range descriptor.Components {
		child, err := buildComponent(childDesc)
		if err != nil {
			return nil, err
		}

		if err := score.Append(container, child); err != nil {
			return nil, err
		}
	}

	return container, nil
}

func attachSpanners(built *Score, descriptors []SpannerDescriptor, voices map[string]*score.Context) error {
	for _, descriptor := range descriptors {
		members, err := leafRange(voices, descriptor.Voice, descriptor.Start, descriptor.Stop)
		if err != nil {
			return fmt.Errorf("spanner %q: %w", descriptor.Type, err)
		}

		policy, err := spannerPolicy(descriptor)
		if err != nil {
			return err
		}

		if _, err := built.Registry.Attach(policy, members...); err != nil {
			return fmt.Errorf("attaching %s on voice %q: %w", descriptor.Type, descriptor.Voice, err)
		}
	}

	return nil
}

func spannerPolicy(descriptor SpannerDescriptor) (spanner.Policy, error) {
	switch descriptor.Type {
	case "beam":
		return spanner.Beam(), nil
	case "slur":
		return spanner.Slur(), nil
	case "tie":
		return spanner.Tie(), nil
	case "trill":
		return spanner.Trill(), nil
	case "hairpin":
		shape := spanner.Crescendo
		if descriptor.Shape == "decrescendo" {
			shape = spanner.Decrescendo
		}

		return spanner.Hairpin(shape), nil
	default:
		return spanner.Policy{}, fmt.Errorf("unsupported spanner type %q", descriptor.Type)
	}
}

func attachIndicators(built *Score, descriptors []IndicatorDescriptor, voices map[string]*score.Context) error {
	for _, descriptor := range descriptors {
		leaves, err := leafRange(voices, descriptor.Voice, descriptor.Index, descriptor.Index)
		if err != nil {
			return fmt.Errorf("indicator %q: %w", descriptor.Type, err)
		}

		ind, err := buildIndicator(descriptor)
		if err != nil {
			return err
		}

		built.Annotations.Attach(leaves[0], ind)
	}

	return nil
}

func buildIndicator(descriptor IndicatorDescriptor) (indicator.Indicator, error) {
	switch descriptor.Type {
	case "clef":
		return indicator.Clef{Name: descriptor.Value}, nil
	case "time-signature":
		numerator, denominator, err := parsePair(descriptor.Value)
		if err != nil {
			return nil, fmt.Errorf("time signature: %w", err)
		}

		return indicator.TimeSignature{
			Pair: rational.Pair{Numerator: int(numerator), Denominator: int(denominator)},
		}, nil
	case "dynamic":
		return indicator.Dynamic{Name: descriptor.Value}, nil
	case "literal":
		return indicator.LilyPondLiteral{Text: descriptor.Value, At: indicator.SlotAfter}, nil
	default:
		return nil, fmt.Errorf("unsupported indicator type %q", descriptor.Type)
	}
}

// leafRange resolves a closed leaf index range within a named voice.
func leafRange(voices map[string]*score.Context, voice string, start, stop int) ([]score.Component, error) {
	ctx, found := voices[voice]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVoice, voice)
	}

	leaves := score.Leaves(ctx)
	if start < 0 || stop >= len(leaves) || start > stop {
		return nil, fmt.Errorf("%w: [%d, %d] in voice of %d leaves", ErrLeafIndex, start, stop, len(leaves))
	}

	members := make([]score.Component, 0, stop-start+1)

	for _, leaf := range leaves[start : stop+1] {
		members = append(members, leaf)
	}

	return members, nil
}

func parseDuration(text string) (rational.Duration, error) {
	numerator, denominator, err := parsePair(text)
	if err != nil {
		return rational.Duration{}, fmt.Errorf("duration: %w", err)
	}

	duration, err := rational.NewDuration(numerator, denominator)
	if err != nil {
		return rational.Duration{}, fmt.Errorf("duration %q: %w", text, err)
	}

	return duration, nil
}

func parsePair(text string) (int64, int64, error) {
	numeratorText, denominatorText, found := strings.Cut(text, "/")
	if !found {
		return 0, 0, fmt.Errorf("malformed fraction %q", text)
	}

	numerator, err := strconv.ParseInt(numeratorText, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed fraction %q: %w", text, err)
	}

	denominator, err := strconv.ParseInt(denominatorText, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed fraction %q: %w", text, err)
	}

	return numerator, denominator, nil
}
