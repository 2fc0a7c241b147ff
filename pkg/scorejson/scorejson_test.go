package scorejson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/cantus/pkg/lily"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

const minimalDescriptor = `{
	"name": "piece",
	"staves": [
		{
			"name": "upper",
			"voices": [
				{
					"name": "melody",
					"components": [
						{"type": "note", "pitch": "c'", "duration": "1/4"},
						{"type": "note", "pitch": "d'", "duration": "1/4"},
						{"type": "note", "pitch": "e'", "duration": "1/4"},
						{"type": "rest", "duration": "1/4"}
					]
				}
			]
		}
	]
}`

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("minimal_descriptor", func(t *testing.T) {
		t.Parallel()

		built, err := Load(strings.NewReader(minimalDescriptor))
		require.NoError(t, err)

		assert.Equal(t, "piece", built.Root.Name())
		require.Equal(t, 1, built.Root.Len())
		assert.Len(t, score.Leaves(built.Root), 4)
		assert.Equal(t, 0, built.Registry.Len())
	})

	t.Run("schema_violation", func(t *testing.T) {
		t.Parallel()

		_, err := Load(strings.NewReader(`{"staves": "nope"}`))
		require.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("missing_staves", func(t *testing.T) {
		t.Parallel()

		_, err := Load(strings.NewReader(`{"name": "piece"}`))
		require.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("bad_duration_shape", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"components": [{"type": "note", "pitch": "c'", "duration": "quarter"}]}]}]
		}`
		_, err := Load(strings.NewReader(input))
		require.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("not_json", func(t *testing.T) {
		t.Parallel()

		_, err := Load(strings.NewReader("staves:\n  - name: upper\n"))
		require.Error(t, err)
	})
}

func TestBuildComponents(t *testing.T) {
	t.Parallel()

	t.Run("nested_containers", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"name": "melody", "components": [
				{"type": "measure", "signature": "2/4", "components": [
					{"type": "tuplet", "multiplier": "2/3", "components": [
						{"type": "note", "pitch": "c'", "duration": "1/8"},
						{"type": "note", "pitch": "d'", "duration": "1/8"},
						{"type": "note", "pitch": "e'", "duration": "1/8"}
					]},
					{"type": "chord", "pitches": ["c'", "e'"], "duration": "1/4"}
				]}
			]}]}]
		}`

		built, err := LoadBytes([]byte(input))
		require.NoError(t, err)

		leaves := score.Leaves(built.Root)
		require.Len(t, leaves, 4)
		assert.Equal(t, score.KindChord, leaves[3].Kind())
		assert.Equal(t, "1/2", score.ProlatedDuration(built.Root).String())
	})

	t.Run("default_names", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"components": [
				{"type": "skip", "duration": "1/1"}
			]}]}],
			"indicators": [
				{"type": "clef", "voice": "staff-1-voice-1", "index": 0, "value": "treble"}
			]
		}`

		built, err := LoadBytes([]byte(input))
		require.NoError(t, err)

		staff, ok := built.Root.Child(0).(*score.Context)
		require.True(t, ok)
		assert.Equal(t, "staff-1", staff.Name())

		voice, ok := staff.Child(0).(*score.Context)
		require.True(t, ok)
		assert.Equal(t, "staff-1-voice-1", voice.Name())
	})

	t.Run("duplicate_voice_name", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [
				{"voices": [{"name": "melody", "components": [
					{"type": "note", "pitch": "c'", "duration": "1/4"}
				]}]},
				{"voices": [{"name": "melody", "components": [
					{"type": "note", "pitch": "c", "duration": "1/4"}
				]}]}
			]
		}`

		_, err := LoadBytes([]byte(input))
		require.ErrorIs(t, err, ErrDuplicateVoice)
	})

	t.Run("bad_pitch", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"components": [
				{"type": "note", "pitch": "h'", "duration": "1/4"}
			]}]}]
		}`

		_, err := LoadBytes([]byte(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"h'"`)
	})
}

func TestAttachments(t *testing.T) {
	t.Parallel()

	t.Run("spanners_and_indicators", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"name": "melody", "components": [
				{"type": "note", "pitch": "c'", "duration": "1/8"},
				{"type": "note", "pitch": "d'", "duration": "1/8"},
				{"type": "note", "pitch": "e'", "duration": "1/8"},
				{"type": "note", "pitch": "f'", "duration": "1/8"}
			]}]}],
			"spanners": [
				{"type": "beam", "voice": "melody", "start": 0, "stop": 3},
				{"type": "hairpin", "shape": "decrescendo", "voice": "melody", "start": 0, "stop": 3}
			],
			"indicators": [
				{"type": "clef", "voice": "melody", "index": 0, "value": "treble"},
				{"type": "dynamic", "voice": "melody", "index": 0, "value": "f"}
			]
		}`

		built, err := LoadBytes([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, 2, built.Registry.Len())

		leaves := score.Leaves(built.Root)
		require.Len(t, leaves, 4)

		hooks := built.Registry.LeafHooks(leaves[0])
		assert.Contains(t, hooks, "[")
		assert.Contains(t, hooks, `\>`)

		rendered := lily.Renderer{
			Registry:    built.Registry,
			Annotations: built.Annotations,
		}.Format(built.Root)
		assert.Contains(t, rendered, `\clef treble c'8 [ \> \f`)
		assert.Contains(t, rendered, `f'8 ] \!`)
	})

	t.Run("unknown_voice", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"name": "melody", "components": [
				{"type": "note", "pitch": "c'", "duration": "1/4"},
				{"type": "note", "pitch": "d'", "duration": "1/4"}
			]}]}],
			"spanners": [{"type": "slur", "voice": "bass", "start": 0, "stop": 1}]
		}`

		_, err := LoadBytes([]byte(input))
		require.ErrorIs(t, err, ErrUnknownVoice)
	})

	t.Run("leaf_index_out_of_range", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"name": "melody", "components": [
				{"type": "note", "pitch": "c'", "duration": "1/4"},
				{"type": "note", "pitch": "d'", "duration": "1/4"}
			]}]}],
			"spanners": [{"type": "beam", "voice": "melody", "start": 1, "stop": 2}]
		}`

		_, err := LoadBytes([]byte(input))
		require.ErrorIs(t, err, ErrLeafIndex)
	})

	t.Run("inverted_range", func(t *testing.T) {
		t.Parallel()

		input := `{
			"staves": [{"voices": [{"name": "melody", "components": [
				{"type": "note", "pitch": "c'", "duration": "1/4"},
				{"type": "note", "pitch": "d'", "duration": "1/4"}
			]}]}],
			"indicators": [{"type": "dynamic", "voice": "melody", "index": 5, "value": "p"}]
		}`

		_, err := LoadBytes([]byte(input))
		require.ErrorIs(t, err, ErrLeafIndex)
	})
}
