package lily

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/cantus/pkg/indicator"
	"github.com/Sumatoshi-tech/cantus/pkg/pitch"
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
	"github.com/Sumatoshi-tech/cantus/pkg/spanner"
)

func mustPitch(t *testing.T, name string) pitch.Pitch {
	t.Helper()

	p, err := pitch.Parse(name)
	require.NoError(t, err)

	return p
}

func mustNote(t *testing.T, name string, num, den int64) *score.Note {
	t.Helper()

	note, err := score.NewNote(mustPitch(t, name), rational.MustDuration(num, den))
	require.NoError(t, err)

	return note
}

func TestLeafBodies(t *testing.T) {
	t.Parallel()

	t.Run("note", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "c'4", Format(mustNote(t, "c'", 1, 4)))
	})

	t.Run("dotted_note", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "fis'4.", Format(mustNote(t, "fis'", 3, 8)))
	})

	t.Run("chord", func(t *testing.T) {
		t.Parallel()

		chord, err := score.NewChord([]pitch.Pitch{
			mustPitch(t, "c'"),
			mustPitch(t, "e'"),
			mustPitch(t, "g'"),
		}, rational.MustDuration(1, 2))
		require.NoError(t, err)

		assert.Equal(t, "<c' e' g'>2", Format(chord))
	})

	t.Run("rest", func(t *testing.T) {
		t.Parallel()

		rest, err := score.NewRest(rational.MustDuration(1, 8))
		require.NoError(t, err)

		assert.Equal(t, "r8", Format(rest))
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()

		skip, err := score.NewSkip(rational.MustDuration(1, 1))
		require.NoError(t, err)

		assert.Equal(t, "s1", Format(skip))
	})

	t.Run("breve", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, `c'\breve`, Format(mustNote(t, "c'", 2, 1)))
	})

	t.Run("unassignable_duration_falls_back", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "c'5/8", Format(mustNote(t, "c'", 5, 8)))
	})
}

func TestContainers(t *testing.T) {
	t.Parallel()

	t.Run("sequential_container", func(t *testing.T) {
		t.Parallel()

		container := score.NewContainer()
		require.NoError(t, score.Append(container, mustNote(t, "c'", 1, 4), mustNote(t, "d'", 1, 4)))

		want := "{\n" +
			"    c'4\n" +
			"    d'4\n" +
			"}"
		assert.Equal(t, want, Format(container))
	})

	t.Run("simultaneous_container", func(t *testing.T) {
		t.Parallel()

		container := score.NewSimultaneousContainer()
		require.NoError(t, score.Append(container, mustNote(t, "c'", 1, 4)))

		want := "<<\n" +
			"    c'4\n" +
			">>"
		assert.Equal(t, want, Format(container))
	})

	t.Run("tuplet", func(t *testing.T) {
		t.Parallel()

		tuplet := score.NewTuplet(rational.MustMultiplier(2, 3))
		require.NoError(t, score.Append(tuplet,
			mustNote(t, "c'", 1, 8),
			mustNote(t, "d'", 1, 8),
			mustNote(t, "e'", 1, 8),
		))

		want := `\times 2/3 {` + "\n" +
			"    c'8\n" +
			"    d'8\n" +
			"    e'8\n" +
			"}"
		assert.Equal(t, want, Format(tuplet))
	})

	t.Run("measure", func(t *testing.T) {
		t.Parallel()

		measure := score.NewMeasure(rational.Pair{Numerator: 2, Denominator: 4})
		require.NoError(t, score.Append(measure, mustNote(t, "c'", 1, 2)))

		want := "{ % measure 2/4\n" +
			"    c'2\n" +
			"}"
		assert.Equal(t, want, Format(measure))
	})

	t.Run("named_voice", func(t *testing.T) {
		t.Parallel()

		voice := score.NewVoice("melody")
		require.NoError(t, score.Append(voice, mustNote(t, "c'", 1, 4)))

		want := `\context Voice = "melody" {` + "\n" +
			"    c'4\n" +
			"}"
		assert.Equal(t, want, Format(voice))
	})

	t.Run("anonymous_staff", func(t *testing.T) {
		t.Parallel()

		staff := score.NewStaff("")
		require.NoError(t, score.Append(staff, mustNote(t, "c'", 1, 4)))

		want := `\new Staff {` + "\n" +
			"    c'4\n" +
			"}"
		assert.Equal(t, want, Format(staff))
	})

	t.Run("score_is_simultaneous", func(t *testing.T) {
		t.Parallel()

		root := score.NewScore("piece")
		staff := score.NewStaff("upper")
		require.NoError(t, score.Append(staff, mustNote(t, "c'", 1, 4)))
		require.NoError(t, score.Append(root, staff))

		want := `\context Score = "piece" <<` + "\n" +
			`    \context Staff = "upper" {` + "\n" +
			"        c'4\n" +
			"    }\n" +
			">>"
		assert.Equal(t, want, Format(root))
	})
}

func TestSpannerHooks(t *testing.T) {
	t.Parallel()

	t.Run("beam_brackets", func(t *testing.T) {
		t.Parallel()

		registry := spanner.NewRegistry()
		voice := score.NewVoice("melody")
		first := mustNote(t, "c'", 1, 8)
		middle := mustNote(t, "d'", 1, 8)
		last := mustNote(t, "e'", 1, 8)
		require.NoError(t, score.Append(voice, first, middle, last))

		_, err := registry.Attach(spanner.Beam(), first, middle, last)
		require.NoError(t, err)

		renderer := Renderer{Registry: registry}
		want := `\context Voice = "melody" {` + "\n" +
			"    c'8 [\n" +
			"    d'8\n" +
			"    e'8 ]\n" +
			"}"
		assert.Equal(t, want, renderer.Format(voice))
	})

	t.Run("tie_on_every_leaf_but_last", func(t *testing.T) {
		t.Parallel()

		registry := spanner.NewRegistry()
		voice := score.NewVoice("melody")
		first := mustNote(t, "c'", 1, 4)
		second := mustNote(t, "c'", 1, 4)
		require.NoError(t, score.Append(voice, first, second))

		_, err := registry.Attach(spanner.Tie(), first, second)
		require.NoError(t, err)

		renderer := Renderer{Registry: registry}
		want := `\context Voice = "melody" {` + "\n" +
			"    c'4 ~\n" +
			"    c'4\n" +
			"}"
		assert.Equal(t, want, renderer.Format(voice))
	})

	t.Run("hairpin_wedge", func(t *testing.T) {
		t.Parallel()

		registry := spanner.NewRegistry()
		voice := score.NewVoice("melody")
		first := mustNote(t, "c'", 1, 4)
		second := mustNote(t, "d'", 1, 4)
		require.NoError(t, score.Append(voice, first, second))

		_, err := registry.Attach(spanner.Hairpin(spanner.Crescendo), first, second)
		require.NoError(t, err)

		renderer := Renderer{Registry: registry}
		want := `\context Voice = "melody" {` + "\n" +
			`    c'4 \<` + "\n" +
			`    d'4 \!` + "\n" +
			"}"
		assert.Equal(t, want, renderer.Format(voice))
	})
}

func TestIndicatorSlots(t *testing.T) {
	t.Parallel()

	t.Run("clef_and_time_on_leaf_line", func(t *testing.T) {
		t.Parallel()

		annotations := indicator.NewAnnotations()
		voice := score.NewVoice("melody")
		note := mustNote(t, "c'", 1, 4)
		require.NoError(t, score.Append(voice, note))

		annotations.Attach(note, indicator.Clef{Name: "treble"})
		annotations.Attach(note, indicator.TimeSignature{Pair: rational.Pair{Numerator: 4, Denominator: 4}})
		annotations.Attach(note, indicator.Dynamic{Name: "p"})

		renderer := Renderer{Annotations: annotations}
		want := `\context Voice = "melody" {` + "\n" +
			`    \clef treble \time 4/4 c'4 \p` + "\n" +
			"}"
		assert.Equal(t, want, renderer.Format(voice))
	})

	t.Run("container_slots", func(t *testing.T) {
		t.Parallel()

		annotations := indicator.NewAnnotations()
		container := score.NewContainer()
		require.NoError(t, score.Append(container, mustNote(t, "c'", 1, 4)))

		annotations.Attach(container, indicator.LilyPondLiteral{Text: `% before`, At: indicator.SlotBefore})
		annotations.Attach(container, indicator.Clef{Name: "bass"})
		annotations.Attach(container, indicator.LilyPondLiteral{Text: `\bar "|."`, At: indicator.SlotClosing})
		annotations.Attach(container, indicator.SystemBreak{})

		renderer := Renderer{Annotations: annotations}
		want := "% before\n" +
			"{\n" +
			`    \clef bass` + "\n" +
			"    c'4\n" +
			`    \bar "|."` + "\n" +
			"}\n" +
			`\break`
		assert.Equal(t, want, renderer.Format(container))
	})
}

func TestIndentOverride(t *testing.T) {
	t.Parallel()

	container := score.NewContainer()
	require.NoError(t, score.Append(container, mustNote(t, "c'", 1, 4)))

	renderer := Renderer{Indent: "\t"}
	want := "{\n" +
		"\tc'4\n" +
		"}"
	assert.Equal(t, want, renderer.Format(container))
}
