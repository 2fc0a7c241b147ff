package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/cantus/pkg/pitch"
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

func newQuarter(t *testing.T) *score.Note {
	t.Helper()

	note, err := score.NewNote(pitch.Pitch{}, rational.MustDuration(1, 4))
	require.NoError(t, err)

	return note
}

func TestFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ind  Indicator
		slot Slot
		text string
	}{
		{"clef", Clef{Name: "bass"}, SlotOpening, `\clef bass`},
		{"time_signature", TimeSignature{Pair: rational.Pair{Numerator: 3, Denominator: 4}}, SlotOpening, `\time 3/4`},
		{"dynamic", Dynamic{Name: "mf"}, SlotAfter, `\mf`},
		{"literal", LilyPondLiteral{Text: `\bar "|."`, At: SlotClosing}, SlotClosing, `\bar "|."`},
		{"system_break", SystemBreak{}, SlotAfter, `\break`},
		{"page_break", PageBreak{}, SlotAfter, `\pageBreak`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.slot, tt.ind.Slot())
			assert.Equal(t, tt.text, tt.ind.Format())
		})
	}
}

func TestAnnotations(t *testing.T) {
	t.Parallel()

	t.Run("attach_order_preserved", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		note := newQuarter(t)

		annotations.Attach(note, Dynamic{Name: "p"})
		annotations.Attach(note, Dynamic{Name: "f"})

		attached := annotations.On(note)
		require.Len(t, attached, 2)
		assert.Equal(t, `\p`, attached[0].Format())
		assert.Equal(t, `\f`, attached[1].Format())
	})

	t.Run("in_slot_filters", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		note := newQuarter(t)

		annotations.Attach(note, Clef{Name: "alto"})
		annotations.Attach(note, Dynamic{Name: "p"})

		opening := annotations.InSlot(note, SlotOpening)
		require.Len(t, opening, 1)
		assert.Equal(t, `\clef alto`, opening[0].Format())
	})

	t.Run("detach_by_concrete_type", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		note := newQuarter(t)

		annotations.Attach(note, Dynamic{Name: "p"})
		annotations.Attach(note, Dynamic{Name: "f"})
		annotations.Attach(note, Clef{Name: "bass"})

		removed := annotations.Detach(note, Dynamic{})
		assert.Equal(t, 2, removed)
		require.Len(t, annotations.On(note), 1)
	})

	t.Run("component_detached_drops_all", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		voice := score.NewVoice("melody")
		note := newQuarter(t)
		require.NoError(t, score.Append(voice, note))

		annotations.Attach(note, Dynamic{Name: "p"})

		require.NoError(t, score.Remove(note, annotations))
		assert.Empty(t, annotations.On(note))
	})
}

func TestEffectiveResolution(t *testing.T) {
	t.Parallel()

	t.Run("latest_preceding_wins", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		voice := score.NewVoice("melody")

		notes := make([]*score.Note, 4)
		for i := range notes {
			notes[i] = newQuarter(t)
			require.NoError(t, score.Append(voice, notes[i]))
		}

		annotations.Attach(notes[0], Clef{Name: "treble"})
		annotations.Attach(notes[2], Clef{Name: "bass"})

		assert.Equal(t, "treble", annotations.EffectiveClef(notes[1], "alto"))
		assert.Equal(t, "bass", annotations.EffectiveClef(notes[2], "alto"))
		assert.Equal(t, "bass", annotations.EffectiveClef(notes[3], "alto"))
	})

	t.Run("fallback_when_nothing_attached", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		note := newQuarter(t)

		assert.Equal(t, "treble", annotations.EffectiveClef(note, "treble"))
	})

	t.Run("time_signature_falls_back_to_measure", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		measure := score.NewMeasure(rational.Pair{Numerator: 6, Denominator: 8})
		note := newQuarter(t)
		require.NoError(t, score.Append(measure, note))

		got := annotations.EffectiveTimeSignature(note, rational.Pair{Numerator: 4, Denominator: 4})
		assert.Equal(t, rational.Pair{Numerator: 6, Denominator: 8}, got)
	})

	t.Run("explicit_signature_beats_measure", func(t *testing.T) {
		t.Parallel()

		annotations := NewAnnotations()
		measure := score.NewMeasure(rational.Pair{Numerator: 6, Denominator: 8})
		note := newQuarter(t)
		require.NoError(t, score.Append(measure, note))

		annotations.Attach(note, TimeSignature{Pair: rational.Pair{Numerator: 2, Denominator: 4}})

		got := annotations.EffectiveTimeSignature(note, rational.Pair{Numerator: 4, Denominator: 4})
		assert.Equal(t, rational.Pair{Numerator: 2, Denominator: 4}, got)
	})
}
