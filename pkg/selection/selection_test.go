package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/cantus/pkg/pitch"
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

// buildMixedVoice builds a voice of note, rest, note, note, rest with
// quarter durations.
func buildMixedVoice(t *testing.T) (*score.Context, []score.Component) {
	t.Helper()

	voice := score.NewVoice("melody")

	var components []score.Component

	appendNote := func() {
		note, err := score.NewNote(pitch.Pitch{}, rational.MustDuration(1, 4))
		require.NoError(t, err)
		require.NoError(t, score.Append(voice, note))
		components = append(components, note)
	}

	appendRest := func() {
		rest, err := score.NewRest(rational.MustDuration(1, 4))
		require.NoError(t, err)
		require.NoError(t, score.Append(voice, rest))
		components = append(components, rest)
	}

	appendNote()
	appendRest()
	appendNote()
	appendNote()
	appendRest()

	return voice, components
}

func TestByLeaf(t *testing.T) {
	t.Parallel()

	voice, components := buildMixedVoice(t)

	state, err := Select().ByLeaf().Run(voice)
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.Len(t, state[0], len(components))
}

func TestByKind(t *testing.T) {
	t.Parallel()

	voice, _ := buildMixedVoice(t)

	state, err := Select().ByLeaf().ByKind(score.KindRest).Run(voice)
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.Len(t, state[0], 2)
}

func TestByDuration(t *testing.T) {
	t.Parallel()

	voice := score.NewVoice("melody")

	short, err := score.NewNote(pitch.Pitch{}, rational.MustDuration(1, 8))
	require.NoError(t, err)
	long, err := score.NewNote(pitch.Pitch{}, rational.MustDuration(1, 2))
	require.NoError(t, err)

	require.NoError(t, score.Append(voice, short, long))

	state, err := Select().ByLeaf().ByDuration(Greater, rational.MustDuration(1, 4)).Run(voice)
	require.NoError(t, err)
	require.Len(t, state, 1)
	require.Len(t, state[0], 1)
	assert.Same(t, score.Component(long), state[0][0])
}

func TestByRun(t *testing.T) {
	t.Parallel()

	voice, components := buildMixedVoice(t)

	state, err := Select().ByLeaf().ByRun(score.KindNote).Run(voice)
	require.NoError(t, err)

	// Two runs of notes: [0] and [2 3].
	require.Len(t, state, 2)
	assert.Equal(t, Selection{components[0]}, state[0])
	assert.Equal(t, Selection{components[2], components[3]}, state[1])
}

func TestGetItemAndSlice(t *testing.T) {
	t.Parallel()

	t.Run("negative_index_counts_from_end", func(t *testing.T) {
		t.Parallel()

		voice, components := buildMixedVoice(t)

		state, err := Select().ByLeaf().ByRun(score.KindNote).GetItem(-1).Run(voice)
		require.NoError(t, err)
		require.Len(t, state, 1)
		assert.Equal(t, Selection{components[2], components[3]}, state[0])
	})

	t.Run("out_of_range_is_empty", func(t *testing.T) {
		t.Parallel()

		voice, _ := buildMixedVoice(t)

		state, err := Select().ByLeaf().GetItem(3).Run(voice)
		require.NoError(t, err)
		assert.Empty(t, state)
	})

	t.Run("slice_bounds_clamped", func(t *testing.T) {
		t.Parallel()

		voice, _ := buildMixedVoice(t)

		state, err := Select().ByLeaf().ByRun(score.KindNote).GetSlice(0, 99).Run(voice)
		require.NoError(t, err)
		assert.Len(t, state, 2)
	})
}

func TestConstructionErrors(t *testing.T) {
	t.Parallel()

	t.Run("negative_length", func(t *testing.T) {
		t.Parallel()

		voice, _ := buildMixedVoice(t)

		_, err := Select().ByLeaf().ByLength(Equal, -1).Run(voice)
		require.ErrorIs(t, err, ErrBadCallback)
	})

	t.Run("first_error_wins", func(t *testing.T) {
		t.Parallel()

		voice, _ := buildMixedVoice(t)

		_, err := Select().ByLength(Equal, -1).PartitionByCounts(nil, false, false, 0).Run(voice)
		require.ErrorIs(t, err, ErrBadCallback)
		assert.Contains(t, err.Error(), "length")
	})

	t.Run("nil_sub_selector", func(t *testing.T) {
		t.Parallel()

		voice, _ := buildMixedVoice(t)

		_, err := Select().Map(nil).Run(voice)
		require.ErrorIs(t, err, ErrBadCallback)
	})
}

func TestFlattenAndDuration(t *testing.T) {
	t.Parallel()

	voice, _ := buildMixedVoice(t)

	state, err := Select().ByLeaf().ByRun(score.KindNote).Flatten().Run(voice)
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.Equal(t, "3/4", state[0].Duration().String())
}

func TestTop(t *testing.T) {
	t.Parallel()

	root := score.NewScore("piece")
	staff := score.NewStaff("upper")
	voice := score.NewVoice("melody")

	note, err := score.NewNote(pitch.Pitch{}, rational.MustDuration(1, 4))
	require.NoError(t, err)

	require.NoError(t, score.Append(voice, note))
	require.NoError(t, score.Append(staff, voice))
	require.NoError(t, score.Append(root, staff))

	state, err := Select().ByLeaf().Top().Run(root)
	require.NoError(t, err)
	require.Len(t, state, 1)
	require.Len(t, state[0], 1)
	assert.Same(t, score.Component(staff), state[0][0])
}
