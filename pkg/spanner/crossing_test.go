package spanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

func TestContiguityPartition(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ContiguityPartition(nil))
	})

	t.Run("contiguous_voice_is_one_run", func(t *testing.T) {
		t.Parallel()

		_, leaves := buildVoice(t, 4)

		runs := ContiguityPartition(leaves)
		require.Len(t, runs, 1)
		assert.Len(t, runs[0], 4)
	})

	t.Run("skipped_leaf_breaks_the_run", func(t *testing.T) {
		t.Parallel()

		_, leaves := buildVoice(t, 4)

		runs := ContiguityPartition([]score.Component{leaves[0], leaves[2], leaves[3]})
		require.Len(t, runs, 2)
		assert.Len(t, runs[0], 1)
		assert.Len(t, runs[1], 2)
	})
}

func TestCrossing(t *testing.T) {
	t.Parallel()

	t.Run("boundary_cuts_both_spanners", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 5)

		beam, err := registry.Attach(Beam(), leaves[0], leaves[1], leaves[2])
		require.NoError(t, err)
		slur, err := registry.Attach(Slur(), leaves[2], leaves[3], leaves[4])
		require.NoError(t, err)

		crossing := registry.Crossing([]score.Component{leaves[1], leaves[2], leaves[3]})
		require.Len(t, crossing, 2)
		assert.Equal(t, beam, crossing[0].Handle())
		assert.Equal(t, slur, crossing[1].Handle())
	})

	t.Run("selection_covering_all_members_crosses_nothing", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 5)

		_, err := registry.Attach(Beam(), leaves[0], leaves[1], leaves[2])
		require.NoError(t, err)
		_, err = registry.Attach(Slur(), leaves[2], leaves[3], leaves[4])
		require.NoError(t, err)

		assert.Empty(t, registry.Crossing(leaves))
	})

	t.Run("fully_contained_spanner_does_not_cross", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 4)

		_, err := registry.Attach(Beam(), leaves[1], leaves[2])
		require.NoError(t, err)

		assert.Empty(t, registry.Crossing([]score.Component{leaves[0], leaves[1], leaves[2], leaves[3]}))
	})

	t.Run("empty_selection", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		assert.Nil(t, registry.Crossing(nil))
	})
}

func TestLeafHooks(t *testing.T) {
	t.Parallel()

	t.Run("beam_brackets", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 3)

		_, err := registry.Attach(Beam(), leaves...)
		require.NoError(t, err)

		assert.Equal(t, []string{"["}, registry.LeafHooks(leaves[0]))
		assert.Empty(t, registry.LeafHooks(leaves[1]))
		assert.Equal(t, []string{"]"}, registry.LeafHooks(leaves[2]))
	})

	t.Run("tie_marks_every_leaf_but_last", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 3)

		_, err := registry.Attach(Tie(), leaves...)
		require.NoError(t, err)

		assert.Equal(t, []string{"~"}, registry.LeafHooks(leaves[0]))
		assert.Equal(t, []string{"~"}, registry.LeafHooks(leaves[1]))
		assert.Empty(t, registry.LeafHooks(leaves[2]))
	})

	t.Run("hairpin_shapes", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 2)

		_, err := registry.Attach(Hairpin(Decrescendo), leaves...)
		require.NoError(t, err)

		assert.Equal(t, []string{`\>`}, registry.LeafHooks(leaves[0]))
		assert.Equal(t, []string{`\!`}, registry.LeafHooks(leaves[1]))
	})

	t.Run("single_member_fragment_is_silent", func(t *testing.T) {
		t.Parallel()

		registry := NewRegistry()
		_, leaves := buildVoice(t, 3)

		_, err := registry.Attach(Beam(), leaves...)
		require.NoError(t, err)

		require.NoError(t, score.Remove(leaves[1], registry))

		assert.Empty(t, registry.LeafHooks(leaves[0]))
		assert.Empty(t, registry.LeafHooks(leaves[2]))
	})
}
