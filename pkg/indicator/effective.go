package indicator

import (
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

// EffectiveTimeSignature resolves the time signature in force at
// component: the most recent TimeSignature attached at or before it in
// score order, walking from the tree root. Falls back to the enclosing
// measure's declared signature, then to fallback.
func (a *Annotations) EffectiveTimeSignature(component score.Component, fallback rational.Pair) rational.Pair {
	if ts, ok := latestBefore[TimeSignature](a, component); ok {
		return ts.Pair
	}

	for _, ancestor := range score.Parentage(component) {
		if measure, ok := ancestor.(*score.Measure); ok {
			return measure.TimeSignature()
		}
	}

	return fallback
}

// EffectiveClef resolves the clef in force at component, falling back to
// the given default when no clef is attached at or before it.
func (a *Annotations) EffectiveClef(component score.Component, fallback string) string {
	if clef, ok := latestBefore[Clef](a, component); ok {
		return clef.Name
	}

	return fallback
}

// latestBefore scans the score in order from the root, tracking the last
// indicator of type T seen at or before target.
func latestBefore[T Indicator](a *Annotations, target score.Component) (T, bool) {
	var (
		latest T
		found  bool
	)

	root := score.Root(target)
	reached := false

	score.Walk(root, func(component score.Component) bool {
		if reached {
			return false
		}

		for _, ind := range a.table[component] {
			if typed, ok := ind.(T); ok {
				latest = typed
				found = true
			}
		}

		if component == target {
			reached = true

			return false
		}

		return true
	})

	return latest, found
}
