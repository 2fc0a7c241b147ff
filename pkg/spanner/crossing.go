package spanner

import (
	"sort"

	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

// ContiguityPartition splits an ordered component sequence into maximal
// runs where each component starts exactly where the previous one stops.
func ContiguityPartition(components []score.Component) [][]score.Component {
	if len(components) == 0 {
		return nil
	}

	var runs [][]score.Component

	run := []score.Component{components[0]}

	for _, component := range components[1:] {
		previous := run[len(run)-1]

		if score.StopOffset(previous).Equal(score.StartOffset(component)) {
			run = append(run, component)

			continue
		}

		runs = append(runs, run)
		run = []score.Component{component}
	}

	return append(runs, run)
}

// Crossing returns the spanners cut by the selection boundary: those
// referencing at least one component inside the selection and at least
// one outside. Only the edge components of each maximal contiguous run
// are probed, and for each of their spanners only the immediately
// adjacent member beyond the edge, so the cost is proportional to the
// boundary size times per-component spanner membership, not to the
// total spanner count in the score.
func (r *Registry) Crossing(selection []score.Component) []*Spanner {
	if len(selection) == 0 {
		return nil
	}

	inside := make(map[score.Component]struct{}, len(selection))
	for _, component := range selection {
		inside[component] = struct{}{}
	}

	crossing := make(map[Handle]*Spanner)

	for _, run := range ContiguityPartition(selection) {
		first, last := run[0], run[len(run)-1]

		for _, sp := range r.SpannersOn(first) {
			idx := sp.Index(first)
			if idx > 0 {
				if _, ok := inside[sp.members[idx-1]]; !ok {
					crossing[sp.handle] = sp
				}
			}
		}

		for _, sp := range r.SpannersOn(last) {
			idx := sp.Index(last)
			if 0 <= idx && idx < len(sp.members)-1 {
				if _, ok := inside[sp.members[idx+1]]; !ok {
					crossing[sp.handle] = sp
				}
			}
		}
	}

	spanners := make([]*Spanner, 0, len(crossing))
	for _, sp := range crossing {
		spanners = append(spanners, sp)
	}

	sort.Slice(spanners, func(i, j int) bool { return spanners[i].handle < spanners[j].handle })

	return spanners
}

// LeafHooks returns the LilyPond fragments the registered spanners
// contribute to the right of leaf, in handle order. Single-member
// spanners contribute nothing.
func (r *Registry) LeafHooks(leaf score.Component) []string {
	var hooks []string

	for _, sp := range r.SpannersOn(leaf) {
		if sp.Len() < 2 {
			continue
		}

		if sp.IsFirst(leaf) && sp.policy.Hooks.FirstRight != "" {
			hooks = append(hooks, sp.policy.Hooks.FirstRight)
		}

		if sp.IsLast(leaf) && sp.policy.Hooks.LastRight != "" {
			hooks = append(hooks, sp.policy.Hooks.LastRight)
		}

		if !sp.IsLast(leaf) && sp.policy.Hooks.EveryRightButLast != "" {
			hooks = append(hooks, sp.policy.Hooks.EveryRightButLast)
		}
	}

	return hooks
}
