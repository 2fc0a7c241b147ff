package selection

import (
	"fmt"

	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

const tiePolicyName = "tie"

// ByLogicalTie regroups each selection's leaves into logical ties:
// maximal runs of leaves joined pairwise by tie spanners. Untied leaves
// form singleton groups. Requires a registry (see WithRegistry); without
// one every leaf is its own logical tie.
func (s *Selector) ByLogicalTie() *Selector {
	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			out = append(out, s.logicalTies(sel)...)
		}

		return out
	})
}

func (s *Selector) logicalTies(sel Selection) []Selection {
	var (
		out []Selection
		tie Selection
	)

	for _, component := range sel {
		if _, ok := component.(score.Leaf); !ok {
			continue
		}

		if len(tie) > 0 && s.tiedTogether(tie[len(tie)-1], component) {
			tie = append(tie, component)

			continue
		}

		if len(tie) > 0 {
			out = append(out, tie)
		}

		tie = Selection{component}
	}

	if len(tie) > 0 {
		out = append(out, tie)
	}

	return out
}

// tiedTogether reports whether next immediately follows previous inside
// some tie spanner.
func (s *Selector) tiedTogether(previous, next score.Component) bool {
	if s.registry == nil {
		return false
	}

	for _, sp := range s.registry.SpannersOn(previous) {
		if sp.Policy().Name != tiePolicyName {
			continue
		}

		idx := sp.Index(previous)
		members := sp.Members()

		if idx >= 0 && idx+1 < len(members) && members[idx+1] == next {
			return true
		}
	}

	return false
}

// ByLogicalMeasure groups each selection's components by their nearest
// Measure ancestor, keeping score order. Components outside any measure
// group with their measureless neighbors.
func (s *Selector) ByLogicalMeasure() *Selector {
	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			out = append(out, groupByMeasure(sel)...)
		}

		return out
	})
}

func groupByMeasure(sel Selection) []Selection {
	var (
		out     []Selection
		group   Selection
		current *score.Measure
		seeded  bool
	)

	for _, component := range sel {
		measure := enclosingMeasure(component)

		if seeded && measure == current {
			group = append(group, component)

			continue
		}

		if len(group) > 0 {
			out = append(out, group)
		}

		group = Selection{component}
		current = measure
		seeded = true
	}

	if len(group) > 0 {
		out = append(out, group)
	}

	return out
}

func enclosingMeasure(component score.Component) *score.Measure {
	for _, ancestor := range score.Parentage(component) {
		if measure, ok := ancestor.(*score.Measure); ok {
			return measure
		}
	}

	return nil
}

// PartitionByCounts partitions each selection's components into groups
// of the given sizes. With cyclic the counts repeat; with overhang a
// final undersized group is kept; rotation rotates the count sequence
// before use, enabling alternating patterns. Counts must be positive.
func (s *Selector) PartitionByCounts(counts []int, cyclic, overhang bool, rotation int) *Selector {
	if len(counts) == 0 {
		return s.fail(fmt.Errorf("empty counts: %w", ErrBadCallback))
	}

	for _, count := range counts {
		if count <= 0 {
			return s.fail(fmt.Errorf("nonpositive count %d: %w", count, ErrBadCallback))
		}
	}

	rotated := rotateCounts(counts, rotation)

	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			out = append(out, partitionByCounts(sel, rotated, cyclic, overhang)...)
		}

		return out
	})
}

func rotateCounts(counts []int, rotation int) []int {
	length := len(counts)

	shift := rotation % length
	if shift < 0 {
		shift += length
	}

	rotated := make([]int, 0, length)
	rotated = append(rotated, counts[shift:]...)
	rotated = append(rotated, counts[:shift]...)

	return rotated
}

func partitionByCounts(sel Selection, counts []int, cyclic, overhang bool) []Selection {
	var out []Selection

	position := 0

	for idx := 0; position < len(sel); idx++ {
		if idx >= len(counts) && !cyclic {
			break
		}

		count := counts[idx%len(counts)]

		end := position + count
		if end > len(sel) {
			if !overhang {
				break
			}

			end = len(sel)
		}

		out = append(out, sel[position:end])
		position = end
	}

	return out
}

// PartitionByRatio partitions each selection into len(ratio) groups
// whose lengths approximate the ratio, boundaries rounded to nearest.
// Ratio parts must be positive.
func (s *Selector) PartitionByRatio(ratio []int) *Selector {
	if len(ratio) == 0 {
		return s.fail(fmt.Errorf("empty ratio: %w", ErrBadCallback))
	}

	total := 0

	for _, part := range ratio {
		if part <= 0 {
			return s.fail(fmt.Errorf("nonpositive ratio part %d: %w", part, ErrBadCallback))
		}

		total += part
	}

	parts := append([]int(nil), ratio...)

	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			out = append(out, partitionByRatio(sel, parts, total)...)
		}

		return out
	})
}

func partitionByRatio(sel Selection, ratio []int, total int) []Selection {
	out := make([]Selection, 0, len(ratio))

	cumulative := 0
	previous := 0

	for _, part := range ratio {
		cumulative += part

		// Round half up, matching integer division by ratio.
		boundary := (len(sel)*cumulative*2 + total) / (total * 2)

		out = append(out, sel[previous:boundary])
		previous = boundary
	}

	return out
}
