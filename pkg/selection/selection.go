// Package selection provides composable read-only queries over the
// component tree. A Selector is a left-to-right pipeline of pure,
// order-preserving callbacks; execution never mutates the tree and
// never fails at run time — malformed pipeline configuration is
// detected when the selector is built and reported by Run.
package selection

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
	"github.com/Sumatoshi-tech/cantus/pkg/spanner"
)

// ErrBadCallback is returned by Run when a callback was configured with
// invalid parameters at construction time.
var ErrBadCallback = errors.New("selection: malformed callback configuration")

// Selection is an ephemeral ordered sequence of components produced by a
// query. It does not own or copy the components it references.
type Selection []score.Component

// Duration returns the summed prolated duration of the selection.
func (sel Selection) Duration() rational.Duration {
	var total rational.Duration

	for _, component := range sel {
		total = total.Add(score.ProlatedDuration(component))
	}

	return total
}

// callback transforms an ordered sequence of selections into another.
type callback func(state []Selection) []Selection

// Selector is a composable query pipeline over the component tree.
type Selector struct {
	callbacks []callback
	registry  *spanner.Registry
	err       error
}

// Select starts an empty selector pipeline.
func Select() *Selector {
	return &Selector{}
}

// WithRegistry supplies the spanner registry consulted by tie-aware
// callbacks such as ByLogicalTie.
func (s *Selector) WithRegistry(registry *spanner.Registry) *Selector {
	s.registry = registry

	return s
}

func (s *Selector) push(cb callback) *Selector {
	s.callbacks = append(s.callbacks, cb)

	return s
}

func (s *Selector) fail(err error) *Selector {
	if s.err == nil {
		s.err = err
	}

	return s
}

// Run executes the pipeline against root. The initial state is a single
// selection holding root. Run reports only construction-time errors; an
// unmatched query yields an empty result.
func (s *Selector) Run(root score.Component) ([]Selection, error) {
	if s.err != nil {
		return nil, s.err
	}

	state := []Selection{{root}}

	for _, cb := range s.callbacks {
		state = cb(state)
	}

	return state, nil
}

// ByLeaf replaces each selection with the leaves beneath its components,
// in score order.
func (s *Selector) ByLeaf() *Selector {
	return s.push(func(state []Selection) []Selection {
		out := make([]Selection, 0, len(state))

		for _, sel := range state {
			var leaves Selection

			for _, component := range sel {
				for _, leaf := range score.Leaves(component) {
					leaves = append(leaves, leaf)
				}
			}

			out = append(out, leaves)
		}

		return out
	})
}

// ByKind keeps only components of the given kinds within each selection.
func (s *Selector) ByKind(kinds ...score.Kind) *Selector {
	return s.push(func(state []Selection) []Selection {
		out := make([]Selection, 0, len(state))

		for _, sel := range state {
			var kept Selection

			for _, component := range sel {
				if kindIn(component.Kind(), kinds) {
					kept = append(kept, component)
				}
			}

			out = append(out, kept)
		}

		return out
	})
}

// Comparator selects the comparison applied by ByDuration and ByLength.
type Comparator int

// Comparison operators.
const (
	Less Comparator = iota
	LessEqual
	Equal
	GreaterEqual
	Greater
)

func (c Comparator) admits(cmp int) bool {
	switch c {
	case Less:
		return cmp < 0
	case LessEqual:
		return cmp <= 0
	case Equal:
		return cmp == 0
	case GreaterEqual:
		return cmp >= 0
	case Greater:
		return cmp > 0
	default:
		return false
	}
}

// ByDuration keeps only leaves whose written duration satisfies the
// comparison against reference.
func (s *Selector) ByDuration(op Comparator, reference rational.Duration) *Selector {
	if op < Less || Greater < op {
		return s.fail(fmt.Errorf("unknown comparator %d: %w", op, ErrBadCallback))
	}

	return s.push(func(state []Selection) []Selection {
		out := make([]Selection, 0, len(state))

		for _, sel := range state {
			var kept Selection

			for _, component := range sel {
				leaf, ok := component.(score.Leaf)
				if !ok {
					continue
				}

				if op.admits(leaf.WrittenDuration().Cmp(reference)) {
					kept = append(kept, component)
				}
			}

			out = append(out, kept)
		}

		return out
	})
}

// ByLength keeps only selections whose component count satisfies the
// comparison against length. Negative lengths are rejected.
func (s *Selector) ByLength(op Comparator, length int) *Selector {
	if length < 0 {
		return s.fail(fmt.Errorf("negative length %d: %w", length, ErrBadCallback))
	}

	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			if op.admits(compareInt(len(sel), length)) {
				out = append(out, sel)
			}
		}

		return out
	})
}

// ByContiguity regroups each selection into maximal temporally
// contiguous runs.
func (s *Selector) ByContiguity() *Selector {
	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			for _, run := range spanner.ContiguityPartition(sel) {
				out = append(out, Selection(run))
			}
		}

		return out
	})
}

// ByRun regroups each selection into maximal contiguous runs of leaves
// matching the given kinds; non-matching components break and are
// excluded from runs.
func (s *Selector) ByRun(kinds ...score.Kind) *Selector {
	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			out = append(out, splitRuns(sel, kinds)...)
		}

		return out
	})
}

// Flatten merges all selections into a single selection, preserving
// order.
func (s *Selector) Flatten() *Selector {
	return s.push(func(state []Selection) []Selection {
		var merged Selection

		for _, sel := range state {
			merged = append(merged, sel...)
		}

		return []Selection{merged}
	})
}

// GetItem keeps only the index-th selection; negative indices count from
// the end. Out-of-range indices yield an empty state.
func (s *Selector) GetItem(index int) *Selector {
	return s.push(func(state []Selection) []Selection {
		idx := index
		if idx < 0 {
			idx += len(state)
		}

		if idx < 0 || len(state) <= idx {
			return nil
		}

		return []Selection{state[idx]}
	})
}

// GetSlice keeps the selections in [from, to); negative bounds count
// from the end. Bounds are clamped.
func (s *Selector) GetSlice(from, to int) *Selector {
	return s.push(func(state []Selection) []Selection {
		lo, hi := from, to
		if lo < 0 {
			lo += len(state)
		}

		if hi < 0 {
			hi += len(state)
		}

		lo = clamp(lo, 0, len(state))
		hi = clamp(hi, 0, len(state))

		if hi <= lo {
			return nil
		}

		return append([]Selection(nil), state[lo:hi]...)
	})
}

// Map runs a sub-selector over each selection independently and
// concatenates the results.
func (s *Selector) Map(sub *Selector) *Selector {
	if sub == nil {
		return s.fail(fmt.Errorf("nil sub-selector: %w", ErrBadCallback))
	}

	if sub.err != nil {
		return s.fail(sub.err)
	}

	return s.push(func(state []Selection) []Selection {
		var out []Selection

		for _, sel := range state {
			sub.registry = s.registry
			group := []Selection{sel}

			for _, cb := range sub.callbacks {
				group = cb(group)
			}

			out = append(out, group...)
		}

		return out
	})
}

// Top replaces each component with its outermost ancestor strictly below
// the tree root, deduplicating consecutive repeats.
func (s *Selector) Top() *Selector {
	return s.push(func(state []Selection) []Selection {
		out := make([]Selection, 0, len(state))

		for _, sel := range state {
			var tops Selection

			for _, component := range sel {
				top := topAncestor(component)
				if len(tops) == 0 || tops[len(tops)-1] != top {
					tops = append(tops, top)
				}
			}

			out = append(out, tops)
		}

		return out
	})
}

func topAncestor(component score.Component) score.Component {
	current := component

	for current.Parent() != nil && current.Parent().Parent() != nil {
		current = current.Parent()
	}

	if current.Parent() != nil {
		return current
	}

	return component
}

func splitRuns(sel Selection, kinds []score.Kind) []Selection {
	var (
		out []Selection
		run Selection
	)

	flush := func() {
		if len(run) > 0 {
			out = append(out, run)
			run = nil
		}
	}

	for _, component := range sel {
		if !kindIn(component.Kind(), kinds) {
			flush()

			continue
		}

		if len(run) > 0 {
			previous := run[len(run)-1]
			if !score.StopOffset(previous).Equal(score.StartOffset(component)) {
				flush()
			}
		}

		run = append(run, component)
	}

	flush()

	return out
}

func kindIn(kind score.Kind, kinds []score.Kind) bool {
	for _, candidate := range kinds {
		if kind == candidate {
			return true
		}
	}

	return false
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}
