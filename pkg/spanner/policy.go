// Package spanner tracks cross-cutting relations (beams, slurs,
// hairpins, ties, trills) over ordered sets of components that are not
// subtrees. Spanners live in a registry arena keyed by opaque handles;
// components never hold spanner pointers, so membership cleanup is an
// explicit index update rather than a garbage-collection concern.
package spanner

// SplitPolicy decides how a spanner reconciles membership when one of
// its components is detached from the tree. The registry provides the
// mechanism; each spanner type picks the decision.
type SplitPolicy int

const (
	// SplitOnGap splits the spanner into one spanner per remaining
	// contiguous run of members, beams and ties at measure cuts.
	SplitOnGap SplitPolicy = iota
	// Truncate keeps only the run containing the spanner's first
	// remaining member, the way slurs and hairpins terminate at a cut.
	Truncate
	// Drop removes just the detached reference and tolerates the gap.
	Drop
	// Flag keeps the remaining members untouched and leaves the
	// discontiguity for the well-formedness validator to report.
	Flag
)

var splitPolicyNames = [...]string{"split-on-gap", "truncate", "drop", "flag"}

// String names the policy.
func (sp SplitPolicy) String() string {
	if sp < 0 || int(sp) >= len(splitPolicyNames) {
		return "unknown"
	}

	return splitPolicyNames[sp]
}

// Hooks carries the LilyPond fragments a spanner contributes to the
// right of its member leaves.
type Hooks struct {
	// FirstRight is emitted after the spanner's first leaf.
	FirstRight string
	// LastRight is emitted after the spanner's last leaf.
	LastRight string
	// EveryRightButLast is emitted after every leaf except the last.
	EveryRightButLast string
}

// Policy is the capability record parameterizing a spanner type: the
// attachment test, the splitting decision, and the format hooks. One
// Spanner type composed with a Policy replaces a subtype per relation.
type Policy struct {
	Name       string
	MinCount   int
	LeavesOnly bool
	SameThread bool
	Contiguous bool
	Split      SplitPolicy
	Hooks      Hooks
}

// Beam groups at least two leaves under one beam.
func Beam() Policy {
	return Policy{
		Name:       "beam",
		MinCount:   2,
		LeavesOnly: true,
		SameThread: true,
		Contiguous: true,
		Split:      SplitOnGap,
		Hooks:      Hooks{FirstRight: "[", LastRight: "]"},
	}
}

// Slur connects at least two leaves with a phrasing slur.
func Slur() Policy {
	return Policy{
		Name:       "slur",
		MinCount:   2,
		LeavesOnly: true,
		SameThread: true,
		Contiguous: true,
		Split:      Truncate,
		Hooks:      Hooks{FirstRight: "(", LastRight: ")"},
	}
}

// HairpinShape selects crescendo or decrescendo.
type HairpinShape int

// Hairpin shapes.
const (
	Crescendo HairpinShape = iota
	Decrescendo
)

// Hairpin spans a dynamic wedge over at least two leaves.
func Hairpin(shape HairpinShape) Policy {
	open := `\<`
	if shape == Decrescendo {
		open = `\>`
	}

	return Policy{
		Name:       "hairpin",
		MinCount:   2,
		LeavesOnly: true,
		SameThread: true,
		Contiguous: true,
		Split:      Truncate,
		Hooks:      Hooks{FirstRight: open, LastRight: `\!`},
	}
}

// Tie joins at least two same-pitch leaves into one sustained event.
func Tie() Policy {
	return Policy{
		Name:       "tie",
		MinCount:   2,
		LeavesOnly: true,
		SameThread: true,
		Contiguous: true,
		Split:      SplitOnGap,
		Hooks:      Hooks{EveryRightButLast: "~"},
	}
}

// Trill spans a trill line over at least two leaves.
func Trill() Policy {
	return Policy{
		Name:       "trill",
		MinCount:   2,
		LeavesOnly: true,
		SameThread: true,
		Contiguous: true,
		Split:      Truncate,
		Hooks:      Hooks{FirstRight: `\startTrillSpan`, LastRight: `\stopTrillSpan`},
	}
}
