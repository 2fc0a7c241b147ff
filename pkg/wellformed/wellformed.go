// Package wellformed checks global invariants over a component tree and
// its spanners. Checks are independent and composable; the validator
// aggregates every violation instead of short-circuiting, and findings
// are values, never errors, so pipelines can pass through transient
// ill-formed states and validate only at checkpoints.
package wellformed

import (
	"fmt"

	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
	"github.com/Sumatoshi-tech/cantus/pkg/spanner"
)

// Violation is one finding produced by a check.
type Violation struct {
	// Check is the name of the check that produced the finding.
	Check string
	// Subject describes the offending component or spanner.
	Subject string
	// Message explains the violated invariant.
	Message string
}

// Check is a single well-formedness rule.
type Check interface {
	// Name identifies the check in reports.
	Name() string
	// Run returns every violation found under root. A nil registry is
	// valid and skips spanner-dependent findings.
	Run(root score.Component, registry *spanner.Registry) []Violation
}

// Report aggregates the violations of one validation pass.
type Report struct {
	violations []Violation
}

// IsWellFormed reports whether no check found a violation.
func (r Report) IsWellFormed() bool {
	return len(r.violations) == 0
}

// Violations returns the aggregated findings in check order.
func (r Report) Violations() []Violation {
	return append([]Violation(nil), r.violations...)
}

// DefaultChecks returns the standard check set, in execution order.
func DefaultChecks() []Check {
	return []Check{
		DiscontiguousSpanners{},
		EmptyContainers{},
		OffsetCrossCheck{},
		ParentageConsistency{},
		MisduratedMeasures{},
		OverlappingBeams{},
	}
}

// Validate runs every default check against root and aggregates the
// findings. Repeated calls without intervening mutation return
// identical reports.
func Validate(root score.Component, registry *spanner.Registry) Report {
	return ValidateWith(root, registry, DefaultChecks()...)
}

// ValidateWith runs the given checks in order, aggregating findings.
func ValidateWith(root score.Component, registry *spanner.Registry, checks ...Check) Report {
	var report Report

	for _, check := range checks {
		report.violations = append(report.violations, check.Run(root, registry)...)
	}

	return report
}

// DiscontiguousSpanners flags spanners whose members are not temporally
// contiguous, except types whose split policy tolerates gaps (Drop) —
// spanners with the Flag policy are exactly the ones this check exists
// to report.
type DiscontiguousSpanners struct{}

// Name returns the check name.
func (DiscontiguousSpanners) Name() string { return "discontiguous-spanners" }

// Run checks every spanner touching the tree under root.
func (DiscontiguousSpanners) Run(root score.Component, registry *spanner.Registry) []Violation {
	if registry == nil {
		return nil
	}

	var violations []Violation

	for _, handle := range registry.Handles() {
		sp, err := registry.Spanner(handle)
		if err != nil {
			continue
		}

		if sp.Policy().Split == spanner.Drop {
			continue
		}

		members := sp.Members()
		if len(members) == 0 || score.Root(members[0]) != root {
			continue
		}

		if runs := spanner.ContiguityPartition(members); len(runs) > 1 {
			violations = append(violations, Violation{
				Check:   DiscontiguousSpanners{}.Name(),
				Subject: fmt.Sprintf("%s spanner %d", sp.Policy().Name, sp.Handle()),
				Message: fmt.Sprintf("members form %d separate runs", len(runs)),
			})
		}
	}

	return violations
}

// EmptyContainers flags tuplets and measures without children; both
// types require at least one child to carry meaning.
type EmptyContainers struct{}

// Name returns the check name.
func (EmptyContainers) Name() string { return "empty-containers" }

// Run scans the tree for empty tuplets and measures.
func (EmptyContainers) Run(root score.Component, _ *spanner.Registry) []Violation {
	var violations []Violation

	score.Walk(root, func(component score.Component) bool {
		kind := component.Kind()
		if kind != score.KindTuplet && kind != score.KindMeasure {
			return true
		}

		if parent, ok := component.(score.Parent); ok && parent.Len() == 0 {
			violations = append(violations, Violation{
				Check:   EmptyContainers{}.Name(),
				Subject: kind.String(),
				Message: "container requires at least one child",
			})
		}

		return true
	})

	return violations
}

// OffsetCrossCheck recomputes every start offset bottom-up, without the
// memoization engine, and compares against the engine's answer.
type OffsetCrossCheck struct{}

// Name returns the check name.
func (OffsetCrossCheck) Name() string { return "offset-cross-check" }

// Run compares cached and independently recomputed offsets.
func (OffsetCrossCheck) Run(root score.Component, _ *spanner.Registry) []Violation {
	var violations []Violation

	expected := make(map[score.Component]rational.Offset)
	accumulate(root, rational.Offset{}, rational.One(), expected)

	score.Walk(root, func(component score.Component) bool {
		want := expected[component]
		got := score.StartOffset(component)

		if !got.Equal(want) {
			violations = append(violations, Violation{
				Check:   OffsetCrossCheck{}.Name(),
				Subject: component.Kind().String(),
				Message: fmt.Sprintf("engine start %s, recomputed %s", got, want),
			})
		}

		return true
	})

	return violations
}

// accumulate computes start offsets top-down with explicit cursor state,
// independent of the score package's caching.
func accumulate(component score.Component, start rational.Offset, prolation rational.Multiplier, out map[score.Component]rational.Offset) {
	out[component] = start

	container, ok := component.(score.Parent)
	if !ok {
		return
	}

	below := prolation
	if mult, has := container.Multiplier(); has {
		below = below.Mul(mult)
	}

	cursor := start

	for _, child := range container.Children() {
		if container.Simultaneous() {
			accumulate(child, start, below, out)

			continue
		}

		accumulate(child, cursor, below, out)
		cursor = cursor.AddDuration(score.PreprolatedDuration(child).MulMultiplier(below))
	}
}

// ParentageConsistency verifies that every component is listed by at
// most one container and that child parent pointers agree with the
// container listing them.
type ParentageConsistency struct{}

// Name returns the check name.
func (ParentageConsistency) Name() string { return "parentage-consistency" }

// Run walks the tree checking parent pointers and single listing.
func (ParentageConsistency) Run(root score.Component, _ *spanner.Registry) []Violation {
	var violations []Violation

	listed := make(map[score.Component]score.Component)

	score.Walk(root, func(component score.Component) bool {
		container, ok := component.(score.Parent)
		if !ok {
			return true
		}

		for _, child := range container.Children() {
			if previous, seen := listed[child]; seen {
				violations = append(violations, Violation{
					Check:   ParentageConsistency{}.Name(),
					Subject: child.Kind().String(),
					Message: fmt.Sprintf("listed by both %s and %s", previous.Kind(), component.Kind()),
				})

				continue
			}

			listed[child] = component

			if child.Parent() != component {
				violations = append(violations, Violation{
					Check:   ParentageConsistency{}.Name(),
					Subject: child.Kind().String(),
					Message: "parent pointer disagrees with listing container",
				})
			}
		}

		return true
	})

	return violations
}

// MisduratedMeasures flags measures whose content duration exceeds the
// declared time signature without explicit scaling.
type MisduratedMeasures struct{}

// Name returns the check name.
func (MisduratedMeasures) Name() string { return "misdurated-measures" }

// Run scans measures for content overflow.
func (MisduratedMeasures) Run(root score.Component, _ *spanner.Registry) []Violation {
	var violations []Violation

	score.Walk(root, func(component score.Component) bool {
		measure, ok := component.(*score.Measure)
		if !ok || measure.Scaled() {
			return true
		}

		contents := score.ContentsDuration(measure)
		declared := measure.TimeSignature().Duration()

		if declared.Less(contents) {
			violations = append(violations, Violation{
				Check:   MisduratedMeasures{}.Name(),
				Subject: fmt.Sprintf("measure %s", measure.TimeSignature()),
				Message: fmt.Sprintf("content %s exceeds signature %s", contents, declared),
			})
		}

		return true
	})

	return violations
}

// OverlappingBeams flags leaves claimed by more than one beam spanner.
type OverlappingBeams struct{}

// Name returns the check name.
func (OverlappingBeams) Name() string { return "overlapping-beams" }

// Run scans leaves for multiple beam membership.
func (OverlappingBeams) Run(root score.Component, registry *spanner.Registry) []Violation {
	if registry == nil {
		return nil
	}

	var violations []Violation

	for _, leaf := range score.Leaves(root) {
		beams := 0

		for _, sp := range registry.SpannersOn(leaf) {
			if sp.Policy().Name == "beam" {
				beams++
			}
		}

		if beams > 1 {
			violations = append(violations, Violation{
				Check:   OverlappingBeams{}.Name(),
				Subject: leaf.Kind().String(),
				Message: fmt.Sprintf("leaf belongs to %d beams", beams),
			})
		}
	}

	return violations
}
