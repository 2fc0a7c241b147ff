package spanner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

// ErrAttachment is returned when a component sequence fails a spanner
// type's attachment test. The test runs before any state is mutated.
var ErrAttachment = errors.New("spanner: components fail the attachment test")

// ErrUnknownHandle is returned for handles not present in the registry.
var ErrUnknownHandle = errors.New("spanner: unknown handle")

// Handle is an opaque stable identifier for a registered spanner.
type Handle uint64

// Spanner is an ordered collection of component references governed by a
// Policy. Spanners never own components; the containment tree does.
type Spanner struct {
	handle  Handle
	policy  Policy
	members []score.Component
}

// Handle returns the spanner's registry handle.
func (s *Spanner) Handle() Handle { return s.handle }

// Policy returns the spanner's capability record.
func (s *Spanner) Policy() Policy { return s.policy }

// Len returns the member count.
func (s *Spanner) Len() int { return len(s.members) }

// Members returns a snapshot copy of the member sequence.
func (s *Spanner) Members() []score.Component {
	return append([]score.Component(nil), s.members...)
}

// Index returns the position of component among the members, or -1.
func (s *Spanner) Index(component score.Component) int {
	for idx, member := range s.members {
		if member == component {
			return idx
		}
	}

	return -1
}

// IsFirst reports whether component is the spanner's first member.
func (s *Spanner) IsFirst(component score.Component) bool {
	return len(s.members) > 0 && s.members[0] == component
}

// IsLast reports whether component is the spanner's last member.
func (s *Spanner) IsLast(component score.Component) bool {
	return len(s.members) > 0 && s.members[len(s.members)-1] == component
}

// Registry is the spanner arena and the component-to-spanner
// back-reference index. It implements [score.DetachObserver] so tree
// removals reconcile membership per each spanner's split policy.
type Registry struct {
	next        Handle
	spanners    map[Handle]*Spanner
	byComponent map[score.Component][]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		spanners:    make(map[Handle]*Spanner),
		byComponent: make(map[score.Component][]Handle),
	}
}

// Attach registers a new spanner over components. The attachment test
// runs first: minimum member count, leaves-only, same-thread, and
// temporal contiguity, as demanded by the policy. On failure nothing is
// registered and no back-reference exists.
func (r *Registry) Attach(policy Policy, components ...score.Component) (Handle, error) {
	if err := r.attachmentTest(policy, components); err != nil {
		return 0, err
	}

	return r.register(policy, components), nil
}

func (r *Registry) attachmentTest(policy Policy, components []score.Component) error {
	if len(components) < policy.MinCount {
		return fmt.Errorf("%s requires at least %d components, got %d: %w",
			policy.Name, policy.MinCount, len(components), ErrAttachment)
	}

	seen := make(map[score.Component]struct{}, len(components))

	for _, component := range components {
		if component == nil {
			return fmt.Errorf("%s: nil component: %w", policy.Name, ErrAttachment)
		}

		if _, dup := seen[component]; dup {
			return fmt.Errorf("%s: duplicate component: %w", policy.Name, ErrAttachment)
		}

		seen[component] = struct{}{}

		if policy.LeavesOnly && !component.Kind().IsLeaf() {
			return fmt.Errorf("%s spans leaves, got %s: %w", policy.Name, component.Kind(), ErrAttachment)
		}
	}

	if policy.SameThread && !score.InSameThread(components...) {
		return fmt.Errorf("%s members span multiple threads: %w", policy.Name, ErrAttachment)
	}

	if policy.Contiguous && len(ContiguityPartition(components)) > 1 {
		return fmt.Errorf("%s members are not contiguous: %w", policy.Name, ErrAttachment)
	}

	return nil
}

// register stores a spanner and indexes its back-references.
func (r *Registry) register(policy Policy, components []score.Component) Handle {
	r.next++
	handle := r.next

	sp := &Spanner{
		handle:  handle,
		policy:  policy,
		members: append([]score.Component(nil), components...),
	}
	r.spanners[handle] = sp

	for _, component := range components {
		r.byComponent[component] = append(r.byComponent[component], handle)
	}

	return handle
}

// Detach removes a spanner and all back-references to it.
func (r *Registry) Detach(handle Handle) error {
	sp, ok := r.spanners[handle]
	if !ok {
		return fmt.Errorf("handle %d: %w", handle, ErrUnknownHandle)
	}

	for _, member := range sp.members {
		r.dropBackref(member, handle)
	}

	delete(r.spanners, handle)

	return nil
}

// Spanner returns the spanner behind a handle.
func (r *Registry) Spanner(handle Handle) (*Spanner, error) {
	sp, ok := r.spanners[handle]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", handle, ErrUnknownHandle)
	}

	return sp, nil
}

// SpannersOn returns the spanners referencing component, in handle order.
func (r *Registry) SpannersOn(component score.Component) []*Spanner {
	handles := r.byComponent[component]
	if len(handles) == 0 {
		return nil
	}

	sorted := append([]Handle(nil), handles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	spanners := make([]*Spanner, 0, len(sorted))
	for _, handle := range sorted {
		spanners = append(spanners, r.spanners[handle])
	}

	return spanners
}

// Len returns the number of registered spanners.
func (r *Registry) Len() int { return len(r.spanners) }

// Handles returns all registered handles in ascending order.
func (r *Registry) Handles() []Handle {
	handles := make([]Handle, 0, len(r.spanners))
	for handle := range r.spanners {
		handles = append(handles, handle)
	}

	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	return handles
}

// ComponentDetached reconciles spanner membership after component left
// the tree. Reconciliation follows each affected spanner's split policy;
// spanners left with no members self-detach.
func (r *Registry) ComponentDetached(component score.Component) {
	handles := append([]Handle(nil), r.byComponent[component]...)

	for _, handle := range handles {
		sp, ok := r.spanners[handle]
		if !ok {
			continue
		}

		r.reconcile(sp, component)
	}
}

func (r *Registry) reconcile(sp *Spanner, detached score.Component) {
	gap := sp.Index(detached)
	if gap < 0 {
		return
	}

	r.dropBackref(detached, sp.handle)

	left := append([]score.Component(nil), sp.members[:gap]...)
	right := append([]score.Component(nil), sp.members[gap+1:]...)

	switch sp.policy.Split {
	case SplitOnGap:
		// The gap is positional: the split happens where the detached
		// member sat, even though the survivors may close up in time.
		if len(left) > 0 && len(right) > 0 {
			_ = r.Detach(sp.handle)
			r.register(sp.policy, left)
			r.register(sp.policy, right)

			return
		}

		r.shrink(sp, append(left, right...))
	case Truncate:
		kept := left
		if len(kept) == 0 {
			kept = right
		}

		for _, member := range sp.members {
			if member != detached && !containsComponent(kept, member) {
				r.dropBackref(member, sp.handle)
			}
		}

		r.shrink(sp, kept)
	case Drop, Flag:
		r.shrink(sp, append(left, right...))
	}
}

// shrink replaces a spanner's membership in place, self-detaching when
// nothing remains. Back-references of discarded members must already be
// dropped by the caller.
func (r *Registry) shrink(sp *Spanner, members []score.Component) {
	if len(members) == 0 {
		_ = r.Detach(sp.handle)

		return
	}

	sp.members = members
}

func containsComponent(components []score.Component, target score.Component) bool {
	for _, component := range components {
		if component == target {
			return true
		}
	}

	return false
}

// Fuse joins two spanners with the same policy name into one, first's
// members followed by second's. Both originals are detached.
func (r *Registry) Fuse(first, second Handle) (Handle, error) {
	firstSp, err := r.Spanner(first)
	if err != nil {
		return 0, err
	}

	secondSp, err := r.Spanner(second)
	if err != nil {
		return 0, err
	}

	if firstSp.policy.Name != secondSp.policy.Name {
		return 0, fmt.Errorf("cannot fuse %s with %s: %w",
			firstSp.policy.Name, secondSp.policy.Name, ErrAttachment)
	}

	members := append(firstSp.Members(), secondSp.Members()...)

	if err := r.attachmentTest(firstSp.policy, members); err != nil {
		return 0, err
	}

	_ = r.Detach(first)
	_ = r.Detach(second)

	return r.register(firstSp.policy, members), nil
}

func (r *Registry) dropBackref(component score.Component, handle Handle) {
	handles := r.byComponent[component]

	for idx, candidate := range handles {
		if candidate == handle {
			handles = append(handles[:idx], handles[idx+1:]...)

			break
		}
	}

	if len(handles) == 0 {
		delete(r.byComponent, component)
	} else {
		r.byComponent[component] = handles
	}
}
