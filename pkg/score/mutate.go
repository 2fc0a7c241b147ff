package score

import (
	"errors"
	"fmt"
)

// ErrStructure is returned when a tree edit would violate containment
// invariants: double-parenting, invalid index, cyclic insertion, or
// removal of a detached component. Structural errors are raised before
// any state is mutated.
var ErrStructure = errors.New("score: structural edit violates containment invariants")

// DetachObserver is notified when a component leaves the tree, before the
// edit is considered final. The spanner registry implements this to
// reconcile membership.
type DetachObserver interface {
	ComponentDetached(Component)
}

// Insert places child at index in parent. The valid insertion range is
// [0, len(parent)]. The child must be detached.
func Insert(parent Component, index int, child Component) error {
	container, err := insertionTarget(parent, child)
	if err != nil {
		return err
	}

	if index < 0 || len(container.children) < index {
		return fmt.Errorf("index %d outside [0, %d]: %w", index, len(container.children), ErrStructure)
	}

	container.children = append(container.children, nil)
	copy(container.children[index+1:], container.children[index:])
	container.children[index] = child
	child.base().parent = parent

	invalidate(&container.componentBase)

	return nil
}

// Append adds children to the end of parent, in order. The operation is
// all-or-nothing: every child is checked before any is attached.
func Append(parent Component, children ...Component) error {
	container, ok := containerOf(parent)
	if !ok {
		return fmt.Errorf("%s is not a container: %w", parent.Kind(), ErrStructure)
	}

	for _, child := range children {
		if _, err := insertionTarget(parent, child); err != nil {
			return err
		}
	}

	for _, child := range children {
		container.children = append(container.children, child)
		child.base().parent = parent
	}

	invalidate(&container.componentBase)

	return nil
}

// Remove detaches component from its parent. Observers are notified with
// the detached component before the edit is considered final.
func Remove(component Component, observers ...DetachObserver) error {
	parent := component.Parent()
	if parent == nil {
		return fmt.Errorf("component has no parent: %w", ErrStructure)
	}

	container, _ := containerOf(parent)

	index := container.index(component)
	if index < 0 {
		return fmt.Errorf("parent does not list component as child: %w", ErrStructure)
	}

	container.children = append(container.children[:index], container.children[index+1:]...)
	component.base().parent = nil

	// The detached component is its own root again; advance its counter so
	// cache entries from an earlier detached life cannot validate.
	component.base().gen++

	invalidate(&container.componentBase)

	for _, observer := range observers {
		observer.ComponentDetached(component)
	}

	return nil
}

// Replace removes old and inserts replacements at its former index, in
// order. The operation is atomic: every precondition is checked before
// any state changes, so partial failure cannot occur.
func Replace(old Component, replacements []Component, observers ...DetachObserver) error {
	parent := old.Parent()
	if parent == nil {
		return fmt.Errorf("component has no parent: %w", ErrStructure)
	}

	container, _ := containerOf(parent)

	index := container.index(old)
	if index < 0 {
		return fmt.Errorf("parent does not list component as child: %w", ErrStructure)
	}

	seen := make(map[Component]struct{}, len(replacements))

	for _, replacement := range replacements {
		if _, err := insertionTarget(parent, replacement); err != nil {
			return err
		}

		if replacement == old {
			return fmt.Errorf("replacement is the replaced component: %w", ErrStructure)
		}

		if _, dup := seen[replacement]; dup {
			return fmt.Errorf("duplicate replacement component: %w", ErrStructure)
		}

		seen[replacement] = struct{}{}
	}

	rebuilt := make([]Component, 0, len(container.children)-1+len(replacements))
	rebuilt = append(rebuilt, container.children[:index]...)
	rebuilt = append(rebuilt, replacements...)
	rebuilt = append(rebuilt, container.children[index+1:]...)
	container.children = rebuilt

	old.base().parent = nil
	old.base().gen++

	for _, replacement := range replacements {
		replacement.base().parent = parent
	}

	invalidate(&container.componentBase)

	for _, observer := range observers {
		observer.ComponentDetached(old)
	}

	return nil
}

// insertionTarget validates that parent can accept child and returns the
// backing container.
func insertionTarget(parent Component, child Component) (*Container, error) {
	container, ok := containerOf(parent)
	if !ok {
		return nil, fmt.Errorf("%s is not a container: %w", parent.Kind(), ErrStructure)
	}

	if child == nil {
		return nil, fmt.Errorf("child is nil: %w", ErrStructure)
	}

	if child.Parent() != nil {
		return nil, fmt.Errorf("%s already has a parent: %w", child.Kind(), ErrStructure)
	}

	for _, ancestor := range Parentage(parent) {
		if ancestor == child {
			return nil, fmt.Errorf("insertion of %s would create a cycle: %w", child.Kind(), ErrStructure)
		}
	}

	return container, nil
}
