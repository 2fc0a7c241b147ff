package score

// Walk visits the subtree under root in pre-order, parent before
// children. The child sequence of each container is snapshotted at the
// moment the container is visited, so structural edits performed during
// traversal do not invalidate the iteration. Returning false from visit
// skips the current component's descendants.
func Walk(root Component, visit func(Component) bool) {
	if root == nil {
		return
	}

	stack := []Component{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !visit(current) {
			continue
		}

		if container, ok := containerOf(current); ok {
			snapshot := container.Children()
			for idx := len(snapshot) - 1; idx >= 0; idx-- {
				stack = append(stack, snapshot[idx])
			}
		}
	}
}

// WalkBackward visits the subtree under root in exact reverse of the
// pre-order sequence.
func WalkBackward(root Component, visit func(Component) bool) {
	var order []Component

	Walk(root, func(component Component) bool {
		order = append(order, component)

		return true
	})

	for idx := len(order) - 1; idx >= 0; idx-- {
		if !visit(order[idx]) {
			return
		}
	}
}

// Leaves collects the leaves under root in score order.
func Leaves(root Component) []Leaf {
	var leaves []Leaf

	Walk(root, func(component Component) bool {
		if leaf, ok := component.(Leaf); ok {
			leaves = append(leaves, leaf)
		}

		return true
	})

	return leaves
}

// ByKind collects components under root matching any of the given kinds,
// in pre-order.
func ByKind(root Component, kinds ...Kind) []Component {
	var matches []Component

	Walk(root, func(component Component) bool {
		for _, kind := range kinds {
			if component.Kind() == kind {
				matches = append(matches, component)

				break
			}
		}

		return true
	})

	return matches
}
