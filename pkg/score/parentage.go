package score

// Parentage returns the ancestor chain from component up to the root,
// inclusive of component itself. The chain is recomputed on every call;
// it is never cached, because the tree can mutate between calls.
func Parentage(component Component) []Component {
	var chain []Component

	for current := component; current != nil; current = current.Parent() {
		chain = append(chain, current)
	}

	return chain
}

// Root returns the topmost ancestor of component.
func Root(component Component) Component {
	current := component

	for current.Parent() != nil {
		current = current.Parent()
	}

	return current
}

// Depth returns the number of ancestors above component.
func Depth(component Component) int {
	depth := 0

	for current := component.Parent(); current != nil; current = current.Parent() {
		depth++
	}

	return depth
}

// ContextChain returns the Context ancestors of component, nearest first.
// The chain is the component's thread identity: spanners that demand
// same-thread members compare these chains.
func ContextChain(component Component) []*Context {
	var chain []*Context

	for _, ancestor := range Parentage(component) {
		if ctx, ok := ancestor.(*Context); ok {
			chain = append(chain, ctx)
		}
	}

	return chain
}

// InSameThread reports whether every component shares an identical
// context-ancestor chain. Vacuously true for zero or one component.
func InSameThread(components ...Component) bool {
	if len(components) < 2 {
		return true
	}

	first := ContextChain(components[0])

	for _, component := range components[1:] {
		chain := ContextChain(component)
		if len(chain) != len(first) {
			return false
		}

		for idx, ctx := range chain {
			if ctx != first[idx] {
				return false
			}
		}
	}

	return true
}
