package score

import (
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
)

// timespanCache memoizes derived temporal values for one component. An
// entry is valid only when it was computed under the current root and
// the root's generation counter has not advanced since. Invalidation is
// synchronous: every structural edit bumps the root generation inside
// the same call, so observable offsets are always correct at the next
// read.
type timespanCache struct {
	root     *componentBase
	gen      uint64
	hasStart bool
	hasPre   bool
	start    rational.Offset
	pre      rational.Duration
}

// invalidate bumps the generation counter on the root above cb.
func invalidate(cb *componentBase) {
	current := cb

	for current.parent != nil {
		current = current.parent.base()
	}

	current.gen++
}

// rootBase returns the base of the topmost ancestor of component.
func rootBase(component Component) *componentBase {
	current := component.base()

	for current.parent != nil {
		current = current.parent.base()
	}

	return current
}

func (cb *componentBase) cacheCurrent(root *componentBase) bool {
	return cb.cache.root == root && cb.cache.gen == root.gen
}

func (cb *componentBase) resetCache(root *componentBase) {
	if !cb.cacheCurrent(root) {
		cb.cache = timespanCache{root: root, gen: root.gen}
	}
}

// Prolation returns the product of the multipliers of every strict
// ancestor of component, read top-down from the root.
func Prolation(component Component) rational.Multiplier {
	product := rational.One()

	for current := component.Parent(); current != nil; current = current.Parent() {
		if container, ok := containerOf(current); ok {
			if mult, has := container.Multiplier(); has {
				product = product.Mul(mult)
			}
		}
	}

	return product
}

// PreprolatedDuration returns the component's duration before ancestor
// prolation: the written duration for a leaf; for a container, the sum
// (sequential) or maximum (simultaneous) of child preprolated durations,
// scaled by the container's own multiplier.
func PreprolatedDuration(component Component) rational.Duration {
	root := rootBase(component)
	base := component.base()

	if base.cacheCurrent(root) && base.cache.hasPre {
		return base.cache.pre
	}

	var pre rational.Duration

	if leaf, ok := component.(Leaf); ok {
		pre = leaf.WrittenDuration()
	} else {
		container, _ := containerOf(component)
		pre = contentsDuration(container)

		if mult, has := container.Multiplier(); has {
			pre = pre.MulMultiplier(mult)
		}
	}

	base.resetCache(root)
	base.cache.hasPre = true
	base.cache.pre = pre

	return pre
}

func contentsDuration(container *Container) rational.Duration {
	var total rational.Duration

	for _, child := range container.children {
		childPre := PreprolatedDuration(child)

		if container.simultaneous {
			if total.Less(childPre) {
				total = childPre
			}
		} else {
			total = total.Add(childPre)
		}
	}

	return total
}

// ContentsDuration returns the combined preprolated duration of a
// container's children, before the container's own multiplier. Returns
// zero for leaves.
func ContentsDuration(component Component) rational.Duration {
	container, ok := containerOf(component)
	if !ok {
		return rational.Duration{}
	}

	return contentsDuration(container)
}

// ProlatedDuration returns the component's actual duration in score
// time: preprolated duration times the cumulative multiplier product of
// its ancestors.
func ProlatedDuration(component Component) rational.Duration {
	return PreprolatedDuration(component).MulMultiplier(Prolation(component))
}

// StartOffset returns the component's absolute start in score time. A
// detached component starts at zero; children of simultaneous containers
// all start with the container itself; otherwise a component starts
// where its previous sibling stops.
func StartOffset(component Component) rational.Offset {
	root := rootBase(component)
	base := component.base()

	if base.cacheCurrent(root) && base.cache.hasStart {
		return base.cache.start
	}

	var start rational.Offset

	parent := component.Parent()
	if parent != nil {
		container, _ := containerOf(parent)
		start = StartOffset(parent)

		if !container.simultaneous {
			var earlier rational.Duration

			for _, sibling := range container.children {
				if sibling == component {
					break
				}

				earlier = earlier.Add(PreprolatedDuration(sibling))
			}

			// Earlier siblings share the component's full prolation chain.
			prolation := Prolation(component)
			start = start.AddDuration(earlier.MulMultiplier(prolation))
		}
	}

	base.resetCache(root)
	base.cache.hasStart = true
	base.cache.start = start

	return start
}

// StopOffset returns StartOffset plus ProlatedDuration.
func StopOffset(component Component) rational.Offset {
	return StartOffset(component).AddDuration(ProlatedDuration(component))
}
