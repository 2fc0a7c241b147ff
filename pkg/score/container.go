package score

import (
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
)

// Container holds an ordered sequence of child components. A container
// marked simultaneous treats its children as parallel voices sharing the
// container's own start offset.
type Container struct {
	componentBase
	children     []Component
	simultaneous bool
	multiplier   *rational.Multiplier
}

// NewContainer creates an empty sequential container.
func NewContainer() *Container {
	return &Container{}
}

// NewSimultaneousContainer creates an empty simultaneous container.
func NewSimultaneousContainer() *Container {
	return &Container{simultaneous: true}
}

// Kind returns KindContainer.
func (c *Container) Kind() Kind { return KindContainer }

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// Child returns the i-th child.
func (c *Container) Child(i int) Component { return c.children[i] }

// Children returns a snapshot copy of the child sequence.
func (c *Container) Children() []Component {
	return append([]Component(nil), c.children...)
}

// Simultaneous reports whether children are parallel voices.
func (c *Container) Simultaneous() bool { return c.simultaneous }

// Multiplier returns the container's prolation multiplier, if any.
func (c *Container) Multiplier() (rational.Multiplier, bool) {
	if c.multiplier == nil {
		return rational.Multiplier{}, false
	}

	return *c.multiplier, true
}

// index returns the position of child in c, or -1.
func (c *Container) index(child Component) int {
	for idx, candidate := range c.children {
		if candidate == child {
			return idx
		}
	}

	return -1
}

// Tuplet is a container imposing a rational multiplier on everything
// beneath it, e.g. 2/3 for a triplet.
type Tuplet struct {
	Container
}

// NewTuplet creates an empty tuplet with the given multiplier.
func NewTuplet(mult rational.Multiplier) *Tuplet {
	tuplet := &Tuplet{}
	tuplet.multiplier = &mult

	return tuplet
}

// Kind returns KindTuplet.
func (t *Tuplet) Kind() Kind { return KindTuplet }

// TupletMultiplier returns the tuplet's multiplier.
func (t *Tuplet) TupletMultiplier() rational.Multiplier {
	return *t.multiplier
}

// SetMultiplier replaces the tuplet's multiplier and invalidates cached
// offsets beneath and after it.
func (t *Tuplet) SetMultiplier(mult rational.Multiplier) {
	t.multiplier = &mult
	invalidate(&t.componentBase)
}

// Measure is a container with a declared time signature. Its content
// duration must not exceed the signature unless an explicit scaling
// multiplier is applied.
type Measure struct {
	Container
	signature rational.Pair
}

// NewMeasure creates an empty measure with the given time signature.
func NewMeasure(signature rational.Pair) *Measure {
	return &Measure{signature: signature}
}

// Kind returns KindMeasure.
func (m *Measure) Kind() Kind { return KindMeasure }

// TimeSignature returns the declared time signature.
func (m *Measure) TimeSignature() rational.Pair { return m.signature }

// SetScaling applies an explicit duration scaling to the measure.
func (m *Measure) SetScaling(mult rational.Multiplier) {
	m.multiplier = &mult
	invalidate(&m.componentBase)
}

// Scaled reports whether an explicit scaling is applied.
func (m *Measure) Scaled() bool { return m.multiplier != nil }

// ContextType names the semantic role of a context.
type ContextType int

// Context roles, innermost first.
const (
	ContextVoice ContextType = iota
	ContextStaff
	ContextStaffGroup
	ContextScore
)

var contextTypeNames = [...]string{"Voice", "Staff", "StaffGroup", "Score"}

// String returns the LilyPond context name.
func (ct ContextType) String() string {
	if ct < 0 || int(ct) >= len(contextTypeNames) {
		return "Context"
	}

	return contextTypeNames[ct]
}

// Context is a named container with a semantic role. Contexts bound
// spanner threads: two leaves are in the same thread exactly when their
// context-ancestor chains are identical.
type Context struct {
	Container
	name string
	role ContextType
}

// NewVoice creates a sequential voice context.
func NewVoice(name string) *Context {
	return &Context{name: name, role: ContextVoice}
}

// NewStaff creates a sequential staff context.
func NewStaff(name string) *Context {
	return &Context{name: name, role: ContextStaff}
}

// NewStaffGroup creates a simultaneous staff-group context.
func NewStaffGroup(name string) *Context {
	ctx := &Context{name: name, role: ContextStaffGroup}
	ctx.simultaneous = true

	return ctx
}

// NewScore creates a simultaneous top-level score context.
func NewScore(name string) *Context {
	ctx := &Context{name: name, role: ContextScore}
	ctx.simultaneous = true

	return ctx
}

// Kind returns KindContext.
func (ctx *Context) Kind() Kind { return KindContext }

// Name returns the context's name; may be empty.
func (ctx *Context) Name() string { return ctx.name }

// Role returns the context's semantic role.
func (ctx *Context) Role() ContextType { return ctx.role }

// Parent is the read-only surface shared by every container-kind
// component. All four container variants satisfy it; leaves do not.
type Parent interface {
	Component

	Len() int
	Child(i int) Component
	Children() []Component
	Simultaneous() bool
	Multiplier() (rational.Multiplier, bool)
}

// containerOf returns the container behind any container-kind component.
func containerOf(c Component) (*Container, bool) {
	switch typed := c.(type) {
	case *Container:
		return typed, true
	case *Tuplet:
		return &typed.Container, true
	case *Measure:
		return &typed.Container, true
	case *Context:
		return &typed.Container, true
	default:
		return nil, false
	}
}
