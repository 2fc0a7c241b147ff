// Package indicator provides decorations attached to components:
// clefs, time signatures, dynamics, breaks and free literals. Each
// indicator declares the format slot it occupies relative to its
// component's own text. Attachments live in a side table keyed by
// component, mirroring the weak-reference discipline of spanners.
package indicator

import (
	"fmt"

	"github.com/Sumatoshi-tech/cantus/pkg/rational"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
)

// Slot is a named insertion point around a component's own text.
type Slot int

// Format slots in emission order.
const (
	SlotBefore Slot = iota
	SlotOpening
	SlotClosing
	SlotAfter
)

// Indicator is a decoration contributing a text fragment in a slot.
type Indicator interface {
	Slot() Slot
	Format() string
}

// Clef names a clef change effective from its component onward.
type Clef struct {
	Name string
}

// Slot returns SlotOpening.
func (c Clef) Slot() Slot { return SlotOpening }

// Format renders the clef command.
func (c Clef) Format() string { return fmt.Sprintf(`\clef %s`, c.Name) }

// TimeSignature declares the meter effective from its component onward.
type TimeSignature struct {
	Pair rational.Pair
}

// Slot returns SlotOpening.
func (ts TimeSignature) Slot() Slot { return SlotOpening }

// Format renders the time-signature command.
func (ts TimeSignature) Format() string {
	return fmt.Sprintf(`\time %s`, ts.Pair)
}

// Dynamic marks a dynamic level on its component.
type Dynamic struct {
	Name string
}

// Slot returns SlotAfter.
func (d Dynamic) Slot() Slot { return SlotAfter }

// Format renders the dynamic command.
func (d Dynamic) Format() string { return `\` + d.Name }

// LilyPondLiteral is an arbitrary fragment placed in a chosen slot.
type LilyPondLiteral struct {
	Text string
	At   Slot
}

// Slot returns the literal's chosen slot.
func (l LilyPondLiteral) Slot() Slot { return l.At }

// Format returns the literal text verbatim.
func (l LilyPondLiteral) Format() string { return l.Text }

// SystemBreak forces a line break after its component.
type SystemBreak struct{}

// Slot returns SlotAfter.
func (SystemBreak) Slot() Slot { return SlotAfter }

// Format renders the break command.
func (SystemBreak) Format() string { return `\break` }

// PageBreak forces a page break after its component.
type PageBreak struct{}

// Slot returns SlotAfter.
func (PageBreak) Slot() Slot { return SlotAfter }

// Format renders the page-break command.
func (PageBreak) Format() string { return `\pageBreak` }

// Annotations is the attachment side table. The zero value is not
// usable; create with NewAnnotations.
type Annotations struct {
	table map[score.Component][]Indicator
}

// NewAnnotations creates an empty attachment table.
func NewAnnotations() *Annotations {
	return &Annotations{table: make(map[score.Component][]Indicator)}
}

// Attach records an indicator on a component. Attachment order is
// preserved within a slot.
func (a *Annotations) Attach(component score.Component, ind Indicator) {
	a.table[component] = append(a.table[component], ind)
}

// Detach removes all indicators of the same concrete type as prototype
// from component, returning how many were removed.
func (a *Annotations) Detach(component score.Component, prototype Indicator) int {
	attached := a.table[component]
	kept := attached[:0]
	removed := 0

	for _, ind := range attached {
		if fmt.Sprintf("%T", ind) == fmt.Sprintf("%T", prototype) {
			removed++

			continue
		}

		kept = append(kept, ind)
	}

	if len(kept) == 0 {
		delete(a.table, component)
	} else {
		a.table[component] = kept
	}

	return removed
}

// On returns the indicators attached to component, in attachment order.
func (a *Annotations) On(component score.Component) []Indicator {
	return append([]Indicator(nil), a.table[component]...)
}

// InSlot returns component's indicators occupying the given slot.
func (a *Annotations) InSlot(component score.Component, slot Slot) []Indicator {
	var out []Indicator

	for _, ind := range a.table[component] {
		if ind.Slot() == slot {
			out = append(out, ind)
		}
	}

	return out
}

// ComponentDetached drops all attachments of a component leaving the
// tree, so annotations never keep detached components reachable through
// the table.
func (a *Annotations) ComponentDetached(component score.Component) {
	delete(a.table, component)
}
