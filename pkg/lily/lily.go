// Package lily renders a component tree as LilyPond source. The
// renderer concatenates per-component fragments in tree order,
// honoring the format slots declared by attached indicators and the
// hooks contributed by spanners; it never interprets the output.
package lily

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/cantus/pkg/indicator"
	"github.com/Sumatoshi-tech/cantus/pkg/score"
	"github.com/Sumatoshi-tech/cantus/pkg/spanner"
)

const indentUnit = "    "

// Renderer formats components with optional spanner and annotation
// context. The zero value renders bare trees.
type Renderer struct {
	// Registry supplies spanner hooks on leaves; may be nil.
	Registry *spanner.Registry
	// Annotations supplies indicator fragments; may be nil.
	Annotations *indicator.Annotations
	// Indent overrides the four-space indentation unit when non-empty.
	Indent string
}

// Format renders the component and its subtree as LilyPond source.
func Format(component score.Component) string {
	return Renderer{}.Format(component)
}

// Format renders the component and its subtree as LilyPond source.
func (r Renderer) Format(component score.Component) string {
	var buf strings.Builder

	r.format(&buf, component, 0)

	return strings.TrimRight(buf.String(), "\n")
}

func (r Renderer) format(buf *strings.Builder, component score.Component, depth int) {
	for _, fragment := range r.slotFragments(component, indicator.SlotBefore) {
		r.writeLine(buf, depth, fragment)
	}

	if leaf, ok := component.(score.Leaf); ok {
		r.writeLine(buf, depth, r.leafLine(leaf, component))

		return
	}

	parent, _ := component.(score.Parent)

	open, closing := r.brackets(component)
	r.writeLine(buf, depth, open)

	for _, fragment := range r.slotFragments(component, indicator.SlotOpening) {
		r.writeLine(buf, depth+1, fragment)
	}

	for _, child := range parent.Children() {
		r.format(buf, child, depth+1)
	}

	for _, fragment := range r.slotFragments(component, indicator.SlotClosing) {
		r.writeLine(buf, depth+1, fragment)
	}

	r.writeLine(buf, depth, closing)

	for _, fragment := range r.slotFragments(component, indicator.SlotAfter) {
		r.writeLine(buf, depth, fragment)
	}
}

// brackets returns the opening and closing lines for a container.
func (r Renderer) brackets(component score.Component) (string, string) {
	switch typed := component.(type) {
	case *score.Tuplet:
		mult := typed.TupletMultiplier()

		return fmt.Sprintf(`\times %d/%d {`, mult.Numerator(), mult.Denominator()), "}"
	case *score.Measure:
		return fmt.Sprintf(`{ %% measure %s`, typed.TimeSignature()), "}"
	case *score.Context:
		open := fmt.Sprintf(`\new %s`, typed.Role())
		if typed.Name() != "" {
			open = fmt.Sprintf(`\context %s = %q`, typed.Role(), typed.Name())
		}

		if typed.Simultaneous() {
			return open + " <<", ">>"
		}

		return open + " {", "}"
	case *score.Container:
		if typed.Simultaneous() {
			return "<<", ">>"
		}

		return "{", "}"
	default:
		return "{", "}"
	}
}

// leafLine renders one leaf: opening-slot fragments, the leaf body,
// spanner hooks, then after-slot dynamics on the same line.
func (r Renderer) leafLine(leaf score.Leaf, component score.Component) string {
	parts := make([]string, 0, 4)

	for _, fragment := range r.slotFragments(component, indicator.SlotOpening) {
		parts = append(parts, fragment)
	}

	parts = append(parts, leafBody(leaf))

	if r.Registry != nil {
		parts = append(parts, r.Registry.LeafHooks(component)...)
	}

	// After-slot decorations (dynamics, breaks) share the leaf's line.
	for _, fragment := range r.slotFragments(component, indicator.SlotAfter) {
		parts = append(parts, fragment)
	}

	return strings.Join(parts, " ")
}

func leafBody(leaf score.Leaf) string {
	duration, ok := leaf.WrittenDuration().LilyPondString()
	if !ok {
		duration = leaf.WrittenDuration().String()
	}

	switch typed := leaf.(type) {
	case *score.Note:
		return typed.Pitch().Name() + duration
	case *score.Chord:
		names := make([]string, 0, len(typed.Pitches()))
		for _, p := range typed.Pitches() {
			names = append(names, p.Name())
		}

		return "<" + strings.Join(names, " ") + ">" + duration
	case *score.Rest:
		return "r" + duration
	case *score.Skip:
		return "s" + duration
	default:
		return duration
	}
}

func (r Renderer) slotFragments(component score.Component, slot indicator.Slot) []string {
	if r.Annotations == nil {
		return nil
	}

	indicators := r.Annotations.InSlot(component, slot)
	fragments := make([]string, 0, len(indicators))

	for _, ind := range indicators {
		fragments = append(fragments, ind.Format())
	}

	return fragments
}

func (r Renderer) writeLine(buf *strings.Builder, depth int, text string) {
	unit := r.Indent
	if unit == "" {
		unit = indentUnit
	}

	for i := 0; i < depth; i++ {
		buf.WriteString(unit)
	}

	buf.WriteString(text)
	buf.WriteByte('\n')
}
