// Package score provides the music-notation component tree: leaves,
// containers and contexts, structural mutation with all-or-nothing
// semantics, parentage queries, snapshot traversal, and the lazy
// offset/prolated-duration engine.
//
// The component set is closed: only types in this package implement
// [Component]. Polymorphic behavior dispatches on [Kind].
package score

import (
	"fmt"

	"github.com/Sumatoshi-tech/cantus/pkg/pitch"
	"github.com/Sumatoshi-tech/cantus/pkg/rational"
)

// Kind discriminates the closed set of component variants.
type Kind int

// Component kinds, leaves first.
const (
	KindNote Kind = iota
	KindRest
	KindChord
	KindSkip
	KindContainer
	KindTuplet
	KindMeasure
	KindContext
)

// kindNames indexes Kind for display.
var kindNames = [...]string{"Note", "Rest", "Chord", "Skip", "Container", "Tuplet", "Measure", "Context"}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// IsLeaf reports whether the kind is an atomic musical event.
func (k Kind) IsLeaf() bool {
	return k <= KindSkip
}

// IsContainer reports whether the kind holds children.
func (k Kind) IsContainer() bool {
	return !k.IsLeaf()
}

// Component is a node in the containment tree. The implementation set is
// closed to this package.
type Component interface {
	// Kind returns the variant discriminant.
	Kind() Kind
	// Parent returns the containing component, or nil when detached.
	Parent() Component

	base() *componentBase
}

// Leaf is an atomic component carrying a written duration.
type Leaf interface {
	Component

	// WrittenDuration returns the notated duration before prolation.
	WrittenDuration() rational.Duration
	// SetWrittenDuration replaces the notated duration and invalidates
	// cached offsets. Negative durations are rejected.
	SetWrittenDuration(rational.Duration) error
}

// componentBase holds the parent pointer, the timespan cache, and the
// per-root mutation generation counter.
type componentBase struct {
	parent Component
	cache  timespanCache
	// gen counts structural mutations beneath this component. Only the
	// value on the current root is consulted; see offsets.go.
	gen uint64
}

func (cb *componentBase) Parent() Component {
	return cb.parent
}

func (cb *componentBase) base() *componentBase {
	return cb
}

// leafBase implements the written-duration contract shared by all leaves.
type leafBase struct {
	componentBase
	written rational.Duration
}

func (lb *leafBase) WrittenDuration() rational.Duration {
	return lb.written
}

func (lb *leafBase) SetWrittenDuration(dur rational.Duration) error {
	if dur.Sign() < 0 {
		return fmt.Errorf("written duration %s: %w", dur, rational.ErrZeroDuration)
	}

	lb.written = dur
	invalidate(&lb.componentBase)

	return nil
}

// Note is a single pitched leaf.
type Note struct {
	leafBase
	pitch pitch.Pitch
}

// NewNote creates a note with the given pitch and written duration.
func NewNote(p pitch.Pitch, written rational.Duration) (*Note, error) {
	if written.Sign() < 0 {
		return nil, fmt.Errorf("written duration %s: %w", written, rational.ErrZeroDuration)
	}

	note := &Note{pitch: p}
	note.written = written

	return note, nil
}

// Kind returns KindNote.
func (n *Note) Kind() Kind { return KindNote }

// Pitch returns the note's pitch.
func (n *Note) Pitch() pitch.Pitch { return n.pitch }

// SetPitch replaces the note's pitch.
func (n *Note) SetPitch(p pitch.Pitch) { n.pitch = p }

// Rest is a silent leaf.
type Rest struct {
	leafBase
}

// NewRest creates a rest with the given written duration.
func NewRest(written rational.Duration) (*Rest, error) {
	if written.Sign() < 0 {
		return nil, fmt.Errorf("written duration %s: %w", written, rational.ErrZeroDuration)
	}

	rest := &Rest{}
	rest.written = written

	return rest, nil
}

// Kind returns KindRest.
func (r *Rest) Kind() Kind { return KindRest }

// Chord is a leaf sounding one or more pitches simultaneously.
type Chord struct {
	leafBase
	pitches []pitch.Pitch
}

// NewChord creates a chord. Pitches are kept in the order given.
func NewChord(pitches []pitch.Pitch, written rational.Duration) (*Chord, error) {
	if written.Sign() < 0 {
		return nil, fmt.Errorf("written duration %s: %w", written, rational.ErrZeroDuration)
	}

	chord := &Chord{pitches: append([]pitch.Pitch(nil), pitches...)}
	chord.written = written

	return chord, nil
}

// Kind returns KindChord.
func (c *Chord) Kind() Kind { return KindChord }

// Pitches returns a copy of the chord's pitches.
func (c *Chord) Pitches() []pitch.Pitch {
	return append([]pitch.Pitch(nil), c.pitches...)
}

// Skip is an invisible leaf occupying time without sounding.
type Skip struct {
	leafBase
}

// NewSkip creates a skip with the given written duration.
func NewSkip(written rational.Duration) (*Skip, error) {
	if written.Sign() < 0 {
		return nil, fmt.Errorf("written duration %s: %w", written, rational.ErrZeroDuration)
	}

	skip := &Skip{}
	skip.written = written

	return skip, nil
}

// Kind returns KindSkip.
func (s *Skip) Kind() Kind { return KindSkip }
