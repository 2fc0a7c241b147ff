// Package rational provides exact rational value types for musical time:
// written durations, prolation multipliers, and absolute score offsets.
// All arithmetic is exact; there is no floating point on any code path.
package rational

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

// ErrZeroDuration is returned when a positive rational is required but a
// zero or negative value was supplied.
var ErrZeroDuration = errors.New("rational: value must be a positive rational")

// ErrZeroDenominator is returned when a rational is constructed with a
// zero denominator.
var ErrZeroDenominator = errors.New("rational: denominator must be nonzero")

// Duration is an immutable exact rational duration. The zero value is a
// zero duration. Durations may be negative in intermediate arithmetic;
// written leaf durations are validated nonnegative at the point of use.
type Duration struct {
	rat big.Rat
}

// NewDuration creates a duration from a numerator/denominator pair.
func NewDuration(numerator, denominator int64) (Duration, error) {
	if denominator == 0 {
		return Duration{}, fmt.Errorf("duration %d/%d: %w", numerator, denominator, ErrZeroDenominator)
	}

	var dur Duration

	dur.rat.SetFrac64(numerator, denominator)

	return dur, nil
}

// MustDuration is NewDuration that panics on a zero denominator.
// Intended for literals in tests and catalogs.
func MustDuration(numerator, denominator int64) Duration {
	dur, err := NewDuration(numerator, denominator)
	if err != nil {
		panic(err)
	}

	return dur
}

// DurationFromRat copies a [big.Rat] into a Duration.
func DurationFromRat(rat *big.Rat) Duration {
	var dur Duration

	dur.rat.Set(rat)

	return dur
}

// Numerator returns the numerator in lowest terms.
func (d Duration) Numerator() int64 {
	return d.rat.Num().Int64()
}

// Denominator returns the denominator in lowest terms.
func (d Duration) Denominator() int64 {
	return d.rat.Denom().Int64()
}

// Add returns d + other.
func (d Duration) Add(other Duration) Duration {
	var out Duration

	out.rat.Add(&d.rat, &other.rat)

	return out
}

// Sub returns d - other.
func (d Duration) Sub(other Duration) Duration {
	var out Duration

	out.rat.Sub(&d.rat, &other.rat)

	return out
}

// Mul returns d * other.
func (d Duration) Mul(other Duration) Duration {
	var out Duration

	out.rat.Mul(&d.rat, &other.rat)

	return out
}

// MulMultiplier returns d scaled by a prolation multiplier.
func (d Duration) MulMultiplier(mult Multiplier) Duration {
	var out Duration

	out.rat.Mul(&d.rat, &mult.rat)

	return out
}

// Cmp compares d and other, returning -1, 0 or +1.
func (d Duration) Cmp(other Duration) int {
	return d.rat.Cmp(&other.rat)
}

// Equal reports whether d and other are the same rational.
func (d Duration) Equal(other Duration) bool {
	return d.rat.Cmp(&other.rat) == 0
}

// Less reports whether d < other.
func (d Duration) Less(other Duration) bool {
	return d.rat.Cmp(&other.rat) < 0
}

// Sign returns -1, 0 or +1 according to the sign of d.
func (d Duration) Sign() int {
	return d.rat.Sign()
}

// IsZero reports whether d is the zero duration.
func (d Duration) IsZero() bool {
	return d.rat.Sign() == 0
}

// Rat returns an independent copy of the underlying rational.
func (d Duration) Rat() *big.Rat {
	return new(big.Rat).Set(&d.rat)
}

// String renders the duration in lowest terms, e.g. "3/8" or "2".
func (d Duration) String() string {
	return d.rat.RatString()
}

// Float64 returns the nearest float, for display only.
func (d Duration) Float64() float64 {
	value, _ := d.rat.Float64()

	return value
}

// Multiplier is a positive exact rational prolation factor, such as a
// tuplet's 2/3 or a measure's explicit scaling.
type Multiplier struct {
	rat big.Rat
}

// NewMultiplier creates a multiplier, rejecting zero and negative values.
func NewMultiplier(numerator, denominator int64) (Multiplier, error) {
	if denominator == 0 {
		return Multiplier{}, fmt.Errorf("multiplier %d/%d: %w", numerator, denominator, ErrZeroDenominator)
	}

	var mult Multiplier

	mult.rat.SetFrac64(numerator, denominator)

	if mult.rat.Sign() <= 0 {
		return Multiplier{}, fmt.Errorf("multiplier %d/%d: %w", numerator, denominator, ErrZeroDuration)
	}

	return mult, nil
}

// MustMultiplier is NewMultiplier that panics on invalid input.
func MustMultiplier(numerator, denominator int64) Multiplier {
	mult, err := NewMultiplier(numerator, denominator)
	if err != nil {
		panic(err)
	}

	return mult
}

// One is the identity multiplier.
func One() Multiplier {
	return MustMultiplier(1, 1)
}

// Mul returns m * other.
func (m Multiplier) Mul(other Multiplier) Multiplier {
	var out Multiplier

	out.rat.Mul(&m.rat, &other.rat)

	return out
}

// Numerator returns the numerator in lowest terms.
func (m Multiplier) Numerator() int64 {
	return m.rat.Num().Int64()
}

// Denominator returns the denominator in lowest terms.
func (m Multiplier) Denominator() int64 {
	return m.rat.Denom().Int64()
}

// IsIdentity reports whether m equals 1.
func (m Multiplier) IsIdentity() bool {
	return m.rat.Num().Cmp(m.rat.Denom()) == 0
}

// Equal reports whether m and other are the same rational.
func (m Multiplier) Equal(other Multiplier) bool {
	return m.rat.Cmp(&other.rat) == 0
}

// String renders the multiplier in lowest terms.
func (m Multiplier) String() string {
	return m.rat.RatString()
}

// Offset is an exact rational point in score time, measured from the
// start of the score. The zero value is offset zero.
type Offset struct {
	rat big.Rat
}

// NewOffset creates an offset from a numerator/denominator pair.
func NewOffset(numerator, denominator int64) (Offset, error) {
	if denominator == 0 {
		return Offset{}, fmt.Errorf("offset %d/%d: %w", numerator, denominator, ErrZeroDenominator)
	}

	var off Offset

	off.rat.SetFrac64(numerator, denominator)

	return off, nil
}

// MustOffset is NewOffset that panics on a zero denominator.
func MustOffset(numerator, denominator int64) Offset {
	off, err := NewOffset(numerator, denominator)
	if err != nil {
		panic(err)
	}

	return off
}

// AddDuration returns the offset advanced by dur.
func (o Offset) AddDuration(dur Duration) Offset {
	var out Offset

	out.rat.Add(&o.rat, &dur.rat)

	return out
}

// Sub returns the duration between other and o.
func (o Offset) Sub(other Offset) Duration {
	var out Duration

	out.rat.Sub(&o.rat, &other.rat)

	return out
}

// Cmp compares o and other, returning -1, 0 or +1.
func (o Offset) Cmp(other Offset) int {
	return o.rat.Cmp(&other.rat)
}

// Equal reports whether o and other are the same point in time.
func (o Offset) Equal(other Offset) bool {
	return o.rat.Cmp(&other.rat) == 0
}

// String renders the offset in lowest terms.
func (o Offset) String() string {
	return o.rat.RatString()
}

// Float64 returns the nearest float, for display only.
func (o Offset) Float64() float64 {
	value, _ := o.rat.Float64()

	return value
}

// Pair is a positive integer pair, used for time signatures.
type Pair struct {
	Numerator   int
	Denominator int
}

// Duration returns the pair as an exact duration.
func (p Pair) Duration() Duration {
	return MustDuration(int64(p.Numerator), int64(p.Denominator))
}

// String renders the pair as "n/d".
func (p Pair) String() string {
	return fmt.Sprintf("%d/%d", p.Numerator, p.Denominator)
}

// IsAssignable reports whether the duration can be written as a single
// notehead: positive, power-of-two denominator, and a numerator whose
// binary form is a contiguous run of ones (covering dotted values).
func (d Duration) IsAssignable() bool {
	if d.rat.Sign() <= 0 {
		return false
	}

	den := d.rat.Denom()
	if !den.IsInt64() || !isPowerOfTwo(uint64(den.Int64())) {
		return false
	}

	num := d.rat.Num()
	if !num.IsInt64() {
		return false
	}

	value := uint64(num.Int64())
	value >>= bits.TrailingZeros64(value)

	return value&(value+1) == 0
}

// DurationLog returns the base-two log of the written note value:
// 1/4 -> 2, 1/8 -> 3, 1/1 -> 0, 2/1 -> -1. Second result is the dot
// count. Returns ok=false when the duration is not assignable.
func (d Duration) DurationLog() (log int, dots int, ok bool) {
	if !d.IsAssignable() {
		return 0, 0, false
	}

	num := uint64(d.rat.Num().Int64())
	den := uint64(d.rat.Denom().Int64())

	// An assignable numerator is 2^shift * (2^(dots+1) - 1); the shift is
	// nonzero only for undotted values longer than a whole note.
	shift := bits.TrailingZeros64(num)
	dots = bits.Len64(num>>uint(shift)) - 1
	log = bits.TrailingZeros64(den) - shift - dots

	return log, dots, true
}

// FlagCount returns the number of flags (or beam strokes) the written
// duration carries: 0 for 1/4 and longer, 1 for 1/8, 2 for 1/16, and so on.
func (d Duration) FlagCount() int {
	log, _, ok := d.DurationLog()
	if !ok || log <= 2 {
		return 0
	}

	return log - 2
}

func isPowerOfTwo(value uint64) bool {
	return value != 0 && value&(value-1) == 0
}
