package dusort

import (
	"fmt"
	"math/bits"
)

// Scale is an ordered table of byte units sharing one base.
type Scale struct {
	// Name identifies the scale in JSON output.
	Name string `json:"name"`
	// Base is the multiplier between consecutive units.
	Base uint64 `json:"base"`
	// Units are the unit suffixes, smallest first.
	Units []string `json:"units"`
}

//nolint:gochecknoglobals // Constant unit tables
var (
	// Binary scales by 1024. It is the default.
	Binary = Scale{Name: "binary", Base: 1024, Units: []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}}
	// Decimal scales by 1000 (SI prefixes).
	Decimal = Scale{Name: "decimal", Base: 1000, Units: []string{"B", "kB", "MB", "GB", "TB", "PB", "EB"}}
)

// Format renders size as "<value> <unit>", see Split.
func (s Scale) Format(size int64) string {
	value, unit := s.Split(size)

	return value + " " + unit
}

// Split renders size with exactly three decimals in the largest unit whose
// multiplier does not exceed it, and returns the value and unit separately.
//
// The unit is chosen from the exact byte count and the value is rounded once,
// half-up. A size just below a unit boundary may therefore render as
// "1024.000 MiB" but never as "1.000 GiB".
// Negative sizes are clamped to zero.
func (s Scale) Split(size int64) (string, string) {
	if len(s.Units) == 0 || s.Base < 2 {
		s = Binary
	}

	if size < 0 {
		size = 0
	}

	n := uint64(size)
	div := uint64(1)
	unit := 0

	for unit < len(s.Units)-1 && n/div >= s.Base {
		div *= s.Base
		unit++
	}

	milli := thousandths(n, div)

	return fmt.Sprintf("%d.%03d", milli/1000, milli%1000), s.Units[unit]
}

// thousandths returns n/div scaled by 1000 and rounded half-up, computed
// exactly in integers.
func thousandths(n, div uint64) uint64 {
	whole, rem := n/div, n%div

	// rem*1000 + div/2 does not fit in 64 bits for the largest units.
	hi, lo := bits.Mul64(rem, 1000)

	var carry uint64

	lo, carry = bits.Add64(lo, div/2, 0)
	hi += carry

	frac, _ := bits.Div64(hi, lo, div)

	return whole*1000 + frac
}
