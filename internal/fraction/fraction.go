package fraction

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Fraction is an exact non-negative rational number Num/Den.
type Fraction struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// One is the key given to the first item of an empty list.
var One = Fraction{Num: 1, Den: 1}

// ErrOverflow is returned when a new key would not fit in 64-bit terms.
var ErrOverflow = errors.New("fraction: key overflows int64, compaction required")

// DegenerateRangeError reports a request for a key inside an empty or
// inverted interval. It indicates a caller bug, never bad user input.
type DegenerateRangeError struct {
	Lower *Fraction
	Upper *Fraction
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("fraction: no key between %s and %s", boundString(e.Lower, "0/1"), boundString(e.Upper, "+inf"))
}

func boundString(f *Fraction, open string) string {
	if f == nil {
		return open
	}
	return f.String()
}

// New returns num/den reduced to lowest terms.
func New(num, den int64) (Fraction, error) {
	f := Fraction{Num: num, Den: den}
	if !f.Valid() {
		return Fraction{}, fmt.Errorf("fraction: invalid %d/%d", num, den)
	}
	return f.Reduce(), nil
}

// Int returns n/1.
func Int(n int64) Fraction {
	return Fraction{Num: n, Den: 1}
}

// Valid reports whether f satisfies Den > 0 and Num >= 0.
func (f Fraction) Valid() bool {
	return f.Den > 0 && f.Num >= 0
}

// Reduce divides out the greatest common divisor.
func (f Fraction) Reduce() Fraction {
	g := gcd(f.Num, f.Den)
	if g <= 1 {
		return f
	}
	return Fraction{Num: f.Num / g, Den: f.Den / g}
}

// String renders the canonical "num/den" text form.
func (f Fraction) String() string {
	return strconv.FormatInt(f.Num, 10) + "/" + strconv.FormatInt(f.Den, 10)
}

// Float64 is an approximate projection for display and external indexes.
// Ordering decisions must use Compare.
func (f Fraction) Float64() float64 {
	return float64(f.Num) / float64(f.Den)
}

// Parse reads the "num/den" form produced by String. A bare integer is
// accepted as n/1.
func Parse(s string) (Fraction, error) {
	numStr, denStr, found := strings.Cut(strings.TrimSpace(s), "/")
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return Fraction{}, fmt.Errorf("fraction: parse %q: %w", s, err)
	}
	den := int64(1)
	if found {
		den, err = strconv.ParseInt(denStr, 10, 64)
		if err != nil {
			return Fraction{}, fmt.Errorf("fraction: parse %q: %w", s, err)
		}
	}
	f := Fraction{Num: num, Den: den}
	if !f.Valid() {
		return Fraction{}, fmt.Errorf("fraction: parse %q: invalid fraction", s)
	}
	return f, nil
}

// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
// Both fractions must be valid.
func Compare(a, b Fraction) int {
	ahi, alo := bits.Mul64(uint64(a.Num), uint64(b.Den))
	bhi, blo := bits.Mul64(uint64(b.Num), uint64(a.Den))
	switch {
	case ahi < bhi:
		return -1
	case ahi > bhi:
		return 1
	case alo < blo:
		return -1
	case alo > blo:
		return 1
	}
	return 0
}

// Less reports whether a sorts strictly before b.
func Less(a, b Fraction) bool {
	return Compare(a, b) < 0
}

// KeyBetween returns a key strictly between lower and upper. A nil bound is
// open: nil lower means "before upper", nil upper means "after lower".
func KeyBetween(lower, upper *Fraction) (Fraction, error) {
	if (lower != nil && !lower.Valid()) || (upper != nil && !upper.Valid()) {
		return Fraction{}, &DegenerateRangeError{Lower: lower, Upper: upper}
	}

	switch {
	case lower == nil && upper == nil:
		return One, nil

	case upper == nil:
		// Smallest denominator above lower is the next integer.
		whole := lower.Num / lower.Den
		if whole == math.MaxInt64 {
			return Fraction{}, ErrOverflow
		}
		return Int(whole + 1), nil

	case lower == nil:
		// Mediant against the implicit lower bound 0/1.
		if upper.Num == 0 {
			return Fraction{}, &DegenerateRangeError{Upper: upper}
		}
		if upper.Den == math.MaxInt64 {
			return Fraction{}, ErrOverflow
		}
		return Fraction{Num: upper.Num, Den: upper.Den + 1}.Reduce(), nil
	}

	if Compare(*lower, *upper) >= 0 {
		return Fraction{}, &DegenerateRangeError{Lower: lower, Upper: upper}
	}
	if lower.Num > math.MaxInt64-upper.Num || lower.Den > math.MaxInt64-upper.Den {
		return Fraction{}, ErrOverflow
	}
	return Fraction{Num: lower.Num + upper.Num, Den: lower.Den + upper.Den}.Reduce(), nil
}

// IsDegenerate reports whether err is a DegenerateRangeError.
func IsDegenerate(err error) bool {
	var de *DegenerateRangeError
	return errors.As(err, &de)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
