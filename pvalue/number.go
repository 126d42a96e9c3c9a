// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pvalue // import "github.com/drift-observability/driftcore/pvalue"

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/drift-observability/driftcore/internal/json"
)

// NumberKind specifies how a Number is stored.
type NumberKind int32

const (
	// NumberKindInt is an exact integer that fits in an int64.
	NumberKindInt NumberKind = iota
	// NumberKindUint is an exact integer larger than math.MaxInt64.
	NumberKindUint
	// NumberKindFloat is an IEEE-754 double.
	NumberKindFloat
)

// Number is a JSON number. Integers are kept exact when they fit in 64 bits,
// everything else is a float64.
type Number struct {
	kind NumberKind
	i    int64
	u    uint64
	f    float64
}

// IntNumber returns an exact integer Number.
func IntNumber(v int64) Number {
	return Number{kind: NumberKindInt, i: v}
}

// UintNumber returns an exact integer Number. Values that fit in an int64 are stored as NumberKindInt.
func UintNumber(v uint64) Number {
	if v <= math.MaxInt64 {
		return IntNumber(int64(v))
	}
	return Number{kind: NumberKindUint, u: v}
}

// FloatNumber returns a float Number.
func FloatNumber(v float64) Number {
	return Number{kind: NumberKindFloat, f: v}
}

// Kind returns how the number is stored.
func (n Number) Kind() NumberKind {
	return n.kind
}

// Int returns the number as an int64 and true if it is an exact integer in range.
func (n Number) Int() (int64, bool) {
	switch n.kind {
	case NumberKindInt:
		return n.i, true
	case NumberKindFloat:
		if n.f == math.Trunc(n.f) && n.f >= math.MinInt64 && n.f < math.MaxInt64 {
			return int64(n.f), true
		}
	}
	return 0, false
}

// Float64 returns the number converted to a float64. Integers are rounded to the
// nearest double.
func (n Number) Float64() float64 {
	switch n.kind {
	case NumberKindInt:
		return float64(n.i)
	case NumberKindUint:
		return float64(n.u)
	}
	return n.f
}

// IsFinite reports whether Float64 returns a finite double.
func (n Number) IsFinite() bool {
	f := n.Float64()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Equal reports whether both numbers have the same kind and value.
func (n Number) Equal(o Number) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case NumberKindInt:
		return n.i == o.i
	case NumberKindUint:
		return n.u == o.u
	}
	return n.f == o.f || (math.IsNaN(n.f) && math.IsNaN(o.f))
}

// String returns the JSON text of the number.
func (n Number) String() string {
	switch n.kind {
	case NumberKindInt:
		return strconv.FormatInt(n.i, 10)
	case NumberKindUint:
		return strconv.FormatUint(n.u, 10)
	}
	if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
		return "null"
	}
	return json.FormatFloat(n.f)
}

var errNumberOutOfRange = errors.New("number out of range")

// ParseNumber parses a JSON number literal. Integer literals that do not fit in 64 bits
// become floats, as does "-0" so that its sign survives; literals whose magnitude
// overflows a float64 are rejected.
func ParseNumber(s string) (Number, error) {
	isInt, ok := scanNumber(s)
	if !ok {
		return Number{}, fmt.Errorf("invalid number literal %q", s)
	}
	if isInt && s != "-0" {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntNumber(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return UintNumber(u), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Underflow rounds to zero and is accepted.
		if errors.Is(err, strconv.ErrRange) && !math.IsInf(f, 0) {
			return FloatNumber(f), nil
		}
		return Number{}, fmt.Errorf("%w: %s", errNumberOutOfRange, s)
	}
	return FloatNumber(f), nil
}

// scanNumber checks s against the JSON number grammar and reports whether it has
// neither a fraction nor an exponent.
func scanNumber(s string) (isInt bool, ok bool) {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false, false
	}
	isInt = true
	if i < len(s) && s[i] == '.' {
		isInt = false
		i++
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false, false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		isInt = false
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false, false
		}
	}
	return isInt, i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
