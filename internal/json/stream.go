// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package json // import "github.com/drift-observability/driftcore/internal/json"

import (
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// compact never escapes HTML and never writes indentation. Floats are formatted by
// WriteFloat64 rather than by jsoniter, which would truncate them to 6 digits.
var compact = jsoniter.Config{EscapeHTML: false}.Froze()

// Stream avoids the need to explicitly call the `Stream.WriteMore` method while marshaling objects and
// arrays by checking if a field or element was previously written inside the current container and
// automatically appending a "," if so before writing the next one.
type Stream struct {
	*jsoniter.Stream
	// wmTracker acts like a stack which pushes a new value when a container is started and removes the
	// top when it is ended.
	wmTracker []bool
}

func BorrowStream(writer io.Writer) *Stream {
	return &Stream{
		Stream:    compact.BorrowStream(writer),
		wmTracker: make([]bool, 0, 32),
	}
}

func ReturnStream(s *Stream) {
	compact.ReturnStream(s.Stream)
}

func (ots *Stream) WriteObjectStart() {
	ots.Stream.WriteObjectStart()
	ots.wmTracker = append(ots.wmTracker, false)
}

func (ots *Stream) WriteObjectField(field string) {
	ots.writeMoreIfNeeded()
	ots.Stream.WriteObjectField(field)
}

func (ots *Stream) WriteObjectEnd() {
	ots.Stream.WriteObjectEnd()
	ots.wmTracker = ots.wmTracker[:len(ots.wmTracker)-1]
}

func (ots *Stream) WriteArrayStart() {
	ots.Stream.WriteArrayStart()
	ots.wmTracker = append(ots.wmTracker, false)
}

// WriteArrayElement must be called before every element written inside an array.
func (ots *Stream) WriteArrayElement() {
	ots.writeMoreIfNeeded()
}

func (ots *Stream) WriteArrayEnd() {
	ots.Stream.WriteArrayEnd()
	ots.wmTracker = ots.wmTracker[:len(ots.wmTracker)-1]
}

func (ots *Stream) writeMoreIfNeeded() {
	top := len(ots.wmTracker) - 1
	if ots.wmTracker[top] {
		ots.WriteMore()
	}
	ots.wmTracker[top] = true
}

// WriteInt64 writes the value as a bare decimal number.
func (ots *Stream) WriteInt64(val int64) {
	ots.WriteRaw(strconv.FormatInt(val, 10))
}

// WriteUint64 writes the value as a bare decimal number.
func (ots *Stream) WriteUint64(val uint64) {
	ots.WriteRaw(strconv.FormatUint(val, 10))
}

// WriteFloat64 writes the shortest representation that parses back to val. The output always
// contains a '.' or an exponent so it is never read back as an integer. NaN and infinities
// have no JSON representation and are written as null.
func (ots *Stream) WriteFloat64(val float64) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		ots.WriteNil()
		return
	}
	ots.WriteRaw(FormatFloat(val))
}

// FormatFloat returns the textual form used by WriteFloat64 for a finite float. The digits
// are the shortest that round-trip. With kk the position of the decimal point relative to the
// first digit, the plain form is used for -5 < kk <= 16 and the exponent form otherwise
// (1e16, 1.5e-7).
func FormatFloat(val float64) string {
	if val == 0 {
		if math.Signbit(val) {
			return "-0.0"
		}
		return "0.0"
	}
	s := strconv.FormatFloat(val, 'e', -1, 64)
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	mantissa, expText, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expText)
	digits := strings.Replace(mantissa, ".", "", 1)
	n := len(digits)
	kk := exp + 1
	switch {
	case n <= kk && kk <= 16:
		// 1234e7 -> 12340000000.0
		return sign + digits + strings.Repeat("0", kk-n) + ".0"
	case 0 < kk && kk <= 16:
		// 1234e-2 -> 12.34
		return sign + digits[:kk] + "." + digits[kk:]
	case -5 < kk && kk <= 0:
		// 1234e-6 -> 0.001234
		return sign + "0." + strings.Repeat("0", -kk) + digits
	case n == 1:
		return sign + digits + "e" + strconv.Itoa(kk-1)
	default:
		return sign + digits[:1] + "." + digits[1:] + "e" + strconv.Itoa(kk-1)
	}
}
