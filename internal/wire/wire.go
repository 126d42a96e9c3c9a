// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire holds the protobuf wire helpers shared by the hand-written span and export
// request codecs. Encoding follows proto3 rules: scalar fields equal to their zero value
// are not written, while message fields are written whenever they are set.
package wire // import "github.com/drift-observability/driftcore/internal/wire"

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// AppendString appends a string field unless s is empty.
func AppendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// AppendOptionalString appends a string field when s is set, even if it is empty.
func AppendOptionalString(b []byte, num protowire.Number, s *string) []byte {
	if s == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *s)
}

// AppendVarint appends a varint field unless v is zero. Negative enum and int32 values
// must be sign extended by the caller, as protobuf requires.
func AppendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// AppendOptionalVarint appends a varint field when v is set.
func AppendOptionalVarint(b []byte, num protowire.Number, v *int32) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(*v)))
}

// AppendBool appends a bool field unless v is false.
func AppendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

// AppendOptionalDouble appends a double field when v is set.
func AppendOptionalDouble(b []byte, num protowire.Number, v *float64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(*v))
}

// AppendMessage appends an already encoded message as a length-delimited field. The field
// is written even when msg is empty.
func AppendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// ConsumeTag reads a field tag starting at pos.
func ConsumeTag(buf []byte, pos int) (protowire.Number, protowire.Type, int, error) {
	num, typ, n := protowire.ConsumeTag(buf[pos:])
	if n < 0 {
		return 0, 0, pos, fmt.Errorf("proto: invalid tag: %w", protowire.ParseError(n))
	}
	return num, typ, pos + n, nil
}

// ConsumeVarint reads a varint starting at pos.
func ConsumeVarint(buf []byte, pos int) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(buf[pos:])
	if n < 0 {
		return 0, pos, protowire.ParseError(n)
	}
	return v, pos + n, nil
}

// ConsumeFixed64 reads a little endian 64-bit value starting at pos.
func ConsumeFixed64(buf []byte, pos int) (uint64, int, error) {
	v, n := protowire.ConsumeFixed64(buf[pos:])
	if n < 0 {
		return 0, pos, protowire.ParseError(n)
	}
	return v, pos + n, nil
}

// ConsumeLen reads a length-delimited value starting at pos. The returned slice aliases buf.
func ConsumeLen(buf []byte, pos int) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(buf[pos:])
	if n < 0 {
		return nil, pos, protowire.ParseError(n)
	}
	return v, pos + n, nil
}

// SkipField skips the value of an unknown field.
func SkipField(buf []byte, pos int, num protowire.Number, typ protowire.Type) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, buf[pos:])
	if n < 0 {
		return pos, fmt.Errorf("proto: cannot skip field %d: %w", num, protowire.ParseError(n))
	}
	return pos + n, nil
}

// WrongWireType reports a known field encoded with an unexpected wire type.
func WrongWireType(typ protowire.Type, field string) error {
	return fmt.Errorf("proto: wrong wireType = %d for field %s", typ, field)
}
