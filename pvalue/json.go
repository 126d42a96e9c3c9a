// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pvalue // import "github.com/drift-observability/driftcore/pvalue"

import (
	gojson "encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/internal/json"
)

// DefaultMaxDepth is the nesting limit applied by ParseJSON. It matches serde_json, whose
// recursion budget of 128 rejects the 128th nested array or object.
const DefaultMaxDepth = 127

var (
	_ gojson.Marshaler   = Value{}
	_ gojson.Unmarshaler = (*Value)(nil)
)

// MarshalJSON returns the compact JSON text of v. Object fields are written in
// insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	dest := json.BorrowStream(nil)
	defer json.ReturnStream(dest)
	v.marshalJSONStream(dest)
	return slices.Clone(dest.Buffer()), dest.Error
}

func (v Value) marshalJSONStream(dest *json.Stream) {
	switch v.typ {
	case ValueTypeNull:
		dest.WriteNil()
	case ValueTypeBool:
		dest.WriteBool(v.b)
	case ValueTypeNumber:
		switch v.num.kind {
		case NumberKindInt:
			dest.WriteInt64(v.num.i)
		case NumberKindUint:
			dest.WriteUint64(v.num.u)
		default:
			dest.WriteFloat64(v.num.f)
		}
	case ValueTypeString:
		dest.WriteString(v.str)
	case ValueTypeArray:
		dest.WriteArrayStart()
		for _, e := range v.arr {
			dest.WriteArrayElement()
			e.marshalJSONStream(dest)
		}
		dest.WriteArrayEnd()
	case ValueTypeObject:
		dest.WriteObjectStart()
		for _, kv := range v.obj.kvs {
			dest.WriteObjectField(kv.Key)
			kv.Value.marshalJSONStream(dest)
		}
		dest.WriteObjectEnd()
	}
}

// UnmarshalJSON replaces v with the value parsed from data using DefaultMaxDepth.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseJSON parses a single JSON text into a Value using DefaultMaxDepth.
func ParseJSON(data []byte) (Value, error) {
	return ParseJSONDepth(data, DefaultMaxDepth)
}

// ParseJSONDepth parses a single JSON text into a Value. Arrays and objects may nest at
// most maxDepth levels; deeper input fails with an error wrapping
// drifterror.ErrDepthExceeded. A non-positive maxDepth selects DefaultMaxDepth.
// Duplicate object keys collapse to the last value.
func ParseJSONDepth(data []byte, maxDepth int) (Value, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	// jsoniter stops reporting syntax errors once it reaches the end of the buffer, so
	// the whole text is checked against the grammar before the tree is built.
	var raw gojson.RawMessage
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	// encoding/json and jsoniter both turn invalid UTF-8 and unpaired surrogate escapes into U+FFFD.
	if !utf8.Valid(data) {
		return Value{}, errInvalidUTF8
	}
	if err := checkSurrogates(data); err != nil {
		return Value{}, err
	}

	iter := json.BorrowIterator(data)
	defer json.ReturnIterator(iter)
	p := &parser{iter: iter, maxDepth: maxDepth}
	v := p.readValue(0)
	if p.err != nil {
		return Value{}, p.err
	}
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return Value{}, iter.Error
	}
	return v, nil
}

var errInvalidUTF8 = errors.New("invalid UTF-8 in JSON input")

// checkSurrogates rejects \u escapes that encode half of a surrogate pair without the
// other half. data must already be valid JSON.
func checkSurrogates(data []byte) error {
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		i++
		if data[i] != 'u' {
			continue
		}
		r := hex4(data[i+1 : i+5])
		i += 4
		switch {
		case r >= 0xd800 && r < 0xdc00:
			if i+6 < len(data) && data[i+1] == '\\' && data[i+2] == 'u' {
				if lo := hex4(data[i+3 : i+7]); lo >= 0xdc00 && lo <= 0xdfff {
					i += 6
					continue
				}
			}
			return fmt.Errorf("lone leading surrogate in hex escape at offset %d", i-5)
		case r >= 0xdc00 && r <= 0xdfff:
			return fmt.Errorf("lone trailing surrogate in hex escape at offset %d", i-5)
		}
	}
	return nil
}

func hex4(b []byte) rune {
	var r rune
	for _, c := range b {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		}
	}
	return r
}

type parser struct {
	iter     *jsoniter.Iterator
	maxDepth int
	err      error
}

func (p *parser) readValue(depth int) Value {
	switch p.iter.WhatIsNext() {
	case jsoniter.NilValue:
		p.iter.ReadNil()
		return NewNull()
	case jsoniter.BoolValue:
		return NewBool(p.iter.ReadBool())
	case jsoniter.NumberValue:
		n, err := ParseNumber(string(p.iter.ReadNumber()))
		if err != nil {
			p.err = err
			return Value{}
		}
		return NewNumber(n)
	case jsoniter.StringValue:
		return NewString(p.iter.ReadString())
	case jsoniter.ArrayValue:
		if !p.enter(depth) {
			return Value{}
		}
		var elems []Value
		p.iter.ReadArrayCB(func(*jsoniter.Iterator) bool {
			elems = append(elems, p.readValue(depth+1))
			return p.err == nil
		})
		return Value{typ: ValueTypeArray, arr: elems}
	case jsoniter.ObjectValue:
		if !p.enter(depth) {
			return Value{}
		}
		b := newMapBuilder(0)
		p.iter.ReadObjectCB(func(_ *jsoniter.Iterator, key string) bool {
			b.put(key, p.readValue(depth+1))
			return p.err == nil
		})
		return NewObject(b.build())
	}
	p.err = errors.New("unexpected token in JSON input")
	return Value{}
}

func (p *parser) enter(depth int) bool {
	if depth >= p.maxDepth {
		p.err = fmt.Errorf("%w: nesting deeper than %d", drifterror.ErrDepthExceeded, p.maxDepth)
		return false
	}
	return true
}
