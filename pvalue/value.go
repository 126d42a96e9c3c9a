// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pvalue // import "github.com/drift-observability/driftcore/pvalue"

import (
	"slices"
)

// ValueType specifies the type of Value.
type ValueType int32

const (
	ValueTypeNull ValueType = iota
	ValueTypeBool
	ValueTypeNumber
	ValueTypeString
	ValueTypeArray
	ValueTypeObject
)

// String returns the string representation of the ValueType.
func (avt ValueType) String() string {
	switch avt {
	case ValueTypeNull:
		return "Null"
	case ValueTypeBool:
		return "Bool"
	case ValueTypeNumber:
		return "Number"
	case ValueTypeString:
		return "String"
	case ValueTypeArray:
		return "Array"
	case ValueTypeObject:
		return "Object"
	}
	return ""
}

// Value is an immutable JSON value: null, bool, number, string, array or object.
// The zero Value is null. Every transformation returns a new Value; nothing is
// modified in place, so a Value can be shared between goroutines freely.
type Value struct {
	typ ValueType
	b   bool
	num Number
	str string
	arr []Value
	obj Map
}

// NewNull creates a new Value representing JSON null.
func NewNull() Value {
	return Value{}
}

// NewBool creates a new Value with the given bool value.
func NewBool(v bool) Value {
	return Value{typ: ValueTypeBool, b: v}
}

// NewNumber creates a new Value with the given Number.
func NewNumber(n Number) Value {
	return Value{typ: ValueTypeNumber, num: n}
}

// NewInt creates a new number Value holding an exact integer.
func NewInt(v int64) Value {
	return NewNumber(IntNumber(v))
}

// NewUint creates a new number Value holding an exact unsigned integer.
func NewUint(v uint64) Value {
	return NewNumber(UintNumber(v))
}

// NewDouble creates a new number Value holding a float64.
func NewDouble(v float64) Value {
	return NewNumber(FloatNumber(v))
}

// NewString creates a new Value with the given string value.
func NewString(v string) Value {
	return Value{typ: ValueTypeString, str: v}
}

// NewArray creates a new array Value. The elements are copied.
func NewArray(elems ...Value) Value {
	return Value{typ: ValueTypeArray, arr: slices.Clone(elems)}
}

// NewObject creates a new object Value backed by m.
func NewObject(m Map) Value {
	return Value{typ: ValueTypeObject, obj: m}
}

// NewEmptyObject creates an object Value with no fields.
func NewEmptyObject() Value {
	return Value{typ: ValueTypeObject}
}

// Type returns the type of the value.
func (v Value) Type() ValueType {
	return v.typ
}

// Bool returns the bool value. Returns false if the type is not ValueTypeBool.
func (v Value) Bool() bool {
	return v.b
}

// Number returns the number value. Returns the zero Number if the type is not ValueTypeNumber.
func (v Value) Number() Number {
	return v.num
}

// Str returns the string value. Returns "" if the type is not ValueTypeString.
func (v Value) Str() string {
	return v.str
}

// Len returns the number of array elements or object fields, 0 for scalars.
func (v Value) Len() int {
	switch v.typ {
	case ValueTypeArray:
		return len(v.arr)
	case ValueTypeObject:
		return v.obj.Len()
	}
	return 0
}

// At returns the i-th array element. It panics if the value is not an array or i is out of range.
func (v Value) At(i int) Value {
	if v.typ != ValueTypeArray {
		panic("pvalue: At called on " + v.typ.String())
	}
	return v.arr[i]
}

// Elements returns a copy of the array elements, nil if the value is not an array.
func (v Value) Elements() []Value {
	if v.typ != ValueTypeArray {
		return nil
	}
	return slices.Clone(v.arr)
}

// Object returns the object fields. Returns an empty Map if the type is not ValueTypeObject.
func (v Value) Object() Map {
	if v.typ != ValueTypeObject {
		return Map{}
	}
	return v.obj
}

// Equal reports whether v and o are the same JSON value. Object comparison ignores field order.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case ValueTypeNull:
		return true
	case ValueTypeBool:
		return v.b == o.b
	case ValueTypeNumber:
		return v.num.Equal(o.num)
	case ValueTypeString:
		return v.str == o.str
	case ValueTypeArray:
		return slices.EqualFunc(v.arr, o.arr, Value.Equal)
	case ValueTypeObject:
		return v.obj.Equal(o.obj)
	}
	return false
}

// String returns the compact JSON text of the value.
func (v Value) String() string {
	buf, _ := v.MarshalJSON()
	return string(buf)
}

// SortKeys returns a copy of v in which every object, at any depth, has its keys
// in ascending byte order. Array element order is kept.
func (v Value) SortKeys() Value {
	switch v.typ {
	case ValueTypeArray:
		elems := make([]Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = e.SortKeys()
		}
		return Value{typ: ValueTypeArray, arr: elems}
	case ValueTypeObject:
		return NewObject(v.obj.sorted())
	}
	return v
}
