// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pschema // import "github.com/drift-observability/driftcore/pschema"

import (
	"strconv"

	"github.com/drift-observability/driftcore/pvalue"
)

// TypeCode tags the shape of a value in a schema. The numeric values are part of the
// wire schema and must never be renumbered; 5 is reserved.
type TypeCode int32

const (
	TypeCodeUnspecified TypeCode = 0
	TypeCodeNumber      TypeCode = 1
	TypeCodeString      TypeCode = 2
	TypeCodeBoolean     TypeCode = 3
	TypeCodeNull        TypeCode = 4
	TypeCodeObject      TypeCode = 6
	TypeCodeOrderedList TypeCode = 7
)

// String returns the string representation of the TypeCode.
func (tc TypeCode) String() string {
	switch tc {
	case TypeCodeUnspecified:
		return "Unspecified"
	case TypeCodeNumber:
		return "Number"
	case TypeCodeString:
		return "String"
	case TypeCodeBoolean:
		return "Boolean"
	case TypeCodeNull:
		return "Null"
	case TypeCodeObject:
		return "Object"
	case TypeCodeOrderedList:
		return "OrderedList"
	}
	return strconv.Itoa(int(tc))
}

// TypeCodeOf returns the TypeCode for the shape of v.
func TypeCodeOf(v pvalue.Value) TypeCode {
	switch v.Type() {
	case pvalue.ValueTypeNull:
		return TypeCodeNull
	case pvalue.ValueTypeBool:
		return TypeCodeBoolean
	case pvalue.ValueTypeNumber:
		return TypeCodeNumber
	case pvalue.ValueTypeString:
		return TypeCodeString
	case pvalue.ValueTypeArray:
		return TypeCodeOrderedList
	case pvalue.ValueTypeObject:
		return TypeCodeObject
	}
	return TypeCodeUnspecified
}

// EncodingType describes how a string field is encoded.
type EncodingType int32

const (
	EncodingTypeUnspecified EncodingType = 0
	EncodingTypeBase64      EncodingType = 1
)

// DecodedType describes what a decoded string field contains.
type DecodedType int32

const (
	DecodedTypeUnspecified DecodedType = 0
	DecodedTypeJSON        DecodedType = 1
)
