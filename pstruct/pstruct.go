// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package pstruct converts between pvalue.Value trees and the protobuf dynamic value
// messages (google.protobuf.Struct, Value and ListValue).
package pstruct // import "github.com/drift-observability/driftcore/pstruct"

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/drift-observability/driftcore/canonical"
	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pvalue"
)

// deterministic sorts map entries so equal structs always encode to identical bytes.
var deterministic = proto.MarshalOptions{Deterministic: true}

// FromValue maps an object Value onto a Struct. Any other top level value produces a
// Struct with no fields.
func FromValue(v pvalue.Value) *structpb.Struct {
	if v.Type() != pvalue.ValueTypeObject {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}
	}
	return fromMap(v.Object())
}

func fromMap(m pvalue.Map) *structpb.Struct {
	fields := make(map[string]*structpb.Value, m.Len())
	m.Range(func(k string, v pvalue.Value) bool {
		fields[k] = NewValue(v)
		return true
	})
	return &structpb.Struct{Fields: fields}
}

// NewValue maps a Value onto the matching dynamic value kind. Numbers become doubles;
// a number without a finite double representation becomes 0.
func NewValue(v pvalue.Value) *structpb.Value {
	switch v.Type() {
	case pvalue.ValueTypeBool:
		return structpb.NewBoolValue(v.Bool())
	case pvalue.ValueTypeNumber:
		n := v.Number()
		if !n.IsFinite() {
			return structpb.NewNumberValue(0)
		}
		return structpb.NewNumberValue(n.Float64())
	case pvalue.ValueTypeString:
		return structpb.NewStringValue(v.Str())
	case pvalue.ValueTypeArray:
		values := make([]*structpb.Value, v.Len())
		for i := range values {
			values[i] = NewValue(v.At(i))
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values})
	case pvalue.ValueTypeObject:
		return structpb.NewStructValue(fromMap(v.Object()))
	}
	return structpb.NewNullValue()
}

// ToValue maps a Struct back onto an object Value. Fields are ordered by key because
// the Struct does not keep insertion order.
func ToValue(s *structpb.Struct) pvalue.Value {
	kvs := make([]pvalue.KeyValue, 0, len(s.GetFields()))
	for k, v := range s.GetFields() {
		kvs = append(kvs, pvalue.KeyValue{Key: k, Value: valueFromProto(v)})
	}
	return pvalue.NewObject(pvalue.NewMap(kvs...)).SortKeys()
}

func valueFromProto(v *structpb.Value) pvalue.Value {
	switch k := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return pvalue.NewBool(k.BoolValue)
	case *structpb.Value_NumberValue:
		return pvalue.NewDouble(k.NumberValue)
	case *structpb.Value_StringValue:
		return pvalue.NewString(k.StringValue)
	case *structpb.Value_ListValue:
		elems := make([]pvalue.Value, len(k.ListValue.GetValues()))
		for i, e := range k.ListValue.GetValues() {
			elems[i] = valueFromProto(e)
		}
		return pvalue.NewArray(elems...)
	case *structpb.Value_StructValue:
		return ToValue(k.StructValue)
	}
	return pvalue.NewNull()
}

// Marshal encodes s to protobuf bytes. Map entries are written in key order.
func Marshal(s *structpb.Struct) ([]byte, error) {
	buf, err := deterministic.Marshal(s)
	if err != nil {
		return nil, drifterror.NewEncodingFailure("struct", err)
	}
	return buf, nil
}

// Unmarshal decodes protobuf bytes into a Struct.
func Unmarshal(buf []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(buf, s); err != nil {
		return nil, drifterror.NewEncodingFailure("struct", err)
	}
	return s, nil
}

// MarshalValue encodes FromValue(v).
func MarshalValue(v pvalue.Value) ([]byte, error) {
	return Marshal(FromValue(v))
}

// ObjectToStruct parses and normalizes payload text and converts it to a Struct.
func ObjectToStruct(text string) (*structpb.Struct, error) {
	v, _, err := canonical.Canonicalize(text)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

// ObjectToStructBytes parses and normalizes payload text and encodes it as Struct bytes.
func ObjectToStructBytes(text string) ([]byte, error) {
	s, err := ObjectToStruct(text)
	if err != nil {
		return nil, err
	}
	return Marshal(s)
}

// ObjectToStructFieldCount returns the number of top level fields of the Struct built
// from payload text.
func ObjectToStructFieldCount(text string) (int, error) {
	s, err := ObjectToStruct(text)
	if err != nil {
		return 0, err
	}
	return len(s.GetFields()), nil
}
