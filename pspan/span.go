// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspan // import "github.com/drift-observability/driftcore/pspan"

import (
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/drift-observability/driftcore/internal/wire"
)

// Status holds the outcome code and message of a span.
type Status struct {
	Code    StatusCode
	Message string
}

// Span is one recorded operation: identity, timing, status, captured input and output
// values with their schemas and hashes, and free-form metadata.
type Span struct {
	TraceID             string
	SpanID              string
	ParentSpanID        string
	Name                string
	PackageName         string
	InstrumentationName string
	SubmoduleName       string
	PackageType         PackageType
	InputValue          *structpb.Struct
	OutputValue         *structpb.Struct
	InputSchema         *JSONSchema
	OutputSchema        *JSONSchema
	InputSchemaHash     string
	OutputSchemaHash    string
	InputValueHash      string
	OutputValueHash     string
	Kind                SpanKind
	Status              *Status
	IsPreAppStart       bool
	Timestamp           *timestamppb.Timestamp
	Duration            *durationpb.Duration
	IsRootSpan          bool
	Metadata            *structpb.Struct
	Environment         *string
	ID                  *string
}

var (
	deterministic = proto.MarshalOptions{Deterministic: true}
	mergeInto     = proto.UnmarshalOptions{Merge: true}
)

// MarshalProto returns the protobuf encoding of the span.
func (s *Span) MarshalProto() ([]byte, error) {
	return s.AppendProto(nil)
}

// AppendProto appends the protobuf encoding of the span to b.
func (s *Span) AppendProto(b []byte) ([]byte, error) {
	var err error
	b = wire.AppendString(b, 1, s.TraceID)
	b = wire.AppendString(b, 2, s.SpanID)
	b = wire.AppendString(b, 3, s.ParentSpanID)
	b = wire.AppendString(b, 4, s.Name)
	b = wire.AppendString(b, 5, s.PackageName)
	b = wire.AppendString(b, 6, s.InstrumentationName)
	b = wire.AppendString(b, 7, s.SubmoduleName)
	b = wire.AppendVarint(b, 8, uint64(int64(s.PackageType)))
	if b, err = appendMessage(b, 9, s.InputValue); err != nil {
		return nil, err
	}
	if b, err = appendMessage(b, 10, s.OutputValue); err != nil {
		return nil, err
	}
	if s.InputSchema != nil {
		b = wire.AppendMessage(b, 11, s.InputSchema.appendProto(nil))
	}
	if s.OutputSchema != nil {
		b = wire.AppendMessage(b, 12, s.OutputSchema.appendProto(nil))
	}
	b = wire.AppendString(b, 13, s.InputSchemaHash)
	b = wire.AppendString(b, 14, s.OutputSchemaHash)
	b = wire.AppendString(b, 15, s.InputValueHash)
	b = wire.AppendString(b, 16, s.OutputValueHash)
	b = wire.AppendVarint(b, 17, uint64(int64(s.Kind)))
	if s.Status != nil {
		var status []byte
		status = wire.AppendVarint(status, 1, uint64(int64(s.Status.Code)))
		status = wire.AppendString(status, 2, s.Status.Message)
		b = wire.AppendMessage(b, 18, status)
	}
	b = wire.AppendBool(b, 19, s.IsPreAppStart)
	if b, err = appendMessage(b, 20, s.Timestamp); err != nil {
		return nil, err
	}
	if b, err = appendMessage(b, 21, s.Duration); err != nil {
		return nil, err
	}
	b = wire.AppendBool(b, 22, s.IsRootSpan)
	if b, err = appendMessage(b, 23, s.Metadata); err != nil {
		return nil, err
	}
	b = wire.AppendOptionalString(b, 24, s.Environment)
	b = wire.AppendOptionalString(b, 25, s.ID)
	return b, nil
}

// appendMessage writes a well-known message field when m is non-nil. Typed nil pointers
// wrapped in the interface are treated as unset.
func appendMessage[M interface {
	proto.Message
	comparable
}](b []byte, num protowire.Number, m M) ([]byte, error) {
	var zero M
	if m == zero {
		return b, nil
	}
	msg, err := deterministic.Marshal(m)
	if err != nil {
		return nil, err
	}
	return wire.AppendMessage(b, num, msg), nil
}

// UnmarshalProto decodes a protobuf encoded span into s. Unknown fields are skipped;
// a known field with an unexpected wire type is an error.
func (s *Span) UnmarshalProto(buf []byte) error {
	for pos := 0; pos < len(buf); {
		num, typ, next, err := wire.ConsumeTag(buf, pos)
		if err != nil {
			return err
		}
		pos = next
		switch num {
		case 1, 2, 3, 4, 5, 6, 7, 13, 14, 15, 16, 24, 25:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, stringFieldNames[num])
			}
			var v []byte
			if v, pos, err = wire.ConsumeLen(buf, pos); err != nil {
				return err
			}
			s.setString(num, string(v))
		case 8, 17, 19, 22:
			if typ != protowire.VarintType {
				return wire.WrongWireType(typ, varintFieldNames[num])
			}
			var v uint64
			if v, pos, err = wire.ConsumeVarint(buf, pos); err != nil {
				return err
			}
			s.setVarint(num, v)
		case 9, 10, 11, 12, 18, 20, 21, 23:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, messageFieldNames[num])
			}
			var msg []byte
			if msg, pos, err = wire.ConsumeLen(buf, pos); err != nil {
				return err
			}
			if err = s.setMessage(num, msg); err != nil {
				return err
			}
		default:
			if pos, err = wire.SkipField(buf, pos, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

var stringFieldNames = map[protowire.Number]string{
	1: "TraceID", 2: "SpanID", 3: "ParentSpanID", 4: "Name", 5: "PackageName",
	6: "InstrumentationName", 7: "SubmoduleName", 13: "InputSchemaHash", 14: "OutputSchemaHash",
	15: "InputValueHash", 16: "OutputValueHash", 24: "Environment", 25: "ID",
}

var varintFieldNames = map[protowire.Number]string{
	8: "PackageType", 17: "Kind", 19: "IsPreAppStart", 22: "IsRootSpan",
}

var messageFieldNames = map[protowire.Number]string{
	9: "InputValue", 10: "OutputValue", 11: "InputSchema", 12: "OutputSchema",
	18: "Status", 20: "Timestamp", 21: "Duration", 23: "Metadata",
}

func (s *Span) setString(num protowire.Number, v string) {
	switch num {
	case 1:
		s.TraceID = v
	case 2:
		s.SpanID = v
	case 3:
		s.ParentSpanID = v
	case 4:
		s.Name = v
	case 5:
		s.PackageName = v
	case 6:
		s.InstrumentationName = v
	case 7:
		s.SubmoduleName = v
	case 13:
		s.InputSchemaHash = v
	case 14:
		s.OutputSchemaHash = v
	case 15:
		s.InputValueHash = v
	case 16:
		s.OutputValueHash = v
	case 24:
		s.Environment = &v
	case 25:
		s.ID = &v
	}
}

func (s *Span) setVarint(num protowire.Number, v uint64) {
	switch num {
	case 8:
		s.PackageType = PackageType(int32(v))
	case 17:
		s.Kind = SpanKind(int32(v))
	case 19:
		s.IsPreAppStart = v != 0
	case 22:
		s.IsRootSpan = v != 0
	}
}

func (s *Span) setMessage(num protowire.Number, msg []byte) error {
	switch num {
	case 9:
		s.InputValue = orNew(s.InputValue)
		return mergeInto.Unmarshal(msg, s.InputValue)
	case 10:
		s.OutputValue = orNew(s.OutputValue)
		return mergeInto.Unmarshal(msg, s.OutputValue)
	case 11:
		s.InputSchema = orNew(s.InputSchema)
		return s.InputSchema.unmarshalProto(msg, 0)
	case 12:
		s.OutputSchema = orNew(s.OutputSchema)
		return s.OutputSchema.unmarshalProto(msg, 0)
	case 18:
		s.Status = orNew(s.Status)
		return s.Status.unmarshalProto(msg)
	case 20:
		s.Timestamp = orNew(s.Timestamp)
		return mergeInto.Unmarshal(msg, s.Timestamp)
	case 21:
		s.Duration = orNew(s.Duration)
		return mergeInto.Unmarshal(msg, s.Duration)
	case 23:
		s.Metadata = orNew(s.Metadata)
		return mergeInto.Unmarshal(msg, s.Metadata)
	}
	return nil
}

// orNew keeps an existing message so repeated occurrences merge, as protobuf requires.
func orNew[T any](m *T) *T {
	if m != nil {
		return m
	}
	return new(T)
}

func (st *Status) unmarshalProto(buf []byte) error {
	for pos := 0; pos < len(buf); {
		num, typ, next, err := wire.ConsumeTag(buf, pos)
		if err != nil {
			return err
		}
		pos = next
		switch num {
		case 1:
			if typ != protowire.VarintType {
				return wire.WrongWireType(typ, "Status.Code")
			}
			var v uint64
			if v, pos, err = wire.ConsumeVarint(buf, pos); err != nil {
				return err
			}
			st.Code = StatusCode(int32(v))
		case 2:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, "Status.Message")
			}
			var v []byte
			if v, pos, err = wire.ConsumeLen(buf, pos); err != nil {
				return err
			}
			st.Message = string(v)
		default:
			if pos, err = wire.SkipField(buf, pos, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}
