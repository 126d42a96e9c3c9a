// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspan // import "github.com/drift-observability/driftcore/pspan"

import "github.com/drift-observability/driftcore/drifterror"

// Marshaler encodes spans into bytes.
type Marshaler interface {
	MarshalSpan(s *Span) ([]byte, error)
}

// Unmarshaler decodes spans from bytes.
type Unmarshaler interface {
	UnmarshalSpan(buf []byte) (*Span, error)
}

var (
	_ Marshaler   = (*ProtoMarshaler)(nil)
	_ Unmarshaler = (*ProtoUnmarshaler)(nil)
)

// ProtoMarshaler encodes spans in the protobuf wire format.
type ProtoMarshaler struct{}

func (e *ProtoMarshaler) MarshalSpan(s *Span) ([]byte, error) {
	buf, err := s.MarshalProto()
	if err != nil {
		return nil, drifterror.NewEncodingFailure("span", err)
	}
	return buf, nil
}

// ProtoUnmarshaler decodes spans from the protobuf wire format.
type ProtoUnmarshaler struct{}

func (d *ProtoUnmarshaler) UnmarshalSpan(buf []byte) (*Span, error) {
	s := &Span{}
	if err := s.UnmarshalProto(buf); err != nil {
		return nil, drifterror.NewEncodingFailure("span", err)
	}
	return s, nil
}
