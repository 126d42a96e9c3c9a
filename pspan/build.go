// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspan // import "github.com/drift-observability/driftcore/pspan"

import (
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/drift-observability/driftcore/pschema"
	"github.com/drift-observability/driftcore/pstruct"
	"github.com/drift-observability/driftcore/pvalue"
)

// BuildInput carries every caller-supplied field of a span.
type BuildInput struct {
	TraceID             string
	SpanID              string
	ParentSpanID        string
	Name                string
	PackageName         string
	InstrumentationName string
	SubmoduleName       string
	PackageType         PackageType
	Environment         *string
	Kind                SpanKind

	InputSchema      *pschema.Node
	OutputSchema     *pschema.Node
	InputSchemaHash  string
	OutputSchemaHash string
	InputValueHash   string
	OutputValueHash  string

	StatusCode    StatusCode
	StatusMessage string
	IsPreAppStart bool
	IsRootSpan    bool

	TimestampSeconds int64
	TimestampNanos   int32
	DurationSeconds  int64
	DurationNanos    int32

	// Metadata defaults to an empty object.
	Metadata *pvalue.Value
	// InputValue is used when InputValueStructBytes is nil. Both absent means an empty object.
	InputValue  *pvalue.Value
	OutputValue *pvalue.Value
	// InputValueStructBytes holds an already encoded Struct, typically payload.Result.StructBytes.
	// A non-nil empty slice is a valid, empty Struct.
	InputValueStructBytes  []byte
	OutputValueStructBytes []byte
}

// NewSpan assembles a Span from in. It fails with an EncodingFailure error when supplied
// Struct bytes do not decode.
func NewSpan(in BuildInput) (*Span, error) {
	inputValue, err := structFrom(in.InputValueStructBytes, in.InputValue)
	if err != nil {
		return nil, err
	}
	outputValue, err := structFrom(in.OutputValueStructBytes, in.OutputValue)
	if err != nil {
		return nil, err
	}
	var env *string
	if in.Environment != nil {
		e := *in.Environment
		env = &e
	}
	return &Span{
		TraceID:             in.TraceID,
		SpanID:              in.SpanID,
		ParentSpanID:        in.ParentSpanID,
		Name:                in.Name,
		PackageName:         in.PackageName,
		InstrumentationName: in.InstrumentationName,
		SubmoduleName:       in.SubmoduleName,
		PackageType:         in.PackageType,
		InputValue:          inputValue,
		OutputValue:         outputValue,
		InputSchema:         SchemaFromNode(in.InputSchema),
		OutputSchema:        SchemaFromNode(in.OutputSchema),
		InputSchemaHash:     in.InputSchemaHash,
		OutputSchemaHash:    in.OutputSchemaHash,
		InputValueHash:      in.InputValueHash,
		OutputValueHash:     in.OutputValueHash,
		Kind:                in.Kind,
		Status:              &Status{Code: in.StatusCode, Message: in.StatusMessage},
		IsPreAppStart:       in.IsPreAppStart,
		Timestamp:           &timestamppb.Timestamp{Seconds: in.TimestampSeconds, Nanos: in.TimestampNanos},
		Duration:            &durationpb.Duration{Seconds: in.DurationSeconds, Nanos: in.DurationNanos},
		IsRootSpan:          in.IsRootSpan,
		Metadata:            structFromValue(in.Metadata),
		Environment:         env,
	}, nil
}

// Build assembles a span and returns its protobuf encoding. The output is either a
// complete encoding or an error.
func Build(in BuildInput) ([]byte, error) {
	s, err := NewSpan(in)
	if err != nil {
		return nil, err
	}
	return (&ProtoMarshaler{}).MarshalSpan(s)
}

func structFrom(encoded []byte, v *pvalue.Value) (*structpb.Struct, error) {
	if encoded != nil {
		return pstruct.Unmarshal(encoded)
	}
	return structFromValue(v), nil
}

func structFromValue(v *pvalue.Value) *structpb.Struct {
	if v == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}
	}
	return pstruct.FromValue(*v)
}
