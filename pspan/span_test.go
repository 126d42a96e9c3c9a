// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pschema"
)

func TestSchemaRoundTrip(t *testing.T) {
	rules, err := pschema.ParseMergeRules(`{"blob":{"encoding":1,"decoded_type":1,"match_importance":0.25}}`)
	require.NoError(t, err)
	node := pschema.Infer(*mustValue(t, `{"blob":{"k":"v"},"list":[{"x":1}],"n":null}`), rules, true)

	s := &Span{InputSchema: SchemaFromNode(node)}
	buf, err := s.MarshalProto()
	require.NoError(t, err)

	got := &Span{}
	require.NoError(t, got.UnmarshalProto(buf))
	assert.Equal(t, node.Value().String(), got.InputSchema.Node().Value().String())
	assert.Nil(t, got.OutputSchema)
}

func TestSchemaFromNilNode(t *testing.T) {
	s := SchemaFromNode(nil)
	assert.Equal(t, &JSONSchema{}, s)
	assert.Equal(t, `{"properties":{},"type":0}`, s.Node().Value().String())
	assert.Nil(t, (*JSONSchema)(nil).Node())
}

func TestSchemaNegativeAndNonFinite(t *testing.T) {
	neg := int32(-3)
	inf := math.Inf(1)
	s := &Span{OutputSchema: &JSONSchema{Type: -1, Encoding: &neg, MatchImportance: &inf}}
	buf, err := s.MarshalProto()
	require.NoError(t, err)

	got := &Span{}
	require.NoError(t, got.UnmarshalProto(buf))
	assert.Equal(t, int32(-1), got.OutputSchema.Type)
	require.NotNil(t, got.OutputSchema.Encoding)
	assert.Equal(t, int32(-3), *got.OutputSchema.Encoding)
	require.NotNil(t, got.OutputSchema.MatchImportance)
	assert.True(t, math.IsInf(*got.OutputSchema.MatchImportance, 1))
}

func TestEmptySpanMarshalsToNothing(t *testing.T) {
	buf, err := (&Span{}).MarshalProto()
	require.NoError(t, err)
	assert.Empty(t, buf)
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future")
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, "name")
	b = protowire.AppendTag(b, 25, protowire.BytesType)
	b = protowire.AppendString(b, "")

	got := &Span{}
	require.NoError(t, got.UnmarshalProto(b))
	assert.Equal(t, "name", got.Name)
	require.NotNil(t, got.ID)
	assert.Empty(t, *got.ID)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "wrong wire type", buf: []byte{0x08, 0x01}},
		{name: "wrong wire type for flag", buf: []byte{0x9a, 0x01, 0x00}},
		{name: "truncated string", buf: []byte{0x0a, 0x05, 'a'}},
		{name: "garbage", buf: []byte{0xff, 0x00, 0xab}},
		{name: "bad nested struct", buf: []byte{0x4a, 0x03, 0xff, 0x00, 0xab}},
		{name: "bad nested schema", buf: []byte{0x5a, 0x02, 0x0a, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ProtoUnmarshaler{}).UnmarshalSpan(tt.buf)
			require.Error(t, err)
			assert.True(t, drifterror.IsEncodingFailure(err))
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "HTTP", PackageTypeHTTP.String())
	assert.Equal(t, "42", PackageType(42).String())
	assert.Equal(t, "Client", SpanKindClient.String())
	assert.Equal(t, "9", SpanKind(9).String())
	assert.Equal(t, "Error", StatusCodeError.String())
	assert.Equal(t, "Unset", StatusCode(0).String())
}
