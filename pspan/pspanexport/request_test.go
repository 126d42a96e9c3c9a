// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspanexport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pspan"
)

func buildSpan(t *testing.T, traceID, spanID string) []byte {
	buf, err := pspan.Build(pspan.BuildInput{TraceID: traceID, SpanID: spanID, Name: "op"})
	require.NoError(t, err)
	return buf
}

func TestBuildRequest(t *testing.T) {
	spans := [][]byte{buildSpan(t, "t1", "s1"), buildSpan(t, "t2", "s2")}
	buf, err := BuildRequest("svc", "production", "1.2.3", "instance", spans)
	require.NoError(t, err)

	er := NewExportRequest()
	require.NoError(t, er.UnmarshalProto(buf))
	assert.Equal(t, "svc", er.ObservableServiceID)
	assert.Equal(t, "production", er.Environment)
	assert.Equal(t, "1.2.3", er.SDKVersion)
	assert.Equal(t, "instance", er.SDKInstanceID)
	require.Len(t, er.Spans, 2)
	assert.Equal(t, "t1", er.Spans[0].TraceID)
	assert.Equal(t, "s1", er.Spans[0].SpanID)
	assert.Equal(t, "t2", er.Spans[1].TraceID)
	assert.Equal(t, "s2", er.Spans[1].SpanID)
}

func TestBuildRequestReencodesSpansUnchanged(t *testing.T) {
	span := buildSpan(t, "t1", "s1")
	buf, err := BuildRequest("svc", "", "", "", [][]byte{span})
	require.NoError(t, err)

	er := NewExportRequest()
	require.NoError(t, er.UnmarshalProto(buf))
	require.Len(t, er.Spans, 1)
	again, err := er.Spans[0].MarshalProto()
	require.NoError(t, err)
	assert.Equal(t, span, again)
}

func TestBuildRequestEmpty(t *testing.T) {
	buf, err := BuildRequest("", "", "", "", nil)
	require.NoError(t, err)
	assert.Empty(t, buf)

	er := NewExportRequest()
	require.NoError(t, er.UnmarshalProto(buf))
	assert.Empty(t, er.Spans)
}

func TestBuildRequestFailsOnBadSpan(t *testing.T) {
	spans := [][]byte{buildSpan(t, "t1", "s1"), {0xff, 0x00, 0xab}, buildSpan(t, "t3", "s3"), {0x08, 0x01}}
	_, err := BuildRequest("svc", "env", "v", "id", spans)
	require.Error(t, err)
	assert.True(t, drifterror.IsEncodingFailure(err))
	assert.ErrorContains(t, err, "failed to decode span proto bytes at index 1")
	assert.ErrorContains(t, err, "failed to decode span proto bytes at index 3")
	assert.Len(t, multierr.Errors(errors.Unwrap(err)), 2)
}

func TestUnmarshalProtoError(t *testing.T) {
	er := NewExportRequest()
	err := er.UnmarshalProto([]byte{0x08, 0x01})
	require.Error(t, err)
	assert.True(t, drifterror.IsEncodingFailure(err))
}
