// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/featuregate"

	"github.com/drift-observability/driftcore/config/configcompression"
	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pspan"
	"github.com/drift-observability/driftcore/pspan/pspanexport"
	"github.com/drift-observability/driftcore/pstruct"
	"github.com/drift-observability/driftcore/pvalue"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(Settings{Version: "test"})
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandShape(t *testing.T) {
	cmd := NewCommand(Settings{Version: "test"})
	assert.Equal(t, "driftcore", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	for _, name := range []string{"normalize", "hash", "struct", "process", "span", "export"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup(featureGatesFlag))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(configFlag))
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, `{"b":1,"a":[true,null]}`, "normalize")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":[true,null],\"b\":1}\n", out)

	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"z":{"y":1,"x":2}}`), 0o600))
	out, err = run(t, "", "normalize", path)
	require.NoError(t, err)
	assert.Equal(t, "{\"z\":{\"x\":2,\"y\":1}}\n", out)

	_, err = run(t, `{"a":`, "normalize")
	require.Error(t, err)
	assert.True(t, drifterror.IsInvalidInput(err))
}

func TestHashCommand(t *testing.T) {
	out, err := run(t, `{"b":2,"a":{"x":true}}`, "hash")
	require.NoError(t, err)
	assert.Equal(t, "d35f973fe3e4ea38b9976d626f61d3b7b815bb68a5bf2b4f8fecc98fc417c37a\n", out)
}

func TestStructCommand(t *testing.T) {
	out, err := run(t, `{"a":1,"b":"x"}`, "struct", "--count")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, `[1,2]`, "struct", "--count")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	want, err := pstruct.MarshalValue(mustParse(t, `{"a":1,"b":"x"}`))
	require.NoError(t, err)
	out, err = run(t, `{"a":1,"b":"x"}`, "struct", "--output", "hex")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want)+"\n", out)

	out, err = run(t, `{"a":1,"b":"x"}`, "struct", "--output", "raw")
	require.NoError(t, err)
	assert.Equal(t, string(want), out)

	_, err = run(t, `{}`, "struct", "--output", "yaml")
	assert.ErrorContains(t, err, "unsupported output encoding")
}

func TestProcessCommand(t *testing.T) {
	out, err := run(t, `{"decoded_blob":"eyJrIjoidiJ9"}`, "process",
		"--merge-rules", `{"decoded_blob":{"encoding":1,"decoded_type":1}}`)
	require.NoError(t, err)

	var res map[string]string
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(out, &res))
	assert.Equal(t, `{"decoded_blob":"eyJrIjoidiJ9"}`, res["normalized_json"])
	assert.Equal(t, `{"decoded_blob":{"k":"v"}}`, res["decoded_json"])
	assert.Contains(t, res["decoded_schema_json"], `"encoding":1`)
	assert.Len(t, res["decoded_value_hash"], 64)
	assert.Len(t, res["decoded_schema_hash"], 64)

	structBytes, err := base64.StdEncoding.DecodeString(res["struct_bytes"])
	require.NoError(t, err)
	s, err := pstruct.Unmarshal(structBytes)
	require.NoError(t, err)
	assert.Equal(t, `{"decoded_blob":"eyJrIjoidiJ9"}`, pstruct.ToValue(s).String())
}

func TestProcessCommandRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"f":{"decoded_type":1}}`), 0o600))
	out, err := run(t, `{"f":"[1,2]"}`, "process", "--merge-rules-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"decoded_json":"{\"f\":[1,2]}"`)

	_, err = run(t, `{"f":1}`, "process", "--merge-rules", `{not-json`)
	require.Error(t, err)
	assert.True(t, drifterror.IsInvalidInput(err))
}

func TestProcessCommandFeatureGate(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, featuregate.GlobalRegistry().Set("payload.structFromDecodedValue", false))
	})
	out, err := run(t, `{"decoded_blob":"eyJrIjoidiJ9"}`, "process",
		"--feature-gates", "payload.structFromDecodedValue",
		"--merge-rules", `{"decoded_blob":{"encoding":1,"decoded_type":1}}`)
	require.NoError(t, err)

	var res map[string]string
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(out, &res))
	structBytes, err := base64.StdEncoding.DecodeString(res["struct_bytes"])
	require.NoError(t, err)
	s, err := pstruct.Unmarshal(structBytes)
	require.NoError(t, err)
	assert.Equal(t, `{"decoded_blob":{"k":"v"}}`, pstruct.ToValue(s).String())
}

func TestSpanAndExportCommands(t *testing.T) {
	spanOut, err := run(t, "", "span", filepath.Join("testdata", "span.json"))
	require.NoError(t, err)

	spanBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(spanOut))
	require.NoError(t, err)
	span, err := (&pspan.ProtoUnmarshaler{}).UnmarshalSpan(spanBytes)
	require.NoError(t, err)
	assert.Equal(t, "trace-1", span.TraceID)
	assert.Equal(t, pspan.PackageTypeHTTP, span.PackageType)
	assert.Equal(t, pspan.SpanKindServer, span.Kind)
	assert.Equal(t, `{"k":"v"}`, pstruct.ToValue(span.InputValue).String())
	assert.Equal(t, `{"properties":{"k":{"properties":{},"type":2}},"type":6}`, span.InputSchema.Node().Value().String())
	require.NotNil(t, span.Environment)
	assert.Equal(t, "test", *span.Environment)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.b64")
	second := filepath.Join(dir, "second.b64")
	require.NoError(t, os.WriteFile(first, []byte(spanOut), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(spanOut), 0o600))

	exportOut, err := run(t, "", "export", "--config", filepath.Join("testdata", "config.yaml"), first, second)
	require.NoError(t, err)
	compressed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(exportOut))
	require.NoError(t, err)
	reader, err := configcompression.NewReader(configcompression.TypeGzip, bytes.NewReader(compressed))
	require.NoError(t, err)
	raw, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	er := pspanexport.NewExportRequest()
	require.NoError(t, er.UnmarshalProto(raw))
	assert.Equal(t, "svc", er.ObservableServiceID)
	assert.Equal(t, "test", er.Environment)
	assert.Equal(t, "1.0.0", er.SDKVersion)
	assert.Equal(t, "instance-1", er.SDKInstanceID)
	require.Len(t, er.Spans, 2)
	assert.Equal(t, "span-1", er.Spans[1].SpanID)
}

func TestExportCommandGeneratesInstanceID(t *testing.T) {
	t.Setenv("DRIFTCORE_EXPORT__OBSERVABLE_SERVICE_ID", "svc")
	spanBytes, err := pspan.Build(pspan.BuildInput{TraceID: "t"})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "span.bin")
	require.NoError(t, os.WriteFile(path, spanBytes, 0o600))

	out, err := run(t, "", "export", "--input", "raw", "--output", "raw", path)
	require.NoError(t, err)
	er := pspanexport.NewExportRequest()
	require.NoError(t, er.UnmarshalProto([]byte(out)))
	assert.Len(t, er.SDKInstanceID, 36)
	require.Len(t, er.Spans, 1)
	assert.Equal(t, "t", er.Spans[0].TraceID)
}

func TestExportCommandErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hex")
	require.NoError(t, os.WriteFile(path, []byte("ff00ab\n"), 0o600))

	_, err := run(t, "", "export", path)
	assert.ErrorContains(t, err, "observable_service_id")

	t.Setenv("DRIFTCORE_EXPORT__OBSERVABLE_SERVICE_ID", "svc")
	_, err = run(t, "", "export", "--input", "hex", path)
	require.Error(t, err)
	assert.True(t, drifterror.IsEncodingFailure(err))
	assert.ErrorContains(t, err, "index 0")

	_, err = run(t, "", "export", "--input", "base64", path)
	assert.ErrorContains(t, err, "failed to decode")
}

func mustParse(t *testing.T, text string) pvalue.Value {
	v, err := pvalue.ParseJSON([]byte(text))
	require.NoError(t, err)
	return v
}
