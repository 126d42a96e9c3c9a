// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pvalue

import (
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-observability/driftcore/drifterror"
)

func TestParseJSONKeepsOrder(t *testing.T) {
	v, err := ParseJSON([]byte(` {"b": 2, "a": {"x": true}, "c": [1, 2.5, "s", null]} `))
	require.NoError(t, err)
	assert.Equal(t, ValueTypeObject, v.Type())
	assert.Equal(t, []string{"b", "a", "c"}, v.Object().Keys())
	assert.Equal(t, `{"b":2,"a":{"x":true},"c":[1,2.5,"s",null]}`, v.String())
}

func TestParseJSONScalars(t *testing.T) {
	tests := []struct {
		in   string
		want Value
	}{
		{in: `null`, want: NewNull()},
		{in: `true`, want: NewBool(true)},
		{in: `false`, want: NewBool(false)},
		{in: `42`, want: NewInt(42)},
		{in: `-1.5e3`, want: NewDouble(-1500)},
		{in: `"hé\n"`, want: NewString("hé\n")},
		{in: `[]`, want: NewArray()},
		{in: `{}`, want: NewEmptyObject()},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseJSONDuplicateKeys(t *testing.T) {
	v, err := ParseJSON([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, v.String())
}

func TestParseJSONInvalid(t *testing.T) {
	for _, in := range []string{
		``,
		`{not-json`,
		`{"a":1`,
		`"abc`,
		`[1,]`,
		`{} {}`,
		`{"a":1} x`,
		`tru`,
		`01`,
		`1e400`,
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParseJSONDepth(t *testing.T) {
	nested := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	_, err := ParseJSONDepth([]byte(nested), 5)
	require.NoError(t, err)

	_, err = ParseJSONDepth([]byte(nested), 4)
	require.ErrorIs(t, err, drifterror.ErrDepthExceeded)

	_, err = ParseJSON([]byte(strings.Repeat("[", 127) + strings.Repeat("]", 127)))
	require.NoError(t, err)
	_, err = ParseJSON([]byte(strings.Repeat("[", 128) + strings.Repeat("]", 128)))
	require.ErrorIs(t, err, drifterror.ErrDepthExceeded)

	deep := strings.Repeat(`{"a":`, DefaultMaxDepth+1) + "1" + strings.Repeat("}", DefaultMaxDepth+1)
	_, err = ParseJSON([]byte(deep))
	assert.ErrorIs(t, err, drifterror.ErrDepthExceeded)
}

func TestParseJSONRejectsInvalidText(t *testing.T) {
	for _, in := range []string{
		`{"a":"\ud800"}`,
		`{"a":"\udc00"}`,
		`["\ud800\u0041"]`,
		`"\uD83D"`,
		"{\"a\":\"\xff\"}",
		"\"\xed\xa0\x80\"",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParseJSONSurrogatePairs(t *testing.T) {
	v, err := ParseJSON([]byte(`{"e":"\ud83d\ude00","k":"\\ud800","p":"\uD83D\uDE00x"}`))
	require.NoError(t, err)
	e, _ := v.Object().Get("e")
	assert.Equal(t, "😀", e.Str())
	k, _ := v.Object().Get("k")
	assert.Equal(t, `\ud800`, k.Str())
	p, _ := v.Object().Get("p")
	assert.Equal(t, "😀x", p.Str())
}

func TestValueAsJSONField(t *testing.T) {
	type envelope struct {
		Name    string `json:"name"`
		Payload Value  `json:"payload"`
	}
	var e envelope
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(
		[]byte(`{"name":"n","payload":{"z":1,"a":[true]}}`), &e))
	assert.Equal(t, "n", e.Name)
	assert.Equal(t, `{"z":1,"a":[true]}`, e.Payload.String())

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(e)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"n","payload":{"z":1,"a":[true]}}`, string(out))
}

func TestMarshalJSONEscapes(t *testing.T) {
	v := NewObject(NewMap(KeyValue{Key: "q\"k", Value: NewString("a<b>\\")}))
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"q\"k":"a<b>\\"}`, string(out))
}
