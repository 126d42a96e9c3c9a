// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamSeparators(t *testing.T) {
	s := BorrowStream(nil)
	defer ReturnStream(s)

	s.WriteObjectStart()
	s.WriteObjectField("a")
	s.WriteArrayStart()
	s.WriteArrayElement()
	s.WriteInt64(1)
	s.WriteArrayElement()
	s.WriteObjectStart()
	s.WriteObjectEnd()
	s.WriteArrayEnd()
	s.WriteObjectField("b")
	s.WriteString("<x>")
	s.WriteObjectEnd()

	require.NoError(t, s.Error)
	assert.Equal(t, `{"a":[1,{}],"b":"<x>"}`, string(s.Buffer()))
}

func TestWriteFloat64(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 1, want: "1.0"},
		{in: -2.5, want: "-2.5"},
		{in: 0.1, want: "0.1"},
		{in: 0, want: "0.0"},
		{in: math.Copysign(0, -1), want: "-0.0"},
		{in: 1e15, want: "1000000000000000.0"},
		{in: 1e16, want: "1e16"},
		{in: 1.25e16, want: "1.25e16"},
		{in: 1e21, want: "1e21"},
		{in: 18446744073709551616, want: "1.8446744073709552e19"},
		{in: 0.00001, want: "0.00001"},
		{in: 0.000001, want: "1e-6"},
		{in: 1.5e-7, want: "1.5e-7"},
		{in: -1.5e-300, want: "-1.5e-300"},
		{in: 123456789.125, want: "123456789.125"},
		{in: 1234.5e-8, want: "0.000012345"},
		{in: math.NaN(), want: "null"},
		{in: math.Inf(-1), want: "null"},
	}
	for _, tt := range tests {
		s := BorrowStream(nil)
		s.WriteFloat64(tt.in)
		assert.Equal(t, tt.want, string(s.Buffer()))
		ReturnStream(s)
	}
}

func TestWriteIntegers(t *testing.T) {
	s := BorrowStream(nil)
	defer ReturnStream(s)
	s.WriteArrayStart()
	s.WriteArrayElement()
	s.WriteInt64(math.MinInt64)
	s.WriteArrayElement()
	s.WriteUint64(math.MaxUint64)
	s.WriteArrayEnd()
	assert.Equal(t, `[-9223372036854775808,18446744073709551615]`, string(s.Buffer()))
}
