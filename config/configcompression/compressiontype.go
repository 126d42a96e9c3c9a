// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package configcompression defines the compression applied to encoded export requests
// before they are written out.
package configcompression // import "github.com/drift-observability/driftcore/config/configcompression"

import "fmt"

// Type represents a compression method.
type Type string

const (
	TypeGzip    Type = "gzip"
	TypeZlib    Type = "zlib"
	TypeDeflate Type = "deflate"
	TypeSnappy  Type = "snappy"
	TypeZstd    Type = "zstd"
	typeNone    Type = "none"
	typeEmpty   Type = ""
)

// IsCompressed returns false if Type is nil, none, or empty.
// Otherwise, returns true.
func (ct *Type) IsCompressed() bool {
	return ct != nil && *ct != typeEmpty && *ct != typeNone
}

func (ct *Type) UnmarshalText(in []byte) error {
	typ := Type(in)
	if err := typ.Validate(); err != nil {
		return err
	}
	*ct = typ
	return nil
}

// Validate checks that the compression type is supported.
func (ct Type) Validate() error {
	switch ct {
	case TypeGzip,
		TypeZlib,
		TypeDeflate,
		TypeSnappy,
		TypeZstd,
		typeNone,
		typeEmpty:
		return nil
	}
	return fmt.Errorf("unsupported compression type %q", ct)
}
