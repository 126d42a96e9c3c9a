// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package drifterror // import "github.com/drift-observability/driftcore/drifterror"

import (
	"errors"
)

// ErrDepthExceeded is wrapped by an InvalidInput error when a payload nests arrays or
// objects deeper than the allowed maximum.
var ErrDepthExceeded = errors.New("recursion limit exceeded")

// Kind identifies the class of a classified error.
type Kind int

const (
	// KindInvalidInput marks errors caused by malformed caller input.
	KindInvalidInput Kind = iota + 1
	// KindEncodingFailure marks errors raised while encoding or decoding values.
	KindEncodingFailure
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindEncodingFailure:
		return "EncodingFailure"
	}
	return ""
}

type classified struct {
	error
	kind Kind
	op   string
}

func (e classified) Error() string {
	prefix := "invalid json: "
	if e.kind == KindEncodingFailure {
		prefix = "serialization error: "
	}
	if e.op == "" {
		return prefix + e.error.Error()
	}
	return prefix + e.op + ": " + e.error.Error()
}

// Unwrap returns the wrapped error for use by `errors.Is` and `errors.As`.
func (e classified) Unwrap() error {
	return e.error
}

// NewInvalidInput wraps an error caused by malformed caller input. The op names the
// operation or input that failed, e.g. "payload" or "merge rules"; it may be empty.
func NewInvalidInput(op string, err error) error {
	return classified{error: err, kind: KindInvalidInput, op: op}
}

// NewEncodingFailure wraps an error raised while encoding or decoding a value.
func NewEncodingFailure(op string, err error) error {
	return classified{error: err, kind: KindEncodingFailure, op: op}
}

// IsInvalidInput checks if an error was wrapped with NewInvalidInput.
func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

// IsEncodingFailure checks if an error was wrapped with NewEncodingFailure.
func IsEncodingFailure(err error) bool {
	return KindOf(err) == KindEncodingFailure
}

// KindOf returns the Kind of the outermost classified error in err's chain, or 0 if err
// was never classified.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var c classified
	if errors.As(err, &c) {
		return c.kind
	}
	return 0
}
