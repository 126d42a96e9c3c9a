// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package canonical // import "github.com/drift-observability/driftcore/canonical"

import (
	"errors"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pvalue"
)

// DefaultMaxDepth is the nesting limit used by the package level functions.
const DefaultMaxDepth = pvalue.DefaultMaxDepth

// Parse parses payload text into a Value. Malformed text, or text nesting deeper than
// maxDepth, fails with an InvalidInput error.
func Parse(text string, maxDepth int) (pvalue.Value, error) {
	v, err := pvalue.ParseJSONDepth([]byte(text), maxDepth)
	if err != nil {
		return pvalue.Value{}, drifterror.NewInvalidInput("payload", err)
	}
	return v, nil
}

// Canonicalize parses text and returns the normalized value together with its compact text.
func Canonicalize(text string) (pvalue.Value, string, error) {
	return CanonicalizeDepth(text, DefaultMaxDepth)
}

// CanonicalizeDepth is Canonicalize with an explicit nesting limit.
func CanonicalizeDepth(text string, maxDepth int) (pvalue.Value, string, error) {
	v, err := Parse(text, maxDepth)
	if err != nil {
		return pvalue.Value{}, "", err
	}
	normalized, err := NormalizeValueDepth(v, maxDepth)
	if err != nil {
		return pvalue.Value{}, "", err
	}
	out, err := Marshal(normalized)
	if err != nil {
		return pvalue.Value{}, "", err
	}
	return normalized, out, nil
}

// Normalize returns the normalized compact text of the JSON payload text.
func Normalize(text string) (string, error) {
	_, out, err := Canonicalize(text)
	return out, err
}

// NormalizeValue runs an already parsed value through the serialize/parse round trip.
func NormalizeValue(v pvalue.Value) (pvalue.Value, error) {
	return NormalizeValueDepth(v, DefaultMaxDepth)
}

// NormalizeValueDepth is NormalizeValue with an explicit nesting limit.
func NormalizeValueDepth(v pvalue.Value, maxDepth int) (pvalue.Value, error) {
	buf, err := v.SortKeys().MarshalJSON()
	if err != nil {
		return pvalue.Value{}, drifterror.NewEncodingFailure("normalize", err)
	}
	out, err := pvalue.ParseJSONDepth(buf, maxDepth)
	if err != nil {
		if errors.Is(err, drifterror.ErrDepthExceeded) {
			return pvalue.Value{}, drifterror.NewInvalidInput("payload", err)
		}
		return pvalue.Value{}, drifterror.NewEncodingFailure("normalize", err)
	}
	return out, nil
}

// Marshal returns the compact JSON text of v, preserving field order.
func Marshal(v pvalue.Value) (string, error) {
	buf, err := v.MarshalJSON()
	if err != nil {
		return "", drifterror.NewEncodingFailure("marshal", err)
	}
	return string(buf), nil
}
