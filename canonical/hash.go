// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package canonical // import "github.com/drift-observability/driftcore/canonical"

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pvalue"
)

// Hash returns the deterministic hash of v: 64 lowercase hex characters of the SHA-256
// digest of the compact text of v with every object's keys sorted.
func Hash(v pvalue.Value) (string, error) {
	buf, err := v.SortKeys().MarshalJSON()
	if err != nil {
		return "", drifterror.NewEncodingFailure("hash", err)
	}
	digest := sha256.Sum256(buf)
	return hex.EncodeToString(digest[:]), nil
}

// DeterministicHash parses and normalizes text and returns its deterministic hash.
func DeterministicHash(text string) (string, error) {
	_, hash, err := NormalizeAndHash(text)
	return hash, err
}

// NormalizeAndHash returns both the normalized text and the deterministic hash of text.
func NormalizeAndHash(text string) (normalized string, hash string, err error) {
	v, normalized, err := Canonicalize(text)
	if err != nil {
		return "", "", err
	}
	hash, err = Hash(v)
	if err != nil {
		return "", "", err
	}
	return normalized, hash, nil
}
