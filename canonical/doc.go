// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonical normalizes JSON payloads and computes content hashes that do not
// depend on object key order or on the formatting of the source text.
//
// Normalization parses the text, writes it back compactly with object keys in byte
// order, and parses the result again. Normalizing an already normalized value is a no-op.
// The deterministic hash is the lowercase hex SHA-256 of the compact, key-sorted text.
package canonical // import "github.com/drift-observability/driftcore/canonical"
