// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package drifterror provides wrappers to classify errors returned by the driftcore
// packages. This allows callers, usually thin host bindings, to map failures onto their
// own error types without inspecting messages.
//
// # Error kinds
//
// InvalidInput errors are caused by the caller: the payload text or a decode-merge
// directive map is not valid JSON, or a payload nests deeper than the configured limit.
// Retrying with the same input always fails again.
//
// EncodingFailure errors are caused by bytes that do not decode as the expected protobuf
// message, or by a value tree that cannot be serialized. They carry the underlying cause.
//
// Best-effort decode steps (base64 and embedded JSON in payload merges) never produce
// either kind; they fall back to the unmodified value.
package drifterror // import "github.com/drift-observability/driftcore/drifterror"
