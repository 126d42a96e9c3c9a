// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload turns a captured JSON payload into everything needed to record it:
// the normalized value, the decoded value after applying decode-merge directives, the
// schema and hash of the decoded value, and the protobuf Struct bytes.
//
// The Struct bytes are built from the normalized value, not the decoded one, so the
// recorded payload keeps encoded fields as they were captured while hashes and schemas
// reflect their decoded content. The payload.structFromDecodedValue feature gate switches
// the Struct bytes to the decoded value.
package payload // import "github.com/drift-observability/driftcore/payload"
