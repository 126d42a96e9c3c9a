// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package pspan assembles span records from captured payload data and encodes them
// with the protobuf wire format.
package pspan // import "github.com/drift-observability/driftcore/pspan"
