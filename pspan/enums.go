// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspan // import "github.com/drift-observability/driftcore/pspan"

import "strconv"

// PackageType identifies the kind of library that produced a span. Values are copied to
// the wire unchanged, so values without a named constant are still valid.
type PackageType int32

const (
	PackageTypeUnspecified PackageType = 0
	PackageTypeHTTP        PackageType = 1
	PackageTypeGraphQL     PackageType = 2
	PackageTypeGRPC        PackageType = 3
	PackageTypePG          PackageType = 4
	PackageTypeMySQL       PackageType = 5
	PackageTypeMongoDB     PackageType = 6
	PackageTypeRedis       PackageType = 7
)

// String returns the string representation of the PackageType.
func (pt PackageType) String() string {
	switch pt {
	case PackageTypeUnspecified:
		return "Unspecified"
	case PackageTypeHTTP:
		return "HTTP"
	case PackageTypeGraphQL:
		return "GraphQL"
	case PackageTypeGRPC:
		return "GRPC"
	case PackageTypePG:
		return "PG"
	case PackageTypeMySQL:
		return "MySQL"
	case PackageTypeMongoDB:
		return "MongoDB"
	case PackageTypeRedis:
		return "Redis"
	}
	return strconv.Itoa(int(pt))
}

// SpanKind is the type of span, with the same meaning as in OpenTelemetry.
type SpanKind int32

const (
	// SpanKindUnspecified represents that the SpanKind is unspecified.
	SpanKindUnspecified SpanKind = 0
	// SpanKindInternal indicates an internal operation within an application.
	SpanKindInternal SpanKind = 1
	// SpanKindServer indicates server-side handling of a remote request.
	SpanKindServer SpanKind = 2
	// SpanKindClient indicates a request to some remote service.
	SpanKindClient SpanKind = 3
	// SpanKindProducer indicates a producer sending a message to a broker.
	SpanKindProducer SpanKind = 4
	// SpanKindConsumer indicates a consumer receiving a message from a broker.
	SpanKindConsumer SpanKind = 5
)

// String returns the string representation of the SpanKind.
func (sk SpanKind) String() string {
	switch sk {
	case SpanKindUnspecified:
		return "Unspecified"
	case SpanKindInternal:
		return "Internal"
	case SpanKindServer:
		return "Server"
	case SpanKindClient:
		return "Client"
	case SpanKindProducer:
		return "Producer"
	case SpanKindConsumer:
		return "Consumer"
	}
	return strconv.Itoa(int(sk))
}

// StatusCode is the outcome of the operation a span describes.
type StatusCode int32

const (
	StatusCodeUnset StatusCode = 0
	StatusCodeOk    StatusCode = 1
	StatusCodeError StatusCode = 2
)

// String returns the string representation of the StatusCode.
func (sc StatusCode) String() string {
	switch sc {
	case StatusCodeUnset:
		return "Unset"
	case StatusCodeOk:
		return "Ok"
	case StatusCodeError:
		return "Error"
	}
	return strconv.Itoa(int(sc))
}
