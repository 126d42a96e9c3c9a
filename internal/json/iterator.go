// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package json // import "github.com/drift-observability/driftcore/internal/json"

import (
	jsoniter "github.com/json-iterator/go"
)

func BorrowIterator(data []byte) *jsoniter.Iterator {
	return compact.BorrowIterator(data)
}

func ReturnIterator(s *jsoniter.Iterator) {
	compact.ReturnIterator(s)
}
