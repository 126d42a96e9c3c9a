// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pvalue // import "github.com/drift-observability/driftcore/pvalue"

import (
	"slices"
	"strings"
)

// KeyValue is a single object field.
type KeyValue struct {
	Key   string
	Value Value
}

// Map is an immutable, insertion-ordered mapping of keys to Values.
// Keys are unique; the zero Map is empty.
type Map struct {
	kvs   []KeyValue
	index map[string]int
}

// NewMap creates a Map from the given fields. When a key repeats, the last value wins
// and keeps the position of the first occurrence.
func NewMap(kvs ...KeyValue) Map {
	b := newMapBuilder(len(kvs))
	for _, kv := range kvs {
		b.put(kv.Key, kv.Value)
	}
	return b.build()
}

// Len returns the number of fields.
func (m Map) Len() int {
	return len(m.kvs)
}

// Get returns the Value associated with the key and true. If the key does not exist
// the zero Value and false are returned.
func (m Map) Get(key string) (Value, bool) {
	if i, ok := m.index[key]; ok {
		return m.kvs[i].Value, true
	}
	return Value{}, false
}

// At returns the i-th field in insertion order.
func (m Map) At(i int) KeyValue {
	return m.kvs[i]
}

// Range calls f sequentially for each field in insertion order.
// If f returns false, range stops the iteration.
func (m Map) Range(f func(k string, v Value) bool) {
	for _, kv := range m.kvs {
		if !f(kv.Key, kv.Value) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, len(m.kvs))
	for i, kv := range m.kvs {
		keys[i] = kv.Key
	}
	return keys
}

// With returns a copy of m where key maps to v. An existing key keeps its position,
// a new key is appended.
func (m Map) With(key string, v Value) Map {
	kvs := slices.Clone(m.kvs)
	if i, ok := m.index[key]; ok {
		kvs[i].Value = v
		return Map{kvs: kvs, index: m.index}
	}
	index := make(map[string]int, len(kvs)+1)
	for k, i := range m.index {
		index[k] = i
	}
	index[key] = len(kvs)
	return Map{kvs: append(kvs, KeyValue{Key: key, Value: v}), index: index}
}

// Equal reports whether both maps hold the same keys with equal values, ignoring order.
func (m Map) Equal(o Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for _, kv := range m.kvs {
		ov, ok := o.Get(kv.Key)
		if !ok || !kv.Value.Equal(ov) {
			return false
		}
	}
	return true
}

func (m Map) sorted() Map {
	b := newMapBuilder(len(m.kvs))
	kvs := slices.Clone(m.kvs)
	slices.SortFunc(kvs, func(a, b KeyValue) int {
		return strings.Compare(a.Key, b.Key)
	})
	for _, kv := range kvs {
		b.put(kv.Key, kv.Value.SortKeys())
	}
	return b.build()
}

type mapBuilder struct {
	kvs   []KeyValue
	index map[string]int
}

func newMapBuilder(capacity int) *mapBuilder {
	return &mapBuilder{
		kvs:   make([]KeyValue, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

func (b *mapBuilder) put(key string, v Value) {
	if i, ok := b.index[key]; ok {
		b.kvs[i].Value = v
		return
	}
	b.index[key] = len(b.kvs)
	b.kvs = append(b.kvs, KeyValue{Key: key, Value: v})
}

func (b *mapBuilder) build() Map {
	if len(b.kvs) == 0 {
		return Map{}
	}
	return Map{kvs: b.kvs, index: b.index}
}
