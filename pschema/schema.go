// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package pschema infers structural schemas from JSON values and annotates them with
// per-field decode directives.
package pschema // import "github.com/drift-observability/driftcore/pschema"

import (
	"math"
	"slices"

	"github.com/drift-observability/driftcore/canonical"
	"github.com/drift-observability/driftcore/pvalue"
)

// Node describes the shape of a value. Properties is only populated for objects and
// Items only for non-empty arrays. The optional members are copied from a MergeRule.
type Node struct {
	Type            TypeCode
	Properties      map[string]*Node
	Items           *Node
	Encoding        *EncodingType
	DecodedType     *DecodedType
	MatchImportance *float64
}

// Infer derives the schema of v. Arrays are assumed homogeneous: only the first element
// is inspected. When atRoot is true, rules annotate the direct properties of a top level
// object; nested objects are never annotated, even when a field name repeats.
func Infer(v pvalue.Value, rules MergeRules, atRoot bool) *Node {
	node := &Node{
		Type:       TypeCodeOf(v),
		Properties: map[string]*Node{},
	}
	switch v.Type() {
	case pvalue.ValueTypeArray:
		if v.Len() > 0 {
			node.Items = Infer(v.At(0), nil, false)
		}
	case pvalue.ValueTypeObject:
		v.Object().Range(func(k string, child pvalue.Value) bool {
			childNode := Infer(child, nil, false)
			if atRoot {
				if rule, ok := rules[k]; ok {
					childNode.applyRule(rule)
				}
			}
			node.Properties[k] = childNode
			return true
		})
	}
	return node
}

func (n *Node) applyRule(rule MergeRule) {
	if rule.Encoding != nil {
		enc := *rule.Encoding
		n.Encoding = &enc
	}
	if rule.DecodedType != nil {
		dt := *rule.DecodedType
		n.DecodedType = &dt
	}
	if rule.MatchImportance != nil {
		mi := *rule.MatchImportance
		n.MatchImportance = &mi
	}
}

// Value returns the JSON form of the schema:
//
//	{"decoded_type":1,"encoding":1,"items":{...},"match_importance":0.5,"properties":{...},"type":6}
//
// Keys are in byte order; "properties" and "type" are always present, the other members
// only when set. A non-finite match importance is omitted.
func (n *Node) Value() pvalue.Value {
	if n == nil {
		return pvalue.NewNull()
	}
	var kvs []pvalue.KeyValue
	if n.DecodedType != nil {
		kvs = append(kvs, pvalue.KeyValue{Key: "decoded_type", Value: pvalue.NewInt(int64(*n.DecodedType))})
	}
	if n.Encoding != nil {
		kvs = append(kvs, pvalue.KeyValue{Key: "encoding", Value: pvalue.NewInt(int64(*n.Encoding))})
	}
	if n.Items != nil {
		kvs = append(kvs, pvalue.KeyValue{Key: "items", Value: n.Items.Value()})
	}
	if n.MatchImportance != nil && !math.IsNaN(*n.MatchImportance) && !math.IsInf(*n.MatchImportance, 0) {
		kvs = append(kvs, pvalue.KeyValue{Key: "match_importance", Value: pvalue.NewDouble(*n.MatchImportance)})
	}
	kvs = append(kvs,
		pvalue.KeyValue{Key: "properties", Value: n.propertiesValue()},
		pvalue.KeyValue{Key: "type", Value: pvalue.NewInt(int64(n.Type))},
	)
	return pvalue.NewObject(pvalue.NewMap(kvs...))
}

func (n *Node) propertiesValue() pvalue.Value {
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	kvs := make([]pvalue.KeyValue, len(keys))
	for i, k := range keys {
		kvs[i] = pvalue.KeyValue{Key: k, Value: n.Properties[k].Value()}
	}
	return pvalue.NewObject(pvalue.NewMap(kvs...))
}

// MarshalJSON returns the compact JSON text of Value.
func (n *Node) MarshalJSON() ([]byte, error) {
	return n.Value().MarshalJSON()
}

// Hash returns the deterministic hash of the schema's JSON form.
func (n *Node) Hash() (string, error) {
	return canonical.Hash(n.Value())
}

// FromValue reads a schema back from its JSON form. It is lenient: members that are
// missing or have the wrong type are left at their zero value, and a non-object input
// yields an empty schema of TypeCodeUnspecified.
func FromValue(v pvalue.Value) *Node {
	node := &Node{Properties: map[string]*Node{}}
	obj := v.Object()
	if t, ok := intField(obj, "type"); ok {
		node.Type = TypeCode(t)
	}
	if props, ok := obj.Get("properties"); ok && props.Type() == pvalue.ValueTypeObject {
		props.Object().Range(func(k string, child pvalue.Value) bool {
			node.Properties[k] = FromValue(child)
			return true
		})
	}
	if items, ok := obj.Get("items"); ok {
		node.Items = FromValue(items)
	}
	if enc, ok := intField(obj, "encoding"); ok {
		e := EncodingType(enc)
		node.Encoding = &e
	}
	if dt, ok := intField(obj, "decoded_type"); ok {
		d := DecodedType(dt)
		node.DecodedType = &d
	}
	if mi, ok := obj.Get("match_importance"); ok && mi.Type() == pvalue.ValueTypeNumber {
		f := mi.Number().Float64()
		node.MatchImportance = &f
	}
	return node
}

func intField(m pvalue.Map, name string) (int32, bool) {
	v, ok := m.Get(name)
	if !ok || v.Type() != pvalue.ValueTypeNumber {
		return 0, false
	}
	i, ok := v.Number().Int()
	if !ok {
		return 0, false
	}
	return int32(i), true
}
