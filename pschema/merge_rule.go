// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pschema // import "github.com/drift-observability/driftcore/pschema"

import (
	"errors"
	"fmt"
	"math"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/pvalue"
)

// MergeRule is a decode directive for one top level payload field. Every member is
// optional; nil means the directive does not say anything about it.
type MergeRule struct {
	Encoding        *EncodingType
	DecodedType     *DecodedType
	MatchImportance *float64
}

// MergeRules maps top level payload field names to their MergeRule.
type MergeRules map[string]MergeRule

var errRulesNotObject = errors.New("merge rules must be a JSON object")

// ParseMergeRules parses a directive map of the form
//
//	{"field": {"encoding": 1, "decoded_type": 1, "match_importance": 0.5}}
//
// Unknown members of a rule are ignored and null members are treated as absent.
// Malformed text or mistyped members fail with an InvalidInput error.
func ParseMergeRules(text string) (MergeRules, error) {
	v, err := pvalue.ParseJSON([]byte(text))
	if err != nil {
		return nil, drifterror.NewInvalidInput("merge rules", err)
	}
	return ParseMergeRulesValue(v)
}

// ParseMergeRulesValue is ParseMergeRules for an already parsed directive map.
func ParseMergeRulesValue(v pvalue.Value) (MergeRules, error) {
	if v.Type() != pvalue.ValueTypeObject {
		return nil, drifterror.NewInvalidInput("merge rules", errRulesNotObject)
	}
	rules := make(MergeRules, v.Len())
	var err error
	v.Object().Range(func(field string, rv pvalue.Value) bool {
		var rule MergeRule
		rule, err = parseRule(rv)
		if err != nil {
			err = drifterror.NewInvalidInput("merge rules", fmt.Errorf("field %q: %w", field, err))
			return false
		}
		rules[field] = rule
		return true
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func parseRule(v pvalue.Value) (MergeRule, error) {
	if v.Type() != pvalue.ValueTypeObject {
		return MergeRule{}, fmt.Errorf("expected an object, found %s", v.Type())
	}
	m := v.Object()
	var rule MergeRule
	if enc, ok, err := int32Member(m, "encoding"); err != nil {
		return MergeRule{}, err
	} else if ok {
		e := EncodingType(enc)
		rule.Encoding = &e
	}
	if dt, ok, err := int32Member(m, "decoded_type"); err != nil {
		return MergeRule{}, err
	} else if ok {
		d := DecodedType(dt)
		rule.DecodedType = &d
	}
	if mv, ok := m.Get("match_importance"); ok && mv.Type() != pvalue.ValueTypeNull {
		if mv.Type() != pvalue.ValueTypeNumber {
			return MergeRule{}, fmt.Errorf("match_importance: expected a number, found %s", mv.Type())
		}
		f := mv.Number().Float64()
		rule.MatchImportance = &f
	}
	return rule, nil
}

func int32Member(m pvalue.Map, name string) (int32, bool, error) {
	v, ok := m.Get(name)
	if !ok || v.Type() == pvalue.ValueTypeNull {
		return 0, false, nil
	}
	n := v.Number()
	if v.Type() != pvalue.ValueTypeNumber || n.Kind() != pvalue.NumberKindInt {
		return 0, false, fmt.Errorf("%s: expected an integer, found %s", name, v)
	}
	i, _ := n.Int()
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false, fmt.Errorf("%s: %d out of range for int32", name, i)
	}
	return int32(i), true, nil
}
