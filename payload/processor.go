// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package payload // import "github.com/drift-observability/driftcore/payload"

import (
	"encoding/base64"
	"errors"
	"slices"
	"strings"

	"go.opentelemetry.io/collector/featuregate"
	"go.uber.org/zap"

	"github.com/drift-observability/driftcore/canonical"
	"github.com/drift-observability/driftcore/pschema"
	"github.com/drift-observability/driftcore/pstruct"
	"github.com/drift-observability/driftcore/pvalue"
)

var structFromDecodedGate = featuregate.GlobalRegistry().MustRegister(
	"payload.structFromDecodedValue",
	featuregate.StageAlpha,
	featuregate.WithRegisterFromVersion("v0.1.0"),
	featuregate.WithRegisterDescription("When enabled, the Struct bytes of a processed payload are built from the "+
		"decoded value instead of the normalized value."),
)

// Settings configures a Processor.
type Settings struct {
	// Logger receives debug messages about best-effort decode fallbacks. Defaults to a no-op logger.
	Logger *zap.Logger
	// MaxDepth bounds the nesting of payloads and, separately, of each embedded JSON field.
	// Defaults to canonical.DefaultMaxDepth.
	MaxDepth int
}

// Processor applies normalization, decode merges, schema inference, hashing and Struct
// encoding to payloads. It holds no mutable state and is safe for concurrent use.
type Processor struct {
	logger   *zap.Logger
	maxDepth int
}

// NewProcessor creates a Processor from the given settings.
func NewProcessor(set Settings) *Processor {
	p := &Processor{logger: set.Logger, maxDepth: set.MaxDepth}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.maxDepth <= 0 {
		p.maxDepth = canonical.DefaultMaxDepth
	}
	return p
}

// ValueResult is the outcome of processing a payload value.
type ValueResult struct {
	NormalizedValue   pvalue.Value
	DecodedValue      pvalue.Value
	DecodedValueHash  string
	DecodedSchema     *pschema.Node
	DecodedSchemaHash string
	StructBytes       []byte
}

// Result is ValueResult with the values and schema rendered as compact JSON text.
type Result struct {
	NormalizedJSON    string
	DecodedJSON       string
	DecodedValueHash  string
	DecodedSchemaJSON string
	DecodedSchemaHash string
	StructBytes       []byte
}

// Process parses and processes payload text without decode merges.
func (p *Processor) Process(payloadJSON string) (*Result, error) {
	return p.processText(payloadJSON, nil)
}

// ProcessWithMergeRules parses and processes payload text, applying the decode-merge
// directive map in mergeRulesJSON. Malformed directives fail with an InvalidInput error.
func (p *Processor) ProcessWithMergeRules(payloadJSON, mergeRulesJSON string) (*Result, error) {
	return p.processText(payloadJSON, &mergeRulesJSON)
}

// ProcessValue processes an already parsed payload without decode merges.
func (p *Processor) ProcessValue(payload pvalue.Value) (*ValueResult, error) {
	return p.processValue(payload, nil)
}

// ProcessValueWithMergeRules processes an already parsed payload, applying the decode-merge
// directive map in mergeRulesJSON.
func (p *Processor) ProcessValueWithMergeRules(payload pvalue.Value, mergeRulesJSON string) (*ValueResult, error) {
	return p.processValue(payload, &mergeRulesJSON)
}

func (p *Processor) processText(payloadJSON string, mergeRulesJSON *string) (*Result, error) {
	v, err := canonical.Parse(payloadJSON, p.maxDepth)
	if err != nil {
		return nil, err
	}
	vr, err := p.processValue(v, mergeRulesJSON)
	if err != nil {
		return nil, err
	}
	return vr.toResult()
}

func (p *Processor) processValue(payload pvalue.Value, mergeRulesJSON *string) (*ValueResult, error) {
	normalized, err := canonical.NormalizeValueDepth(payload, p.maxDepth)
	if err != nil {
		return nil, err
	}

	var rules pschema.MergeRules
	if mergeRulesJSON != nil {
		if rules, err = pschema.ParseMergeRules(*mergeRulesJSON); err != nil {
			return nil, err
		}
	}
	decoded := p.applyMergeRules(normalized, rules)

	schema := pschema.Infer(decoded, rules, true)
	valueHash, err := canonical.Hash(decoded)
	if err != nil {
		return nil, err
	}
	schemaHash, err := schema.Hash()
	if err != nil {
		return nil, err
	}

	structSource := normalized
	if structFromDecodedGate.IsEnabled() {
		structSource = decoded
	}
	structBytes, err := pstruct.MarshalValue(structSource)
	if err != nil {
		return nil, err
	}

	return &ValueResult{
		NormalizedValue:   normalized,
		DecodedValue:      decoded,
		DecodedValueHash:  valueHash,
		DecodedSchema:     schema,
		DecodedSchemaHash: schemaHash,
		StructBytes:       structBytes,
	}, nil
}

// applyMergeRules decodes the top level fields of an object that have a matching rule.
// Base64 decoding runs first, then embedded JSON parsing; both keep the current value
// when they fail.
func (p *Processor) applyMergeRules(normalized pvalue.Value, rules pschema.MergeRules) pvalue.Value {
	if len(rules) == 0 || normalized.Type() != pvalue.ValueTypeObject {
		return normalized
	}
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	m := normalized.Object()
	for _, field := range fields {
		current, ok := m.Get(field)
		if !ok {
			continue
		}
		rule := rules[field]
		working := current
		if rule.Encoding != nil && *rule.Encoding == pschema.EncodingTypeBase64 && working.Type() == pvalue.ValueTypeString {
			raw, err := decodeBase64(working.Str())
			if err != nil {
				p.logger.Debug("Field is not valid base64, keeping original value", zap.String("field", field), zap.Error(err))
			} else {
				working = pvalue.NewString(strings.ToValidUTF8(string(raw), "\uFFFD"))
			}
		}
		if rule.DecodedType != nil && *rule.DecodedType == pschema.DecodedTypeJSON && working.Type() == pvalue.ValueTypeString {
			parsed, err := pvalue.ParseJSONDepth([]byte(working.Str()), p.maxDepth)
			if err != nil {
				p.logger.Debug("Field is not valid embedded JSON, keeping original value", zap.String("field", field), zap.Error(err))
			} else {
				working = parsed.SortKeys()
			}
		}
		m = m.With(field, working)
	}
	return pvalue.NewObject(m)
}

var errBase64LineBreak = errors.New("line breaks are not part of the standard base64 alphabet")

// decodeBase64 decodes standard padded base64. The Go decoder skips '\r' and '\n' even in
// strict mode, so they are rejected up front.
func decodeBase64(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, errBase64LineBreak
	}
	return base64.StdEncoding.Strict().DecodeString(s)
}

func (vr *ValueResult) toResult() (*Result, error) {
	normalizedJSON, err := canonical.Marshal(vr.NormalizedValue)
	if err != nil {
		return nil, err
	}
	decodedJSON, err := canonical.Marshal(vr.DecodedValue)
	if err != nil {
		return nil, err
	}
	schemaJSON, err := canonical.Marshal(vr.DecodedSchema.Value())
	if err != nil {
		return nil, err
	}
	return &Result{
		NormalizedJSON:    normalizedJSON,
		DecodedJSON:       decodedJSON,
		DecodedValueHash:  vr.DecodedValueHash,
		DecodedSchemaJSON: schemaJSON,
		DecodedSchemaHash: vr.DecodedSchemaHash,
		StructBytes:       vr.StructBytes,
	}, nil
}

var defaultProcessor = NewProcessor(Settings{})

// Process runs Processor.Process on a processor with default settings.
func Process(payloadJSON string) (*Result, error) {
	return defaultProcessor.Process(payloadJSON)
}

// ProcessWithMergeRules runs Processor.ProcessWithMergeRules on a processor with default settings.
func ProcessWithMergeRules(payloadJSON, mergeRulesJSON string) (*Result, error) {
	return defaultProcessor.ProcessWithMergeRules(payloadJSON, mergeRulesJSON)
}

// ProcessValue runs Processor.ProcessValue on a processor with default settings.
func ProcessValue(payload pvalue.Value) (*ValueResult, error) {
	return defaultProcessor.ProcessValue(payload)
}

// ProcessValueWithMergeRules runs Processor.ProcessValueWithMergeRules on a processor with default settings.
func ProcessValueWithMergeRules(payload pvalue.Value, mergeRulesJSON string) (*ValueResult, error) {
	return defaultProcessor.ProcessValueWithMergeRules(payload, mergeRulesJSON)
}
