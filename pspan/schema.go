// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pspan // import "github.com/drift-observability/driftcore/pspan"

import (
	"errors"
	"math"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/drift-observability/driftcore/internal/wire"
	"github.com/drift-observability/driftcore/pschema"
)

// Nesting limit applied while decoding schemas, matching the protobuf runtime default.
const maxSchemaDecodeDepth = 10000

var errSchemaTooDeep = errors.New("proto: exceeded maximum recursion depth")

// JSONSchema is the wire form of a schema node.
type JSONSchema struct {
	Type            int32
	Properties      map[string]*JSONSchema
	Items           *JSONSchema
	Encoding        *int32
	DecodedType     *int32
	MatchImportance *float64
}

// SchemaFromNode copies a schema tree into its wire form. A nil node yields an empty schema.
func SchemaFromNode(n *pschema.Node) *JSONSchema {
	if n == nil {
		return &JSONSchema{}
	}
	s := &JSONSchema{Type: int32(n.Type)}
	if len(n.Properties) > 0 {
		s.Properties = make(map[string]*JSONSchema, len(n.Properties))
		for k, child := range n.Properties {
			s.Properties[k] = SchemaFromNode(child)
		}
	}
	if n.Items != nil {
		s.Items = SchemaFromNode(n.Items)
	}
	if n.Encoding != nil {
		v := int32(*n.Encoding)
		s.Encoding = &v
	}
	if n.DecodedType != nil {
		v := int32(*n.DecodedType)
		s.DecodedType = &v
	}
	if n.MatchImportance != nil {
		v := *n.MatchImportance
		s.MatchImportance = &v
	}
	return s
}

// Node converts the wire form back into a schema tree.
func (s *JSONSchema) Node() *pschema.Node {
	if s == nil {
		return nil
	}
	n := &pschema.Node{
		Type:       pschema.TypeCode(s.Type),
		Properties: make(map[string]*pschema.Node, len(s.Properties)),
	}
	for k, child := range s.Properties {
		n.Properties[k] = child.Node()
	}
	if s.Items != nil {
		n.Items = s.Items.Node()
	}
	if s.Encoding != nil {
		v := pschema.EncodingType(*s.Encoding)
		n.Encoding = &v
	}
	if s.DecodedType != nil {
		v := pschema.DecodedType(*s.DecodedType)
		n.DecodedType = &v
	}
	if s.MatchImportance != nil {
		v := *s.MatchImportance
		n.MatchImportance = &v
	}
	return n
}

func (s *JSONSchema) appendProto(b []byte) []byte {
	b = wire.AppendVarint(b, 1, uint64(int64(s.Type)))
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, 1, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		child := s.Properties[k]
		if child == nil {
			child = &JSONSchema{}
		}
		entry = wire.AppendMessage(entry, 2, child.appendProto(nil))
		b = wire.AppendMessage(b, 2, entry)
	}
	if s.Items != nil {
		b = wire.AppendMessage(b, 3, s.Items.appendProto(nil))
	}
	b = wire.AppendOptionalVarint(b, 4, s.Encoding)
	b = wire.AppendOptionalVarint(b, 5, s.DecodedType)
	b = wire.AppendOptionalDouble(b, 6, s.MatchImportance)
	return b
}

func (s *JSONSchema) unmarshalProto(buf []byte, depth int) error {
	if depth > maxSchemaDecodeDepth {
		return errSchemaTooDeep
	}
	for pos := 0; pos < len(buf); {
		num, typ, next, err := wire.ConsumeTag(buf, pos)
		if err != nil {
			return err
		}
		pos = next
		switch num {
		case 1:
			if typ != protowire.VarintType {
				return wire.WrongWireType(typ, "Type")
			}
			var v uint64
			if v, pos, err = wire.ConsumeVarint(buf, pos); err != nil {
				return err
			}
			s.Type = int32(v)
		case 2:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, "Properties")
			}
			var entry []byte
			if entry, pos, err = wire.ConsumeLen(buf, pos); err != nil {
				return err
			}
			if err = s.unmarshalProperty(entry, depth); err != nil {
				return err
			}
		case 3:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, "Items")
			}
			var msg []byte
			if msg, pos, err = wire.ConsumeLen(buf, pos); err != nil {
				return err
			}
			if s.Items == nil {
				s.Items = &JSONSchema{}
			}
			if err = s.Items.unmarshalProto(msg, depth+1); err != nil {
				return err
			}
		case 4, 5:
			if typ != protowire.VarintType {
				if num == 4 {
					return wire.WrongWireType(typ, "Encoding")
				}
				return wire.WrongWireType(typ, "DecodedType")
			}
			var v uint64
			if v, pos, err = wire.ConsumeVarint(buf, pos); err != nil {
				return err
			}
			iv := int32(v)
			if num == 4 {
				s.Encoding = &iv
			} else {
				s.DecodedType = &iv
			}
		case 6:
			if typ != protowire.Fixed64Type {
				return wire.WrongWireType(typ, "MatchImportance")
			}
			var v uint64
			if v, pos, err = wire.ConsumeFixed64(buf, pos); err != nil {
				return err
			}
			f := math.Float64frombits(v)
			s.MatchImportance = &f
		default:
			if pos, err = wire.SkipField(buf, pos, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *JSONSchema) unmarshalProperty(entry []byte, depth int) error {
	var key string
	child := &JSONSchema{}
	for pos := 0; pos < len(entry); {
		num, typ, next, err := wire.ConsumeTag(entry, pos)
		if err != nil {
			return err
		}
		pos = next
		switch num {
		case 1:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, "Properties.Key")
			}
			var v []byte
			if v, pos, err = wire.ConsumeLen(entry, pos); err != nil {
				return err
			}
			key = string(v)
		case 2:
			if typ != protowire.BytesType {
				return wire.WrongWireType(typ, "Properties.Value")
			}
			var msg []byte
			if msg, pos, err = wire.ConsumeLen(entry, pos); err != nil {
				return err
			}
			if err = child.unmarshalProto(msg, depth+1); err != nil {
				return err
			}
		default:
			if pos, err = wire.SkipField(entry, pos, num, typ); err != nil {
				return err
			}
		}
	}
	if s.Properties == nil {
		s.Properties = map[string]*JSONSchema{}
	}
	s.Properties[key] = child
	return nil
}
