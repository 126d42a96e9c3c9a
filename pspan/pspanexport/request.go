// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package pspanexport builds the request that exports a batch of encoded spans.
package pspanexport // import "github.com/drift-observability/driftcore/pspan/pspanexport"

import (
	"fmt"

	"go.uber.org/multierr"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/drift-observability/driftcore/drifterror"
	"github.com/drift-observability/driftcore/internal/wire"
	"github.com/drift-observability/driftcore/pspan"
)

// ExportRequest represents the request for a span export call.
type ExportRequest struct {
	ObservableServiceID string
	Environment         string
	SDKVersion          string
	SDKInstanceID       string
	Spans               []*pspan.Span
}

// NewExportRequest returns an empty ExportRequest.
func NewExportRequest() ExportRequest {
	return ExportRequest{}
}

// MarshalProto marshals ExportRequest into proto bytes.
func (er ExportRequest) MarshalProto() ([]byte, error) {
	var b []byte
	b = wire.AppendString(b, 1, er.ObservableServiceID)
	b = wire.AppendString(b, 2, er.Environment)
	b = wire.AppendString(b, 3, er.SDKVersion)
	b = wire.AppendString(b, 4, er.SDKInstanceID)
	for _, s := range er.Spans {
		if s == nil {
			s = &pspan.Span{}
		}
		msg, err := s.MarshalProto()
		if err != nil {
			return nil, drifterror.NewEncodingFailure("export request", err)
		}
		b = wire.AppendMessage(b, 5, msg)
	}
	return b, nil
}

// UnmarshalProto unmarshalls ExportRequest from proto bytes.
func (er *ExportRequest) UnmarshalProto(buf []byte) error {
	if err := er.unmarshalProto(buf); err != nil {
		return drifterror.NewEncodingFailure("export request", err)
	}
	return nil
}

func (er *ExportRequest) unmarshalProto(buf []byte) error {
	for pos := 0; pos < len(buf); {
		num, typ, next, err := wire.ConsumeTag(buf, pos)
		if err != nil {
			return err
		}
		pos = next
		if num < 1 || num > 5 {
			if pos, err = wire.SkipField(buf, pos, num, typ); err != nil {
				return err
			}
			continue
		}
		if typ != protowire.BytesType {
			return wire.WrongWireType(typ, fieldNames[num])
		}
		var v []byte
		if v, pos, err = wire.ConsumeLen(buf, pos); err != nil {
			return err
		}
		switch num {
		case 1:
			er.ObservableServiceID = string(v)
		case 2:
			er.Environment = string(v)
		case 3:
			er.SDKVersion = string(v)
		case 4:
			er.SDKInstanceID = string(v)
		case 5:
			s := &pspan.Span{}
			if err = s.UnmarshalProto(v); err != nil {
				return err
			}
			er.Spans = append(er.Spans, s)
		}
	}
	return nil
}

var fieldNames = map[protowire.Number]string{
	1: "ObservableServiceID", 2: "Environment", 3: "SDKVersion", 4: "SDKInstanceID", 5: "Spans",
}

// BuildRequest decodes every encoded span and wraps them, in order, into an export request.
// If any span fails to decode, the whole batch fails with an EncodingFailure error that
// names every failing index.
func BuildRequest(observableServiceID, environment, sdkVersion, sdkInstanceID string, spans [][]byte) ([]byte, error) {
	er := ExportRequest{
		ObservableServiceID: observableServiceID,
		Environment:         environment,
		SDKVersion:          sdkVersion,
		SDKInstanceID:       sdkInstanceID,
		Spans:               make([]*pspan.Span, 0, len(spans)),
	}
	var errs error
	for i, buf := range spans {
		s := &pspan.Span{}
		if err := s.UnmarshalProto(buf); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to decode span proto bytes at index %d: %w", i, err))
			continue
		}
		er.Spans = append(er.Spans, s)
	}
	if errs != nil {
		return nil, drifterror.NewEncodingFailure("export request", errs)
	}
	return er.MarshalProto()
}
