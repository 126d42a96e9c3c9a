// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package command // import "github.com/drift-observability/driftcore/command"

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drift-observability/driftcore/config/configcompression"
	"github.com/drift-observability/driftcore/pschema"
	"github.com/drift-observability/driftcore/pspan"
	"github.com/drift-observability/driftcore/pspan/pspanexport"
	"github.com/drift-observability/driftcore/pvalue"
)

// spanDescription is the JSON document accepted by the span command. Schemas use the
// form printed by the process command; struct bytes are base64 encoded.
type spanDescription struct {
	TraceID             string  `json:"trace_id"`
	SpanID              string  `json:"span_id"`
	ParentSpanID        string  `json:"parent_span_id"`
	Name                string  `json:"name"`
	PackageName         string  `json:"package_name"`
	InstrumentationName string  `json:"instrumentation_name"`
	SubmoduleName       string  `json:"submodule_name"`
	PackageType         int32   `json:"package_type"`
	Environment         *string `json:"environment"`
	Kind                int32   `json:"kind"`

	InputSchema      *pvalue.Value `json:"input_schema"`
	OutputSchema     *pvalue.Value `json:"output_schema"`
	InputSchemaHash  string        `json:"input_schema_hash"`
	OutputSchemaHash string        `json:"output_schema_hash"`
	InputValueHash   string        `json:"input_value_hash"`
	OutputValueHash  string        `json:"output_value_hash"`

	StatusCode    int32  `json:"status_code"`
	StatusMessage string `json:"status_message"`
	IsPreAppStart bool   `json:"is_pre_app_start"`
	IsRootSpan    bool   `json:"is_root_span"`

	TimestampSeconds int64 `json:"timestamp_seconds"`
	TimestampNanos   int32 `json:"timestamp_nanos"`
	DurationSeconds  int64 `json:"duration_seconds"`
	DurationNanos    int32 `json:"duration_nanos"`

	Metadata               *pvalue.Value `json:"metadata"`
	InputValue             *pvalue.Value `json:"input_value"`
	OutputValue            *pvalue.Value `json:"output_value"`
	InputValueStructBytes  []byte        `json:"input_value_struct_bytes"`
	OutputValueStructBytes []byte        `json:"output_value_struct_bytes"`
}

func (d *spanDescription) buildInput() pspan.BuildInput {
	return pspan.BuildInput{
		TraceID:                d.TraceID,
		SpanID:                 d.SpanID,
		ParentSpanID:           d.ParentSpanID,
		Name:                   d.Name,
		PackageName:            d.PackageName,
		InstrumentationName:    d.InstrumentationName,
		SubmoduleName:          d.SubmoduleName,
		PackageType:            pspan.PackageType(d.PackageType),
		Environment:            d.Environment,
		Kind:                   pspan.SpanKind(d.Kind),
		InputSchema:            schemaFrom(d.InputSchema),
		OutputSchema:           schemaFrom(d.OutputSchema),
		InputSchemaHash:        d.InputSchemaHash,
		OutputSchemaHash:       d.OutputSchemaHash,
		InputValueHash:         d.InputValueHash,
		OutputValueHash:        d.OutputValueHash,
		StatusCode:             pspan.StatusCode(d.StatusCode),
		StatusMessage:          d.StatusMessage,
		IsPreAppStart:          d.IsPreAppStart,
		IsRootSpan:             d.IsRootSpan,
		TimestampSeconds:       d.TimestampSeconds,
		TimestampNanos:         d.TimestampNanos,
		DurationSeconds:        d.DurationSeconds,
		DurationNanos:          d.DurationNanos,
		Metadata:               d.Metadata,
		InputValue:             d.InputValue,
		OutputValue:            d.OutputValue,
		InputValueStructBytes:  d.InputValueStructBytes,
		OutputValueStructBytes: d.OutputValueStructBytes,
	}
}

func schemaFrom(v *pvalue.Value) *pschema.Node {
	if v == nil {
		return nil
	}
	return pschema.FromValue(*v)
}

func newSpanCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "span [file]",
		Short: "Build protobuf span bytes from a JSON span description",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var desc spanDescription
			if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(in, &desc); err != nil {
				return fmt.Errorf("failed to decode span description: %w", err)
			}
			buf, err := pspan.Build(desc.buildInput())
			if err != nil {
				return err
			}
			r.logger.Debug("Built span", zap.String("trace_id", desc.TraceID), zap.String("span_id", desc.SpanID), zap.Int("bytes", len(buf)))
			return r.writeBinary(cmd.OutOrStdout(), buf)
		},
	}
}

func newExportCommand(r *runner) *cobra.Command {
	var inputEncoding string
	cmd := &cobra.Command{
		Use:   "export file...",
		Short: "Wrap encoded spans into an export request",
		Long: `Read one encoded span per file, wrap them in order into an export request using the
export section of the configuration, and write the request compressed with
export.compression.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.cfg.ValidateExport(); err != nil {
				return err
			}
			spans := make([][]byte, len(args))
			for i, name := range args {
				raw, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				if spans[i], err = decodeBinary(inputEncoding, raw); err != nil {
					return fmt.Errorf("failed to decode %s: %w", name, err)
				}
			}

			exp := r.cfg.Export
			if exp.SDKInstanceID == "" {
				exp.SDKInstanceID = uuid.NewString()
				r.logger.Info("Generated SDK instance id", zap.String("sdk_instance_id", exp.SDKInstanceID))
			}
			buf, err := pspanexport.BuildRequest(exp.ObservableServiceID, exp.Environment, exp.SDKVersion, exp.SDKInstanceID, spans)
			if err != nil {
				return err
			}
			out, err := configcompression.Compress(exp.Compression, buf)
			if err != nil {
				return err
			}
			r.logger.Info("Built export request",
				zap.Int("spans", len(spans)),
				zap.Int("bytes", len(buf)),
				zap.Int("compressed_bytes", len(out)),
				zap.String("compression", string(exp.Compression)))
			return r.writeBinary(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&inputEncoding, "input", encodingBase64, "encoding of the span files: base64, hex or raw")
	return cmd
}
