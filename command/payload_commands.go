// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package command // import "github.com/drift-observability/driftcore/command"

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/drift-observability/driftcore/canonical"
	"github.com/drift-observability/driftcore/internal/json"
	"github.com/drift-observability/driftcore/payload"
	"github.com/drift-observability/driftcore/pstruct"
)

func newNormalizeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Print the canonical compact JSON form of a payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			_, text, err := canonical.CanonicalizeDepth(string(in), r.cfg.MaxDepth)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newHashCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "hash [file]",
		Short: "Print the deterministic hash of a payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, _, err := canonical.CanonicalizeDepth(string(in), r.cfg.MaxDepth)
			if err != nil {
				return err
			}
			hash, err := canonical.Hash(v)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newStructCommand(r *runner) *cobra.Command {
	var count bool
	cmd := &cobra.Command{
		Use:   "struct [file]",
		Short: "Encode a JSON object as protobuf Struct bytes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			v, err := canonical.Parse(string(in), r.cfg.MaxDepth)
			if err != nil {
				return err
			}
			if count {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), len(pstruct.FromValue(v).GetFields()))
				return err
			}
			buf, err := pstruct.MarshalValue(v)
			if err != nil {
				return err
			}
			return r.writeBinary(cmd.OutOrStdout(), buf)
		},
	}
	cmd.Flags().BoolVar(&count, "count", false, "print the number of top level fields instead of the bytes")
	return cmd
}

func newProcessCommand(r *runner) *cobra.Command {
	var rules, rulesFile string
	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Normalize, decode, hash and encode a payload",
		Long: `Process a captured payload and print a JSON object holding the normalized and
decoded payload, the decoded value hash, the decoded schema and its hash, and the
base64 protobuf Struct bytes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if rulesFile != "" {
				b, err := os.ReadFile(rulesFile)
				if err != nil {
					return err
				}
				rules = string(b)
			}

			var res *payload.Result
			if cmd.Flags().Changed("merge-rules") || rulesFile != "" {
				res, err = r.processor.ProcessWithMergeRules(string(in), rules)
			} else {
				res, err = r.processor.Process(string(in))
			}
			if err != nil {
				return err
			}
			r.logger.Debug("Processed payload",
				zap.String("decoded_value_hash", res.DecodedValueHash),
				zap.Int("struct_bytes", len(res.StructBytes)))
			return writeResult(cmd, res)
		},
	}
	cmd.Flags().StringVar(&rules, "merge-rules", "", "decode-merge directives as JSON text")
	cmd.Flags().StringVar(&rulesFile, "merge-rules-file", "", "file holding decode-merge directives")
	cmd.MarkFlagsMutuallyExclusive("merge-rules", "merge-rules-file")
	return cmd
}

func writeResult(cmd *cobra.Command, res *payload.Result) error {
	dest := json.BorrowStream(nil)
	defer json.ReturnStream(dest)
	dest.WriteObjectStart()
	dest.WriteObjectField("normalized_json")
	dest.WriteString(res.NormalizedJSON)
	dest.WriteObjectField("decoded_json")
	dest.WriteString(res.DecodedJSON)
	dest.WriteObjectField("decoded_value_hash")
	dest.WriteString(res.DecodedValueHash)
	dest.WriteObjectField("decoded_schema_json")
	dest.WriteString(res.DecodedSchemaJSON)
	dest.WriteObjectField("decoded_schema_hash")
	dest.WriteString(res.DecodedSchemaHash)
	dest.WriteObjectField("struct_bytes")
	dest.WriteString(base64.StdEncoding.EncodeToString(res.StructBytes))
	dest.WriteObjectEnd()
	if dest.Error != nil {
		return dest.Error
	}
	out := append(dest.Buffer(), '\n')
	_, err := cmd.OutOrStdout().Write(out)
	return err
}
