// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package command implements the driftcore CLI, which exposes every payload, span and
// export operation over files and standard input.
package command // import "github.com/drift-observability/driftcore/command"

import (
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/collector/featuregate"
	"go.uber.org/zap"

	"github.com/drift-observability/driftcore/payload"
)

const (
	configFlag       = "config"
	featureGatesFlag = "feature-gates"
	outputFlag       = "output"
)

// Output encodings for binary results.
const (
	encodingBase64 = "base64"
	encodingHex    = "hex"
	encodingRaw    = "raw"
)

// Settings holds the build information of the binary.
type Settings struct {
	Version string
}

type runner struct {
	cfgFile   string
	output    string
	cfg       Config
	logger    *zap.Logger
	processor *payload.Processor
}

// NewCommand constructs the root command with every subcommand attached.
func NewCommand(set Settings) *cobra.Command {
	r := &runner{}
	rootCmd := &cobra.Command{
		Use:           "driftcore",
		Short:         "Normalize, hash and encode captured payloads and spans",
		Version:       set.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return r.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			// Sync fails on some terminals; nothing useful can be done about it.
			_ = r.logger.Sync()
		},
	}

	flagSet := new(flag.FlagSet)
	featuregate.GlobalRegistry().RegisterFlags(flagSet)
	rootCmd.PersistentFlags().AddGoFlagSet(flagSet)
	rootCmd.PersistentFlags().StringVar(&r.cfgFile, configFlag, "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&r.output, outputFlag, encodingBase64, "encoding of binary output: base64, hex or raw")

	rootCmd.AddCommand(
		newNormalizeCommand(r),
		newHashCommand(r),
		newStructCommand(r),
		newProcessCommand(r),
		newSpanCommand(r),
		newExportCommand(r),
	)
	return rootCmd
}

func (r *runner) init() error {
	switch r.output {
	case encodingBase64, encodingHex, encodingRaw:
	default:
		return fmt.Errorf("unsupported output encoding %q", r.output)
	}
	cfg, err := loadConfig(r.cfgFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	r.cfg = cfg
	r.logger = logger
	r.processor = payload.NewProcessor(payload.Settings{Logger: logger, MaxDepth: cfg.MaxDepth})
	if r.cfgFile != "" {
		logger.Debug("Using config file", zap.String("path", r.cfgFile))
	}
	return nil
}

// readInput reads the file named by the first argument, or stdin when there is no
// argument or the argument is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func (r *runner) writeBinary(w io.Writer, data []byte) error {
	var err error
	switch r.output {
	case encodingHex:
		_, err = fmt.Fprintln(w, hex.EncodeToString(data))
	case encodingRaw:
		_, err = w.Write(data)
	default:
		_, err = fmt.Fprintln(w, base64.StdEncoding.EncodeToString(data))
	}
	return err
}

func decodeBinary(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case encodingRaw:
		return data, nil
	case encodingHex:
		return hex.DecodeString(string(trimNewline(data)))
	case encodingBase64:
		return base64.StdEncoding.DecodeString(string(trimNewline(data)))
	}
	return nil, fmt.Errorf("unsupported input encoding %q", encoding)
}

func trimNewline(data []byte) []byte {
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return data
}
