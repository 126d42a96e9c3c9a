// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package command // import "github.com/drift-observability/driftcore/command"

import (
	"go.uber.org/zap"
)

// newLogger builds a logger writing to stderr, keeping stdout for command output.
func newLogger(cfg LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Encoding == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.Encoding = cfg.Encoding
	zc.Level = zap.NewAtomicLevelAt(cfg.Level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Sampling = nil
	return zc.Build()
}
