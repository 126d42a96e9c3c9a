// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package command // import "github.com/drift-observability/driftcore/command"

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/drift-observability/driftcore/canonical"
	"github.com/drift-observability/driftcore/config/configcompression"
)

// envPrefix selects the environment variables merged over the config file. A double
// underscore separates nesting levels: DRIFTCORE_EXPORT__SDK_VERSION sets export.sdk_version.
const envPrefix = "DRIFTCORE_"

// Config holds the CLI configuration.
type Config struct {
	MaxDepth int          `mapstructure:"max_depth"`
	Log      LogConfig    `mapstructure:"log"`
	Export   ExportConfig `mapstructure:"export"`
}

// LogConfig configures the logger writing to stderr.
type LogConfig struct {
	Level    zapcore.Level `mapstructure:"level"`
	Encoding string        `mapstructure:"encoding"`
}

// ExportConfig holds the identity attached to export requests and the output compression.
type ExportConfig struct {
	ObservableServiceID string                 `mapstructure:"observable_service_id"`
	Environment         string                 `mapstructure:"environment"`
	SDKVersion          string                 `mapstructure:"sdk_version"`
	SDKInstanceID       string                 `mapstructure:"sdk_instance_id"`
	Compression         configcompression.Type `mapstructure:"compression"`
}

// NewDefaultConfig creates a new config, with default values.
func NewDefaultConfig() Config {
	return Config{
		MaxDepth: canonical.DefaultMaxDepth,
		Log: LogConfig{
			Level:    zapcore.InfoLevel,
			Encoding: "console",
		},
	}
}

// Validate checks whether the current configuration is valid.
func (c *Config) Validate() error {
	var errs error
	if c.MaxDepth <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if c.Log.Encoding != "console" && c.Log.Encoding != "json" {
		errs = multierr.Append(errs, fmt.Errorf("log.encoding must be console or json, got %q", c.Log.Encoding))
	}
	if err := c.Export.Compression.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("export.compression: %w", err))
	}
	return errs
}

// ValidateExport checks the fields required to build an export request.
func (c *Config) ValidateExport() error {
	if c.Export.ObservableServiceID == "" {
		return errors.New("export.observable_service_id must be set")
	}
	return nil
}

// loadConfig merges the optional config file and the environment over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := NewDefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("failed to load configuration file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return cfg, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "mapstructure",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
