// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package config holds the settings shared by every command. Settings are
// layered: built in defaults, then an optional YAML file, then ODATAURI_*
// environment variables, then command line flags. Each layer only overrides
// the values it actually sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/odata.go/internal/cursor"
	"gopkg.microglot.org/odata.go/internal/exc"
	"gopkg.microglot.org/odata.go/internal/odata"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	// Rule is the grammar rule each input must match.
	Rule string `yaml:"rule" envconfig:"ODATAURI_RULE"`
	// MaxDepth bounds rule nesting. Zero means unlimited.
	MaxDepth int `yaml:"max_depth" envconfig:"ODATAURI_MAX_DEPTH"`
	// Concurrency bounds the number of inputs checked at once. Zero picks
	// a value from the number of CPUs.
	Concurrency int    `yaml:"concurrency" envconfig:"ODATAURI_CONCURRENCY"`
	LogLevel    string `yaml:"log_level" envconfig:"ODATAURI_LOG_LEVEL"`
	LogFormat   string `yaml:"log_format" envconfig:"ODATAURI_LOG_FORMAT"`
	// Trace logs every rule application at debug level.
	Trace bool `yaml:"trace" envconfig:"ODATAURI_TRACE"`
}

func Default() Config {
	return Config{
		Rule:      odata.RuleURI,
		MaxDepth:  1000,
		LogLevel:  logrus.InfoLevel.String(),
		LogFormat: LogFormatText,
	}
}

// Apply returns c overridden by every value that is set in cfg.
func (c Config) Apply(cfg Config) Config {
	if cfg.Rule != "" {
		c.Rule = cfg.Rule
	}
	if cfg.MaxDepth != 0 {
		c.MaxDepth = cfg.MaxDepth
	}
	if cfg.Concurrency != 0 {
		c.Concurrency = cfg.Concurrency
	}
	if cfg.LogLevel != "" {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.Trace {
		c.Trace = true
	}
	return c
}

// Load reads a YAML file. Unknown keys are an error. An empty file yields an
// empty Config.
func Load(path string) (Config, error) {
	var conf Config
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return conf, exc.Wrap(exc.Location{URI: path}, exc.CodeFileNotFound, err)
		}
		return conf, exc.Wrap(exc.Location{URI: path}, exc.CodeInvalidConfig, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, exc.Wrap(exc.Location{URI: path}, exc.CodeInvalidConfig, err)
	}
	return conf, nil
}

// FromEnv reads ODATAURI_* variables through lookup, which defaults to
// os.LookupEnv when nil.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var conf Config
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := envconfig.Process("", &conf, lookup); err != nil {
		return Config{}, exc.Wrap(exc.Location{URI: "env"}, exc.CodeInvalidConfig, err)
	}
	return conf, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, ok := odata.Lookup(c.Rule); !ok {
		return invalid(exc.CodeUnknownRule, "unknown rule %q", c.Rule)
	}
	if c.MaxDepth < 0 {
		return invalid(exc.CodeInvalidConfig, "max depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Concurrency < 0 {
		return invalid(exc.CodeInvalidConfig, "concurrency must not be negative, got %d", c.Concurrency)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return invalid(exc.CodeInvalidConfig, "%s", err.Error())
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return invalid(exc.CodeInvalidConfig, "log format must be %s or %s, got %q", LogFormatText, LogFormatJSON, c.LogFormat)
	}
	return nil
}

func invalid(code string, format string, args ...any) error {
	return exc.New(exc.Location{}, code, fmt.Sprintf(format, args...))
}

// NewLogger builds a logger writing to w with the configured level and
// format. The config must be valid.
func (c Config) NewLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}
	return logger
}

// ParseOptions converts the settings that affect a single parse.
func (c Config) ParseOptions(logger logrus.FieldLogger) []cursor.Option {
	options := []cursor.Option{cursor.WithMaxDepth(c.MaxDepth)}
	if c.Trace && logger != nil {
		options = append(options, cursor.WithTrace(logger))
	}
	return options
}
