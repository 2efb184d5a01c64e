// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logging builds the zap loggers used by azmgmt and bridges Azure SDK log events into them.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatConsole writes human readable lines.
	FormatConsole Format = "console"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error).
	Level string
	// Format determines the encoding, json or console.
	Format Format
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string
	// DisableCaller disables automatic caller information.
	DisableCaller bool
}

// DefaultConfig returns the CLI default: warnings and above on stderr, console encoded.
func DefaultConfig() Config {
	return Config{
		Level:       "warn",
		Format:      FormatConsole,
		OutputPaths: []string{"stderr"},
	}
}

// NewLogger creates a new zap logger based on the provided configuration.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.NewLogger: invalid log level %q: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig

	encoding := string(FormatConsole)
	if cfg.Format == FormatJSON {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoding = string(FormatJSON)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("logging.NewLogger: failed to build logger: %w", err)
	}

	return logger, nil
}

// ParseLevel converts a string level to zapcore.Level. An empty string is info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}

	return zapcore.ParseLevel(strings.ToLower(level)) //nolint:wrapcheck
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}

	return l
}
