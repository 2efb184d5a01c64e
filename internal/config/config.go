// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package config reads the azmgmt command line configuration from a config file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azmgmt/core"
	"github.com/Azure/azmgmt/internal/auth"
	"github.com/Azure/azmgmt/internal/environment"
	"github.com/Azure/azmgmt/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// ConfigFolder is the name of the config folder under $HOME.
	ConfigFolder = ".azmgmt"
	// ConfigName is the name of the config file, without extension, under ConfigFolder.
	ConfigName = "config"
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "AZMGMT"
)

// Configuration keys.
const (
	KeySubscriptionID    = "subscription-id"
	KeyCloud             = "cloud"
	KeyLogLevel          = "log-level"
	KeyOutput            = "output"
	KeyParallelism       = "parallelism"
	KeyRequestsPerSecond = "requests-per-second"
)

// Output is the format of command output.
type Output string

const (
	OutputTable Output = "table"
	OutputJSON  Output = "json"
	OutputYAML  Output = "yaml"
)

// ErrInvalidConfig is returned by Load when a value fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"subscription":        KeySubscriptionID,
	"cloud":               KeyCloud,
	"log-level":           KeyLogLevel,
	"output":              KeyOutput,
	"parallelism":         KeyParallelism,
	"requests-per-second": KeyRequestsPerSecond,
}

// Config is the resolved command line configuration.
type Config struct {
	SubscriptionID    string  `mapstructure:"subscription-id"`
	Cloud             string  `mapstructure:"cloud"`
	LogLevel          string  `mapstructure:"log-level"`
	Output            Output  `mapstructure:"output"`
	Parallelism       int     `mapstructure:"parallelism"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Load resolves the configuration. Values come, by increasing precedence, from the defaults, the config
// file, AZMGMT_* environment variables and the changed flags of flags. path selects the config file;
// when empty, $HOME/.azmgmt/config.{yaml,json,...} is read if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault(KeySubscriptionID, environment.SubscriptionID())
	v.SetDefault(KeyCloud, environment.CloudName())
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyOutput, string(OutputTable))
	v.SetDefault(KeyParallelism, environment.Parallelism())
	v.SetDefault(KeyRequestsPerSecond, 0.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}

			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config.Load: binding flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg.File = v.ConfigFileUsed()
	cfg.Output = Output(strings.ToLower(string(cfg.Output)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config.Load: checking config file: %w", err)
		}

		v.SetConfigFile(path)
	} else {
		dir := defaultConfigDir()
		if dir == "" || !hasDefaultConfig(dir) {
			return nil
		}

		v.SetConfigName(ConfigName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config.Load: reading %s: %w", v.ConfigFileUsed(), err)
	}

	return nil
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ConfigFolder)
}

func hasDefaultConfig(dir string) bool {
	for _, ext := range viper.SupportedExts {
		if _, err := os.Stat(filepath.Join(dir, ConfigName+"."+ext)); err == nil {
			return true
		}
	}

	return false
}

// Validate checks the output format, log level and numeric limits.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("%s: %q is not one of table, json, yaml", KeyOutput, c.Output))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}

	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyParallelism, c.Parallelism))
	}

	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative, got %g", KeyRequestsPerSecond, c.RequestsPerSecond))
	}

	if len(errs) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}

// ClientOptions returns the client options matching the configuration, logging to logger.
func (c *Config) ClientOptions(logger *zap.Logger) *core.ClientOptions {
	opts := &core.ClientOptions{
		Logger:            logger,
		RequestsPerSecond: c.RequestsPerSecond,
		Parallelism:       c.Parallelism,
	}
	opts.Cloud = auth.CloudConfiguration(c.Cloud)

	return opts
}
