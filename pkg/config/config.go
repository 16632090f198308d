// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the process configuration.
//
// Sources, highest precedence first:
//  1. command-line flags
//  2. environment variables prefixed with CORPUS_ (e.g. CORPUS_ROOT, CORPUS_MAX_FILE_SIZE)
//  3. .env.local and .env files in the current directory
//  4. the YAML file given by --config
//  5. defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lima-vm/corpus-mcp/pkg/catalog"
)

const EnvPrefix = "CORPUS"

const (
	KeyConfig      = "config"
	KeyRoot        = "root"
	KeyBackend     = "backend"
	KeyTransport   = "transport"
	KeyListen      = "listen"
	KeyMaxFileSize = "max-file-size"
	KeyConcurrency = "concurrency"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportSSE   = "sse"
)

const (
	DefaultListen      = "localhost:8000"
	DefaultMaxFileSize = "32MiB"
)

// DefaultEnvFiles are loaded by [Load]. Files loaded first take precedence.
var DefaultEnvFiles = []string{".env.local", ".env"}

type Config struct {
	Root        string `json:"root"`
	Backend     string `json:"backend"`
	Transport   string `json:"transport"`
	Listen      string `json:"listen,omitempty"`
	MaxFileSize int64  `json:"maxFileSize"`
	Concurrency int    `json:"concurrency,omitempty"`
	// ConfigFile is the config file that was read, if any.
	ConfigFile string `json:"configFile,omitempty"`
}

// RegisterFlags adds the configuration flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyConfig, "", "YAML config file")
	flags.String(KeyRoot, "", "directory to serve (required) ($CORPUS_ROOT)")
	flags.String(KeyBackend, catalog.BackendDisk, fmt.Sprintf("catalog backend, %q or %q ($CORPUS_BACKEND)", catalog.BackendDisk, catalog.BackendMemory))
	flags.String(KeyTransport, TransportStdio, fmt.Sprintf("MCP transport, %q, %q or %q ($CORPUS_TRANSPORT)", TransportStdio, TransportHTTP, TransportSSE))
	flags.String(KeyListen, DefaultListen, "listen address of the http and sse transports ($CORPUS_LISTEN)")
	flags.String(KeyMaxFileSize, DefaultMaxFileSize, "maximum size of a single file, e.g. 512KiB, 32MiB ($CORPUS_MAX_FILE_SIZE)")
	flags.Int(KeyConcurrency, 0, "maximum number of files read at the same time, 0 for the number of CPUs ($CORPUS_CONCURRENCY)")
}

// LoadEnvFiles loads environment variables from files that exist.
// Variables already set in the environment are not overridden.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %q: %w", f, err)
		}
	}
	return nil
}

// Load loads [DefaultEnvFiles] and returns the configuration for flags,
// which must have been set up with [RegisterFlags].
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := LoadEnvFiles(DefaultEnvFiles...); err != nil {
		return nil, err
	}
	return load(flags)
}

func load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	if configFile := v.GetString(KeyConfig); configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configFile, err)
		}
	}

	cfg := &Config{
		Root:        strings.TrimSpace(v.GetString(KeyRoot)),
		Backend:     v.GetString(KeyBackend),
		Transport:   v.GetString(KeyTransport),
		Listen:      v.GetString(KeyListen),
		Concurrency: v.GetInt(KeyConcurrency),
		ConfigFile:  v.ConfigFileUsed(),
	}
	var errs []error
	maxFileSize, err := units.RAMInBytes(v.GetString(KeyMaxFileSize))
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid %s: %w", KeyMaxFileSize, err))
	}
	cfg.MaxFileSize = maxFileSize
	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the configuration without touching the filesystem.
func (c *Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, fmt.Errorf("%s is not set (use --%s or $%s_ROOT)", KeyRoot, KeyRoot, EnvPrefix))
	}
	switch c.Backend {
	case catalog.BackendDisk, catalog.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid %s %q (expected %q or %q)", KeyBackend, c.Backend, catalog.BackendDisk, catalog.BackendMemory))
	}
	switch c.Transport {
	case TransportStdio:
	case TransportHTTP, TransportSSE:
		if c.Listen == "" {
			errs = append(errs, fmt.Errorf("%s must be set for the %s transport", KeyListen, c.Transport))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid %s %q (expected %q, %q or %q)", KeyTransport, c.Transport, TransportStdio, TransportHTTP, TransportSSE))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyMaxFileSize, c.MaxFileSize))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyConcurrency, c.Concurrency))
	}
	return errors.Join(errs...)
}

// CatalogOptions returns the catalog options for the configuration.
func (c *Config) CatalogOptions() []catalog.Option {
	return []catalog.Option{
		catalog.WithMaxFileSize(c.MaxFileSize),
		catalog.WithConcurrency(c.Concurrency),
	}
}
