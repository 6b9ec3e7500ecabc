/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads logreport settings from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/logreport/errors"
	"github.com/suparena/logreport/storagemodels"
)

// Environment variables read by Load.
const (
	EnvAccessKey    = "AWS_ACCESS_KEY"
	EnvSecretKey    = "AWS_SECRET_KEY"
	EnvRegion       = "AWS_REGION"
	EnvBucket       = "LOGREPORT_BUCKET"
	EnvPrefix       = "LOGREPORT_PREFIX"
	EnvArchiveTable = "LOGREPORT_ARCHIVE_TABLE"
	EnvOutputDir    = "LOGREPORT_OUTPUT_DIR"
	EnvRetries      = "LOGREPORT_RETRIES"
)

// DotEnvFile is the .env file consulted by Load, relative to the working directory.
var DotEnvFile = ".env"

// Config holds all logreport configuration.
type Config struct {
	AWS     AWSConfig     `yaml:"aws"`
	Source  SourceConfig  `yaml:"source"`
	Query   QueryConfig   `yaml:"query"`
	Archive ArchiveConfig `yaml:"archive"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// AWSConfig holds credentials and region. Empty keys fall back to the SDK's
// default credential chain.
type AWSConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
}

// SourceConfig locates the log archive.
type SourceConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// QueryConfig tunes the select queries.
type QueryConfig struct {
	Timeout      string `yaml:"timeout"`
	Retries      int    `yaml:"retries"`
	RetryBackoff string `yaml:"retry_backoff"`
	Concurrency  int    `yaml:"concurrency"`
}

// ArchiveConfig enables the DynamoDB event archive when Table is set.
type ArchiveConfig struct {
	Table string `yaml:"table"`
}

// ReportConfig controls artifact names and texts.
type ReportConfig struct {
	FilePrefix string   `yaml:"file_prefix"`
	Title      string   `yaml:"title"`
	Type       string   `yaml:"type"`
	OutputDir  string   `yaml:"output_dir"`
	Headers    []string `yaml:"headers"`
}

// LoggingConfig configures the console logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		AWS: AWSConfig{Region: "us-east-1"},
		Source: SourceConfig{
			Bucket: "logs-archive",
			Prefix: "logs.",
		},
		Query: QueryConfig{
			Timeout:      "60s",
			Retries:      0,
			RetryBackoff: "1s",
			Concurrency:  1,
		},
		Report: ReportConfig{
			FilePrefix: "Oktalogs",
			Title:      "Okta Report",
			Type:       "Activity per date",
			OutputDir:  ".",
			Headers:    append([]string(nil), storagemodels.DefaultHeaders...),
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (skipped when empty) over the defaults, then applies
// DotEnvFile and the environment. A real environment variable wins over the
// same key in DotEnvFile.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	dotenv, err := godotenv.Read(DotEnvFile)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}

	if err := cfg.applyEnvOverrides(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.AWS.AccessKey, EnvAccessKey)
	set(&c.AWS.SecretKey, EnvSecretKey)
	set(&c.AWS.Region, EnvRegion)
	set(&c.Source.Bucket, EnvBucket)
	set(&c.Source.Prefix, EnvPrefix)
	set(&c.Archive.Table, EnvArchiveTable)
	set(&c.Report.OutputDir, EnvOutputDir)

	if v := getenv(EnvRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError(EnvRetries, fmt.Sprintf("not an integer: %q", v))
		}
		c.Query.Retries = n
	}
	return nil
}

// QueryTimeout returns the per-call timeout.
func (c *Config) QueryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Query.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// RetryBackoff returns the base delay between select retries.
func (c *Config) RetryBackoff() time.Duration {
	d, err := time.ParseDuration(c.Query.RetryBackoff)
	if err != nil {
		return time.Second
	}
	return d
}

// ArchiveEnabled reports whether events should be stored in DynamoDB.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Table != ""
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	if c.Source.Bucket == "" {
		return errors.NewValidationError("source.bucket", "is required")
	}
	if c.AWS.Region == "" {
		return errors.NewValidationError("aws.region", "is required")
	}
	if (c.AWS.AccessKey == "") != (c.AWS.SecretKey == "") {
		return errors.NewValidationError("aws", "access_key and secret_key must be set together")
	}
	if c.Query.Retries < 0 {
		return errors.NewValidationError("query.retries", "must not be negative")
	}
	if c.Query.Concurrency < 1 {
		return errors.NewValidationError("query.concurrency", "must be at least 1")
	}
	d, err := time.ParseDuration(c.Query.Timeout)
	if err != nil || d <= 0 {
		return errors.NewValidationError("query.timeout", fmt.Sprintf("must be a positive duration, got %q", c.Query.Timeout))
	}
	if b, err := time.ParseDuration(c.Query.RetryBackoff); err != nil || b < 0 {
		return errors.NewValidationError("query.retry_backoff", fmt.Sprintf("must be a duration, got %q", c.Query.RetryBackoff))
	}
	if len(c.Report.Headers) != storagemodels.EventFieldCount {
		return errors.NewValidationError("report.headers", fmt.Sprintf("want %d labels, got %d", storagemodels.EventFieldCount, len(c.Report.Headers)))
	}
	if c.Report.FilePrefix == "" {
		return errors.NewValidationError("report.file_prefix", "is required")
	}
	return nil
}
