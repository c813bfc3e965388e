package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/marginalia/internal/logging"
)

// Config is the complete configuration.
type Config struct {
	Annotation AnnotationConfig `toml:"annotation"`
	Logging    LoggingConfig    `toml:"logging"`
	Plugin     PluginConfig     `toml:"plugin"`
}

// AnnotationConfig controls how annotations are stored and presented.
type AnnotationConfig struct {
	// SettingsKey is the document setting the annotation set is stored under.
	SettingsKey string `toml:"settingsKey"`

	// KeyPrefix prefixes annotation record and region keys.
	KeyPrefix string `toml:"keyPrefix"`

	// ConflictMessage is shown when a selection intersects an annotation.
	ConflictMessage string `toml:"conflictMessage"`

	// PromptTitle is the comment prompt title; it receives the start and
	// end offsets of the target range.
	PromptTitle string `toml:"promptTitle"`

	// PreviewWidth is the width, in terminal cells, of comment previews.
	PreviewWidth int `toml:"previewWidth"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `toml:"level"`
}

// PluginConfig controls the Lua runtime.
type PluginConfig struct {
	// CallLimit bounds the ks API calls a single script run may make.
	// Zero means unlimited.
	CallLimit int64 `toml:"callLimit"`

	// Timeout bounds script execution time, e.g. "5s".
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout parsed as a duration.
func (p PluginConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Annotation: AnnotationConfig{
			SettingsKey:     "annotation_comments",
			KeyPrefix:       "html_annotation_",
			ConflictMessage: "Cannot have intersecting annotation regions!",
			PromptTitle:     "Annotate region (%d, %d)",
			PreviewWidth:    48,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Plugin: PluginConfig{
			CallLimit: 100_000,
			Timeout:   "5s",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path and
// the process environment. An empty path or a missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds the configuration from defaults and TOML data, without
// consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.merge("<data>", data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.merge(path, data)
}

// merge decodes TOML over the current values; keys absent from the data
// keep their current value.
func (c *Config) merge(source string, data []byte) error {
	dec := toml.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Annotation.SettingsKey == "" {
		errs = append(errs, &ValidationError{Field: "annotation.settingsKey", Message: "must not be empty"})
	}
	if c.Annotation.KeyPrefix == "" {
		errs = append(errs, &ValidationError{Field: "annotation.keyPrefix", Message: "must not be empty"})
	}
	if strings.Contains(fmt.Sprintf(c.Annotation.PromptTitle, 0, 0), "%!") {
		errs = append(errs, &ValidationError{Field: "annotation.promptTitle", Message: "must take exactly two integer verbs"})
	}
	if c.Annotation.PreviewWidth < 1 {
		errs = append(errs, &ValidationError{Field: "annotation.previewWidth", Message: "must be positive"})
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	if c.Plugin.CallLimit < 0 {
		errs = append(errs, &ValidationError{Field: "plugin.callLimit", Message: "must not be negative"})
	}
	if d, err := time.ParseDuration(c.Plugin.Timeout); err != nil || d < 0 {
		errs = append(errs, &ValidationError{Field: "plugin.timeout", Message: fmt.Sprintf("invalid duration %q", c.Plugin.Timeout)})
	}
	return errors.Join(errs...)
}

// PromptTitle formats the prompt title for a range.
func (c *Config) PromptTitle(start, end int64) string {
	return fmt.Sprintf(c.Annotation.PromptTitle, start, end)
}
