package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "MARGINALIA_"

// envMapping maps environment variables to the values they override.
var envMapping = map[string]func(c *Config, value string) error{
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Logging.Level = v
		return nil
	},
	EnvPrefix + "SETTINGS_KEY": func(c *Config, v string) error {
		c.Annotation.SettingsKey = v
		return nil
	},
	EnvPrefix + "KEY_PREFIX": func(c *Config, v string) error {
		c.Annotation.KeyPrefix = v
		return nil
	},
	EnvPrefix + "PREVIEW_WIDTH": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Annotation.PreviewWidth = n
		return nil
	},
	EnvPrefix + "PLUGIN_TIMEOUT": func(c *Config, v string) error {
		c.Plugin.Timeout = v
		return nil
	},
}

// ApplyEnv overrides configuration values from environment variables.
// lookup is normally os.LookupEnv. Empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for name, apply := range envMapping {
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := apply(c, value); err != nil {
			return &ParseError{Path: "$" + name, Message: fmt.Sprintf("invalid value %q", value), Err: err}
		}
	}
	return nil
}
