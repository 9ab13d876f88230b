package config

import (
	"errors"
	"fmt"
	"strings"
)

// FileName is the settings file looked up in the working directory
const FileName = ".envpeek.yaml"

// EnvPrefix prefixes every settings variable read from the environment
const EnvPrefix = "ENVPEEK_"

// Defaults
const (
	DefaultKey         = "GEMINI_API_KEY"
	DefaultEnvFile     = ".env"
	DefaultLabel       = "Your API Key is"
	DefaultPlaceholder = "None"
)

// ErrInvalidKey is returned when the configured variable name can't be looked up
var ErrInvalidKey = errors.New("invalid variable name")

// Config represents envpeek settings
type Config struct {
	Key           string   `yaml:"key" env:"KEY"`                              // Variable to report
	EnvFiles      []string `yaml:"env_files" env:"ENV_FILES" envSeparator:","` // Loaded in order, later files win
	Override      bool     `yaml:"override" env:"OVERRIDE"`                    // File values replace pre-existing variables
	SearchParents bool     `yaml:"search_parents" env:"SEARCH_PARENTS"`
	Label         string   `yaml:"label" env:"LABEL"`
	Placeholder   string   `yaml:"placeholder" env:"PLACEHOLDER"` // Printed when the variable isn't set
	JSON          bool     `yaml:"json" env:"JSON"`
	Redact        bool     `yaml:"redact" env:"REDACT"`
	Strict        bool     `yaml:"strict" env:"STRICT"` // Absent variable is an error
	Debug         bool     `yaml:"debug" env:"DEBUG"`
}

// Default returns the settings used when nothing else is configured
func Default() *Config {
	return &Config{
		Key:         DefaultKey,
		EnvFiles:    []string{DefaultEnvFile},
		Label:       DefaultLabel,
		Placeholder: DefaultPlaceholder,
	}
}

func (c *Config) validate() error {
	key := strings.TrimSpace(c.Key)
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	c.Key = key
	return nil
}
