package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// loadFile loads the settings file from rootPath.
// A missing file yields an empty config, not an error.
func loadFile(rootPath string) (*Config, error) {
	configPath := filepath.Join(rootPath, FileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Template is the commented settings file written by init-config
const Template = `# .envpeek.yaml
# Configuration file for envpeek. Command-line flags and ENVPEEK_* variables
# take precedence over values set here.

# Variable to report
key: GEMINI_API_KEY

# Env files to load, in order. Later files override earlier ones.
env_files:
  - .env
  # - .env.local

# Let env file values replace variables that are already set
override: false

# Look for env files in parent directories too
search_parents: false

# label: Your API Key is
# placeholder: None
# redact: false
# strict: false
`

// WriteTemplate writes Template to rootPath, refusing to overwrite an existing file
func WriteTemplate(rootPath string) (string, error) {
	configPath := filepath.Join(rootPath, FileName)

	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%s already exists in %s", FileName, rootPath)
		}
		return "", fmt.Errorf("failed to create %s: %w", FileName, err)
	}
	defer f.Close()

	if _, err := f.WriteString(Template); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return configPath, nil
}
