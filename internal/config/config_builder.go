package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// Sources tells Load where each settings layer comes from
type Sources struct {
	Root    string            // Directory holding the settings file
	Environ map[string]string // ENVPEEK_* lookup; nil reads the process environment
	Flags   *Config           // Values given on the command line, zero fields unset

	// Explicit applies command-line values after merging, for settings whose
	// zero value is meaningful: an explicit --strict=false beats strict: true
	// from a lower layer.
	Explicit func(*Config)
}

// Load merges settings with precedence flags > environment > file > defaults.
//
// A layer that fails to load is left out and its error is returned joined
// with any others, alongside the config built from the remaining layers.
// The returned config is nil only when the layers can't be merged or the
// result fails validation (ErrInvalidKey).
func Load(src Sources) (*Config, error) {
	return newConfigBuilder().
		withFlags(src.Flags).
		withEnv(src.Environ).
		withFile(src.Root).
		withDefaults().
		withExplicit(src.Explicit).
		build()
}

type configBuilder struct {
	configs  []*Config
	explicit func(*Config)
	err      error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*Config, 0, 4),
	}
}

// build merges layers in the order they were added; the first non-zero value wins
func (b *configBuilder) build() (*Config, error) {
	cfg := new(Config)
	for _, layer := range b.configs {
		if err := mergo.Merge(cfg, layer); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if b.explicit != nil {
		b.explicit(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Join(b.err, err)
	}

	return cfg, b.err
}

func (b *configBuilder) withFlags(flags *Config) *configBuilder {
	if flags != nil {
		b.configs = append(b.configs, flags)
	}
	return b
}

func (b *configBuilder) withEnv(environ map[string]string) *configBuilder {
	envCfg := &Config{}
	if err := parseEnv(envCfg, environ); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFile(rootPath string) *configBuilder {
	fileCfg, err := loadFile(rootPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, fileCfg)
	return b
}

func (b *configBuilder) withExplicit(apply func(*Config)) *configBuilder {
	b.explicit = apply
	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, Default())
	return b
}
