// Package probe looks up the one variable envpeek reports on.
package probe

import (
	"errors"
	"fmt"

	"github.com/jenian/envpeek/internal/envfile"
)

// SourceEnvironment marks a value that was already set before any env file was loaded
const SourceEnvironment = "environment"

// ErrKeyNotSet is returned by Require when the looked-up variable is absent
var ErrKeyNotSet = errors.New("variable is not set")

// Lookup is the outcome of reading one variable
type Lookup struct {
	Key    string
	Value  string
	Set    bool   // False when the variable is absent; Value is then empty
	Source string // Env file path, SourceEnvironment, or empty when absent
}

// Get reads key from env. sources maps keys to the env file that set them.
func Get(env envfile.Env, key string, sources map[string]string) Lookup {
	value, ok := env.LookupEnv(key)
	if !ok {
		return Lookup{Key: key}
	}

	source := sources[key]
	if source == "" {
		source = SourceEnvironment
	}
	return Lookup{Key: key, Value: value, Set: true, Source: source}
}

// Run applies env files under rootPath through loader, then reads key from
// the loader's namespace.
func Run(loader *envfile.Loader, rootPath, key string) (Lookup, error) {
	result, err := loader.Apply(rootPath)
	if err != nil {
		return Lookup{Key: key}, fmt.Errorf("failed to load env files: %w", err)
	}
	return Get(loader.Env(), key, result.Sources), nil
}

// Require returns ErrKeyNotSet when l is absent
func (l Lookup) Require() error {
	if !l.Set {
		return fmt.Errorf("%s: %w", l.Key, ErrKeyNotSet)
	}
	return nil
}
