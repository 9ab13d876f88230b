package envfile

import (
	"fmt"
	"os"
	"strings"
)

// Env is an environment namespace: string keys mapped to string values
type Env interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

// ProcessEnv is the environment of the running process
type ProcessEnv struct{}

// LookupEnv reports the value of key and whether it is set
func (ProcessEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Setenv sets key in the process environment
func (ProcessEnv) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// MapEnv is an in-memory namespace, used where the process environment must stay untouched
type MapEnv map[string]string

// LookupEnv reports the value of key and whether it is set
func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Setenv sets key, rejecting names the process environment would reject too
func (m MapEnv) Setenv(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("invalid variable name %q", key)
	}
	m[key] = value
	return nil
}
