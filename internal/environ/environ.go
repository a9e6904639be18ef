// Package environ provides lookup sources for configuration values and the
// helpers used by the bootstrap layer to export variables to the process.
package environ

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// Source resolves a variable by name.
type Source interface {
	Lookup(key string) (string, bool)
}

// OS reads from the process environment.
type OS struct{}

// Lookup implements Source.
func (OS) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is an in-memory Source.
type Map map[string]string

// Lookup implements Source.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the map keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Layered consults its sources in order. The first non-empty value wins, so an
// empty variable in an earlier layer does not shadow a later one.
type Layered []Source

// Lookup implements Source.
func (l Layered) Lookup(key string) (string, bool) {
	for _, src := range l {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Get returns the value of key, or "" when it is unset or empty.
func Get(src Source, key string) string {
	if src == nil {
		return ""
	}
	v, ok := src.Lookup(key)
	if !ok {
		return ""
	}
	return v
}

// ReadFile parses a dotenv file without touching the process environment.
func ReadFile(path string) (Map, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return Map(vars), nil
}

var setenv = os.Setenv

// Export writes vars into the process environment in key order.
func Export(vars Map) error {
	for _, key := range vars.Keys() {
		if err := setenv(key, vars[key]); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Missing returns the entries of vars whose key is not present in src.
func Missing(src Source, vars Map) Map {
	out := make(Map, len(vars))
	for k, v := range vars {
		if _, ok := src.Lookup(k); ok {
			continue
		}
		out[k] = v
	}
	return out
}
