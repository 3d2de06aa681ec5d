// Package env loads process settings from the OS environment and optional .env files.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Vars is a simple string-to-string map of variables.
type Vars map[string]string

// FromOS builds Vars from the current process environment.
func FromOS() Vars {
	return FromList(os.Environ())
}

// FromList builds Vars from KEY=VALUE pairs. Malformed entries are skipped.
func FromList(pairs []string) Vars {
	out := make(Vars, len(pairs))
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// Merge merges several Vars into one; later sets override earlier keys.
func Merge(sets ...Vars) Vars {
	out := make(Vars)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

// LoadFile parses a .env-style file into Vars.
func LoadFile(path string) (Vars, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	parsed, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse env file %q: %w", path, err)
	}
	return Vars(parsed), nil
}

// LoadOptionalFile is LoadFile, except a missing file yields empty Vars.
func LoadOptionalFile(path string) (Vars, error) {
	vars, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Vars{}, nil
	}
	return vars, err
}
