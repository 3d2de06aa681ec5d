package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tectonic-cli/tectonic/internal/workspace"
)

const (
	jsonFileName = "config.json"
	yamlFileName = "config.yaml"
)

// Store reads and writes environment records inside a workspace.
type Store struct {
	ws workspace.Workspace
}

// NewStore constructs a Store rooted at ws.
func NewStore(ws workspace.Workspace) *Store {
	return &Store{ws: ws}
}

// Load reads the record of environment. It fails with ErrConfigMissing when the environment
// has no config file.
func (s *Store) Load(environment string) (*Config, error) {
	if strings.TrimSpace(environment) == "" {
		return nil, fmt.Errorf("%w: environment name is empty", ErrConfigMissing)
	}

	path, err := s.find(environment)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg := &Config{environment: environment, path: path, source: data}
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// Persist overwrites the stored record of environment. Only gcloud.project and
// gcloud.bucketPrefix are written back. Every other key keeps its position and literal
// value. The file is replaced atomically.
func (s *Store) Persist(environment string, cfg *Config) error {
	if cfg == nil || cfg.GCloud == nil {
		return &MissingFieldError{Environment: environment, Field: "gcloud"}
	}

	path := cfg.path
	if path == "" {
		path = filepath.Join(s.ws.EnvironmentDir(environment), jsonFileName)
	}

	fields := []field{{key: "project", value: cfg.GCloud.Project}}
	if cfg.GCloud.BucketPrefix != "" {
		fields = append(fields, field{key: "bucketPrefix", value: cfg.GCloud.BucketPrefix})
	}

	patch := patchJSON
	if isYAML(path) {
		patch = patchYAML
	}
	data, err := patch(cfg.source, fields)
	if err != nil {
		return fmt.Errorf("encode config %q: %w", path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}
	return nil
}

// Environments lists environment names found in the workspace.
func (s *Store) Environments() ([]string, error) {
	entries, err := os.ReadDir(s.ws.EnvironmentsDir())
	if err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *Store) find(environment string) (string, error) {
	dir := s.ws.EnvironmentDir(environment)
	for _, name := range []string{jsonFileName, yamlFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat config %q: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: no %s or %s in %s", ErrConfigMissing, jsonFileName, yamlFileName, dir)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, typed *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, typed)
	}
	return json.Unmarshal(data, typed)
}

func writeFileAtomic(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
