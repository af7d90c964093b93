package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the config file for a project. The file
// must contain exactly the canonical key set: unknown keys, missing
// keys and bad values are all hard errors, never silently patched.
func Load(path, projectName string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), ErrInvalidYAML)
	}
	if err := checkCanonicalKeys(raw); err != nil {
		return nil, err
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), ErrInvalidYAML)
	}

	if err := Validate(cfg, projectName); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save validates and writes the config file, creating the project
// metadata folder if needed. An invalid config is never written.
func Save(cfg *Config, path, projectName string) error {
	if err := Validate(cfg, projectName); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// checkCanonicalKeys verifies the file's key set equals the canonical
// schema exactly.
func checkCanonicalKeys(raw map[string]any) error {
	for _, key := range canonicalKeys {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("%w: %q was not found in the config file", ErrMissingKey, key)
		}
	}
	for key := range raw {
		if !IsCanonicalKey(key) {
			return fmt.Errorf("%w: %q is not a recognized config key", ErrUnknownKey, key)
		}
	}
	return nil
}
