package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/clinic-sim/sim"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version       string                     `yaml:"version"`
	DefaultPreset string                     `yaml:"default_preset"`
	Presets       map[string]sim.ShiftConfig `yaml:"presets"`
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
// Uses strict field checking: typos must cause errors.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return cfg, nil
}

// presetShiftConfig resolves a named preset from the defaults file. An empty name
// selects the file's default preset. A missing defaults file with no explicit
// preset falls back to the built-in reference policy.
func presetShiftConfig(path, name string) (sim.ShiftConfig, error) {
	cfg, err := loadDefaultsConfig(path)
	if err != nil {
		if name == "" && errors.Is(err, os.ErrNotExist) {
			return sim.DefaultShiftConfig(), nil
		}
		return sim.ShiftConfig{}, err
	}
	if name == "" {
		name = cfg.DefaultPreset
	}
	if name == "" {
		return sim.DefaultShiftConfig(), nil
	}
	preset, ok := cfg.Presets[name]
	if !ok {
		return sim.ShiftConfig{}, fmt.Errorf("unknown preset %q in %s", name, path)
	}
	return preset, nil
}

// loadShiftConfigFile overlays a YAML shift config onto base. Fields absent from
// the file keep their base values; unknown keys are rejected.
func loadShiftConfigFile(path string, base sim.ShiftConfig) (sim.ShiftConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.ShiftConfig{}, fmt.Errorf("reading shift config: %w", err)
	}
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return sim.ShiftConfig{}, fmt.Errorf("parsing shift config %s: %w", path, err)
	}
	return cfg, nil
}
