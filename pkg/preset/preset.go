// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package preset stores named configuration bundles as TOML files so a
// user can switch between providers and output styles with one flag.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/config"
	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

// Preset is a partial configuration: only non-zero fields override the
// loaded config when applied.
type Preset struct {
	Description string        `toml:"description,omitempty"`
	Provider    string        `toml:"provider,omitempty"`
	Model       string        `toml:"model,omitempty"`
	ChunkModel  string        `toml:"chunk_model,omitempty"`
	BaseURL     string        `toml:"base_url,omitempty"`
	APIKeyEnv   string        `toml:"api_key_env,omitempty"`
	Language    string        `toml:"language,omitempty"`
	Format      string        `toml:"format,omitempty"`
	Temperature float64       `toml:"temperature,omitempty"`
	Timeout     time.Duration `toml:"timeout,omitempty"`
}

// Store reads and writes presets under a directory.
type Store struct {
	dir string
}

// NewStore uses the given directory, or the default user location when
// dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, aerrors.ConfigError("cannot resolve user config directory", err)
		}
		dir = filepath.Join(base, "aigc", "presets")
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory presets live in.
func (s *Store) Dir() string { return s.dir }

// List returns preset names in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, aerrors.ConfigError("cannot list presets", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// Get loads one preset by name.
func (s *Store) Get(name string) (*Preset, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	path := s.path(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, aerrors.NotFoundError(fmt.Sprintf("preset %q does not exist", name), err)
	}
	if err != nil {
		return nil, aerrors.ConfigError(fmt.Sprintf("cannot read preset %q", name), err)
	}

	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, aerrors.ConfigError(fmt.Sprintf("preset %q is not valid TOML", name), err)
	}
	return &p, nil
}

// Save writes a preset, creating the directory on first use.
func (s *Store) Save(name string, p *Preset) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return aerrors.ConfigError("cannot create preset directory", err)
	}

	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(p); err != nil {
		return aerrors.ConfigError(fmt.Sprintf("cannot encode preset %q", name), err)
	}
	if err := os.WriteFile(s.path(name), []byte(b.String()), 0o644); err != nil {
		return aerrors.ConfigError(fmt.Sprintf("cannot write preset %q", name), err)
	}
	return nil
}

// Delete removes a preset. Deleting a missing preset is an error so
// typos surface.
func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return aerrors.NotFoundError(fmt.Sprintf("preset %q does not exist", name), err)
	}
	if err != nil {
		return aerrors.ConfigError(fmt.Sprintf("cannot delete preset %q", name), err)
	}
	return nil
}

// Apply overlays the preset's non-zero fields onto cfg.
func (p *Preset) Apply(cfg *config.Config) {
	if p.Provider != "" {
		cfg.Provider.Name = p.Provider
	}
	if p.Model != "" {
		cfg.Provider.Model = p.Model
	}
	if p.ChunkModel != "" {
		cfg.Provider.ChunkModel = p.ChunkModel
	}
	if p.BaseURL != "" {
		cfg.Provider.BaseURL = p.BaseURL
	}
	if p.APIKeyEnv != "" {
		cfg.Provider.APIKeyEnv = p.APIKeyEnv
	}
	if p.Language != "" {
		cfg.Generate.Language = p.Language
	}
	if p.Format != "" {
		cfg.Generate.Format = p.Format
	}
	if p.Temperature != 0 {
		cfg.Generate.Temperature = p.Temperature
	}
	if p.Timeout != 0 {
		cfg.Provider.Timeout = p.Timeout
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".toml")
}

// validName keeps preset names usable as file names.
func validName(name string) error {
	if name == "" {
		return aerrors.ValidationError("preset name must not be empty", nil)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return aerrors.ValidationError(fmt.Sprintf("invalid preset name %q", name), nil)
	}
	return nil
}
