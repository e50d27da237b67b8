// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package config provides configuration management for aigc.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.config/aigc/config.yaml
// 3. Project Config: .aigc.yaml (current directory, then parents)
// 4. Environment Variables: AIGC_*
package config

import (
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Provider Provider   `yaml:"provider"`
	Generate Generation `yaml:"generate"`
	Filter   Filter     `yaml:"filter"`
	Tokens   Tokens     `yaml:"tokens"`
	Cache    Cache      `yaml:"cache"`
	History  History    `yaml:"history"`
	Global   Global     `yaml:"global"`
}

// Provider contains LLM provider settings.
type Provider struct {
	Name       string        `yaml:"name"`        // openai, deepseek, zhipu, alibaba, ollama, ...
	Model      string        `yaml:"model"`       // primary model for the final message
	ChunkModel string        `yaml:"chunk_model"` // optional override for the map stage
	BaseURL    string        `yaml:"base_url"`
	APIKeyEnv  string        `yaml:"api_key_env"` // env var holding the key; the key itself never lives in config
	Timeout    time.Duration `yaml:"timeout"`
}

// Generation contains output and pipeline settings.
type Generation struct {
	Language    string        `yaml:"language"` // output language, empty means English
	Format      string        `yaml:"format"`   // plain or conventional
	Temperature float64       `yaml:"temperature"`
	Concurrency int           `yaml:"concurrency"`  // bounded queue slots
	MaxAttempts int           `yaml:"max_attempts"` // per-chunk retry attempts
	BaseDelay   time.Duration `yaml:"base_delay"`   // retry backoff base
	BatchSize   int           `yaml:"batch_size"`   // summaries per merge batch
}

// Filter contains smart file filter settings.
type Filter struct {
	Enabled       bool `yaml:"enabled"`
	SkipThreshold int  `yaml:"skip_threshold"` // changesets at or below this size skip filtering
}

// Tokens contains estimation settings.
type Tokens struct {
	Method       string `yaml:"method"` // simple or tiktoken
	SafetyMargin int    `yaml:"safety_margin"`
}

// Cache contains response cache settings.
type Cache struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // empty means the user cache directory
	TTL     time.Duration `yaml:"ttl"`
}

// History contains generation history settings.
type History struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means the user config directory
	Keep    int    `yaml:"keep"` // entries retained on rotation
}

// Global contains application-wide settings.
type Global struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: Provider{
			Name:      "openai",
			Model:     "gpt-4o-mini",
			APIKeyEnv: "AIGC_API_KEY",
			Timeout:   120 * time.Second,
		},
		Generate: Generation{
			Format:      "conventional",
			Temperature: 0.3,
			Concurrency: 3,
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			BatchSize:   6,
		},
		Filter: Filter{
			Enabled:       true,
			SkipThreshold: 2,
		},
		Tokens: Tokens{
			Method:       "simple",
			SafetyMargin: 1024,
		},
		Cache: Cache{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		History: History{
			Enabled: true,
			Keep:    100,
		},
		Global: Global{
			LogLevel: "info",
		},
	}
}

// applyDefaults fills zero-valued fields after file and env overlays.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Provider.Name == "" {
		cfg.Provider.Name = def.Provider.Name
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = def.Provider.Model
	}
	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = def.Provider.APIKeyEnv
	}
	if cfg.Provider.Timeout <= 0 {
		cfg.Provider.Timeout = def.Provider.Timeout
	}
	if cfg.Generate.Format == "" {
		cfg.Generate.Format = def.Generate.Format
	}
	if cfg.Generate.Concurrency <= 0 {
		cfg.Generate.Concurrency = def.Generate.Concurrency
	}
	if cfg.Generate.MaxAttempts <= 0 {
		cfg.Generate.MaxAttempts = def.Generate.MaxAttempts
	}
	if cfg.Generate.BaseDelay <= 0 {
		cfg.Generate.BaseDelay = def.Generate.BaseDelay
	}
	if cfg.Generate.BatchSize <= 0 {
		cfg.Generate.BatchSize = def.Generate.BatchSize
	}
	if cfg.Filter.SkipThreshold <= 0 {
		cfg.Filter.SkipThreshold = def.Filter.SkipThreshold
	}
	if cfg.Tokens.Method == "" {
		cfg.Tokens.Method = def.Tokens.Method
	}
	if cfg.Tokens.SafetyMargin <= 0 {
		cfg.Tokens.SafetyMargin = def.Tokens.SafetyMargin
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = def.Cache.TTL
	}
	if cfg.History.Keep <= 0 {
		cfg.History.Keep = def.History.Keep
	}
	if cfg.Global.LogLevel == "" {
		cfg.Global.LogLevel = def.Global.LogLevel
	}
}
