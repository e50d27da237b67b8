// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package model picks and validates the model used for map-stage
// (per-chunk) summarization calls. Explicit user configuration always
// wins; otherwise premium models are downgraded to designated
// lightweight siblings to keep chunk calls cheap.
package model

import (
	"regexp"
	"strings"
)

// Config is the slice of user configuration the selector reads.
type Config struct {
	Provider   string
	ModelName  string
	ChunkModel string
}

// DowngradeKey identifies one (provider, model) pair in a downgrade
// table. Both parts are matched case-insensitively.
type DowngradeKey struct {
	Provider string
	Model    string
}

// Downgrades maps premium models to their lightweight siblings.
type Downgrades map[DowngradeKey]string

// DefaultDowngrades is the built-in table. GPT-4-family non-mini
// models map to gpt-4o-mini; large Claude and DeepSeek variants map
// to their fast siblings. Models already lightweight are absent and
// therefore pass through.
var DefaultDowngrades = Downgrades{
	{"openai", "gpt-4"}:                "gpt-4o-mini",
	{"openai", "gpt-4-turbo"}:          "gpt-4o-mini",
	{"openai", "gpt-4o"}:               "gpt-4o-mini",
	{"openai", "gpt-4.1"}:              "gpt-4.1-mini",
	{"openai", "o1"}:                   "o1-mini",
	{"anthropic", "claude-3-opus"}:     "claude-3-haiku",
	{"anthropic", "claude-3-5-sonnet"}: "claude-3-5-haiku",
	{"deepseek", "deepseek-reasoner"}:  "deepseek-chat",
	{"zhipu", "glm-4"}:                 "glm-4-flash",
	{"alibaba", "qwen-max"}:            "qwen-turbo",
	{"alibaba", "qwen-plus"}:           "qwen-turbo",
}

// localProviders never downgrade: a self-hosted model has no cheaper
// sibling worth switching to, and the user picked it deliberately.
var localProviders = map[string]bool{
	"ollama":      true,
	"local":       true,
	"lmstudio":    true,
	"llamacpp":    true,
	"vllm":        true,
	"self-hosted": true,
}

// Selector resolves the map-stage model from configuration.
type Selector struct {
	downgrades Downgrades
}

// NewSelector builds a selector over the given downgrade table; nil
// installs DefaultDowngrades.
func NewSelector(d Downgrades) *Selector {
	if d == nil {
		d = DefaultDowngrades
	}
	return &Selector{downgrades: d}
}

// SelectMapModel returns the model for chunk summarization. A
// non-blank ChunkModel (after trimming) is returned verbatim: explicit
// user configuration always wins over the downgrade heuristic.
// Otherwise the downgrade table is consulted; local providers,
// unrecognized providers, and already-lightweight models pass through
// unchanged.
func (s *Selector) SelectMapModel(cfg Config) string {
	if override := strings.TrimSpace(cfg.ChunkModel); override != "" {
		return override
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if localProviders[provider] {
		return cfg.ModelName
	}

	key := DowngradeKey{Provider: provider, Model: strings.ToLower(strings.TrimSpace(cfg.ModelName))}
	if lighter, ok := s.downgrades[key]; ok {
		return lighter
	}
	return cfg.ModelName
}

var modelIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,100}$`)

// providerFamilies lists name prefixes a provider's models are known
// to use. A model whose name carries another provider's unmistakable
// prefix is rejected for that provider.
var providerFamilies = map[string][]string{
	"openai":    {"gpt-", "o1", "o3", "chatgpt", "text-", "davinci"},
	"anthropic": {"claude"},
	"google":    {"gemini", "palm"},
	"deepseek":  {"deepseek"},
	"zhipu":     {"glm", "chatglm"},
	"alibaba":   {"qwen"},
}

// ValidateModel reports whether id is a plausible model identifier:
// 3-100 characters of letters, digits, dot, underscore or hyphen.
// When provider is non-empty and recognized, ids that clearly belong
// to a different provider's family are rejected.
func ValidateModel(id, provider string) bool {
	if !modelIDPattern.MatchString(id) {
		return false
	}

	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || localProviders[provider] {
		return true
	}
	families, known := providerFamilies[provider]
	if !known {
		return true
	}

	lower := strings.ToLower(id)
	// Consistent with the configured provider: fine.
	for _, prefix := range families {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	// Not in this provider's families: reject only if it clearly
	// belongs to another known provider.
	for p, prefixes := range providerFamilies {
		if p == provider {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(lower, prefix) {
				return false
			}
		}
	}
	return true
}

// SelectAndValidateMapModel runs selection and validates the result.
// An invalid selection (bad format or provider mismatch) falls back to
// the primary configured model rather than failing: selection errors
// are recoverable, never fatal.
func (s *Selector) SelectAndValidateMapModel(cfg Config) string {
	selected := s.SelectMapModel(cfg)
	if ValidateModel(selected, cfg.Provider) {
		return selected
	}
	return cfg.ModelName
}
