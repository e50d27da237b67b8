package token

import "strings"

// DefaultSafetyMargin is the token head-room reserved for prompt
// scaffolding and the model's response.
const DefaultSafetyMargin = 1024

// DefaultModelLimit is used when a model name matches nothing in the
// table. Deliberately conservative.
const DefaultModelLimit = 8192

// Limits maps model-name substrings to context-window sizes. Lookup
// scans entries in order so more specific patterns must come first.
type Limits []LimitEntry

// LimitEntry pairs a lowercase model-name substring with a context
// window size in tokens.
type LimitEntry struct {
	Pattern string
	Tokens  int
}

// DefaultLimits is the built-in table. Injectable, not mutated at
// runtime; callers wanting different numbers pass their own Limits.
var DefaultLimits = Limits{
	// OpenAI
	{"gpt-4o-mini", 128000},
	{"gpt-4o", 128000},
	{"gpt-4-turbo", 128000},
	{"gpt-4.1", 1000000},
	{"gpt-4-32k", 32768},
	{"gpt-4", 8192},
	{"gpt-3.5-turbo-16k", 16384},
	{"gpt-3.5", 4096},
	{"o1-mini", 128000},
	{"o1", 200000},
	// Anthropic
	{"claude-3-5", 200000},
	{"claude-3", 200000},
	{"claude", 100000},
	// Google
	{"gemini-1.5", 1000000},
	{"gemini-2", 1000000},
	{"gemini", 32000},
	// DeepSeek
	{"deepseek-reasoner", 64000},
	{"deepseek", 64000},
	// Alibaba
	{"qwen-turbo", 131072},
	{"qwen-plus", 131072},
	{"qwen", 32768},
	// Zhipu
	{"glm-4", 128000},
	{"glm", 128000},
	// Meta (typically local)
	{"llama-3", 8192},
	{"llama3", 8192},
	{"llama", 4096},
	{"mistral", 32768},
	{"codellama", 16384},
}

// Lookup returns the context window for model, or DefaultModelLimit if
// no pattern matches. Matching is case-insensitive substring.
func (l Limits) Lookup(model string) int {
	m := strings.ToLower(strings.TrimSpace(model))
	if m == "" {
		return DefaultModelLimit
	}
	for _, entry := range l {
		if strings.Contains(m, entry.Pattern) {
			return entry.Tokens
		}
	}
	return DefaultModelLimit
}
