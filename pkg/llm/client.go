// Package llm provides text-generation clients behind a single
// interface. Failures carry the aigc error taxonomy so callers can
// distinguish transient (rate-limit, server, timeout) from permanent
// (auth, not-found) classes.
package llm

import (
	"context"
	"time"
)

// Request is one generation call.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client generates text from a prompt.
type Client interface {
	// Generate returns the generated string or a typed error.
	Generate(ctx context.Context, req Request) (string, error)
	// Name identifies the client for logs.
	Name() string
}

// DefaultTimeout bounds a single generation call when the caller's
// configuration does not say otherwise.
const DefaultTimeout = 120 * time.Second
