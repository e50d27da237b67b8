// Package token provides token estimation and per-model input budgets.
package token

import (
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"
)

// Method selects the estimation strategy.
type Method string

const (
	// MethodSimple is the fast character-based approximation. It is
	// deterministic, model-agnostic, and intentionally conservative so
	// splitting triggers early rather than late.
	MethodSimple Method = "simple"
	// MethodTiktoken counts with the cl100k_base codec. Slower but
	// closer to real token counts for OpenAI-family models.
	MethodTiktoken Method = "tiktoken"
)

// Estimator approximates token cost of text and knows per-model limits.
type Estimator struct {
	method Method
	codec  tokenizer.Codec
	limits Limits
	margin int
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithMethod selects the estimation strategy. Unknown or unavailable
// methods fall back to MethodSimple.
func WithMethod(m Method) Option {
	return func(e *Estimator) {
		if m == MethodTiktoken {
			codec, err := tokenizer.Get(tokenizer.Cl100kBase)
			if err == nil {
				e.method = MethodTiktoken
				e.codec = codec
				return
			}
		}
		e.method = MethodSimple
	}
}

// WithLimits installs a model-limits table, replacing DefaultLimits.
func WithLimits(l Limits) Option {
	return func(e *Estimator) { e.limits = l }
}

// WithSafetyMargin overrides the tokens reserved for prompt scaffolding
// and the model's response.
func WithSafetyMargin(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.margin = n
		}
	}
}

// NewEstimator builds an estimator with the simple method and the
// default limits table unless options say otherwise.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		method: MethodSimple,
		limits: DefaultLimits,
		margin: DefaultSafetyMargin,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the approximate token count of text. The simple
// method takes the larger of bytes/3 and runes/2: bytes/3 tracks
// BPE density for English-ish text, runes/2 keeps mostly-multibyte
// text from being undercounted.
func (e *Estimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	if e.method == MethodTiktoken && e.codec != nil {
		if ids, _, err := e.codec.Encode(text); err == nil {
			return len(ids)
		}
		// Encoding failure falls back to the approximation.
	}
	byBytes := len(text) / 3
	byRunes := utf8.RuneCountInString(text) / 2
	if byRunes > byBytes {
		return byRunes
	}
	return byBytes
}

// Method reports the active estimation strategy.
func (e *Estimator) Method() Method {
	return e.method
}

// ModelLimit returns the context-window limit for a model name, or the
// conservative default when the model is unrecognized.
func (e *Estimator) ModelLimit(model string) int {
	return e.limits.Lookup(model)
}

// EffectiveLimit returns the usable input budget for a model: the
// context window minus the safety margin.
func (e *Estimator) EffectiveLimit(model string) int {
	limit := e.ModelLimit(model) - e.margin
	if limit < minEffectiveLimit {
		return minEffectiveLimit
	}
	return limit
}

// NeedsSplit reports whether text exceeds the model's effective budget.
func (e *Estimator) NeedsSplit(text, model string) bool {
	return e.Estimate(text) > e.EffectiveLimit(model)
}

// minEffectiveLimit keeps a pathological margin/limit pairing from
// producing a zero or negative budget.
const minEffectiveLimit = 256
