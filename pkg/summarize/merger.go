package summarize

import (
	"context"
	"fmt"
	"strings"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/llm"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/observability"
)

// Budgeter is the token-estimation slice the merger needs.
type Budgeter interface {
	Estimate(text string) int
	EffectiveLimit(model string) int
}

// MergeOptions controls the reduce stage.
type MergeOptions struct {
	Model       string
	Language    string
	Format      string // "plain" or "conventional"
	Temperature float64
	// BatchSize is how many summaries one intermediate reduction
	// combines. A policy knob, not a constant.
	BatchSize int
	// MaxDepth caps recursion against pathological estimator
	// configurations; termination is otherwise guaranteed because
	// every level strictly reduces the number of summary units.
	MaxDepth int
}

func (o *MergeOptions) defaults() {
	if o.BatchSize < 2 {
		o.BatchSize = 6
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 5
	}
}

// Merger combines chunk summaries into one commit message.
type Merger struct {
	client llm.Client
	budget Budgeter
	log    observability.Logger
}

// NewMerger creates a merger. log may be nil.
func NewMerger(client llm.Client, budget Budgeter, log observability.Logger) *Merger {
	if log == nil {
		log = observability.Nop()
	}
	return &Merger{client: client, budget: budget, log: log}
}

// Merge produces the final message from the summary set. Failed chunks
// are excluded from the prose; if nothing succeeded the returned error
// enumerates every chunk's failure so the caller can display it
// verbatim.
func (m *Merger) Merge(ctx context.Context, summaries []Summary, opts MergeOptions) (string, error) {
	opts.defaults()

	var texts []string
	var failures []Summary
	for _, s := range summaries {
		if s.OK {
			texts = append(texts, s.Text)
		} else {
			failures = append(failures, s)
		}
	}

	if len(texts) == 0 {
		return "", allFailedError(failures)
	}

	texts, err := m.reduce(ctx, texts, opts)
	if err != nil {
		return "", err
	}

	message, err := m.client.Generate(ctx, llm.Request{
		Model:       opts.Model,
		System:      mergeSystemPrompt,
		Prompt:      mergePrompt(texts, opts.Language, opts.Format),
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", aerrors.GenerationError("merge summaries into commit message", err)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", aerrors.GenerationError("model returned an empty commit message", nil)
	}

	if opts.Format == "conventional" {
		message = EnsureConventional(message, opts.Language)
	}
	return message, nil
}

// reduce shrinks the summary set until the merge prompt fits the
// model's effective budget. Each level combines BatchSize summaries
// into one, so the unit count strictly decreases.
func (m *Merger) reduce(ctx context.Context, texts []string, opts MergeOptions) ([]string, error) {
	limit := m.budget.EffectiveLimit(opts.Model)

	for depth := 0; depth < opts.MaxDepth; depth++ {
		if m.budget.Estimate(mergePrompt(texts, opts.Language, opts.Format)) <= limit {
			return texts, nil
		}
		if len(texts) == 1 {
			break
		}

		m.log.Info("summary set over budget, reducing",
			observability.Int("summaries", len(texts)),
			observability.Int("depth", depth))

		var next []string
		for start := 0; start < len(texts); start += opts.BatchSize {
			end := start + opts.BatchSize
			if end > len(texts) {
				end = len(texts)
			}
			batch := texts[start:end]
			if len(batch) == 1 {
				next = append(next, batch[0])
				continue
			}
			combined, err := m.client.Generate(ctx, llm.Request{
				Model:       opts.Model,
				System:      batchSystemPrompt,
				Prompt:      batchPrompt(batch, opts.Language),
				Temperature: opts.Temperature,
			})
			if err != nil {
				// Keep reducing without the model rather than failing
				// the whole run: joining still shrinks the unit count.
				m.log.Warn("batch reduction call failed, joining locally", observability.Err(err))
				combined = strings.Join(batch, " ")
			}
			next = append(next, strings.TrimSpace(combined))
		}
		texts = next
	}

	// Depth exhausted or a single summary is still over budget:
	// truncate instead of recursing further.
	joined := strings.Join(texts, "\n")
	if m.budget.Estimate(joined) > limit {
		m.log.Warn("summaries still over budget after reduction, truncating",
			observability.Int("limit", limit))
		joined = truncateToBudget(joined, limit, m.budget)
	}
	return []string{joined}, nil
}

// truncateToBudget cuts text so its estimate fits the limit.
func truncateToBudget(text string, limit int, budget Budgeter) string {
	for budget.Estimate(text) > limit && len(text) > 0 {
		cut := len(text) / 2
		if budget.Estimate(text[:cut]) <= limit {
			// Binary refinement is overkill; halving converges fast
			// and the tail is the least important part.
			return text[:cut]
		}
		text = text[:cut]
	}
	return text
}

// allFailedError enumerates every chunk failure.
func allFailedError(failures []Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "all %d chunks failed to summarize:", len(failures))
	for _, f := range failures {
		name := f.FilePath
		if name == "" {
			name = fmt.Sprintf("chunk %d", f.ChunkIndex)
		}
		fmt.Fprintf(&b, "\n  - %s: %s", name, f.Err)
	}
	return aerrors.GenerationError(b.String(), nil)
}
