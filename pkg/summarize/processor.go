package summarize

import (
	"context"
	"sort"
	"sync"
	"time"

	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/llm"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/observability"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/queue"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/retry"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/split"
)

// Summary is the result of summarizing one chunk. Exactly one Summary
// exists per chunk, success or failure.
type Summary struct {
	FilePath   string
	Text       string
	ChunkIndex int
	OK         bool
	Err        string
}

// ProcessConfig controls the map stage.
type ProcessConfig struct {
	Model       string
	Language    string
	Temperature float64
	Priority    int
	MaxAttempts int           // retry attempts per chunk; default 3
	BaseDelay   time.Duration // backoff base; default 1s
}

func (c *ProcessConfig) defaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
}

// Processor summarizes chunks concurrently through a bounded queue.
type Processor struct {
	client  llm.Client
	queue   *queue.Queue
	log     observability.Logger
	metrics *observability.Metrics
}

// NewProcessor creates a processor. log and metrics may be nil.
func NewProcessor(client llm.Client, q *queue.Queue, log observability.Logger, metrics *observability.Metrics) *Processor {
	if log == nil {
		log = observability.Nop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Processor{client: client, queue: q, log: log, metrics: metrics}
}

// retryTransient retries rate-limit, server and timeout classes and
// refuses auth and not-found classes.
func retryTransient(err error, _ int) bool {
	return aerrors.IsRetryable(aerrors.Classify(err))
}

// Process summarizes every chunk and waits for all of them to settle.
// One chunk exhausting its retries does not cancel siblings. The
// returned slice is ordered by ChunkIndex regardless of completion
// order.
func (p *Processor) Process(ctx context.Context, chunks []split.Chunk, cfg ProcessConfig) []Summary {
	cfg.defaults()

	results := make([]Summary, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		i, chunk := i, chunk
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.processOne(ctx, chunk, cfg)
		}()
	}
	wg.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].ChunkIndex < results[b].ChunkIndex
	})
	return results
}

func (p *Processor) processOne(ctx context.Context, chunk split.Chunk, cfg ProcessConfig) Summary {
	prompt := chunkPrompt(chunk, cfg.Language)

	var text string
	err := p.queue.Do(ctx, cfg.Priority, func(ctx context.Context) error {
		var callErr error
		text, callErr = retry.Do(ctx, func(ctx context.Context) (string, error) {
			p.metrics.ClientCall()
			out, err := p.client.Generate(ctx, llm.Request{
				Model:       cfg.Model,
				System:      chunkSystemPrompt,
				Prompt:      prompt,
				Temperature: cfg.Temperature,
			})
			if err != nil {
				p.metrics.Retry()
				return "", err
			}
			return out, nil
		}, cfg.MaxAttempts, cfg.BaseDelay, retryTransient)
		return callErr
	})

	if err != nil {
		p.metrics.ChunkFailed()
		p.log.Warn("chunk summarization failed",
			observability.String("file", chunk.FilePath),
			observability.Int("chunk", chunk.ChunkIndex),
			observability.Err(err))
		return Summary{
			FilePath:   chunk.FilePath,
			ChunkIndex: chunk.ChunkIndex,
			OK:         false,
			Err:        err.Error(),
		}
	}

	p.metrics.ChunkProcessed()
	return Summary{
		FilePath:   chunk.FilePath,
		Text:       text,
		ChunkIndex: chunk.ChunkIndex,
		OK:         true,
	}
}
