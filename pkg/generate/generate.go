// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package generate orchestrates a full run: collect staged changes,
// filter to core files, pick the direct or map-reduce path by token
// budget, and produce the final commit message.
package generate

import (
	"context"
	"strings"
	"time"

	"github.com/want2sleeep/AIGitCommit-sub000/pkg/cache"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/changes"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/config"
	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/filter"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/history"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/llm"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/model"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/observability"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/queue"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/retry"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/split"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/summarize"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/token"
)

// Source supplies the staged changeset.
type Source interface {
	Staged(ctx context.Context) ([]changes.ChangeRecord, error)
}

// Progress reports pipeline stages to the caller. detail is free-form
// and safe to print.
type Progress func(stage, detail string)

// Result describes one completed run.
type Result struct {
	RunID        string
	Message      string
	MapModel     string
	Chunks       int
	FailedChunks int
	Cached       bool
	FilterStats  filter.Stats
	Duration     time.Duration
}

// Deps are the collaborators a Generator needs. Source and Client are
// required; the rest may be nil.
type Deps struct {
	Source  Source
	Client  llm.Client
	Cache   cache.Cache
	History *history.Store
	Log     observability.Logger
	Metrics *observability.Metrics
}

// Generator runs the pipeline.
type Generator struct {
	cfg      *config.Config
	source   Source
	client   llm.Client
	filter   *filter.Filter
	est      *token.Estimator
	splitter *split.Splitter
	selector *model.Selector
	queue    *queue.Queue
	cache    cache.Cache
	history  *history.Store
	log      observability.Logger
	metrics  *observability.Metrics
}

// New wires a Generator from configuration.
func New(cfg *config.Config, deps Deps) (*Generator, error) {
	if deps.Source == nil {
		return nil, aerrors.ValidationError("generate: a change source is required", nil)
	}
	if deps.Client == nil {
		return nil, aerrors.ValidationError("generate: an llm client is required", nil)
	}
	if deps.Log == nil {
		deps.Log = observability.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics()
	}

	q, err := queue.New(cfg.Generate.Concurrency)
	if err != nil {
		return nil, err
	}

	est := token.NewEstimator(
		token.WithMethod(token.Method(cfg.Tokens.Method)),
		token.WithSafetyMargin(cfg.Tokens.SafetyMargin),
	)

	g := &Generator{
		cfg:      cfg,
		source:   deps.Source,
		client:   deps.Client,
		est:      est,
		splitter: split.New(est, deps.Log),
		selector: model.NewSelector(nil),
		queue:    q,
		cache:    deps.Cache,
		history:  deps.History,
		log:      deps.Log,
		metrics:  deps.Metrics,
	}
	if cfg.Filter.Enabled {
		g.filter = filter.New(deps.Client, deps.Log, filter.Options{
			SkipThreshold: cfg.Filter.SkipThreshold,
		})
	}
	return g, nil
}

// Run executes the pipeline once. progress may be nil.
func (g *Generator) Run(ctx context.Context, progress Progress) (*Result, error) {
	start := time.Now()
	report := func(stage, detail string) {
		if progress != nil {
			progress(stage, detail)
		}
	}

	report("collect", "reading staged changes")
	records, err := g.source.Staged(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, aerrors.ValidationError("no staged changes to describe", nil)
	}

	res := &Result{}
	if g.filter != nil {
		report("filter", "selecting core files")
		var stats filter.Stats
		records, stats = g.filter.Apply(ctx, records, g.cfg.Provider.Model)
		res.FilterStats = stats
		g.metrics.FilesFiltered(stats.Ignored)
	}

	diff := changes.CombinedDiff(records)
	primary := g.cfg.Provider.Model

	report("estimate", "measuring diff against model budget")
	if !g.est.NeedsSplit(diff, primary) {
		msg, cached, err := g.direct(ctx, diff, primary, report)
		if err != nil {
			return nil, err
		}
		res.Message = msg
		res.Cached = cached
		res.MapModel = primary
		res.Chunks = 1
	} else {
		if err := g.mapReduce(ctx, diff, primary, res, report); err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	g.record(records, res)
	report("done", res.Message)
	return res, nil
}

// direct handles diffs that fit in one request, consulting the
// response cache first.
func (g *Generator) direct(ctx context.Context, diff, modelName string, report func(stage, detail string)) (string, bool, error) {
	gen := g.cfg.Generate
	key := cache.Key(modelName, diff, gen.Language, gen.Format)

	if g.cache != nil {
		if v, err := g.cache.Get(ctx, key); err == nil {
			g.log.Debug("cache hit", observability.String("key", key))
			return string(v), true, nil
		}
	}

	report("generate", "requesting commit message")
	system, prompt := summarize.DirectPrompts(diff, gen.Language, gen.Format)
	msg, err := retry.Do(ctx, func(ctx context.Context) (string, error) {
		g.metrics.ClientCall()
		return g.client.Generate(ctx, llm.Request{
			Model:       modelName,
			System:      system,
			Prompt:      prompt,
			Temperature: gen.Temperature,
		})
	}, gen.MaxAttempts, gen.BaseDelay, transient)
	if err != nil {
		return "", false, aerrors.GenerationError("generate commit message", err)
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", false, aerrors.GenerationError("model returned an empty commit message", nil)
	}
	if gen.Format == "conventional" {
		msg = summarize.EnsureConventional(msg, gen.Language)
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, []byte(msg), g.cfg.Cache.TTL); err != nil {
			g.log.Warn("cache write failed", observability.Err(err))
		}
	}
	return msg, false, nil
}

// mapReduce handles diffs over budget: split, summarize each chunk
// through the bounded queue, then merge.
func (g *Generator) mapReduce(ctx context.Context, diff, primary string, res *Result, report func(stage, detail string)) error {
	gen := g.cfg.Generate

	mapModel := g.selector.SelectAndValidateMapModel(model.Config{
		Provider:   g.cfg.Provider.Name,
		ModelName:  primary,
		ChunkModel: g.cfg.Provider.ChunkModel,
	})
	res.MapModel = mapModel

	report("split", "splitting diff into chunks")
	chunks := g.splitter.Split(diff, g.est.EffectiveLimit(mapModel))
	res.Chunks = len(chunks)
	g.log.Info("diff split",
		observability.Int("chunks", len(chunks)),
		observability.String("map_model", mapModel))

	report("map", "summarizing chunks")
	processor := summarize.NewProcessor(g.client, g.queue, g.log, g.metrics)
	summaries := processor.Process(ctx, chunks, summarize.ProcessConfig{
		Model:       mapModel,
		Language:    gen.Language,
		Temperature: gen.Temperature,
		MaxAttempts: gen.MaxAttempts,
		BaseDelay:   gen.BaseDelay,
	})
	for _, s := range summaries {
		if !s.OK {
			res.FailedChunks++
		}
	}

	report("reduce", "merging summaries")
	merger := summarize.NewMerger(g.client, g.est, g.log)
	msg, err := merger.Merge(ctx, summaries, summarize.MergeOptions{
		Model:       primary,
		Language:    gen.Language,
		Format:      gen.Format,
		Temperature: gen.Temperature,
		BatchSize:   gen.BatchSize,
	})
	if err != nil {
		return err
	}
	res.Message = msg
	return nil
}

// record appends the run to history. History failures never fail the
// run itself.
func (g *Generator) record(records []changes.ChangeRecord, res *Result) {
	if g.history == nil {
		return
	}
	id, err := g.history.Append(history.Entry{
		Provider:     g.cfg.Provider.Name,
		Model:        g.cfg.Provider.Model,
		Message:      res.Message,
		Files:        changes.Paths(records),
		Chunks:       res.Chunks,
		FailedChunks: res.FailedChunks,
		Duration:     res.Duration.Seconds(),
	})
	if err != nil {
		g.log.Warn("history write failed", observability.Err(err))
		return
	}
	res.RunID = id
}

// transient is the retry predicate for provider calls.
func transient(err error, _ int) bool {
	return aerrors.IsRetryable(aerrors.Classify(err))
}
