// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package filter asks the model which changed files are core to a
// changeset and drops the rest before summarization. The filter fails
// open: any client or parse failure returns the original list
// untouched, so filtering can never block or corrupt the pipeline.
package filter

import (
	"context"
	"strings"

	"github.com/want2sleeep/AIGitCommit-sub000/pkg/changes"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/llm"
	"github.com/want2sleeep/AIGitCommit-sub000/pkg/observability"
)

// Status reports what the filter did.
type Status string

const (
	// StatusApplied means the model's core-file list was used.
	StatusApplied Status = "applied"
	// StatusSkipped means the changeset was too small to filter.
	StatusSkipped Status = "skipped"
	// StatusFailedOpen means the call or parse failed and the original
	// list was kept.
	StatusFailedOpen Status = "failed-open"
)

// Stats is always emitted, whatever the outcome.
type Stats struct {
	Status  Status
	Reason  string
	Total   int
	Core    int
	Ignored int
}

// Options tunes the filter. Zero values take the defaults.
type Options struct {
	// SkipThreshold skips filtering for changesets at or below this
	// file count. The boundary is a policy choice, so it is a
	// parameter rather than a constant.
	SkipThreshold int
	// Model used for the filter call; empty falls back to the request
	// default supplied per call.
	Model string
}

// DefaultSkipThreshold: nothing to gain filtering one or two files.
const DefaultSkipThreshold = 2

// Filter pre-filters change records through the client.
type Filter struct {
	client llm.Client
	log    observability.Logger
	opts   Options
}

// New creates a filter. log may be nil.
func New(client llm.Client, log observability.Logger, opts Options) *Filter {
	if log == nil {
		log = observability.Nop()
	}
	if opts.SkipThreshold <= 0 {
		opts.SkipThreshold = DefaultSkipThreshold
	}
	return &Filter{client: client, log: log, opts: opts}
}

const systemPrompt = `You identify which changed files are core to a commit.
Core files carry the substantive change; generated files, lock files,
formatting-only edits and build artifacts are not core.
Respond with ONLY a JSON array of file paths, e.g. ["src/a.go","src/b.go"].
No explanation, no markdown.`

// Apply returns the records considered core plus statistics. model is
// the fallback model when Options.Model is empty.
func (f *Filter) Apply(ctx context.Context, records []changes.ChangeRecord, model string) ([]changes.ChangeRecord, Stats) {
	total := len(records)

	if total <= f.opts.SkipThreshold {
		stats := Stats{
			Status: StatusSkipped,
			Reason: "changeset at or below skip threshold",
			Total:  total,
			Core:   total,
		}
		f.log.Debug("file filter skipped", observability.Int("files", total))
		return records, stats
	}

	if f.opts.Model != "" {
		model = f.opts.Model
	}

	reply, err := f.client.Generate(ctx, llm.Request{
		Model:  model,
		System: systemPrompt,
		Prompt: buildPrompt(records),
	})
	if err != nil {
		return f.failOpen(records, "filter call failed: "+err.Error())
	}

	paths, err := parsePathArray(reply)
	if err != nil {
		return f.failOpen(records, "filter response unusable: "+err.Error())
	}

	core := selectByPath(records, paths)
	if len(core) == 0 {
		// A filter that drops everything is indistinguishable from a
		// broken one.
		return f.failOpen(records, "filter returned no known paths")
	}

	stats := Stats{
		Status:  StatusApplied,
		Total:   total,
		Core:    len(core),
		Ignored: total - len(core),
	}
	f.log.Info("file filter applied",
		observability.Int("total", stats.Total),
		observability.Int("core", stats.Core),
		observability.Int("ignored", stats.Ignored))
	return core, stats
}

func (f *Filter) failOpen(records []changes.ChangeRecord, reason string) ([]changes.ChangeRecord, Stats) {
	f.log.Warn("file filter failed open", observability.String("reason", reason))
	return records, Stats{
		Status: StatusFailedOpen,
		Reason: reason,
		Total:  len(records),
		Core:   len(records),
	}
}

func buildPrompt(records []changes.ChangeRecord) string {
	var b strings.Builder
	b.WriteString("Changed files:\n")
	for _, r := range records {
		b.WriteString("- ")
		b.WriteString(r.Path)
		b.WriteString(" (")
		b.WriteString(string(r.Status))
		b.WriteString(")\n")
	}
	b.WriteString("\nReturn the JSON array of core file paths.")
	return b.String()
}

// selectByPath keeps records whose path the model named, preserving
// the original order.
func selectByPath(records []changes.ChangeRecord, paths []string) []changes.ChangeRecord {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[strings.TrimSpace(p)] = true
	}
	var out []changes.ChangeRecord
	for _, r := range records {
		if want[r.Path] {
			out = append(out, r)
		}
	}
	return out
}
