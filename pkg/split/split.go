// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package split partitions oversized unified diffs into token-bounded
// chunks. Three strategies escalate only as needed: per-file, per-hunk
// for files still over budget, then token-bounded line groups for
// oversized hunks.
package split

import (
	"regexp"
	"strings"

	"github.com/want2sleeep/AIGitCommit-sub000/pkg/observability"
)

// Level records which strategy produced a chunk.
type Level string

const (
	LevelFile Level = "file"
	LevelHunk Level = "hunk"
	LevelLine Level = "line"
)

// Chunk is a token-bounded fragment of a diff. ChunkIndex is a stable
// monotonically increasing ordinal; sorting chunks by it restores the
// original file/hunk/line order.
type Chunk struct {
	FilePath   string
	Content    string
	ChunkIndex int
	Level      Level
}

// Estimator approximates token cost of text.
type Estimator interface {
	Estimate(text string) int
}

// Splitter splits diffs against a token budget.
type Splitter struct {
	est Estimator
	log observability.Logger
}

// New creates a splitter. log may be nil.
func New(est Estimator, log observability.Logger) *Splitter {
	if log == nil {
		log = observability.Nop()
	}
	return &Splitter{est: est, log: log}
}

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+\d+(?:,\d+)? @@`)

// Split partitions diff into chunks whose estimated cost is at most
// maxTokens each. The only chunks allowed over budget are single
// indivisible lines, which are kept and logged. An empty diff yields
// no chunks.
func (s *Splitter) Split(diff string, maxTokens int) []Chunk {
	if strings.TrimSpace(diff) == "" {
		return nil
	}

	var chunks []Chunk
	index := 0
	for _, sec := range splitByFiles(diff) {
		if s.est.Estimate(sec.content) <= maxTokens {
			chunks = append(chunks, Chunk{
				FilePath:   sec.path,
				Content:    sec.content,
				ChunkIndex: index,
				Level:      LevelFile,
			})
			index++
			continue
		}
		for _, hunk := range splitByHunks(sec.content) {
			if s.est.Estimate(hunk) <= maxTokens {
				chunks = append(chunks, Chunk{
					FilePath:   sec.path,
					Content:    hunk,
					ChunkIndex: index,
					Level:      LevelHunk,
				})
				index++
				continue
			}
			for _, group := range s.splitByLines(sec.path, hunk, maxTokens) {
				chunks = append(chunks, Chunk{
					FilePath:   sec.path,
					Content:    group,
					ChunkIndex: index,
					Level:      LevelLine,
				})
				index++
			}
		}
	}
	return chunks
}

// fileSection is one file's portion of a multi-file diff.
type fileSection struct {
	path    string
	content string
}

// splitByFiles partitions a diff on "diff --git " boundaries. Input
// that carries no git file headers is treated as one section with an
// empty path.
func splitByFiles(diff string) []fileSection {
	const prefix = "diff --git "

	var sections []fileSection
	lines := strings.SplitAfter(diff, "\n")
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		content := cur.String()
		sections = append(sections, fileSection{path: parseFilePath(content), content: content})
		cur.Reset()
	}

	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return sections
}

// parseFilePath extracts the post-image path from a file section,
// falling back to the pre-image path for deletions.
func parseFilePath(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			// "diff --git a/old b/new"
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				return strings.TrimPrefix(fields[3], "b/")
			}
		}
		if strings.HasPrefix(line, "+++ ") {
			p := strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
			if p != "/dev/null" {
				return strings.TrimPrefix(p, "b/")
			}
		}
		if strings.HasPrefix(line, "--- ") {
			p := strings.TrimSpace(strings.TrimPrefix(line, "--- "))
			if p != "/dev/null" {
				return strings.TrimPrefix(p, "a/")
			}
		}
	}
	return ""
}

// splitByHunks partitions one file's diff into per-hunk pieces. The
// file header (everything before the first hunk) stays attached to the
// first piece so concatenating the pieces reproduces the section.
func splitByHunks(section string) []string {
	lines := strings.SplitAfter(section, "\n")

	var pieces []string
	var cur strings.Builder
	seenHunk := false
	for _, line := range lines {
		if hunkHeaderRegex.MatchString(line) && seenHunk {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
		if hunkHeaderRegex.MatchString(line) {
			seenHunk = true
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

// splitByLines greedily groups lines so each group fits the budget. A
// single line over budget is emitted alone; it cannot be divided
// further.
func (s *Splitter) splitByLines(path, content string, maxTokens int) []string {
	lines := strings.SplitAfter(content, "\n")

	var groups []string
	var cur strings.Builder
	curTokens := 0
	for _, line := range lines {
		if line == "" {
			continue
		}
		lineTokens := s.est.Estimate(line)
		if lineTokens > maxTokens && cur.Len() == 0 {
			s.log.Warn("indivisible diff line exceeds token budget",
				observability.String("file", path),
				observability.Int("tokens", lineTokens),
				observability.Int("budget", maxTokens))
			groups = append(groups, line)
			continue
		}
		if curTokens+lineTokens > maxTokens && cur.Len() > 0 {
			groups = append(groups, cur.String())
			cur.Reset()
			curTokens = 0
			if lineTokens > maxTokens {
				s.log.Warn("indivisible diff line exceeds token budget",
					observability.String("file", path),
					observability.Int("tokens", lineTokens),
					observability.Int("budget", maxTokens))
				groups = append(groups, line)
				continue
			}
		}
		cur.WriteString(line)
		curTokens += lineTokens
	}
	if cur.Len() > 0 {
		groups = append(groups, cur.String())
	}
	return groups
}
