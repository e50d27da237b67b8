// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package summarize drives the map-reduce phases: per-chunk
// summarization through the bounded queue, then recursive merging of
// chunk summaries into one commit message.
package summarize

import (
	"fmt"
	"strings"

	"github.com/want2sleeep/AIGitCommit-sub000/pkg/split"
)

const chunkSystemPrompt = `You summarize fragments of a unified git diff.
State what changed and why it matters in at most 3 sentences.
Mention the file when it is known. Plain text only, no markdown.`

// chunkPrompt builds the map-stage prompt for one chunk.
func chunkPrompt(c split.Chunk, language string) string {
	var b strings.Builder
	if c.FilePath != "" {
		fmt.Fprintf(&b, "File: %s\n", c.FilePath)
	}
	fmt.Fprintf(&b, "Diff fragment (%s level):\n%s\n", c.Level, c.Content)
	if language != "" && !isEnglish(language) {
		fmt.Fprintf(&b, "\nRespond in %s.", language)
	}
	return b.String()
}

const mergeSystemPrompt = `You write git commit messages from change summaries.
Output only the commit message, no other text.
Format:
- First line: short imperative summary, 72 characters or less.
- Blank line.
- Then a body describing the main changes, wrapped at 72 characters.
Do not use markdown, code blocks, or quotes.`

// mergePrompt builds the final reduce-stage prompt.
func mergePrompt(parts []string, language, format string) string {
	var b strings.Builder
	b.WriteString("Write one commit message covering all of these changes:\n\n")
	for i, p := range parts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(p))
	}
	if format == "conventional" {
		b.WriteString("\nUse the Conventional Commits format: type(scope): subject, " +
			"with type one of feat, fix, docs, style, refactor, test, chore, perf, ci, build, revert.")
	}
	if language != "" && !isEnglish(language) {
		fmt.Fprintf(&b, "\nWrite the message in %s (keep the type keyword in English).", language)
	}
	return b.String()
}

const batchSystemPrompt = `You condense change summaries.
Combine the given summaries into one concise summary that preserves
every distinct change. Plain text only.`

// batchPrompt builds the intermediate reduce prompt used when the
// summary set is still over budget.
func batchPrompt(parts []string, language string) string {
	var b strings.Builder
	b.WriteString("Combine these change summaries into one:\n\n")
	for i, p := range parts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(p))
	}
	if language != "" && !isEnglish(language) {
		fmt.Fprintf(&b, "\nRespond in %s.", language)
	}
	return b.String()
}

// DirectPrompts returns the system and user prompts for the
// single-call path, when the whole diff fits the model's budget.
func DirectPrompts(diff, language, format string) (system, prompt string) {
	var b strings.Builder
	b.WriteString("Write one commit message for this staged diff:\n\n")
	b.WriteString(diff)
	if format == "conventional" {
		b.WriteString("\nUse the Conventional Commits format: type(scope): subject, " +
			"with type one of feat, fix, docs, style, refactor, test, chore, perf, ci, build, revert.")
	}
	if language != "" && !isEnglish(language) {
		fmt.Fprintf(&b, "\nWrite the message in %s (keep the type keyword in English).", language)
	}
	return mergeSystemPrompt, b.String()
}

func isEnglish(language string) bool {
	l := strings.ToLower(strings.TrimSpace(language))
	return l == "" || l == "en" || l == "english" || strings.HasPrefix(l, "en-")
}
