// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package history records past generation runs as JSON lines so users
// can inspect or reuse earlier commit messages.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	aerrors "github.com/want2sleeep/AIGitCommit-sub000/pkg/errors"
)

// Entry is one recorded generation run.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Message      string    `json:"message"`
	Files        []string  `json:"files,omitempty"`
	Chunks       int       `json:"chunks,omitempty"`
	FailedChunks int       `json:"failed_chunks,omitempty"`
	Duration     float64   `json:"duration_seconds,omitempty"`
}

// Store appends and reads entries from a JSON-lines file.
type Store struct {
	path string
	keep int
}

// NewStore uses the given file, or the default user location when path
// is empty. keep bounds how many entries rotation retains; values
// below 1 fall back to 100.
func NewStore(path string, keep int) (*Store, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, aerrors.ConfigError("cannot resolve user config directory", err)
		}
		path = filepath.Join(base, "aigc", "history.jsonl")
	}
	if keep < 1 {
		keep = 100
	}
	return &Store{path: path, keep: keep}, nil
}

// Path returns the history file location.
func (s *Store) Path() string { return s.path }

// Append records an entry, assigning an id and timestamp when unset,
// and rotates the file past the retention bound. The assigned id is
// returned.
func (s *Store) Append(e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return "", aerrors.ConfigError("cannot create history directory", err)
	}

	line, err := json.Marshal(e)
	if err != nil {
		return "", aerrors.ConfigError("cannot encode history entry", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", aerrors.ConfigError("cannot open history file", err)
	}
	_, werr := f.Write(append(line, '\n'))
	cerr := f.Close()
	if werr != nil {
		return "", aerrors.ConfigError("cannot write history entry", werr)
	}
	if cerr != nil {
		return "", aerrors.ConfigError("cannot write history entry", cerr)
	}

	if err := s.rotate(); err != nil {
		return "", err
	}
	return e.ID, nil
}

// Recent returns up to n entries, newest first. Corrupt lines are
// skipped rather than failing the whole read.
func (s *Store) Recent(n int) ([]Entry, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	// Stored oldest-first; reverse into newest-first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (*Entry, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, aerrors.NotFoundError(fmt.Sprintf("history entry %q does not exist", id), nil)
}

// Clear removes the history file.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return aerrors.ConfigError("cannot clear history", err)
	}
	return nil
}

func (s *Store) readAll() ([]Entry, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, aerrors.ConfigError("cannot open history file", err)
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, aerrors.ConfigError("cannot read history file", err)
	}
	return out, nil
}

// rotate rewrites the file keeping only the newest entries.
func (s *Store) rotate() error {
	all, err := s.readAll()
	if err != nil {
		return err
	}
	if len(all) <= s.keep {
		return nil
	}
	all = all[len(all)-s.keep:]

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return aerrors.ConfigError("cannot rotate history file", err)
	}
	w := bufio.NewWriter(f)
	for _, e := range all {
		line, err := json.Marshal(e)
		if err != nil {
			f.Close()
			return aerrors.ConfigError("cannot encode history entry", err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return aerrors.ConfigError("cannot rotate history file", err)
	}
	if err := f.Close(); err != nil {
		return aerrors.ConfigError("cannot rotate history file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return aerrors.ConfigError("cannot rotate history file", err)
	}
	return nil
}
