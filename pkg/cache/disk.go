// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskCache stores one JSON file per entry under a directory, so
// cached responses survive across runs.
type DiskCache struct {
	dir string
}

// NewDiskCache uses the given directory, creating it lazily on the
// first Set.
func NewDiskCache(dir string) *DiskCache {
	return &DiskCache{dir: dir}
}

// Get retrieves a value. Expired entries are removed and count as
// misses, as do unreadable or corrupt files.
func (d *DiskCache) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, ErrMiss
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		os.Remove(d.path(key))
		return nil, ErrMiss
	}
	if time.Now().After(entry.ExpiresAt) {
		os.Remove(d.path(key))
		return nil, ErrMiss
	}
	return entry.Value, nil
}

// Set stores a value with a ttl.
func (d *DiskCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(Entry{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(d.path(key), data, 0o644)
}

// Delete removes a value. Deleting a missing key is not an error.
func (d *DiskCache) Delete(_ context.Context, key string) error {
	err := os.Remove(d.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every cached entry.
func (d *DiskCache) Clear(_ context.Context) error {
	entries, err := os.ReadDir(d.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiskCache) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}
