// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package cache stores model responses keyed by their inputs, so
// regenerating a message for unchanged staged content skips the
// provider round trip.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is the storage interface shared by the memory and disk
// backends.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Entry is a stored value with its expiry.
type Entry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Key derives a cache key from the model and the exact prompt inputs.
// Any change to the staged diff, the model, or the prompt text yields
// a different key.
func Key(model string, inputs ...string) string {
	h := sha256.New()
	h.Write([]byte(model))
	for _, in := range inputs {
		h.Write([]byte{0}) // separator so ("ab","c") != ("a","bc")
		h.Write([]byte(in))
	}
	return hex.EncodeToString(h.Sum(nil))
}
