// Package config provides the moderation configuration provider. Values are
// looked up on every read so that administrator edits are visible to the
// next classification without a restart.
package config

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
)

// ErrNotFound is returned by a Source that has no value for a key.
var ErrNotFound = errors.New("config: key not found")

// Source looks up a raw configuration value.
type Source interface {
	Lookup(ctx context.Context, key string) (string, error)
}

// Reader resolves typed values from a Source, falling back to the caller's
// default when a key is missing or invalid. It never fails.
type Reader struct {
	source Source
}

// NewReader creates a Reader over source.
func NewReader(source Source) *Reader {
	return &Reader{source: source}
}

// Int returns the integer stored under key, or def.
func (r *Reader) Int(ctx context.Context, key string, def int) int {
	raw, ok := r.lookup(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] invalid integer for %s=%q, using default %d", key, raw, def)
		return def
	}
	return n
}

// Bool returns the boolean stored under key, or def.
func (r *Reader) Bool(ctx context.Context, key string, def bool) bool {
	raw, ok := r.lookup(ctx, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("[config] invalid boolean for %s=%q, using default %v", key, raw, def)
		return def
	}
	return b
}

func (r *Reader) lookup(ctx context.Context, key string) (string, bool) {
	if r == nil || r.source == nil {
		return "", false
	}
	raw, err := r.source.Lookup(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		log.Printf("[config] lookup %s failed, using default: %v", key, err)
		return "", false
	}
	return strings.TrimSpace(raw), true
}

// MapSource is a static Source, mainly for tests and local runs.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Chain tries each Source in order and returns the first value found.
// Errors other than ErrNotFound are logged and the next source is tried.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(ctx context.Context, key string) (string, error) {
	for _, s := range c {
		v, err := s.Lookup(ctx, key)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNotFound) {
			log.Printf("[config] source %T lookup %s: %v", s, key, err)
		}
	}
	return "", ErrNotFound
}
