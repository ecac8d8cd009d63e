package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource reads settings from a flat YAML map, re-reading the file on
// every lookup:
//
//	moderation.strikes_to_block: 3
//	moderation.minimum_contact_score: 8
//
// A missing file behaves like an empty one.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Lookup implements Source.
func (s *FileSource) Lookup(_ context.Context, key string) (string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("config: read %s: %w", s.path, err)
	}

	var values map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return "", fmt.Errorf("config: parse %s: %w", s.path, err)
	}

	node, ok := values[key]
	if !ok || node.Kind != yaml.ScalarNode {
		return "", ErrNotFound
	}
	return node.Value, nil
}
