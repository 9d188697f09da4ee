// Package chartstore keeps chart specs addressable by opaque handle.
package chartstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrNotFound = errors.New("chart not found")

// Handles are UUIDs; anything else is rejected before touching storage.
var handlePattern = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)

func ValidHandle(handle string) bool {
	return handlePattern.MatchString(handle)
}

func publicURL(base, handle string) string {
	return strings.TrimRight(base, "/") + "/" + handle
}

// LocalStore writes one JSON file per chart.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) path(handle string) (string, error) {
	if !ValidHandle(handle) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, handle+".json"), nil
}

func (s *LocalStore) Put(_ context.Context, handle string, spec []byte) error {
	p, err := s.path(handle)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, spec, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *LocalStore) Get(_ context.Context, handle string) ([]byte, error) {
	p, err := s.path(handle)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *LocalStore) URL(handle string) string {
	return publicURL(s.baseURL, handle)
}
