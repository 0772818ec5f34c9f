package gonja

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nikolalohinski/gonja/v2/loaders"
)

// fileLoader resolves template identifiers as file paths relative to a base
// directory, reading each one with no caching: every render re-reads the
// source, so nothing is ever considered fresh.
type fileLoader struct {
	root string
}

var _ loaders.Loader = (*fileLoader)(nil)

func newFileLoader(root string) *fileLoader {
	if root == "" {
		root = "."
	}
	return &fileLoader{root: root}
}

func (l *fileLoader) Read(path string) (io.Reader, error) {
	resolved, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("gonja: read template %q: %w", path, err)
	}
	return bytes.NewReader(data), nil
}

func (l *fileLoader) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(l.root, path), nil
}

func (l *fileLoader) Inherit(string) (loaders.Loader, error) {
	return l, nil
}
