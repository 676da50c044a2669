package catalog

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource reads a YAML document with a top-level "items" sequence.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: filepath.Clean(path)}
}

func (s *FileSource) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &SourceError{Source: "file", Path: s.path, Err: err}
	}

	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, &SourceError{Source: "file", Path: s.path, Err: err}
	}

	items, err := Items(doc.Items)
	if err != nil {
		return nil, &SourceError{Source: "file", Path: s.path, Err: err}
	}
	return items, nil
}
