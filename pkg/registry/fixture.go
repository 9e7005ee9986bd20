package registry

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/matzehuels/depwalk/pkg/errors"
)

// FixtureSource serves metadata from a local JSON document mapping package
// name to that package's metadata document. The file is read and parsed
// once, on first use; entries are decoded per fetch.
type FixtureSource struct {
	path string

	once    sync.Once
	entries map[string]json.RawMessage
	err     error
}

// NewFixtureSource creates an offline source backed by the document at path.
func NewFixtureSource(path string) *FixtureSource {
	return &FixtureSource{path: path}
}

// Path returns the fixture document path.
func (s *FixtureSource) Path() string { return s.path }

// Fetch implements [Source].
func (s *FixtureSource) Fetch(ctx context.Context, ref PackageRef) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.once.Do(func() { s.entries, s.err = ReadFixture(s.path) })
	if s.err != nil {
		return nil, s.err
	}

	name := strings.TrimSpace(ref.Name)
	raw, ok := s.entries[name]
	if !ok {
		return nil, errors.NotFoundError("package %s not in fixture %s", name, s.path)
	}
	return DecodeMetadata(name, raw)
}

// ReadFixture reads a fixture document into its raw per-package entries.
// An unreadable file is a not-found error; a document that is not a JSON
// object is malformed.
func ReadFixture(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read fixture %s", path)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.MalformedMetadataError(err, "parse fixture %s", path)
	}
	if entries == nil {
		return nil, errors.MalformedMetadataError(nil, "fixture %s is not an object", path)
	}
	return entries, nil
}
