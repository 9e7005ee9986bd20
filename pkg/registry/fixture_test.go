package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/depwalk/pkg/errors"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repo.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFixtureSourceFetch(t *testing.T) {
	path := writeFixture(t, `{
		"root": {"dependencies": {"a": "^1.0"}},
		"a": {"dependencies": {"b": "^2.0"}},
		"b": {"dependencies": {}},
		"broken": [1, 2, 3]
	}`)
	src := NewFixtureSource(path)
	ctx := context.Background()

	res := Do(ctx, src, PackageRef{Name: "a"})
	if res.Outcome() != OutcomeOK {
		t.Fatalf("Outcome() = %v, err = %v", res.Outcome(), res.Err)
	}
	if got := res.Record.Dependencies; len(got) != 1 || got[0].Name != "b" || got[0].Range != "^2.0" {
		t.Errorf("dependencies = %v", got)
	}

	if res := Do(ctx, src, PackageRef{Name: "missing"}); res.Outcome() != OutcomeNotFound {
		t.Errorf("missing: Outcome() = %v, want not found", res.Outcome())
	}
	if res := Do(ctx, src, PackageRef{Name: "broken"}); res.Outcome() != OutcomeMalformed {
		t.Errorf("broken: Outcome() = %v, want malformed", res.Outcome())
	}
}

func TestFixtureSourceReadsOnce(t *testing.T) {
	path := writeFixture(t, `{"root": {"version": "1.0.0"}}`)
	src := NewFixtureSource(path)
	ctx := context.Background()

	if _, err := src.Fetch(ctx, PackageRef{Name: "root"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Fetch(ctx, PackageRef{Name: "root"}); err != nil {
		t.Errorf("second Fetch after removal: %v (document should be read once)", err)
	}
}

func TestFixtureSourceDocumentErrors(t *testing.T) {
	ctx := context.Background()

	missing := NewFixtureSource(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := missing.Fetch(ctx, PackageRef{Name: "root"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: err = %v, want PACKAGE_NOT_FOUND", err)
	}

	for _, content := range []string{`{not json`, `[]`, `null`} {
		src := NewFixtureSource(writeFixture(t, content))
		if _, err := src.Fetch(ctx, PackageRef{Name: "root"}); !errors.Is(err, errors.ErrCodeMalformedMetadata) {
			t.Errorf("%s: err = %v, want MALFORMED_METADATA", content, err)
		}
	}
}

func TestFixtureSourceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewFixtureSource(writeFixture(t, `{"root": {}}`))
	if _, err := src.Fetch(ctx, PackageRef{Name: "root"}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
