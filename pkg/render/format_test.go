package render

import (
	"testing"

	"github.com/matzehuels/depwalk/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"dependency_graph.png", FormatPNG, false},
		{"out/graph.SVG", FormatSVG, false},
		{"graph.gv", FormatDOT, false},
		{"graph.dot", FormatDOT, false},
		{"photo.jpeg", FormatJPG, false},
		{"deps.json", FormatJSON, false},
		{"graph.pdf", "", true},
		{"graph", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) code = %v", tt.path, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsImage(t *testing.T) {
	for f, want := range map[Format]bool{FormatSVG: true, FormatPNG: true, FormatJPG: true, FormatDOT: false, FormatJSON: false} {
		if got := f.IsImage(); got != want {
			t.Errorf("%s.IsImage() = %v, want %v", f, got, want)
		}
	}
}
