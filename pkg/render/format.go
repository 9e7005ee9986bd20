package render

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/depwalk/pkg/errors"
)

// Format is an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatJPG}

var aliases = map[string]Format{
	"gv":   FormatDOT,
	"jpeg": FormatJPG,
}

// IsImage reports whether the format is rendered by Graphviz.
func (f Format) IsImage() bool {
	return f == FormatSVG || f == FormatPNG || f == FormatJPG
}

// ParseFormat parses a format name such as "svg" or ".png".
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	if f := Format(name); slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (supported: %v)", s, Formats)
}

// FormatFromPath returns the format implied by path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "output file %q has no extension", path)
	}
	return ParseFormat(ext)
}
