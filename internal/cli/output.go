package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/depwalk/pkg/graph"
	pkgio "github.com/matzehuels/depwalk/pkg/io"
	"github.com/matzehuels/depwalk/pkg/render"
	"github.com/matzehuels/depwalk/pkg/render/nodelink"
)

// outputOpts controls how a graph is written to disk.
type outputOpts struct {
	path     string
	format   render.Format // derived from path when empty
	detailed bool          // show declarations in node labels
}

// encodeGraph serializes g in the requested format.
func encodeGraph(ctx context.Context, g *graph.Graph, format render.Format, detailed bool) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		var buf bytes.Buffer
		if err := pkgio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})), nil
	default:
		return nodelink.Render(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}), format)
	}
}

// writeOutput encodes g and writes it to opts.path, creating parent
// directories as needed.
func writeOutput(ctx context.Context, g *graph.Graph, opts outputOpts) error {
	format := opts.format
	if format == "" {
		f, err := render.FormatFromPath(opts.path)
		if err != nil {
			return err
		}
		format = f
	}

	data, err := encodeGraph(ctx, g, format, opts.detailed)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(opts.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.path, err)
	}
	return nil
}
