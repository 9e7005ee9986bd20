package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/depwalk/pkg/io"
	"github.com/matzehuels/depwalk/pkg/render"
)

// renderCommand creates the render command, which converts an exported JSON
// graph to another output format without resolving again.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts   outputOpts
		format string
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render an exported dependency graph",
		Long: `Render reads a graph written by "depwalk resolve -o graph.json" and writes it
as DOT, SVG, PNG or JPG. The format comes from --format or the output extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" {
				f, err := render.ParseFormat(format)
				if err != nil {
					return err
				}
				opts.format = f
			}
			if opts.path == "" {
				ext := string(opts.format)
				if ext == "" {
					ext = string(render.FormatSVG)
				}
				opts.path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + ext
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "", fmt.Sprintf("output format: %v", render.Formats))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add depth and errors to node labels")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts outputOpts) error {
	logger := loggerFromContext(cmd.Context())

	g, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Debug("graph loaded", "file", input, "run", g.RunID, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	if err := writeOutput(cmd.Context(), g, opts); err != nil {
		return err
	}
	p := printer{c.Out}
	p.success("Rendered %s", g.Root)
	p.file(opts.path)
	return nil
}
