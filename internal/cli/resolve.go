package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/depwalk/pkg/config"
	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
	"github.com/matzehuels/depwalk/pkg/observability"
	"github.com/matzehuels/depwalk/pkg/resolve"
)

// resolveFlags holds the raw flag values of the resolve command. Only flags
// the user actually set are layered over the loaded configuration.
type resolveFlags struct {
	configFile string
	detailed   bool
	quiet      bool

	cfg config.Config // flag targets; read only for changed flags
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var flags resolveFlags
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "resolve [package]",
		Short: "Resolve the dependency graph of a package",
		Long: `Resolve fetches a package's metadata, follows its runtime, peer and dev
dependency declarations breadth-first up to --max-depth, and writes the graph
to --output-file (.json, .dot, .svg, .png or .jpg).

Parameters are layered: defaults, then a config file (--config, or
csv_config.csv in the working directory), then flags given on the command line.`,
		Example: `  # Resolve against the public registry
  depwalk resolve express -d 2 -o express.svg

  # Resolve offline from a fixture document
  depwalk resolve app -t -r testdata/repo.json -o app.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(cmd.LocalNonPersistentFlags(), args)
			if err != nil {
				return err
			}
			return c.runResolve(cmd.Context(), cfg, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.cfg.PackageName, "package-name", "p", "", "package to resolve")
	f.StringVar(&flags.cfg.Version, "version", "", "version or dist-tag of the root package (default: latest)")
	f.StringVarP(&flags.cfg.RepoURL, "repo-url", "r", d.RepoURL, "registry base URL, or fixture path with --test-mode")
	f.BoolVarP(&flags.cfg.TestMode, "test-mode", "t", false, "read metadata from a local fixture document")
	f.StringVarP(&flags.cfg.OutputFile, "output-file", "o", d.OutputFile, "output file; format from extension")
	f.IntVarP(&flags.cfg.MaxDepth, "max-depth", "d", d.MaxDepth, "maximum dependency depth (0 resolves only the root)")
	f.StringVarP(&flags.cfg.FilterSubstring, "filter-substring", "f", "", "only follow dependencies whose name contains this")
	f.IntVar(&flags.cfg.Workers, "workers", d.Workers, "concurrent fetches per depth level")
	f.DurationVar(&flags.cfg.Timeout, "timeout", d.Timeout, "per-request timeout")
	f.IntVar(&flags.cfg.Retries, "retries", d.Retries, "retries for transient registry failures")
	f.StringVarP(&flags.configFile, "config", "c", "", "config file (.toml or .csv)")
	f.BoolVar(&flags.detailed, "detailed", false, "add depth and errors to rendered node labels")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "skip the parameter block and dependency listing")

	return cmd
}

// config builds the effective configuration: defaults, then the config
// file, then every flag of fs the user set. fs must hold only the resolve
// command's own flags; inherited ones such as --verbose are not parameters.
func (rf *resolveFlags) config(fs *pflag.FlagSet, args []string) (config.Config, error) {
	cfg := config.Defaults()

	path := rf.configFile
	if path == "" {
		path = config.Discover(".")
	}
	if path != "" {
		loaded, err := config.Load(path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	var setErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if setErr != nil || !f.Changed {
			return
		}
		switch f.Name {
		case "config", "detailed", "quiet":
			return
		}
		setErr = cfg.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})
	if setErr != nil {
		return cfg, setErr
	}

	if len(args) == 1 {
		if fs.Changed("package-name") && args[0] != cfg.PackageName {
			return cfg, errors.ConfigError("package given both as argument (%s) and --package-name (%s)", args[0], cfg.PackageName)
		}
		cfg.PackageName = args[0]
	}

	return cfg, cfg.Validate()
}

func (c *CLI) runResolve(ctx context.Context, cfg config.Config, flags resolveFlags) error {
	logger := loggerFromContext(ctx)
	p := printer{c.Out}

	if !flags.quiet {
		printParams(c.Out, cfg)
	}

	hooks := newLogHooks(logger)
	observability.SetResolveHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	var spin *spinner
	if logger.GetLevel() > log.DebugLevel {
		spin = newSpinner(ctx, c.Err, "Resolving "+cfg.PackageName).start()
		hooks.progress = spin.update
	}

	r := resolve.New(cfg.Source(), resolve.Options{
		MaxDepth: cfg.MaxDepth,
		Filter:   cfg.FilterSubstring,
		Workers:  cfg.Workers,
		Logger:   debugf(logger),
	})
	prog := newProgress(logger)
	g, err := r.Resolve(ctx, cfg.Root())
	if spin != nil {
		spin.stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %s: %d packages in %d fetches", g.Root, g.NodeCount(), hooks.fetches()))
	logger.Debug("run", "id", g.RunID)

	if !flags.quiet {
		printGraph(c.Out, g)
		if t := failureTable(g); t != "" {
			p.line(t)
		}
	} else {
		p.line(summary(g))
	}

	if err := writeOutput(ctx, g, outputOpts{path: cfg.OutputFile, detailed: flags.detailed}); err != nil {
		return err
	}
	p.success("Wrote %s", cfg.OutputFile)
	p.file(cfg.OutputFile)

	if root := g.RootNode(); root.State == graph.StateFailed {
		return fmt.Errorf("resolve %s: %w", cfg.PackageName, root.Err)
	}
	if n := len(g.Failed()); n > 0 {
		p.warning("%d of %d packages could not be fetched", n, g.NodeCount())
	}
	return nil
}
