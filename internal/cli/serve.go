package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depwalk/internal/fixtureserver"
)

const (
	defaultServeAddr = "127.0.0.1:4873"
	shutdownTimeout  = 5 * time.Second
)

// serveCommand creates the serve command, which exposes a fixture document
// as a registry so live mode can be run offline.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [fixture.json]",
		Short: "Serve a fixture document as an npm-compatible registry",
		Long: `Serve loads a fixture document (package name to metadata) and answers
GET /{name} and GET /{name}/{version} like a registry, until interrupted.

  depwalk serve testdata/repo.json --addr 127.0.0.1:4873
  depwalk resolve app -r http://127.0.0.1:4873`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), ln, args[0])
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	return cmd
}

// runServe serves the fixture on ln until ctx is canceled, then shuts down
// gracefully.
func (c *CLI) runServe(ctx context.Context, ln net.Listener, fixture string) error {
	logger := loggerFromContext(ctx)

	handler, err := fixtureserver.New(fixture, fixtureserver.WithLogger(debugf(logger)))
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p := printer{c.Out}
	p.success("Serving %d packages from %s", handler.Len(), fixture)
	p.info("Registry URL: http://%s", ln.Addr())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc
	return nil
}
