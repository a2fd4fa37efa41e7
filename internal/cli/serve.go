package cli

import (
	"github.com/spf13/cobra"

	"github.com/benreynwar/veifa/pkg/annotation"
	"github.com/benreynwar/veifa/pkg/observability"
	"github.com/benreynwar/veifa/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the layout pipeline over HTTP:

  POST /v1/layout            place a scene
  POST /v1/render/{format}   render a scene or layout (svg, png, json)
  POST /v1/thumbs            lay out an annotated item's thumbs
  GET  /healthz              liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			hooks := observability.NewLogHooks(logger)
			observability.SetPlacementHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)

			srv := server.New(server.Config{
				Runner:    runner,
				Placement: c.Config.PlacementConfig(),
				Thumbs:    c.thumbsConfig(),
				Registry:  annotation.DefaultRegistry(c.Config.Thumbs.NoImageURL),
				TTL:       c.Config.Cache.TTL,
				Timeout:   c.Config.Server.WriteTimeout,
				Logger:    logger,
			})

			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
			printKeyValue("cache", c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx, addr, c.Config.Server.ReadTimeout, c.Config.Server.WriteTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	return cmd
}

// displayAddr fills in a host for addresses like ":8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
