// Package cli implements the veifa command-line interface.
//
// # Commands
//
//   - place: lay out a scene file and write the layout as JSON
//   - render: render a scene or layout to SVG, PNG or JSON
//   - thumbs: scatter an annotated item's thumbnails around its title
//   - preview: browse layouts of a scene in the terminal, reseeding on demand
//   - serve: run the HTTP API
//   - cache: inspect or clear the layout cache
//
// # Configuration
//
// Settings come from the TOML file named by --config or $VEIFA_CONFIG,
// falling back to built-in defaults. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/benreynwar/veifa/pkg/buildinfo"
	"github.com/benreynwar/veifa/pkg/cache"
	"github.com/benreynwar/veifa/pkg/config"
	"github.com/benreynwar/veifa/pkg/pipeline"
	"github.com/benreynwar/veifa/pkg/render"
	"github.com/benreynwar/veifa/pkg/thumbs"
)

// appName is the application name used for display.
const appName = "veifa"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "veifa places rectangles at random without overlap",
		Long: `veifa lays out rectangles at random positions inside a container, growing
the container when they no longer fit. It reads scenes from JSON, TOML or
YAML files and renders the layouts as SVG, PNG or JSON.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvPath+")")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.thumbsCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the config file and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	path := c.configPath
	if path == "" {
		path = os.Getenv(config.EnvPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.New(ctx, c.Config.CacheOptions())
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return cc, nil
}

// pipelineOptions returns options carrying the configured placement
// settings and cache TTL.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Placement: c.Config.PlacementConfig(),
		TTL:       c.Config.Cache.TTL,
	}
}

// thumbsConfig converts the thumbs section of the config.
func (c *CLI) thumbsConfig() thumbs.Config {
	return thumbs.Config{
		Placement:    c.Config.PlacementConfig(),
		MinContainer: c.Config.Thumbs.MinContainer,
		TitleMargin:  c.Config.Thumbs.TitleMargin,
		Logger:       c.Logger,
	}
}

// placementFlags are overrides for the [placement] config section.
type placementFlags struct {
	maxAttempts  int
	growthFactor float64
}

func (f *placementFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "random positions tried before growing (default from config)")
	cmd.Flags().Float64Var(&f.growthFactor, "growth-factor", 0, "container growth per step (default from config)")
}

func (f placementFlags) apply(opts *pipeline.Options) {
	if f.maxAttempts != 0 {
		opts.Placement.MaxAttempts = f.maxAttempts
	}
	if f.growthFactor != 0 {
		opts.Placement.GrowthFactor = f.growthFactor
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
