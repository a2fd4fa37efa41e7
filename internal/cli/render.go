package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benreynwar/veifa/pkg/pipeline"
	"github.com/benreynwar/veifa/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // svg, png, json
	scale   float64
	labels  bool
	refresh bool
	noCache bool
	placementFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1, labels: true}

	cmd := &cobra.Command{
		Use:   "render <scene|layout>",
		Short: "Render a scene or layout to SVG, PNG or JSON",
		Long: `Render a layout written by "veifa place" (*.layout.json), or lay out a scene
file first and render the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			_, err := c.runRender(cmd.Context(), args[0], opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "scale factor")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw item IDs")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and artifacts")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache")
	opts.placementFlags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) ([]string, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Formats = opts.formats
	popts.Scale = opts.scale
	popts.Labels = opts.labels
	popts.Refresh = opts.refresh
	opts.placementFlags.apply(&popts)

	var spinner *Spinner
	if !c.verbose {
		spinner = newSpinnerWithContext(ctx, "Rendering "+filepath.Base(path))
		spinner.Start()
	}
	stop := func() {
		if spinner != nil {
			spinner.Stop()
		}
	}

	layout, cached, err := c.loadLayout(ctx, runner, path, popts)
	if err != nil {
		stop()
		return nil, err
	}
	artifacts, err := runner.Render(ctx, layout, popts)
	stop()
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(strings.TrimSuffix(path, layoutSuffix), filepath.Ext(path))
	var written []string
	for _, format := range popts.Formats {
		out := outputPath(opts.output, base, format, len(popts.Formats))
		if err := os.WriteFile(out, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", out, err)
		}
		written = append(written, out)
	}

	prog.done("Rendered " + strings.Join(popts.Formats, ", "))
	printSuccess("Rendered %s", filepath.Base(path))
	printLayoutStats(layout, cached)
	for _, out := range written {
		printFile(out)
	}
	return written, nil
}

// loadLayout reads a layout file as is, or places a scene file.
func (c *CLI) loadLayout(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*scene.Result, bool, error) {
	if strings.HasSuffix(path, layoutSuffix) {
		res, err := scene.ReadResultFile(path)
		return res, false, err
	}
	sc, err := scene.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return runner.LayoutWithCacheInfo(ctx, sc, opts)
}

// outputPath picks the file for one format. A single format honours
// --output as a file name; several formats use it as a base path.
func outputPath(output, base, format string, n int) string {
	if output == "" {
		return base + "." + format
	}
	if n == 1 {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}
