package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benreynwar/veifa/pkg/scene"
)

// layoutSuffix marks files written by the place command.
const layoutSuffix = ".layout.json"

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	output  string
	seed    uint64
	seedSet bool
	refresh bool
	noCache bool
	placementFlags
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place <scene>",
		Short: "Lay out a scene and write the layout as JSON",
		Long: `Lay out the items of a scene file (JSON, TOML or YAML) and write the result
to <scene>.layout.json. Seeded scenes are cached, so placing the same scene
twice returns the same layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			_, err := c.runPlace(cmd.Context(), args[0], opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <scene>"+layoutSuffix+")")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "override the scene seed")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	opts.placementFlags.register(cmd)

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, path string, opts placeOpts) (string, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sc, err := scene.ReadFile(path)
	if err != nil {
		return "", err
	}
	if opts.seedSet {
		sc.Seed = &opts.seed
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return "", err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Refresh = opts.refresh
	opts.placementFlags.apply(&popts)

	res, hit, err := runner.LayoutWithCacheInfo(ctx, sc, popts)
	if err != nil {
		return "", err
	}

	out := opts.output
	if out == "" {
		out = layoutPath(path)
	}
	if err := scene.WriteResultFile(res, out); err != nil {
		return "", err
	}

	prog.done("Placed scene")
	printSuccess("Placed %s", filepath.Base(path))
	printLayoutStats(res, hit)
	printFile(out)
	if !sc.Deterministic() {
		printDetail("unseeded; replay with --seed %d", res.Seed)
	}
	printNextStep("Render it", "veifa render "+out)
	return out, nil
}

// layoutPath derives the default layout file name for a scene file.
func layoutPath(scenePath string) string {
	return strings.TrimSuffix(scenePath, filepath.Ext(scenePath)) + layoutSuffix
}
