package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benreynwar/veifa/pkg/annotation"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/scene"
	"github.com/benreynwar/veifa/pkg/thumbs"
)

// thumbsOpts holds the command-line flags for the thumbs command.
type thumbsOpts struct {
	title   string
	output  string
	formats string
	noCache bool
}

// thumbsCommand creates the thumbs command.
func (c *CLI) thumbsCommand() *cobra.Command {
	var opts thumbsOpts

	cmd := &cobra.Command{
		Use:   "thumbs <document> <item-id>",
		Short: "Scatter an annotated item's thumbnails around its title",
		Long: `Read a veifatext document and lay out the thumbnails of one annotated item
around its title. The layout is seeded from the item ID, so an item always
gets the same arrangement.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.runThumbs(cmd.Context(), args[0], args[1], opts)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "title text to measure (default: the item ID)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "layout file (default <item-id>.thumbs.json)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "also render: svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runThumbs(ctx context.Context, docPath, itemID string, opts thumbsOpts) (string, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(docPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", docPath)
		}
		return "", err
	}
	doc, err := annotation.DecodeDocument(data, annotation.DefaultRegistry(c.Config.Thumbs.NoImageURL))
	if err != nil {
		return "", err
	}

	req, err := thumbs.FromDocument(doc, itemID, opts.title, thumbs.DefaultMeasurer())
	if err != nil {
		return "", err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return "", err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	res, hit, err := runner.Thumbs(ctx, req, c.thumbsConfig(), popts)
	if err != nil {
		return "", err
	}

	out := opts.output
	if out == "" {
		out = filepath.Join(filepath.Dir(docPath), slug(itemID)+".thumbs.json")
	}
	if err := scene.WriteResultFile(res, out); err != nil {
		return "", err
	}

	var rendered []string
	if opts.formats != "" {
		popts.Formats = parseFormats(opts.formats)
		popts.Labels = true
		artifacts, err := runner.Render(ctx, res, popts)
		if err != nil {
			return "", err
		}
		base := strings.TrimSuffix(out, ".json")
		for _, format := range popts.Formats {
			path := base + "." + format
			if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}
			rendered = append(rendered, path)
		}
	}

	prog.done(fmt.Sprintf("Laid out %d thumbs", len(req.Thumbs)))
	printSuccess("Thumbs for %s", StyleValue.Render(itemID))
	printLayoutStats(res, hit)
	for _, it := range req.Thumbs {
		if p, ok := res.Find(it.ID); ok {
			printDetail("%-8s top=%g left=%g %s", it.ID, p.Top, p.Left, it.Size)
		}
	}
	printFile(out)
	for _, path := range rendered {
		printFile(path)
	}
	return out, nil
}

// slug turns an item ID into a file name.
func slug(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}

