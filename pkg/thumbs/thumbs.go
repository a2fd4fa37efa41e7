// Package thumbs scatters annotation thumbnails around an annotated item's
// title.
//
// The title sits in the middle of a container at least MinContainer wide on
// each axis. Thumbnails are placed at random positions around it, and the
// placer is seeded from the item ID so an item always gets the same layout.
package thumbs

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/benreynwar/veifa/pkg/annotation"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/scene"
)

// TitleID is the placement ID of the title obstacle.
const TitleID = "title"

// DefaultMinContainer is the smallest container edge used for thumbs.
const DefaultMinContainer = 100.0

// Request describes one annotated item's thumbs.
type Request struct {
	ItemID    string         `json:"item_id"`
	Title     placement.Size `json:"title"`
	Thumbs    []scene.Item   `json:"thumbs"`
	Container placement.Size `json:"container"`
}

// Config controls thumb layout.
type Config struct {
	Placement placement.Config

	// MinContainer raises the container hint on each axis. Default: 100.
	MinContainer float64

	// TitleMargin pads the title obstacle on every side.
	TitleMargin float64

	Logger *log.Logger
}

// DefaultConfig returns the default thumb settings.
func DefaultConfig() Config {
	return Config{
		Placement:    placement.DefaultConfig(),
		MinContainer: DefaultMinContainer,
	}
}

// Scene converts the request into a placement scene: the container hint is
// raised to MinContainer, the title is centered and fixed, and the item ID
// seeds the run.
func (r Request) Scene(cfg Config) *scene.Scene {
	minC := cfg.MinContainer
	if minC <= 0 {
		minC = DefaultMinContainer
	}
	container := r.Container.Max(placement.Size{Height: minC, Width: minC})

	margin := placement.Size{Height: cfg.TitleMargin * 2, Width: cfg.TitleMargin * 2}
	title := scene.Fixed{
		ID:     TitleID,
		Center: placement.Point{Top: container.Height / 2, Left: container.Width / 2},
		Size:   placement.Size{Height: r.Title.Height + margin.Height, Width: r.Title.Width + margin.Width},
	}

	return &scene.Scene{
		Container: container,
		Fixed:     []scene.Fixed{title},
		Items:     r.Thumbs,
		SeedKey:   r.ItemID,
	}
}

// Layout places the thumbs of one annotated item.
func Layout(ctx context.Context, req Request, cfg Config) (*scene.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.ValidateID(req.ItemID); err != nil {
		return nil, err
	}
	res, err := scene.Run(req.Scene(cfg), cfg.Placement, cfg.Logger)
	if err != nil {
		return nil, err
	}
	if cfg.Logger != nil {
		cfg.Logger.Debug("laid out thumbs", "item", req.ItemID, "thumbs", len(req.Thumbs), "container", res.Container)
	}
	return res, nil
}

// ThumbID names the thumb of the i-th annotation of an item.
func ThumbID(i int) string { return fmt.Sprintf("thumb-%d", i) }

// FromDocument builds a request for itemID from its non-empty annotations.
// Thumb IDs refer to the annotation's index in the item's list. The title
// text defaults to the item ID.
func FromDocument(doc *annotation.Document, itemID, title string, m Measurer) (Request, error) {
	anns, err := doc.Annotations(itemID)
	if err != nil {
		return Request{}, err
	}
	if title == "" {
		title = itemID
	}

	req := Request{ItemID: itemID, Title: m.MeasureTitle(title)}
	for i, an := range anns {
		if an.IsEmpty() {
			continue
		}
		req.Thumbs = append(req.Thumbs, scene.Item{ID: ThumbID(i), Size: m.MeasureThumb(an.Thumb())})
	}
	return req, nil
}
