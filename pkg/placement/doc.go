// Package placement scatters rectangles around fixed obstacles without
// overlap.
//
// # Overview
//
// The package has two parts:
//
//   - [Blockage]: an axis-aligned rectangle with a fixed [Size] and a mutable
//     center. Its bounds are always derived from the center, so they can never
//     be stale.
//   - [Placer]: places a sequence of item blockages at random positions
//     inside a container, avoiding the fixed obstacles and every item placed
//     before it. When an item cannot be placed after [Config.MaxAttempts]
//     draws, the container grows by [Config.GrowthFactor] and every existing
//     blockage is re-centered proportionally. Growth stops at
//     [Config.MaxSize]; once there, overlap is tolerated so that placement
//     always terminates.
//
// # Usage
//
// Wrap the fixed elements and the items in blockages, construct a placer and
// place the items:
//
//	title := placement.NewBlockage(placement.Point{Top: 50, Left: 50}, titleSize, titleView)
//	p := placement.New(placement.Size{Height: 100, Width: 100},
//	    []*placement.Blockage{title},
//	    placement.WithSeedString(itemID),
//	    placement.WithContainer(containerView),
//	)
//	p.PlaceItems(thumbs)
//
// Results are delivered through side effects: each [Surface] receives its
// final top-left position and the [Container] receives every resize.
//
// # Growth
//
// Growth is anchored at the origin: a blockage centered at (t, l) moves to
// (t*g, l*g). Blockages near the top-left corner barely move while distant
// ones move further. Because every blockage is scaled about the same point by
// the same factor, blockages that did not overlap before a growth step still
// do not overlap after it.
//
// # Randomness
//
// Placement draws from a [Source]. Use [WithSeed] or [WithSeedString] for
// reproducible layouts (the same seed, obstacles and items always produce the
// same positions), or [WithRand] to inject any source in tests.
//
// # Oversized Items
//
// Items are drawn fully inside the current container. When an item is larger
// than the container on an axis, the draw range on that axis collapses to
// zero and the item is placed at coordinate 0 on that axis.
//
// A placer holds mutable state for one run and must not be shared between
// runs or goroutines.
package placement
