// Package pkg holds the veifa libraries.
//
// # Overview
//
// veifa scatters rectangles at random positions inside a container without
// overlap, growing the container when they no longer fit. The packages are
// layered:
//
//  1. [placement] - the engine: blockages, the random placer, container growth
//  2. [scene] - serializable scenes and layout results around the engine
//  3. [annotation] and [thumbs] - annotated items and their thumbnail layouts
//  4. [render] - SVG, PNG and JSON output
//  5. [cache] and [pipeline] - cached layout → render runs
//  6. [server] - the HTTP API
//
// Supporting packages: [config], [errors], [observability], [buildinfo].
//
// # Data Flow
//
//	scene file / HTTP request
//	         ↓
//	    [scene] (validate, build blockages)
//	         ↓
//	    [placement] (place items, grow container)
//	         ↓
//	    [render] (SVG / PNG / JSON)
//
// # Quick Start
//
//	sc, err := scene.ReadFile("scene.toml")
//	if err != nil {
//	    return err
//	}
//	res, err := scene.Run(sc, placement.DefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	svg := render.SVG(res, render.WithLabels(true))
//
// [placement]: github.com/benreynwar/veifa/pkg/placement
// [scene]: github.com/benreynwar/veifa/pkg/scene
// [annotation]: github.com/benreynwar/veifa/pkg/annotation
// [thumbs]: github.com/benreynwar/veifa/pkg/thumbs
// [render]: github.com/benreynwar/veifa/pkg/render
// [cache]: github.com/benreynwar/veifa/pkg/cache
// [pipeline]: github.com/benreynwar/veifa/pkg/pipeline
// [server]: github.com/benreynwar/veifa/pkg/server
// [config]: github.com/benreynwar/veifa/pkg/config
// [errors]: github.com/benreynwar/veifa/pkg/errors
// [observability]: github.com/benreynwar/veifa/pkg/observability
// [buildinfo]: github.com/benreynwar/veifa/pkg/buildinfo
package pkg
