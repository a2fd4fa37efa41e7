// Package scene describes placement runs as data so they can be driven from
// files and HTTP requests.
//
// A [Scene] names a container size hint, the fixed obstacles already on
// the surface and the items to scatter around them:
//
//	{
//	  "container": {"height": 200, "width": 300},
//	  "fixed": [
//	    {"id": "title", "center": {"top": 100, "left": 150}, "size": {"height": 30, "width": 120}}
//	  ],
//	  "items": [
//	    {"id": "a", "size": {"height": 40, "width": 60}},
//	    {"id": "b", "size": {"height": 40, "width": 60}}
//	  ],
//	  "seed_key": "little-red"
//	}
//
// Scenes are read from JSON, TOML or YAML; the format is chosen by file
// extension in [ReadFile]. [Run] executes the placement and returns a
// [Result] listing the final top-left corner of every rectangle.
//
// A scene with a seed or seed key is deterministic: running it twice with the
// same placement constants gives the same result. Only deterministic scenes
// are worth caching.
package scene
