package annotation

import (
	"fmt"
	"sort"

	"github.com/benreynwar/veifa/pkg/errors"
)

// Factory builds an annotation from its stored fields. Missing fields read
// as empty strings.
type Factory func(data map[string]string) Annotation

// Entry describes a registered kind.
type Entry struct {
	Kind    string
	Name    string
	Factory Factory
}

// Registry maps kind slugs to factories.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// DefaultRegistry returns a registry with the text, image and youtube
// kinds. noImageURL is shown in place of missing images.
func DefaultRegistry(noImageURL string) *Registry {
	r := NewRegistry()
	_ = r.Register(KindText, "Text", func(d map[string]string) Annotation {
		return &Text{ThumbText: d["thumbtext"], Content: d["content"]}
	})
	_ = r.Register(KindImage, "Image", func(d map[string]string) Annotation {
		return &Image{URL: d["url"], Caption: d["caption"], Fallback: noImageURL}
	})
	_ = r.Register(KindYouTube, "YouTube Video", func(d map[string]string) Annotation {
		return &Video{Code: d["code"], Caption: d["caption"], Fallback: noImageURL}
	})
	return r
}

// Register adds a kind. Registering a kind twice is an error.
func (r *Registry) Register(kind, name string, f Factory) error {
	if kind == "" || f == nil {
		return fmt.Errorf("register annotation: kind and factory are required")
	}
	if _, ok := r.entries[kind]; ok {
		return fmt.Errorf("annotation kind %q already registered", kind)
	}
	r.entries[kind] = Entry{Kind: kind, Name: name, Factory: f}
	return nil
}

// Lookup returns the entry for kind.
func (r *Registry) Lookup(kind string) (Entry, bool) {
	e, ok := r.entries[kind]
	return e, ok
}

// Kinds returns the registered slugs in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Decode builds an annotation from stored fields, dispatching on "type".
func (r *Registry) Decode(data map[string]string) (Annotation, error) {
	kind := data["type"]
	e, ok := r.entries[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownAnnotation, "unknown annotation type %q (known: %v)", kind, r.Kinds())
	}
	return e.Factory(data), nil
}

// New builds an empty annotation of the given kind.
func (r *Registry) New(kind string) (Annotation, error) {
	return r.Decode(map[string]string{"type": kind})
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.entries[kind]
	return ok
}
