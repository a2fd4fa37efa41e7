package annotation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/benreynwar/veifa/pkg/errors"
)

// FormatVersion is the format tag written to every document.
const FormatVersion = "veifatext 0.1"

// Document is an annotated text.
type Document struct {
	Pages          []string
	AnnotatedItems map[string][]Annotation
}

// NewDocument returns a blank document with one empty page.
func NewDocument() *Document {
	return &Document{
		Pages:          []string{""},
		AnnotatedItems: make(map[string][]Annotation),
	}
}

type rawDocument struct {
	Format         string                      `json:"format"`
	Pages          []*string                   `json:"pages"`
	AnnotatedItems map[string][]map[string]any `json:"annotated_items"`
}

// DecodeDocument parses a veifatext payload.
func DecodeDocument(data []byte, reg *Registry) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if raw.Format != "" && raw.Format != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unsupported document format %q", raw.Format)
	}

	doc := &Document{
		Pages:          make([]string, 0, len(raw.Pages)),
		AnnotatedItems: make(map[string][]Annotation, len(raw.AnnotatedItems)),
	}
	for _, p := range raw.Pages {
		if p == nil {
			doc.Pages = append(doc.Pages, "")
			continue
		}
		doc.Pages = append(doc.Pages, *p)
	}
	if len(doc.Pages) == 0 {
		doc.Pages = append(doc.Pages, "")
	}

	for id, list := range raw.AnnotatedItems {
		if err := errors.ValidateID(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "annotated item")
		}
		anns := make([]Annotation, 0, len(list))
		for i, fields := range list {
			if t, ok := fields["type"]; !ok || t == nil {
				continue
			}
			an, err := reg.Decode(stringFields(fields))
			if err != nil {
				return nil, fmt.Errorf("item %q annotation %d: %w", id, i, err)
			}
			anns = append(anns, an)
		}
		doc.AnnotatedItems[id] = anns
	}
	return doc, nil
}

// stringFields flattens decoded JSON values to strings. Nulls read as
// empty strings.
func stringFields(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch v := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = v
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// MarshalJSON writes the document in veifatext format.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := struct {
		Format         string                         `json:"format"`
		Pages          []string                       `json:"pages"`
		AnnotatedItems map[string][]map[string]string `json:"annotated_items"`
	}{
		Format:         FormatVersion,
		Pages:          d.Pages,
		AnnotatedItems: make(map[string][]map[string]string, len(d.AnnotatedItems)),
	}
	if out.Pages == nil {
		out.Pages = []string{""}
	}
	for id, anns := range d.AnnotatedItems {
		list := make([]map[string]string, len(anns))
		for i, an := range anns {
			list[i] = an.Data()
		}
		out.AnnotatedItems[id] = list
	}
	return json.Marshal(out)
}

// Encode returns the document as veifatext JSON.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// ItemIDs returns the annotated item IDs in sorted order.
func (d *Document) ItemIDs() []string {
	ids := make([]string, 0, len(d.AnnotatedItems))
	for id := range d.AnnotatedItems {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Annotations returns the annotations of an item.
func (d *Document) Annotations(itemID string) ([]Annotation, error) {
	anns, ok := d.AnnotatedItems[itemID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "annotated item %q not found", itemID)
	}
	return anns, nil
}

// Add appends an annotation to an item, creating the item if needed.
func (d *Document) Add(itemID string, an Annotation) {
	if d.AnnotatedItems == nil {
		d.AnnotatedItems = make(map[string][]Annotation)
	}
	d.AnnotatedItems[itemID] = append(d.AnnotatedItems[itemID], an)
}

// Validate checks the fields that end up inside URLs.
func (d *Document) Validate() error {
	for _, id := range d.ItemIDs() {
		for i, an := range d.AnnotatedItems[id] {
			var err error
			switch a := an.(type) {
			case *Image:
				if a.URL != "" {
					err = errors.ValidateURL(a.URL)
				}
			case *Video:
				if a.Code != "" {
					err = errors.ValidateYouTubeCode(a.Code)
				}
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDocument, err, "item %q annotation %d", id, i)
			}
		}
	}
	return nil
}

// TidyStats reports what [Document.Tidy] removed.
type TidyStats struct {
	Annotations int
	Items       int
}

// Tidy drops empty annotations, except current, and then drops annotated
// items that have no annotations left and no link in any page. linked
// holds the IDs of items that are still linked.
func (d *Document) Tidy(current Annotation, linked map[string]bool) TidyStats {
	var st TidyStats
	for id, anns := range d.AnnotatedItems {
		kept := anns[:0]
		for _, an := range anns {
			if an.IsEmpty() && an != current {
				st.Annotations++
				continue
			}
			kept = append(kept, an)
		}
		d.AnnotatedItems[id] = kept
	}
	for id, anns := range d.AnnotatedItems {
		if len(anns) == 0 && !linked[id] {
			delete(d.AnnotatedItems, id)
			st.Items++
		}
	}
	return st
}
