package annotation

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/benreynwar/veifa/pkg/errors"
)

const sampleDoc = `{
  "format": "veifatext 0.1",
  "pages": ["Once upon a time [[little red]] met a [[wolf]].", null],
  "annotated_items": {
    "little red": [
      {"type": "text", "thumbtext": "LRRH", "content": "The heroine."},
      {"thumbtext": "orphan without type"},
      {"type": "youtube", "code": "abc123", "caption": null}
    ],
    "wolf": [
      {"type": "image", "url": "", "caption": ""}
    ],
    "grandmother": []
  }
}`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	doc, err := DecodeDocument([]byte(sampleDoc), DefaultRegistry(noImage))
	if err != nil {
		t.Fatalf("DecodeDocument() error: %v", err)
	}
	return doc
}

func TestDecodeDocument(t *testing.T) {
	doc := decodeSample(t)

	if got, want := doc.Pages, []string{"Once upon a time [[little red]] met a [[wolf]].", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("Pages = %q, want %q", got, want)
	}
	if got, want := doc.ItemIDs(), []string{"grandmother", "little red", "wolf"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ItemIDs() = %v, want %v", got, want)
	}

	anns, err := doc.Annotations("little red")
	if err != nil {
		t.Fatal(err)
	}
	if len(anns) != 2 {
		t.Fatalf("len(annotations) = %d, want 2 (untyped entry dropped)", len(anns))
	}
	if anns[0].Kind() != KindText || anns[1].Kind() != KindYouTube {
		t.Errorf("kinds = %s, %s", anns[0].Kind(), anns[1].Kind())
	}
	if v := anns[1].(*Video); v.Caption != "" || v.Code != "abc123" {
		t.Errorf("video = %+v", v)
	}

	if _, err := doc.Annotations("hood"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Annotations(hood) error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestDecodeDocumentEmpty(t *testing.T) {
	for _, data := range []string{"", "   \n"} {
		doc, err := DecodeDocument([]byte(data), DefaultRegistry(noImage))
		if err != nil {
			t.Fatalf("DecodeDocument(%q) error: %v", data, err)
		}
		if !reflect.DeepEqual(doc.Pages, []string{""}) || len(doc.AnnotatedItems) != 0 {
			t.Errorf("DecodeDocument(%q) = %+v, want blank document", data, doc)
		}
	}
}

func TestDecodeDocumentNoPages(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"format": "veifatext 0.1", "pages": [], "annotated_items": {}}`), DefaultRegistry(noImage))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(doc.Pages, []string{""}) {
		t.Errorf("Pages = %q, want one empty page", doc.Pages)
	}
}

func TestDecodeDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed", `{"pages": [`, errors.ErrCodeInvalidDocument},
		{"wrong format", `{"format": "veifatext 9", "pages": []}`, errors.ErrCodeInvalidDocument},
		{"unknown type", `{"pages": [], "annotated_items": {"x": [{"type": "audio"}]}}`, errors.ErrCodeUnknownAnnotation},
		{"bad item id", `{"pages": [], "annotated_items": {"": []}}`, errors.ErrCodeInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.data), DefaultRegistry(noImage))
			if errors.GetCode(err) != tt.code {
				t.Errorf("DecodeDocument() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	doc := decodeSample(t)
	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["format"] != FormatVersion {
		t.Errorf("format = %v, want %q", raw["format"], FormatVersion)
	}

	again, err := DecodeDocument(data, DefaultRegistry(noImage))
	if err != nil {
		t.Fatalf("DecodeDocument(Encode()) error: %v", err)
	}
	if !reflect.DeepEqual(again.Pages, doc.Pages) {
		t.Errorf("Pages = %q, want %q", again.Pages, doc.Pages)
	}
	for _, id := range doc.ItemIDs() {
		a, b := doc.AnnotatedItems[id], again.AnnotatedItems[id]
		if len(a) != len(b) {
			t.Errorf("item %q: %d annotations, want %d", id, len(b), len(a))
			continue
		}
		for i := range a {
			if !reflect.DeepEqual(a[i].Data(), b[i].Data()) {
				t.Errorf("item %q annotation %d: %v, want %v", id, i, b[i].Data(), a[i].Data())
			}
		}
	}
}

func TestTidy(t *testing.T) {
	doc := decodeSample(t)
	current := doc.AnnotatedItems["wolf"][0]

	st := doc.Tidy(current, map[string]bool{"little red": true, "wolf": true})
	if st.Annotations != 0 || st.Items != 1 {
		t.Errorf("Tidy() = %+v, want 0 annotations and 1 item removed", st)
	}
	if _, ok := doc.AnnotatedItems["grandmother"]; ok {
		t.Error("unlinked item without annotations should be removed")
	}
	if len(doc.AnnotatedItems["wolf"]) != 1 {
		t.Error("current annotation should survive even when empty")
	}

	st = doc.Tidy(nil, map[string]bool{"little red": true})
	if st.Annotations != 1 || st.Items != 1 {
		t.Errorf("second Tidy() = %+v, want 1 annotation and 1 item removed", st)
	}
	if _, ok := doc.AnnotatedItems["wolf"]; ok {
		t.Error("wolf should be removed once its only annotation is gone and it is unlinked")
	}
	if len(doc.AnnotatedItems["little red"]) != 2 {
		t.Error("non-empty annotations should be kept")
	}
}

func TestTidyKeepsLinkedEmptyItem(t *testing.T) {
	doc := NewDocument()
	doc.Add("wolf", &Text{})
	doc.Tidy(nil, map[string]bool{"wolf": true})

	anns, ok := doc.AnnotatedItems["wolf"]
	if !ok || len(anns) != 0 {
		t.Errorf("linked item = %v, %v; want kept with no annotations", anns, ok)
	}
}

func TestValidate(t *testing.T) {
	doc := NewDocument()
	doc.Add("a", &Image{URL: "http://ok/img.png"})
	doc.Add("a", &Video{Code: "abc"})
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	doc.Add("b", &Image{URL: "javascript:alert(1)"})
	if err := doc.Validate(); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Validate() error = %v, want %s", err, errors.ErrCodeInvalidDocument)
	}

	bad := NewDocument()
	bad.Add("c", &Video{Code: "../../evil"})
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should reject a path in a video code")
	}
}
