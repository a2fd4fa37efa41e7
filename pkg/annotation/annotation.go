package annotation

// Built-in annotation kinds.
const (
	KindText    = "text"
	KindImage   = "image"
	KindYouTube = "youtube"
)

// YouTube URL prefixes.
const (
	youtubeThumbURL = "http://img.youtube.com/vi/"
	youtubeEmbedURL = "http://www.youtube.com/embed/"
)

// Annotation is one piece of content attached to an annotated item.
type Annotation interface {
	// Kind returns the slug stored in the "type" field.
	Kind() string
	// Name returns the display name of the kind.
	Name() string
	// IsEmpty reports whether every content field is blank.
	IsEmpty() bool
	// Thumb describes the small preview placed around the item's title.
	Thumb() Thumb
	// View describes the full view of the annotation.
	View(title string) View
	// Data returns the stored fields, including "type".
	Data() map[string]string
}

// Thumb is the content of a thumbnail. Exactly one of Text and ImageURL is
// set for the built-in kinds.
type Thumb struct {
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

// View is the content of an expanded annotation.
type View struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Text is a text annotation.
type Text struct {
	ThumbText string
	Content   string
}

func (a *Text) Kind() string  { return KindText }
func (a *Text) Name() string  { return "Text" }
func (a *Text) IsEmpty() bool { return a.ThumbText == "" && a.Content == "" }

func (a *Text) Thumb() Thumb { return Thumb{Text: a.ThumbText} }

func (a *Text) View(title string) View { return View{Title: title, Body: a.Content} }

func (a *Text) Data() map[string]string {
	return map[string]string{"type": KindText, "thumbtext": a.ThumbText, "content": a.Content}
}

// Image is an image annotation. Fallback replaces an empty URL when
// displaying.
type Image struct {
	URL      string
	Caption  string
	Fallback string
}

func (a *Image) Kind() string  { return KindImage }
func (a *Image) Name() string  { return "Image" }
func (a *Image) IsEmpty() bool { return a.URL == "" && a.Caption == "" }

func (a *Image) src() string {
	if a.URL == "" {
		return a.Fallback
	}
	return a.URL
}

func (a *Image) Thumb() Thumb { return Thumb{ImageURL: a.src(), Alt: a.Caption} }

func (a *Image) View(title string) View {
	return View{Title: title, MediaURL: a.src(), Caption: a.Caption}
}

func (a *Image) Data() map[string]string {
	return map[string]string{"type": KindImage, "url": a.URL, "caption": a.Caption}
}

// Video is a YouTube video annotation.
type Video struct {
	Code     string
	Caption  string
	Fallback string
}

func (a *Video) Kind() string  { return KindYouTube }
func (a *Video) Name() string  { return "YouTube Video" }
func (a *Video) IsEmpty() bool { return a.Code == "" && a.Caption == "" }

// ThumbURL returns the YouTube still image for the video.
func (a *Video) ThumbURL() string {
	if a.Code == "" {
		return a.Fallback
	}
	return youtubeThumbURL + a.Code + "/2.jpg"
}

// EmbedURL returns the player URL for the video.
func (a *Video) EmbedURL() string {
	if a.Code == "" {
		return ""
	}
	return youtubeEmbedURL + a.Code
}

func (a *Video) Thumb() Thumb { return Thumb{ImageURL: a.ThumbURL(), Alt: a.Caption} }

func (a *Video) View(title string) View {
	return View{Title: title, MediaURL: a.EmbedURL(), Caption: a.Caption}
}

func (a *Video) Data() map[string]string {
	return map[string]string{"type": KindYouTube, "code": a.Code, "caption": a.Caption}
}

var (
	_ Annotation = (*Text)(nil)
	_ Annotation = (*Image)(nil)
	_ Annotation = (*Video)(nil)
)
