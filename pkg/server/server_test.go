package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benreynwar/veifa/pkg/cache"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/observability"
	"github.com/benreynwar/veifa/pkg/pipeline"
	"github.com/benreynwar/veifa/pkg/scene"
)

const seededScene = `{
  "scene": {
    "container": {"height": 100, "width": 100},
    "fixed": [{"id": "title", "center": {"top": 50, "left": 50}, "size": {"height": 20, "width": 40}}],
    "items": [
      {"id": "a", "size": {"height": 20, "width": 20}},
      {"id": "b", "size": {"height": 10, "width": 30}}
    ],
    "seed": 7
  }
}`

const sampleDoc = `{
  "format": "veifatext 0.1",
  "pages": ["[[little red]] met a [[wolf]]."],
  "annotated_items": {
    "little red": [
      {"type": "text", "thumbtext": "LRRH", "content": "The heroine."},
      {"type": "image", "url": "", "caption": ""},
      {"type": "youtube", "code": "abc123", "caption": "trailer"}
    ]
  }
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := New(Config{Runner: pipeline.NewRunner(fc, nil, nil)})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/layout", seededScene)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get(cacheHeader); got != "miss" {
		t.Errorf("%s = %q, want miss", cacheHeader, got)
	}
	var first scene.Result
	if err := json.NewDecoder(resp.Body).Decode(&first); err != nil {
		t.Fatal(err)
	}
	if len(first.Placements) != 3 {
		t.Errorf("placements = %d, want 3", len(first.Placements))
	}
	if first.Seed != 7 {
		t.Errorf("seed = %d, want 7", first.Seed)
	}

	resp = post(t, ts, "/v1/layout", seededScene)
	if got := resp.Header.Get(cacheHeader); got != "hit" {
		t.Errorf("second %s = %q, want hit", cacheHeader, got)
	}
	var second scene.Result
	if err := json.NewDecoder(resp.Body).Decode(&second); err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("cached ID = %s, want %s", second.ID, first.ID)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
	}{
		{"empty body", "", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", "{", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"scene": {}, "extra": 1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing scene", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{
			"duplicate id",
			`{"scene": {"container": {"height": 10, "width": 10}, "items": [{"id": "a", "size": {"height": 1, "width": 1}}, {"id": "a", "size": {"height": 1, "width": 1}}]}}`,
			http.StatusBadRequest, errors.ErrCodeInvalidScene,
		},
		{
			"negative size",
			`{"scene": {"container": {"height": 10, "width": 10}, "items": [{"id": "a", "size": {"height": -1, "width": 1}}]}}`,
			http.StatusBadRequest, errors.ErrCodeInvalidScene,
		},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/layout", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := decodeError(t, resp); got.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", got.Code, tt.wantCode)
			}
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"png", "image/png", "\x89PNG"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, ts, "/v1/render/"+tt.format, seededScene)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("body starts with %q, want %q", data[:min(8, len(data))], tt.prefix)
			}
		})
	}
}

func TestRenderFromLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/layout", seededScene)
	layout, _ := io.ReadAll(resp.Body)

	resp = post(t, ts, "/v1/render/svg", `{"layout": `+string(layout)+`, "labels": true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(data, []byte(">title<")) {
		t.Error("labelled svg should contain the title label")
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/v1/render/gif", seededScene)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want 400", resp.StatusCode)
	}
	if got := decodeError(t, resp); got.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("gif code = %s, want INVALID_FORMAT", got.Code)
	}

	resp = post(t, ts, "/v1/render/svg", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty status = %d, want 400", resp.StatusCode)
	}
}

func TestThumbs(t *testing.T) {
	ts := newTestServer(t)
	body := `{"document": ` + sampleDoc + `, "item_id": "little red"}`

	resp := post(t, ts, "/v1/thumbs", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out thumbsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}

	// The empty image annotation has no thumb.
	if len(out.Thumbs) != 2 {
		t.Fatalf("thumbs = %d, want 2", len(out.Thumbs))
	}
	if out.Thumbs[0].ID != "thumb-0" || out.Thumbs[1].ID != "thumb-2" {
		t.Errorf("thumb IDs = %s, %s, want thumb-0, thumb-2", out.Thumbs[0].ID, out.Thumbs[1].ID)
	}
	if out.Thumbs[1].ImageURL != "http://img.youtube.com/vi/abc123/2.jpg" {
		t.Errorf("video thumb = %q", out.Thumbs[1].ImageURL)
	}
	if _, ok := out.Layout.Find("title"); !ok {
		t.Error("layout missing title")
	}
	if len(out.Layout.Placements) != 3 {
		t.Errorf("placements = %d, want 3", len(out.Layout.Placements))
	}

	resp = post(t, ts, "/v1/thumbs", body)
	if got := resp.Header.Get(cacheHeader); got != "hit" {
		t.Errorf("second %s = %q, want hit", cacheHeader, got)
	}
}

func TestThumbsErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"missing item", `{"document": ` + sampleDoc + `, "item_id": "wolf"}`, http.StatusNotFound},
		{"empty item id", `{"document": ` + sampleDoc + `, "item_id": ""}`, http.StatusBadRequest},
		{"unknown kind", `{"document": {"annotated_items": {"x": [{"type": "audio"}]}}, "item_id": "x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/thumbs", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "/v1/nope", "{}")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if got := decodeError(t, resp); got.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s, want NOT_FOUND", got.Code)
	}
}

func TestBodyLimit(t *testing.T) {
	srv := New(Config{MaxBodyBytes: 64})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := post(t, ts, "/v1/layout", seededScene)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidScene, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnknownAnnotation, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeCache, "x"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
	h.status = append(h.status, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	h := New(Config{}).Handler()
	req := httptest.NewRequest(http.MethodPost, "/v1/render/svg", strings.NewReader(seededScene))
	h.ServeHTTP(httptest.NewRecorder(), req)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 {
		t.Fatalf("responses = %d, want 1", len(hooks.routes))
	}
	if hooks.routes[0] != "POST /v1/render/{format}" {
		t.Errorf("route = %q, want POST /v1/render/{format}", hooks.routes[0])
	}
	if hooks.status[0] != http.StatusOK {
		t.Errorf("status = %d, want 200", hooks.status[0])
	}
}
