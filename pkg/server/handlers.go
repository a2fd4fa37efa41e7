package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/benreynwar/veifa/pkg/annotation"
	"github.com/benreynwar/veifa/pkg/buildinfo"
	"github.com/benreynwar/veifa/pkg/errors"
	"github.com/benreynwar/veifa/pkg/placement"
	"github.com/benreynwar/veifa/pkg/render"
	"github.com/benreynwar/veifa/pkg/scene"
	"github.com/benreynwar/veifa/pkg/thumbs"
)

// Response header reporting whether the result came from the cache.
const cacheHeader = "X-Cache"

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// layoutRequest is the body of POST /v1/layout.
type layoutRequest struct {
	Scene   *scene.Scene `json:"scene"`
	Refresh bool         `json:"refresh,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Scene == nil {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scene is required"))
		return
	}

	res, hit, err := s.cfg.Runner.LayoutWithCacheInfo(r.Context(), req.Scene, s.options(req.Refresh))
	if err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, res)
}

// renderRequest is the body of POST /v1/render/{format}. Exactly one of
// Scene and Layout must be set.
type renderRequest struct {
	Scene   *scene.Scene  `json:"scene,omitempty"`
	Layout  *scene.Result `json:"layout,omitempty"`
	Scale   float64       `json:"scale,omitempty"`
	Labels  bool          `json:"labels,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	var req renderRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if (req.Scene == nil) == (req.Layout == nil) {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "exactly one of scene or layout is required"))
		return
	}

	opts := s.options(req.Refresh)
	opts.Formats = []string{format}
	opts.Scale = req.Scale
	opts.Labels = req.Labels

	layout := req.Layout
	if req.Scene != nil {
		var err error
		if layout, err = s.cfg.Runner.Layout(r.Context(), req.Scene, opts); err != nil {
			writeError(w, r, err)
			return
		}
	}

	artifacts, hit, err := s.cfg.Runner.RenderWithCacheInfo(r.Context(), layout, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := artifacts[format]
	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// thumbsRequest is the body of POST /v1/thumbs. Document is a veifatext
// document; the thumbs of ItemID's non-empty annotations are placed around
// its title.
type thumbsRequest struct {
	Document  json.RawMessage `json:"document"`
	ItemID    string          `json:"item_id"`
	Title     string          `json:"title,omitempty"`
	Container placement.Size  `json:"container,omitempty"`
	Refresh   bool            `json:"refresh,omitempty"`
}

type thumbView struct {
	ID string `json:"id"`
	annotation.Thumb
	Kind string `json:"kind"`
}

type thumbsResponse struct {
	ItemID string        `json:"item_id"`
	Layout *scene.Result `json:"layout"`
	Thumbs []thumbView   `json:"thumbs"`
}

func (s *Server) handleThumbs(w http.ResponseWriter, r *http.Request) {
	var req thumbsRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := errors.ValidateID(req.ItemID); err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := annotation.DecodeDocument(req.Document, s.cfg.Registry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	treq, err := thumbs.FromDocument(doc, req.ItemID, req.Title, s.cfg.Measurer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	treq.Container = req.Container

	res, hit, err := s.cfg.Runner.Thumbs(r.Context(), treq, s.cfg.Thumbs, s.options(req.Refresh))
	if err != nil {
		writeError(w, r, err)
		return
	}

	anns, _ := doc.Annotations(req.ItemID)
	views := make([]thumbView, 0, len(treq.Thumbs))
	for i, an := range anns {
		if an.IsEmpty() {
			continue
		}
		views = append(views, thumbView{ID: thumbs.ThumbID(i), Thumb: an.Thumb(), Kind: an.Kind()})
	}

	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, thumbsResponse{ItemID: req.ItemID, Layout: res, Thumbs: views})
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(cacheHeader, "hit")
	} else {
		w.Header().Set(cacheHeader, "miss")
	}
}
