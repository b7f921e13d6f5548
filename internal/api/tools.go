package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/geoloc"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/markdown"
)

// ExtractCoordinates resolves a map sharing link to a lat/lng pair for
// the branch address form. A link that yields nothing returns 404 so the
// dashboard falls back to manual entry.
func (h *Handler) ExtractCoordinates(w http.ResponseWriter, r *http.Request) {
	var req CoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		h.writeError(w, http.StatusBadRequest, "a url is required")
		return
	}

	coords, err := h.extractor.Extract(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, geoloc.ErrNoCoordinates) {
			h.writeError(w, http.StatusNotFound, "no coordinates found in link")
			return
		}
		h.writeError(w, http.StatusBadGateway, "could not resolve link")
		return
	}
	h.writeJSON(w, http.StatusOK, coords)
}

// MarkdownPreview renders markdown to sanitized HTML.
func (h *Handler) MarkdownPreview(w http.ResponseWriter, r *http.Request) {
	var req MarkdownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.writeJSON(w, http.StatusOK, MarkdownResponse{HTML: markdown.Render(req.Markdown)})
}
