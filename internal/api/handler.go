package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/clinics"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/geoloc"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/store"
)

// Handler holds dependencies for the gateway API handlers.
type Handler struct {
	clinics    *clinics.Client
	extractor  *geoloc.Extractor
	journal    *store.Store // nil when no database is configured
	bufferPool *sync.Pool
}

// New creates a new API Handler. journal may be nil.
func New(client *clinics.Client, extractor *geoloc.Extractor, journal *store.Store) (*Handler, error) {
	if client == nil {
		return nil, errors.New("clinics client is required")
	}
	if extractor == nil {
		extractor = geoloc.New()
	}
	return &Handler{
		clinics:   client,
		extractor: extractor,
		journal:   journal,
		bufferPool: &sync.Pool{
			New: func() any {
				return new(bytes.Buffer)
			},
		},
	}, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/regions", h.ListRegions)
	mux.HandleFunc("GET /api/v1/branches", h.ListBranches)
	mux.HandleFunc("GET /api/v1/departments", h.ListDepartments)
	mux.HandleFunc("GET /api/v1/doctors", h.ListDoctors)
	mux.HandleFunc("GET /api/v1/services", h.ListServices)
	mux.HandleFunc("GET /api/v1/offers", h.ListOffers)
	mux.HandleFunc("GET /api/v1/devices", h.ListDevices)
	mux.HandleFunc("GET /api/v1/testimonials", h.ListTestimonials)
	mux.HandleFunc("GET /api/v1/inquiries", h.ListInquiries)
	mux.HandleFunc("GET /api/v1/landing-pages", h.ListLandingPages)
	mux.HandleFunc("POST /api/v1/landing-pages", h.CreateLandingPage)
	mux.HandleFunc("GET /api/v1/refdata", h.RefData)
	mux.HandleFunc("POST /api/v1/tools/coordinates", h.ExtractCoordinates)
	mux.HandleFunc("POST /api/v1/tools/markdown-preview", h.MarkdownPreview)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	buf := h.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		h.bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error","code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg, Code: status})
}

// writeUpstreamError maps a failed backend call to a gateway response:
// backend rejections keep their status, transport failures become 502.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *clinics.APIError
	if errors.As(err, &apiErr) {
		h.writeError(w, apiErr.Status, apiErr.Body)
		return
	}
	slog.Error("upstream request failed", "error", err)
	h.writeError(w, http.StatusBadGateway, "clinics backend unavailable")
}
