package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/clinics"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/geoloc"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// newTestHandler wires a Handler against a fake upstream backend.
func newTestHandler(t *testing.T, upstream http.HandlerFunc) (*Handler, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client, err := clinics.NewClient(srv.URL)
	require.NoError(t, err)
	h, err := New(client, geoloc.New(), nil)
	require.NoError(t, err)
	return h, srv
}

// doAuthed runs a request with a session already in context, the way the
// auth middleware would leave it.
func doAuthed(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	sess, err := session.New("tok", config.RoleAdmin)
	require.NoError(t, err)

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r = r.WithContext(session.WithContext(r.Context(), sess))

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

func TestListBranchesProxiesAndFilters(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/branches", r.URL.Path)
		fmt.Fprint(w, `[
			{"id":1,"name":"Riyadh North","address":"King Fahd Rd"},
			{"id":2,"name":"Jeddah","address":"Prince Sultan St"}
		]`)
	})

	rec := doAuthed(t, h, http.MethodGet, "/api/v1/branches?q=jeddah", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data  []json.RawMessage `json:"data"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Contains(t, string(page.Data[0]), "Jeddah")
}

func TestListRequiresSession(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMapsUpstreamFailure(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not allowed", http.StatusForbidden)
	})

	rec := doAuthed(t, h, http.MethodGet, "/api/v1/services", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateLandingPageInvalidDraftMakesNoUpstreamCall(t *testing.T) {
	var upstreamCalls atomic.Int32
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		fmt.Fprint(w, `{}`)
	})

	// Offers section shown but empty: the min-count rule must reject it.
	draft := `{
		"creator": "admin@masters",
		"title": "Campaign",
		"showSections": {"offers": true},
		"offers": []
	}`
	rec := doAuthed(t, h, http.MethodPost, "/api/v1/landing-pages", draft)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "offers")
	assert.Zero(t, upstreamCalls.Load())
}

func TestCreateLandingPageEntryErrors(t *testing.T) {
	var upstreamCalls atomic.Int32
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		fmt.Fprint(w, `{}`)
	})

	draft := `{
		"creator": "admin@masters",
		"title": "Campaign",
		"showSections": {"offers": true},
		"offers": [
			{"offer": "Laser", "price": "not-a-price", "branches": ["Jeddah"], "image": {"url": "https://cdn/x.jpg"}}
		]
	}`
	rec := doAuthed(t, h, http.MethodPost, "/api/v1/landing-pages", draft)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "offers[0]")
	assert.Zero(t, upstreamCalls.Load())
}

func TestCreateLandingPageSuccess(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/landingPage", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		assert.Equal(t, "admin@masters", r.FormValue("creator"))
		assert.Contains(t, r.FormValue("content"), `"offer":"Laser"`)
		require.Len(t, r.MultipartForm.File["offerImages"], 1)
		assert.Equal(t, "offer_0.jpg", r.MultipartForm.File["offerImages"][0].Filename)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":7,"creator":"admin@masters","title":"Campaign"}`)
	})

	// "aW1n" is base64 for "img".
	draft := `{
		"creator": "admin@masters",
		"title": "Campaign",
		"platforms": {"facebook": true},
		"showSections": {"offers": true},
		"offers": [
			{"offer": "Laser", "price": "999", "branches": ["Jeddah"],
			 "image": {"name": "promo.jpg", "contentType": "image/jpeg", "data": "aW1n"}}
		]
	}`
	rec := doAuthed(t, h, http.MethodPost, "/api/v1/landing-pages", draft)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(7), created.ID)
}

func TestRefDataSurvivesPartialFailure(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doctors":
			fmt.Fprint(w, `[{"id":1,"name":"Dr. Huda","specialization":"Derma"}]`)
		case "/services":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/offers":
			fmt.Fprint(w, `[]`)
		}
	})

	rec := doAuthed(t, h, http.MethodGet, "/api/v1/refdata", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "services")
}

func TestExtractCoordinatesDirect(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	body := `{"url": "https://www.google.com/maps/place/Clinic/@24.7136,46.6753,17z"}`
	rec := doAuthed(t, h, http.MethodPost, "/api/v1/tools/coordinates", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var coords geoloc.Coordinates
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coords))
	assert.InDelta(t, 24.7136, coords.Lat, 1e-9)
	assert.InDelta(t, 46.6753, coords.Lng, 1e-9)
}

func TestExtractCoordinatesMissingURL(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {})
	rec := doAuthed(t, h, http.MethodPost, "/api/v1/tools/coordinates", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkdownPreview(t *testing.T) {
	h, _ := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := doAuthed(t, h, http.MethodPost, "/api/v1/tools/markdown-preview",
		`{"markdown": "# Offer\n\n**bold**\n\n<script>alert(1)</script>"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MarkdownResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.HTML, "<h1")
	assert.Contains(t, resp.HTML, "<strong>bold</strong>")
	assert.NotContains(t, resp.HTML, "<script>")
}
