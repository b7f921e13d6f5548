package clinics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New("secret-token", config.RoleAdmin)
	require.NoError(t, err)
	return sess
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestListAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/branches", r.URL.Path)
		fmt.Fprint(w, `[{"id":1,"name":"Riyadh North","address":"King Fahd Rd"}]`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	branches, err := client.Branches(context.Background(), testSession(t))
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	require.Len(t, branches, 1)
	assert.Equal(t, "Riyadh North", branches[0].Name)
}

func TestListReturnsAPIErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Doctors(context.Background(), testSession(t))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, apiErr.Body, "boom")
}

func TestCreateOfferFormFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/offers", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		assert.Equal(t, "Laser package", r.FormValue("title"))
		assert.Equal(t, "1500", r.FormValue("priceBefore"))
		assert.Equal(t, "999", r.FormValue("priceAfter"))
		assert.Equal(t, "33.4", r.FormValue("discountPercentage"))
		assert.Equal(t, "1", r.FormValue("is_active"))
		assert.Equal(t, "2", r.FormValue("priority"))
		assert.JSONEq(t, `["Jeddah","Riyadh North"]`, r.FormValue("branches"))
		assert.JSONEq(t, `[10,11]`, r.FormValue("services_ids"))

		// The file part travels under "image".
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "promo.jpg", header.Filename)

		fmt.Fprint(w, `{"id":5,"title":"Laser package"}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	created, err := client.CreateOffer(context.Background(), testSession(t), OfferInput{
		Title:       "Laser package",
		PriceBefore: "1500",
		PriceAfter:  "999",
		Branches:    []string{"Jeddah", "Riyadh North"},
		ServiceIDs:  []int64{10, 11},
		IsActive:    true,
		Priority:    2,
		Image:       model.ImageFromFile(model.FileRef{Name: "promo.jpg", ContentType: "image/jpeg", Data: []byte("jpg")}),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}

func TestSubmitFormSendsImageURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "https://cdn/t.jpg", r.FormValue("imageUrl"))
		_, _, err := r.FormFile("image")
		assert.Error(t, err, "no file part expected for URL images")
		fmt.Fprint(w, `{"id":9,"title":"Great"}`)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.CreateTestimonial(context.Background(), testSession(t), TestimonialInput{
		Title: "Great", Subtitle: "sub", Description: "des", Rating: 5,
		Image: model.ImageFromURL("https://cdn/t.jpg"),
	})
	require.NoError(t, err)
}

func TestCreateTestimonialRejectsBadRating(t *testing.T) {
	client, err := NewClient("http://unused")
	require.NoError(t, err)

	for _, rating := range []int{0, 6, -1} {
		_, err := client.CreateTestimonial(context.Background(), testSession(t), TestimonialInput{
			Title: "x", Rating: rating,
		})
		assert.Error(t, err, "rating %d", rating)
	}
}

func TestDeleteService(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.DeleteService(context.Background(), testSession(t), 42))
	assert.Equal(t, "/services/42", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		name     string
		before   string
		after    string
		expected string
	}{
		{"one third off", "1500", "999", "33.4"},
		{"half off", "200", "100", "50"},
		{"exact thirds round", "300", "100", "66.67"},
		{"free", "80", "0", "100"},
		{"missing before", "", "100", ""},
		{"zero before", "0", "100", ""},
		{"garbage", "abc", "100", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DiscountPercentage(tt.before, tt.after))
		})
	}
}
