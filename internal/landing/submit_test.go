package landing

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// fakePublisher records every submission it receives.
type fakePublisher struct {
	calls   int
	form    *multipart.Form
	content string
	fail    error
	created model.LandingPage
}

func (p *fakePublisher) CreateLandingPage(_ context.Context, _ *session.Session, body io.Reader, contentType string) (*model.LandingPage, error) {
	p.calls++
	if p.fail != nil {
		return nil, p.fail
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, err
	}
	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		return nil, err
	}
	p.form = form
	if v := form.Value["content"]; len(v) > 0 {
		p.content = v[0]
	}
	created := p.created
	return &created, nil
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New("tok", config.RoleAdmin)
	require.NoError(t, err)
	return sess
}

func fileImage(name string, data string) model.ImageSource {
	return model.ImageFromFile(model.FileRef{Name: name, ContentType: "image/jpeg", Data: []byte(data)})
}

func TestSubmitRejectsInvalidDraftWithoutNetworkCall(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionOffers, true))

	pub := &fakePublisher{}
	created, errs, err := f.Submit(context.Background(), testSession(t), pub)

	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, msgOffersMin, errs["offers"])
	assert.Zero(t, pub.calls, "a rejected draft must not reach the network")
}

func TestSubmitPositionalImageCorrelation(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionOffers, true))

	entries := []OfferEntry{
		{Title: "A", Price: "10", Image: fileImage("a.jpg", "file-a"), Branches: []string{"Jeddah"}},
		{Title: "B", Price: "20", Image: model.ImageFromURL("https://cdn/b.jpg"), Branches: []string{"Jeddah"}},
		{Title: "C", Price: "30", Image: fileImage("c.jpg", "file-c"), Branches: []string{"Jeddah"}},
	}
	for _, e := range entries {
		require.NoError(t, f.AddOffer(e))
	}

	pub := &fakePublisher{created: model.LandingPage{ID: 7, Title: "Campaign"}}
	created, errs, err := f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NotNil(t, created)

	// Exactly the two file-backed entries produce file parts, in entry order.
	files := pub.form.File["offerImages"]
	require.Len(t, files, 2)
	assert.Equal(t, "offer_0.jpg", files[0].Filename)
	assert.Equal(t, "offer_2.jpg", files[1].Filename)

	// Placeholders carry the entry's index in the full array; the
	// URL-backed entry passes its URL through unchanged.
	assert.Contains(t, pub.content, `"image":"offer_0.jpg"`)
	assert.Contains(t, pub.content, `"image":"https://cdn/b.jpg"`)
	assert.Contains(t, pub.content, `"image":"offer_2.jpg"`)
}

func TestSubmitLandingImageFile(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionLandingScreen, true))
	f.SetLandingScreen(LandingScreenContent{
		Title: "Hero", Subtitle: "Sub", Description: "Desc",
		Image: fileImage("hero.png", "hero-bytes"),
	})

	pub := &fakePublisher{}
	_, errs, err := f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)
	require.Empty(t, errs)

	require.Len(t, pub.form.File["landingImage"], 1)
	assert.Equal(t, "landing.jpg", pub.form.File["landingImage"][0].Filename)
	assert.Contains(t, pub.content, `"image":"landing.jpg"`)
}

func TestSubmitScalarFields(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	f.Platforms = map[string]bool{"facebook": true, "tiktok": false}
	require.NoError(t, f.SetSectionVisible(config.SectionServices, true))
	require.NoError(t, f.AddService(ServiceEntry{Name: "Filler", Description: "desc", Branches: []string{"Jeddah"}}))

	pub := &fakePublisher{}
	_, errs, err := f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.Equal(t, "admin@masters", pub.form.Value["creator"][0])
	assert.Equal(t, "Campaign", pub.form.Value["title"][0])
	assert.JSONEq(t, `{"facebook":true,"tiktok":false}`, pub.form.Value["platforms"][0])
	assert.JSONEq(t,
		`{"landingScreen":false,"services":true,"offers":false,"doctors":false}`,
		pub.form.Value["showSections"][0])
}

func TestSubmitSuccessResetsAndPrepends(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionServices, true))
	require.NoError(t, f.AddService(ServiceEntry{Name: "Filler", Description: "desc", Branches: []string{"Jeddah"}}))

	pub := &fakePublisher{created: model.LandingPage{ID: 42, Title: "Campaign"}}
	created, _, err := f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)

	assert.Equal(t, Visibility{}, f.Visibility())
	assert.Empty(t, f.Content().Services)
	assert.Empty(t, f.Title)

	require.Len(t, f.Submitted(), 1)
	assert.Equal(t, int64(42), f.Submitted()[0].ID)

	// A second successful submit lands ahead of the first.
	f.Creator = "admin@masters"
	f.Title = "Second"
	require.NoError(t, f.SetSectionVisible(config.SectionServices, true))
	require.NoError(t, f.AddService(ServiceEntry{Name: "Botox", Description: "desc", Branches: []string{"Jeddah"}}))
	pub.created = model.LandingPage{ID: 43, Title: "Second"}
	_, _, err = f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)
	assert.Equal(t, int64(43), f.Submitted()[0].ID)
	assert.Equal(t, int64(42), f.Submitted()[1].ID)
}

func TestSubmitFailureLeavesStateUntouched(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionServices, true))
	require.NoError(t, f.AddService(ServiceEntry{Name: "Filler", Description: "desc", Branches: []string{"Jeddah"}}))

	pub := &fakePublisher{fail: errors.New("upstream down")}
	created, errs, err := f.Submit(context.Background(), testSession(t), pub)

	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Empty(t, errs)

	// Draft survives for user retry.
	assert.Equal(t, "Campaign", f.Title)
	assert.Len(t, f.Content().Services, 1)
	assert.True(t, f.Visibility().Services)
	assert.Empty(t, f.Submitted())
}

func TestSubmitSanitizesDescriptions(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionServices, true))
	require.NoError(t, f.AddService(ServiceEntry{
		Name:        "Filler",
		Description: `before<script>alert(1)</script>after`,
		Branches:    []string{"Jeddah"},
	}))

	pub := &fakePublisher{}
	_, errs, err := f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.NotContains(t, pub.content, "<script>")
	assert.Contains(t, pub.content, "before")
	assert.Contains(t, pub.content, "after")
}

func TestHiddenSectionsExcludedFromContent(t *testing.T) {
	f := newTestForm()
	f.Creator = "admin@masters"
	f.Title = "Campaign"
	require.NoError(t, f.SetSectionVisible(config.SectionServices, true))
	require.NoError(t, f.AddService(ServiceEntry{Name: "Filler", Description: "desc", Branches: []string{"Jeddah"}}))

	pub := &fakePublisher{}
	_, _, err := f.Submit(context.Background(), testSession(t), pub)
	require.NoError(t, err)

	assert.NotContains(t, pub.content, "landingScreen")
	assert.NotContains(t, pub.content, "offers")
	assert.Contains(t, pub.content, "services")
}
