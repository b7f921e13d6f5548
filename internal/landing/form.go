package landing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not finished.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// ErrUnknownSection is returned for a section name outside the four
// known sections.
var ErrUnknownSection = errors.New("unknown section")

// Publisher posts an assembled landing page to the backend.
// *clinics.Client satisfies it.
type Publisher interface {
	CreateLandingPage(ctx context.Context, sess *session.Session, body io.Reader, contentType string) (*model.LandingPage, error)
}

// Form is the sectioned landing-page builder. It owns the draft content
// of the four togglable sections, the per-index image preview caches,
// and the pools of existing records still available for selection.
//
// A Form belongs to a single editing flow and is not safe for use from
// multiple goroutines, except that Submit guards against duplicate
// concurrent invocation.
type Form struct {
	Creator   string
	Title     string
	Platforms map[string]bool

	schema  *Schema
	content Content

	// Reference pools fetched once on creation.
	existingDoctors  []model.Doctor
	existingServices []model.Service
	existingOffers   []model.Offer

	// Source ids already copied into a section, keyed by section name.
	consumed map[string]map[int64]struct{}

	// Per-index preview strings for the offers and doctors sections,
	// plus the single landing-screen preview.
	previews       map[string][]string
	landingPreview string

	submitted []model.LandingPage

	mu       sync.Mutex
	inFlight bool

	logger *slog.Logger
}

// FormOption is a functional option for configuring a Form.
type FormOption func(*Form)

// WithLogger sets a custom logger for the form.
func WithLogger(logger *slog.Logger) FormOption {
	return func(f *Form) {
		f.logger = logger
	}
}

// NewForm creates a fresh builder with all sections hidden and the given
// reference lists available for selection.
func NewForm(doctors []model.Doctor, services []model.Service, offers []model.Offer, opts ...FormOption) *Form {
	f := &Form{
		Platforms:        map[string]bool{},
		schema:           BuildSchema(Visibility{}),
		existingDoctors:  doctors,
		existingServices: services,
		existingOffers:   offers,
		consumed:         emptyConsumed(),
		previews:         emptyPreviews(),
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func emptyConsumed() map[string]map[int64]struct{} {
	return map[string]map[int64]struct{}{
		config.SectionServices: {},
		config.SectionOffers:   {},
		config.SectionDoctors:  {},
	}
}

func emptyPreviews() map[string][]string {
	return map[string][]string{
		config.SectionOffers:  {},
		config.SectionDoctors: {},
	}
}

// Visibility returns the current visibility map.
func (f *Form) Visibility() Visibility {
	return f.schema.Visibility()
}

// Content returns the current draft content.
func (f *Form) Content() Content {
	return f.content
}

// Submitted returns the pages created through this form, newest first.
func (f *Form) Submitted() []model.LandingPage {
	return f.submitted
}

// SetSectionVisible toggles a section. Hiding a section resets its
// content to the empty default in the same step, and the validation
// schema is rebuilt from the new visibility map either way, so hidden
// fields can never hold stale required data.
func (f *Form) SetSectionVisible(section string, visible bool) error {
	vis := f.schema.Visibility()
	switch section {
	case config.SectionLandingScreen:
		if !visible {
			f.content.LandingScreen = LandingScreenContent{}
			f.landingPreview = ""
		}
		vis.LandingScreen = visible
	case config.SectionServices:
		if !visible {
			f.content.Services = nil
		}
		vis.Services = visible
	case config.SectionOffers:
		if !visible {
			f.content.Offers = nil
			f.previews[config.SectionOffers] = []string{}
		}
		vis.Offers = visible
	case config.SectionDoctors:
		if !visible {
			f.content.Doctors = nil
			f.previews[config.SectionDoctors] = []string{}
		}
		vis.Doctors = visible
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	f.schema = BuildSchema(vis)
	return nil
}

// AvailableServices returns existing services not yet copied into the
// services section.
func (f *Form) AvailableServices() []model.Service {
	return lo.Filter(f.existingServices, func(s model.Service, _ int) bool {
		_, used := f.consumed[config.SectionServices][s.ID]
		return !used
	})
}

// AvailableOffers returns existing offers not yet copied into the offers
// section.
func (f *Form) AvailableOffers() []model.Offer {
	return lo.Filter(f.existingOffers, func(o model.Offer, _ int) bool {
		_, used := f.consumed[config.SectionOffers][o.ID]
		return !used
	})
}

// AvailableDoctors returns existing doctors not yet copied into the
// doctors section.
func (f *Form) AvailableDoctors() []model.Doctor {
	return lo.Filter(f.existingDoctors, func(d model.Doctor, _ int) bool {
		_, used := f.consumed[config.SectionDoctors][d.ID]
		return !used
	})
}

// SelectExistingService copies an existing service into the section and
// removes it from the available pool. Unknown or already-consumed ids
// are a no-op; the return value reports whether an entry was added.
func (f *Form) SelectExistingService(id int64) bool {
	if _, used := f.consumed[config.SectionServices][id]; used {
		return false
	}
	src, found := lo.Find(f.existingServices, func(s model.Service) bool { return s.ID == id })
	if !found {
		return false
	}
	f.content.Services = append(f.content.Services, ServiceEntry{
		Name:        src.Name,
		Description: src.Description,
		Branches:    append([]string{}, src.Branches...),
		SourceID:    src.ID,
	})
	f.consumed[config.SectionServices][id] = struct{}{}
	return true
}

// SelectExistingOffer copies an existing offer into the section.
func (f *Form) SelectExistingOffer(id int64) bool {
	if _, used := f.consumed[config.SectionOffers][id]; used {
		return false
	}
	src, found := lo.Find(f.existingOffers, func(o model.Offer) bool { return o.ID == id })
	if !found {
		return false
	}
	entry := OfferEntry{
		Title:       src.Title,
		Price:       src.PriceAfter,
		Description: src.Description,
		Branches:    append([]string{}, src.Branches...),
		SourceID:    src.ID,
	}
	if src.Image != "" {
		entry.Image = model.ImageFromURL(src.Image)
	}
	f.content.Offers = append(f.content.Offers, entry)
	f.previews[config.SectionOffers] = append(f.previews[config.SectionOffers], entry.Image.Preview())
	f.consumed[config.SectionOffers][id] = struct{}{}
	return true
}

// SelectExistingDoctor copies an existing doctor into the section.
func (f *Form) SelectExistingDoctor(id int64) bool {
	if _, used := f.consumed[config.SectionDoctors][id]; used {
		return false
	}
	src, found := lo.Find(f.existingDoctors, func(d model.Doctor) bool { return d.ID == id })
	if !found {
		return false
	}
	entry := DoctorEntry{
		Name:           src.Name,
		Specialization: src.Specialization,
		Branches:       append([]string{}, src.Branches...),
		SourceID:       src.ID,
	}
	if src.Image != "" {
		entry.Image = model.ImageFromURL(src.Image)
	}
	f.content.Doctors = append(f.content.Doctors, entry)
	f.previews[config.SectionDoctors] = append(f.previews[config.SectionDoctors], entry.Image.Preview())
	f.consumed[config.SectionDoctors][id] = struct{}{}
	return true
}

// AddService appends a manually authored service entry. Incomplete
// drafts are rejected with an error rather than silently dropped.
func (f *Form) AddService(draft ServiceEntry) error {
	if draft.Name == "" || draft.Description == "" {
		return errors.New("service entry requires a name and a description")
	}
	draft.SourceID = 0
	f.content.Services = append(f.content.Services, draft)
	return nil
}

// AddOffer appends a manually authored offer entry. The price must be a
// positive decimal.
func (f *Form) AddOffer(draft OfferEntry) error {
	if draft.Title == "" || draft.Price == "" {
		return errors.New("offer entry requires a title and a price")
	}
	price, err := decimal.NewFromString(draft.Price)
	if err != nil {
		return fmt.Errorf("offer price %q is not a number: %w", draft.Price, err)
	}
	if !price.IsPositive() {
		return fmt.Errorf("offer price must be positive, got %s", price)
	}
	draft.SourceID = 0
	f.content.Offers = append(f.content.Offers, draft)
	f.previews[config.SectionOffers] = append(f.previews[config.SectionOffers], draft.Image.Preview())
	return nil
}

// AddDoctor appends a manually authored doctor entry.
func (f *Form) AddDoctor(draft DoctorEntry) error {
	if draft.Name == "" || draft.Specialization == "" {
		return errors.New("doctor entry requires a name and a specialization")
	}
	draft.SourceID = 0
	f.content.Doctors = append(f.content.Doctors, draft)
	f.previews[config.SectionDoctors] = append(f.previews[config.SectionDoctors], draft.Image.Preview())
	return nil
}

// RemoveService deletes the entry at index and re-runs the section's
// rules, returning the section's current field errors.
func (f *Form) RemoveService(index int) (FieldErrors, error) {
	if index < 0 || index >= len(f.content.Services) {
		return nil, fmt.Errorf("service index %d out of range", index)
	}
	f.content.Services = append(f.content.Services[:index], f.content.Services[index+1:]...)
	return f.sectionErrors(config.SectionServices), nil
}

// RemoveOffer deletes the entry at index, shifts the preview cache down
// by one, and re-runs the section's rules.
func (f *Form) RemoveOffer(index int) (FieldErrors, error) {
	if index < 0 || index >= len(f.content.Offers) {
		return nil, fmt.Errorf("offer index %d out of range", index)
	}
	f.content.Offers = append(f.content.Offers[:index], f.content.Offers[index+1:]...)
	f.removePreview(config.SectionOffers, index)
	return f.sectionErrors(config.SectionOffers), nil
}

// RemoveDoctor deletes the entry at index, shifts the preview cache down
// by one, and re-runs the section's rules.
func (f *Form) RemoveDoctor(index int) (FieldErrors, error) {
	if index < 0 || index >= len(f.content.Doctors) {
		return nil, fmt.Errorf("doctor index %d out of range", index)
	}
	f.content.Doctors = append(f.content.Doctors[:index], f.content.Doctors[index+1:]...)
	f.removePreview(config.SectionDoctors, index)
	return f.sectionErrors(config.SectionDoctors), nil
}

func (f *Form) removePreview(section string, index int) {
	cache := f.previews[section]
	if index < len(cache) {
		f.previews[section] = append(cache[:index], cache[index+1:]...)
	}
}

// sectionErrors validates and keeps only the errors belonging to one
// section.
func (f *Form) sectionErrors(section string) FieldErrors {
	out := FieldErrors{}
	for key, msg := range f.schema.Validate(&f.content) {
		if key == section || len(key) > len(section) && key[:len(section)] == section {
			out[key] = msg
		}
	}
	return out
}

// SetLandingScreen replaces the landing-screen content wholesale.
func (f *Form) SetLandingScreen(c LandingScreenContent) {
	f.content.LandingScreen = c
	f.landingPreview = c.Image.Preview()
}

// SetLandingImage replaces the landing-screen image. Whichever
// representation was active before is gone: an ImageSource holds at most
// one of file or URL.
func (f *Form) SetLandingImage(src model.ImageSource) {
	f.content.LandingScreen.Image = src
	f.landingPreview = src.Preview()
}

// SetOfferImage replaces the image of the offer entry at index.
func (f *Form) SetOfferImage(index int, src model.ImageSource) error {
	if index < 0 || index >= len(f.content.Offers) {
		return fmt.Errorf("offer index %d out of range", index)
	}
	f.content.Offers[index].Image = src
	f.previews[config.SectionOffers][index] = src.Preview()
	return nil
}

// SetDoctorImage replaces the image of the doctor entry at index.
func (f *Form) SetDoctorImage(index int, src model.ImageSource) error {
	if index < 0 || index >= len(f.content.Doctors) {
		return fmt.Errorf("doctor index %d out of range", index)
	}
	f.content.Doctors[index].Image = src
	f.previews[config.SectionDoctors][index] = src.Preview()
	return nil
}

// Previews returns the per-index preview cache for a section.
func (f *Form) Previews(section string) []string {
	return f.previews[section]
}

// LandingPreview returns the landing-screen image preview.
func (f *Form) LandingPreview() string {
	return f.landingPreview
}

// Validate runs the current schema over the whole draft.
func (f *Form) Validate() FieldErrors {
	return f.schema.Validate(&f.content)
}

// Reset clears all content, previews, consumed pools and visibility
// flags. The submitted-pages list is kept.
func (f *Form) Reset() {
	f.content = Content{}
	f.schema = BuildSchema(Visibility{})
	f.consumed = emptyConsumed()
	f.previews = emptyPreviews()
	f.landingPreview = ""
	f.Platforms = map[string]bool{}
	f.Title = ""
}

// Submit validates the draft, assembles the multipart body, and posts
// it. Validation failures are returned as field errors with no network
// call made. On success the form is reset and the created page is
// prepended to Submitted. On transport failure the draft is left
// untouched for retry.
func (f *Form) Submit(ctx context.Context, sess *session.Session, pub Publisher) (*model.LandingPage, FieldErrors, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, nil, ErrSubmitInFlight
	}
	f.inFlight = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	body, contentType, err := f.assemble()
	if err != nil {
		return nil, nil, fmt.Errorf("assemble landing page: %w", err)
	}

	created, err := pub.CreateLandingPage(ctx, sess, body, contentType)
	if err != nil {
		f.logger.Error("landing page submission failed", "title", f.Title, "error", err)
		return nil, nil, err
	}

	f.submitted = append([]model.LandingPage{*created}, f.submitted...)
	f.Reset()
	f.logger.Info("landing page created", "id", created.ID, "title", created.Title)
	return created, nil, nil
}
