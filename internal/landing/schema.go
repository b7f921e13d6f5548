package landing

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
)

// Validation messages shown inline in the dashboard. The product copy is
// Arabic; the keys in FieldErrors identify the offending field.
const (
	msgRequired      = "هذا الحقل مطلوب"
	msgImageRequired = "الصورة مطلوبة"
	msgServicesMin   = "يجب إضافة خدمة واحدة على الأقل"
	msgOffersMin     = "يجب إضافة عرض واحد على الأقل"
	msgDoctorsMin    = "يجب إضافة طبيب واحد على الأقل"
	msgBranchesMin   = "يجب اختيار فرع واحد على الأقل"
)

// Visibility is the section-visibility map. Hidden sections are excluded
// from validation and from the submitted payload.
type Visibility struct {
	LandingScreen bool
	Services      bool
	Offers        bool
	Doctors       bool
}

// ShowSections returns the map the backend expects in the showSections
// form field.
func (v Visibility) ShowSections() map[string]bool {
	return map[string]bool{
		config.SectionLandingScreen: v.LandingScreen,
		config.SectionServices:      v.Services,
		config.SectionOffers:        v.Offers,
		config.SectionDoctors:       v.Doctors,
	}
}

// LandingScreenContent is the hero section of a landing page.
type LandingScreenContent struct {
	Title       string            `validate:"required"`
	Subtitle    string            `validate:"required"`
	Description string            `validate:"required"`
	Image       model.ImageSource `validate:"-"`
}

// ServiceEntry is one service row in the services section. SourceID is
// the id of the existing record it was copied from, zero for manual
// entries.
type ServiceEntry struct {
	Name        string   `validate:"required"`
	Description string   `validate:"required"`
	Branches    []string `validate:"min=1,dive,required"`
	SourceID    int64    `validate:"-"`
}

// OfferEntry is one offer row in the offers section.
type OfferEntry struct {
	Title       string            `validate:"required"`
	Price       string            `validate:"required"`
	Description string
	Image       model.ImageSource `validate:"-"`
	Branches    []string          `validate:"min=1,dive,required"`
	SourceID    int64             `validate:"-"`
}

// DoctorEntry is one doctor row in the doctors section.
type DoctorEntry struct {
	Name           string            `validate:"required"`
	Specialization string            `validate:"required"`
	Image          model.ImageSource `validate:"-"`
	Branches       []string          `validate:"min=1,dive,required"`
	SourceID       int64             `validate:"-"`
}

// Content holds every section's draft state.
type Content struct {
	LandingScreen LandingScreenContent
	Services      []ServiceEntry
	Offers        []OfferEntry
	Doctors       []DoctorEntry
}

// FieldErrors maps field keys ("offers", "offers[1].price",
// "landingScreen.title") to user-facing messages.
type FieldErrors map[string]string

// Schema is the validation rule set for one visibility configuration.
// It is immutable; BuildSchema is called again whenever visibility
// changes.
type Schema struct {
	vis      Visibility
	validate *validator.Validate
}

// BuildSchema produces the rule set for the given visibility map. Fields
// of hidden sections carry no constraints.
func BuildSchema(vis Visibility) *Schema {
	return &Schema{
		vis:      vis,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Visibility returns the visibility map this schema was built from.
func (s *Schema) Visibility() Visibility {
	return s.vis
}

// Validate checks the content against the rules of every visible
// section. An empty result means the form may be submitted.
func (s *Schema) Validate(c *Content) FieldErrors {
	errs := FieldErrors{}

	if s.vis.LandingScreen {
		s.structErrors(errs, config.SectionLandingScreen, &c.LandingScreen)
		if c.LandingScreen.Image.IsZero() {
			errs[config.SectionLandingScreen+".image"] = msgImageRequired
		}
	}

	if s.vis.Services {
		if len(c.Services) == 0 {
			errs[config.SectionServices] = msgServicesMin
		}
		for i := range c.Services {
			s.structErrors(errs, fmt.Sprintf("%s[%d]", config.SectionServices, i), &c.Services[i])
		}
	}

	if s.vis.Offers {
		if len(c.Offers) == 0 {
			errs[config.SectionOffers] = msgOffersMin
		}
		for i := range c.Offers {
			key := fmt.Sprintf("%s[%d]", config.SectionOffers, i)
			s.structErrors(errs, key, &c.Offers[i])
			if c.Offers[i].Image.IsZero() {
				errs[key+".image"] = msgImageRequired
			}
		}
	}

	if s.vis.Doctors {
		if len(c.Doctors) == 0 {
			errs[config.SectionDoctors] = msgDoctorsMin
		}
		for i := range c.Doctors {
			key := fmt.Sprintf("%s[%d]", config.SectionDoctors, i)
			s.structErrors(errs, key, &c.Doctors[i])
			if c.Doctors[i].Image.IsZero() {
				errs[key+".image"] = msgImageRequired
			}
		}
	}

	return errs
}

// structErrors runs the tag-based rules of a single entry and records
// its failures under prefix.
func (s *Schema) structErrors(out FieldErrors, prefix string, entry any) {
	err := s.validate.Struct(entry)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[prefix] = err.Error()
		return
	}
	for _, fe := range verrs {
		key := prefix + "." + strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "min":
			out[key] = msgBranchesMin
		default:
			out[key] = msgRequired
		}
	}
}
