package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/landing"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/refdata"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// RefData serves the three reference lists the builder selects from.
// Lists that failed to load come back empty with a warning instead of
// failing the whole response.
func (h *Handler) RefData(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	result := refdata.Load(r.Context(), h.clinics, sess)
	h.writeJSON(w, http.StatusOK, RefDataResponse{
		Doctors:  result.Doctors,
		Services: result.Services,
		Offers:   result.Offers,
		Warnings: result.Warnings(),
	})
}

// toSource converts an inbound image payload to the tagged ImageSource.
// A payload with both url and data set keeps only the file: the two
// representations are mutually exclusive.
func (p ImagePayload) toSource() (model.ImageSource, error) {
	if p.Data != "" {
		raw, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return model.ImageSource{}, fmt.Errorf("decode image data: %w", err)
		}
		if len(raw) > config.MaxUploadBytes {
			return model.ImageSource{}, fmt.Errorf("image exceeds %d bytes", config.MaxUploadBytes)
		}
		return model.ImageFromFile(model.FileRef{
			Name:        p.Name,
			ContentType: p.ContentType,
			Data:        raw,
		}), nil
	}
	if p.URL != "" {
		return model.ImageFromURL(p.URL), nil
	}
	return model.ImageSource{}, nil
}

// CreateLandingPage drives the sectioned form pipeline for a complete
// draft: visibility flags first, then entries, then validation and the
// multipart submission. A draft that fails validation gets a 422 with
// field errors and no upstream call is made.
func (h *Handler) CreateLandingPage(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	var draft LandingDraft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*config.MaxUploadBytes)).Decode(&draft); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid draft payload: "+err.Error())
		return
	}

	form, fieldErrs, err := buildForm(&draft)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(fieldErrs) > 0 {
		h.writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:  "draft validation failed",
			Fields: fieldErrs,
		})
		return
	}

	created, validationErrs, err := form.Submit(r.Context(), sess, h.clinics)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	if len(validationErrs) > 0 {
		h.writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:  "draft validation failed",
			Fields: validationErrs,
		})
		return
	}

	if h.journal != nil {
		if _, err := h.journal.RecordSubmission(r.Context(), draft.Creator, *created); err != nil {
			// Journaling is best effort; the page is already created upstream.
			slog.Error("failed to journal landing-page submission", "id", created.ID, "error", err)
		}
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// buildForm populates a fresh Form from the draft. Entry-level rejects
// (incomplete manual entries, bad prices, bad image payloads) are
// collected as field errors.
func buildForm(draft *LandingDraft) (*landing.Form, landing.FieldErrors, error) {
	form := landing.NewForm(nil, nil, nil)
	form.Creator = draft.Creator
	form.Title = draft.Title
	if draft.Platforms != nil {
		form.Platforms = draft.Platforms
	}

	for _, section := range []string{
		config.SectionLandingScreen,
		config.SectionServices,
		config.SectionOffers,
		config.SectionDoctors,
	} {
		if err := form.SetSectionVisible(section, draft.Sections[section]); err != nil {
			return nil, nil, err
		}
	}

	fieldErrs := landing.FieldErrors{}
	vis := form.Visibility()

	if vis.LandingScreen {
		img, err := draft.LandingScreen.Image.toSource()
		if err != nil {
			fieldErrs[config.SectionLandingScreen+".image"] = err.Error()
		}
		form.SetLandingScreen(landing.LandingScreenContent{
			Title:       draft.LandingScreen.Title,
			Subtitle:    draft.LandingScreen.Subtitle,
			Description: draft.LandingScreen.Description,
			Image:       img,
		})
	}

	if vis.Services {
		for i, entry := range draft.Services {
			err := form.AddService(landing.ServiceEntry{
				Name:        entry.Name,
				Description: entry.Description,
				Branches:    entry.Branches,
			})
			if err != nil {
				fieldErrs[fmt.Sprintf("%s[%d]", config.SectionServices, i)] = err.Error()
			}
		}
	}

	if vis.Offers {
		for i, entry := range draft.Offers {
			key := fmt.Sprintf("%s[%d]", config.SectionOffers, i)
			img, err := entry.Image.toSource()
			if err != nil {
				fieldErrs[key+".image"] = err.Error()
				continue
			}
			err = form.AddOffer(landing.OfferEntry{
				Title:       entry.Offer,
				Price:       entry.Price,
				Description: entry.Description,
				Image:       img,
				Branches:    entry.Branches,
			})
			if err != nil {
				fieldErrs[key] = err.Error()
			}
		}
	}

	if vis.Doctors {
		for i, entry := range draft.Doctors {
			key := fmt.Sprintf("%s[%d]", config.SectionDoctors, i)
			img, err := entry.Image.toSource()
			if err != nil {
				fieldErrs[key+".image"] = err.Error()
				continue
			}
			err = form.AddDoctor(landing.DoctorEntry{
				Name:           entry.Name,
				Specialization: entry.Specialization,
				Image:          img,
				Branches:       entry.Branches,
			})
			if err != nil {
				fieldErrs[key] = err.Error()
			}
		}
	}

	return form, fieldErrs, nil
}
