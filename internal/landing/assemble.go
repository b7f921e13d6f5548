package landing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
)

// Multipart field names and image placeholders. File parts are appended
// in entry iteration order; the backend re-associates the k-th uploaded
// part of a section with the JSON entry whose image placeholder carries
// that entry's array index. Both sides of this positional contract must
// stay in sync with the backend.
const (
	fieldLandingImage = "landingImage"
	fieldOfferImages  = "offerImages"
	fieldDoctorImages = "doctorImages"

	landingPlaceholder = "landing.jpg"
)

func offerPlaceholder(index int) string {
	return fmt.Sprintf("offer_%d.jpg", index)
}

func doctorPlaceholder(index int) string {
	return fmt.Sprintf("doctor_%d.jpg", index)
}

// sanitizer strips unsafe markup from free-text descriptions before they
// are serialized into the content payload.
var sanitizer = bluemonday.UGCPolicy()

type landingScreenWire struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type serviceWire struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Branches    []string `json:"branches"`
}

type offerWire struct {
	Offer       string   `json:"offer"`
	Price       string   `json:"price"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image"`
	Branches    []string `json:"branches"`
}

type doctorWire struct {
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	Image          string   `json:"image"`
	Branches       []string `json:"branches"`
}

type contentWire struct {
	LandingScreen *landingScreenWire `json:"landingScreen,omitempty"`
	Services      []serviceWire      `json:"services,omitempty"`
	Offers        []offerWire        `json:"offers,omitempty"`
	Doctors       []doctorWire       `json:"doctors,omitempty"`
}

// imageFile pairs a file with the multipart field it belongs under,
// preserving append order.
type imageFile struct {
	field string
	file  model.FileRef
}

// assemble builds the outbound multipart body: scalar fields, the
// platforms and showSections bool maps as JSON strings, the full nested
// content as one JSON string with image placeholders substituted, and
// the raw image files. It must only run on a draft that already passed
// validation.
func (f *Form) assemble() (*bytes.Buffer, string, error) {
	vis := f.schema.Visibility()
	content := contentWire{}
	var files []imageFile

	if vis.LandingScreen {
		ls := f.content.LandingScreen
		wire := &landingScreenWire{
			Title:       ls.Title,
			Subtitle:    ls.Subtitle,
			Description: sanitizer.Sanitize(ls.Description),
		}
		if file, ok := ls.Image.File(); ok {
			wire.Image = landingPlaceholder
			file.Name = landingPlaceholder
			files = append(files, imageFile{field: fieldLandingImage, file: file})
		} else if url, ok := ls.Image.URL(); ok {
			wire.Image = url
		}
		content.LandingScreen = wire
	}

	if vis.Services {
		for _, entry := range f.content.Services {
			content.Services = append(content.Services, serviceWire{
				Name:        entry.Name,
				Description: sanitizer.Sanitize(entry.Description),
				Branches:    entry.Branches,
			})
		}
	}

	if vis.Offers {
		for i, entry := range f.content.Offers {
			wire := offerWire{
				Offer:       entry.Title,
				Price:       entry.Price,
				Description: sanitizer.Sanitize(entry.Description),
				Branches:    entry.Branches,
			}
			if file, ok := entry.Image.File(); ok {
				wire.Image = offerPlaceholder(i)
				file.Name = wire.Image
				files = append(files, imageFile{field: fieldOfferImages, file: file})
			} else if url, ok := entry.Image.URL(); ok {
				wire.Image = url
			}
			content.Offers = append(content.Offers, wire)
		}
	}

	if vis.Doctors {
		for i, entry := range f.content.Doctors {
			wire := doctorWire{
				Name:           entry.Name,
				Specialization: entry.Specialization,
				Branches:       entry.Branches,
			}
			if file, ok := entry.Image.File(); ok {
				wire.Image = doctorPlaceholder(i)
				file.Name = wire.Image
				files = append(files, imageFile{field: fieldDoctorImages, file: file})
			} else if url, ok := entry.Image.URL(); ok {
				wire.Image = url
			}
			content.Doctors = append(content.Doctors, wire)
		}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, "", fmt.Errorf("marshal content: %w", err)
	}
	platformsJSON, err := json.Marshal(f.Platforms)
	if err != nil {
		return nil, "", fmt.Errorf("marshal platforms: %w", err)
	}
	sectionsJSON, err := json.Marshal(vis.ShowSections())
	if err != nil {
		return nil, "", fmt.Errorf("marshal showSections: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	scalars := []struct{ key, value string }{
		{"creator", f.Creator},
		{"title", f.Title},
		{"platforms", string(platformsJSON)},
		{"showSections", string(sectionsJSON)},
		{"content", string(contentJSON)},
	}
	for _, field := range scalars {
		if err := w.WriteField(field.key, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.key, err)
		}
	}

	for _, img := range files {
		part, err := w.CreateFormFile(img.field, img.file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", img.field, err)
		}
		if _, err := part.Write(img.file.Data); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", img.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
