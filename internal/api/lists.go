package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/table"
)

// serveList proxies one upstream list through in-memory filtering,
// sorting and pagination.
func serveList[T any](
	h *Handler,
	w http.ResponseWriter,
	r *http.Request,
	fetch func(context.Context, *session.Session) ([]T, error),
	text func(T) string,
	sortVal func(T, string) string,
) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	items, err := fetch(r.Context(), sess)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	page := table.Apply(items, table.ParseQuery(r.URL.Query()), text, sortVal)
	h.writeJSON(w, http.StatusOK, page)
}

// ListRegions serves the regions table.
func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Regions,
		func(x model.Region) string { return x.Name },
		func(x model.Region, field string) string {
			if field == "name" {
				return x.Name
			}
			return ""
		})
}

// ListBranches serves the branches table.
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Branches,
		func(x model.Branch) string { return x.Name + " " + x.Address },
		func(x model.Branch, field string) string {
			switch field {
			case "name":
				return x.Name
			case "address":
				return x.Address
			}
			return ""
		})
}

// ListDepartments serves the departments table.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Departments,
		func(x model.Department) string { return x.Name },
		func(x model.Department, field string) string {
			if field == "name" {
				return x.Name
			}
			return ""
		})
}

// ListDoctors serves the doctors table.
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Doctors,
		func(x model.Doctor) string { return x.Name + " " + x.Specialization },
		func(x model.Doctor, field string) string {
			switch field {
			case "name":
				return x.Name
			case "specialization":
				return x.Specialization
			}
			return ""
		})
}

// ListServices serves the services table.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Services,
		func(x model.Service) string { return x.Name + " " + x.Description },
		func(x model.Service, field string) string {
			if field == "name" {
				return x.Name
			}
			return ""
		})
}

// ListOffers serves the offers table.
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Offers,
		func(x model.Offer) string { return x.Title + " " + x.Description },
		func(x model.Offer, field string) string {
			switch field {
			case "title":
				return x.Title
			case "priority":
				return strconv.Itoa(x.Priority)
			case "priceAfter":
				return x.PriceAfter
			}
			return ""
		})
}

// ListDevices serves the devices table.
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Devices,
		func(x model.Device) string { return x.Name },
		func(x model.Device, field string) string {
			if field == "name" {
				return x.Name
			}
			return ""
		})
}

// ListTestimonials serves the testimonials table.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Testimonials,
		func(x model.Testimonial) string { return x.Title + " " + x.Description },
		func(x model.Testimonial, field string) string {
			switch field {
			case "title":
				return x.Title
			case "rating":
				return strconv.Itoa(x.Rating)
			}
			return ""
		})
}

// ListInquiries serves the customer-inquiries table.
func (h *Handler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	serveList(h, w, r, h.clinics.Inquiries,
		func(x model.Inquiry) string { return x.Name + " " + x.Phone + " " + x.Message },
		func(x model.Inquiry, field string) string {
			switch field {
			case "name":
				return x.Name
			case "created_at":
				return x.CreatedAt
			}
			return ""
		})
}

// ListLandingPages merges locally journaled submissions (newest first)
// ahead of the upstream list so a page just created shows up without an
// upstream refetch.
func (h *Handler) ListLandingPages(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	upstream, err := h.clinics.LandingPages(r.Context(), sess)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	pages := upstream
	if h.journal != nil {
		recent, err := h.journal.RecentSubmissions(r.Context(), 10)
		if err == nil {
			known := lo.SliceToMap(upstream, func(p model.LandingPage) (int64, bool) { return p.ID, true })
			fresh := lo.Filter(recent, func(p model.LandingPage, _ int) bool { return !known[p.ID] })
			pages = append(fresh, upstream...)
		}
	}

	page := table.Apply(pages, table.ParseQuery(r.URL.Query()),
		func(x model.LandingPage) string { return x.Title + " " + x.Creator },
		func(x model.LandingPage, field string) string {
			switch field {
			case "title":
				return x.Title
			case "creator":
				return x.Creator
			case "created_at":
				return x.CreatedAt
			}
			return ""
		})
	h.writeJSON(w, http.StatusOK, page)
}
