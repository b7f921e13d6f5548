package clinics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// ServiceInput is the writable shape of a service.
type ServiceInput struct {
	Name        string
	Description string
	Branches    []string
	DoctorIDs   []int64
	Image       model.ImageSource
}

// OfferInput is the writable shape of an offer.
type OfferInput struct {
	Title       string
	Description string
	PriceBefore string
	PriceAfter  string
	Branches    []string
	ServiceIDs  []int64
	DoctorIDs   []int64
	IsActive    bool
	Priority    int
	Image       model.ImageSource
}

// DeviceInput is the writable shape of a device.
type DeviceInput struct {
	Name         string
	DepartmentID int64
	Branches     []string
	WorkingSlots []string
	Image        model.ImageSource
}

// TestimonialInput is the writable shape of a testimonial.
type TestimonialInput struct {
	Title       string
	Subtitle    string
	Description string
	Rating      int
	Image       model.ImageSource
}

// jsonField serializes v for a JSON-array-string form field. The backend
// expects array-valued fields as JSON strings inside the form body.
func jsonField(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DiscountPercentage derives the discount from before/after prices.
// Returns empty when either price is missing or unparseable.
func DiscountPercentage(before, after string) string {
	b, err := decimal.NewFromString(before)
	if err != nil || b.IsZero() {
		return ""
	}
	a, err := decimal.NewFromString(after)
	if err != nil {
		return ""
	}
	pct := b.Sub(a).Div(b).Mul(decimal.NewFromInt(100)).Round(2)
	return pct.String()
}

// formBody builds a multipart body from scalar fields plus an optional
// image: files go under the "image" part, URLs under "imageUrl".
func formBody(fields map[string]string, image model.ImageSource) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if file, ok := image.File(); ok {
		part, err := w.CreateFormFile("image", file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	} else if url, ok := image.URL(); ok {
		if err := w.WriteField("imageUrl", url); err != nil {
			return nil, "", fmt.Errorf("write imageUrl field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) submitForm(ctx context.Context, sess *session.Session, method, path string, fields map[string]string, image model.ImageSource, out any) error {
	body, contentType, err := formBody(fields, image)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, sess, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func serviceFields(in ServiceInput) map[string]string {
	return map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"branches":    jsonField(in.Branches),
		"doctors_ids": jsonField(in.DoctorIDs),
	}
}

// CreateService creates a service record.
func (c *Client) CreateService(ctx context.Context, sess *session.Session, in ServiceInput) (*model.Service, error) {
	var created model.Service
	if err := c.submitForm(ctx, sess, http.MethodPost, "/services", serviceFields(in), in.Image, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateService updates a service record.
func (c *Client) UpdateService(ctx context.Context, sess *session.Session, id int64, in ServiceInput) (*model.Service, error) {
	var updated model.Service
	if err := c.submitForm(ctx, sess, http.MethodPut, "/services/"+strconv.FormatInt(id, 10), serviceFields(in), in.Image, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteService deletes a service record.
func (c *Client) DeleteService(ctx context.Context, sess *session.Session, id int64) error {
	resp, err := c.do(ctx, sess, http.MethodDelete, "/services/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func offerFields(in OfferInput) map[string]string {
	active := "0"
	if in.IsActive {
		active = "1"
	}
	return map[string]string{
		"title":              in.Title,
		"description":        in.Description,
		"priceBefore":        in.PriceBefore,
		"priceAfter":         in.PriceAfter,
		"discountPercentage": DiscountPercentage(in.PriceBefore, in.PriceAfter),
		"branches":           jsonField(in.Branches),
		"services_ids":       jsonField(in.ServiceIDs),
		"doctors_ids":        jsonField(in.DoctorIDs),
		"is_active":          active,
		"priority":           strconv.Itoa(in.Priority),
	}
}

// CreateOffer creates an offer record.
func (c *Client) CreateOffer(ctx context.Context, sess *session.Session, in OfferInput) (*model.Offer, error) {
	var created model.Offer
	if err := c.submitForm(ctx, sess, http.MethodPost, "/offers", offerFields(in), in.Image, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateOffer updates an offer record.
func (c *Client) UpdateOffer(ctx context.Context, sess *session.Session, id int64, in OfferInput) (*model.Offer, error) {
	var updated model.Offer
	if err := c.submitForm(ctx, sess, http.MethodPut, "/offers/"+strconv.FormatInt(id, 10), offerFields(in), in.Image, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOffer deletes an offer record.
func (c *Client) DeleteOffer(ctx context.Context, sess *session.Session, id int64) error {
	resp, err := c.do(ctx, sess, http.MethodDelete, "/offers/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func deviceFields(in DeviceInput) map[string]string {
	return map[string]string{
		"name":               in.Name,
		"department_id":      strconv.FormatInt(in.DepartmentID, 10),
		"branches":           jsonField(in.Branches),
		"working_time_slots": jsonField(in.WorkingSlots),
	}
}

// CreateDevice creates a device record.
func (c *Client) CreateDevice(ctx context.Context, sess *session.Session, in DeviceInput) (*model.Device, error) {
	var created model.Device
	if err := c.submitForm(ctx, sess, http.MethodPost, "/devices", deviceFields(in), in.Image, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDevice updates a device record.
func (c *Client) UpdateDevice(ctx context.Context, sess *session.Session, id int64, in DeviceInput) (*model.Device, error) {
	var updated model.Device
	if err := c.submitForm(ctx, sess, http.MethodPut, "/devices/"+strconv.FormatInt(id, 10), deviceFields(in), in.Image, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDevice deletes a device record.
func (c *Client) DeleteDevice(ctx context.Context, sess *session.Session, id int64) error {
	resp, err := c.do(ctx, sess, http.MethodDelete, "/devices/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func testimonialFields(in TestimonialInput) map[string]string {
	return map[string]string{
		"title":  in.Title,
		"sub":    in.Subtitle,
		"des":    in.Description,
		"rating": strconv.Itoa(in.Rating),
	}
}

// CreateTestimonial creates a testimonial record. Rating must be 1-5.
func (c *Client) CreateTestimonial(ctx context.Context, sess *session.Session, in TestimonialInput) (*model.Testimonial, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", in.Rating)
	}
	var created model.Testimonial
	if err := c.submitForm(ctx, sess, http.MethodPost, "/testimonials", testimonialFields(in), in.Image, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTestimonial updates a testimonial record.
func (c *Client) UpdateTestimonial(ctx context.Context, sess *session.Session, id int64, in TestimonialInput) (*model.Testimonial, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", in.Rating)
	}
	var updated model.Testimonial
	if err := c.submitForm(ctx, sess, http.MethodPut, "/testimonials/"+strconv.FormatInt(id, 10), testimonialFields(in), in.Image, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTestimonial deletes a testimonial record.
func (c *Client) DeleteTestimonial(ctx context.Context, sess *session.Session, id int64) error {
	resp, err := c.do(ctx, sess, http.MethodDelete, "/testimonials/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
