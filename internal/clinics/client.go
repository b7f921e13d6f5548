package clinics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/model"
	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/session"
)

// Client is a typed HTTP client for the clinics backend API. The base
// URL is resolved once at construction; the bearer token comes from the
// session passed to each call.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clinics api: status %d: %s", e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, sess *session.Session, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		// Keep a short excerpt for diagnostics; backend error bodies are small.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}
	return resp, nil
}

func getJSON[T any](ctx context.Context, c *Client, sess *session.Session, path string) (T, error) {
	var zero T
	resp, err := c.do(ctx, sess, http.MethodGet, path, nil, "")
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, fmt.Errorf("decode %s response: %w", path, err)
	}
	return out, nil
}

// Regions lists all regions.
func (c *Client) Regions(ctx context.Context, sess *session.Session) ([]model.Region, error) {
	return getJSON[[]model.Region](ctx, c, sess, "/regions")
}

// Branches lists all clinic branches.
func (c *Client) Branches(ctx context.Context, sess *session.Session) ([]model.Branch, error) {
	return getJSON[[]model.Branch](ctx, c, sess, "/branches")
}

// Departments lists all departments.
func (c *Client) Departments(ctx context.Context, sess *session.Session) ([]model.Department, error) {
	return getJSON[[]model.Department](ctx, c, sess, "/departments")
}

// Doctors lists all doctors.
func (c *Client) Doctors(ctx context.Context, sess *session.Session) ([]model.Doctor, error) {
	return getJSON[[]model.Doctor](ctx, c, sess, "/doctors")
}

// Services lists all services.
func (c *Client) Services(ctx context.Context, sess *session.Session) ([]model.Service, error) {
	return getJSON[[]model.Service](ctx, c, sess, "/services")
}

// Offers lists all offers.
func (c *Client) Offers(ctx context.Context, sess *session.Session) ([]model.Offer, error) {
	return getJSON[[]model.Offer](ctx, c, sess, "/offers")
}

// Devices lists all devices.
func (c *Client) Devices(ctx context.Context, sess *session.Session) ([]model.Device, error) {
	return getJSON[[]model.Device](ctx, c, sess, "/devices")
}

// Testimonials lists all testimonials.
func (c *Client) Testimonials(ctx context.Context, sess *session.Session) ([]model.Testimonial, error) {
	return getJSON[[]model.Testimonial](ctx, c, sess, "/testimonials")
}

// Inquiries lists customer inquiries.
func (c *Client) Inquiries(ctx context.Context, sess *session.Session) ([]model.Inquiry, error) {
	return getJSON[[]model.Inquiry](ctx, c, sess, "/inquiries")
}

// LandingPages lists previously published landing pages.
func (c *Client) LandingPages(ctx context.Context, sess *session.Session) ([]model.LandingPage, error) {
	return getJSON[[]model.LandingPage](ctx, c, sess, "/landingPage")
}

// CreateLandingPage posts a fully assembled multipart body (see the
// landing package) and returns the created record.
func (c *Client) CreateLandingPage(ctx context.Context, sess *session.Session, body io.Reader, contentType string) (*model.LandingPage, error) {
	resp, err := c.do(ctx, sess, http.MethodPost, "/landingPage", body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var created model.LandingPage
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode created landing page: %w", err)
	}
	return &created, nil
}
