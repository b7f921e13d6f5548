package geoloc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoCoordinates is returned when every extraction strategy failed.
// Callers leave the coordinate fields empty and fall back to manual
// entry.
var ErrNoCoordinates = errors.New("no coordinates found in link")

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// URL shapes produced by map sharing links, tried in order:
// "@lat,lng" from browser URLs, "!3dlat!4dlng" from place links, and
// "?q=lat,lng" from search links (comma possibly percent-encoded).
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`),
	regexp.MustCompile(`!3d(-?\d+\.\d+)!4d(-?\d+\.\d+)`),
	regexp.MustCompile(`[?&]q=(-?\d+\.\d+)(?:,|%2C)(-?\d+\.\d+)`),
}

// Extractor resolves map sharing links to coordinates.
type Extractor struct {
	http *http.Client
}

// Option is a functional option for configuring an Extractor.
type Option func(*Extractor)

// WithHTTPClient replaces the HTTP client used to resolve shortened
// links.
func WithHTTPClient(h *http.Client) Option {
	return func(e *Extractor) {
		e.http = h
	}
}

// New creates an Extractor. The default client follows redirects with a
// 10 second timeout.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract attempts, in order: pattern matching on the raw link, pattern
// matching on the redirect-resolved link, and scraping the resolved
// page's og:image meta tag for a center=lat,lng parameter. The first
// strategy that matches wins and the rest never run.
func (e *Extractor) Extract(ctx context.Context, link string) (Coordinates, error) {
	if coords, ok := matchPatterns(link); ok {
		return coords, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("build request for %s: %w", link, err)
	}
	resp, err := e.http.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("resolve link %s: %w", link, err)
	}
	defer resp.Body.Close()

	if coords, ok := matchPatterns(resp.Request.URL.String()); ok {
		return coords, nil
	}

	if coords, ok := scrapeOGImage(resp); ok {
		return coords, nil
	}
	return Coordinates{}, ErrNoCoordinates
}

// matchPatterns runs the URL patterns against s, first match wins.
func matchPatterns(s string) (Coordinates, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		coords, err := parsePair(m[1], m[2])
		if err != nil {
			continue
		}
		return coords, true
	}
	return Coordinates{}, false
}

// scrapeOGImage looks for a meta[property="og:image"] tag whose content
// URL carries a center=lat,lng query parameter.
func scrapeOGImage(resp *http.Response) (Coordinates, bool) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Coordinates{}, false
	}
	content, exists := doc.Find(`meta[property="og:image"]`).Attr("content")
	if !exists {
		return Coordinates{}, false
	}
	img, err := url.Parse(content)
	if err != nil {
		return Coordinates{}, false
	}
	center := img.Query().Get("center")
	if center == "" {
		return Coordinates{}, false
	}
	parts := strings.SplitN(center, ",", 2)
	if len(parts) != 2 {
		return Coordinates{}, false
	}
	coords, err := parsePair(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	if err != nil {
		return Coordinates{}, false
	}
	return coords, true
}

func parsePair(latStr, lngStr string) (Coordinates, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude %q: %w", latStr, err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude %q: %w", lngStr, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("coordinates out of range: %s,%s", latStr, lngStr)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}
