package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// ValidationResponse carries field-level validation errors for a
// rejected draft.
type ValidationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// RefDataResponse bundles the three reference lists the landing-page
// builder selects from, plus warnings for lists that failed to load.
type RefDataResponse struct {
	Doctors  any      `json:"doctors"`
	Services any      `json:"services"`
	Offers   any      `json:"offers"`
	Warnings []string `json:"warnings,omitempty"`
}

// CoordinatesRequest is the body of the coordinate-extraction tool.
type CoordinatesRequest struct {
	URL string `json:"url"`
}

// MarkdownRequest is the body of the markdown-preview tool.
type MarkdownRequest struct {
	Markdown string `json:"markdown"`
}

// MarkdownResponse is the rendered, sanitized HTML.
type MarkdownResponse struct {
	HTML string `json:"html"`
}

// ImagePayload is an inbound image: either a URL or a base64 file.
type ImagePayload struct {
	URL         string `json:"url,omitempty"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Data        string `json:"data,omitempty"`
}

// LandingDraft is the complete landing-page draft as posted by the
// dashboard. Entry field names mirror the content payload the backend
// stores ("offer" is the offer title).
type LandingDraft struct {
	Creator   string          `json:"creator"`
	Title     string          `json:"title"`
	Platforms map[string]bool `json:"platforms"`
	Sections  map[string]bool `json:"showSections"`

	LandingScreen struct {
		Title       string       `json:"title"`
		Subtitle    string       `json:"subtitle"`
		Description string       `json:"description"`
		Image       ImagePayload `json:"image"`
	} `json:"landingScreen"`

	Services []struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Branches    []string `json:"branches"`
	} `json:"services"`

	Offers []struct {
		Offer       string       `json:"offer"`
		Price       string       `json:"price"`
		Description string       `json:"description"`
		Image       ImagePayload `json:"image"`
		Branches    []string     `json:"branches"`
	} `json:"offers"`

	Doctors []struct {
		Name           string       `json:"name"`
		Specialization string       `json:"specialization"`
		Image          ImagePayload `json:"image"`
		Branches       []string     `json:"branches"`
	} `json:"doctors"`
}
