package model

// Region groups branches geographically.
type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Branch is a single clinic location.
type Branch struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	RegionID int64    `json:"region_id"`
	Address  string   `json:"address"`
	MapLink  string   `json:"location_link,omitempty"`
	Lat      float64  `json:"latitude,omitempty"`
	Lng      float64  `json:"longitude,omitempty"`
	Phones   []string `json:"phone_numbers,omitempty"`
}

// Department is a medical department (dermatology, dentistry, ...).
type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Doctor is a practitioner record from the clinics backend.
type Doctor struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	DepartmentID   int64    `json:"department_id,omitempty"`
	Image          string   `json:"image,omitempty"`
	Branches       []string `json:"branches,omitempty"`
}

// Service is a treatment or procedure offered by the clinics.
type Service struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image,omitempty"`
	Branches    []string `json:"branches,omitempty"`
	DoctorIDs   []int64  `json:"doctors_ids,omitempty"`
}

// Offer is a promotional package with before/after pricing.
type Offer struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	PriceBefore        string   `json:"priceBefore"`
	PriceAfter         string   `json:"priceAfter"`
	DiscountPercentage string   `json:"discountPercentage,omitempty"`
	Image              string   `json:"image,omitempty"`
	Branches           []string `json:"branches,omitempty"`
	ServiceIDs         []int64  `json:"services_ids,omitempty"`
	DoctorIDs          []int64  `json:"doctors_ids,omitempty"`
	IsActive           bool     `json:"is_active"`
	Priority           int      `json:"priority,omitempty"`
}

// Device is a treatment device assigned to a department.
type Device struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	DepartmentID int64    `json:"department_id"`
	Branches     []string `json:"branches,omitempty"`
	WorkingSlots []string `json:"working_time_slots,omitempty"`
	Image        string   `json:"image,omitempty"`
}

// Testimonial is a customer review shown on public pages.
type Testimonial struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"sub"`
	Description string `json:"des"`
	Rating      int    `json:"rating"`
	Image       string `json:"image,omitempty"`
}

// Inquiry is a customer contact request routed to customer care.
type Inquiry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	BranchID  int64  `json:"branch_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LandingPage is a published landing page as the backend returns it.
type LandingPage struct {
	ID        int64           `json:"id"`
	Creator   string          `json:"creator"`
	Title     string          `json:"title"`
	Platforms map[string]bool `json:"platforms,omitempty"`
	Sections  map[string]bool `json:"showSections,omitempty"`
	Content   string          `json:"content,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}
