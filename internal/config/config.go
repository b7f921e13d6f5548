package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultAPIBaseURL is the production clinics backend. Development
	// instances historically pointed at http://localhost:3000; the target
	// is configurable so neither host is baked into call sites.
	DefaultAPIBaseURL = "https://api.masters-clinics.com"

	// SessionTokenKey is the storage key the dashboard uses for the
	// bearer token.
	SessionTokenKey = "token"

	// DefaultPageLimit is the default number of rows per table page.
	DefaultPageLimit = 20

	// MaxPageLimit caps the per-request page size.
	MaxPageLimit = 100

	// DefaultRateLimit is the default requests per minute per IP address.
	DefaultRateLimit = 100

	// MaxUploadBytes caps a single submitted image payload (8 MiB).
	MaxUploadBytes = 8 << 20
)

// Section names for the landing-page builder. These are also the keys of
// the showSections map the backend expects.
const (
	SectionLandingScreen = "landingScreen"
	SectionServices      = "services"
	SectionOffers        = "offers"
	SectionDoctors       = "doctors"
)

// Dashboard roles permitted to call the gateway API.
const (
	RoleAdmin        = "admin"
	RoleMediaBuyer   = "mediabuyer"
	RoleCustomerCare = "customercare"
)

// KnownRoles lists every role the gateway accepts.
var KnownRoles = []string{RoleAdmin, RoleMediaBuyer, RoleCustomerCare}
