package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/stratuslabs/stratus/internal/api/middleware"
	"github.com/stratuslabs/stratus/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	RegisterHandler http.HandlerFunc
	LoginHandler    http.HandlerFunc
	LogoutHandler   http.HandlerFunc

	WeatherHandler        http.HandlerFunc
	GeocodeHandler        http.HandlerFunc
	ReverseGeocodeHandler http.HandlerFunc

	AnalyzeHandler http.HandlerFunc
	PollHandler    http.HandlerFunc

	ListLocationsHandler  http.HandlerFunc
	SaveLocationHandler   http.HandlerFunc
	DeleteLocationHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public routes
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Post("/api/v1/auth/register", orNotImplemented(deps.RegisterHandler))
	r.Post("/api/v1/auth/login", orNotImplemented(deps.LoginHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/auth/logout", orNotImplemented(deps.LogoutHandler))

		r.Get("/api/v1/weather", orNotImplemented(deps.WeatherHandler))
		r.Get("/api/v1/geocode", orNotImplemented(deps.GeocodeHandler))
		r.Get("/api/v1/geocode/reverse", orNotImplemented(deps.ReverseGeocodeHandler))

		r.Post("/api/v1/analyze", orNotImplemented(deps.AnalyzeHandler))
		r.Get("/api/v1/analyze/{analysisID}", orNotImplemented(deps.PollHandler))

		r.Get("/api/v1/locations", orNotImplemented(deps.ListLocationsHandler))
		r.Post("/api/v1/locations", orNotImplemented(deps.SaveLocationHandler))
		r.Delete("/api/v1/locations/{locationID}", orNotImplemented(deps.DeleteLocationHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
