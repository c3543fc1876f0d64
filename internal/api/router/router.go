package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/elmarkeb/clinicdesk/internal/agenda"
	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/auth"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
	httpmiddleware "github.com/elmarkeb/clinicdesk/internal/http/middleware"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/internal/revenue"
	"github.com/elmarkeb/clinicdesk/internal/visits"
	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AuthHandler         *auth.Handler
	PatientsHandler     *patients.Handler
	ServicesHandler     *catalog.Handler
	AppointmentsHandler *appointments.Handler
	VisitsHandler       *visits.Handler
	AgendaHandler       *agenda.Handler
	RevenueHandler      *revenue.Handler
	MetricsHandler      http.Handler
	AuthSecret          string
	SignInRatePerSec    float64
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			rate := cfg.SignInRatePerSec
			if rate <= 0 {
				rate = 1
			}
			public.With(httpmiddleware.RateLimit(rate, 5)).Post("/auth/signin", cfg.AuthHandler.SignIn)
		}
	})

	// Clinic endpoints (protected by JWT)
	r.Group(func(private chi.Router) {
		if cfg.AuthSecret != "" {
			private.Use(httpmiddleware.AdminJWT(cfg.AuthSecret))
		}

		if cfg.PatientsHandler != nil {
			private.Route("/patients", func(r chi.Router) {
				r.Get("/", cfg.PatientsHandler.List)
				r.Post("/", cfg.PatientsHandler.Create)
				r.Route("/{patientID}", func(r chi.Router) {
					r.Get("/", cfg.PatientsHandler.Get)
					r.Put("/", cfg.PatientsHandler.Update)
					r.Delete("/", cfg.PatientsHandler.Delete)
					if cfg.VisitsHandler != nil {
						r.Get("/visits", cfg.VisitsHandler.List)
					}
				})
			})
		}

		if cfg.ServicesHandler != nil {
			private.Route("/services", func(r chi.Router) {
				r.Get("/", cfg.ServicesHandler.List)
				r.Post("/", cfg.ServicesHandler.Create)
				r.Route("/{serviceID}", func(r chi.Router) {
					r.Get("/", cfg.ServicesHandler.Get)
					r.Put("/", cfg.ServicesHandler.Update)
					r.Delete("/", cfg.ServicesHandler.Delete)
				})
			})
		}

		if cfg.AppointmentsHandler != nil {
			private.Route("/appointments", func(r chi.Router) {
				r.Get("/", cfg.AppointmentsHandler.List)
				r.Post("/", cfg.AppointmentsHandler.Create)
				r.Patch("/{appointmentID}/complete", cfg.AppointmentsHandler.Complete)
			})
		}

		if cfg.AgendaHandler != nil {
			private.Route("/agenda", func(r chi.Router) {
				r.Get("/week", cfg.AgendaHandler.Week)
				r.Get("/day", cfg.AgendaHandler.Day)
			})
		}

		if cfg.RevenueHandler != nil {
			private.Get("/revenue", cfg.RevenueHandler.Get)
		}
	})

	return r
}
