// Package ui is the HTTP surface of the portfolio backend: public content,
// form submissions, wizard sessions, uploads and the admin API.
package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nambiararyan24/portfolio/app"
	"github.com/nambiararyan24/portfolio/domain/form"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/auth"
	"github.com/nambiararyan24/portfolio/internal/forms"
	"github.com/nambiararyan24/portfolio/ports"
)

// Deps are the services the handlers call
type Deps struct {
	Content   *app.ContentService
	Admin     *app.AdminService
	Dashboard *app.DashboardService
	Forms     *forms.Manager
	Auth      *auth.Service
	Files     ports.FileStore

	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// Ping reports storage health for /healthz; nil always reports ok.
	Ping   func(ctx context.Context) error
	Logger *applog.Logger
}

// Config holds HTTP settings
type Config struct {
	AllowedOrigin  string
	SecureCookies  bool
	MaxUploadBytes int64
	FilesPath      string
	SubmitPerMin   int
	SubmitBurst    int
	OpenPerMin     int
	OpenBurst      int

	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Leave it off unless a proxy in front overwrites those headers.
	TrustProxy bool
}

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	deps    Deps
	config  Config
	logger  *applog.Logger
	limiter *ipLimiter
	// opens limits wizard session creation
	opens *ipLimiter
}

// NewApp builds the router
func NewApp(deps Deps, config Config) *App {
	if deps.Logger == nil {
		deps.Logger = applog.NewNopLogger()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 10 << 20
	}
	if config.FilesPath == "" {
		config.FilesPath = "/files"
	}
	if config.SubmitPerMin <= 0 {
		config.SubmitPerMin = 5
	}
	if config.SubmitBurst <= 0 {
		config.SubmitBurst = 3
	}
	if config.OpenPerMin <= 0 {
		config.OpenPerMin = 30
	}
	if config.OpenBurst <= 0 {
		config.OpenBurst = 10
	}

	a := &App{
		router:  chi.NewRouter(),
		deps:    deps,
		config:  config,
		logger:  deps.Logger,
		limiter: newIPLimiter(perMinute(config.SubmitPerMin), config.SubmitBurst),
		opens:   newIPLimiter(perMinute(config.OpenPerMin), config.OpenBurst),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// ServeHTTP lets App be used directly as a handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Server returns an http.Server for addr with sane timeouts
func (a *App) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	if a.config.TrustProxy {
		a.router.Use(middleware.RealIP)
	}
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "application/json"))
	a.router.Use(cors(a.config.AllowedOrigin))
}

func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	if a.deps.Gatherer != nil {
		a.router.Handle("/metrics", promhttp.HandlerFor(a.deps.Gatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}))
	}
	a.router.Get(a.config.FilesPath+"/{name}", a.handleServeFile)

	a.router.Route("/api", func(r chi.Router) {
		// Public content
		r.Get("/services", a.handleServices)
		r.Get("/projects", a.handleProjects)
		r.Get("/projects/{slug}", a.handleProjectBySlug)
		r.Get("/reviews", a.handleReviews)
		r.Get("/tools", a.handleTools)

		// Single-request submissions
		r.Group(func(r chi.Router) {
			r.Use(a.limiter.Middleware(a.writeError))
			r.Post("/contact", a.handleSubmitOnce(form.Contact))
			r.Post("/submit-onboarding", a.handleSubmitOnce(form.Onboarding))
			r.Post("/submit-feedback", a.handleSubmitOnce(form.Feedback))
			r.Post("/upload-files", a.handleUpload)
		})

		// Wizard sessions
		r.Route("/forms/{form}/sessions", func(r chi.Router) {
			r.With(a.opens.Middleware(a.writeError)).Post("/", a.handleOpenSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.handleGetSession)
				r.Patch("/fields", a.handleSetFields)
				r.Post("/next", a.handleNext)
				r.Post("/previous", a.handlePrevious)
				r.Post("/events", a.handleEvent)
				r.With(a.limiter.Middleware(a.writeError)).Post("/submit", a.handleSubmitSession)
			})
		})
	})

	a.router.Route("/admin/api", func(r chi.Router) {
		r.Post("/login", a.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(a.deps.Auth.RequireAdmin(a.writeError))
			r.Post("/logout", a.handleLogout)
			r.Get("/me", a.handleMe)
			r.Get("/dashboard", a.handleDashboard)

			r.Get("/services", a.handleAdminListServices)
			r.Post("/services", a.handleAdminCreateService)
			r.Post("/services/reorder", a.handleReorder(a.deps.Admin.ReorderServices))
			r.Get("/services/{id}", get(a, a.deps.Admin.GetService))
			r.Put("/services/{id}", a.handleAdminUpdateService)
			r.Delete("/services/{id}", a.handleDelete(a.deps.Admin.DeleteService))

			r.Get("/projects", a.handleAdminListProjects)
			r.Post("/projects", a.handleAdminCreateProject)
			r.Post("/projects/reorder", a.handleReorder(a.deps.Admin.ReorderProjects))
			r.Get("/projects/{id}", get(a, a.deps.Admin.GetProject))
			r.Put("/projects/{id}", a.handleAdminUpdateProject)
			r.Delete("/projects/{id}", a.handleDelete(a.deps.Admin.DeleteProject))

			r.Get("/reviews", a.handleAdminListReviews)
			r.Post("/reviews", a.handleAdminCreateReview)
			r.Put("/reviews/{id}", a.handleAdminUpdateReview)
			r.Patch("/reviews/{id}/approval", a.handleApproveReview)
			r.Delete("/reviews/{id}", a.handleDelete(a.deps.Admin.DeleteReview))

			r.Get("/tools", a.handleAdminListTools)
			r.Post("/tools", a.handleAdminCreateTool)
			r.Put("/tools/{id}", a.handleAdminUpdateTool)
			r.Delete("/tools/{id}", a.handleDelete(a.deps.Admin.DeleteTool))

			r.Get("/leads", a.handleListLeads)
			r.Get("/leads/export", a.handleExportLeads)
			r.Get("/leads/{id}", get(a, a.deps.Admin.GetLead))
			r.Patch("/leads/{id}", a.handleMarkLead)
			r.Delete("/leads/{id}", a.handleDelete(a.deps.Admin.DeleteLead))
		})
	})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.deps.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.deps.Ping(ctx); err != nil {
			a.logger.Warn("[Health] storage ping failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
