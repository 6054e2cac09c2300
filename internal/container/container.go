package container

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nambiararyan24/portfolio/adapters/email"
	"github.com/nambiararyan24/portfolio/adapters/postgres"
	"github.com/nambiararyan24/portfolio/adapters/recaptcha"
	"github.com/nambiararyan24/portfolio/adapters/storage"
	"github.com/nambiararyan24/portfolio/app"
	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/domain/form"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/analytics"
	"github.com/nambiararyan24/portfolio/internal/auth"
	"github.com/nambiararyan24/portfolio/internal/config"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/forms"
	"github.com/nambiararyan24/portfolio/internal/metrics"
	"github.com/nambiararyan24/portfolio/internal/session"
	"github.com/nambiararyan24/portfolio/internal/submission"
	"github.com/nambiararyan24/portfolio/ports"
	"github.com/nambiararyan24/portfolio/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *applog.Logger

	// Infrastructure
	DB       *sqlx.DB
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Files    *storage.FileStore

	// Repositories (data access layer)
	Records    ports.RecordStore
	Repos      app.Repositories
	AdminUsers ports.AdminUserRepository
	Sessions   ports.AdminSessionStore
	redis      *session.RedisStore

	// Form handling
	Pipeline   *submission.Pipeline
	Dispatcher *analytics.Dispatcher
	Forms      *forms.Manager

	// Services
	Auth      *auth.Service
	Content   *app.ContentService
	Admin     *app.AdminService
	Dashboard *app.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *applog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = applog.NewNopLogger()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics.New(reg),
	}, nil
}

// Connect opens the PostgreSQL pool described by cfg
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	return db, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = db

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.initRepositories()

	if err := c.initSessions(ctx); err != nil {
		return fmt.Errorf("failed to initialize admin sessions: %w", err)
	}
	if err := c.initUploads(); err != nil {
		return fmt.Errorf("failed to initialize uploads: %w", err)
	}
	if err := c.initForms(); err != nil {
		return fmt.Errorf("failed to initialize forms: %w", err)
	}
	c.initServices()

	c.Logger.Info("[Container] initialized")
	return nil
}

func (c *Container) initRepositories() {
	c.Records = postgres.NewRecordStore(c.DB)
	c.Repos = app.Repositories{
		Services: postgres.NewServiceRepository(c.DB),
		Projects: postgres.NewProjectRepository(c.DB),
		Reviews:  postgres.NewReviewRepository(c.DB),
		Tools:    postgres.NewToolRepository(c.DB),
		Leads:    postgres.NewLeadRepository(c.DB),
	}
	c.AdminUsers = postgres.NewAdminUserRepository(c.DB)
}

// initSessions uses Redis when configured and the in-process store otherwise
func (c *Container) initSessions(ctx context.Context) error {
	if c.Config.Redis.URL == "" {
		c.Logger.Warn("[Container] REDIS_URL not set, admin sessions are kept in memory")
		c.Sessions = session.NewMemoryStore()
		return nil
	}
	store, err := session.Dial(ctx, c.Config.Redis.URL, c.Config.Redis.Prefix)
	if err != nil {
		return err
	}
	c.redis = store
	c.Sessions = store
	return nil
}

func (c *Container) initUploads() error {
	files, err := storage.NewDiskFileStore(c.Config.Uploads.Dir)
	if err != nil {
		return err
	}
	c.Files = files
	return nil
}

func (c *Container) initForms() error {
	catalog, err := form.DefaultCatalog()
	if err != nil {
		return err
	}

	emailCfg := c.Config.Email
	opts := []submission.Option{
		submission.WithLogger(c.Logger),
		submission.WithMetrics(c.Metrics),
		submission.WithNotifier(
			email.New(emailCfg.ResendAPIKey, emailCfg.APIBaseURL, emailCfg.Timeout, c.Logger),
			submission.NotifyConfig{
				AdminEmail:    emailCfg.AdminEmail,
				From:          emailCfg.From,
				AutoReplyFrom: emailCfg.AutoReply,
				SiteURL:       emailCfg.SiteURL,
			},
		),
	}
	rc := c.Config.Recaptcha
	if verifier := recaptcha.NewVerifier(rc.Secret, rc.VerifyURL, rc.MinScore, emailCfg.Timeout); verifier != nil {
		opts = append(opts, submission.WithVerifier(verifier))
	} else {
		c.Logger.Info("[Container] RECAPTCHA_SECRET not set, bot verification disabled")
	}
	c.Pipeline = submission.NewPipeline(c.Records, opts...)

	sink := analytics.MultiSink{analytics.NewLogSink(c.Logger), analytics.NewMetricsSink(c.Metrics)}
	c.Dispatcher = analytics.NewDispatcher(sink, c.Config.Forms.AnalyticsBuffer,
		analytics.WithLogger(c.Logger), analytics.WithMetrics(c.Metrics))

	c.Forms = forms.NewManager(catalog, c.Pipeline, c.Dispatcher,
		forms.WithIdleTTL(c.Config.Forms.SessionIdleTTL),
		forms.WithAbandonWindow(c.Config.Forms.AbandonWindow),
		forms.WithMaxSessions(c.Config.Forms.MaxSessions),
		forms.WithLogger(c.Logger),
		forms.WithMetrics(c.Metrics),
	)
	c.Forms.Start()
	return nil
}

func (c *Container) initServices() {
	c.Auth = auth.NewService(c.AdminUsers, c.Sessions,
		auth.WithTTL(c.Config.Admin.SessionTTL),
		auth.WithLogger(c.Logger),
	)
	c.Content = app.NewContentService(c.Repos.Services, c.Repos.Projects, c.Repos.Reviews, c.Repos.Tools,
		c.Config.Content.ApprovedReviewsOnly, c.Logger)
	c.Admin = app.NewAdminService(c.Repos, c.Logger)
	c.Dashboard = app.NewDashboardService(c.Repos, core.SystemClock{})
}

// BootstrapAdmin creates the first admin from ADMIN_EMAIL/ADMIN_PASSWORD
// when no admin exists yet.
func (c *Container) BootstrapAdmin(ctx context.Context) error {
	email, password := c.Config.Admin.BootstrapEmail, c.Config.Admin.BootstrapPassword
	if email == "" || password == "" {
		return nil
	}
	created, err := c.Auth.Bootstrap(ctx, email, password)
	if err != nil {
		return err
	}
	if created {
		c.Logger.Info("[Container] bootstrapped admin %s", email)
	}
	return nil
}

// HTTP builds the HTTP application over the container's services
func (c *Container) HTTP() *ui.App {
	return ui.NewApp(ui.Deps{
		Content:   c.Content,
		Admin:     c.Admin,
		Dashboard: c.Dashboard,
		Forms:     c.Forms,
		Auth:      c.Auth,
		Files:     c.Files,
		Gatherer:  c.Registry,
		Ping:      c.DB.PingContext,
		Logger:    c.Logger,
	}, ui.Config{
		AllowedOrigin:  c.Config.Server.AllowedOrigin,
		SecureCookies:  c.Config.Server.SecureCookies,
		TrustProxy:     c.Config.Server.TrustProxy,
		MaxUploadBytes: int64(c.Config.Uploads.MaxUploadMB) << 20,
		FilesPath:      c.Config.Uploads.PublicPath,
		SubmitPerMin:   c.Config.Forms.SubmitRatePerMin,
		SubmitBurst:    c.Config.Forms.SubmitBurst,
		OpenPerMin:     c.Config.Forms.OpenRatePerMin,
		OpenBurst:      c.Config.Forms.OpenBurst,
	})
}

// Shutdown stops background work and closes connections. Every step runs
// even when an earlier one fails.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	if c.Forms != nil {
		errs = append(errs, c.Forms.Shutdown(ctx))
	}
	if c.Dispatcher != nil {
		errs = append(errs, c.Dispatcher.Close(ctx))
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	_ = c.Logger.Sync()
	return stderrors.Join(errs...)
}
