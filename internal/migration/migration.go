package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	logger  *applog.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *applog.Logger) *MigrationRunner {
	if logger == nil {
		logger = applog.NewNopLogger()
	}
	return &MigrationRunner{
		version: "1.0.0",
		logger:  logger,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

type step struct {
	name string
	sql  string
}

// steps lists the DDL in execution order. Every statement is idempotent.
func (r *MigrationRunner) steps() []step {
	return []step{
		{"services table", `
		CREATE TABLE IF NOT EXISTS services (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL,
			icon_url TEXT NOT NULL DEFAULT '',
			type VARCHAR(20) NOT NULL CHECK (type IN ('Product', 'Skill')),
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`},
		{"tools table", `
		CREATE TABLE IF NOT EXISTS tools (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			logo_url TEXT NOT NULL,
			link TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`},
		{"projects table", `
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title VARCHAR(200) NOT NULL,
			short_description VARCHAR(500) NOT NULL,
			thumbnail_url TEXT NOT NULL DEFAULT '',
			full_description TEXT NOT NULL DEFAULT '',
			tools_used TEXT[] NOT NULL DEFAULT '{}',
			case_study_content TEXT NOT NULL DEFAULT '',
			external_link TEXT,
			slug VARCHAR(200) UNIQUE NOT NULL,
			start_date VARCHAR(7),
			end_date VARCHAR(7),
			type VARCHAR(100),
			status VARCHAR(50),
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`},
		{"reviews table", `
		CREATE TABLE IF NOT EXISTS reviews (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(200) NOT NULL,
			company VARCHAR(200) NOT NULL,
			content TEXT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			project_id UUID REFERENCES projects(id) ON DELETE SET NULL,
			is_approved BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`},
		{"leads table", `
		CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(200) NOT NULL,
			email VARCHAR(320) NOT NULL,
			phone VARCHAR(50),
			company VARCHAR(200),
			project_type VARCHAR(100) NOT NULL,
			budget_range VARCHAR(100),
			timeline VARCHAR(100),
			message TEXT NOT NULL,
			preferred_contact_method VARCHAR(10) CHECK (preferred_contact_method IN ('email', 'phone', 'either')),
			newsletter_signup BOOLEAN NOT NULL DEFAULT false,
			files TEXT[] NOT NULL DEFAULT '{}',
			lead_score INTEGER CHECK (lead_score BETWEEN 0 AND 100),
			read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`},
		{"admin_users table", `
		CREATE TABLE IF NOT EXISTS admin_users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(320) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`},
	}
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_services_display_order ON services(display_order)",
	"CREATE INDEX IF NOT EXISTS idx_projects_display_order ON projects(display_order)",
	"CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_reviews_project_id ON reviews(project_id)",
	"CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_leads_read ON leads(read)",
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, s := range r.steps() {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return errors.Wrapf(err, "failed to create %s", s.name)
		}
		r.logger.Debug("[Migration] %s ready", s.name)
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Index failures are not fatal
			r.logger.Warn("[Migration] failed to create index: %v", err)
		}
	}

	r.logger.Info("[Migration] schema version %s applied", r.version)
	return nil
}
