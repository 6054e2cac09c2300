package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

const projectColumns = `id, title, short_description, thumbnail_url, full_description, tools_used,
	case_study_content, external_link, slug, start_date, end_date, type, status, display_order,
	created_at, updated_at`

// ProjectRepositoryImpl implements ProjectRepository for PostgreSQL
type ProjectRepositoryImpl struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new PostgreSQL project repository
func NewProjectRepository(db *sqlx.DB) ports.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.SelectContext(ctx, &projects, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY display_order ASC, created_at ASC
	`)
	return projects, err
}

func (r *ProjectRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

func (r *ProjectRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = $1`, slug)
}

func (r *ProjectRepositoryImpl) getOne(ctx context.Context, query string, arg interface{}) (*models.Project, error) {
	var project models.Project
	err := r.db.GetContext(ctx, &project, query, arg)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", core.ErrProjectNotFound, arg)
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, p *models.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.MustParse(core.NewID().String())
	}
	if p.ToolsUsed == nil {
		p.ToolsUsed = pq.StringArray{}
	}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO projects (id, title, short_description, thumbnail_url, full_description, tools_used,
			case_study_content, external_link, slug, start_date, end_date, type, status, display_order,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.ShortDescription, p.ThumbnailURL, p.FullDescription, p.ToolsUsed,
		p.CaseStudyContent, p.ExternalLink, p.Slug, p.StartDate, p.EndDate, p.Type, p.Status, p.DisplayOrder).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return slugConflict(err, p.Slug)
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, p *models.Project) error {
	if p.ToolsUsed == nil {
		p.ToolsUsed = pq.StringArray{}
	}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE projects
		SET title = $2, short_description = $3, thumbnail_url = $4, full_description = $5, tools_used = $6,
			case_study_content = $7, external_link = $8, slug = $9, start_date = $10, end_date = $11,
			type = $12, status = $13, display_order = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.ShortDescription, p.ThumbnailURL, p.FullDescription, p.ToolsUsed,
		p.CaseStudyContent, p.ExternalLink, p.Slug, p.StartDate, p.EndDate, p.Type, p.Status, p.DisplayOrder).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrProjectNotFound, p.ID)
	}
	return slugConflict(err, p.Slug)
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "projects", id, core.ErrProjectNotFound)
}

func (r *ProjectRepositoryImpl) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorder(ctx, r.db, "projects", ids)
}

// slugConflict maps a unique violation on slug to a CONFLICT error.
func slugConflict(err error, slug string) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return errors.Conflict(fmt.Sprintf("a project with slug %q already exists", slug))
	}
	return err
}
