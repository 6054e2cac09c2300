package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

const toolColumns = `id, name, logo_url, link, created_at, updated_at`

// ToolRepositoryImpl implements ToolRepository for PostgreSQL
type ToolRepositoryImpl struct {
	db *sqlx.DB
}

// NewToolRepository creates a new PostgreSQL tool repository
func NewToolRepository(db *sqlx.DB) ports.ToolRepository {
	return &ToolRepositoryImpl{db: db}
}

func (r *ToolRepositoryImpl) List(ctx context.Context) ([]models.Tool, error) {
	tools := []models.Tool{}
	err := r.db.SelectContext(ctx, &tools, `SELECT `+toolColumns+` FROM tools ORDER BY created_at DESC`)
	return tools, err
}

func (r *ToolRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Tool, error) {
	var tool models.Tool
	err := r.db.GetContext(ctx, &tool, `SELECT `+toolColumns+` FROM tools WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrToolNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *ToolRepositoryImpl) Create(ctx context.Context, tool *models.Tool) error {
	if tool.ID == uuid.Nil {
		tool.ID = uuid.MustParse(core.NewID().String())
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO tools (id, name, logo_url, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`, tool.ID, tool.Name, tool.LogoURL, tool.Link).Scan(&tool.CreatedAt, &tool.UpdatedAt)
}

func (r *ToolRepositoryImpl) Update(ctx context.Context, tool *models.Tool) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE tools SET name = $2, logo_url = $3, link = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, tool.ID, tool.Name, tool.LogoURL, tool.Link).Scan(&tool.CreatedAt, &tool.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrToolNotFound, tool.ID)
	}
	return err
}

func (r *ToolRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "tools", id, core.ErrToolNotFound)
}
