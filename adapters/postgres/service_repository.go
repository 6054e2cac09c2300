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

const serviceColumns = `id, title, description, icon_url, type, display_order, created_at, updated_at`

// ServiceRepositoryImpl implements ServiceRepository for PostgreSQL
type ServiceRepositoryImpl struct {
	db *sqlx.DB
}

// NewServiceRepository creates a new PostgreSQL service repository
func NewServiceRepository(db *sqlx.DB) ports.ServiceRepository {
	return &ServiceRepositoryImpl{db: db}
}

func (r *ServiceRepositoryImpl) List(ctx context.Context) ([]models.Service, error) {
	services := []models.Service{}
	err := r.db.SelectContext(ctx, &services, `
		SELECT `+serviceColumns+`
		FROM services
		ORDER BY display_order ASC, created_at ASC
	`)
	return services, err
}

func (r *ServiceRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var service models.Service
	err := r.db.GetContext(ctx, &service, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrServiceNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepositoryImpl) Create(ctx context.Context, service *models.Service) error {
	if service.ID == uuid.Nil {
		service.ID = uuid.MustParse(core.NewID().String())
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO services (id, title, description, icon_url, type, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`, service.ID, service.Title, service.Description, service.IconURL, service.Type, service.DisplayOrder).
		Scan(&service.CreatedAt, &service.UpdatedAt)
}

func (r *ServiceRepositoryImpl) Update(ctx context.Context, service *models.Service) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE services
		SET title = $2, description = $3, icon_url = $4, type = $5, display_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, service.ID, service.Title, service.Description, service.IconURL, service.Type, service.DisplayOrder).
		Scan(&service.CreatedAt, &service.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrServiceNotFound, service.ID)
	}
	return err
}

func (r *ServiceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "services", id, core.ErrServiceNotFound)
}

func (r *ServiceRepositoryImpl) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorder(ctx, r.db, "services", ids)
}

// reorder assigns display_order = position for every id in one transaction.
func reorder(ctx context.Context, db *sqlx.DB, table string, ids []uuid.UUID) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf("UPDATE %s SET display_order = $1, updated_at = NOW() WHERE id = $2", table)
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, query, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func deleteByID(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID, notFound error) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
