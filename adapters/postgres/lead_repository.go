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

const leadColumns = `id, name, email, phone, company, project_type, budget_range, timeline, message,
	preferred_contact_method, newsletter_signup, files, lead_score, read, created_at`

// LeadRepositoryImpl implements LeadRepository for PostgreSQL
type LeadRepositoryImpl struct {
	db *sqlx.DB
}

// NewLeadRepository creates a new PostgreSQL lead repository
func NewLeadRepository(db *sqlx.DB) ports.LeadRepository {
	return &LeadRepositoryImpl{db: db}
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []interface{}
	switch filter {
	case models.LeadFilterRead:
		query += ` WHERE read = $1`
		args = append(args, true)
	case models.LeadFilterUnread:
		query += ` WHERE read = $1`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC`

	leads := []models.Lead{}
	err := r.db.SelectContext(ctx, &leads, query, args...)
	return leads, err
}

func (r *LeadRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.GetContext(ctx, &lead, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrLeadNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepositoryImpl) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE leads SET read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrLeadNotFound, id)
	}
	return nil
}

func (r *LeadRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "leads", id, core.ErrLeadNotFound)
}
