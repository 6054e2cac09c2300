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

const reviewColumns = `id, name, company, content, rating, project_id, is_approved, created_at, updated_at`

// ReviewRepositoryImpl implements ReviewRepository for PostgreSQL
type ReviewRepositoryImpl struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) ports.ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) List(ctx context.Context, approvedOnly bool) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE ($1 = false OR is_approved = true)
		ORDER BY created_at DESC
	`, approvedOnly)
	return reviews, err
}

func (r *ReviewRepositoryImpl) ListByProject(ctx context.Context, projectID uuid.UUID, approvedOnly bool) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE project_id = $1 AND ($2 = false OR is_approved = true)
		ORDER BY created_at DESC
	`, projectID, approvedOnly)
	return reviews, err
}

func (r *ReviewRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrReviewNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) Create(ctx context.Context, review *models.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.MustParse(core.NewID().String())
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO reviews (id, name, company, content, rating, project_id, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`, review.ID, review.Name, review.Company, review.Content, review.Rating, review.ProjectID, review.IsApproved).
		Scan(&review.CreatedAt, &review.UpdatedAt)
}

func (r *ReviewRepositoryImpl) Update(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE reviews
		SET name = $2, company = $3, content = $4, rating = $5, project_id = $6, is_approved = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, review.ID, review.Name, review.Company, review.Content, review.Rating, review.ProjectID, review.IsApproved).
		Scan(&review.CreatedAt, &review.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrReviewNotFound, review.ID)
	}
	return err
}

func (r *ReviewRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "reviews", id, core.ErrReviewNotFound)
}
