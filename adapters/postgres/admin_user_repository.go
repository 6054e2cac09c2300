package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

// AdminUserRepositoryImpl implements AdminUserRepository for PostgreSQL
type AdminUserRepositoryImpl struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new PostgreSQL admin user repository
func NewAdminUserRepository(db *sqlx.DB) ports.AdminUserRepository {
	return &AdminUserRepositoryImpl{db: db}
}

func (r *AdminUserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, password_hash, created_at
		FROM admin_users
		WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email)))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrAdminNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AdminUserRepositoryImpl) Create(ctx context.Context, user *models.AdminUser) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.MustParse(core.NewID().String())
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt)

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return errors.Conflict(fmt.Sprintf("admin %s already exists", user.Email))
	}
	return err
}

func (r *AdminUserRepositoryImpl) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM admin_users`)
	return n, err
}
