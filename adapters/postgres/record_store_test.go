package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nambiararyan24/portfolio/domain/core"
	apperrors "github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestRecordStoreCreate(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRecordStore(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO reviews (id, company, content, is_approved, name, rating) VALUES ($1, $2, $3, $4, $5, $6)")).
		WithArgs(sqlmock.AnyArg(), "Acme", "Great work", false, "Lee", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.Create(context.Background(), "reviews", ports.Fields{
		"name": "Lee", "company": "Acme", "content": "Great work", "rating": 5, "is_approved": false,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(id.String())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStoreRejectsUnknownIdentifiers(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRecordStore(db)
	ctx := context.Background()

	_, err := store.Create(ctx, "users; DROP TABLE leads", ports.Fields{"name": "x"})
	assert.ErrorIs(t, err, core.ErrUnknownTable)

	_, err = store.Create(ctx, "leads", ports.Fields{"name = 'x'; --": "x"})
	assert.ErrorIs(t, err, core.ErrUnknownColumn)

	_, err = store.Query(ctx, "leads", nil, ports.Order{Column: "random()"})
	assert.ErrorIs(t, err, core.ErrUnknownColumn)

	assert.NoError(t, mock.ExpectationsWereMet(), "nothing reaches the database")
}

func TestRecordStoreCreateError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRecordStore(db)

	mock.ExpectExec("INSERT INTO leads").WillReturnError(errors.New("connection reset"))
	_, err := store.Create(context.Background(), "leads", ports.Fields{"name": "Jo"})
	assert.EqualError(t, err, "connection reset")
}

func TestRecordStoreUpdateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRecordStore(db)
	id := core.NewID()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leads SET read = $1 WHERE id = $2")).
		WithArgs(true, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Update(context.Background(), "leads", id, ports.Fields{"read": true}))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM leads WHERE id = $1")).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := store.Delete(context.Background(), "leads", id)
	assert.True(t, core.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStoreUpdateWithoutColumnsIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRecordStore(db)
	id := core.NewID()

	require.NoError(t, store.Update(context.Background(), "leads", id, ports.Fields{"id": core.NewID().String()}))
	require.NoError(t, store.Update(context.Background(), "leads", id, ports.Fields{}))
	assert.NoError(t, mock.ExpectationsWereMet(), "no statement is issued")
}

func TestRecordStoreQuery(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewRecordStore(db)

	rows := sqlmock.NewRows([]string{"id", "name", "read"}).
		AddRow([]byte("0190b6a8-7f0e-7c3a-9d2f-1a2b3c4d5e6f"), "Jo", false)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM leads WHERE read = $1 ORDER BY created_at DESC")).
		WithArgs(false).
		WillReturnRows(rows)

	out, err := store.Query(context.Background(), "leads", ports.Filter{"read": false},
		ports.Order{Column: "created_at", Desc: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "0190b6a8-7f0e-7c3a-9d2f-1a2b3c4d5e6f", out[0]["id"])
	assert.Equal(t, "Jo", out[0]["name"])
}

func TestReorderRunsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewServiceRepository(db)
	a, b := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE services SET display_order").WithArgs(0, a).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE services SET display_order").WithArgs(1, b).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Reorder(context.Background(), []uuid.UUID{a, b}))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE services SET display_order").WithArgs(0, a).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()
	assert.Error(t, repo.Reorder(context.Background(), []uuid.UUID{a, b}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "company", "project_type", "budget_range", "timeline", "message",
		"preferred_contact_method", "newsletter_signup", "files", "lead_score", "read", "created_at",
	}).AddRow(id.String(), "Jo", "jo@example.com", nil, "Acme", "Other", nil, nil, "hello there",
		nil, false, []byte("{}"), int64(25), false, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE read = $1 ORDER BY created_at DESC")).
		WithArgs(false).
		WillReturnRows(rows)

	leads, err := repo.List(context.Background(), models.LeadFilterUnread)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jo", leads[0].Name)
	require.NotNil(t, leads[0].LeadScore)
	assert.Equal(t, 25, *leads[0].LeadScore)
	assert.Empty(t, leads[0].Files)
}

func TestLeadSetReadNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeadRepository(db)
	id := uuid.New()
	mock.ExpectExec("UPDATE leads SET read").WithArgs(id, true).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetRead(context.Background(), id, true)
	assert.ErrorIs(t, err, core.ErrLeadNotFound)
}

func TestGetProjectBySlugNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)
	mock.ExpectQuery("FROM projects WHERE slug").WithArgs("missing").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrProjectNotFound)
}

func TestAdminCreateConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminUserRepository(db)
	mock.ExpectQuery("INSERT INTO admin_users").WillReturnError(&pqError23505)

	err := repo.Create(context.Background(), &models.AdminUser{Email: " Owner@Example.com ", PasswordHash: "x"})
	assert.Equal(t, apperrors.CodeConflict, apperrors.GetCode(err))
}
