package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nambiararyan24/portfolio/models"
)

type mockServices struct{ mock.Mock }

func (m *mockServices) List(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Service)
	return items, args.Error(1)
}
func (m *mockServices) Get(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Service)
	return item, args.Error(1)
}
func (m *mockServices) Create(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockServices) Update(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockServices) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockServices) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type mockProjects struct{ mock.Mock }

func (m *mockProjects) List(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Project)
	return items, args.Error(1)
}
func (m *mockProjects) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Project)
	return item, args.Error(1)
}
func (m *mockProjects) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	args := m.Called(ctx, slug)
	item, _ := args.Get(0).(*models.Project)
	return item, args.Error(1)
}
func (m *mockProjects) Create(ctx context.Context, p *models.Project) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProjects) Update(ctx context.Context, p *models.Project) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProjects) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockProjects) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

type mockReviews struct{ mock.Mock }

func (m *mockReviews) List(ctx context.Context, approvedOnly bool) ([]models.Review, error) {
	args := m.Called(ctx, approvedOnly)
	items, _ := args.Get(0).([]models.Review)
	return items, args.Error(1)
}
func (m *mockReviews) ListByProject(ctx context.Context, id uuid.UUID, approvedOnly bool) ([]models.Review, error) {
	args := m.Called(ctx, id, approvedOnly)
	items, _ := args.Get(0).([]models.Review)
	return items, args.Error(1)
}
func (m *mockReviews) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Review)
	return item, args.Error(1)
}
func (m *mockReviews) Create(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockReviews) Update(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockReviews) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockTools struct{ mock.Mock }

func (m *mockTools) List(ctx context.Context) ([]models.Tool, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Tool)
	return items, args.Error(1)
}
func (m *mockTools) Get(ctx context.Context, id uuid.UUID) (*models.Tool, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Tool)
	return item, args.Error(1)
}
func (m *mockTools) Create(ctx context.Context, t *models.Tool) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTools) Update(ctx context.Context, t *models.Tool) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTools) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockLeads struct{ mock.Mock }

func (m *mockLeads) List(ctx context.Context, f models.LeadFilter) ([]models.Lead, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]models.Lead)
	return items, args.Error(1)
}
func (m *mockLeads) Get(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.Lead)
	return item, args.Error(1)
}
func (m *mockLeads) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	return m.Called(ctx, id, read).Error(0)
}
func (m *mockLeads) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type repoMocks struct {
	services *mockServices
	projects *mockProjects
	reviews  *mockReviews
	tools    *mockTools
	leads    *mockLeads
}

func newRepoMocks() (repoMocks, Repositories) {
	m := repoMocks{
		services: &mockServices{},
		projects: &mockProjects{},
		reviews:  &mockReviews{},
		tools:    &mockTools{},
		leads:    &mockLeads{},
	}
	return m, Repositories{
		Services: m.services,
		Projects: m.projects,
		Reviews:  m.reviews,
		Tools:    m.tools,
		Leads:    m.leads,
	}
}
