package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/models"
)

// ServiceRepository stores home page services
type ServiceRepository interface {
	// List returns services by display order
	List(ctx context.Context) ([]models.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Reorder sets display_order to each id's position in a single transaction
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// ProjectRepository stores portfolio projects
type ProjectRepository interface {
	// List returns projects by display order
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// ReviewRepository stores client reviews
type ReviewRepository interface {
	// List returns reviews newest first
	List(ctx context.Context, approvedOnly bool) ([]models.Review, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, approvedOnly bool) ([]models.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ToolRepository stores the tools strip
type ToolRepository interface {
	// List returns tools newest first
	List(ctx context.Context) ([]models.Tool, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tool, error)
	Create(ctx context.Context, tool *models.Tool) error
	Update(ctx context.Context, tool *models.Tool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeadRepository is the back office view of leads. Leads are created
// through the RecordStore by the submission pipeline.
type LeadRepository interface {
	// List returns leads newest first
	List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminUserRepository stores back office accounts
type AdminUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	Count(ctx context.Context) (int, error)
}
