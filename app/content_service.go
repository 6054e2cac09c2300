package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/domain/core"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

// Listing wraps public content. Degraded is set when the store failed and
// Items holds the built-in sample content instead.
type Listing[T any] struct {
	Items    []T    `json:"items"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// ProjectDetail is a project page: the project with rendered case study
// and its reviews.
type ProjectDetail struct {
	Project  models.Project  `json:"project"`
	Reviews  []models.Review `json:"reviews"`
	Degraded bool            `json:"degraded"`
	Reason   string          `json:"reason,omitempty"`
}

const degradedReason = "content store unavailable, showing sample content"

// ContentService serves the public pages
type ContentService struct {
	services     ports.ServiceRepository
	projects     ports.ProjectRepository
	reviews      ports.ReviewRepository
	tools        ports.ToolRepository
	approvedOnly bool
	logger       *applog.Logger
}

// NewContentService creates the public content service. approvedOnly hides
// reviews that have not been approved in the back office.
func NewContentService(services ports.ServiceRepository, projects ports.ProjectRepository, reviews ports.ReviewRepository, tools ports.ToolRepository, approvedOnly bool, logger *applog.Logger) *ContentService {
	if logger == nil {
		logger = applog.NewNopLogger()
	}
	return &ContentService{
		services:     services,
		projects:     projects,
		reviews:      reviews,
		tools:        tools,
		approvedOnly: approvedOnly,
		logger:       logger,
	}
}

func (s *ContentService) Services(ctx context.Context) Listing[models.Service] {
	items, err := s.services.List(ctx)
	if err != nil {
		s.degrade("services", err)
		return Listing[models.Service]{Items: Sample().Services, Degraded: true, Reason: degradedReason}
	}
	return Listing[models.Service]{Items: nonNil(items)}
}

func (s *ContentService) Projects(ctx context.Context) Listing[models.Project] {
	items, err := s.projects.List(ctx)
	if err != nil {
		s.degrade("projects", err)
		return Listing[models.Project]{Items: Sample().Projects, Degraded: true, Reason: degradedReason}
	}
	return Listing[models.Project]{Items: nonNil(items)}
}

func (s *ContentService) Reviews(ctx context.Context) Listing[models.Review] {
	items, err := s.reviews.List(ctx, s.approvedOnly)
	if err != nil {
		s.degrade("reviews", err)
		return Listing[models.Review]{Items: Sample().Reviews, Degraded: true, Reason: degradedReason}
	}
	return Listing[models.Review]{Items: nonNil(items)}
}

func (s *ContentService) Tools(ctx context.Context) Listing[models.Tool] {
	items, err := s.tools.List(ctx)
	if err != nil {
		s.degrade("tools", err)
		return Listing[models.Tool]{Items: Sample().Tools, Degraded: true, Reason: degradedReason}
	}
	return Listing[models.Tool]{Items: nonNil(items)}
}

// ReviewsByProject lists the reviews attached to one project
func (s *ContentService) ReviewsByProject(ctx context.Context, projectID uuid.UUID) Listing[models.Review] {
	items, err := s.reviews.ListByProject(ctx, projectID, s.approvedOnly)
	if err != nil {
		s.degrade("project reviews", err)
		return Listing[models.Review]{Items: []models.Review{}, Degraded: true, Reason: degradedReason}
	}
	return Listing[models.Review]{Items: nonNil(items)}
}

// ProjectBySlug returns core.ErrProjectNotFound when neither the store nor,
// in degraded mode, the sample content has the slug.
func (s *ContentService) ProjectBySlug(ctx context.Context, slug string) (*ProjectDetail, error) {
	project, err := s.projects.GetBySlug(ctx, slug)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, err
		}
		s.degrade("project "+slug, err)
		for _, p := range Sample().Projects {
			if p.Slug == slug {
				p.CaseStudyHTML = RenderMarkdown(p.CaseStudyContent)
				return &ProjectDetail{Project: p, Reviews: []models.Review{}, Degraded: true, Reason: degradedReason}, nil
			}
		}
		return nil, core.ErrProjectNotFound
	}

	project.CaseStudyHTML = RenderMarkdown(project.CaseStudyContent)
	reviews := s.ReviewsByProject(ctx, project.ID)
	return &ProjectDetail{
		Project:  *project,
		Reviews:  reviews.Items,
		Degraded: reviews.Degraded,
		Reason:   reviews.Reason,
	}, nil
}

func (s *ContentService) degrade(what string, err error) {
	s.logger.Warn("[Content] failed to load %s, serving sample content: %v", what, err)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
