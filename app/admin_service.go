package app

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/adapters/excel"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// AdminService is the back office: content CRUD, ordering and lead triage
type AdminService struct {
	services ports.ServiceRepository
	projects ports.ProjectRepository
	reviews  ports.ReviewRepository
	tools    ports.ToolRepository
	leads    ports.LeadRepository
	logger   *applog.Logger
}

// Repositories groups the typed stores the back office works on
type Repositories struct {
	Services ports.ServiceRepository
	Projects ports.ProjectRepository
	Reviews  ports.ReviewRepository
	Tools    ports.ToolRepository
	Leads    ports.LeadRepository
}

func NewAdminService(repos Repositories, logger *applog.Logger) *AdminService {
	if logger == nil {
		logger = applog.NewNopLogger()
	}
	return &AdminService{
		services: repos.Services,
		projects: repos.Projects,
		reviews:  repos.Reviews,
		tools:    repos.Tools,
		leads:    repos.Leads,
		logger:   logger,
	}
}

// Services

func (s *AdminService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.services.List(ctx)
}

func (s *AdminService) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	return s.services.Get(ctx, id)
}

func (s *AdminService) CreateService(ctx context.Context, svc *models.Service) error {
	svc.Title = strings.TrimSpace(svc.Title)
	if err := validateStruct(svc); err != nil {
		return err
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return err
	}
	s.logger.Info("[Admin] created service %q", svc.Title)
	return nil
}

func (s *AdminService) UpdateService(ctx context.Context, svc *models.Service) error {
	svc.Title = strings.TrimSpace(svc.Title)
	if err := validateStruct(svc); err != nil {
		return err
	}
	return s.services.Update(ctx, svc)
}

func (s *AdminService) DeleteService(ctx context.Context, id uuid.UUID) error {
	return s.services.Delete(ctx, id)
}

// ReorderServices sets display_order to each id's position
func (s *AdminService) ReorderServices(ctx context.Context, ids []uuid.UUID) error {
	if err := checkOrder(ids); err != nil {
		return err
	}
	return s.services.Reorder(ctx, ids)
}

// Projects

func (s *AdminService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}

func (s *AdminService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

// CreateProject derives the slug from the title when none is given
func (s *AdminService) CreateProject(ctx context.Context, p *models.Project) error {
	if err := prepareProject(p); err != nil {
		return err
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info("[Admin] created project %q (%s)", p.Title, p.Slug)
	return nil
}

func (s *AdminService) UpdateProject(ctx context.Context, p *models.Project) error {
	if err := prepareProject(p); err != nil {
		return err
	}
	return s.projects.Update(ctx, p)
}

func (s *AdminService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return s.projects.Delete(ctx, id)
}

func (s *AdminService) ReorderProjects(ctx context.Context, ids []uuid.UUID) error {
	if err := checkOrder(ids); err != nil {
		return err
	}
	return s.projects.Reorder(ctx, ids)
}

func prepareProject(p *models.Project) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.ToolsUsed == nil {
		p.ToolsUsed = []string{}
	}
	if err := validateStruct(p); err != nil {
		return err
	}
	if p.Slug == "" {
		return errors.InvalidInput("slug: a title with letters or digits is required")
	}
	return nil
}

// Reviews

// ListReviews returns every review, approved or not
func (s *AdminService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return s.reviews.List(ctx, false)
}

func (s *AdminService) CreateReview(ctx context.Context, r *models.Review) error {
	r.Content = strings.TrimSpace(r.Content)
	if err := validateStruct(r); err != nil {
		return err
	}
	return s.reviews.Create(ctx, r)
}

func (s *AdminService) UpdateReview(ctx context.Context, r *models.Review) error {
	r.Content = strings.TrimSpace(r.Content)
	if err := validateStruct(r); err != nil {
		return err
	}
	return s.reviews.Update(ctx, r)
}

// SetReviewApproved publishes or hides a review
func (s *AdminService) SetReviewApproved(ctx context.Context, id uuid.UUID, approved bool) (*models.Review, error) {
	r, err := s.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.IsApproved = approved
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *AdminService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return s.reviews.Delete(ctx, id)
}

// Tools

func (s *AdminService) ListTools(ctx context.Context) ([]models.Tool, error) {
	return s.tools.List(ctx)
}

func (s *AdminService) CreateTool(ctx context.Context, t *models.Tool) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validateStruct(t); err != nil {
		return err
	}
	return s.tools.Create(ctx, t)
}

func (s *AdminService) UpdateTool(ctx context.Context, t *models.Tool) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := validateStruct(t); err != nil {
		return err
	}
	return s.tools.Update(ctx, t)
}

func (s *AdminService) DeleteTool(ctx context.Context, id uuid.UUID) error {
	return s.tools.Delete(ctx, id)
}

// Leads

func (s *AdminService) ListLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	return s.leads.List(ctx, filter)
}

func (s *AdminService) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return s.leads.Get(ctx, id)
}

func (s *AdminService) MarkLead(ctx context.Context, id uuid.UUID, read bool) error {
	return s.leads.SetRead(ctx, id, read)
}

func (s *AdminService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	return s.leads.Delete(ctx, id)
}

// ExportLeads writes the filtered leads as an XLSX workbook and returns how
// many were written.
func (s *AdminService) ExportLeads(ctx context.Context, filter models.LeadFilter, w io.Writer) (int, error) {
	leads, err := s.leads.List(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load leads")
	}
	if err := excel.WriteLeads(w, leads); err != nil {
		return 0, errors.Wrap(err, "failed to export leads")
	}
	s.logger.Info("[Admin] exported %d %s leads", len(leads), filter)
	return len(leads), nil
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// Slugify lowercases title, drops everything but letters, digits, spaces
// and dashes, turns spaces into dashes and collapses runs of dashes.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func checkOrder(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return errors.InvalidInput("ids: at least one id is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return errors.InvalidInput(fmt.Sprintf("ids: %s listed twice", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// validateStruct reports the first failing field as INVALID_INPUT
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if invalid, ok := err.(validator.ValidationErrors); ok && len(invalid) > 0 {
		first := invalid[0]
		return errors.InvalidInput(fmt.Sprintf("%s: failed %s check", first.Field(), first.Tag()))
	}
	return errors.Wrap(err, "invalid input")
}
