package testkit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/models"
)

type serviceRepo struct{ t *TestKit }

func (r serviceRepo) List(context.Context) ([]models.Service, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	out := make([]models.Service, 0, len(r.t.services))
	for _, s := range r.t.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r serviceRepo) Get(_ context.Context, id uuid.UUID) (*models.Service, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	s, ok := r.t.services[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrServiceNotFound, id)
	}
	return &s, nil
}

func (r serviceRepo) Create(_ context.Context, s *models.Service) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt, s.UpdatedAt = r.t.now(), r.t.now()
	r.t.services[s.ID] = *s
	return nil
}

func (r serviceRepo) Update(_ context.Context, s *models.Service) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	old, ok := r.t.services[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrServiceNotFound, s.ID)
	}
	s.CreatedAt, s.UpdatedAt = old.CreatedAt, r.t.now()
	r.t.services[s.ID] = *s
	return nil
}

func (r serviceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if _, ok := r.t.services[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrServiceNotFound, id)
	}
	delete(r.t.services, id)
	return nil
}

func (r serviceRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	for _, id := range ids {
		if _, ok := r.t.services[id]; !ok {
			return fmt.Errorf("%w: %s", core.ErrServiceNotFound, id)
		}
	}
	for i, id := range ids {
		s := r.t.services[id]
		s.DisplayOrder = i
		r.t.services[id] = s
	}
	return nil
}

type projectRepo struct{ t *TestKit }

func (r projectRepo) List(context.Context) ([]models.Project, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	out := make([]models.Project, 0, len(r.t.projects))
	for _, p := range r.t.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r projectRepo) Get(_ context.Context, id uuid.UUID) (*models.Project, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	p, ok := r.t.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrProjectNotFound, id)
	}
	return &p, nil
}

func (r projectRepo) GetBySlug(_ context.Context, slug string) (*models.Project, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	for _, p := range r.t.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrProjectNotFound, slug)
}

func (r projectRepo) slugTakenLocked(p *models.Project) bool {
	for id, other := range r.t.projects {
		if id != p.ID && other.Slug == p.Slug {
			return true
		}
	}
	return false
}

func (r projectRepo) Create(_ context.Context, p *models.Project) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if r.slugTakenLocked(p) {
		return conflict("a project with slug %q already exists", p.Slug)
	}
	p.CreatedAt, p.UpdatedAt = r.t.now(), r.t.now()
	r.t.projects[p.ID] = *p
	return nil
}

func (r projectRepo) Update(_ context.Context, p *models.Project) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	old, ok := r.t.projects[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrProjectNotFound, p.ID)
	}
	if r.slugTakenLocked(p) {
		return conflict("a project with slug %q already exists", p.Slug)
	}
	p.CreatedAt, p.UpdatedAt = old.CreatedAt, r.t.now()
	r.t.projects[p.ID] = *p
	return nil
}

func (r projectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if _, ok := r.t.projects[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrProjectNotFound, id)
	}
	delete(r.t.projects, id)
	return nil
}

func (r projectRepo) Reorder(_ context.Context, ids []uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	for _, id := range ids {
		if _, ok := r.t.projects[id]; !ok {
			return fmt.Errorf("%w: %s", core.ErrProjectNotFound, id)
		}
	}
	for i, id := range ids {
		p := r.t.projects[id]
		p.DisplayOrder = i
		r.t.projects[id] = p
	}
	return nil
}

type reviewRepo struct{ t *TestKit }

func (r reviewRepo) list(approvedOnly bool, keep func(models.Review) bool) ([]models.Review, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	out := make([]models.Review, 0, len(r.t.reviews))
	for _, rv := range r.t.reviews {
		if approvedOnly && !rv.IsApproved {
			continue
		}
		if keep(rv) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r reviewRepo) List(_ context.Context, approvedOnly bool) ([]models.Review, error) {
	return r.list(approvedOnly, func(models.Review) bool { return true })
}

func (r reviewRepo) ListByProject(_ context.Context, projectID uuid.UUID, approvedOnly bool) ([]models.Review, error) {
	return r.list(approvedOnly, func(rv models.Review) bool {
		return rv.ProjectID != nil && *rv.ProjectID == projectID
	})
}

func (r reviewRepo) Get(_ context.Context, id uuid.UUID) (*models.Review, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	rv, ok := r.t.reviews[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrReviewNotFound, id)
	}
	return &rv, nil
}

func (r reviewRepo) Create(_ context.Context, rv *models.Review) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	rv.CreatedAt, rv.UpdatedAt = r.t.now(), r.t.now()
	r.t.reviews[rv.ID] = *rv
	return nil
}

func (r reviewRepo) Update(_ context.Context, rv *models.Review) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	old, ok := r.t.reviews[rv.ID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrReviewNotFound, rv.ID)
	}
	rv.CreatedAt, rv.UpdatedAt = old.CreatedAt, r.t.now()
	r.t.reviews[rv.ID] = *rv
	return nil
}

func (r reviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if _, ok := r.t.reviews[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrReviewNotFound, id)
	}
	delete(r.t.reviews, id)
	return nil
}

type toolRepo struct{ t *TestKit }

func (r toolRepo) List(context.Context) ([]models.Tool, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	out := make([]models.Tool, 0, len(r.t.tools))
	for _, tl := range r.t.tools {
		out = append(out, tl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r toolRepo) Get(_ context.Context, id uuid.UUID) (*models.Tool, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	tl, ok := r.t.tools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrToolNotFound, id)
	}
	return &tl, nil
}

func (r toolRepo) Create(_ context.Context, tl *models.Tool) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if tl.ID == uuid.Nil {
		tl.ID = uuid.New()
	}
	tl.CreatedAt, tl.UpdatedAt = r.t.now(), r.t.now()
	r.t.tools[tl.ID] = *tl
	return nil
}

func (r toolRepo) Update(_ context.Context, tl *models.Tool) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	old, ok := r.t.tools[tl.ID]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrToolNotFound, tl.ID)
	}
	tl.CreatedAt, tl.UpdatedAt = old.CreatedAt, r.t.now()
	r.t.tools[tl.ID] = *tl
	return nil
}

func (r toolRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if _, ok := r.t.tools[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrToolNotFound, id)
	}
	delete(r.t.tools, id)
	return nil
}

type leadRepo struct{ t *TestKit }

func (r leadRepo) List(_ context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	out := make([]models.Lead, 0, len(r.t.leads))
	for _, l := range r.t.leads {
		switch filter {
		case models.LeadFilterRead:
			if !l.Read {
				continue
			}
		case models.LeadFilterUnread:
			if l.Read {
				continue
			}
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r leadRepo) Get(_ context.Context, id uuid.UUID) (*models.Lead, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	l, ok := r.t.leads[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrLeadNotFound, id)
	}
	return &l, nil
}

func (r leadRepo) SetRead(_ context.Context, id uuid.UUID, read bool) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	l, ok := r.t.leads[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrLeadNotFound, id)
	}
	l.Read = read
	r.t.leads[id] = l
	return nil
}

func (r leadRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	if _, ok := r.t.leads[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrLeadNotFound, id)
	}
	delete(r.t.leads, id)
	return nil
}

type adminRepo struct{ t *TestKit }

func (r adminRepo) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	u, ok := r.t.admins[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrAdminNotFound, email)
	}
	return &u, nil
}

func (r adminRepo) Create(_ context.Context, u *models.AdminUser) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := r.t.admins[u.Email]; ok {
		return conflict("admin %s already exists", u.Email)
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.t.now()
	r.t.admins[u.Email] = *u
	return nil
}

func (r adminRepo) Count(context.Context) (int, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return 0, r.t.fail
	}
	return len(r.t.admins), nil
}
