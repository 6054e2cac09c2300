// Package testkit provides in-memory implementations of every storage port.
// Tests across the module use it in place of PostgreSQL; Fail simulates an
// outage so degraded paths can be exercised.
package testkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

// TestKit is one in-memory database
type TestKit struct {
	mu    sync.RWMutex
	clock core.Clock
	fail  error

	services map[uuid.UUID]models.Service
	projects map[uuid.UUID]models.Project
	reviews  map[uuid.UUID]models.Review
	tools    map[uuid.UUID]models.Tool
	leads    map[uuid.UUID]models.Lead
	admins   map[string]models.AdminUser
}

// NewTestKit creates an empty store
func NewTestKit() *TestKit {
	return &TestKit{
		clock:    core.SystemClock{},
		services: make(map[uuid.UUID]models.Service),
		projects: make(map[uuid.UUID]models.Project),
		reviews:  make(map[uuid.UUID]models.Review),
		tools:    make(map[uuid.UUID]models.Tool),
		leads:    make(map[uuid.UUID]models.Lead),
		admins:   make(map[string]models.AdminUser),
	}
}

// WithClock pins the timestamps written by repositories
func (t *TestKit) WithClock(c core.Clock) *TestKit {
	t.clock = c
	return t
}

// Fail makes every subsequent call return err; nil restores service.
func (t *TestKit) Fail(err error) {
	t.mu.Lock()
	t.fail = err
	t.mu.Unlock()
}

func (t *TestKit) RecordStore() ports.RecordStore        { return recordStore{t} }
func (t *TestKit) Services() ports.ServiceRepository     { return serviceRepo{t} }
func (t *TestKit) Projects() ports.ProjectRepository     { return projectRepo{t} }
func (t *TestKit) Reviews() ports.ReviewRepository       { return reviewRepo{t} }
func (t *TestKit) Tools() ports.ToolRepository           { return toolRepo{t} }
func (t *TestKit) Leads() ports.LeadRepository           { return leadRepo{t} }
func (t *TestKit) AdminUsers() ports.AdminUserRepository { return adminRepo{t} }

// LeadCount is a shortcut for assertions
func (t *TestKit) LeadCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.leads)
}

// ReviewCount is a shortcut for assertions
func (t *TestKit) ReviewCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.reviews)
}

func (t *TestKit) now() time.Time {
	return t.clock.Now().UTC()
}

// recordStore maps generic rows onto the typed maps through their JSON
// shape; column names and JSON names are the same.
type recordStore struct{ t *TestKit }

func (r recordStore) Create(_ context.Context, table string, fields ports.Fields) (core.ID, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return "", r.t.fail
	}
	id := uuid.MustParse(core.NewID().String())
	row := cloneFields(fields)
	row["id"] = id.String()

	switch table {
	case "leads":
		var l models.Lead
		if err := decode(row, &l); err != nil {
			return "", err
		}
		r.t.leads[id] = l
	case "reviews":
		var rv models.Review
		if err := decode(row, &rv); err != nil {
			return "", err
		}
		r.t.reviews[id] = rv
	default:
		return "", fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
	}
	return core.ID(id.String()), nil
}

func (r recordStore) Update(_ context.Context, table string, id core.ID, fields ports.Fields) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	uid, err := uuid.Parse(id.String())
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidID, id)
	}
	switch table {
	case "leads":
		l, ok := r.t.leads[uid]
		if !ok {
			return core.NewNotFoundError(table, id.String())
		}
		if err := overlay(&l, fields); err != nil {
			return err
		}
		r.t.leads[uid] = l
	case "reviews":
		rv, ok := r.t.reviews[uid]
		if !ok {
			return core.NewNotFoundError(table, id.String())
		}
		if err := overlay(&rv, fields); err != nil {
			return err
		}
		r.t.reviews[uid] = rv
	default:
		return fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
	}
	return nil
}

func (r recordStore) Delete(_ context.Context, table string, id core.ID) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.fail != nil {
		return r.t.fail
	}
	uid, err := uuid.Parse(id.String())
	if err != nil {
		return fmt.Errorf("%w: %s", core.ErrInvalidID, id)
	}
	switch table {
	case "leads":
		if _, ok := r.t.leads[uid]; !ok {
			return core.NewNotFoundError(table, id.String())
		}
		delete(r.t.leads, uid)
	case "reviews":
		if _, ok := r.t.reviews[uid]; !ok {
			return core.NewNotFoundError(table, id.String())
		}
		delete(r.t.reviews, uid)
	default:
		return fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
	}
	return nil
}

func (r recordStore) Query(_ context.Context, table string, filter ports.Filter, order ...ports.Order) ([]ports.Fields, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	if r.t.fail != nil {
		return nil, r.t.fail
	}
	var rows []ports.Fields
	add := func(v any) error {
		row, err := encode(v)
		if err != nil {
			return err
		}
		for col, want := range filter {
			if fmt.Sprint(row[col]) != fmt.Sprint(want) {
				return nil
			}
		}
		rows = append(rows, row)
		return nil
	}
	switch table {
	case "leads":
		for _, l := range r.t.leads {
			if err := add(l); err != nil {
				return nil, err
			}
		}
	case "reviews":
		for _, rv := range r.t.reviews {
			if err := add(rv); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownTable, table)
	}
	for i := len(order) - 1; i >= 0; i-- {
		o := order[i]
		sort.SliceStable(rows, func(a, b int) bool {
			x, y := fmt.Sprint(rows[a][o.Column]), fmt.Sprint(rows[b][o.Column])
			if o.Desc {
				return x > y
			}
			return x < y
		})
	}
	return rows, nil
}

func cloneFields(f ports.Fields) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func decode(row map[string]any, dst any) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func encode(v any) (ports.Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out ports.Fields
	return out, json.Unmarshal(raw, &out)
}

func overlay(dst any, fields ports.Fields) error {
	row, err := encode(dst)
	if err != nil {
		return err
	}
	for k, v := range fields {
		row[k] = v
	}
	return decode(row, dst)
}

func conflict(format string, args ...any) error {
	return errors.Conflict(fmt.Sprintf(format, args...))
}
