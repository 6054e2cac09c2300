package ui

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/internal/auth"
	"github.com/nambiararyan24/portfolio/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type approvalRequest struct {
	Approved bool `json:"approved"`
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	token, session, err := a.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	http.SetCookie(w, auth.SessionCookie(token, session, a.config.SecureCookies))
	writeData(w, http.StatusOK, session)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Auth.Logout(r.Context(), auth.TokenFrom(r)); err != nil {
		a.writeError(w, r, err)
		return
	}
	http.SetCookie(w, auth.ClearCookie(a.config.SecureCookies))
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, auth.SessionFrom(r.Context()))
}

// list, get, create and update are shared by every admin collection

func list[T any](a *App, fn func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := fn(r.Context())
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		writeData(w, http.StatusOK, items)
	}
}

func get[T any](a *App, fn func(context.Context, uuid.UUID) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUID(chi.URLParam(r, "id"))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		item, err := fn(r.Context(), id)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, item)
	}
}

func create[T any](a *App, fn func(context.Context, *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := new(T)
		if err := decodeJSON(r, item); err != nil {
			a.writeError(w, r, err)
			return
		}
		if err := fn(r.Context(), item); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, item)
	}
}

func update[T any](a *App, setID func(*T, uuid.UUID), fn func(context.Context, *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUID(chi.URLParam(r, "id"))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		item := new(T)
		if err := decodeJSON(r, item); err != nil {
			a.writeError(w, r, err)
			return
		}
		setID(item, id)
		if err := fn(r.Context(), item); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, item)
	}
}

func (a *App) handleDelete(fn func(context.Context, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUID(chi.URLParam(r, "id"))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		if err := fn(r.Context(), id); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true})
	}
}

func (a *App) handleReorder(fn func(context.Context, []uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, r, err)
			return
		}
		if err := fn(r.Context(), req.IDs); err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true})
	}
}

func (a *App) handleAdminListServices(w http.ResponseWriter, r *http.Request) {
	list(a, a.deps.Admin.ListServices)(w, r)
}

func (a *App) handleAdminCreateService(w http.ResponseWriter, r *http.Request) {
	create(a, a.deps.Admin.CreateService)(w, r)
}

func (a *App) handleAdminUpdateService(w http.ResponseWriter, r *http.Request) {
	update(a, func(s *models.Service, id uuid.UUID) { s.ID = id }, a.deps.Admin.UpdateService)(w, r)
}

func (a *App) handleAdminListProjects(w http.ResponseWriter, r *http.Request) {
	list(a, a.deps.Admin.ListProjects)(w, r)
}

func (a *App) handleAdminCreateProject(w http.ResponseWriter, r *http.Request) {
	create(a, a.deps.Admin.CreateProject)(w, r)
}

func (a *App) handleAdminUpdateProject(w http.ResponseWriter, r *http.Request) {
	update(a, func(p *models.Project, id uuid.UUID) { p.ID = id }, a.deps.Admin.UpdateProject)(w, r)
}

func (a *App) handleAdminListReviews(w http.ResponseWriter, r *http.Request) {
	list(a, a.deps.Admin.ListReviews)(w, r)
}

func (a *App) handleAdminCreateReview(w http.ResponseWriter, r *http.Request) {
	create(a, a.deps.Admin.CreateReview)(w, r)
}

func (a *App) handleAdminUpdateReview(w http.ResponseWriter, r *http.Request) {
	update(a, func(rv *models.Review, id uuid.UUID) { rv.ID = id }, a.deps.Admin.UpdateReview)(w, r)
}

func (a *App) handleApproveReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	review, err := a.deps.Admin.SetReviewApproved(r.Context(), id, req.Approved)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, review)
}

func (a *App) handleAdminListTools(w http.ResponseWriter, r *http.Request) {
	list(a, a.deps.Admin.ListTools)(w, r)
}

func (a *App) handleAdminCreateTool(w http.ResponseWriter, r *http.Request) {
	create(a, a.deps.Admin.CreateTool)(w, r)
}

func (a *App) handleAdminUpdateTool(w http.ResponseWriter, r *http.Request) {
	update(a, func(t *models.Tool, id uuid.UUID) { t.ID = id }, a.deps.Admin.UpdateTool)(w, r)
}
