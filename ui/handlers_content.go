package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nambiararyan24/portfolio/app"
)

// writeListing returns public content, flagging sample data
func writeListing[T any](w http.ResponseWriter, l app.Listing[T]) {
	writeJSON(w, http.StatusOK, envelope{
		Success:  true,
		Data:     l.Items,
		Degraded: l.Degraded,
		Reason:   l.Reason,
	})
}

func (a *App) handleServices(w http.ResponseWriter, r *http.Request) {
	writeListing(w, a.deps.Content.Services(r.Context()))
}

func (a *App) handleProjects(w http.ResponseWriter, r *http.Request) {
	writeListing(w, a.deps.Content.Projects(r.Context()))
}

func (a *App) handleReviews(w http.ResponseWriter, r *http.Request) {
	writeListing(w, a.deps.Content.Reviews(r.Context()))
}

func (a *App) handleTools(w http.ResponseWriter, r *http.Request) {
	writeListing(w, a.deps.Content.Tools(r.Context()))
}

func (a *App) handleProjectBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := a.deps.Content.ProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:  true,
		Data:     detail,
		Degraded: detail.Degraded,
		Reason:   detail.Reason,
	})
}
