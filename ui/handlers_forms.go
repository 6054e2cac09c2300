package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/domain/form"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/submission"
)

// tokenField travels with submissions but is not part of any schema
const tokenField = "recaptcha_token"

type sessionView struct {
	ID string `json:"id"`
	form.Snapshot
}

type submitted struct {
	ID      string       `json:"id"`
	Session *sessionView `json:"session,omitempty"`
}

type eventRequest struct {
	Type  string `json:"type"`
	Field string `json:"field"`
}

type submitRequest struct {
	RecaptchaToken string `json:"recaptcha_token"`
}

// handleSubmitOnce validates a complete payload through a fresh session and
// submits it.
func (a *App) handleSubmitOnce(formName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := decodeJSON(r, &body); err != nil {
			a.writeError(w, r, err)
			return
		}
		token, _ := body[tokenField].(string)
		delete(body, tokenField)

		ctx := submission.WithClient(r.Context(), submission.Client{
			RecaptchaToken: token,
			RemoteIP:       clientIP(r),
		})
		id, err := a.deps.Forms.SubmitOnce(ctx, formName, form.Values(body))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeData(w, http.StatusCreated, submitted{ID: id.String()})
	}
}

func (a *App) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	id, session, err := a.deps.Forms.Open(chi.URLParam(r, "form"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, sessionView{ID: id.String(), Snapshot: session.Snapshot()})
}

// withSession resolves the {form} and {id} URL parameters
func (a *App) withSession(fn func(w http.ResponseWriter, r *http.Request, id core.SessionID, s *form.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := core.ParseSessionID(chi.URLParam(r, "id"))
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		session, err := a.deps.Forms.Get(chi.URLParam(r, "form"), id)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		fn(w, r, id, session)
	}
}

func (a *App) writeSession(w http.ResponseWriter, id core.SessionID, s *form.Session) {
	writeData(w, http.StatusOK, sessionView{ID: id.String(), Snapshot: s.Snapshot()})
}

func (a *App) handleGetSession(w http.ResponseWriter, r *http.Request) {
	a.withSession(func(w http.ResponseWriter, _ *http.Request, id core.SessionID, s *form.Session) {
		a.writeSession(w, id, s)
	})(w, r)
}

func (a *App) handleSetFields(w http.ResponseWriter, r *http.Request) {
	a.withSession(func(w http.ResponseWriter, r *http.Request, id core.SessionID, s *form.Session) {
		var values map[string]interface{}
		if err := decodeJSON(r, &values); err != nil {
			a.writeError(w, r, err)
			return
		}
		if err := s.SetAll(form.Values(values)); err != nil {
			a.writeError(w, r, err)
			return
		}
		a.writeSession(w, id, s)
	})(w, r)
}

func (a *App) handleNext(w http.ResponseWriter, r *http.Request) {
	a.withSession(func(w http.ResponseWriter, r *http.Request, id core.SessionID, s *form.Session) {
		if err := s.GoNext(); err != nil {
			a.writeError(w, r, err)
			return
		}
		a.writeSession(w, id, s)
	})(w, r)
}

func (a *App) handlePrevious(w http.ResponseWriter, r *http.Request) {
	a.withSession(func(w http.ResponseWriter, r *http.Request, id core.SessionID, s *form.Session) {
		if err := s.GoPrevious(); err != nil {
			a.writeError(w, r, err)
			return
		}
		a.writeSession(w, id, s)
	})(w, r)
}

func (a *App) handleEvent(w http.ResponseWriter, r *http.Request) {
	a.withSession(func(w http.ResponseWriter, r *http.Request, _ core.SessionID, s *form.Session) {
		var req eventRequest
		if err := decodeJSON(r, &req); err != nil {
			a.writeError(w, r, err)
			return
		}
		var err error
		switch req.Type {
		case "focus":
			err = s.Focus(req.Field)
		case "blur":
			err = s.Blur(req.Field)
		case "abandon":
			s.Abandon()
		default:
			err = errors.InvalidInput("unknown event type: " + req.Type)
		}
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, envelope{Success: true})
	})(w, r)
}

func (a *App) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req submitRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	ctx := submission.WithClient(r.Context(), submission.Client{
		RecaptchaToken: req.RecaptchaToken,
		RemoteIP:       clientIP(r),
	})
	recordID, session, err := a.deps.Forms.Submit(ctx, chi.URLParam(r, "form"), id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, submitted{
		ID:      recordID.String(),
		Session: &sessionView{ID: id.String(), Snapshot: session.Snapshot()},
	})
}
