package ui

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/domain/form"
	"github.com/nambiararyan24/portfolio/internal/errors"
)

const maxJSONBody = 1 << 20

var errEmptyBody = errors.InvalidInput("request body is empty")

// envelope is the shape of every JSON response
type envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Files    []string    `json:"files,omitempty"`
	Error    string      `json:"error,omitempty"`
	Code     string      `json:"code,omitempty"`
	Fields   form.Errors `json:"fields,omitempty"`
	Degraded bool        `json:"degraded,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError maps err onto a status code and an error envelope. This is the
// only place where errors become HTTP statuses.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("[HTTP] %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		a.logger.Debug("[HTTP] %s %s: %d %v", r.Method, r.URL.Path, status, err)
	}
	writeJSON(w, status, body)
}

func errorResponse(err error) (int, envelope) {
	var stepErr *form.StepError
	if stderrors.As(err, &stepErr) {
		return http.StatusBadRequest, envelope{
			Error:  "Please correct the highlighted fields",
			Code:   errors.CodeValidationError,
			Fields: stepErr.Errors,
		}
	}

	switch {
	case stderrors.Is(err, core.ErrUnknownField), stderrors.Is(err, core.ErrInvalidID):
		return http.StatusBadRequest, envelope{Error: err.Error(), Code: errors.CodeInvalidInput}
	case core.IsLifecycleError(err):
		return http.StatusConflict, envelope{Error: err.Error(), Code: errors.CodeConflict}
	}

	code := errors.GetCode(err)
	switch code {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		return http.StatusBadRequest, envelope{Error: err.Error(), Code: code}
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized, envelope{Error: "Unauthorized", Code: code}
	case errors.CodeNotFound:
		return http.StatusNotFound, envelope{Error: err.Error(), Code: code}
	case errors.CodeConflict:
		return http.StatusConflict, envelope{Error: err.Error(), Code: code}
	case errors.CodeRateLimited:
		return http.StatusTooManyRequests, envelope{Error: "Too many requests, please try again later", Code: code}
	case errors.CodePersistFailed:
		return http.StatusInternalServerError, envelope{Error: "Failed to save your submission, please try again", Code: code}
	}

	if core.IsNotFoundError(err) {
		return http.StatusNotFound, envelope{Error: err.Error(), Code: errors.CodeNotFound}
	}
	return http.StatusInternalServerError, envelope{Error: "Internal server error", Code: errors.CodeInternalError}
}

// decodeJSON reads a bounded JSON body into dst. Numbers stay json.Number
// so form values keep their precision until the schema normalises them.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "invalid JSON body"))
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	if err := decodeJSON(r, dst); err != errEmptyBody {
		return err
	}
	return nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.InvalidInput("invalid id: " + raw)
	}
	return id, nil
}
