package ui

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nambiararyan24/portfolio/adapters/excel"
	"github.com/nambiararyan24/portfolio/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type markRequest struct {
	Read bool `json:"read"`
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.deps.Dashboard.Stats(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (a *App) handleListLeads(w http.ResponseWriter, r *http.Request) {
	filter := models.ParseLeadFilter(r.URL.Query().Get("filter"))
	leads, err := a.deps.Admin.ListLeads(r.Context(), filter)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	writeData(w, http.StatusOK, leads)
}

func (a *App) handleMarkLead(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req markRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.deps.Admin.MarkLead(r.Context(), id, req.Read); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// handleExportLeads buffers the workbook so a failure can still be
// reported as JSON.
func (a *App) handleExportLeads(w http.ResponseWriter, r *http.Request) {
	filter := models.ParseLeadFilter(r.URL.Query().Get("filter"))
	var buf bytes.Buffer
	n, err := a.deps.Admin.ExportLeads(r.Context(), filter, &buf)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+excel.ExportFileName(time.Now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Lead-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
