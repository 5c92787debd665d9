package web

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/labdesk/labdesk/internal/core"
	"github.com/labdesk/labdesk/internal/logging"
	"github.com/labdesk/labdesk/internal/store"
	"github.com/labdesk/labdesk/internal/web/templates"
)

// sessionCookie names the cookie that keys per-browser session state.
const sessionCookie = "labdesk_session"

var errNoEdit = errors.New("no edit in progress")

// session resolves the request's session, creating one (and setting the
// cookie) when none exists.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *core.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(c.Value); ok {
			return sess
		}
	}

	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// dashboardParams builds the render parameters for the session's view
// of the dataset. While editing, the table shows the buffer, not the
// dataset.
func dashboardParams(sess *core.Session, ds *core.Dataset) templates.DashboardParams {
	p := templates.DashboardParams{
		Selection:   sess.Selection,
		Departments: core.Departments(ds),
	}
	if sess.Mode == core.ModeEditing && sess.Edit != nil {
		p.Editing = true
		p.View = sess.Edit.View(sess.Selection, len(ds.Projects))
	} else {
		visible := core.VisibleRows(ds, sess.Selection)
		p.View = core.BuildView(visible, sess.Selection, len(ds.Projects))
	}
	return p
}

// handleDashboard renders the main dashboard page. If the dataset
// cannot be loaded, an error page renders instead: no partial data.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	ds, _, err := s.store.Current(r.Context())
	if err != nil {
		s.respondError(w, r, err, loadStatus(err))
		return
	}

	templates.Dashboard(dashboardParams(sess, ds)).Render(r.Context(), w)
}

// handleTable renders the table region. HTMX-style requests get the
// partial; direct navigation gets the full page.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if !isHTMX(r) {
		s.handleDashboard(w, r)
		return
	}
	sess := s.session(w, r)
	s.renderTable(w, r, sess)
}

// renderTable re-renders the table partial for the session's current state.
func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	ds, _, err := s.store.Current(r.Context())
	if err != nil {
		s.respondError(w, r, err, loadStatus(err))
		return
	}
	templates.TablePartial(dashboardParams(sess, ds)).Render(r.Context(), w)
}

// handleFilter updates the session's department/status selection and
// returns the refreshed table partial.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Department string `json:"department"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.session(w, r)
	if req.Department != "" {
		sess.Selection.Department = req.Department
	}
	if req.Status != "" {
		sess.Selection.Status = req.Status
	}

	s.renderTable(w, r, sess)
}

// handleColumns replaces the session's hidden-column set and returns
// the refreshed table partial. Unknown column names are ignored.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hidden []string `json:"hidden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hidden := make(map[string]bool)
	for _, col := range req.Hidden {
		if _, ok := core.FieldByName(col); ok {
			hidden[col] = true
		}
	}

	sess := s.session(w, r)
	sess.Selection.Hidden = hidden

	s.renderTable(w, r, sess)
}

// handleMode toggles edit mode. Entering seeds the buffer from the rows
// currently visible; leaving without save silently discards the buffer.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Editing bool `json:"editing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := s.session(w, r)
	switch {
	case req.Editing && sess.Mode != core.ModeEditing:
		ds, version, err := s.store.Current(r.Context())
		if err != nil {
			s.respondError(w, r, err, loadStatus(err))
			return
		}
		sess.StartEditing(core.VisibleRows(ds, sess.Selection), version)
	case !req.Editing:
		sess.StopEditing()
	}

	s.renderTable(w, r, sess)
}

// handleEditCell stages a single cell edit in the session's buffer.
func (s *Server) handleEditCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowID  string `json:"rowId"`
		Column string `json:"column"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RowID == "" || req.Column == "" {
		writeError(w, http.StatusBadRequest, "rowId and column are required")
		return
	}

	sess := s.session(w, r)
	if sess.Edit == nil {
		s.respondError(w, r, errNoEdit, http.StatusConflict)
		return
	}
	if err := sess.Edit.SetCell(req.RowID, req.Column, req.Value); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// handleInsertRow appends a draft row to the buffer and returns its
// buffer-local identifier.
func (s *Server) handleInsertRow(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess.Edit == nil {
		s.respondError(w, r, errNoEdit, http.StatusConflict)
		return
	}

	p := sess.Edit.InsertRow()
	writeJSON(w, map[string]string{"rowId": p.ID})
}

// handleDeleteRow removes a row from the buffer. The dataset row is
// deleted only when the session saves.
func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "rowID")
	if rowID == "" {
		writeError(w, http.StatusBadRequest, "missing row ID")
		return
	}

	sess := s.session(w, r)
	if sess.Edit == nil {
		s.respondError(w, r, errNoEdit, http.StatusConflict)
		return
	}
	if err := sess.Edit.DeleteRow(rowID); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"status": "deleted"})
}

// handleSave commits the buffer into the dataset and persists it with
// an optimistic version check. On any failure the buffer is kept so the
// user's edits are not lost; on success the session returns to
// read-only and the table re-renders from the reloaded file.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess.Edit == nil {
		s.respondError(w, r, errNoEdit, http.StatusConflict)
		return
	}

	ds, version, err := s.store.Current(r.Context())
	if err != nil {
		s.respondError(w, r, err, loadStatus(err))
		return
	}
	if version != sess.Edit.Version() {
		s.respondError(w, r, fmt.Errorf("%w: dataset changed since editing began", store.ErrStaleVersion), http.StatusConflict)
		return
	}

	merged := sess.Edit.Commit(ds)
	if err := s.store.SaveVersion(r.Context(), merged, version); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrStaleVersion) {
			status = http.StatusConflict
		}
		s.respondError(w, r, err, status)
		return
	}

	logging.FromContext(r.Context()).Info("dataset saved",
		"rows", len(merged.Projects),
		"path", s.store.Path(),
	)

	sess.StopEditing()
	s.renderTable(w, r, sess)
}

// handleExport downloads the currently visible projection as a CSV file.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	ds, _, err := s.store.Current(r.Context())
	if err != nil {
		s.respondError(w, r, err, loadStatus(err))
		return
	}

	view := core.BuildView(core.VisibleRows(ds, sess.Selection), sess.Selection, len(ds.Projects))

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("projects_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)

	header := make([]string, len(view.Columns))
	for i, c := range view.Columns {
		header[i] = c.Name
	}
	cw.Write(header)

	for _, row := range view.Rows {
		cw.Write(row.Cells)
	}

	cw.Flush()
}

// loadStatus maps a load failure to its HTTP status.
func loadStatus(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError writes a minimal JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
