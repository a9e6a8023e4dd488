package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"termcal/internal/capture"
	"termcal/internal/csvio"
	"termcal/internal/ical"
	applog "termcal/internal/log"
	"termcal/internal/model"
	"termcal/internal/store"
)

// maxImportBytes bounds the accepted CSV upload size.
const maxImportBytes = 10 << 20

// handleGrid returns the fully rendered term table for the requested view.
//
// GET /api/grid?view=teacher|parent
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view := model.ParseViewMode(r.URL.Query().Get("view"))
	settings := s.st.Settings()

	table := s.renderer.Render(settings.SemesterStart, s.st.Events(), s.st.Notes(), view)
	table.TitleYear = settings.TitleYear
	table.TitleSemester = settings.TitleSemester

	writeJSON(w, http.StatusOK, table)
}

type addEventRequest struct {
	Date        string `json:"date"`
	EndDate     string `json:"endDate"`
	Desc        string `json:"desc"`
	TeacherOnly bool   `json:"teacherOnly"`
}

// handleEvents lists (GET) or adds (POST) events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.st.Events())

	case http.MethodPost:
		var req addEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Desc = strings.TrimSpace(req.Desc)

		ev, err := s.st.AddEvent(req.Date, req.EndDate, req.Desc, req.TeacherOnly)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		applog.Info("event added", "id", ev.ID, "date", ev.Date, "end_date", ev.EndDate, "teacher_only", ev.TeacherOnly)
		writeJSON(w, http.StatusCreated, ev)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleEventByID deletes a single event.
//
// DELETE /api/events/{id}?confirm=true
func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := parseIDPath(r.URL.Path, "/api/events/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if !confirmed(r) {
		writeError(w, http.StatusConflict, "confirmation required")
		return
	}

	deleted, err := s.st.DeleteEvent(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	applog.Info("event deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type addNoteRequest struct {
	Month   string `json:"month"`
	Content string `json:"content"`
}

// handleNotes lists (GET) or adds (POST) monthly notes.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.st.Notes())

	case http.MethodPost:
		var req addNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		req.Content = strings.TrimSpace(req.Content)

		n, err := s.st.AddNote(req.Month, req.Content)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		applog.Info("note added", "id", n.ID, "month", n.Month)
		writeJSON(w, http.StatusCreated, n)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleNoteByID deletes a single note.
//
// DELETE /api/notes/{id}?confirm=true
func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := parseIDPath(r.URL.Path, "/api/notes/")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}
	if !confirmed(r) {
		writeError(w, http.StatusConflict, "confirmation required")
		return
	}

	deleted, err := s.st.DeleteNote(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	applog.Info("note deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type settingsRequest struct {
	SemesterStart *string `json:"semesterStart"`
	TitleYear     *int    `json:"titleYear"`
	TitleSemester *int    `json:"titleSemester"`
}

// handleSettings reads (GET) or updates (PUT) the term settings. PUT fields
// are optional; absent fields are left untouched, numeric fields are
// clamped to their valid ranges.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.st.Settings())

	case http.MethodPut:
		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if req.SemesterStart != nil {
			if err := s.st.SetSemesterStart(*req.SemesterStart); err != nil {
				writeStoreError(w, err)
				return
			}
		}
		if req.TitleYear != nil {
			if _, err := s.st.SetTitleYear(*req.TitleYear); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to save title year")
				return
			}
		}
		if req.TitleSemester != nil {
			if _, err := s.st.SetTitleSemester(*req.TitleSemester); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to save title semester")
				return
			}
		}
		writeJSON(w, http.StatusOK, s.st.Settings())

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleExportCSV streams the whole dataset in the interchange format.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data := csvio.Encode(s.st.Events(), s.st.Notes())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="school_schedule_data.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type importResponse struct {
	Events  int `json:"events"`
	Notes   int `json:"notes"`
	Skipped int `json:"skipped"`
}

// handleImportCSV replaces both collections with the uploaded payload.
//
// POST /api/import.csv?confirm=true with the raw CSV as body. The confirm
// flag is mandatory: import discards every existing event and note. Only
// one import may be in flight at a time; concurrent attempts get a 409.
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !confirmed(r) {
		writeError(w, http.StatusConflict, "confirmation required: import replaces all existing data")
		return
	}

	if !s.importMu.TryLock() {
		writeError(w, http.StatusConflict, "another import is already in progress")
		return
	}
	defer s.importMu.Unlock()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	doc := csvio.Decode(body)
	if err := s.st.ReplaceAll(doc.Events, doc.Notes); err != nil {
		applog.Error("csv import failed", err)
		writeError(w, http.StatusInternalServerError, "failed to replace schedule data")
		return
	}

	applog.Info("csv import completed", "events", len(doc.Events), "notes", len(doc.Notes), "skipped", doc.Skipped)
	writeJSON(w, http.StatusOK, importResponse{
		Events:  len(doc.Events),
		Notes:   len(doc.Notes),
		Skipped: doc.Skipped,
	})
}

// handleExportICS serializes the event collection as an iCalendar feed.
//
// GET /api/export.ics?view=teacher|parent
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	view := model.ParseViewMode(r.URL.Query().Get("view"))
	out, err := ical.Export(s.st.Events(), view)
	if err != nil {
		applog.Error("ics export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="school_schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// handleSnapshot captures the schedule page to the preview PNG.
//
// POST /api/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	opts := capture.Options{
		URL:        "http://" + s.cfg.Listen + "/",
		OutputPath: s.previewPath(),
	}
	if err := capture.SchedulePNG(r.Context(), opts); err != nil {
		applog.Error("snapshot capture failed", err)
		writeError(w, http.StatusInternalServerError, "failed to capture schedule page")
		return
	}

	applog.Info("snapshot captured", "path", opts.OutputPath)
	writeJSON(w, http.StatusOK, map[string]string{"preview": "/preview.png"})
}

// writeStoreError maps store validation failures to 400s; anything else is
// a persistence problem.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrMissingDate),
		errors.Is(err, store.ErrMissingDesc),
		errors.Is(err, store.ErrInvalidDate),
		errors.Is(err, store.ErrEndBeforeStart),
		errors.Is(err, store.ErrMissingMonth),
		errors.Is(err, store.ErrMissingContent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to persist change")
	}
}

// confirmed reports whether the request carries the explicit confirm flag
// destructive operations require.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

// parseIDPath extracts the numeric id from a path like prefix + "123".
func parseIDPath(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
