package api

import (
	"encoding/json"
	"net/http"

	"github.com/pbaille/dealflow/internal/actions"
	"github.com/pbaille/dealflow/internal/board"
	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/notify"
	"github.com/pbaille/dealflow/internal/render"
)

// BoardResponse is the board as JSON
type BoardResponse struct {
	View       string                 `json:"view"`
	Columns    []board.ColumnSnapshot `json:"columns"`
	Toast      *notify.Toast          `json:"toast,omitempty"`
	Processing *actions.Job           `json:"processing,omitempty"`
}

// MoveRequest is the request body for a card move
type MoveRequest struct {
	StartupID string `json:"startup_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// ActionRequest is the request body for a quick action. Confirm and Input
// answer the action's prompt up front.
type ActionRequest struct {
	Action    string `json:"action"`
	StartupID string `json:"startup_id"`
	Confirm   bool   `json:"confirm"`
	Input     string `json:"input,omitempty"`
}

// RestoreRequest is the request body for putting an archived startup back
type RestoreRequest struct {
	To string `json:"to"`
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	mode, err := render.ParseViewMode(r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := s.session.Snapshot()
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(render.Board(snap, render.Options{Mode: mode})))
		return
	}

	resp := BoardResponse{View: mode.String(), Columns: snap.Columns}
	if t, ok := s.session.Toast(); ok {
		resp.Toast = &t
	}
	if job, ok := s.session.Dispatcher().Processing(); ok {
		resp.Processing = &job
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) moveStartup(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StartupID == "" {
		writeError(w, http.StatusBadRequest, "startup_id is required")
		return
	}

	from, err := domain.ParseColumnID(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := domain.ParseColumnID(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	moved, err := s.session.Move(req.StartupID, from, to)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	resp := map[string]interface{}{"moved": moved}
	if t, ok := s.session.Toast(); ok && moved {
		resp["toast"] = t
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := actions.Parse(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StartupID == "" {
		writeError(w, http.StatusBadRequest, "startup_id is required")
		return
	}

	outcome, err := s.session.RunAction(a, req.StartupID, actions.Answers{Confirmed: req.Confirm, Text: req.Input})
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	resp := map[string]interface{}{
		"action":     a,
		"startup_id": req.StartupID,
		"outcome":    outcome,
	}
	if job, ok := s.session.Dispatcher().Processing(); ok && outcome == actions.OutcomeProcessing {
		resp["job"] = job
	}
	status := http.StatusOK
	if outcome == actions.OutcomeProcessing {
		status = http.StatusAccepted
	}
	writeJSON(w, status, resp)
}

func (s *Server) listArchive(w http.ResponseWriter, r *http.Request) {
	archived := s.session.Snapshot().Archived
	if archived == nil {
		archived = []domain.Startup{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"archived": archived})
}

func (s *Server) restoreStartup(w http.ResponseWriter, r *http.Request) {
	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	to, err := domain.ParseColumnID(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	ok, err := s.session.Restore(id, to)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "startup not archived")
		return
	}

	st, col, _ := s.session.Find(id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"startup": st,
		"column":  col,
	})
}

func (s *Server) getToast(w http.ResponseWriter, r *http.Request) {
	t, ok := s.session.Toast()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"toast": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"toast": t})
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	history := s.session.Dispatcher().History()
	if history == nil {
		history = []actions.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": history})
}
