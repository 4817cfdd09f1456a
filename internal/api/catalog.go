package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pbaille/dealflow/internal/domain"
	"github.com/pbaille/dealflow/internal/similar"
)

// catalogScan caps how many catalog rows similarity ranking considers
const catalogScan = 1000

// StartupRequest is the request body for adding or updating a startup
type StartupRequest struct {
	OwnerID string         `json:"owner_id,omitempty"`
	Column  string         `json:"column,omitempty"`
	Startup domain.Startup `json:"startup"`
}

func (s *Server) addStartup(w http.ResponseWriter, r *http.Request) {
	var req StartupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Startup.Name) == "" {
		writeError(w, http.StatusBadRequest, "startup name is required")
		return
	}

	col, ok := parseColumnOrDefault(w, req.Column)
	if !ok {
		return
	}

	owner := req.OwnerID
	if owner == "" {
		owner = r.Header.Get("X-User-ID")
	}

	entry, err := s.store.AddStartup(owner, col, req.Startup)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) getStartup(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.GetStartup(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) updateStartup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := s.store.GetStartup(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	var req StartupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Startup.Name) == "" {
		writeError(w, http.StatusBadRequest, "startup name is required")
		return
	}

	updated := *existing
	updated.Startup = req.Startup
	updated.ID = id
	if req.Column != "" {
		col, err := domain.ParseColumnID(req.Column)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated.Column = col
	}

	if err := s.store.UpdateStartup(updated); err != nil {
		s.writeFailure(w, err)
		return
	}

	entry, err := s.store.GetStartup(id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteStartup(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteStartup(r.PathValue("id")); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listStartups(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	entries, err := s.store.ListStartups(limit, offset)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"startups": entries,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) myStartups(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		owner = r.Header.Get("X-User-ID")
	}
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner is required (query parameter 'owner' or X-User-ID header)")
		return
	}

	entries, err := s.store.ListByOwner(owner)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"startups": entries,
		"owner":    owner,
	})
}

func (s *Server) similarStartups(w http.ResponseWriter, r *http.Request) {
	target, err := s.store.GetStartup(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	k := 5
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			k = n
		}
	}

	entries, err := s.store.ListStartups(catalogScan, 0)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	pool := make([]domain.Startup, len(entries))
	for i, e := range entries {
		pool[i] = e.Startup
	}

	matches := similar.Rank(target.Startup, pool, k)
	if matches == nil {
		matches = []similar.Match{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"startup": target.ID,
		"similar": matches,
	})
}

func (s *Server) searchStartups(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	entries, err := s.store.SearchStartups(query)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"startups": entries,
		"query":    query,
	})
}

// parseColumnOrDefault resolves an optional column, writing a 400 on failure
func parseColumnOrDefault(w http.ResponseWriter, raw string) (domain.ColumnID, bool) {
	if raw == "" {
		return domain.ColumnInterested, true
	}
	col, err := domain.ParseColumnID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return col, true
}
