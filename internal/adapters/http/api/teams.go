package api

import (
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/matchpredictor/internal/app"
)

// TeamsHandler handles form table requests.
type TeamsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies, maxLimit int) *TeamsHandler {
	return &TeamsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTeams handles GET /teams?limit=N requests. The limit defaults to
// 20 and is capped at the configured maximum.
func (h *TeamsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := min(defaultTeamsLimit, h.maxLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = min(v, h.maxLimit)
	}

	rows, err := h.deps.Teams(r.Context(), n)
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
