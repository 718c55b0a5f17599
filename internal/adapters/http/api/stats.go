package api

import (
	"fmt"
	"net/http"
	"strings"
)

// StatsProvider reports service state keyed by section name.
type StatsProvider interface {
	GetStats() map[string]any
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats writes every section, or only ?section=name when given.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats := h.provider.GetStats()
	section := strings.TrimSpace(r.URL.Query().Get("section"))
	if section == "" {
		writeJSON(w, http.StatusOK, stats)
		return
	}
	v, ok := stats[section]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_section",
			WrapKind(op, ErrBadRequest, fmt.Errorf("no stats section %q", section)))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{section: v})
}
