package api

import (
	"errors"
	"net/http"

	service "github.com/okian/matchpredictor/internal/app"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/prediction"
)

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps Dependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps Dependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

type predictResponse struct {
	Home     string            `json:"home"`
	Away     string            `json:"away"`
	League   string            `json:"league,omitempty"`
	Outcome  model.Outcome     `json:"outcome"`
	Scores   prediction.Scores `json:"scores"`
	Signals  []prediction.Vote `json:"signals"`
	Fallback bool              `json:"fallback"`
	ModelID  string            `json:"model_id"`
}

// HandlePredict handles GET /predict?home=A&away=B[&league=L] requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	home, away, league := q.Get("home"), q.Get("away"), q.Get("league")

	b, err := h.deps.Predict(r.Context(), home, away, league)
	switch {
	case errors.Is(err, service.ErrInvalidFixture):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", WrapKind(op, ErrNotReady, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	signals := b.Votes
	if signals == nil {
		signals = []prediction.Vote{}
	}
	writeJSON(w, http.StatusOK, predictResponse{
		Home:     home,
		Away:     away,
		League:   league,
		Outcome:  b.Prediction.Outcome,
		Scores:   b.Scores,
		Signals:  signals,
		Fallback: b.Fallback,
		ModelID:  h.deps.ModelID(),
	})
}
