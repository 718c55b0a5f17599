package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/matchpredictor/internal/adapters/http/api"
	service "github.com/okian/matchpredictor/internal/app"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/prediction"
	"github.com/okian/matchpredictor/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	ballot     prediction.Ballot
	predictErr error
	teams      []types.TeamForm
	teamsErr   error

	lastHome, lastAway, lastLeague string
	lastLimit                      int
}

func (m *mockDependencies) Predict(_ context.Context, home, away, league string) (prediction.Ballot, error) {
	m.lastHome, m.lastAway, m.lastLeague = home, away, league
	if m.predictErr != nil {
		return prediction.Ballot{}, m.predictErr
	}
	if strings.TrimSpace(home) == "" || strings.TrimSpace(away) == "" {
		return prediction.Ballot{}, service.ErrInvalidFixture
	}
	return m.ballot, nil
}

func (m *mockDependencies) Teams(_ context.Context, n int) ([]types.TeamForm, error) {
	m.lastLimit = n
	if m.teamsErr != nil {
		return nil, m.teamsErr
	}
	if n > len(m.teams) {
		return m.teams, nil
	}
	return m.teams[:n], nil
}

func (m *mockDependencies) ModelID() string { return "model-1" }

type mockStatsProvider struct {
	stats map[string]any
}

func (m *mockStatsProvider) GetStats() map[string]any {
	return m.stats
}

func homeBallot() prediction.Ballot {
	return prediction.Ballot{
		Prediction: model.Prediction{Outcome: model.Home},
		Scores:     prediction.Scores{Home: 7},
		Votes: []prediction.Vote{
			{Signal: prediction.SignalPair, Outcome: model.Home, Weight: 3},
			{Signal: prediction.SignalHome, Outcome: model.Home, Weight: 2},
			{Signal: prediction.SignalAway, Outcome: model.Home, Weight: 2},
		},
	}
}

func serve(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{ballot: homeBallot()}
		statsProvider := &mockStatsProvider{stats: map[string]any{"started": true, "league": "bundesliga"}}
		server := api.NewServer(deps, statsProvider, api.WithMaxTeamsLimit(50))
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(mux)

			Convey("And health endpoint should serve metrics", func() {
				w := serve(mux, http.MethodGet, "/healthz")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "matchpredictor_")
			})

			Convey("And stats endpoint should be accessible", func() {
				w := serve(mux, http.MethodGet, "/stats")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})

			Convey("And stats can be narrowed to one section", func() {
				w := serve(mux, http.MethodGet, "/stats?section=league")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"league":"bundesliga"`)
				So(w.Body.String(), ShouldNotContainSubstring, "started")

				w = serve(mux, http.MethodGet, "/stats?section=nope")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "unknown_section")
			})

			Convey("And predict endpoint should be accessible", func() {
				w := serve(mux, http.MethodGet, "/predict?home=Arsenal&away=Chelsea")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And teams endpoint should be accessible", func() {
				w := serve(mux, http.MethodGet, "/teams")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And unknown paths should not be found", func() {
				w := serve(mux, http.MethodGet, "/leaderboard")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestPredictHandler(t *testing.T) {
	Convey("Given a predict handler", t, func() {
		deps := &mockDependencies{ballot: homeBallot()}
		handler := api.NewPredictHandler(deps)

		call := func(method, target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, target, nil)
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)
			return w
		}

		Convey("When both teams are given", func() {
			w := call(http.MethodGet, "/predict?home=Arsenal&away=Chelsea&league=Barclays+Premier+League")

			Convey("Then the ballot is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["outcome"], ShouldEqual, "home")
				So(body["fallback"], ShouldEqual, false)
				So(body["model_id"], ShouldEqual, "model-1")
				So(body["scores"].(map[string]any)["home"], ShouldEqual, 7)
				signals := body["signals"].([]any)
				So(len(signals), ShouldEqual, 3)
				So(signals[0].(map[string]any)["signal"], ShouldEqual, "pair")
			})

			Convey("Then the query is passed through", func() {
				So(deps.lastHome, ShouldEqual, "Arsenal")
				So(deps.lastAway, ShouldEqual, "Chelsea")
				So(deps.lastLeague, ShouldEqual, "Barclays Premier League")
			})
		})

		Convey("When the ballot has no votes", func() {
			deps.ballot = prediction.Ballot{Prediction: model.Prediction{Outcome: model.Away}, Fallback: true}
			w := call(http.MethodGet, "/predict?home=Zulu&away=Alpha")

			Convey("Then signals is an empty list and fallback is reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"signals":[]`)
				So(w.Body.String(), ShouldContainSubstring, `"fallback":true`)
				So(w.Body.String(), ShouldContainSubstring, `"outcome":"away"`)
			})
		})

		Convey("When a team is missing", func() {
			w := call(http.MethodGet, "/predict?home=Arsenal")

			Convey("Then it should return bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			})
		})

		Convey("When the model is not ready", func() {
			deps.predictErr = service.ErrNotStarted
			w := call(http.MethodGet, "/predict?home=A&away=B")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When prediction fails unexpectedly", func() {
			deps.predictErr = errors.New("boom")
			w := call(http.MethodGet, "/predict?home=A&away=B")

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When handling a non-GET request", func() {
			w := call(http.MethodPost, "/predict?home=A&away=B")

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTeamsHandler(t *testing.T) {
	Convey("Given a teams handler", t, func() {
		var rows []types.TeamForm
		for i := 1; i <= 30; i++ {
			rows = append(rows, types.TeamForm{Rank: i, Team: fmt.Sprintf("Team %02d", i)})
		}
		deps := &mockDependencies{teams: rows}
		handler := api.NewTeamsHandler(deps, 25)

		call := func(target string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			w := httptest.NewRecorder()
			handler.HandleGetTeams(w, req)
			return w
		}

		Convey("When no limit is specified", func() {
			w := call("/teams")

			Convey("Then the default limit is used", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 20)
				var got []types.TeamForm
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(len(got), ShouldEqual, 20)
				So(got[0].Team, ShouldEqual, "Team 01")
			})
		})

		Convey("When the limit exceeds the maximum", func() {
			w := call("/teams?limit=1000")

			Convey("Then it is capped", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 25)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-3", "ten"} {
				w := call("/teams?limit=" + q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the model is not ready", func() {
			deps.teamsErr = fmt.Errorf("query: %w", service.ErrNotStarted)
			w := call("/teams?limit=5")

			Convey("Then it should return service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When the form table fails", func() {
			deps.teamsErr = errors.New("boom")
			w := call("/teams?limit=5")

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given API errors", t, func() {
		cause := errors.New("cause")

		Convey("Then kinds and causes are both matchable", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: cause")
		})

		Convey("Then NewKind carries only the kind", func() {
			err := api.NewKind("api.op", api.ErrNotReady)
			So(errors.Is(err, api.ErrNotReady), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: model not ready")
		})

		Convey("Then Wrap classifies as internal", func() {
			err := api.Wrap("api.op", cause)
			So(errors.Is(err, api.ErrInternal), ShouldBeTrue)
		})
	})
}
