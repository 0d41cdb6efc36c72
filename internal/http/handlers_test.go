package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mauv0809/dart-scoreboard/internal/backend"
	"github.com/mauv0809/dart-scoreboard/internal/checkout"
	"github.com/mauv0809/dart-scoreboard/internal/config"
	"github.com/mauv0809/dart-scoreboard/internal/legtable"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/match/matchtest"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/notifier"
	"github.com/mauv0809/dart-scoreboard/internal/pubsub"
	"github.com/mauv0809/dart-scoreboard/internal/scoreboard"
	"github.com/mauv0809/dart-scoreboard/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	backend  *backend.MockClient
	counters *metrics.MockCounterStore
	notifier *notifier.Mock
}

// setupTestServer wires a server around mocks and the built-in checkout table.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	raw, err := json.Marshal(checkout.Standard())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	checkouts := checkout.NewService(store.NewMockKV(), checkout.StaticFetcher{Raw: raw}, metricsSvc)

	ts := &testServer{
		backend:  backend.NewMock(),
		counters: metrics.NewMockCounterStore(),
		notifier: notifier.NewMock(),
	}
	board := scoreboard.New(scoreboard.Deps{
		Backend:  ts.backend,
		Lookup:   checkouts,
		Store:    store.NewMockSnapshots(),
		Counters: ts.counters,
		Notifier: ts.notifier,
		Metrics:  metricsSvc,
	})
	ts.Server = NewServer(board, checkouts, ts.counters, metrics.NewMetricsHandler(reg), config.Config{})
	return ts
}

func inPlay() *match.Match {
	m := matchtest.NewMatch(301, "A", "B")
	matchtest.AddLeg(m, 1, matchtest.Rounds(301,
		map[string]int{"A": 100, "B": 60},
		map[string]int{"A": 100},
	), "", 0)
	matchtest.SetProgress(m, 1, 1, 2, "B")
	return m
}

func (ts *testServer) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	ts.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) apply(t *testing.T, m *match.Match) {
	t.Helper()
	_, err := ts.Board.Apply(context.Background(), m, false)
	require.NoError(t, err)
}

func TestHealthCheckHandler(t *testing.T) {
	ts := setupTestServer(t)
	rr := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestMetricsHandler(t *testing.T) {
	ts := setupTestServer(t)
	ts.apply(t, inPlay())

	rr := ts.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "scoreboard_snapshots_applied_total 1")
}

func TestMatchViews(t *testing.T) {
	ts := setupTestServer(t)
	ts.apply(t, inPlay())

	t.Run("list", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/matches", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got []matchSummary
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "match-1", got[0].ID)
		assert.Equal(t, "IN_PLAY", got[0].Status)
	})

	t.Run("cards carry the suggested checkout", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/matches/match-1/cards", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var got struct {
			Sets []struct {
				Legs []struct {
					Players map[string]struct {
						Remaining         int    `json:"remaining"`
						SuggestedCheckout string `json:"suggestedCheckout"`
					} `json:"players"`
				} `json:"legs"`
			} `json:"sets"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got.Sets, 1)
		a := got.Sets[0].Legs[0].Players["A"]
		assert.Equal(t, 101, a.Remaining)
		assert.Equal(t, "T17, Bull", a.SuggestedCheckout)
	})

	t.Run("timeline", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/matches/match-1/timeline", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"sets"`)
	})

	t.Run("current table", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/matches/match-1/table", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var table legtable.Table
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "B", *table.Rows[1].CurrentThrower)
	})

	t.Run("leg table", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/matches/match-1/sets/1/legs/1/table", nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = ts.do(t, http.MethodGet, "/matches/match-1/sets/1/legs/9/table", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = ts.do(t, http.MethodGet, "/matches/match-1/sets/x/legs/1/table", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown match", func(t *testing.T) {
		for _, path := range []string{"/matches/nope", "/matches/nope/cards", "/matches/nope/timeline"} {
			rr := ts.do(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, rr.Code, path)
		}
	})
}

func TestCurrentTable_NoLegInPlay(t *testing.T) {
	ts := setupTestServer(t)
	m := inPlay()
	m.MatchProgress = match.MatchProgress{}
	ts.apply(t, m)

	rr := ts.do(t, http.MethodGet, "/matches/match-1/table", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRefreshHandler(t *testing.T) {
	ts := setupTestServer(t)
	ts.backend.GetMatchFunc = func(ctx context.Context, matchID string) (*match.Match, error) {
		if matchID == "match-1" {
			return inPlay(), nil
		}
		return nil, backend.ErrNotFound
	}

	rr := ts.do(t, http.MethodPost, "/matches/match-1/refresh", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	_, err := ts.Board.View("match-1")
	assert.NoError(t, err)

	rr = ts.do(t, http.MethodPost, "/matches/other/refresh", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	ts.backend.GetMatchFunc = func(context.Context, string) (*match.Match, error) {
		return nil, &backend.StatusError{Method: "GET", Path: "/api/matches/x", Status: 503}
	}
	rr = ts.do(t, http.MethodPost, "/matches/x/refresh", nil)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestSubmitTurnHandler(t *testing.T) {
	ts := setupTestServer(t)
	body := []byte(`{"setNumber":1,"legNumber":1,"roundNumber":2,"playerId":"B","score":60,"dartsUsed":3}`)

	rr := ts.do(t, http.MethodPost, "/matches/match-1/turns", body)
	require.Equal(t, http.StatusAccepted, rr.Code)
	var sent backend.Turn
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sent))
	assert.NotEmpty(t, sent.RequestID)
	require.Len(t, ts.backend.SubmitTurnCalls, 1)
	assert.Equal(t, 60, ts.backend.SubmitTurnCalls[0].Score)

	t.Run("dry run", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/matches/match-1/turns?dry_run=true", body)
		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Len(t, ts.backend.SubmitTurnCalls, 1)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, b := range []string{`{`, `{"playerId":"B","score":181,"dartsUsed":3}`, `{"score":60,"dartsUsed":3}`, `{"playerId":"B","score":60,"dartsUsed":0}`} {
			rr := ts.do(t, http.MethodPost, "/matches/match-1/turns", []byte(b))
			assert.Equal(t, http.StatusBadRequest, rr.Code, b)
		}
	})
}

func TestTurnCommandHandlers(t *testing.T) {
	ts := setupTestServer(t)
	body := []byte(`{"setNumber":1,"legNumber":1,"roundNumber":2,"playerId":"B","score":45,"dartsUsed":3}`)

	rr := ts.do(t, http.MethodPut, "/matches/match-1/turns/req-7", body)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, ts.backend.UpdateTurnCalls, 1)
	assert.Equal(t, "req-7", ts.backend.UpdateTurnCalls[0].RequestID)
	assert.Equal(t, 45, ts.backend.UpdateTurnCalls[0].Score)

	rr = ts.do(t, http.MethodPut, "/matches/match-1/turns/req-7", []byte(`{"playerId":"B","score":200,"dartsUsed":3}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/matches/match-1/turns/1/2/3/B", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, ts.backend.DeleteTurnCalls, 1)
	assert.Equal(t, backend.TurnKey{SetNumber: 1, LegNumber: 2, RoundNumber: 3, PlayerID: "B"}, ts.backend.DeleteTurnCalls[0])

	for _, target := range []string{"/matches/match-1/turns/x/2/3/B", "/matches/match-1/turns/1/0/3/B"} {
		rr = ts.do(t, http.MethodDelete, target, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
	assert.Len(t, ts.backend.DeleteTurnCalls, 1)

	t.Run("dry run", func(t *testing.T) {
		ts.do(t, http.MethodPut, "/matches/match-1/turns/req-8?dry_run=true", body)
		ts.do(t, http.MethodDelete, "/matches/match-1/turns/1/1/1/A?dry_run=true", nil)
		assert.Len(t, ts.backend.UpdateTurnCalls, 1)
		assert.Len(t, ts.backend.DeleteTurnCalls, 1)
	})
}

func TestMatchCommandHandlers(t *testing.T) {
	ts := setupTestServer(t)
	ts.apply(t, inPlay())

	rr := ts.do(t, http.MethodPost, "/matches/match-1/reset", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"match-1"}, ts.backend.ResetMatchCalls)

	rr = ts.do(t, http.MethodDelete, "/matches/match-1?dry_run=true", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Empty(t, ts.backend.DeleteMatchCalls)
	rr = ts.do(t, http.MethodGet, "/matches/match-1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/matches/match-1", nil)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"match-1"}, ts.backend.DeleteMatchCalls)
	rr = ts.do(t, http.MethodGet, "/matches/match-1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReloadCheckoutsHandler(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(t, http.MethodPost, "/checkouts/reload", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, len(checkout.Standard()), got["entries"])
}

func TestCheckoutHandlers(t *testing.T) {
	ts := setupTestServer(t)

	rr := ts.do(t, http.MethodGet, "/checkouts/170", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got checkoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "T20, T20, Bull", got.Suggestion)
	require.NotNil(t, got.Checkout)
	assert.Equal(t, 3, got.Checkout.MinDarts)

	rr = ts.do(t, http.MethodGet, "/checkouts/169", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got = checkoutResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Empty(t, got.Suggestion)
	assert.Nil(t, got.Checkout)

	rr = ts.do(t, http.MethodGet, "/checkouts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodGet, "/checkouts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var table []checkout.Checkout
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.Len(t, table, len(checkout.Standard()))
}

func TestSnapshotPushHandler(t *testing.T) {
	ts := setupTestServer(t)

	body, err := pubsub.EncodePush("snapshots-sub", inPlay())
	require.NoError(t, err)
	rr := ts.do(t, http.MethodPost, "/pubsub/snapshot", body)
	assert.Equal(t, http.StatusOK, rr.Code)
	_, err = ts.Board.View("match-1")
	assert.NoError(t, err)

	t.Run("undecodable messages are acknowledged", func(t *testing.T) {
		for _, b := range []string{
			"not json",
			`{"message":{"data":"!!"}}`,
			`{"message":{"data":"wQ=="}}`, // 0xc1 is never valid msgpack
		} {
			rr := ts.do(t, http.MethodPost, "/pubsub/snapshot", []byte(b))
			assert.Equal(t, http.StatusOK, rr.Code, b)
			assert.Equal(t, "DROPPED", rr.Body.String(), b)
		}
	})
}

func TestStatsHandler(t *testing.T) {
	ts := setupTestServer(t)
	ts.apply(t, inPlay())
	ts.apply(t, inPlay())

	rr := ts.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 2, got[metrics.KeySnapshotsApplied])
}

func TestChain_AppliesMiddlewaresInOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		assert.True(t, isDryRunFromContext(r))
	}), mw("first"), paramsMiddleware, mw("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?dry_run=true", strings.NewReader("")))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestParamsMiddleware_ParsesBooleanSwitches(t *testing.T) {
	cases := map[string]bool{
		"":              false,
		"dry_run=true":  true,
		"dry_run=1":     true,
		"dry_run=TRUE":  true,
		"dry_run=false": false,
		"dry_run=yes":   false,
	}
	for query, want := range cases {
		target := "/?verbose=1&" + query
		var got requestParams
		h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = paramsFromContext(r)
			w.WriteHeader(http.StatusTeapot)
		}), paramsMiddleware)

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, want, got.DryRun, target)
		assert.True(t, got.Verbose, target)
		assert.Equal(t, http.StatusTeapot, rr.Code, target)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isDryRunFromContext(r), "no params on the context means no dry run")
}
