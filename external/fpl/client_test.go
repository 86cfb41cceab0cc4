package fpl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskandar/fpl-agent/internal/platform/logging"
	"github.com/riskandar/fpl-agent/internal/platform/resilience"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

const bootstrapPayload = `{
	"events": [
		{"id": 11, "name": "Gameweek 11", "is_current": false, "is_next": false, "finished": true},
		{"id": 12, "name": "Gameweek 12", "is_current": true, "is_next": false, "finished": false}
	],
	"teams": [
		{"id": 1, "name": "Arsenal", "short_name": "ARS", "strength": 5},
		{"id": 2, "name": "Brentford", "short_name": "BRE", "strength": 3}
	],
	"elements": [
		{
			"id": 101, "first_name": "Bukayo", "second_name": "Saka", "web_name": "Saka",
			"team": 1, "element_type": 3, "now_cost": 102, "total_points": 88,
			"points_per_game": "6.3", "form": "7.2", "selected_by_percent": "45.1",
			"status": "a", "news": ""
		},
		{
			"id": 102, "first_name": "Keane", "second_name": "Lewis-Potter", "web_name": "Lewis-Potter",
			"team": 2, "element_type": 2, "now_cost": 45, "total_points": 30,
			"points_per_game": "not-a-number", "form": "", "selected_by_percent": "8.0",
			"status": "i", "news": "Knee injury", "chance_of_playing_next_round": 25
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler, cookie string) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:       server.URL,
		SessionCookie: cookie,
		Timeout:       5 * time.Second,
		Logger:        logging.NewNop(),
	})
}

func TestAllPlayers_MapsBootstrapElements(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bootstrap-static/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(bootstrapPayload))
	}), "")

	players, err := client.AllPlayers(context.Background())
	if err != nil {
		t.Fatalf("all players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}

	saka := players[0]
	if saka.WebName != "Saka" || saka.TeamName != "Arsenal" {
		t.Fatalf("unexpected mapping: %+v", saka)
	}
	if saka.Position != "MID" {
		t.Fatalf("unexpected position: %s", saka.Position)
	}
	if saka.Form != 7.2 || saka.PointsPerGame != 6.3 {
		t.Fatalf("string stats not parsed: form=%v ppg=%v", saka.Form, saka.PointsPerGame)
	}

	// malformed and empty numeric strings fall back to zero
	second := players[1]
	if second.PointsPerGame != 0 || second.Form != 0 {
		t.Fatalf("lenient parsing failed: %+v", second)
	}
	if second.ChanceOfPlayingNextRound == nil || *second.ChanceOfPlayingNextRound != 25 {
		t.Fatalf("chance of playing lost: %+v", second.ChanceOfPlayingNextRound)
	}
}

func TestBootstrapSnapshotIsCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(bootstrapPayload))
	}), "")

	ctx := context.Background()
	if _, err := client.AllPlayers(ctx); err != nil {
		t.Fatalf("all players: %v", err)
	}
	if _, err := client.Teams(ctx); err != nil {
		t.Fatalf("teams: %v", err)
	}
	if _, err := client.CurrentGameweek(ctx); err != nil {
		t.Fatalf("current gameweek: %v", err)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected 1 bootstrap fetch, got %d", hits.Load())
	}
}

func TestCurrentGameweek(t *testing.T) {
	t.Parallel()

	t.Run("prefers is_current", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(bootstrapPayload))
		}), "")

		gw, err := client.CurrentGameweek(context.Background())
		if err != nil {
			t.Fatalf("current gameweek: %v", err)
		}
		if gw != 12 {
			t.Fatalf("expected gameweek 12, got %d", gw)
		}
	})

	t.Run("falls back to is_next", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"events":[{"id":13,"is_current":false,"is_next":true}],"teams":[],"elements":[]}`))
		}), "")

		gw, err := client.CurrentGameweek(context.Background())
		if err != nil {
			t.Fatalf("current gameweek: %v", err)
		}
		if gw != 13 {
			t.Fatalf("expected gameweek 13, got %d", gw)
		}
	})

	t.Run("errors with no active event", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"events":[{"id":1}],"teams":[],"elements":[]}`))
		}), "")

		if _, err := client.CurrentGameweek(context.Background()); err == nil {
			t.Fatalf("expected error without active gameweek")
		}
	})
}

func TestGameweekPicks(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/entry/7/event/12/picks/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"entry_history": {"event": 12, "points": 61, "bank": 15, "value": 1003, "event_transfers": 1, "event_transfers_cost": 0},
			"picks": [
				{"element": 101, "position": 1, "multiplier": 2, "is_captain": true},
				{"element": 102, "position": 12, "multiplier": 1}
			]
		}`))
	}), "session=abc")

	picks, err := client.GameweekPicks(context.Background(), 7, 12)
	if err != nil {
		t.Fatalf("gameweek picks: %v", err)
	}
	if picks.Event != 12 {
		t.Fatalf("unexpected event: %d", picks.Event)
	}
	if len(picks.Picks) != 2 || !picks.Picks[0].IsCaptain || picks.Picks[1].SquadPosition != 12 {
		t.Fatalf("unexpected picks: %+v", picks.Picks)
	}
	if picks.History.Bank != 15 || picks.History.Value != 1003 {
		t.Fatalf("unexpected history: %+v", picks.History)
	}

	t.Run("gameweek out of range", func(t *testing.T) {
		t.Parallel()

		if _, err := client.GameweekPicks(context.Background(), 7, 0); !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := client.GameweekPicks(context.Background(), 7, 39); !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestFixturesByEvent_SortsByKickoff(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bootstrap-static/":
			_, _ = w.Write([]byte(bootstrapPayload))
		case "/fixtures/":
			if r.URL.Query().Get("event") != "12" {
				t.Errorf("missing event query: %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`[
				{"id": 3, "event": 12, "kickoff_time": null, "team_h": 1, "team_a": 2},
				{"id": 2, "event": 12, "kickoff_time": "2025-11-22T15:00:00Z", "team_h": 2, "team_a": 1},
				{"id": 1, "event": 12, "kickoff_time": "2025-11-22T12:30:00Z", "team_h": 1, "team_a": 2}
			]`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}), "")

	fixtures, err := client.FixturesByEvent(context.Background(), 12)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	if len(fixtures) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(fixtures))
	}
	// kickoff ascending, nil kickoff last
	if fixtures[0].ID != 1 || fixtures[1].ID != 2 || fixtures[2].ID != 3 {
		t.Fatalf("unexpected order: %d, %d, %d", fixtures[0].ID, fixtures[1].ID, fixtures[2].ID)
	}
	if fixtures[0].TeamHName != "Arsenal" || fixtures[0].TeamAName != "Brentford" {
		t.Fatalf("team names not joined: %+v", fixtures[0])
	}
}

func TestValidateSession(t *testing.T) {
	t.Parallel()

	t.Run("empty cookie skips the probe", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request for empty cookie")
		}), "")

		valid, err := client.ValidateSession(context.Background())
		if err != nil {
			t.Fatalf("validate session: %v", err)
		}
		if valid {
			t.Fatalf("empty cookie reported valid")
		}
	})

	t.Run("sends cookie and browser user agent", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("cookie") != "session=abc" {
				t.Errorf("cookie header missing")
			}
			if r.Header.Get("user-agent") != userAgent {
				t.Errorf("unexpected user agent: %s", r.Header.Get("user-agent"))
			}
			_, _ = w.Write([]byte(`{"player": {"entry": 7, "first_name": "Alex"}}`))
		}), "session=abc")

		valid, err := client.ValidateSession(context.Background())
		if err != nil {
			t.Fatalf("validate session: %v", err)
		}
		if !valid {
			t.Fatalf("expected valid session")
		}
	})

	t.Run("rejected session is false without error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}), "session=expired")

		valid, err := client.ValidateSession(context.Background())
		if err != nil {
			t.Fatalf("validate session: %v", err)
		}
		if valid {
			t.Fatalf("rejected session reported valid")
		}
	})

	t.Run("anonymous payload is false", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"player": null}`))
		}), "session=abc")

		valid, err := client.ValidateSession(context.Background())
		if err != nil {
			t.Fatalf("validate session: %v", err)
		}
		if valid {
			t.Fatalf("anonymous payload reported valid")
		}
	})
}

func TestTeamSummary(t *testing.T) {
	t.Parallel()

	t.Run("maps entry payload", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/entry/7/" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{
				"id": 7, "player_first_name": "Alex", "player_last_name": "Doe",
				"name": "Test XI", "summary_overall_points": 700, "summary_overall_rank": 120000,
				"last_deadline_bank": 15, "last_deadline_value": 1003
			}`))
		}), "")

		summary, err := client.TeamSummary(context.Background(), 7)
		if err != nil {
			t.Fatalf("team summary: %v", err)
		}
		if summary.ManagerName() != "Alex Doe" || summary.TeamName != "Test XI" {
			t.Fatalf("unexpected summary: %+v", summary)
		}
		if summary.BankMillions() != 1.5 || summary.TeamValueMillions() != 100.3 {
			t.Fatalf("money conversion wrong: bank=%v value=%v", summary.BankMillions(), summary.TeamValueMillions())
		}
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}), "")

		if _, err := client.TeamSummary(context.Background(), 999); !errors.Is(err, usecase.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestLeagueStandings(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leagues-classic/321/standings/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("page_standings") != "2" || query.Get("page_new_entries") != "1" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"league": {"id": 321, "name": "Mini League"},
			"standings": {"has_next": true, "page": 2, "results": [
				{"id": 1, "entry": 7, "entry_name": "Test XI", "player_name": "Alex Doe", "rank": 51, "total": 700}
			]}
		}`))
	}), "")

	standings, err := client.LeagueStandings(context.Background(), 321, 2)
	if err != nil {
		t.Fatalf("league standings: %v", err)
	}
	if standings.LeagueName != "Mini League" || !standings.HasNext || standings.Page != 2 {
		t.Fatalf("unexpected standings: %+v", standings)
	}
	if len(standings.Results) != 1 || standings.Results[0].EntryID != 7 {
		t.Fatalf("unexpected rows: %+v", standings.Results)
	}
}

func TestCircuitBreakerOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	if _, err := client.TeamSummary(ctx, 7); err == nil {
		t.Fatalf("expected transient failure")
	}

	// breaker is open now: next call must be rejected without touching the provider
	if _, err := client.TeamSummary(ctx, 7); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestWithSessionDerivesScopedGateway(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("cookie") != "session=derived" {
			t.Errorf("unexpected cookie: %q", r.Header.Get("cookie"))
		}
		_, _ = w.Write([]byte(`{"player": {"entry": 7}}`))
	}), "")

	gateway := client.WithSession("session=derived")
	valid, err := gateway.ValidateSession(context.Background())
	if err != nil {
		t.Fatalf("validate session: %v", err)
	}
	if !valid {
		t.Fatalf("expected valid session")
	}
	if client.cookie != "" {
		t.Fatalf("base client cookie mutated")
	}
}
