package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/service"
	"github.com/medusa-dj/djrogue/internal/session"
)

type testEnv struct {
	srv    *httptest.Server
	engine *game.Engine
	store  *session.MemoryStore
}

func newTestEnv(t *testing.T, cfg config.Config) *testEnv {
	t.Helper()
	cat := genre.Fallback(genre.Bounds{Min: cfg.BPMMin, Max: cfg.BPMMax})
	e, err := game.NewEngine(cat, cfg)
	if err != nil {
		t.Fatal(err)
	}
	store := session.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(service.New(e, store, logger), logger).Routes())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, engine: e, store: store}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, env.srv.URL+path, rdr)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := env.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("%s %s: content type %q", method, path, ct)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (env *testEnv) create(t *testing.T, seed *int64) service.GameView {
	t.Helper()
	var g service.GameView
	if code := env.do(t, http.MethodPost, "/api/v1/games", createReq{Seed: seed}, &g); code != http.StatusCreated {
		t.Fatalf("create: status %d", code)
	}
	return g
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, config.Default())
	var body map[string]string
	if code := env.do(t, http.MethodGet, "/healthz", nil, &body); code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz: %d %v", code, body)
	}
}

func TestCreateAndFetch(t *testing.T) {
	env := newTestEnv(t, config.Default())
	seed := int64(42)
	g := env.create(t, &seed)
	if g.ID == "" || g.State == nil || len(g.State.Hand) != 8 || g.TotalTurns != 90 || g.Finished {
		t.Fatalf("unexpected create response: %+v", g)
	}

	var fetched service.GameView
	if code := env.do(t, http.MethodGet, "/api/v1/games/"+g.ID, nil, &fetched); code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	if fetched.State.Active != g.State.Active || *fetched.State.Seed != 42 {
		t.Fatalf("fetched game differs from created one")
	}
}

func TestCreateWithoutBody(t *testing.T) {
	env := newTestEnv(t, config.Default())
	var g service.GameView
	if code := env.do(t, http.MethodPost, "/api/v1/games", nil, &g); code != http.StatusCreated {
		t.Fatalf("status %d", code)
	}
	if g.State.Seed != nil {
		t.Fatal("game without a seed should be unseeded")
	}
}

func TestPlayUsesOneBasedChoice(t *testing.T) {
	env := newTestEnv(t, config.Default())
	seed := int64(5)
	g := env.create(t, &seed)

	var resp service.PlayResult
	if code := env.do(t, http.MethodPost, "/api/v1/games/"+g.ID+"/play", playReq{Choice: 3}, &resp); code != http.StatusOK {
		t.Fatalf("play: %d", code)
	}
	if resp.Turn.ChosenIndex != 2 || resp.Turn.ChosenCard != g.State.Hand[2] {
		t.Fatalf("choice 3 should play hand[2], got %+v", resp.Turn)
	}
	if resp.State.Turn != 1 || resp.State.Active != g.State.Hand[2] || resp.State.LastReaction == "" {
		t.Fatalf("state not advanced: %+v", resp.State)
	}

	// same seed and choice straight through the engine
	local, err := env.engine.NewGame(&seed)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := env.engine.Play(local, 2)
	if err != nil {
		t.Fatal(err)
	}
	if tr.PointsGained != resp.Turn.PointsGained || tr.Reaction != resp.Turn.Reaction {
		t.Fatalf("HTTP turn diverged from engine turn")
	}
}

func TestPlayErrors(t *testing.T) {
	cfg := config.Default()
	cfg.TurnsPerHour, cfg.Hours, cfg.TotalTurns = 1, 1, 1
	env := newTestEnv(t, cfg)
	g := env.create(t, nil)

	var e errorResp
	cases := []struct {
		path string
		body any
		want int
	}{
		{"/api/v1/games/nope/play", playReq{Choice: 1}, http.StatusNotFound},
		{"/api/v1/games/" + g.ID + "/play", playReq{Choice: 0}, http.StatusBadRequest},
		{"/api/v1/games/" + g.ID + "/play", playReq{Choice: 9}, http.StatusBadRequest},
		{"/api/v1/games/" + g.ID + "/play", map[string]any{"card": 1}, http.StatusBadRequest},
	}
	for _, c := range cases {
		if code := env.do(t, http.MethodPost, c.path, c.body, &e); code != c.want {
			t.Errorf("%s %v: status %d, want %d (%s)", c.path, c.body, code, c.want, e.Error)
		}
		if e.Error == "" || e.RequestID == "" {
			t.Errorf("error body missing fields: %+v", e)
		}
	}

	if code := env.do(t, http.MethodPost, "/api/v1/games/"+g.ID+"/play", playReq{Choice: 1}, nil); code != http.StatusOK {
		t.Fatalf("last turn: %d", code)
	}
	if code := env.do(t, http.MethodPost, "/api/v1/games/"+g.ID+"/play", playReq{Choice: 1}, &e); code != http.StatusConflict {
		t.Fatalf("play after the end: %d", code)
	}

	var sum game.Summary
	if code := env.do(t, http.MethodGet, "/api/v1/games/"+g.ID+"/summary", nil, &sum); code != http.StatusOK {
		t.Fatalf("summary: %d", code)
	}
	if !sum.Finished || sum.TurnsPlayed != 1 || sum.Turns != 1 {
		t.Fatalf("summary %+v", sum)
	}
}

func TestConcurrentPlaysAreSerialized(t *testing.T) {
	env := newTestEnv(t, config.Default())
	seed := int64(77)
	g := env.create(t, &seed)

	const plays = 20
	var wg sync.WaitGroup
	for i := 0; i < plays; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := env.srv.Client().Post(env.srv.URL+"/api/v1/games/"+g.ID+"/play",
				"application/json", bytes.NewReader([]byte(`{"choice":1}`)))
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Errorf("play: status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	var fetched service.GameView
	env.do(t, http.MethodGet, "/api/v1/games/"+g.ID, nil, &fetched)
	if fetched.State.Turn != plays || len(fetched.State.History) != plays {
		t.Fatalf("lost updates: turn %d, history %d", fetched.State.Turn, len(fetched.State.History))
	}
}

func TestLeaderboard(t *testing.T) {
	cfg := config.Default()
	cfg.TurnsPerHour, cfg.Hours, cfg.TotalTurns = 1, 2, 2
	env := newTestEnv(t, cfg)

	for i := 0; i < 3; i++ {
		seed := int64(i)
		g := env.create(t, &seed)
		for j := 0; j < 2; j++ {
			env.do(t, http.MethodPost, "/api/v1/games/"+g.ID+"/play", playReq{Choice: 1}, nil)
		}
	}
	env.create(t, nil) // unfinished, not ranked

	var rows []session.ScoreRow
	if code := env.do(t, http.MethodGet, "/api/v1/leaderboard?limit=5", nil, &rows); code != http.StatusOK {
		t.Fatalf("leaderboard: %d", code)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 finished games, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Score > rows[i-1].Score {
			t.Fatalf("leaderboard not sorted: %+v", rows)
		}
	}
	var e errorResp
	if code := env.do(t, http.MethodGet, "/api/v1/leaderboard?limit=0", nil, &e); code != http.StatusBadRequest {
		t.Fatalf("bad limit: %d", code)
	}
}
