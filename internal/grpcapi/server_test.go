package grpcapi

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/service"
	"github.com/medusa-dj/djrogue/internal/session"
)

func testClient(t *testing.T, turns int) (*Client, *game.Engine) {
	t.Helper()
	cfg := config.Default()
	cfg.TurnsPerHour, cfg.Hours, cfg.TotalTurns = turns, 1, turns
	e, err := game.NewEngine(genre.Fallback(genre.Bounds{Min: cfg.BPMMin, Max: cfg.BPMMax}), cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gs := NewGRPCServer(service.New(e, session.NewMemoryStore(), logger), logger)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewClient(conn), e
}

func TestFullGameOverGRPC(t *testing.T) {
	ctx := context.Background()
	c, e := testClient(t, 2)

	seed := int64(42)
	g, err := c.NewGame(ctx, &seed)
	if err != nil {
		t.Fatal(err)
	}
	if g.ID == "" || g.State == nil || *g.State.Seed != 42 || len(g.State.Hand) != 8 {
		t.Fatalf("new game: %+v", g)
	}

	res, err := c.Play(ctx, g.ID, 1)
	if err != nil {
		t.Fatal(err)
	}

	local, err := e.NewGame(&seed)
	if err != nil {
		t.Fatal(err)
	}
	want, err := e.Play(local, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Turn.PointsGained != want.PointsGained || res.Turn.Reaction != want.Reaction || res.Turn.ChosenCard != want.ChosenCard {
		t.Fatalf("gRPC turn %+v, engine turn %+v", res.Turn, want)
	}

	if _, err := c.Play(ctx, g.ID, 2); err != nil {
		t.Fatal(err)
	}
	_, err = c.Play(ctx, g.ID, 1)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("play after the end: %v", err)
	}

	sum, err := c.Summary(ctx, g.ID)
	if err != nil || !sum.Finished || sum.TurnsPlayed != 2 {
		t.Fatalf("summary %+v, %v", sum, err)
	}
	fetched, err := c.GetGame(ctx, g.ID)
	if err != nil || fetched.State.Score != sum.Score {
		t.Fatalf("get %+v, %v", fetched, err)
	}

	rows, err := c.Leaderboard(ctx, 5)
	if err != nil || len(rows) != 1 || rows[0].ID != g.ID {
		t.Fatalf("leaderboard %+v, %v", rows, err)
	}
}

func TestStatusCodes(t *testing.T) {
	ctx := context.Background()
	c, _ := testClient(t, 5)

	if _, err := c.GetGame(ctx, "missing"); status.Code(err) != codes.NotFound {
		t.Errorf("missing game: %v", err)
	}
	g, err := c.NewGame(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.State.Seed != nil {
		t.Errorf("unseeded game carries a seed")
	}
	if _, err := c.Play(ctx, g.ID, 0); status.Code(err) != codes.InvalidArgument {
		t.Errorf("choice 0: %v", err)
	}
	if _, err := c.Leaderboard(ctx, 1000); status.Code(err) != codes.InvalidArgument {
		t.Errorf("huge limit: %v", err)
	}
}

func TestSeedFrom(t *testing.T) {
	cases := []struct {
		fields  map[string]any
		want    *int64
		wantErr bool
	}{
		{map[string]any{}, nil, false},
		{map[string]any{"seed": nil}, nil, false},
		{map[string]any{"seed": 7}, ptr(7), false},
		{map[string]any{"seed": "9007199254740993"}, ptr(9007199254740993), false},
		{map[string]any{"seed": 1.5}, nil, true},
		{map[string]any{"seed": "x"}, nil, true},
		{map[string]any{"seed": true}, nil, true},
	}
	for _, c := range cases {
		req, err := structpb.NewStruct(c.fields)
		if err != nil {
			t.Fatal(err)
		}
		got, err := seedFrom(req)
		if (err != nil) != c.wantErr {
			t.Errorf("%v: err = %v", c.fields, err)
			continue
		}
		if (got == nil) != (c.want == nil) || (got != nil && *got != *c.want) {
			t.Errorf("%v: got %v", c.fields, got)
		}
	}
}

func ptr(v int64) *int64 { return &v }
