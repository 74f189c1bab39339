package grpcapi

import (
	"context"
	"encoding/json"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/service"
	"github.com/medusa-dj/djrogue/internal/session"
)

// Client is a typed wrapper over a connection to GameService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) NewGame(ctx context.Context, seed *int64) (service.GameView, error) {
	fields := map[string]any{}
	if seed != nil {
		fields["seed"] = strconv.FormatInt(*seed, 10)
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return service.GameView{}, err
	}
	var out service.GameView
	return out, c.call(ctx, "NewGame", req, &out)
}

func (c *Client) GetGame(ctx context.Context, id string) (service.GameView, error) {
	var out service.GameView
	return out, c.call(ctx, "GetGame", wrapperspb.String(id), &out)
}

// Play sends a 1-based choice.
func (c *Client) Play(ctx context.Context, id string, choice int) (service.PlayResult, error) {
	req, err := structpb.NewStruct(map[string]any{"id": id, "choice": choice})
	if err != nil {
		return service.PlayResult{}, err
	}
	var out service.PlayResult
	return out, c.call(ctx, "Play", req, &out)
}

func (c *Client) Summary(ctx context.Context, id string) (game.Summary, error) {
	var out game.Summary
	return out, c.call(ctx, "Summary", wrapperspb.String(id), &out)
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]session.ScoreRow, error) {
	var out struct {
		Rows []session.ScoreRow `json:"rows"`
	}
	err := c.call(ctx, "Leaderboard", wrapperspb.Int32(int32(limit)), &out)
	return out.Rows, err
}

func (c *Client) call(ctx context.Context, method string, req any, out any) error {
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		return err
	}
	b, err := json.Marshal(resp.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
