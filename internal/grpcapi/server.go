package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/service"
	"github.com/medusa-dj/djrogue/internal/session"
)

// Server adapts service.Service to GameServiceServer.
type Server struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewServer(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// NewGRPCServer returns a grpc.Server with the game service and request logging installed.
func NewGRPCServer(svc *service.Service, logger *slog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	s := NewServer(svc, logger)
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(s.logger)))
	gs := grpc.NewServer(opts...)
	RegisterGameServiceServer(gs, s)
	return gs
}

func (s *Server) NewGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	seed, err := seedFrom(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	g, err := s.svc.Create(ctx, seed)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(g)
}

func (s *Server) GetGame(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	g, err := s.svc.Get(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(g)
}

func (s *Server) Play(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	id := fields["id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	choice, ok := fields["choice"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "choice must be a number")
	}
	res, err := s.svc.Play(ctx, id, int(choice.NumberValue))
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(res)
}

func (s *Server) Summary(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	sum, err := s.svc.Summary(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(sum)
}

func (s *Server) Leaderboard(ctx context.Context, req *wrapperspb.Int32Value) (*structpb.Struct, error) {
	limit := int(req.GetValue())
	if limit == 0 {
		limit = 10
	}
	if limit < 0 || limit > 100 {
		return nil, status.Error(codes.InvalidArgument, "limit must be in [1,100]")
	}
	rows, err := s.svc.Leaderboard(ctx, limit)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(struct {
		Rows []session.ScoreRow `json:"rows"`
	}{rows})
}

// seedFrom reads the optional seed. Numbers travel as doubles, so seeds beyond 2^53 must be strings.
func seedFrom(req *structpb.Struct) (*int64, error) {
	v, ok := req.GetFields()["seed"]
	if !ok {
		return nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_NumberValue:
		seed := int64(k.NumberValue)
		if float64(seed) != k.NumberValue {
			return nil, fmt.Errorf("seed %v is not an integer", k.NumberValue)
		}
		return &seed, nil
	case *structpb.Value_StringValue:
		seed, err := strconv.ParseInt(k.StringValue, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", k.StringValue, err)
		}
		return &seed, nil
	default:
		return nil, errors.New("seed must be a number or a decimal string")
	}
}

// toStruct converts a JSON-tagged value into a Struct with the same shape.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Server) toStatus(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, game.ErrInvalidChoice):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, game.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrRankingUnsupported):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		s.logger.Error("internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("rpc",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}
