// Package grpcapi serves the game over gRPC. Messages are protobuf well-known types
// (Struct and wrappers) carrying the same JSON shapes as the HTTP API, so no generated code is needed.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "djrogue.v1.GameService"

// GameServiceServer is the server API for djrogue.v1.GameService.
type GameServiceServer interface {
	// NewGame takes {"seed": number|string} (optional) and returns a game view.
	NewGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// Play takes {"id": string, "choice": number}, choice 1-based.
	Play(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Summary(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// Leaderboard returns {"rows": [...]}.
	Leaderboard(context.Context, *wrapperspb.Int32Value) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary[structpb.Struct]("NewGame", GameServiceServer.NewGame),
		unary[wrapperspb.StringValue]("GetGame", GameServiceServer.GetGame),
		unary[structpb.Struct]("Play", GameServiceServer.Play),
		unary[wrapperspb.StringValue]("Summary", GameServiceServer.Summary),
		unary[wrapperspb.Int32Value]("Leaderboard", GameServiceServer.Leaderboard),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "djrogue/v1/games.proto",
}

func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the method handler protoc-gen-go-grpc would generate for one RPC.
func unary[In any, PIn interface {
	*In
	proto.Message
}](name string, call func(GameServiceServer, context.Context, PIn) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PIn(new(In))
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GameServiceServer), ctx, req.(PIn))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}
