package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/grpcapi"
	"github.com/medusa-dj/djrogue/internal/httpapi"
	"github.com/medusa-dj/djrogue/internal/service"
	"github.com/medusa-dj/djrogue/internal/session"
)

func main() {
	proc, err := config.LoadProcess()
	if err != nil {
		slog.Error("failed to load environment", "error", err)
		os.Exit(1)
	}

	addr := flag.String("addr", proc.Addr, "HTTP listen address")
	grpcAddr := flag.String("grpc-addr", proc.GRPCAddr, "gRPC listen address (empty disables gRPC)")
	cfgPath := flag.String("config", proc.ConfigPath, "game tuning YAML (missing file means defaults)")
	genresPath := flag.String("genres", proc.GenresPath, "genre tendency YAML/JSON (empty means built-in)")
	dbPath := flag.String("db", proc.DBPath, "sqlite session database (empty keeps sessions in memory)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: proc.LogLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Error("invalid game config", "path", *cfgPath, "error", err)
		os.Exit(1)
	}
	cat := genre.LoadOrFallback(*genresPath, genre.Bounds{Min: cfg.BPMMin, Max: cfg.BPMMax}, logger)

	engine, err := game.NewEngine(cat, cfg)
	if err != nil {
		logger.Error("engine setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store
	if *dbPath == "" {
		store = session.NewMemoryStore()
		logger.Info("sessions kept in memory")
	} else {
		sq, err := session.NewSQLiteStore(*dbPath)
		if err != nil {
			logger.Error("open session db", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer sq.Close()
		if err := sq.Migrate(ctx); err != nil {
			logger.Error("migrate session db", "error", err)
			os.Exit(1)
		}
		store = sq
		logger.Info("sessions stored in sqlite", "path", *dbPath)
	}

	svc := service.New(engine, store, logger)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(svc, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			"addr", *addr,
			"config_version", cfg.Version,
			"genres", cat.Len(),
			"turns", cfg.TotalTurns,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	var gs *grpc.Server
	if *grpcAddr != "" {
		lis, err := net.Listen("tcp", *grpcAddr)
		if err != nil {
			logger.Error("grpc listen", "addr", *grpcAddr, "error", err)
			os.Exit(1)
		}
		gs = grpcapi.NewGRPCServer(svc, logger)
		go func() {
			logger.Info("starting grpc server", "addr", *grpcAddr, "service", grpcapi.ServiceName)
			if err := gs.Serve(lis); err != nil {
				logger.Error("grpc server error", "error", err)
				os.Exit(1)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if gs != nil {
		gs.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
