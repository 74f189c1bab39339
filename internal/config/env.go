package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Process holds the settings a binary needs before the game config is read.
type Process struct {
	Addr       string
	GRPCAddr   string
	ConfigPath string
	GenresPath string
	DBPath     string
	LogLevel   slog.Level
}

// LoadProcess reads DJROGUE_* environment variables. Flags in cmd/ override these.
func LoadProcess() (Process, error) {
	p := Process{
		Addr:       envOr("DJROGUE_ADDR", ":8080"),
		GRPCAddr:   os.Getenv("DJROGUE_GRPC_ADDR"),
		ConfigPath: envOr("DJROGUE_CONFIG", "config/djrogue.yaml"),
		GenresPath: os.Getenv("DJROGUE_GENRES"),
		DBPath:     os.Getenv("DJROGUE_DB"),
	}
	level, err := ParseLogLevel(envOr("DJROGUE_LOG_LEVEL", "info"))
	if err != nil {
		return Process{}, err
	}
	p.LogLevel = level
	return p, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}
