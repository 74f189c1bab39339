package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := Validate(c); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.TotalTurns != 90 {
		t.Fatalf("expected 90 total turns, got %d", c.TotalTurns)
	}
	if c.SimilarCards+c.DifferentCards != c.HandSize {
		t.Fatalf("default hand split broken")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != Default() {
		t.Fatalf("expected defaults, got %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	doc := `
version: "hard-v2"
turns:
  per_hour: 10
hand:
  size: 6
  similar: 4
scoring:
  base_points: 150
  variety_window: 5
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Version != "hard-v2" || c.TurnsPerHour != 10 || c.TotalTurns != 60 {
		t.Errorf("turn overrides not applied: %+v", c)
	}
	if c.HandSize != 6 || c.SimilarCards != 4 || c.DifferentCards != 2 {
		t.Errorf("hand overrides not applied: %d/%d/%d", c.HandSize, c.SimilarCards, c.DifferentCards)
	}
	if c.BasePoints != 150 || c.VarietyWindow != 5 {
		t.Errorf("scoring overrides not applied: %+v", c)
	}
	if c.BPMMin != 85 || c.SafeSimilarityCap != 0.80 {
		t.Errorf("untouched fields should keep defaults: %+v", c)
	}
}

func TestHandMismatchIsConfigurationError(t *testing.T) {
	_, err := Parse([]byte("hand:\n  size: 8\n  similar: 5\n  different: 2\n"))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "must equal hand.size") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := Default()
	c.BPMMin, c.BPMMax = 200, 100
	c.MaleStart = 1.5
	c.VibeStart = 500
	err := Validate(c)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", len(cfgErr.Problems), cfgErr.Problems)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("hand: [not, a, map")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadProcessFromEnv(t *testing.T) {
	t.Setenv("DJROGUE_ADDR", ":9999")
	t.Setenv("DJROGUE_DB", "/tmp/x.db")
	t.Setenv("DJROGUE_LOG_LEVEL", "DEBUG")
	p, err := LoadProcess()
	if err != nil {
		t.Fatal(err)
	}
	if p.Addr != ":9999" || p.DBPath != "/tmp/x.db" || p.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected process settings: %+v", p)
	}
	if p.ConfigPath != "config/djrogue.yaml" {
		t.Fatalf("config path default = %q", p.ConfigPath)
	}

	t.Setenv("DJROGUE_LOG_LEVEL", "loud")
	if _, err := LoadProcess(); err == nil {
		t.Fatal("want error for bad log level")
	}
}
