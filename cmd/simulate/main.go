package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/medusa-dj/djrogue/internal/config"
	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/genre"
	"github.com/medusa-dj/djrogue/internal/sim"
)

func main() {
	proc, err := config.LoadProcess()
	if err != nil {
		slog.Error("failed to load environment", "error", err)
		os.Exit(1)
	}

	cfgPath := flag.String("config", proc.ConfigPath, "game tuning YAML")
	genresPath := flag.String("genres", proc.GenresPath, "genre tendency YAML/JSON (empty means built-in)")
	policies := flag.String("policy", "all", "comma separated policies, or all")
	trials := flag.Int("trials", 1000, "games per policy")
	seed := flag.Int64("seed", 1, "seed of the first game; game i uses seed+i")
	workers := flag.Int("workers", 0, "parallel games (0 = GOMAXPROCS)")
	asJSON := flag.Bool("json", false, "print reports as JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: proc.LogLevel}))

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

	selected := sim.Policies
	if *policies != "all" {
		selected = nil
		for _, name := range strings.Split(*policies, ",") {
			p, err := sim.ParsePolicy(strings.TrimSpace(name))
			if err != nil {
				logger.Error("bad -policy", "error", err)
				os.Exit(2)
			}
			selected = append(selected, p)
		}
	}

	reports := make([]sim.Report, 0, len(selected))
	for _, p := range selected {
		logger.Info("simulating", "policy", p, "trials", *trials, "seed", *seed)
		rep, err := sim.RunMonteCarlo(engine, sim.Params{
			Policy:   p,
			Trials:   *trials,
			BaseSeed: *seed,
			Workers:  *workers,
		})
		if err != nil {
			logger.Error("simulation failed", "policy", p, "error", err)
			os.Exit(1)
		}
		reports = append(reports, rep)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			logger.Error("encode reports", "error", err)
			os.Exit(1)
		}
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "policy\tgames\tscore mean\tscore p50\tscore p90\tavg vibe\tpeak cap\ttrainwrecks\tsurprises")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\t%.0f%%\t%.2f\t%.2f\n",
			r.Policy,
			humanize.Comma(int64(r.Trials)),
			humanize.CommafWithDigits(r.Score.Mean, 1),
			humanize.Comma(int64(r.Score.P50)),
			humanize.Comma(int64(r.Score.P90)),
			r.AvgVibe.Mean,
			r.PeakCapacity.Mean*100,
			r.Trainwrecks.Mean,
			r.Surprises.Mean,
		)
	}
	tw.Flush()
}
