// Package sim plays whole games under automated policies to check game balance.
package sim

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/medusa-dj/djrogue/internal/game"
	"github.com/medusa-dj/djrogue/internal/rng"
)

// Params describes one simulation run. Trial i plays seed BaseSeed+i.
type Params struct {
	Policy   Policy
	Trials   int
	BaseSeed int64
	Workers  int // <=0 means GOMAXPROCS
}

// Report summarizes a run. Results do not depend on Workers.
type Report struct {
	Policy       Policy `json:"policy"`
	Trials       int    `json:"trials"`
	Score        Stats  `json:"score"`
	AvgVibe      Stats  `json:"avg_vibe"`
	PeakCapacity Stats  `json:"peak_capacity"`
	Trainwrecks  Stats  `json:"trainwrecks"`
	Surprises    Stats  `json:"surprises"`
}

type trial struct {
	score, avgVibe, peakCap float64
	trainwrecks, surprises  float64
}

// simulateOne plays a full game with seed and returns its metrics.
func simulateOne(e *game.Engine, p Policy, seed int64) (trial, error) {
	st, err := e.NewGame(&seed)
	if err != nil {
		return trial{}, err
	}
	// the policy's own randomness must not disturb the game's draws
	pick := rng.NewSeeded(^seed)

	var t trial
	for !st.Finished(e.Config().TotalTurns) {
		idx, err := choose(p, e.Catalog(), st, pick)
		if err != nil {
			return trial{}, err
		}
		tr, err := e.Play(st, idx)
		if err != nil {
			return trial{}, err
		}
		if tr.Diagnostics.Flag("did_trainwreck") {
			t.trainwrecks++
		}
		if tr.Diagnostics.Flag("did_surprise") {
			t.surprises++
		}
	}
	sum := e.Summary(st)
	t.score = float64(sum.Score)
	t.avgVibe = sum.AvgVibe
	t.peakCap = sum.PeakCapacity
	return t, nil
}

// RunMonteCarlo repeats trials and returns summary stats.
func RunMonteCarlo(e *game.Engine, p Params) (Report, error) {
	if _, err := ParsePolicy(string(p.Policy)); err != nil {
		return Report{}, err
	}
	rep := Report{Policy: p.Policy, Trials: max(p.Trials, 0)}
	if p.Trials <= 0 {
		return rep, nil
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, p.Trials)

	results := make([]trial, p.Trials)
	errs := make([]error, workers)
	next := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range next {
				if errs[w] != nil {
					continue
				}
				r, err := simulateOne(e, p.Policy, p.BaseSeed+int64(i))
				if err != nil {
					errs[w] = fmt.Errorf("trial %d: %w", i, err)
					continue
				}
				results[i] = r
			}
		}(w)
	}
	for i := 0; i < p.Trials; i++ {
		next <- i
	}
	close(next)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Report{}, err
		}
	}

	col := func(f func(trial) float64) []float64 {
		out := make([]float64, len(results))
		for i, r := range results {
			out[i] = f(r)
		}
		return out
	}
	rep.Score = calcStats(col(func(t trial) float64 { return t.score }))
	rep.AvgVibe = calcStats(col(func(t trial) float64 { return t.avgVibe }))
	rep.PeakCapacity = calcStats(col(func(t trial) float64 { return t.peakCap }))
	rep.Trainwrecks = calcStats(col(func(t trial) float64 { return t.trainwrecks }))
	rep.Surprises = calcStats(col(func(t trial) float64 { return t.surprises }))
	return rep, nil
}
