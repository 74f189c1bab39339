package rng

import (
	"math"
	"testing"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeeded(1))
	if err != nil || got {
		t.Fatalf("p=0 should never hit; got=%v err=%v", got, err)
	}
	got, err = Draw(1, NewSeeded(1))
	if err != nil || !got {
		t.Fatalf("p=1 should always hit; got=%v err=%v", got, err)
	}
	if _, err := Draw(-0.1, nil); err == nil {
		t.Fatalf("negative p must error")
	}
	if _, err := Draw(1.1, nil); err == nil {
		t.Fatalf("p>1 must error")
	}
	if _, err := Draw(math.NaN(), nil); err == nil {
		t.Fatalf("NaN p must error")
	}
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	src := NewSeeded(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, src)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	// should be around 0.3
	if diff := freq - p; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to p=%f", freq, p)
	}
}

func TestSeededIsReplicable(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d diverged: %v vs %v", i, x, y)
		}
		if x, y := a.NormFloat64(), b.NormFloat64(); x != y {
			t.Fatalf("normal draw %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestTurnSeed(t *testing.T) {
	if got := TurnSeed(42, 0); got != 42 {
		t.Fatalf("turn 0 should reuse the session seed, got %d", got)
	}
	if got := TurnSeed(42, 3); got != 42+3*10007 {
		t.Fatalf("unexpected turn seed %d", got)
	}
}

func TestUniformRange(t *testing.T) {
	src := NewSeeded(3)
	for i := 0; i < 10000; i++ {
		v := Uniform(src, -0.06, 0.06)
		if v < -0.06 || v >= 0.06 {
			t.Fatalf("uniform out of range: %v", v)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	src := NewSeeded(11)
	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	for round := 0; round < 200; round++ {
		Shuffle(src, items)
		seen := make(map[int]bool, len(items))
		for _, v := range items {
			if seen[v] {
				t.Fatalf("duplicate %d after shuffle: %v", v, items)
			}
			seen[v] = true
		}
		if len(seen) != 8 {
			t.Fatalf("lost elements: %v", items)
		}
	}
}

func TestShuffleCoversOrderings(t *testing.T) {
	src := NewSeeded(5)
	counts := map[[3]int]int{}
	for i := 0; i < 6000; i++ {
		xs := []int{1, 2, 3}
		Shuffle(src, xs)
		counts[[3]int{xs[0], xs[1], xs[2]}]++
	}
	if len(counts) != 6 {
		t.Fatalf("expected all 6 orderings, got %d", len(counts))
	}
	for k, c := range counts {
		if c < 800 || c > 1200 {
			t.Errorf("ordering %v appeared %d times, expected ~1000", k, c)
		}
	}
}

func TestChanceAlwaysConsumes(t *testing.T) {
	a, b := NewSeeded(9), NewSeeded(9)
	Chance(a, 0)
	b.Float64()
	if a.Float64() != b.Float64() {
		t.Fatalf("Chance(0) must advance the stream by one draw")
	}
}
