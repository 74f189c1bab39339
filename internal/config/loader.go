package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML tuning file and resolves it over Default().
// An empty path or a missing file yields the defaults; malformed YAML and invalid values are errors.
func Load(path string) (Config, error) {
	raw, err := readYAML(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Resolve(raw)
}

// Parse resolves an in-memory YAML document.
func Parse(b []byte) (Config, error) {
	var raw RawConfig
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return Resolve(raw)
}

// Resolve merges raw over Default() and validates the result.
func Resolve(raw RawConfig) (Config, error) {
	c := merge(Default(), raw)
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var raw RawConfig
	if path == "" {
		return raw, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return RawConfig{}, err
	}
	return raw, nil
}

// merge overrides c with every field set in b.
func merge(c Config, b RawConfig) Config {
	if b.Version != "" {
		c.Version = b.Version
	}

	setInt(&c.TurnsPerHour, b.Turns.PerHour)
	setInt(&c.Hours, b.Turns.Hours)

	// an explicit size without explicit split keeps the similar count and derives the rest
	setInt(&c.HandSize, b.Hand.Size)
	setInt(&c.SimilarCards, b.Hand.Similar)
	if b.Hand.Different != nil {
		c.DifferentCards = *b.Hand.Different
	} else if b.Hand.Size != nil || b.Hand.Similar != nil {
		c.DifferentCards = c.HandSize - c.SimilarCards
	}

	setInt(&c.BPMMin, b.BPM.Min)
	setInt(&c.BPMMax, b.BPM.Max)

	setFloat(&c.VibeMin, b.Vibe.Min)
	setFloat(&c.VibeMax, b.Vibe.Max)
	setFloat(&c.VibeStart, b.Vibe.Start)

	setFloat(&c.CapacityStart, b.Club.CapacityStart)
	setFloat(&c.MaleStart, b.Club.MaleStart)
	setFloat(&c.QueerStart, b.Club.QueerStart)
	setFloat(&c.NormieStart, b.Club.NormieStart)
	setFloat(&c.ChurnBase, b.Club.ChurnBase)
	setFloat(&c.FillBase, b.Club.FillBase)
	setFloat(&c.VibeFillBoost, b.Club.VibeFillBoost)
	setFloat(&c.VibeChurnPenalty, b.Club.VibeChurnPenalty)

	if b.Scoring != nil {
		setFloat(&c.BasePoints, b.Scoring.BasePoints)
		setFloat(&c.SafeSimilarityCap, b.Scoring.SafeSimilarityCap)
		setInt(&c.VarietyWindow, b.Scoring.VarietyWindow)
	}

	c.TotalTurns = c.TurnsPerHour * c.Hours
	return c
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
