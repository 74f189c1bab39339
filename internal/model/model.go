// Package model holds the value types shared by the turn engine components.
package model

import (
	"fmt"
	"maps"
)

// SongCard is a playable (or active) song. Cards are equal iff BPM and genre match.
type SongCard struct {
	BPM   int    `json:"bpm"`
	Genre string `json:"genre"`
}

func (c SongCard) String() string {
	return fmt.Sprintf("%s @ %d", c.Genre, c.BPM)
}

// ClubState is a snapshot of the room. All ratios are 0..1 and represent the LEFT label share:
//
//	Male   = 0.60 -> 60% male / 40% female
//	Queer  = 0.40 -> 40% queer / 60% straight
//	Normie = 0.55 -> 55% normie / 45% cool
//
// Capacity is 0..1 (% full). Transitions build a new value.
type ClubState struct {
	Capacity float64 `json:"capacity"`
	Male     float64 `json:"male"`
	Queer    float64 `json:"queer"`
	Normie   float64 `json:"normie"`
}

// Diagnostics records every intermediate quantity computed during a turn.
type Diagnostics map[string]float64

// Merge returns a new map holding d overlaid with other.
func (d Diagnostics) Merge(other Diagnostics) Diagnostics {
	out := make(Diagnostics, len(d)+len(other))
	maps.Copy(out, d)
	maps.Copy(out, other)
	return out
}

// Flag reads a 0/1 diagnostic as a bool.
func (d Diagnostics) Flag(key string) bool {
	return d[key] >= 0.5
}

// TurnResult is what happened after playing one card. History entries are append-only.
type TurnResult struct {
	TurnIndex   int      `json:"turn_index"`
	ChosenIndex int      `json:"chosen_index"`
	ChosenCard  SongCard `json:"chosen_card"`
	PrevActive  SongCard `json:"prev_active"`

	PointsGained int `json:"points_gained"`
	ScoreTotal   int `json:"score_total"`

	VibeBefore float64 `json:"vibe_before"`
	VibeAfter  float64 `json:"vibe_after"`

	CapacityBefore float64 `json:"capacity_before"`
	CapacityAfter  float64 `json:"capacity_after"`

	Diagnostics Diagnostics `json:"diagnostics"`
	Reaction    string      `json:"reaction"`
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Vibe01 maps a vibe reading onto [0,1]. A zero-width span maps to 0.5.
func Vibe01(vibe, vibeMin, vibeMax float64) float64 {
	span := vibeMax - vibeMin
	if span <= 0 {
		return 0.5
	}
	return Clamp((vibe-vibeMin)/span, 0, 1)
}
