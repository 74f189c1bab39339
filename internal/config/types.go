// types.go
package config

// Raw config loaded from YAML. Every field is optional; unset fields fall back to Default().
type RawConfig struct {
	Version string      `yaml:"version"`
	Turns   TurnsCfg    `yaml:"turns"`
	Hand    HandCfg     `yaml:"hand"`
	BPM     BPMCfg      `yaml:"bpm"`
	Vibe    VibeCfg     `yaml:"vibe"`
	Club    ClubCfg     `yaml:"club"`
	Scoring *ScoringCfg `yaml:"scoring,omitempty"`
	Notes   string      `yaml:"notes,omitempty"`
}

type TurnsCfg struct {
	PerHour *int `yaml:"per_hour"`
	Hours   *int `yaml:"hours"`
}

type HandCfg struct {
	Size      *int `yaml:"size"`
	Similar   *int `yaml:"similar"`
	Different *int `yaml:"different"`
}

type BPMCfg struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

type VibeCfg struct {
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
	Start *float64 `yaml:"start"`
}

type ClubCfg struct {
	CapacityStart    *float64 `yaml:"capacity_start"`
	MaleStart        *float64 `yaml:"male_start"`
	QueerStart       *float64 `yaml:"queer_start"`
	NormieStart      *float64 `yaml:"normie_start"`
	ChurnBase        *float64 `yaml:"churn_base"`
	FillBase         *float64 `yaml:"fill_base"`
	VibeFillBoost    *float64 `yaml:"vibe_fill_boost"`
	VibeChurnPenalty *float64 `yaml:"vibe_churn_penalty"`
}

type ScoringCfg struct {
	BasePoints        *float64 `yaml:"base_points"`
	SafeSimilarityCap *float64 `yaml:"safe_similarity_cap"`
	VarietyWindow     *int     `yaml:"variety_window"`
}

// Config is the frozen, normalized configuration every engine component reads.
// It is passed by value and never mutated after Resolve.
type Config struct {
	TurnsPerHour int
	Hours        int
	TotalTurns   int

	HandSize       int
	SimilarCards   int
	DifferentCards int

	BPMMin int
	BPMMax int

	VibeMin   float64
	VibeMax   float64
	VibeStart float64

	CapacityStart float64
	MaleStart     float64
	QueerStart    float64
	NormieStart   float64

	ChurnBase        float64
	FillBase         float64
	VibeFillBoost    float64
	VibeChurnPenalty float64

	BasePoints        float64
	SafeSimilarityCap float64
	VarietyWindow     int

	Version string // effective config version for tracing
}

// Default returns the tuned game-balance constants.
func Default() Config {
	c := Config{
		TurnsPerHour: 15,
		Hours:        6,

		HandSize:       8,
		SimilarCards:   5,
		DifferentCards: 3,

		BPMMin: 85,
		BPMMax: 175,

		VibeMin:   -100,
		VibeMax:   100,
		VibeStart: 0,

		CapacityStart: 0.01,
		MaleStart:     0.55,
		QueerStart:    0.45,
		NormieStart:   0.55,

		ChurnBase:        0.03,
		FillBase:         0.02,
		VibeFillBoost:    0.06,
		VibeChurnPenalty: 0.08,

		BasePoints:        100,
		SafeSimilarityCap: 0.80,
		VarietyWindow:     8,

		Version: "default",
	}
	c.TotalTurns = c.TurnsPerHour * c.Hours
	return c
}
