package genre

// Dist is a normal distribution with optional hard bounds.
type Dist struct {
	Mean float64  `yaml:"mean" json:"mean"`
	Std  float64  `yaml:"std" json:"std"`
	Min  *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Tendency describes how a genre tends to land. These are tendencies, not hard rules:
// each appeal axis is a distribution over [0,1] for how the genre plays with the left label of that split.
type Tendency struct {
	Name         string
	BPM          Dist
	AppealMale   Dist
	AppealQueer  Dist
	AppealNormie Dist
	Attributes   []string
}

// Bounds is the global BPM floor/ceiling.
type Bounds struct {
	Min int
	Max int
}

// FallbackNames is the ring used when no tendency data can be loaded.
var FallbackNames = []string{
	"house", "techno", "disco", "hiphop", "pop", "rnb", "garage", "dnb", "electro", "funk",
}

const (
	defaultBPMMean    = 125
	defaultBPMStd     = 10
	defaultAppealMean = 0.5
	defaultAppealStd  = 0.12
)

func defaultTendency(name string, b Bounds) Tendency {
	lo, hi := float64(b.Min), float64(b.Max)
	return Tendency{
		Name:         name,
		BPM:          Dist{Mean: defaultBPMMean, Std: defaultBPMStd, Min: &lo, Max: &hi},
		AppealMale:   Dist{Mean: defaultAppealMean, Std: defaultAppealStd},
		AppealQueer:  Dist{Mean: defaultAppealMean, Std: defaultAppealStd},
		AppealNormie: Dist{Mean: defaultAppealMean, Std: defaultAppealStd},
	}
}

// raw file schema, shared by YAML and JSON sources
type rawGenre struct {
	BPM        *rawDist         `yaml:"bpm"`
	Appeal     map[string]rawAx `yaml:"appeal"`
	Attributes []string         `yaml:"attributes"`
}

type rawDist struct {
	Mean *float64 `yaml:"mean"`
	Std  *float64 `yaml:"std"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
}

type rawAx struct {
	Mean *float64 `yaml:"mean"`
	Std  *float64 `yaml:"std"`
}
