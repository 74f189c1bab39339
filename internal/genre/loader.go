package genre

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/genres.yaml
var dataFS embed.FS

const embeddedPath = "data/genres.yaml"

// EmbeddedSource names the built-in tendency table in logs and errors.
const EmbeddedSource = "embedded:" + embeddedPath

// Load reads a tendency file. YAML and JSON share a schema and both go through the YAML decoder.
func Load(path string, bounds Bounds) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &ResourceLoadError{Source: path, Err: err}
	}
	return Parse(path, b, bounds)
}

// LoadEmbedded reads the tendency table compiled into the binary.
func LoadEmbedded(bounds Bounds) (*Catalog, error) {
	b, err := dataFS.ReadFile(embeddedPath)
	if err != nil {
		return nil, &ResourceLoadError{Source: EmbeddedSource, Err: err}
	}
	return Parse(EmbeddedSource, b, bounds)
}

// LoadOrFallback is the startup entry point and never fails. An empty path selects the embedded table;
// any load error is logged and degraded to the built-in fallback ring.
func LoadOrFallback(path string, bounds Bounds, logger *slog.Logger) *Catalog {
	var (
		cat *Catalog
		err error
	)
	if path == "" {
		cat, err = LoadEmbedded(bounds)
	} else {
		cat, err = Load(path, bounds)
	}
	if err != nil {
		if logger != nil {
			logger.Warn("genre tendencies unavailable, using fallback ring",
				"error", err, "genres", len(FallbackNames))
		}
		return Fallback(bounds)
	}
	if logger != nil {
		logger.Debug("genre tendencies loaded", "source", sourceName(path), "genres", cat.Len())
	}
	return cat
}

func sourceName(path string) string {
	if path == "" {
		return EmbeddedSource
	}
	return path
}

var errNoGenres = errors.New("no genres defined")

// Parse decodes a tendency document. source is only used for error messages.
func Parse(source string, b []byte, bounds Bounds) (*Catalog, error) {
	var raw map[string]rawGenre
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, &ResourceLoadError{Source: source, Err: err}
	}
	if len(raw) == 0 {
		return nil, &ResourceLoadError{Source: source, Err: errNoGenres}
	}

	defs := make(map[string]Tendency, len(raw))
	for name, g := range raw {
		if name == "" {
			return nil, &ResourceLoadError{Source: source, Err: fmt.Errorf("empty genre name")}
		}
		defs[name] = toTendency(name, g)
	}
	return NewCatalog(defs, bounds), nil
}

// toTendency fills every unset field with the default tendency's value.
// Unlike the default tendency, loaded BPM min/max stay nil when the file omits them.
func toTendency(name string, g rawGenre) Tendency {
	t := Tendency{
		Name:         name,
		BPM:          Dist{Mean: defaultBPMMean, Std: defaultBPMStd},
		AppealMale:   axis(g.Appeal, "male"),
		AppealQueer:  axis(g.Appeal, "queer"),
		AppealNormie: axis(g.Appeal, "normie"),
		Attributes:   append([]string(nil), g.Attributes...),
	}
	if g.BPM != nil {
		if g.BPM.Mean != nil {
			t.BPM.Mean = *g.BPM.Mean
		}
		if g.BPM.Std != nil {
			t.BPM.Std = *g.BPM.Std
		}
		t.BPM.Min = g.BPM.Min
		t.BPM.Max = g.BPM.Max
	}
	return t
}

func axis(appeal map[string]rawAx, key string) Dist {
	d := Dist{Mean: defaultAppealMean, Std: defaultAppealStd}
	a, ok := appeal[key]
	if !ok {
		return d
	}
	if a.Mean != nil {
		d.Mean = *a.Mean
	}
	if a.Std != nil {
		d.Std = *a.Std
	}
	return d
}
