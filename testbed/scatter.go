package testbed

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/math"
)

// ScatterConfig describes a generated asset: a few template objects and one
// instancer spreading count points over a square of side Extent.
type ScatterConfig struct {
	Name      string
	Templates []string
	Count     int
	Extent    float32
	Seed      uint64
}

// GenerateScatter builds a fixture whose instancer picks a template per
// point through the instance attribute.
func GenerateScatter(cfg ScatterConfig) (*hapi.Fixture, error) {
	if len(cfg.Templates) == 0 {
		return nil, fmt.Errorf("scatter %q: at least one template is required", cfg.Name)
	}
	if cfg.Count < 0 || cfg.Count > 65000 {
		return nil, fmt.Errorf("scatter %q: count %d out of range", cfg.Name, cfg.Count)
	}
	r := rand.New(rand.NewSource(cfg.Seed))

	f := &hapi.Fixture{Name: cfg.Name}
	for _, t := range cfg.Templates {
		f.Objects = append(f.Objects, hapi.FixtureObject{Name: t, Mesh: t + ".obj"})
	}

	points := make([]hapi.FixturePoint, cfg.Count)
	names := make([]string, cfg.Count)
	scales := make([]float32, 0, cfg.Count*3)
	for i := range points {
		x := (r.Float32() - 0.5) * cfg.Extent
		z := (r.Float32() - 0.5) * cfg.Extent
		heading := r.Float32() * 2 * math.K_PI
		q := math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), heading, true)
		points[i] = hapi.FixturePoint{
			Position: []float32{x, 0, z},
			Rotation: []float32{q.X, q.Y, q.Z, q.W},
		}
		s := 0.75 + r.Float32()*0.5
		scales = append(scales, s, s, s)
		names[i] = "/obj/" + cfg.Templates[r.Intn(len(cfg.Templates))]
	}

	f.Objects = append(f.Objects, hapi.FixtureObject{
		Name:        cfg.Name + "_scatter",
		IsInstancer: true,
		Points:      points,
		Attributes: []hapi.FixtureAttribute{
			{Name: "instance", Owner: "point", Strings: names},
			{Name: "scale", Owner: "point", TupleSize: 3, Floats: scales},
		},
	})
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteFixture encodes f as TOML at path.
func WriteFixture(path string, f *hapi.Fixture) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode fixture %q: %w", f.Name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureSampleAssets writes a generated scatter into dir when dir holds no
// fixture yet.
func EnsureSampleAssets(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		return nil
	}
	f, err := GenerateScatter(ScatterConfig{
		Name:      "meadow",
		Templates: []string{"grass", "flower", "stone"},
		Count:     12,
		Extent:    20,
		Seed:      7,
	})
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "meadow.toml")
	core.LogInfo("no fixtures in %s, writing %s", dir, path)
	return WriteFixture(path, f)
}
