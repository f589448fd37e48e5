package hapi

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Fixture is a cooked asset written down as TOML. The in-memory host serves
// it as if a real host had produced it.
type Fixture struct {
	Name    string          `toml:"name"`
	Objects []FixtureObject `toml:"objects"`
}

type FixtureObject struct {
	Name string `toml:"name"`
	Mesh string `toml:"mesh,omitempty"`
	// Prefab marks the object as a shared template that can be linked
	// instead of copied.
	Prefab           bool   `toml:"prefab,omitempty"`
	IsInstancer      bool   `toml:"is_instancer,omitempty"`
	ObjectToInstance string `toml:"object_to_instance,omitempty"`
	// NoGeometry cooks the object without any part.
	NoGeometry bool `toml:"no_geometry,omitempty"`
	// PointCount pads Points with identity points up to this count.
	PointCount int32              `toml:"point_count,omitempty"`
	Points     []FixturePoint     `toml:"points,omitempty"`
	Attributes []FixtureAttribute `toml:"attributes,omitempty"`
}

type FixturePoint struct {
	Position []float32 `toml:"position,omitempty"`
	Rotation []float32 `toml:"rotation,omitempty"`
	Scale    []float32 `toml:"scale,omitempty"`
}

type FixtureAttribute struct {
	Name      string    `toml:"name"`
	Owner     string    `toml:"owner,omitempty"`
	TupleSize int32     `toml:"tuple_size,omitempty"`
	Floats    []float32 `toml:"floats,omitempty"`
	Strings   []string  `toml:"strings,omitempty"`
}

// ParseFixture decodes and validates a TOML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("fixture: payload is empty")
	}
	f := &Fixture{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("fixture: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadFixture reads and parses the fixture at path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("fixture: %s: %w", path, err)
	}
	return f, nil
}

func (f *Fixture) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("fixture: name is required")
	}
	names := make(map[string]struct{}, len(f.Objects))
	for i, o := range f.Objects {
		if o.Name == "" {
			return fmt.Errorf("fixture: object #%d has no name", i)
		}
		if _, dup := names[o.Name]; dup {
			return fmt.Errorf("fixture: duplicate object name %q", o.Name)
		}
		names[o.Name] = struct{}{}
	}
	for _, o := range f.Objects {
		if o.ObjectToInstance != "" {
			if _, ok := names[o.ObjectToInstance]; !ok {
				return fmt.Errorf("fixture: object %q instances unknown object %q", o.Name, o.ObjectToInstance)
			}
		}
		if o.PointCount < 0 {
			return fmt.Errorf("fixture: object %q has a negative point_count", o.Name)
		}
		for j, p := range o.Points {
			if err := p.validate(); err != nil {
				return fmt.Errorf("fixture: object %q point %d: %w", o.Name, j, err)
			}
		}
		for _, a := range o.Attributes {
			if a.Name == "" {
				return fmt.Errorf("fixture: object %q has an unnamed attribute", o.Name)
			}
			if _, ok := ParseAttributeOwner(a.Owner); !ok {
				return fmt.Errorf("fixture: attribute %q has unknown owner %q", a.Name, a.Owner)
			}
			if len(a.Floats) > 0 && len(a.Strings) > 0 {
				return fmt.Errorf("fixture: attribute %q mixes floats and strings", a.Name)
			}
		}
	}
	return nil
}

func (p FixturePoint) validate() error {
	if n := len(p.Position); n != 0 && n != 3 {
		return fmt.Errorf("position needs 3 components, got %d", n)
	}
	if n := len(p.Rotation); n != 0 && n != 4 {
		return fmt.Errorf("rotation needs 4 components, got %d", n)
	}
	if n := len(p.Scale); n != 0 && n != 3 {
		return fmt.Errorf("scale needs 3 components, got %d", n)
	}
	return nil
}

// ObjectIndex returns the index of the named object, or -1.
func (f *Fixture) ObjectIndex(name string) int {
	for i, o := range f.Objects {
		if o.Name == name {
			return i
		}
	}
	return -1
}
