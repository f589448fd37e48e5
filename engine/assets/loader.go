package assets

import "github.com/spaghettifunk/anima-hapi/engine/hapi"

type AssetType int

const (
	AssetTypeNone AssetType = iota
	// A cooked asset written down as TOML.
	AssetTypeFixture
)

// Loader turns a file on disk into something the host can cook.
type Loader interface {
	Load(path string) (*hapi.Fixture, error)
}

type FixtureLoader struct{}

func (fl *FixtureLoader) Load(path string) (*hapi.Fixture, error) {
	return hapi.LoadFixture(path)
}
