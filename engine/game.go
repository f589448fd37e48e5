package engine

import (
	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/instancer"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
	"github.com/spaghettifunk/anima-hapi/engine/systems"
)

// Game holds the callbacks the engine drives. The engine fills in Scene,
// AssetManager and SystemManager before FnInitialize runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Scene             *scene.Scene
	AssetManager      *assets.AssetManager
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnInstanced     OnInstanced
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error

// OnInstanced receives the outcome of the start-up passes of an asset.
type OnInstanced func(asset *assets.Asset, reports []*instancer.Report, err error)
