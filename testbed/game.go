package testbed

import (
	"fmt"
	"io"
	"os"

	"github.com/spaghettifunk/anima-hapi/engine"
	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/instancer"
)

type TestGame struct {
	*engine.Game

	// Out receives the rendered hierarchy.
	Out io.Writer
}

type gameState struct {
	DeltaTime float64
	Frames    int
	Instances int
	Failures  int
}

func NewTestGame(config *engine.ApplicationConfig) (*TestGame, error) {
	if config == nil {
		return nil, fmt.Errorf("the testbed needs an application config")
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
		Out: os.Stdout,
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnInstanced = tg.OnInstanced

	return tg, nil
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil || g.AssetManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	for _, a := range g.AssetManager.Loaded() {
		instancers := g.SystemManager.InstancerSystem().Instancers(a)
		core.LogInfo("asset '%s' (#%d): %d objects, %d instancers", a.Name, a.AssetID, len(a.Objects), len(instancers))
	}
	return nil
}

func (g *TestGame) OnInstanced(a *assets.Asset, reports []*instancer.Report, err error) {
	state := g.State.(*gameState)
	for _, r := range reports {
		state.Instances += r.Created()
		if r.Err != nil {
			state.Failures++
		}
		core.LogInfo("asset '%s' object '%s': %d instances, %d skipped in %s",
			a.Name, r.ObjectName, r.Created(), r.Skipped, r.Elapsed)
	}
	if err != nil {
		core.LogError("instancing of asset '%s' stopped: %s", a.Name, err)
	}
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.DeltaTime = deltaTime
	state.Frames++
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	if _, err := io.WriteString(g.Out, RenderScene(g.Scene)); err != nil {
		return err
	}
	m := core.MetricsSnapshot()
	core.LogInfo("frame %d: %d passes (%d aborted), %d instances, avg pass %s",
		g.State.(*gameState).Frames, m.Passes, m.AbortedPasses, m.Instances, core.MetricsAveragePassTime())
	return nil
}
