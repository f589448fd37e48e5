package engine

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/instancer"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
	"github.com/spaghettifunk/anima-hapi/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	host          *hapi.MemoryHost
	scene         *scene.Scene
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	clock         *core.Clock
	lastTime      float64

	quit     chan struct{}
	quitOnce sync.Once
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		err := fmt.Errorf("func New - a game with an application config is required")
		core.LogError(err.Error())
		return nil, err
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	host := hapi.NewMemoryHost()
	s := scene.New(g.ApplicationConfig.Name)

	am, err := assets.NewAssetManager(host, s)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	am.EnableLogging = g.ApplicationConfig.Assets.EnableLogging

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		host:         host,
		scene:        s,
		assetManager: am,
		clock:        core.NewClock(),
		quit:         make(chan struct{}),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.ApplicationConfig

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	// The instancer system registers for asset changes before the engine so
	// a frame submitted on change runs after the re-instancing job.
	sm, err := systems.NewSystemManager(e.assetManager, &systems.InstancerSystemConfig{
		MaxInstancerCount: cfg.Instancing.MaxInstancers,
		ProgressEvents:    cfg.Instancing.ProgressEvents,
	})
	if err != nil {
		return err
	}
	e.systemManager = sm
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, e, e.onAssetChanged)

	if err := e.assetManager.Initialize(cfg.Assets.Dir, cfg.Assets.Watch); err != nil {
		return err
	}
	if err := e.loadAssets(); err != nil {
		return err
	}

	e.gameInstance.Scene = e.scene
	e.gameInstance.AssetManager = e.assetManager
	e.gameInstance.SystemManager = e.systemManager
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) loadAssets() error {
	cfg := e.gameInstance.ApplicationConfig.Assets
	paths := e.assetManager.Paths()
	if len(cfg.Load) > 0 {
		paths = make([]string, len(cfg.Load))
		for i, p := range cfg.Load {
			paths[i] = filepath.Join(cfg.Dir, p)
		}
	}
	is := e.systemManager.InstancerSystem()
	for _, p := range paths {
		a, err := e.assetManager.Load(p)
		if err != nil {
			return err
		}
		if _, err := is.Attach(a); err != nil {
			return err
		}
	}
	core.LogInfo("%d assets loaded from %s", len(paths), cfg.Dir)
	return nil
}

// Run instances every loaded asset and renders one frame. When watching,
// it then blocks until the application quits, rendering a frame after each
// fixture change.
func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.lastTime = 0

	is := e.systemManager.InstancerSystem()
	for _, a := range e.assetManager.Loaded() {
		a := a
		err := is.Submit(a, func(reports []*instancer.Report, err error) {
			if e.gameInstance.FnOnInstanced != nil {
				e.gameInstance.FnOnInstanced(a, reports, err)
			}
		})
		if err != nil {
			return err
		}
	}

	frame, err := e.submitFrame()
	if err != nil {
		return err
	}
	if err := <-frame; err != nil {
		return err
	}
	if !e.gameInstance.ApplicationConfig.Assets.Watch {
		return nil
	}

	core.LogInfo("watching %s for changes", e.gameInstance.ApplicationConfig.Assets.Dir)
	<-e.quit
	return nil
}

// submitFrame queues an update and a render of the game behind any pending
// instancing job.
func (e *Engine) submitFrame() (<-chan error, error) {
	result := make(chan error, 1)
	err := e.systemManager.JobSystem().Submit(systems.JobTask{
		JobType: systems.JOB_TYPE_GENERAL,
		OnStart: func(params []interface{}, out chan<- interface{}) error {
			e.clock.Update()
			currentTime := e.clock.Elapsed().Seconds()
			delta := currentTime - e.lastTime
			e.lastTime = currentTime

			if e.gameInstance.FnUpdate != nil {
				if err := e.gameInstance.FnUpdate(delta); err != nil {
					return fmt.Errorf("game update failed: %w", err)
				}
			}
			if e.gameInstance.FnRender != nil {
				if err := e.gameInstance.FnRender(delta); err != nil {
					return fmt.Errorf("game render failed: %w", err)
				}
			}
			return nil
		},
		OnFailure: func(err error) {
			result <- err
			e.Stop()
		},
		OnComplete: func(interface{}) {
			result <- nil
		},
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Stop asks a watching Run to return.
func (e *Engine) Stop() {
	if !core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{}) {
		e.quitOnce.Do(func() { close(e.quit) })
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listenerInst interface{}, context core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.quitOnce.Do(func() { close(e.quit) })
		return true
	}
	return false
}

func (e *Engine) onAssetChanged(code core.SystemEventCode, sender interface{}, listenerInst interface{}, context core.EventContext) bool {
	if _, err := e.submitFrame(); err != nil {
		core.LogWarn("cannot render after asset change: %s", err)
	}
	return false
}
