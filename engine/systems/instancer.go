package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/instancer"
)

/** @brief The instancer system configuration. */
type InstancerSystemConfig struct {
	/** @brief The maximum number of instancers a single asset can register. */
	MaxInstancerCount uint16
	/** @brief Report pass progress on the event bus instead of the debug log. */
	ProgressEvents bool
}

// InstancerSystem keeps the instancers of every asset and runs their passes.
// Passes submitted through the system run on its job system, one at a time.
type InstancerSystem struct {
	Config *InstancerSystemConfig

	assetManager *assets.AssetManager
	jobSystem    *JobSystem

	mu         sync.Mutex
	instancers map[*assets.Asset][]*instancer.Instancer
}

/**
 * @brief Creates the instancer system. When the event system is running the
 * instancer system listens for asset changes and re-instances the changed asset.
 * @param config The configuration for this system.
 * @param am The asset manager used to reload changed fixtures. Can be nil.
 * @param js The job system that serializes passes.
 */
func NewInstancerSystem(config *InstancerSystemConfig, am *assets.AssetManager, js *JobSystem) (*InstancerSystem, error) {
	if config == nil || config.MaxInstancerCount == 0 {
		err := fmt.Errorf("func NewInstancerSystem - config.MaxInstancerCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if js == nil {
		err := fmt.Errorf("func NewInstancerSystem - a job system is required")
		core.LogError(err.Error())
		return nil, err
	}
	is := &InstancerSystem{
		Config:       config,
		assetManager: am,
		jobSystem:    js,
		instancers:   make(map[*assets.Asset][]*instancer.Instancer),
	}
	if !core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, is, is.onAssetChanged) {
		core.LogDebug("instancer system is not listening for asset changes")
	}
	return is, nil
}

func (is *InstancerSystem) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, is)
	is.mu.Lock()
	defer is.mu.Unlock()
	is.instancers = make(map[*assets.Asset][]*instancer.Instancer)
	return nil
}

func (is *InstancerSystem) newProgress(in *instancer.Instancer) instancer.ProgressBar {
	if is.Config.ProgressEvents {
		return &instancer.EventProgress{Sender: in}
	}
	return &instancer.LogProgress{}
}

// Attach drops the instancers registered for a and creates one on every
// object the host flags as an instancer.
func (is *InstancerSystem) Attach(a *assets.Asset) ([]*instancer.Instancer, error) {
	is.Unregister(a)
	for i, object := range a.Objects {
		if !object.IsInstancer {
			continue
		}
		container := a.GameObject(i)
		if container == nil {
			continue
		}
		in := instancer.NewInstancer(container, a, int32(i))
		in.Progress = is.newProgress(in)
		if err := is.Register(a, in); err != nil {
			container.RemoveComponent(in)
			return is.Instancers(a), err
		}
	}
	return is.Instancers(a), nil
}

// Register adds in to the instancers run for a.
func (is *InstancerSystem) Register(a *assets.Asset, in *instancer.Instancer) error {
	is.mu.Lock()
	defer is.mu.Unlock()
	list := is.instancers[a]
	for _, existing := range list {
		if existing == in {
			return nil
		}
	}
	if len(list) >= int(is.Config.MaxInstancerCount) {
		err := fmt.Errorf("asset '%s' already has %d instancers", a.Name, len(list))
		core.LogError(err.Error())
		return err
	}
	is.instancers[a] = append(list, in)
	return nil
}

// Unregister forgets every instancer of a and detaches them from their
// containers. It returns how many were removed.
func (is *InstancerSystem) Unregister(a *assets.Asset) int {
	is.mu.Lock()
	list := is.instancers[a]
	delete(is.instancers, a)
	is.mu.Unlock()

	for _, in := range list {
		if c := in.Container(); c != nil {
			c.RemoveComponent(in)
		}
	}
	return len(list)
}

// Instancers returns the instancers of a in object order.
func (is *InstancerSystem) Instancers(a *assets.Asset) []*instancer.Instancer {
	is.mu.Lock()
	defer is.mu.Unlock()
	out := make([]*instancer.Instancer, len(is.instancers[a]))
	copy(out, is.instancers[a])
	return out
}

/**
 * @brief Runs a pass for every instancer of the asset, in object order.
 * Ignorable errors are skipped over; any other error stops the run.
 * @param a The asset to instance.
 * @returns The reports of the passes that ran and the error that stopped the run.
 */
func (is *InstancerSystem) RunAll(a *assets.Asset) ([]*instancer.Report, error) {
	list := is.Instancers(a)
	reports := make([]*instancer.Report, 0, len(list))
	for _, in := range list {
		report, err := in.InstanceObjects()
		reports = append(reports, report)
		if err != nil && !core.IsIgnorable(err) {
			return reports, err
		}
	}
	return reports, nil
}

/**
 * @brief Queues RunAll for the asset on the job system.
 * @param a The asset to instance.
 * @param done Invoked on the worker once the run finished. Can be nil.
 */
func (is *InstancerSystem) Submit(a *assets.Asset, done func(reports []*instancer.Report, err error)) error {
	var reports []*instancer.Report
	var runErr error
	return is.jobSystem.Submit(JobTask{
		JobType:     JOB_TYPE_INSTANCING,
		InputParams: []interface{}{a},
		OnStart: func(params []interface{}, out chan<- interface{}) error {
			reports, runErr = is.RunAll(params[0].(*assets.Asset))
			return runErr
		},
		OnCompletionCallback: func() {
			if done != nil {
				done(reports, runErr)
			}
		},
	})
}

// onAssetChanged reloads the changed fixture on the job system, then
// rebuilds its instancers and runs them.
func (is *InstancerSystem) onAssetChanged(code core.SystemEventCode, sender interface{}, listenerInst interface{}, data core.EventContext) bool {
	ev, ok := data.Data.(*core.AssetEvent)
	if !ok || is.assetManager == nil {
		return false
	}
	err := is.jobSystem.Submit(JobTask{
		JobType:     JOB_TYPE_INSTANCING,
		InputParams: []interface{}{ev.Path},
		OnStart: func(params []interface{}, out chan<- interface{}) error {
			path := params[0].(string)
			a, err := is.assetManager.Load(path)
			if err != nil {
				return err
			}
			if _, err := is.Attach(a); err != nil {
				return err
			}
			reports, err := is.RunAll(a)
			out <- reports
			return err
		},
		OnComplete: func(result interface{}) {
			created := 0
			for _, r := range result.([]*instancer.Report) {
				created += r.Created()
			}
			core.LogInfo("re-instanced %s: %d instances", ev.Path, created)
		},
	})
	if err != nil {
		core.LogWarn("cannot re-instance %s: %s", ev.Path, err)
	}
	// Other listeners may care about the change too.
	return false
}
