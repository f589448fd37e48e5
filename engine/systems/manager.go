package systems

import (
	"github.com/spaghettifunk/anima-hapi/engine/assets"
)

type SystemManager struct {
	jobSystem       *JobSystem
	instancerSystem *InstancerSystem
}

func NewSystemManager(am *assets.AssetManager, config *InstancerSystemConfig) (*SystemManager, error) {
	// A single worker keeps instancing passes from overlapping.
	js, err := NewJobSystem(1, 64)
	if err != nil {
		return nil, err
	}
	is, err := NewInstancerSystem(config, am, js)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		jobSystem:       js,
		instancerSystem: is,
	}, nil
}

func (sm *SystemManager) JobSystem() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) InstancerSystem() *InstancerSystem {
	return sm.instancerSystem
}

// Shutdown drains the job system after the instancer system stopped
// listening, so no pass is left half done.
func (sm *SystemManager) Shutdown() error {
	if err := sm.instancerSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.jobSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
