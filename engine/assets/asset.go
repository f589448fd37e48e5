package assets

import (
	"fmt"

	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

// Asset is the scene-side handle of a cooked host asset. It sits on the
// asset's root object and owns one object per host object.
type Asset struct {
	AssetID int32
	Name    string
	// Path of the fixture the asset was cooked from, if any.
	Path string

	Objects     []hapi.ObjectInfo
	GameObjects []*scene.GameObject
	Root        *scene.GameObject
	Host        hapi.Host

	EnableLogging            bool
	LiveTransformPropagation bool
	SyncAssetTransform       bool
	EnableCooking            bool
}

// NewAsset builds the scene objects of a loaded asset under a new root.
func NewAsset(host hapi.Host, s *scene.Scene, assetID int32, f *hapi.Fixture) (*Asset, error) {
	a := &Asset{
		AssetID:                  assetID,
		Name:                     f.Name,
		Host:                     host,
		LiveTransformPropagation: true,
		SyncAssetTransform:       true,
		EnableCooking:            true,
	}
	a.Root = s.NewObject(f.Name)
	a.Root.AddComponent(a)
	if err := a.Rebuild(f); err != nil {
		s.DestroyImmediate(a.Root)
		return nil, err
	}
	return a, nil
}

// Rebuild replaces every object of the asset with fresh ones matching the
// host's current cook.
func (a *Asset) Rebuild(f *hapi.Fixture) error {
	objects, err := a.Host.GetObjects(a.AssetID)
	if err != nil {
		return fmt.Errorf("asset %q: %w", a.Name, err)
	}
	a.Root.DestroyChildren()

	s := a.Root.Scene()
	a.Objects = objects
	a.GameObjects = make([]*scene.GameObject, len(objects))
	for i, info := range objects {
		obj := s.NewObject(info.Name)
		// Raw geometry sits untransformed at the origin. Keep it hidden.
		renderer := &scene.MeshRenderer{Enabled: false}
		if f != nil && i < len(f.Objects) {
			renderer.Mesh = f.Objects[i].Mesh
			obj.Prefab = f.Objects[i].Prefab
		}
		obj.AddComponent(renderer)
		obj.SetParent(a.Root)
		a.GameObjects[i] = obj
	}
	if a.EnableLogging {
		core.LogDebug("asset '%s' (#%d) built with %d objects", a.Name, a.AssetID, len(objects))
	}
	return nil
}

// FindObjectByName returns the index of the named object, or -1.
func (a *Asset) FindObjectByName(name string) int {
	for i, o := range a.Objects {
		if o.Name == name {
			return i
		}
	}
	return -1
}

// GameObject returns the scene object of the object at index, or nil.
func (a *Asset) GameObject(index int) *scene.GameObject {
	if index < 0 || index >= len(a.GameObjects) {
		return nil
	}
	return a.GameObjects[index]
}

// Clone keeps the copy pointing at the same host asset. Copies of an asset
// root get the cook settings the original had at copy time.
func (a *Asset) Clone() scene.Component {
	c := *a
	return &c
}

// PartControl links a materialized object back to the asset that produced it.
type PartControl struct {
	Asset *Asset
}

func (pc *PartControl) Clone() scene.Component {
	c := *pc
	return &c
}
