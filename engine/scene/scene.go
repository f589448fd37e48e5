// Package scene is the minimal scene graph instances are materialized into.
// A Scene is not safe for concurrent use.
package scene

import (
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/math"
)

const cloneSuffix = "(Clone)"

type Scene struct {
	Name  string
	roots []*GameObject
}

func New(name string) *Scene {
	return &Scene{Name: name}
}

// NewObject creates an empty object at the scene root.
func (s *Scene) NewObject(name string) *GameObject {
	o := newGameObject(s, name)
	s.addRoot(o)
	return o
}

// Roots returns a copy of the root objects.
func (s *Scene) Roots() []*GameObject {
	out := make([]*GameObject, len(s.roots))
	copy(out, s.roots)
	return out
}

func (s *Scene) addRoot(o *GameObject) {
	s.roots = append(s.roots, o)
}

func (s *Scene) removeRoot(o *GameObject) {
	for i, r := range s.roots {
		if r == o {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			return
		}
	}
}

// Find returns the first live object called name, searching the roots in
// creation order and each hierarchy breadth first.
func (s *Scene) Find(name string) *GameObject {
	var found *GameObject
	for _, r := range s.roots {
		r.Walk(func(obj *GameObject) bool {
			if !obj.destroyed && obj.Name == name {
				found = obj
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// Instantiate deep copies original, components included, and places the
// copy at the scene root with the given pose. The copy keeps the original's
// scale.
func (s *Scene) Instantiate(original *GameObject, position math.Vec3, rotation math.Quaternion) *GameObject {
	if original == nil {
		return nil
	}
	c := original.clone(s, original.Name+cloneSuffix)
	c.Transform.SetPositionRotation(position, rotation)
	s.addRoot(c)
	return c
}

// InstantiatePrefab links a new copy to prefab. It returns nil when prefab
// is not a prefab, leaving the caller to fall back on Instantiate.
func (s *Scene) InstantiatePrefab(prefab *GameObject) *GameObject {
	if prefab == nil || !prefab.Prefab {
		return nil
	}
	c := prefab.clone(s, prefab.Name)
	c.PrefabSource = prefab
	s.addRoot(c)
	return c
}

// DestroyImmediate removes o and its subtree from the scene.
func (s *Scene) DestroyImmediate(o *GameObject) {
	if o == nil || o.destroyed {
		return
	}
	if o.scene != s {
		core.LogWarn("destroying object '%s' owned by another scene", o.Name)
	}
	destroyTree(o)
}

// Count returns the number of live objects in the scene.
func (s *Scene) Count() int {
	n := 0
	for _, r := range s.roots {
		r.Walk(func(obj *GameObject) bool {
			n++
			return true
		})
	}
	return n
}
