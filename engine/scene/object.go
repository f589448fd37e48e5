package scene

import (
	"github.com/google/uuid"

	"github.com/spaghettifunk/anima-hapi/engine/containers"
	"github.com/spaghettifunk/anima-hapi/engine/math"
)

// GameObject is a node of the scene graph.
type GameObject struct {
	ID        uuid.UUID
	Name      string
	Transform *math.Transform
	// Prefab marks a shared template that InstantiatePrefab can link to.
	Prefab bool
	// PrefabSource is the prefab this object was linked from, if any.
	PrefabSource *GameObject

	scene      *Scene
	parent     *GameObject
	children   []*GameObject
	components []Component
	destroyed  bool
}

func newGameObject(s *Scene, name string) *GameObject {
	return &GameObject{
		ID:        uuid.New(),
		Name:      name,
		Transform: math.TransformCreate(),
		scene:     s,
	}
}

func (o *GameObject) Scene() *Scene {
	return o.scene
}

func (o *GameObject) Parent() *GameObject {
	return o.parent
}

// Children returns a copy of the direct children of o.
func (o *GameObject) Children() []*GameObject {
	out := make([]*GameObject, len(o.children))
	copy(out, o.children)
	return out
}

func (o *GameObject) ChildCount() int {
	return len(o.children)
}

func (o *GameObject) Destroyed() bool {
	return o.destroyed
}

func (o *GameObject) Components() []Component {
	out := make([]Component, len(o.components))
	copy(out, o.components)
	return out
}

func (o *GameObject) AddComponent(c Component) {
	o.components = append(o.components, c)
}

// RemoveComponent detaches c and reports whether it was attached.
func (o *GameObject) RemoveComponent(c Component) bool {
	for i, existing := range o.components {
		if existing == c {
			o.components = append(o.components[:i], o.components[i+1:]...)
			return true
		}
	}
	return false
}

// SetParent moves o under parent, or to the scene root when parent is nil.
// Local position, rotation and scale are kept and now read relative to the
// new parent.
func (o *GameObject) SetParent(parent *GameObject) {
	if parent == o.parent {
		return
	}
	for p := parent; p != nil; p = p.parent {
		if p == o {
			// Refuse to build a cycle.
			return
		}
	}
	o.detach()
	o.parent = parent
	if parent != nil {
		parent.children = append(parent.children, o)
		o.Transform.Parent = parent.Transform
	} else {
		o.Transform.Parent = nil
		if o.scene != nil {
			o.scene.addRoot(o)
		}
	}
}

func (o *GameObject) detach() {
	if o.parent != nil {
		siblings := o.parent.children
		for i, c := range siblings {
			if c == o {
				o.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		o.parent = nil
		o.Transform.Parent = nil
		return
	}
	if o.scene != nil {
		o.scene.removeRoot(o)
	}
}

// Walk visits o and its descendants breadth first. Returning false from fn
// stops the walk.
func (o *GameObject) Walk(fn func(obj *GameObject) bool) {
	if o == nil {
		return
	}
	queue := containers.NewGrowingRingQueue[*GameObject](len(o.children) + 1)
	_ = queue.Enqueue(o)
	for !queue.IsEmpty() {
		obj, _ := queue.Dequeue()
		if !fn(obj) {
			return
		}
		for _, c := range obj.children {
			_ = queue.Enqueue(c)
		}
	}
}

// DestroyChildren destroys every child of o, leaving o itself in place.
func (o *GameObject) DestroyChildren() int {
	children := o.Children()
	for _, c := range children {
		if o.scene != nil {
			o.scene.DestroyImmediate(c)
		} else {
			destroyTree(c)
		}
	}
	return len(children)
}

// clone deep copies o and its subtree. The copy is not attached anywhere.
func (o *GameObject) clone(s *Scene, name string) *GameObject {
	c := newGameObject(s, name)
	c.Transform = o.Transform.Clone()
	c.PrefabSource = o.PrefabSource
	for _, comp := range o.components {
		if cc := comp.Clone(); cc != nil {
			c.components = append(c.components, cc)
		}
	}
	for _, child := range o.children {
		cc := child.clone(s, child.Name)
		cc.parent = c
		cc.Transform.Parent = c.Transform
		c.children = append(c.children, cc)
	}
	return c
}

func destroyTree(o *GameObject) {
	o.Walk(func(obj *GameObject) bool {
		obj.destroyed = true
		return true
	})
	o.detach()
}
