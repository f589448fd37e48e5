package scene

// Component is behaviour or data attached to a GameObject.
type Component interface {
	// Clone returns the copy carried by a duplicated object. Returning nil
	// drops the component from the copy.
	Clone() Component
}

// MeshRenderer draws a mesh at its object's transform when enabled.
type MeshRenderer struct {
	Mesh    string
	Enabled bool
}

func (mr *MeshRenderer) Clone() Component {
	c := *mr
	return &c
}

// GetComponent returns the first component of type T on o.
func GetComponent[T Component](o *GameObject) (T, bool) {
	var zero T
	if o == nil {
		return zero, false
	}
	for _, c := range o.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// GetOrAddComponent returns the component of type T on o, adding the one
// built by create when there is none.
func GetOrAddComponent[T Component](o *GameObject, create func() T) T {
	if c, ok := GetComponent[T](o); ok {
		return c
	}
	c := create()
	o.AddComponent(c)
	return c
}

// GetComponentsInChildren collects components of type T on o and every
// descendant, breadth first.
func GetComponentsInChildren[T Component](o *GameObject) []T {
	var out []T
	o.Walk(func(obj *GameObject) bool {
		for _, c := range obj.components {
			if t, ok := c.(T); ok {
				out = append(out, t)
			}
		}
		return true
	})
	return out
}
