package instancer

import (
	"strings"

	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

// TemplateKind says where the template of a point came from.
type TemplateKind uint8

const (
	TemplateUnresolved TemplateKind = iota
	// The object declares the object every point instances.
	TemplateDirect
	// The instance attribute names an object of the same asset.
	TemplateNamed
	// The instance attribute names an object found in the scene.
	TemplateScene
)

func (k TemplateKind) String() string {
	switch k {
	case TemplateDirect:
		return "direct"
	case TemplateNamed:
		return "named"
	case TemplateScene:
		return "scene"
	default:
		return "unresolved"
	}
}

// TemplateLookup is the template chosen for one point.
type TemplateLookup struct {
	Kind   TemplateKind
	Object *scene.GameObject
	// Name is the decoded instance name, empty for direct references.
	Name string
}

func (l TemplateLookup) Resolved() bool {
	return l.Kind != TemplateUnresolved && l.Object != nil
}

type templateLocator struct {
	kind   TemplateKind
	locate func(name string) *scene.GameObject
}

// templateResolver walks its locators in order and keeps the first hit.
type templateResolver struct {
	host hapi.Host
	// handles holds the instance attribute, nil when names are not needed.
	handles  []int32
	locators []templateLocator
}

func newTemplateResolver(asset *assets.Asset, object hapi.ObjectInfo, s *scene.Scene, instanceAttr []int32) *templateResolver {
	r := &templateResolver{host: asset.Host}
	switch {
	case object.ObjectToInstanceID >= 0:
		r.locators = []templateLocator{locateDirect(asset, object.ObjectToInstanceID)}
	case instanceAttr != nil:
		r.handles = instanceAttr
		r.locators = []templateLocator{locateNamed(asset), locateScene(s)}
	}
	return r
}

func locateDirect(asset *assets.Asset, objectID int32) templateLocator {
	template := asset.GameObject(int(objectID))
	return templateLocator{
		kind: TemplateDirect,
		locate: func(string) *scene.GameObject {
			return template
		},
	}
}

func locateNamed(asset *assets.Asset) templateLocator {
	return templateLocator{
		kind: TemplateNamed,
		locate: func(name string) *scene.GameObject {
			return asset.GameObject(asset.FindObjectByName(name))
		},
	}
}

func locateScene(s *scene.Scene) templateLocator {
	return templateLocator{
		kind: TemplateScene,
		locate: func(name string) *scene.GameObject {
			if s == nil || name == "" {
				return nil
			}
			return s.Find(name)
		},
	}
}

func (r *templateResolver) resolve(point int) (TemplateLookup, error) {
	lookup := TemplateLookup{Kind: TemplateUnresolved}
	if len(r.locators) == 0 {
		return lookup, nil
	}
	if r.handles != nil {
		path, err := r.host.GetString(r.handles[point])
		if err != nil {
			return lookup, core.WrapFatal(err, "decode instance name of point %d", point)
		}
		lookup.Name = instanceName(path)
	}
	for _, l := range r.locators {
		if obj := l.locate(lookup.Name); obj != nil {
			lookup.Kind = l.kind
			lookup.Object = obj
			return lookup, nil
		}
	}
	return lookup, nil
}

// instanceName keeps the last segment of an object path.
func instanceName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
