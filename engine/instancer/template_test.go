package instancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-hapi/engine/hapi"
)

func TestInstanceName(t *testing.T) {
	cases := map[string]string{
		"/obj/geo/tree": "tree",
		"tree":          "tree",
		"/obj/":         "",
		"":              "",
	}
	for path, want := range cases {
		assert.Equal(t, want, instanceName(path), path)
	}
}

func TestResolverChains(t *testing.T) {
	f := &hapi.Fixture{
		Name: "lookup",
		Objects: []hapi.FixtureObject{
			{Name: "tree"},
			{Name: "scatter", IsInstancer: true, ObjectToInstance: "tree", PointCount: 1},
		},
	}
	w := newWorld(t, f)
	scatter := w.asset.Objects[1]

	t.Run("direct ignores the instance attribute", func(t *testing.T) {
		r := newTemplateResolver(w.asset, scatter, w.scene, []int32{-5})
		lookup, err := r.resolve(0)
		require.NoError(t, err)
		assert.Equal(t, TemplateDirect, lookup.Kind)
		assert.Same(t, w.asset.GameObject(0), lookup.Object)
		assert.Empty(t, lookup.Name)
	})

	t.Run("direct reference to a missing object", func(t *testing.T) {
		broken := scatter
		broken.ObjectToInstanceID = 9
		lookup, err := newTemplateResolver(w.asset, broken, w.scene, nil).resolve(0)
		require.NoError(t, err)
		assert.False(t, lookup.Resolved())
	})

	t.Run("bad string handle is fatal", func(t *testing.T) {
		named := scatter
		named.ObjectToInstanceID = -1
		_, err := newTemplateResolver(w.asset, named, w.scene, []int32{-5}).resolve(0)
		require.Error(t, err)
	})

	t.Run("named before scene", func(t *testing.T) {
		named := scatter
		named.ObjectToInstanceID = -1
		decoy := w.scene.NewObject("tree")
		handle := w.host.RegisterString("/obj/tree")

		lookup, err := newTemplateResolver(w.asset, named, w.scene, []int32{handle}).resolve(0)
		require.NoError(t, err)
		assert.Equal(t, TemplateNamed, lookup.Kind)
		assert.NotSame(t, decoy, lookup.Object)
		assert.Equal(t, "tree", lookup.Name)
	})
}

func TestTemplateKindString(t *testing.T) {
	assert.Equal(t, "direct", TemplateDirect.String())
	assert.Equal(t, "named", TemplateNamed.String())
	assert.Equal(t, "scene", TemplateScene.String())
	assert.Equal(t, "unresolved", TemplateUnresolved.String())
}
