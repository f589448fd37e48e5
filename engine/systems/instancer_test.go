package systems

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-hapi/engine/assets"
	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/hapi"
	"github.com/spaghettifunk/anima-hapi/engine/instancer"
	"github.com/spaghettifunk/anima-hapi/engine/scene"
)

func newTestInstancerSystem(t *testing.T, am *assets.AssetManager, limit uint16) (*InstancerSystem, *JobSystem) {
	t.Helper()
	js, err := NewJobSystem(1, 8)
	require.NoError(t, err)
	is, err := NewInstancerSystem(&InstancerSystemConfig{MaxInstancerCount: limit}, am, js)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = is.Shutdown()
		_ = js.Shutdown()
	})
	return is, js
}

func loadAsset(t *testing.T, f *hapi.Fixture) *assets.Asset {
	t.Helper()
	host := hapi.NewMemoryHost()
	id, err := host.LoadAsset(f)
	require.NoError(t, err)
	a, err := assets.NewAsset(host, scene.New("test"), id, f)
	require.NoError(t, err)
	return a
}

// meadow has three instancers. broken decides what is wrong with the first.
func meadow(broken hapi.FixtureAttribute) *hapi.Fixture {
	return &hapi.Fixture{
		Name: "meadow",
		Objects: []hapi.FixtureObject{
			{Name: "flower", Mesh: "flower.obj"},
			{
				Name: "broken", IsInstancer: true, ObjectToInstance: "flower", PointCount: 2,
				Attributes: []hapi.FixtureAttribute{broken},
			},
			{Name: "patch", IsInstancer: true, ObjectToInstance: "flower", PointCount: 2},
			{Name: "rock"},
			{Name: "border", IsInstancer: true, ObjectToInstance: "flower", PointCount: 3},
		},
	}
}

var primScale = hapi.FixtureAttribute{Name: "scale", Owner: "prim", TupleSize: 3, Floats: []float32{1, 1, 1}}
var shortScale = hapi.FixtureAttribute{Name: "scale", Owner: "point", TupleSize: 3, Floats: []float32{1, 1, 1}}

func TestNewInstancerSystemValidation(t *testing.T) {
	js, err := NewJobSystem(1, 0)
	require.NoError(t, err)
	defer js.Shutdown()

	_, err = NewInstancerSystem(&InstancerSystemConfig{}, nil, js)
	assert.Error(t, err)
	_, err = NewInstancerSystem(&InstancerSystemConfig{MaxInstancerCount: 1}, nil, nil)
	assert.Error(t, err)
}

func TestAttachCreatesInstancers(t *testing.T) {
	a := loadAsset(t, meadow(primScale))
	is, _ := newTestInstancerSystem(t, nil, 8)

	list, err := is.Attach(a)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int32{1, 2, 4}, []int32{list[0].ObjectID, list[1].ObjectID, list[2].ObjectID})
	for _, in := range list {
		got, ok := scene.GetComponent[*instancer.Instancer](in.Container())
		require.True(t, ok)
		assert.Same(t, in, got)
		assert.IsType(t, &instancer.LogProgress{}, in.Progress)
	}

	// Attaching again replaces the instancers.
	again, err := is.Attach(a)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.NotSame(t, list[0], again[0])
	assert.Len(t, a.GameObject(1).Components(), 2)

	assert.Equal(t, 3, is.Unregister(a))
	assert.Empty(t, is.Instancers(a))
	assert.Len(t, a.GameObject(1).Components(), 1)
}

func TestRegisterLimit(t *testing.T) {
	a := loadAsset(t, meadow(primScale))
	is, _ := newTestInstancerSystem(t, nil, 2)

	list, err := is.Attach(a)
	assert.Error(t, err)
	assert.Len(t, list, 2)
	_, ok := scene.GetComponent[*instancer.Instancer](a.GameObject(4))
	assert.False(t, ok)
}

func TestRunAllContinuesPastIgnorableErrors(t *testing.T) {
	a := loadAsset(t, meadow(primScale))
	is, _ := newTestInstancerSystem(t, nil, 8)
	_, err := is.Attach(a)
	require.NoError(t, err)

	reports, err := is.RunAll(a)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.True(t, core.IsIgnorable(reports[0].Err))
	assert.Equal(t, 0, reports[0].Created())
	assert.Equal(t, 2, reports[1].Created())
	assert.Equal(t, 3, reports[2].Created())
	assert.Equal(t, 3, a.GameObject(4).ChildCount())
}

func TestRunAllStopsOnFatalErrors(t *testing.T) {
	a := loadAsset(t, meadow(shortScale))
	is, _ := newTestInstancerSystem(t, nil, 8)
	_, err := is.Attach(a)
	require.NoError(t, err)

	reports, err := is.RunAll(a)
	require.Error(t, err)
	assert.True(t, core.IsFatal(err))
	assert.Len(t, reports, 1)
	assert.Zero(t, a.GameObject(2).ChildCount())
}

func TestSubmitRunsOnJobSystem(t *testing.T) {
	a := loadAsset(t, meadow(primScale))
	is, js := newTestInstancerSystem(t, nil, 8)
	_, err := is.Attach(a)
	require.NoError(t, err)

	var got []*instancer.Report
	var runErr error
	require.NoError(t, is.Submit(a, func(reports []*instancer.Report, err error) {
		got, runErr = reports, err
	}))
	require.NoError(t, js.Shutdown())

	assert.NoError(t, runErr)
	assert.Len(t, got, 3)
	assert.Equal(t, 2, a.GameObject(2).ChildCount())
}

const gardenFixture = `
name = "garden"

[[objects]]
name = "flower"
mesh = "flower.obj"

[[objects]]
name = "patch"
is_instancer = true
object_to_instance = "flower"
point_count = %d
`

func writeGarden(t *testing.T, path string, points int) {
	t.Helper()
	content := []byte(fmt.Sprintf(gardenFixture, points))
	require.NoError(t, os.WriteFile(path, content, 0644))
}

func TestAssetChangedReinstances(t *testing.T) {
	core.EventSystemInitialize()
	defer core.EventSystemShutdown()

	dir := t.TempDir()
	path := filepath.Join(dir, "garden.toml")
	writeGarden(t, path, 2)

	am, err := assets.NewAssetManager(hapi.NewMemoryHost(), scene.New("test"))
	require.NoError(t, err)
	defer am.Shutdown()
	require.NoError(t, am.Initialize(dir, false))

	is, js := newTestInstancerSystem(t, am, 8)
	a, err := am.Load(path)
	require.NoError(t, err)
	_, err = is.Attach(a)
	require.NoError(t, err)
	_, err = is.RunAll(a)
	require.NoError(t, err)
	require.Equal(t, 2, a.GameObject(1).ChildCount())

	writeGarden(t, path, 4)
	core.EventFire(core.EVENT_CODE_ASSET_CHANGED, am, core.EventContext{
		Data: &core.AssetEvent{Path: path},
	})
	require.NoError(t, js.Shutdown())

	list := is.Instancers(a)
	require.Len(t, list, 1)
	assert.Same(t, a.GameObject(1), list[0].Container())
	assert.Equal(t, 4, a.GameObject(1).ChildCount())
}
