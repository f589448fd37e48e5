package hapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-hapi/engine/core"
	"github.com/spaghettifunk/anima-hapi/engine/math"
)

// countingHost records how many transform pages were requested.
type countingHost struct {
	Host
	transformCalls int
	floatCalls     int
}

func (c *countingHost) GetInstanceTransforms(assetID, objectID, geoID int32, order RSTOrder, start, length int32) ([]Transform, error) {
	c.transformCalls++
	return c.Host.GetInstanceTransforms(assetID, objectID, geoID, order, start, length)
}

func (c *countingHost) GetAttributeFloatData(assetID, objectID, geoID, partID int32, name string, start, length int32) ([]float32, error) {
	c.floatCalls++
	return c.Host.GetAttributeFloatData(assetID, objectID, geoID, partID, name, start, length)
}

func loadSample(t *testing.T) (*MemoryHost, int32) {
	t.Helper()
	f, err := ParseFixture([]byte(sampleFixture))
	require.NoError(t, err)
	h := NewMemoryHost()
	id, err := h.LoadAsset(f)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.UnloadAsset(id) })
	return h, id
}

func TestMemoryHostObjects(t *testing.T) {
	h, id := loadSample(t)

	objects, err := h.GetObjects(id)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "scatter", objects[1].Name)
	assert.True(t, objects[1].IsInstancer)
	assert.Equal(t, int32(-1), objects[1].ObjectToInstanceID)

	geo, err := h.GetGeoInfo(id, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), geo.PartCount)

	part, err := h.GetPartInfo(id, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), part.PointCount)

	_, err = h.GetObjects(id + 1000)
	assert.ErrorIs(t, err, core.ErrAssetNotFound)
	_, err = h.GetPartInfo(id, 7, 0, 0)
	assert.ErrorIs(t, err, core.ErrObjectNotFound)
}

func TestMemoryHostAttributes(t *testing.T) {
	h, id := loadSample(t)

	info, handles, err := GetStringAttribute(h, id, 1, 0, 0, "instance")
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, ATTROWNER_POINT, info.Owner)
	require.Len(t, handles, 2)
	s, err := h.GetString(handles[1])
	require.NoError(t, err)
	assert.Equal(t, "/obj/rock", s)

	info, scale, err := GetFloatAttribute(h, id, 1, 0, 0, "scale")
	require.NoError(t, err)
	assert.Equal(t, int32(3), info.TupleSize)
	assert.Len(t, scale, 6)

	info, values, err := GetFloatAttribute(h, id, 1, 0, 0, "Cd")
	require.NoError(t, err)
	assert.False(t, info.Exists)
	assert.Nil(t, values)

	_, err = h.GetString(9999)
	assert.ErrorIs(t, err, core.ErrInvalidStringHandle)
}

func TestMemoryHostTransformsCarryScaleAttribute(t *testing.T) {
	h, id := loadSample(t)

	transforms, err := GetInstanceTransforms(h, id, 1, 0, SRT, 2)
	require.NoError(t, err)
	require.Len(t, transforms, 2)
	assert.Equal(t, math.NewVec3(1, 0, 2), transforms[0].Position)
	assert.Equal(t, math.NewQuatIdentity(), transforms[1].RotationQuaternion)
	assert.Equal(t, math.NewVec3(2, 2, 2), transforms[1].Scale)
	assert.Equal(t, SRT, transforms[1].RSTOrder)
}

func TestPagedFetches(t *testing.T) {
	count := PageSize*2 + 10
	floats := make([]float32, count*3)
	for i := range floats {
		floats[i] = float32(i)
	}
	f := &Fixture{
		Name: "big",
		Objects: []FixtureObject{{
			Name:        "points",
			IsInstancer: true,
			PointCount:  count,
			Attributes:  []FixtureAttribute{{Name: "scale", Owner: "point", Floats: floats}},
		}},
	}
	mh := NewMemoryHost()
	id, err := mh.LoadAsset(f)
	require.NoError(t, err)
	defer mh.UnloadAsset(id)

	h := &countingHost{Host: mh}
	transforms, err := GetInstanceTransforms(h, id, 0, 0, SRT, count)
	require.NoError(t, err)
	assert.Len(t, transforms, int(count))
	assert.Equal(t, 3, h.transformCalls)

	_, values, err := GetFloatAttribute(h, id, 0, 0, 0, "scale")
	require.NoError(t, err)
	assert.Equal(t, floats, values)
	assert.Greater(t, h.floatCalls, 1)
}

func TestMemoryHostReload(t *testing.T) {
	h, id := loadSample(t)
	assert.Equal(t, 1, h.CookCount(id))

	f := &Fixture{Name: "forest", Objects: []FixtureObject{{Name: "only", NoGeometry: true}}}
	require.NoError(t, h.ReloadAsset(id, f))
	assert.Equal(t, 2, h.CookCount(id))

	geo, err := h.GetGeoInfo(id, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(0), geo.PartCount)
}
