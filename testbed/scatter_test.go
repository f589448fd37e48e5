package testbed

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-hapi/engine/hapi"
)

func TestGenerateScatter(t *testing.T) {
	cfg := ScatterConfig{Name: "field", Templates: []string{"a", "b"}, Count: 20, Extent: 10, Seed: 3}
	f, err := GenerateScatter(cfg)
	require.NoError(t, err)

	require.Len(t, f.Objects, 3)
	scatter := f.Objects[2]
	assert.Equal(t, "field_scatter", scatter.Name)
	assert.True(t, scatter.IsInstancer)
	require.Len(t, scatter.Points, 20)
	require.Len(t, scatter.Attributes, 2)
	assert.Len(t, scatter.Attributes[0].Strings, 20)
	assert.Len(t, scatter.Attributes[1].Floats, 60)
	for _, p := range scatter.Points {
		assert.LessOrEqual(t, p.Position[0], float32(5))
		assert.GreaterOrEqual(t, p.Position[0], float32(-5))
	}
	for _, name := range scatter.Attributes[0].Strings {
		assert.Contains(t, []string{"/obj/a", "/obj/b"}, name)
	}

	again, err := GenerateScatter(cfg)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestGenerateScatterErrors(t *testing.T) {
	_, err := GenerateScatter(ScatterConfig{Name: "none", Count: 1})
	assert.Error(t, err)
	_, err = GenerateScatter(ScatterConfig{Name: "many", Templates: []string{"a"}, Count: 65001})
	assert.Error(t, err)
}

func TestWriteFixtureRoundTrip(t *testing.T) {
	f, err := GenerateScatter(ScatterConfig{Name: "field", Templates: []string{"a"}, Count: 4, Extent: 2, Seed: 1})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "field.toml")
	require.NoError(t, WriteFixture(path, f))

	loaded, err := hapi.LoadFixture(path)
	require.NoError(t, err)
	if diff := cmp.Diff(f, loaded); diff != "" {
		t.Fatalf("fixture changed on disk (-want +got):\n%s", diff)
	}
}

func TestEnsureSampleAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, EnsureSampleAssets(dir))
	matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "meadow.toml")}, matches)

	// An existing fixture is left alone.
	require.NoError(t, EnsureSampleAssets(dir))
	matches, _ = filepath.Glob(filepath.Join(dir, "*.toml"))
	assert.Len(t, matches, 1)
}
