package hapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `
name = "forest"

[[objects]]
name = "tree"
mesh = "tree.obj"

[[objects]]
name = "scatter"
is_instancer = true

  [[objects.points]]
  position = [1.0, 0.0, 2.0]
  rotation = [0.0, 0.0, 0.0, 1.0]

  [[objects.points]]
  position = [-3.0, 1.0, 0.5]

  [[objects.attributes]]
  name = "instance"
  owner = "point"
  strings = ["/obj/tree", "/obj/rock"]

  [[objects.attributes]]
  name = "scale"
  floats = [1.0, 1.0, 1.0, 2.0, 2.0, 2.0]
`

func TestParseFixture(t *testing.T) {
	f, err := ParseFixture([]byte(sampleFixture))
	require.NoError(t, err)

	assert.Equal(t, "forest", f.Name)
	require.Len(t, f.Objects, 2)
	assert.Equal(t, "tree.obj", f.Objects[0].Mesh)
	assert.True(t, f.Objects[1].IsInstancer)
	require.Len(t, f.Objects[1].Points, 2)
	assert.Equal(t, []float32{-3, 1, 0.5}, f.Objects[1].Points[1].Position)
	require.Len(t, f.Objects[1].Attributes, 2)
	assert.Equal(t, []string{"/obj/tree", "/obj/rock"}, f.Objects[1].Attributes[0].Strings)
	assert.Equal(t, 1, f.ObjectIndex("scatter"))
	assert.Equal(t, -1, f.ObjectIndex("missing"))
}

func TestParseFixtureErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"no name":        "[[objects]]\nname = \"a\"\n",
		"unknown field":  "name = \"x\"\ncolour = 1\n",
		"duplicate":      "name = \"x\"\n[[objects]]\nname = \"a\"\n[[objects]]\nname = \"a\"\n",
		"bad reference":  "name = \"x\"\n[[objects]]\nname = \"a\"\nobject_to_instance = \"b\"\n",
		"bad owner":      "name = \"x\"\n[[objects]]\nname = \"a\"\n[[objects.attributes]]\nname = \"scale\"\nowner = \"face\"\n",
		"short position": "name = \"x\"\n[[objects]]\nname = \"a\"\n[[objects.points]]\nposition = [1.0]\n",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixture([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixture), 0644))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "forest", f.Name)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
