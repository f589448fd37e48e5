package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-hapi/engine/core"
)

func TestParseApplicationConfig(t *testing.T) {
	cfg, err := ParseApplicationConfig([]byte(`
[application]
name = "meadow"
log_level = "debug"

[assets]
dir = "fixtures"
watch = true
load = ["garden.toml"]

[instancing]
progress_events = true
`))
	require.NoError(t, err)
	assert.Equal(t, "meadow", cfg.Name)
	assert.Equal(t, core.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "fixtures", cfg.Assets.Dir)
	assert.True(t, cfg.Assets.Watch)
	assert.False(t, cfg.Assets.EnableLogging)
	assert.Equal(t, []string{"garden.toml"}, cfg.Assets.Load)
	assert.True(t, cfg.Instancing.ProgressEvents)
	// Untouched keys keep their default.
	assert.Equal(t, uint16(64), cfg.Instancing.MaxInstancers)
}

func TestParseApplicationConfigDefaults(t *testing.T) {
	cfg, err := ParseApplicationConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultApplicationConfig(), cfg)
}

func TestParseApplicationConfigErrors(t *testing.T) {
	cases := map[string]string{
		"bad level":     "[application]\nlog_level = \"loud\"\n",
		"unknown key":   "[assets]\nfolder = \"x\"\n",
		"empty name":    "[application]\nname = \"\"\n",
		"empty dir":     "[assets]\ndir = \"\"\n",
		"no instancers": "[instancing]\nmax_instancers = 0\n",
		"not toml":      "[application",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseApplicationConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadApplicationConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadApplicationConfig(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultApplicationConfig(), cfg)

	path := filepath.Join(dir, "anima.toml")
	writeFile(t, path, "[application]\nname = \"testbed\"\n")
	cfg, err = LoadApplicationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "testbed", cfg.Name)

	writeFile(t, path, "[application]\nlog_level = \"loud\"\n")
	_, err = LoadApplicationConfig(path)
	assert.ErrorContains(t, err, path)
}
