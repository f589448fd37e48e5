package instancer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/anima-hapi/engine/core"
)

func TestLogProgressThrottles(t *testing.T) {
	logs := captureLog(t, core.DebugLevel)

	p := &LogProgress{Step: 25}
	for i := 0; i < 100; i++ {
		p.Report(i, 100, progressMessage)
	}
	assert.Equal(t, 4, strings.Count(logs.String(), progressMessage))
	assert.Contains(t, logs.String(), "75/100")
}

func TestLogProgressIgnoresEmptyPass(t *testing.T) {
	logs := captureLog(t, core.DebugLevel)
	(&LogProgress{}).Report(0, 0, progressMessage)
	assert.Empty(t, logs.String())
}
