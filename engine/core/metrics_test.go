package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordPass(t *testing.T) {
	MetricsReset()
	assert.Zero(t, MetricsAveragePassTime())

	MetricsRecordPass(3, 1, 10*time.Millisecond, false)
	MetricsRecordPass(0, 0, 30*time.Millisecond, true)

	m := MetricsSnapshot()
	assert.Equal(t, uint64(2), m.Passes)
	assert.Equal(t, uint64(1), m.AbortedPasses)
	assert.Equal(t, uint64(3), m.Instances)
	assert.Equal(t, uint64(1), m.SkippedPoints)
	assert.Equal(t, 20*time.Millisecond, MetricsAveragePassTime())

	for i := 0; i < int(AVG_COUNT); i++ {
		MetricsRecordPass(0, 0, time.Second, false)
	}
	assert.Equal(t, time.Second, MetricsAveragePassTime())
	MetricsReset()
}
