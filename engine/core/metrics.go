package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// MetricsState accumulates figures over every instancing pass of the process.
type MetricsState struct {
	Passes        uint64
	AbortedPasses uint64
	Instances     uint64
	SkippedPoints uint64

	passAVGCounter uint8
	passTimes      [AVG_COUNT]time.Duration
	passCount      uint8
}

var metricsLock sync.Mutex
var metricsState = &MetricsState{}

func MetricsReset() {
	metricsLock.Lock()
	defer metricsLock.Unlock()
	metricsState = &MetricsState{}
}

// MetricsRecordPass adds the outcome of one instancing pass.
func MetricsRecordPass(created, skipped int, elapsed time.Duration, aborted bool) {
	metricsLock.Lock()
	defer metricsLock.Unlock()

	metricsState.Passes++
	if aborted {
		metricsState.AbortedPasses++
	}
	metricsState.Instances += uint64(created)
	metricsState.SkippedPoints += uint64(skipped)

	metricsState.passTimes[metricsState.passAVGCounter] = elapsed
	metricsState.passAVGCounter++
	metricsState.passAVGCounter %= AVG_COUNT
	if metricsState.passCount < AVG_COUNT {
		metricsState.passCount++
	}
}

// MetricsAveragePassTime is the mean over the last AVG_COUNT passes.
func MetricsAveragePassTime() time.Duration {
	metricsLock.Lock()
	defer metricsLock.Unlock()

	if metricsState.passCount == 0 {
		return 0
	}
	var total time.Duration
	for i := uint8(0); i < metricsState.passCount; i++ {
		total += metricsState.passTimes[i]
	}
	return total / time.Duration(metricsState.passCount)
}

// MetricsSnapshot returns a copy of the counters.
func MetricsSnapshot() MetricsState {
	metricsLock.Lock()
	defer metricsLock.Unlock()
	return *metricsState
}
