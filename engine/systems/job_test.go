package systems

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobSystemValidation(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobSystemRunsJobsInOrder(t *testing.T) {
	js, err := NewJobSystem(1, 4)
	require.NoError(t, err)

	var order []int
	for i := 0; i < 10; i++ {
		require.NoError(t, js.Submit(JobTask{
			InputParams: []interface{}{i},
			OnStart: func(params []interface{}, out chan<- interface{}) error {
				order = append(order, params[0].(int))
				return nil
			},
		}))
	}
	require.NoError(t, js.Shutdown())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestJobSystemCallbacks(t *testing.T) {
	js, err := NewJobSystem(2, 0)
	require.NoError(t, err)

	var mu sync.Mutex
	var result interface{}
	var failure error
	completions := 0
	done := func() {
		mu.Lock()
		completions++
		mu.Unlock()
	}

	require.NoError(t, js.Submit(JobTask{
		OnStart: func(params []interface{}, out chan<- interface{}) error {
			out <- "cooked"
			return nil
		},
		OnComplete: func(r interface{}) {
			mu.Lock()
			result = r
			mu.Unlock()
		},
		OnFailure:            func(err error) { t.Errorf("unexpected failure: %v", err) },
		OnCompletionCallback: done,
	}))
	boom := errors.New("boom")
	require.NoError(t, js.Submit(JobTask{
		OnStart: func(params []interface{}, out chan<- interface{}) error {
			return boom
		},
		OnComplete: func(interface{}) { t.Error("unexpected completion") },
		OnFailure: func(err error) {
			mu.Lock()
			failure = err
			mu.Unlock()
		},
		OnCompletionCallback: done,
	}))
	require.NoError(t, js.Shutdown())

	assert.Equal(t, "cooked", result)
	assert.ErrorIs(t, failure, boom)
	assert.Equal(t, 2, completions)
}

func TestJobSystemShutdown(t *testing.T) {
	js, err := NewJobSystem(1, 1)
	require.NoError(t, err)

	assert.Error(t, js.Submit(JobTask{}))
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	err = js.Submit(JobTask{OnStart: func([]interface{}, chan<- interface{}) error { return nil }})
	assert.ErrorIs(t, err, ErrJobSystemShutdown)
}
