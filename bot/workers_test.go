package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarmer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeWarmer) Warm(ctx context.Context) error {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("warm called without deadline")
	}
	return f.err
}

type fakeSweeper struct {
	sweeps atomic.Int32
	prunes atomic.Int32
}

func (f *fakeSweeper) SweepExpired() int {
	f.sweeps.Add(1)
	return 1
}

func (f *fakeSweeper) Prune() int {
	f.prunes.Add(1)
	return 0
}

func TestWorkers_StartWarmsImmediately(t *testing.T) {
	warmer := &fakeWarmer{}
	sweeper := &fakeSweeper{}
	w := NewWorkers(warmer, sweeper, sweeper)

	// Far-future schedule so only the immediate warmup runs
	stop, err := w.Start("0 0 0 1 1 *")
	require.NoError(t, err)
	defer stop()

	assert.Eventually(t, func() bool {
		return warmer.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWorkers_InvalidSchedule(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorkers(&fakeWarmer{}, sweeper, sweeper)

	stop, err := w.Start("every now and then")
	assert.Error(t, err)
	assert.Nil(t, stop)
}

func TestWorkers_SweepRunsBothJobs(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewWorkers(&fakeWarmer{}, sweeper, sweeper)

	w.sweep()

	assert.Equal(t, int32(1), sweeper.sweeps.Load())
	assert.Equal(t, int32(1), sweeper.prunes.Load())
}

func TestWorkers_WarmFailureIsLogged(t *testing.T) {
	warmer := &fakeWarmer{err: errors.New("provider down")}
	sweeper := &fakeSweeper{}
	w := NewWorkers(warmer, sweeper, sweeper)

	assert.NotPanics(t, w.warmPool)
	assert.Equal(t, int32(1), warmer.calls.Load())
}

func TestCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range Commands() {
		names[cmd.Name] = true
	}
	for _, want := range []string{"drop", "collection", "card", "burn", "trade"} {
		assert.True(t, names[want], want)
	}
}
