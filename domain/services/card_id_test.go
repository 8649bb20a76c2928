package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardIDPattern = regexp.MustCompile(`^[0-9A-Z]{12}$`)

func TestCardIDGenerator_Format(t *testing.T) {
	t.Parallel()

	gen := NewCardIDGenerator(clockwork.NewRealClock(), 0)
	for i := 0; i < 100; i++ {
		id, err := gen.Next()
		require.NoError(t, err)
		assert.Regexp(t, cardIDPattern, id)
	}
}

func TestCardIDGenerator_SequentialUniqueness(t *testing.T) {
	t.Parallel()

	// frozen clock: uniqueness must come from the monotonic counter
	gen := NewCardIDGenerator(clockwork.NewFakeClock(), 0)

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id, err := gen.Next()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestCardIDGenerator_ConcurrentUniqueness(t *testing.T) {
	t.Parallel()

	gen := NewCardIDGenerator(clockwork.NewRealClock(), 0)

	const workers, perWorker = 20, 500
	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id, err := gen.Next()
				if err != nil {
					t.Error(err)
					return
				}
				ids <- id
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestCardIDGenerator_TimePrefixIsOrdered(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	gen := NewCardIDGenerator(clock, 0)

	first, err := gen.Next()
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := gen.Next()
	require.NoError(t, err)

	assert.Less(t, first[:8], second[:8])
}

func TestCardIDGenerator_NextUnique(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		collisions   int
		existsErr    error
		wantErr      bool
		wantAttempts int
	}{
		{name: "free on first try", collisions: 0, wantAttempts: 1},
		{name: "retries after collisions", collisions: 3, wantAttempts: 4},
		{name: "accepts last candidate after max attempts", collisions: 99, wantAttempts: 5},
		{name: "storage error aborts", existsErr: errors.New("connection refused"), wantErr: true, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewCardIDGenerator(clockwork.NewFakeClock(), 5)

			var checked []string
			exists := func(ctx context.Context, id string) (bool, error) {
				checked = append(checked, id)
				if tt.existsErr != nil {
					return false, tt.existsErr
				}
				return len(checked) <= tt.collisions, nil
			}

			id, err := gen.NextUnique(context.Background(), exists)
			assert.Len(t, checked, tt.wantAttempts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.existsErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, checked[len(checked)-1], id)
		})
	}
}
