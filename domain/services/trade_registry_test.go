package services

import (
	"sync"
	"testing"
	"time"

	"footycards/domain/entities"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expiryRecorder struct {
	mu      sync.Mutex
	expired []entities.TradeProposal
}

func (r *expiryRecorder) record(p entities.TradeProposal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, p)
}

func (r *expiryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expired)
}

func newProposal(id string, initiator, target int64) *entities.TradeProposal {
	return &entities.TradeProposal{
		TradeID:       id,
		InitiatorID:   initiator,
		TargetID:      target,
		OfferedCard:   entities.Card{CardID: "AAA111AAA111", OwnerID: initiator},
		RequestedCard: entities.Card{CardID: "BBB222BBB222", OwnerID: target},
	}
}

func TestTradeRegistry_OneActivePerPair(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	registry := NewTradeRegistry(clock, 5*time.Minute, nil)
	defer registry.Close()

	require.NoError(t, registry.Register(newProposal("t1", testUserA, testUserB)))

	// the pair is unordered
	err := registry.Register(newProposal("t2", testUserB, testUserA))
	assert.ErrorIs(t, err, ErrTradeAlreadyActive)

	// other pairs are independent
	require.NoError(t, registry.Register(newProposal("t3", testUserA, testUserC)))
	assert.Equal(t, 2, registry.ActiveCount())

	p, ok := registry.ActiveForPair(testUserB, testUserA)
	require.True(t, ok)
	assert.Equal(t, "t1", p.TradeID)
	assert.Equal(t, entities.TradeStatePending, p.State)
	assert.Equal(t, clock.Now().Add(5*time.Minute), p.ExpiresAt)
}

func TestTradeRegistry_ConcurrentRegister(t *testing.T) {
	t.Parallel()

	registry := NewTradeRegistry(clockwork.NewFakeClock(), time.Minute, nil)
	defer registry.Close()

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			initiator, target := testUserA, testUserB
			if i%2 == 1 {
				initiator, target = target, initiator
			}
			results <- registry.Register(newProposal(string(rune('a'+i)), initiator, target))
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrTradeAlreadyActive)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, registry.ActiveCount())
}

func TestTradeRegistry_Claim(t *testing.T) {
	t.Parallel()

	registry := NewTradeRegistry(clockwork.NewFakeClock(), time.Minute, nil)
	defer registry.Close()
	require.NoError(t, registry.Register(newProposal("t1", testUserA, testUserB)))

	_, err := registry.claim("missing", testUserB, roleTarget)
	assert.ErrorIs(t, err, ErrTradeNotFound)

	_, err = registry.claim("t1", testUserC, roleTarget)
	assert.ErrorIs(t, err, ErrNotAuthorizedForTrade)

	// the initiator cannot answer their own proposal
	_, err = registry.claim("t1", testUserA, roleTarget)
	assert.ErrorIs(t, err, ErrNotAuthorizedForTrade)

	p, ok := registry.Get("t1")
	require.True(t, ok)
	assert.Equal(t, entities.TradeStatePending, p.State)

	_, err = registry.claim("t1", testUserB, roleTarget)
	require.NoError(t, err)

	_, err = registry.claim("t1", testUserB, roleTarget)
	assert.ErrorIs(t, err, ErrTradeInProgress)

	finished, ok := registry.finish("t1", entities.TradeStateCompleted)
	require.True(t, ok)
	assert.Equal(t, entities.TradeStateCompleted, finished.State)

	_, err = registry.claim("t1", testUserB, roleTarget)
	assert.ErrorIs(t, err, ErrTradeNotFound)
	assert.Zero(t, registry.ActiveCount())
}

func TestTradeRegistry_ExpiresByTimer(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	recorder := &expiryRecorder{}
	registry := NewTradeRegistry(clock, 5*time.Minute, recorder.record)
	defer registry.Close()

	require.NoError(t, registry.Register(newProposal("t1", testUserA, testUserB)))

	clock.Advance(4*time.Minute + 59*time.Second)
	_, ok := registry.Get("t1")
	assert.True(t, ok)

	clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return recorder.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, registry.ActiveCount())

	recorder.mu.Lock()
	assert.Equal(t, entities.TradeStateExpired, recorder.expired[0].State)
	recorder.mu.Unlock()

	// the pair is free again
	require.NoError(t, registry.Register(newProposal("t2", testUserB, testUserA)))
}

func TestTradeRegistry_BusyTradeIsNotExpired(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	recorder := &expiryRecorder{}
	registry := NewTradeRegistry(clock, time.Minute, recorder.record)
	defer registry.Close()

	require.NoError(t, registry.Register(newProposal("t1", testUserA, testUserB)))
	_, err := registry.claim("t1", testUserB, roleTarget)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.Zero(t, registry.SweepExpired())
	assert.Equal(t, 1, registry.ActiveCount())

	_, ok := registry.finish("t1", entities.TradeStateCompleted)
	assert.True(t, ok)
	assert.Zero(t, recorder.count())
}

func TestTradeRegistry_SweepExpired(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	recorder := &expiryRecorder{}
	registry := NewTradeRegistry(clock, time.Minute, recorder.record)
	defer registry.Close()

	require.NoError(t, registry.Register(newProposal("t1", testUserA, testUserB)))
	require.NoError(t, registry.Register(newProposal("t2", testUserA, testUserC)))

	clock.Advance(time.Minute)

	// the timers and the sweep race; each proposal expires exactly once
	registry.SweepExpired()
	assert.Eventually(t, func() bool { return recorder.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return recorder.count() > 2 }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Zero(t, registry.ActiveCount())
}

func TestTradeRegistry_AttachMessage(t *testing.T) {
	t.Parallel()

	registry := NewTradeRegistry(clockwork.NewFakeClock(), time.Minute, nil)
	defer registry.Close()
	require.NoError(t, registry.Register(newProposal("t1", testUserA, testUserB)))

	registry.AttachMessage("t1", "chan-1", "msg-1")
	registry.AttachMessage("missing", "chan-2", "msg-2")

	p, ok := registry.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "chan-1", p.ChannelID)
	assert.Equal(t, "msg-1", p.MessageID)
}
