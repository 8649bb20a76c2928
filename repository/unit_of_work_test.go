package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/domain/services"
	"footycards/events"
	"footycards/repository/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *eventSink) handle(_ context.Context, e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *eventSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestUnitOfWork_EventsOnlyAfterCommit(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	sink := &eventSink{}
	bus.Subscribe(events.EventTypeCardBurned, sink.handle)
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("rollback discards", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		uow.EventBus().Publish(events.CardBurnedEvent{CardID: "AAA111AAA111"})
		require.NoError(t, uow.Rollback())

		assert.Never(t, func() bool { return sink.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	})

	t.Run("commit flushes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		uow.EventBus().Publish(events.CardBurnedEvent{CardID: "AAA111AAA111"})
		require.NoError(t, uow.Commit())
		// rollback after commit is a no-op
		require.NoError(t, uow.Rollback())

		assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
	})

	t.Run("repositories require begin", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.CardRepository() })
	})
}

func TestTradeService_PostgresSwap(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	seedCard(t, testDB.DB, ownerA, "AAA111AAA111", "Bukayo Saka")
	seedCard(t, testDB.DB, ownerB, "BBB222BBB222", "Cole Palmer")

	bus := events.NewBus()
	sink := &eventSink{}
	bus.Subscribe(events.EventTypeTradeCompleted, sink.handle)

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	trades := services.NewTradeService(factory, bus, clockwork.NewFakeClock(), time.Minute)
	defer trades.Close()

	proposal, err := trades.Propose(ctx, interfaces.ProposeTradeRequest{
		InitiatorID:   ownerA,
		TargetID:      ownerB,
		OfferCardID:   "AAA111AAA111",
		RequestCardID: "bbb222bbb222",
	})
	require.NoError(t, err)

	done, err := trades.Respond(ctx, proposal.TradeID, ownerB, entities.TradeDecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, entities.TradeStateCompleted, done.State)

	repo := NewCardRepository(testDB.DB)
	card, err := repo.GetByOwnerAndCardID(ctx, ownerB, "AAA111AAA111")
	require.NoError(t, err)
	assert.NotNil(t, card)
	card, err = repo.GetByOwnerAndCardID(ctx, ownerA, "BBB222BBB222")
	require.NoError(t, err)
	assert.NotNil(t, card)

	assert.Eventually(t, func() bool { return sink.count() == 1 }, time.Second, 10*time.Millisecond)
}
