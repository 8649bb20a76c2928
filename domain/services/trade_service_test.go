package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/domain/testhelpers"
	"footycards/events"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tradeFixture struct {
	store     *testhelpers.MemoryStore
	publisher *testhelpers.RecordingEventPublisher
	clock     *clockwork.FakeClock
	service   *TradeService
}

// newTradeFixture seeds A with AAA111AAA111 and B with BBB222BBB222
func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()

	publisher := &testhelpers.RecordingEventPublisher{}
	store := testhelpers.NewMemoryStore(publisher)
	store.AddCard(testUserA, "AAA111AAA111", "Bukayo Saka", entities.RarityEpic)
	store.AddCard(testUserB, "BBB222BBB222", "Cole Palmer", entities.RarityRare)

	clock := clockwork.NewFakeClock()
	service := NewTradeService(store, publisher, clock, 5*time.Minute)
	t.Cleanup(service.Close)

	return &tradeFixture{store: store, publisher: publisher, clock: clock, service: service}
}

func (f *tradeFixture) propose(t *testing.T) *entities.TradeProposal {
	t.Helper()
	p, err := f.service.Propose(context.Background(), interfaces.ProposeTradeRequest{
		InitiatorID:   testUserA,
		TargetID:      testUserB,
		OfferCardID:   "aaa111aaa111",
		RequestCardID: "BBB222BBB222",
	})
	require.NoError(t, err)
	return p
}

func (f *tradeFixture) assertOwners(t *testing.T, ownerOfA, ownerOfB int64) {
	t.Helper()
	owner, ok := f.store.OwnerOf("AAA111AAA111")
	require.True(t, ok)
	assert.Equal(t, ownerOfA, owner)
	owner, ok = f.store.OwnerOf("BBB222BBB222")
	require.True(t, ok)
	assert.Equal(t, ownerOfB, owner)
}

func TestTradeService_ProposeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     interfaces.ProposeTradeRequest
		wantErr error
	}{
		{
			name: "self trade",
			req: interfaces.ProposeTradeRequest{
				InitiatorID: testUserA, TargetID: testUserA,
				OfferCardID: "AAA111AAA111", RequestCardID: "AAA111AAA111",
			},
			wantErr: ErrSelfTrade,
		},
		{
			name: "bot target checked before cards",
			req: interfaces.ProposeTradeRequest{
				InitiatorID: testUserA, TargetID: testUserC, TargetIsBot: true,
				OfferCardID: "NOPE", RequestCardID: "NOPE",
			},
			wantErr: ErrBotTrade,
		},
		{
			name: "offered card not owned",
			req: interfaces.ProposeTradeRequest{
				InitiatorID: testUserA, TargetID: testUserB,
				OfferCardID: "BBB222BBB222", RequestCardID: "AAA111AAA111",
			},
			wantErr: ErrCardNotOwnedByInitiator,
		},
		{
			name: "offered checked before requested",
			req: interfaces.ProposeTradeRequest{
				InitiatorID: testUserA, TargetID: testUserB,
				OfferCardID: "ZZZ999ZZZ999", RequestCardID: "ZZZ999ZZZ999",
			},
			wantErr: ErrCardNotOwnedByInitiator,
		},
		{
			name: "requested card not owned by target",
			req: interfaces.ProposeTradeRequest{
				InitiatorID: testUserA, TargetID: testUserB,
				OfferCardID: "AAA111AAA111", RequestCardID: "AAA111AAA111",
			},
			wantErr: ErrCardNotOwnedByTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newTradeFixture(t)

			p, err := f.service.Propose(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, p)
			assert.Zero(t, f.service.ActiveTrades())
			assert.Empty(t, f.publisher.OfType(events.EventTypeTradeProposed))
		})
	}
}

func TestTradeService_ProposeStorageFailure(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	f.store.FailReads()

	_, err := f.service.Propose(context.Background(), interfaces.ProposeTradeRequest{
		InitiatorID: testUserA, TargetID: testUserB,
		OfferCardID: "AAA111AAA111", RequestCardID: "BBB222BBB222",
	})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, testhelpers.ErrInjected)
}

func TestTradeService_OneActivePerPair(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)

	p := f.propose(t)
	assert.NotEmpty(t, p.TradeID)
	assert.Equal(t, entities.TradeStatePending, p.State)
	assert.Equal(t, f.clock.Now().Add(5*time.Minute), p.ExpiresAt)
	require.Len(t, f.publisher.OfType(events.EventTypeTradeProposed), 1)

	_, err := f.service.Propose(context.Background(), interfaces.ProposeTradeRequest{
		InitiatorID: testUserB, TargetID: testUserA,
		OfferCardID: "BBB222BBB222", RequestCardID: "AAA111AAA111",
	})
	assert.ErrorIs(t, err, ErrTradeAlreadyActive)
}

func TestTradeService_AcceptSwapsOwnership(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	_, err := f.service.Respond(context.Background(), p.TradeID, testUserC, entities.TradeDecisionAccept)
	assert.ErrorIs(t, err, ErrNotAuthorizedForTrade)
	_, err = f.service.Respond(context.Background(), p.TradeID, testUserA, entities.TradeDecisionAccept)
	assert.ErrorIs(t, err, ErrNotAuthorizedForTrade)
	f.assertOwners(t, testUserA, testUserB)

	done, err := f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, entities.TradeStateCompleted, done.State)
	f.assertOwners(t, testUserB, testUserA)

	// owner-scoped lookups follow the new owners
	collection := NewCollectionService(f.store, DefaultCollectionPageSize)
	card, err := collection.GetCard(context.Background(), testUserB, "AAA111AAA111")
	require.NoError(t, err)
	assert.Equal(t, "Bukayo Saka", card.PlayerName())
	_, err = collection.GetCard(context.Background(), testUserA, "AAA111AAA111")
	assert.ErrorIs(t, err, ErrCardNotFound)

	completed := f.publisher.OfType(events.EventTypeTradeCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, p.TradeID, completed[0].(events.TradeEvent).Proposal.TradeID)

	_, err = f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionAccept)
	assert.ErrorIs(t, err, ErrTradeNotFound)
	assert.Zero(t, f.service.ActiveTrades())
}

func TestTradeService_Reject(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	done, err := f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionReject)
	require.NoError(t, err)
	assert.Equal(t, entities.TradeStateRejected, done.State)
	f.assertOwners(t, testUserA, testUserB)
	require.Len(t, f.publisher.OfType(events.EventTypeTradeRejected), 1)

	// the pair can trade again
	f.propose(t)
}

func TestTradeService_Cancel(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	_, err := f.service.Cancel(context.Background(), p.TradeID, testUserB)
	assert.ErrorIs(t, err, ErrNotAuthorizedForTrade)

	done, err := f.service.Cancel(context.Background(), p.TradeID, testUserA)
	require.NoError(t, err)
	assert.Equal(t, entities.TradeStateCanceled, done.State)
	require.Len(t, f.publisher.OfType(events.EventTypeTradeCanceled), 1)

	_, ok := f.service.Get(p.TradeID)
	assert.False(t, ok)
}

func TestTradeService_UnknownDecision(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	_, err := f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecision("maybe"))
	assert.Error(t, err)

	_, ok := f.service.Get(p.TradeID)
	assert.True(t, ok)
}

func TestTradeService_FailedSwapChangesNothing(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	// the first card moves inside the transaction, the second fails
	f.store.FailReassignOnNth(2)

	done, err := f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionAccept)
	assert.ErrorIs(t, err, ErrTradeExecution)
	assert.ErrorIs(t, err, testhelpers.ErrInjected)
	require.NotNil(t, done)
	assert.Equal(t, entities.TradeStateCanceled, done.State)

	f.assertOwners(t, testUserA, testUserB)
	assert.Empty(t, f.publisher.OfType(events.EventTypeTradeCompleted))
	assert.Len(t, f.publisher.OfType(events.EventTypeTradeCanceled), 1)

	_, ok := f.service.Get(p.TradeID)
	assert.False(t, ok)
}

func TestTradeService_CardGoneBeforeAccept(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	burns := NewBurnService(f.store, f.clock)
	_, err := burns.Burn(context.Background(), testUserA, "AAA111AAA111")
	require.NoError(t, err)

	_, err = f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionAccept)
	assert.ErrorIs(t, err, ErrCardNoLongerAvailable)

	owner, ok := f.store.OwnerOf("BBB222BBB222")
	require.True(t, ok)
	assert.Equal(t, testUserB, owner)

	_, ok = f.service.Get(p.TradeID)
	assert.False(t, ok)
}

func TestTradeService_Expiry(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)
	f.service.AttachMessage(p.TradeID, "chan-1", "msg-1")

	f.clock.Advance(5 * time.Minute)

	assert.Eventually(t, func() bool {
		return len(f.publisher.OfType(events.EventTypeTradeExpired)) == 1
	}, time.Second, 5*time.Millisecond)

	expired := f.publisher.OfType(events.EventTypeTradeExpired)[0].(events.TradeEvent)
	assert.Equal(t, p.TradeID, expired.Proposal.TradeID)
	assert.Equal(t, entities.TradeStateExpired, expired.Proposal.State)
	assert.Equal(t, "msg-1", expired.Proposal.MessageID)

	_, err := f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionAccept)
	assert.ErrorIs(t, err, ErrTradeNotFound)
	f.assertOwners(t, testUserA, testUserB)

	// a fresh proposal for the pair is allowed
	f.propose(t)
}

func TestTradeService_ConcurrentAccepts(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)
	p := f.propose(t)

	const responders = 8
	var wg sync.WaitGroup
	errs := make(chan error, responders)
	for i := 0; i < responders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Respond(context.Background(), p.TradeID, testUserB, entities.TradeDecisionAccept)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Condition(t, func() bool {
			return err == ErrTradeInProgress || err == ErrTradeNotFound
		})
	}
	assert.Equal(t, 1, succeeded)
	f.assertOwners(t, testUserB, testUserA)
	assert.Len(t, f.publisher.OfType(events.EventTypeTradeCompleted), 1)
}

func TestTradeService_ConcurrentProposals(t *testing.T) {
	t.Parallel()
	f := newTradeFixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	requests := []interfaces.ProposeTradeRequest{
		{InitiatorID: testUserA, TargetID: testUserB, OfferCardID: "AAA111AAA111", RequestCardID: "BBB222BBB222"},
		{InitiatorID: testUserB, TargetID: testUserA, OfferCardID: "BBB222BBB222", RequestCardID: "AAA111AAA111"},
	}
	for _, req := range requests {
		wg.Add(1)
		go func(req interfaces.ProposeTradeRequest) {
			defer wg.Done()
			_, err := f.service.Propose(context.Background(), req)
			errs <- err
		}(req)
	}
	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], ErrTradeAlreadyActive)
	assert.Equal(t, 1, f.service.ActiveTrades())
}
