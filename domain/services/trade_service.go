package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// DefaultTradeExpiry is how long a proposal waits for an answer
const DefaultTradeExpiry = 5 * time.Minute

// TradeService coordinates proposals and the atomic two-card swap
type TradeService struct {
	uowFactory interfaces.UnitOfWorkFactory
	publisher  interfaces.EventPublisher
	registry   *TradeRegistry
	clock      clockwork.Clock
}

// NewTradeService creates a trade service. publisher receives the events
// that are not tied to a transaction (proposed, rejected, expired, canceled).
func NewTradeService(
	uowFactory interfaces.UnitOfWorkFactory,
	publisher interfaces.EventPublisher,
	clock clockwork.Clock,
	expiry time.Duration,
) *TradeService {
	if expiry <= 0 {
		expiry = DefaultTradeExpiry
	}
	s := &TradeService{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
	}
	s.registry = NewTradeRegistry(clock, expiry, s.onExpired)
	return s
}

// Propose validates and registers a new proposal. Checks run in order and
// the first failure is returned.
func (s *TradeService) Propose(ctx context.Context, req interfaces.ProposeTradeRequest) (*entities.TradeProposal, error) {
	if req.InitiatorID == req.TargetID {
		return nil, ErrSelfTrade
	}
	if req.TargetIsBot {
		return nil, ErrBotTrade
	}

	offered, requested, err := s.loadProposalCards(ctx, req)
	if err != nil {
		return nil, err
	}

	proposal := &entities.TradeProposal{
		TradeID:       uuid.NewString(),
		InitiatorID:   req.InitiatorID,
		TargetID:      req.TargetID,
		OfferedCard:   *offered,
		RequestedCard: *requested,
	}
	if err := s.registry.Register(proposal); err != nil {
		return nil, err
	}

	snapshot := *proposal
	s.publisher.Publish(events.NewTradeEvent(events.EventTypeTradeProposed, &snapshot, ""))

	log.WithFields(log.Fields{
		"tradeId":     snapshot.TradeID,
		"initiatorId": snapshot.InitiatorID,
		"targetId":    snapshot.TargetID,
		"offered":     snapshot.OfferedCard.CardID,
		"requested":   snapshot.RequestedCard.CardID,
	}).Info("Trade proposed")

	return &snapshot, nil
}

func (s *TradeService) loadProposalCards(ctx context.Context, req interfaces.ProposeTradeRequest) (*entities.Card, *entities.Card, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	repo := uow.CardRepository()

	offered, err := repo.GetByOwnerAndCardID(ctx, req.InitiatorID, entities.NormalizeCardID(req.OfferCardID))
	if err != nil {
		return nil, nil, storageError("get offered card", err)
	}
	if offered == nil {
		return nil, nil, ErrCardNotOwnedByInitiator
	}

	requested, err := repo.GetByOwnerAndCardID(ctx, req.TargetID, entities.NormalizeCardID(req.RequestCardID))
	if err != nil {
		return nil, nil, storageError("get requested card", err)
	}
	if requested == nil {
		return nil, nil, ErrCardNotOwnedByTarget
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, storageError("commit", err)
	}
	return offered, requested, nil
}

// Respond applies the target's decision. Any other actor gets
// ErrNotAuthorizedForTrade and the proposal stays as it was.
func (s *TradeService) Respond(ctx context.Context, tradeID string, actorID int64, decision entities.TradeDecision) (*entities.TradeProposal, error) {
	switch decision {
	case entities.TradeDecisionAccept:
		return s.accept(ctx, tradeID, actorID)
	case entities.TradeDecisionReject:
		return s.reject(tradeID, actorID)
	default:
		return nil, fmt.Errorf("unknown trade decision %q", decision)
	}
}

// Cancel lets the initiator withdraw a pending proposal
func (s *TradeService) Cancel(ctx context.Context, tradeID string, actorID int64) (*entities.TradeProposal, error) {
	if _, err := s.registry.claim(tradeID, actorID, roleInitiator); err != nil {
		return nil, err
	}
	return s.resolve(tradeID, entities.TradeStateCanceled, events.EventTypeTradeCanceled, "withdrawn by initiator"), nil
}

func (s *TradeService) reject(tradeID string, actorID int64) (*entities.TradeProposal, error) {
	if _, err := s.registry.claim(tradeID, actorID, roleTarget); err != nil {
		return nil, err
	}
	return s.resolve(tradeID, entities.TradeStateRejected, events.EventTypeTradeRejected, ""), nil
}

func (s *TradeService) accept(ctx context.Context, tradeID string, actorID int64) (*entities.TradeProposal, error) {
	proposal, err := s.registry.claim(tradeID, actorID, roleTarget)
	if err != nil {
		return nil, err
	}

	err = s.executeSwap(ctx, proposal)
	switch {
	case err == nil:
		finished, ok := s.registry.finish(tradeID, entities.TradeStateCompleted)
		if !ok {
			finished = proposal
			finished.State = entities.TradeStateCompleted
		}
		log.WithFields(log.Fields{
			"tradeId":     tradeID,
			"initiatorId": finished.InitiatorID,
			"targetId":    finished.TargetID,
		}).Info("Trade completed")
		return &finished, nil

	case errors.Is(err, ErrCardNoLongerAvailable):
		finished := s.resolve(tradeID, entities.TradeStateCanceled, events.EventTypeTradeCanceled, "card no longer available")
		return finished, ErrCardNoLongerAvailable

	default:
		log.WithFields(log.Fields{
			"tradeId": tradeID,
			"error":   err,
		}).Error("Trade swap failed, ownership unchanged")
		finished := s.resolve(tradeID, entities.TradeStateCanceled, events.EventTypeTradeCanceled, "execution failed")
		return finished, fmt.Errorf("%w: %w", ErrTradeExecution, err)
	}
}

// executeSwap re-validates both cards under row locks and exchanges their
// owners in a single transaction.
func (s *TradeService) executeSwap(ctx context.Context, p entities.TradeProposal) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.CardRepository()

	// lock in a stable order so crossing trades cannot deadlock
	type side struct {
		owner  int64
		cardID string
		card   *entities.Card
	}
	sides := []*side{
		{owner: p.InitiatorID, cardID: p.OfferedCard.CardID},
		{owner: p.TargetID, cardID: p.RequestedCard.CardID},
	}
	order := sides
	if sides[1].cardID < sides[0].cardID {
		order = []*side{sides[1], sides[0]}
	}
	for _, sd := range order {
		card, err := repo.GetByOwnerAndCardIDForUpdate(ctx, sd.owner, sd.cardID)
		if err != nil {
			return fmt.Errorf("failed to lock card %s: %w", sd.cardID, err)
		}
		if card == nil {
			return ErrCardNoLongerAvailable
		}
		sd.card = card
	}

	offered, requested := sides[0].card, sides[1].card
	if err := repo.ReassignOwner(ctx, offered.ID, p.InitiatorID, p.TargetID); err != nil {
		return fmt.Errorf("failed to move offered card: %w", err)
	}
	if err := repo.ReassignOwner(ctx, requested.ID, p.TargetID, p.InitiatorID); err != nil {
		return fmt.Errorf("failed to move requested card: %w", err)
	}

	completed := p
	completed.State = entities.TradeStateCompleted
	uow.EventBus().Publish(events.NewTradeEvent(events.EventTypeTradeCompleted, &completed, ""))

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// resolve finishes a claimed proposal and publishes the transition
func (s *TradeService) resolve(tradeID string, state entities.TradeState, eventType events.EventType, reason string) *entities.TradeProposal {
	finished, ok := s.registry.finish(tradeID, state)
	if !ok {
		return nil
	}
	s.publisher.Publish(events.NewTradeEvent(eventType, &finished, reason))

	log.WithFields(log.Fields{
		"tradeId": tradeID,
		"state":   state,
		"reason":  reason,
	}).Info("Trade closed")
	return &finished
}

func (s *TradeService) onExpired(p entities.TradeProposal) {
	log.WithFields(log.Fields{
		"tradeId":     p.TradeID,
		"initiatorId": p.InitiatorID,
		"targetId":    p.TargetID,
	}).Info("Trade expired")
	s.publisher.Publish(events.NewTradeEvent(events.EventTypeTradeExpired, &p, ""))
}

// Get returns a snapshot of an active proposal
func (s *TradeService) Get(tradeID string) (*entities.TradeProposal, bool) {
	p, ok := s.registry.Get(tradeID)
	if !ok {
		return nil, false
	}
	return &p, true
}

// AttachMessage records the Discord message showing the proposal so
// expiry can update it
func (s *TradeService) AttachMessage(tradeID, channelID, messageID string) {
	s.registry.AttachMessage(tradeID, channelID, messageID)
}

// SweepExpired expires overdue proposals whose timers have not fired
func (s *TradeService) SweepExpired() int {
	return s.registry.SweepExpired()
}

// ActiveTrades returns the number of pending proposals
func (s *TradeService) ActiveTrades() int {
	return s.registry.ActiveCount()
}

// Close stops all expiry timers
func (s *TradeService) Close() {
	s.registry.Close()
}
