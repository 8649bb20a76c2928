package interfaces

import (
	"context"

	"footycards/domain/entities"
	"footycards/events"
)

// EventPublisher accepts domain events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork wraps one database transaction and the repositories bound to it
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases buffered events
	Commit() error

	// Rollback rolls back the transaction; safe after Commit
	Rollback() error

	CardRepository() CardRepository
	PlayerRepository() PlayerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// PlayerStatsProvider is an external source of player statistics.
// Any error means the source is unusable for this attempt.
type PlayerStatsProvider interface {
	// FetchTopPlayers returns the current top players across configured leagues
	FetchTopPlayers(ctx context.Context) ([]entities.PlayerStat, error)

	// Name identifies the provider in logs and metrics
	Name() string
}

// PlayerPoolSource supplies candidate players for drops
type PlayerPoolSource interface {
	// Get returns the current pool; degraded is true for stale or fallback data
	Get(ctx context.Context) (entries []*entities.PlayerPoolEntry, degraded bool, err error)
}

// DropService draws cards
type DropService interface {
	Drop(ctx context.Context, userID int64) (*entities.DropResult, error)
}

// CollectionService reads a user's cards
type CollectionService interface {
	ListCollection(ctx context.Context, ownerID int64, page int) (*entities.CardPage, error)
	GetCard(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error)
}

// BurnService deletes owned cards
type BurnService interface {
	// PreviewBurn resolves the card that Burn would delete; an empty cardID means the latest card
	PreviewBurn(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error)
	Burn(ctx context.Context, ownerID int64, cardID string) (*entities.BurnResult, error)
}

// ProposeTradeRequest carries the arguments of a trade proposal
type ProposeTradeRequest struct {
	InitiatorID   int64
	TargetID      int64
	TargetIsBot   bool
	OfferCardID   string
	RequestCardID string
}

// TradeService coordinates two-party card exchanges
type TradeService interface {
	Propose(ctx context.Context, req ProposeTradeRequest) (*entities.TradeProposal, error)
	Respond(ctx context.Context, tradeID string, actorID int64, decision entities.TradeDecision) (*entities.TradeProposal, error)
	Cancel(ctx context.Context, tradeID string, actorID int64) (*entities.TradeProposal, error)
	Get(tradeID string) (*entities.TradeProposal, bool)
	AttachMessage(tradeID, channelID, messageID string)
}
