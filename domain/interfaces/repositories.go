package interfaces

import (
	"context"

	"footycards/domain/entities"
)

// CardRepository defines the interface for card data access.
// Every owner-scoped lookup treats a card held by another user exactly
// like a card that does not exist.
type CardRepository interface {
	// GetByOwnerAndCardID returns the owner's card with the given public ID, or nil
	GetByOwnerAndCardID(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error)

	// GetByOwnerAndCardIDForUpdate is GetByOwnerAndCardID with a row lock held until the transaction ends
	GetByOwnerAndCardIDForUpdate(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error)

	// GetLatestByOwner returns the owner's most recently collected card, or nil
	GetLatestByOwner(ctx context.Context, ownerID int64) (*entities.Card, error)

	// ListByOwner returns the owner's cards, newest first
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entities.Card, error)

	// CountByOwner returns how many cards the owner holds
	CountByOwner(ctx context.Context, ownerID int64) (int, error)

	// CardIDExists reports whether any user holds a card with this public ID
	CardIDExists(ctx context.Context, cardID string) (bool, error)

	// Create inserts a card and sets its internal ID and collection time
	Create(ctx context.Context, card *entities.Card) error

	// Delete removes a card by internal ID
	Delete(ctx context.Context, id int64) error

	// ReassignOwner moves a card from one owner to another.
	// It fails when the card is no longer held by fromOwnerID.
	ReassignOwner(ctx context.Context, id int64, fromOwnerID, toOwnerID int64) error
}

// PlayerRepository defines the interface for the player catalog
type PlayerRepository interface {
	// UpsertByName catalogs a player on first sighting and re-syncs it afterwards; sets player.ID
	UpsertByName(ctx context.Context, player *entities.Player) error

	// GetByID retrieves a player, or nil
	GetByID(ctx context.Context, id int64) (*entities.Player, error)
}
