package services

import (
	"context"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// BurnService permanently deletes cards from a user's collection
type BurnService struct {
	uowFactory interfaces.UnitOfWorkFactory
	clock      clockwork.Clock
}

// NewBurnService creates a new burn service
func NewBurnService(uowFactory interfaces.UnitOfWorkFactory, clock clockwork.Clock) *BurnService {
	return &BurnService{uowFactory: uowFactory, clock: clock}
}

// PreviewBurn resolves the card Burn would delete without deleting it.
// An empty cardID selects the owner's most recent card.
func (s *BurnService) PreviewBurn(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	card, err := s.resolve(ctx, uow.CardRepository(), ownerID, cardID, false)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, storageError("commit", err)
	}
	return card, nil
}

// Burn deletes the owner's card. Ownership is re-checked under a row
// lock so a card traded away since the preview cannot be burned.
func (s *BurnService) Burn(ctx context.Context, ownerID int64, cardID string) (*entities.BurnResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	repo := uow.CardRepository()
	card, err := s.resolve(ctx, repo, ownerID, cardID, true)
	if err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, card.ID); err != nil {
		return nil, storageError("delete card", err)
	}

	uow.EventBus().Publish(events.CardBurnedEvent{
		CardID:     card.CardID,
		OwnerID:    ownerID,
		PlayerName: card.PlayerName(),
		Rarity:     card.Rarity(),
		BurnedAt:   s.clock.Now(),
	})

	if err := uow.Commit(); err != nil {
		return nil, storageError("commit", err)
	}

	log.WithFields(log.Fields{
		"userId": ownerID,
		"cardId": card.CardID,
		"player": card.PlayerName(),
	}).Info("Card burned")

	return &entities.BurnResult{Card: card}, nil
}

func (s *BurnService) resolve(ctx context.Context, repo interfaces.CardRepository, ownerID int64, cardID string, lock bool) (*entities.Card, error) {
	cardID = entities.NormalizeCardID(cardID)

	if cardID == "" {
		latest, err := repo.GetLatestByOwner(ctx, ownerID)
		if err != nil {
			return nil, storageError("get latest card", err)
		}
		if latest == nil {
			return nil, ErrCardNotFound
		}
		if !lock {
			return latest, nil
		}
		cardID = latest.CardID
	}

	var (
		card *entities.Card
		err  error
	)
	if lock {
		card, err = repo.GetByOwnerAndCardIDForUpdate(ctx, ownerID, cardID)
	} else {
		card, err = repo.GetByOwnerAndCardID(ctx, ownerID, cardID)
	}
	if err != nil {
		return nil, storageError("get card", err)
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	return card, nil
}
