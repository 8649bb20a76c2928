package services

import (
	"context"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
)

// DefaultCollectionPageSize is the number of cards shown per page
const DefaultCollectionPageSize = 12

// CollectionService reads users' card collections
type CollectionService struct {
	uowFactory interfaces.UnitOfWorkFactory
	pageSize   int
}

// NewCollectionService creates a new collection service
func NewCollectionService(uowFactory interfaces.UnitOfWorkFactory, pageSize int) *CollectionService {
	if pageSize <= 0 {
		pageSize = DefaultCollectionPageSize
	}
	return &CollectionService{uowFactory: uowFactory, pageSize: pageSize}
}

// ListCollection returns one page of the owner's cards, newest first.
// Pages are 1-based and out-of-range pages are clamped.
func (s *CollectionService) ListCollection(ctx context.Context, ownerID int64, page int) (*entities.CardPage, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	repo := uow.CardRepository()
	total, err := repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageError("count cards", err)
	}

	totalPages := (total + s.pageSize - 1) / s.pageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	result := &entities.CardPage{
		OwnerID:    ownerID,
		Cards:      []*entities.Card{},
		Page:       page,
		PageSize:   s.pageSize,
		TotalCards: total,
		TotalPages: totalPages,
	}
	if total == 0 {
		return result, nil
	}

	cards, err := repo.ListByOwner(ctx, ownerID, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, storageError("list cards", err)
	}
	result.Cards = cards

	if err := uow.Commit(); err != nil {
		return nil, storageError("commit", err)
	}
	return result, nil
}

// GetCard returns one of the owner's cards. Cards held by anyone else are
// reported as not found.
func (s *CollectionService) GetCard(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	cardID = entities.NormalizeCardID(cardID)
	if cardID == "" {
		return nil, ErrCardNotFound
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("begin transaction", err)
	}
	defer uow.Rollback()

	card, err := uow.CardRepository().GetByOwnerAndCardID(ctx, ownerID, cardID)
	if err != nil {
		return nil, storageError("get card", err)
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, storageError("commit", err)
	}
	return card, nil
}
