package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"footycards/domain/entities"
	"footycards/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedCards(store *testhelpers.MemoryStore, ownerID int64, n int) []*entities.Card {
	cards := make([]*entities.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, store.AddCard(ownerID, fmt.Sprintf("CARD%08d", i), fmt.Sprintf("Player %d", i), entities.RarityCommon))
	}
	return cards
}

func TestCollectionService_ListCollection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		cards         int
		page          int
		wantPage      int
		wantCards     int
		wantTotal     int
		wantPages     int
		wantFirstName string
	}{
		{name: "empty collection", cards: 0, page: 1, wantPage: 1, wantTotal: 0, wantPages: 0},
		{name: "first page newest first", cards: 30, page: 1, wantPage: 1, wantCards: 12, wantTotal: 30, wantPages: 3, wantFirstName: "Player 29"},
		{name: "last partial page", cards: 30, page: 3, wantPage: 3, wantCards: 6, wantTotal: 30, wantPages: 3, wantFirstName: "Player 5"},
		{name: "page past the end is clamped", cards: 13, page: 9, wantPage: 2, wantCards: 1, wantTotal: 13, wantPages: 2, wantFirstName: "Player 0"},
		{name: "page below one is clamped", cards: 5, page: -3, wantPage: 1, wantCards: 5, wantTotal: 5, wantPages: 1, wantFirstName: "Player 4"},
		{name: "exactly one page", cards: 12, page: 1, wantPage: 1, wantCards: 12, wantTotal: 12, wantPages: 1, wantFirstName: "Player 11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := testhelpers.NewMemoryStore(nil)
			seedCards(store, testUserA, tt.cards)
			seedCards(store, testUserB, 3)

			service := NewCollectionService(store, DefaultCollectionPageSize)
			page, err := service.ListCollection(context.Background(), testUserA, tt.page)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantTotal, page.TotalCards)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Len(t, page.Cards, tt.wantCards)
			assert.Equal(t, 12, page.PageSize)
			if tt.wantFirstName != "" {
				assert.Equal(t, tt.wantFirstName, page.Cards[0].PlayerName())
			}
			for _, c := range page.Cards {
				assert.Equal(t, testUserA, c.OwnerID)
			}
		})
	}
}

func TestCollectionService_ListCollection_StorageFailure(t *testing.T) {
	t.Parallel()

	uow := testhelpers.NewMockUnitOfWork()
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback").Return(nil)
	uow.Cards.On("CountByOwner", mock.Anything, testUserA).Return(0, errors.New("connection reset"))

	service := NewCollectionService(&testhelpers.MockUnitOfWorkFactory{UoW: uow}, 0)
	_, err := service.ListCollection(context.Background(), testUserA, 1)

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestCollectionService_GetCard(t *testing.T) {
	t.Parallel()

	store := testhelpers.NewMemoryStore(nil)
	mine := store.AddCard(testUserA, "AAA111AAA111", "Martin Odegaard", entities.RarityRare)
	store.AddCard(testUserB, "BBB222BBB222", "Declan Rice", entities.RarityRare)

	service := NewCollectionService(store, 12)

	tests := []struct {
		name    string
		cardID  string
		wantErr error
	}{
		{name: "own card", cardID: "AAA111AAA111"},
		{name: "lowercase input", cardID: "aaa111aaa111"},
		{name: "someone else's card looks missing", cardID: "BBB222BBB222", wantErr: ErrCardNotFound},
		{name: "unknown card", cardID: "ZZZ999ZZZ999", wantErr: ErrCardNotFound},
		{name: "blank id", cardID: "  ", wantErr: ErrCardNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, err := service.GetCard(context.Background(), testUserA, tt.cardID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, card)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, mine.ID, card.ID)
			assert.Equal(t, "Martin Odegaard", card.PlayerName())
		})
	}
}
