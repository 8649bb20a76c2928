package testutil

import (
	"footycards/domain/entities"
)

// CreateTestPlayer creates a catalog entry with default values
func CreateTestPlayer(name string, rarity entities.RarityTier) *entities.Player {
	return &entities.Player{
		Name:        name,
		Team:        "Arsenal",
		Position:    "Attacker",
		Nationality: "England",
		ImageURL:    "https://media.api-sports.io/football/players/1460.png",
		Rarity:      rarity,
	}
}

// CreateTestCard creates an unsaved card for owner
func CreateTestCard(ownerID int64, cardID string, playerID int64) *entities.Card {
	return &entities.Card{
		CardID:   cardID,
		OwnerID:  ownerID,
		PlayerID: playerID,
		Goals:    16,
		Assists:  9,
		League:   "Premier League",
	}
}
