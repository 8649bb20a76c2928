package cardview

import (
	"time"

	"footycards/domain/entities"
)

// Card is everything the bot shows about one card, whether freshly dropped
// or read back from a collection.
type Card struct {
	CardID      string
	Name        string
	Team        string
	Position    string
	Nationality string
	League      string
	ImageURL    string
	Rarity      entities.RarityTier
	Goals       int
	Assists     int
	Age         int // zero when unknown
	CollectedAt time.Time
}

// FromDrop builds the view of a drop result
func FromDrop(result *entities.DropResult, collectedAt time.Time) Card {
	entry := result.Entry
	return Card{
		CardID:      result.CardID,
		Name:        entry.Player.Name,
		Team:        entry.Player.Team,
		Position:    entry.Player.Position,
		Nationality: entry.Player.Nationality,
		League:      entry.League,
		ImageURL:    entry.Player.ImageURL,
		Rarity:      entry.Rarity,
		Goals:       entry.Goals,
		Assists:     entry.Assists,
		Age:         entry.Age,
		CollectedAt: collectedAt,
	}
}

// FromCard builds the view of a stored card
func FromCard(card *entities.Card) Card {
	view := Card{
		CardID:      card.CardID,
		Name:        card.PlayerName(),
		League:      card.League,
		Rarity:      card.Rarity(),
		Goals:       card.Goals,
		Assists:     card.Assists,
		CollectedAt: card.CollectedAt,
	}
	if card.Player != nil {
		view.Team = card.Player.Team
		view.Position = card.Player.Position
		view.Nationality = card.Player.Nationality
		view.ImageURL = card.Player.ImageURL
	}
	return view
}
