package entities

import (
	"strings"
	"time"
)

// CardIDLength is the fixed length of a public card identifier
const CardIDLength = 12

// Card is a user-owned instance of a player
type Card struct {
	ID          int64     `db:"id"`
	CardID      string    `db:"card_id"`
	OwnerID     int64     `db:"user_id"`
	PlayerID    int64     `db:"player_id"`
	Goals       int       `db:"goals"`
	Assists     int       `db:"assists"`
	League      string    `db:"league"`
	CollectedAt time.Time `db:"collected_at"`

	// Player is populated by reads that join the catalog
	Player *Player `db:"-"`
}

// NormalizeCardID canonicalizes user input so lookups are case-insensitive
func NormalizeCardID(cardID string) string {
	return strings.ToUpper(strings.TrimSpace(cardID))
}

// PlayerName returns the joined player's name or a placeholder
func (c *Card) PlayerName() string {
	if c.Player == nil {
		return "Unknown Player"
	}
	return c.Player.Name
}

// Rarity returns the joined player's tier, Common when not joined
func (c *Card) Rarity() RarityTier {
	if c.Player == nil || !c.Player.Rarity.IsValid() {
		return RarityCommon
	}
	return c.Player.Rarity
}

// CardPage is one page of a user's collection
type CardPage struct {
	OwnerID    int64
	Cards      []*Card
	Page       int
	PageSize   int
	TotalCards int
	TotalPages int
}

// HasPrevious reports whether a page exists before this one
func (p *CardPage) HasPrevious() bool {
	return p.Page > 1
}

// HasNext reports whether a page exists after this one
func (p *CardPage) HasNext() bool {
	return p.Page < p.TotalPages
}

// BurnResult describes a card that was permanently deleted
type BurnResult struct {
	Card *Card
}
