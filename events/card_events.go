package events

import (
	"time"

	"footycards/domain/entities"
)

const (
	EventTypeCardDropped         EventType = "card_dropped"
	EventTypeCardBurned          EventType = "card_burned"
	EventTypePlayerPoolRefreshed EventType = "player_pool_refreshed"
)

// CardDroppedEvent is raised when a drawn card is persisted
type CardDroppedEvent struct {
	CardID     string              `json:"card_id"`
	OwnerID    int64               `json:"owner_id"`
	PlayerID   int64               `json:"player_id"`
	PlayerName string              `json:"player_name"`
	Rarity     entities.RarityTier `json:"rarity"`
	DroppedAt  time.Time           `json:"dropped_at"`
}

func (e CardDroppedEvent) Type() EventType {
	return EventTypeCardDropped
}

// CardBurnedEvent is raised when a card is permanently deleted
type CardBurnedEvent struct {
	CardID     string              `json:"card_id"`
	OwnerID    int64               `json:"owner_id"`
	PlayerName string              `json:"player_name"`
	Rarity     entities.RarityTier `json:"rarity"`
	BurnedAt   time.Time           `json:"burned_at"`
}

func (e CardBurnedEvent) Type() EventType {
	return EventTypeCardBurned
}

// PlayerPoolRefreshedEvent is raised after every refresh attempt that
// changed what the pool serves
type PlayerPoolRefreshedEvent struct {
	Source      string        `json:"source"`
	Size        int           `json:"size"`
	Stale       bool          `json:"stale"`
	Duration    time.Duration `json:"duration"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

func (e PlayerPoolRefreshedEvent) Type() EventType {
	return EventTypePlayerPoolRefreshed
}
