package events

import (
	"footycards/domain/entities"
)

const (
	EventTypeTradeProposed  EventType = "trade_proposed"
	EventTypeTradeCompleted EventType = "trade_completed"
	EventTypeTradeRejected  EventType = "trade_rejected"
	EventTypeTradeExpired   EventType = "trade_expired"
	EventTypeTradeCanceled  EventType = "trade_canceled"
)

// TradeEventTypes lists every trade lifecycle event
var TradeEventTypes = []EventType{
	EventTypeTradeProposed,
	EventTypeTradeCompleted,
	EventTypeTradeRejected,
	EventTypeTradeExpired,
	EventTypeTradeCanceled,
}

// AllEventTypes lists every event the application raises
var AllEventTypes = append([]EventType{
	EventTypeCardDropped,
	EventTypeCardBurned,
	EventTypePlayerPoolRefreshed,
}, TradeEventTypes...)

// TradeEvent carries a snapshot of the proposal at the moment of the
// transition. Reason is set for cancellations.
type TradeEvent struct {
	EventType EventType              `json:"event_type"`
	Proposal  entities.TradeProposal `json:"proposal"`
	Reason    string                 `json:"reason,omitempty"`
}

func (e TradeEvent) Type() EventType {
	return e.EventType
}

// NewTradeEvent snapshots proposal into an event of the given type
func NewTradeEvent(eventType EventType, proposal *entities.TradeProposal, reason string) TradeEvent {
	return TradeEvent{
		EventType: eventType,
		Proposal:  *proposal,
		Reason:    reason,
	}
}
