package entities

import (
	"time"
)

// TradeState is the lifecycle state of a trade proposal
type TradeState string

const (
	TradeStatePending   TradeState = "pending"
	TradeStateCompleted TradeState = "completed"
	TradeStateRejected  TradeState = "rejected"
	TradeStateExpired   TradeState = "expired"
	TradeStateCanceled  TradeState = "canceled"
)

// IsTerminal reports whether no further transitions are possible
func (s TradeState) IsTerminal() bool {
	return s != TradeStatePending
}

// TradeDecision is the target's answer to a proposal
type TradeDecision string

const (
	TradeDecisionAccept TradeDecision = "accept"
	TradeDecisionReject TradeDecision = "reject"
)

// PairKey identifies an unordered pair of users
type PairKey struct {
	Low  int64
	High int64
}

// NewPairKey returns the same key for (a, b) and (b, a)
func NewPairKey(a, b int64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// TradeProposal is a pending or resolved two-card exchange.
// The card fields are snapshots taken at proposal time.
type TradeProposal struct {
	TradeID       string
	InitiatorID   int64
	TargetID      int64
	OfferedCard   Card
	RequestedCard Card
	CreatedAt     time.Time
	ExpiresAt     time.Time
	State         TradeState

	// Discord message carrying the proposal, set by the bot after posting
	ChannelID string
	MessageID string
}

// Pair returns the registry key of the proposal
func (p *TradeProposal) Pair() PairKey {
	return NewPairKey(p.InitiatorID, p.TargetID)
}

// IsExpiredAt reports whether the proposal deadline has passed
func (p *TradeProposal) IsExpiredAt(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Involves reports whether userID is either party of the trade
func (p *TradeProposal) Involves(userID int64) bool {
	return p.InitiatorID == userID || p.TargetID == userID
}
