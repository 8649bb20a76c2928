package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPairKey_IsUnordered(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NewPairKey(100, 200), NewPairKey(200, 100))
	assert.Equal(t, PairKey{Low: 100, High: 200}, NewPairKey(200, 100))
	assert.NotEqual(t, NewPairKey(100, 200), NewPairKey(100, 300))
}

func TestTradeProposal_IsExpiredAt(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	proposal := &TradeProposal{CreatedAt: created, ExpiresAt: created.Add(5 * time.Minute)}

	assert.False(t, proposal.IsExpiredAt(created))
	assert.False(t, proposal.IsExpiredAt(created.Add(5*time.Minute-time.Millisecond)))
	assert.True(t, proposal.IsExpiredAt(created.Add(5*time.Minute)))
	assert.True(t, proposal.IsExpiredAt(created.Add(time.Hour)))
}

func TestTradeProposal_Involves(t *testing.T) {
	t.Parallel()

	proposal := &TradeProposal{InitiatorID: 1, TargetID: 2}
	assert.True(t, proposal.Involves(1))
	assert.True(t, proposal.Involves(2))
	assert.False(t, proposal.Involves(3))
	assert.Equal(t, NewPairKey(2, 1), proposal.Pair())
}

func TestTradeState_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, TradeStatePending.IsTerminal())
	for _, s := range []TradeState{TradeStateCompleted, TradeStateRejected, TradeStateExpired, TradeStateCanceled} {
		assert.True(t, s.IsTerminal(), s)
	}
}
