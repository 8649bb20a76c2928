package services

import (
	"sync"
	"time"

	"footycards/domain/entities"

	"github.com/jonboulle/clockwork"
)

// tradeRole is the party allowed to perform an action on a proposal
type tradeRole int

const (
	roleTarget tradeRole = iota
	roleInitiator
)

type tradeEntry struct {
	proposal *entities.TradeProposal
	timer    clockwork.Timer
	// busy is set while a response is being executed; a busy entry is
	// never expired underneath the running transaction.
	busy bool
}

// TradeRegistry holds the active proposals, at most one per unordered
// user pair. Expiry is a deadline on each proposal enforced both by a timer
// and by every access that finds the deadline passed.
type TradeRegistry struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	ttl      time.Duration
	byPair   map[entities.PairKey]*tradeEntry
	byID     map[string]*tradeEntry
	onExpire func(entities.TradeProposal)
}

// NewTradeRegistry creates a registry. onExpire is called outside the lock
// with a snapshot of every proposal that expires.
func NewTradeRegistry(clock clockwork.Clock, ttl time.Duration, onExpire func(entities.TradeProposal)) *TradeRegistry {
	if onExpire == nil {
		onExpire = func(entities.TradeProposal) {}
	}
	return &TradeRegistry{
		clock:    clock,
		ttl:      ttl,
		byPair:   make(map[entities.PairKey]*tradeEntry),
		byID:     make(map[string]*tradeEntry),
		onExpire: onExpire,
	}
}

// Register inserts p as Pending if its pair has no active proposal.
// The check and the insert happen under one lock.
func (r *TradeRegistry) Register(p *entities.TradeProposal) error {
	var expired []entities.TradeProposal
	defer func() { r.notify(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if existing, ok := r.byPair[p.Pair()]; ok {
		if !r.expireLocked(existing, now, &expired) {
			return ErrTradeAlreadyActive
		}
	}

	p.State = entities.TradeStatePending
	p.CreatedAt = now
	p.ExpiresAt = now.Add(r.ttl)

	entry := &tradeEntry{proposal: p}
	tradeID := p.TradeID
	entry.timer = r.clock.AfterFunc(r.ttl, func() { r.expireByTimer(tradeID) })

	r.byPair[p.Pair()] = entry
	r.byID[tradeID] = entry
	return nil
}

// Get returns a snapshot of an active proposal
func (r *TradeRegistry) Get(tradeID string) (entities.TradeProposal, bool) {
	var expired []entities.TradeProposal
	defer func() { r.notify(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[tradeID]
	if !ok || r.expireLocked(entry, r.clock.Now(), &expired) {
		return entities.TradeProposal{}, false
	}
	return *entry.proposal, true
}

// ActiveForPair returns a snapshot of the proposal between a and b, if any
func (r *TradeRegistry) ActiveForPair(a, b int64) (entities.TradeProposal, bool) {
	var expired []entities.TradeProposal
	defer func() { r.notify(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byPair[entities.NewPairKey(a, b)]
	if !ok || r.expireLocked(entry, r.clock.Now(), &expired) {
		return entities.TradeProposal{}, false
	}
	return *entry.proposal, true
}

// claim marks a proposal busy on behalf of actorID acting in role.
// Unauthorized actors leave the proposal untouched.
func (r *TradeRegistry) claim(tradeID string, actorID int64, role tradeRole) (entities.TradeProposal, error) {
	var expired []entities.TradeProposal
	defer func() { r.notify(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[tradeID]
	if !ok || r.expireLocked(entry, r.clock.Now(), &expired) {
		return entities.TradeProposal{}, ErrTradeNotFound
	}

	allowed := entry.proposal.TargetID
	if role == roleInitiator {
		allowed = entry.proposal.InitiatorID
	}
	if actorID != allowed {
		return entities.TradeProposal{}, ErrNotAuthorizedForTrade
	}
	if entry.busy {
		return entities.TradeProposal{}, ErrTradeInProgress
	}

	entry.busy = true
	return *entry.proposal, nil
}

// finish moves a proposal to a terminal state and removes it
func (r *TradeRegistry) finish(tradeID string, state entities.TradeState) (entities.TradeProposal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[tradeID]
	if !ok {
		return entities.TradeProposal{}, false
	}
	r.removeLocked(entry, state)
	return *entry.proposal, true
}

// AttachMessage records where the proposal is displayed
func (r *TradeRegistry) AttachMessage(tradeID, channelID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.byID[tradeID]; ok {
		entry.proposal.ChannelID = channelID
		entry.proposal.MessageID = messageID
	}
}

// SweepExpired expires every overdue proposal and returns how many
func (r *TradeRegistry) SweepExpired() int {
	var expired []entities.TradeProposal
	defer func() { r.notify(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for _, entry := range r.byID {
		r.expireLocked(entry, now, &expired)
	}
	return len(expired)
}

// ActiveCount returns the number of pending proposals
func (r *TradeRegistry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Close stops every expiry timer; pending proposals are dropped
func (r *TradeRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.byID {
		if entry.timer != nil {
			entry.timer.Stop()
		}
	}
	r.byID = make(map[string]*tradeEntry)
	r.byPair = make(map[entities.PairKey]*tradeEntry)
}

func (r *TradeRegistry) expireByTimer(tradeID string) {
	var expired []entities.TradeProposal
	defer func() { r.notify(expired) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.byID[tradeID]; ok {
		r.expireLocked(entry, r.clock.Now(), &expired)
	}
}

// expireLocked removes entry when its deadline has passed and it is not
// busy, appending the snapshot to expired. It reports whether it expired.
func (r *TradeRegistry) expireLocked(entry *tradeEntry, now time.Time, expired *[]entities.TradeProposal) bool {
	if entry.busy || !entry.proposal.IsExpiredAt(now) {
		return false
	}
	r.removeLocked(entry, entities.TradeStateExpired)
	*expired = append(*expired, *entry.proposal)
	return true
}

func (r *TradeRegistry) removeLocked(entry *tradeEntry, state entities.TradeState) {
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.proposal.State = state
	entry.busy = false
	delete(r.byID, entry.proposal.TradeID)
	if current, ok := r.byPair[entry.proposal.Pair()]; ok && current == entry {
		delete(r.byPair, entry.proposal.Pair())
	}
}

func (r *TradeRegistry) notify(expired []entities.TradeProposal) {
	for _, p := range expired {
		r.onExpire(p)
	}
}
