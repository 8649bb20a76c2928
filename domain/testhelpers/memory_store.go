package testhelpers

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"
)

// ErrInjected is returned by MemoryStore operations set up to fail
var ErrInjected = errors.New("injected storage failure")

// MemoryStore is an in-memory card store whose units of work behave like
// serialized transactions: Begin takes a private copy under an exclusive
// lock, Commit publishes it and Rollback discards it. Readers outside a
// unit of work block until the running transaction finishes.
type MemoryStore struct {
	mu        sync.Mutex
	cards     map[int64]entities.Card
	players   map[int64]entities.Player
	nextID    int64
	publisher interfaces.EventPublisher

	failBegin         bool
	failCommit        bool
	failReassignOnNth int
	failReads         bool
}

// NewMemoryStore creates an empty store. Committed events go to publisher, which may be nil.
func NewMemoryStore(publisher interfaces.EventPublisher) *MemoryStore {
	return &MemoryStore{
		cards:     make(map[int64]entities.Card),
		players:   make(map[int64]entities.Player),
		publisher: publisher,
	}
}

// FailBegin makes every following Begin fail
func (s *MemoryStore) FailBegin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failBegin = true
}

// FailCommit makes every following Commit fail
func (s *MemoryStore) FailCommit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = true
}

// FailReassignOnNth makes the nth ReassignOwner call inside each unit of work fail
func (s *MemoryStore) FailReassignOnNth(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReassignOnNth = n
}

// FailReads makes card lookups fail
func (s *MemoryStore) FailReads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = true
}

// AddCard seeds a committed card and returns it
func (s *MemoryStore) AddCard(ownerID int64, cardID, playerName string, rarity entities.RarityTier) *entities.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	player := entities.Player{ID: s.nextID, Name: playerName, Team: "Test FC", Rarity: rarity}
	s.players[player.ID] = player

	s.nextID++
	card := entities.Card{
		ID:          s.nextID,
		CardID:      entities.NormalizeCardID(cardID),
		OwnerID:     ownerID,
		PlayerID:    player.ID,
		League:      "Premier League",
		CollectedAt: time.Now().Add(time.Duration(s.nextID) * time.Second),
	}
	s.cards[card.ID] = card

	out := card
	out.Player = &player
	return &out
}

// OwnerOf returns the committed owner of a card ID
func (s *MemoryStore) OwnerOf(cardID string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.CardID == cardID {
			return c.OwnerID, true
		}
	}
	return 0, false
}

// CardCount returns the number of committed cards
func (s *MemoryStore) CardCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// Create implements UnitOfWorkFactory
func (s *MemoryStore) Create() interfaces.UnitOfWork {
	return &memoryUnitOfWork{store: s}
}

type memoryUnitOfWork struct {
	store    *MemoryStore
	cards    map[int64]entities.Card
	players  map[int64]entities.Player
	nextID   int64
	pending  []events.Event
	reassign int
	active   bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	if u.store.failBegin {
		u.store.mu.Unlock()
		return ErrInjected
	}

	u.cards = make(map[int64]entities.Card, len(u.store.cards))
	for k, v := range u.store.cards {
		u.cards[k] = v
	}
	u.players = make(map[int64]entities.Player, len(u.store.players))
	for k, v := range u.store.players {
		u.players[k] = v
	}
	u.nextID = u.store.nextID
	u.active = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.active {
		return errors.New("unit of work not started")
	}
	u.active = false

	if u.store.failCommit {
		u.pending = nil
		u.store.mu.Unlock()
		return ErrInjected
	}

	u.store.cards = u.cards
	u.store.players = u.players
	u.store.nextID = u.nextID
	publisher := u.store.publisher
	pending := u.pending
	u.pending = nil
	u.store.mu.Unlock()

	if publisher != nil {
		for _, e := range pending {
			publisher.Publish(e)
		}
	}
	return nil
}

func (u *memoryUnitOfWork) Rollback() error {
	if !u.active {
		return nil
	}
	u.active = false
	u.pending = nil
	u.store.mu.Unlock()
	return nil
}

func (u *memoryUnitOfWork) CardRepository() interfaces.CardRepository {
	u.mustBeActive()
	return &memoryCardRepository{uow: u}
}

func (u *memoryUnitOfWork) PlayerRepository() interfaces.PlayerRepository {
	u.mustBeActive()
	return &memoryPlayerRepository{uow: u}
}

func (u *memoryUnitOfWork) EventBus() interfaces.EventPublisher {
	u.mustBeActive()
	return u
}

func (u *memoryUnitOfWork) Publish(event events.Event) {
	u.pending = append(u.pending, event)
}

func (u *memoryUnitOfWork) mustBeActive() {
	if !u.active {
		panic("unit of work not started - call Begin() first")
	}
}

func (u *memoryUnitOfWork) withPlayer(c entities.Card) *entities.Card {
	out := c
	if p, ok := u.players[c.PlayerID]; ok {
		out.Player = &p
	}
	return &out
}

type memoryCardRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryCardRepository) find(ownerID int64, cardID string) (*entities.Card, error) {
	if r.uow.store.failReads {
		return nil, ErrInjected
	}
	cardID = entities.NormalizeCardID(cardID)
	for _, c := range r.uow.cards {
		if c.CardID == cardID && c.OwnerID == ownerID {
			return r.uow.withPlayer(c), nil
		}
	}
	return nil, nil
}

func (r *memoryCardRepository) GetByOwnerAndCardID(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	return r.find(ownerID, cardID)
}

func (r *memoryCardRepository) GetByOwnerAndCardIDForUpdate(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	return r.find(ownerID, cardID)
}

func (r *memoryCardRepository) owned(ownerID int64) []entities.Card {
	var out []entities.Card
	for _, c := range r.uow.cards {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CollectedAt.Equal(out[j].CollectedAt) {
			return out[i].CollectedAt.After(out[j].CollectedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *memoryCardRepository) GetLatestByOwner(ctx context.Context, ownerID int64) (*entities.Card, error) {
	if r.uow.store.failReads {
		return nil, ErrInjected
	}
	owned := r.owned(ownerID)
	if len(owned) == 0 {
		return nil, nil
	}
	return r.uow.withPlayer(owned[0]), nil
}

func (r *memoryCardRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entities.Card, error) {
	if r.uow.store.failReads {
		return nil, ErrInjected
	}
	owned := r.owned(ownerID)
	out := make([]*entities.Card, 0, limit)
	for i := offset; i < len(owned) && len(out) < limit; i++ {
		out = append(out, r.uow.withPlayer(owned[i]))
	}
	return out, nil
}

func (r *memoryCardRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	if r.uow.store.failReads {
		return 0, ErrInjected
	}
	return len(r.owned(ownerID)), nil
}

func (r *memoryCardRepository) CardIDExists(ctx context.Context, cardID string) (bool, error) {
	for _, c := range r.uow.cards {
		if c.CardID == cardID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCardRepository) Create(ctx context.Context, card *entities.Card) error {
	for _, c := range r.uow.cards {
		if c.CardID == card.CardID {
			return errors.New("duplicate card_id")
		}
	}
	r.uow.nextID++
	card.ID = r.uow.nextID
	card.CollectedAt = time.Now().Add(time.Duration(card.ID) * time.Second)
	stored := *card
	stored.Player = nil
	r.uow.cards[card.ID] = stored
	return nil
}

func (r *memoryCardRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.uow.cards[id]; !ok {
		return errors.New("card not found")
	}
	delete(r.uow.cards, id)
	return nil
}

func (r *memoryCardRepository) ReassignOwner(ctx context.Context, id int64, fromOwnerID, toOwnerID int64) error {
	r.uow.reassign++
	if r.uow.store.failReassignOnNth == r.uow.reassign {
		return ErrInjected
	}
	c, ok := r.uow.cards[id]
	if !ok || c.OwnerID != fromOwnerID {
		return errors.New("card not held by expected owner")
	}
	c.OwnerID = toOwnerID
	r.uow.cards[id] = c
	return nil
}

type memoryPlayerRepository struct {
	uow *memoryUnitOfWork
}

func (r *memoryPlayerRepository) UpsertByName(ctx context.Context, player *entities.Player) error {
	for id, p := range r.uow.players {
		if p.Name == player.Name {
			player.ID = id
			r.uow.players[id] = *player
			return nil
		}
	}
	r.uow.nextID++
	player.ID = r.uow.nextID
	r.uow.players[player.ID] = *player
	return nil
}

func (r *memoryPlayerRepository) GetByID(ctx context.Context, id int64) (*entities.Player, error) {
	p, ok := r.uow.players[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
