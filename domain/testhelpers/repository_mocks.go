package testhelpers

import (
	"context"
	"sync"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) GetByOwnerAndCardID(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	args := m.Called(ctx, ownerID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Card), args.Error(1)
}

func (m *MockCardRepository) GetByOwnerAndCardIDForUpdate(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	args := m.Called(ctx, ownerID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Card), args.Error(1)
}

func (m *MockCardRepository) GetLatestByOwner(ctx context.Context, ownerID int64) (*entities.Card, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Card), args.Error(1)
}

func (m *MockCardRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entities.Card, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Card), args.Error(1)
}

func (m *MockCardRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) CardIDExists(ctx context.Context, cardID string) (bool, error) {
	args := m.Called(ctx, cardID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) Create(ctx context.Context, card *entities.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) ReassignOwner(ctx context.Context, id int64, fromOwnerID, toOwnerID int64) error {
	args := m.Called(ctx, id, fromOwnerID, toOwnerID)
	return args.Error(0)
}

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) UpsertByName(ctx context.Context, player *entities.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id int64) (*entities.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Player), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockPlayerStatsProvider is a mock implementation of PlayerStatsProvider
type MockPlayerStatsProvider struct {
	mock.Mock
}

func (m *MockPlayerStatsProvider) FetchTopPlayers(ctx context.Context) ([]entities.PlayerStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PlayerStat), args.Error(1)
}

func (m *MockPlayerStatsProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockPlayerPoolSource is a mock implementation of PlayerPoolSource
type MockPlayerPoolSource struct {
	mock.Mock
}

func (m *MockPlayerPoolSource) Get(ctx context.Context) ([]*entities.PlayerPoolEntry, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*entities.PlayerPoolEntry), args.Bool(1), args.Error(2)
}

// MockUnitOfWork is a mock implementation of UnitOfWork that hands out
// the mock repositories it was built with
type MockUnitOfWork struct {
	mock.Mock
	Cards     *MockCardRepository
	Players   *MockPlayerRepository
	Publisher *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Cards:     new(MockCardRepository),
		Players:   new(MockPlayerRepository),
		Publisher: new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) CardRepository() interfaces.CardRepository {
	return m.Cards
}

func (m *MockUnitOfWork) PlayerRepository() interfaces.PlayerRepository {
	return m.Players
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.Publisher
}

// MockUnitOfWorkFactory always returns the same unit of work
type MockUnitOfWorkFactory struct {
	UoW *MockUnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.UoW
}

// RecordingEventPublisher keeps every published event; safe for use from timer goroutines
type RecordingEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *RecordingEventPublisher) Publish(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything published so far
func (r *RecordingEventPublisher) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the published events of one type
func (r *RecordingEventPublisher) OfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range r.Events() {
		if e.Type() == eventType {
			out = append(out, e)
		}
	}
	return out
}
