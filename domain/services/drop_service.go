package services

import (
	"context"
	"errors"
	"fmt"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

type dropDegradationKind string

const (
	degradedPool dropDegradationKind = "degraded_pool"
	saveFailed   dropDegradationKind = "save_failed"
)

// dropDegradation is what a drop still delivers when one dependency fails
type dropDegradation struct {
	logMessage string
	apply      func(result *entities.DropResult)
}

// dropDegradations maps each tolerated failure to its degraded outcome.
// Failures not listed here fail the drop.
var dropDegradations = map[dropDegradationKind]dropDegradation{
	degradedPool: {
		logMessage: "Drop served from stale or fallback player pool",
		apply: func(result *entities.DropResult) {
			result.Degraded = true
		},
	},
	saveFailed: {
		logMessage: "Drop could not be saved, showing card as unsaved",
		apply: func(result *entities.DropResult) {
			result.Saved = false
			result.CardID = ""
		},
	},
}

// DropService draws random player cards for users
type DropService struct {
	uowFactory interfaces.UnitOfWorkFactory
	pool       interfaces.PlayerPoolSource
	cooldowns  *CooldownTracker
	ids        *CardIDGenerator
	weights    RarityWeights
	rng        Randomizer
	clock      clockwork.Clock
}

// NewDropService creates a new drop service
func NewDropService(
	uowFactory interfaces.UnitOfWorkFactory,
	pool interfaces.PlayerPoolSource,
	cooldowns *CooldownTracker,
	ids *CardIDGenerator,
	weights RarityWeights,
	rng Randomizer,
	clock clockwork.Clock,
) *DropService {
	return &DropService{
		uowFactory: uowFactory,
		pool:       pool,
		cooldowns:  cooldowns,
		ids:        ids,
		weights:    weights,
		rng:        rng,
		clock:      clock,
	}
}

// Drop draws a card for userID. The cooldown is charged before any I/O,
// so a drop that later fails still counts against the user.
func (s *DropService) Drop(ctx context.Context, userID int64) (*entities.DropResult, error) {
	if err := s.cooldowns.TryCharge(userID); err != nil {
		return nil, err
	}

	pool, degraded, err := s.pool.Get(ctx)
	if err != nil {
		log.WithFields(log.Fields{
			"userId": userID,
			"error":  err,
		}).Error("Player pool unavailable for drop")
		if errors.Is(err, ErrPoolUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrPoolUnavailable, err)
	}

	drawn := s.weights.Draw(s.rng)
	tier, candidates := selectTier(pool, drawn)
	if len(candidates) == 0 {
		return nil, ErrNoPlayersAvailable
	}
	if tier != drawn {
		log.WithFields(log.Fields{
			"drawn":  drawn,
			"served": tier,
		}).Debug("Drawn rarity empty, fell back to next tier")
	}

	result := &entities.DropResult{Entry: *candidates[s.rng.IntN(len(candidates))]}
	if degraded {
		s.degrade(degradedPool, result, userID, nil)
	}

	cardID, err := s.persist(ctx, userID, &result.Entry)
	if err != nil {
		s.degrade(saveFailed, result, userID, err)
		return result, nil
	}

	result.CardID = cardID
	result.Saved = true

	log.WithFields(log.Fields{
		"userId": userID,
		"cardId": cardID,
		"player": result.Entry.Player.Name,
		"rarity": result.Entry.Rarity,
	}).Info("Card dropped")
	return result, nil
}

func (s *DropService) degrade(kind dropDegradationKind, result *entities.DropResult, userID int64, cause error) {
	d := dropDegradations[kind]
	d.apply(result)

	fields := log.Fields{"userId": userID, "degradation": kind}
	if cause != nil {
		fields["error"] = cause
	}
	log.WithFields(fields).Warn(d.logMessage)
}

// persist catalogs the player and stores the card in one transaction.
// entry.Player.ID is filled in on success.
func (s *DropService) persist(ctx context.Context, userID int64, entry *entities.PlayerPoolEntry) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player := entry.Player
	if err := uow.PlayerRepository().UpsertByName(ctx, &player); err != nil {
		return "", fmt.Errorf("failed to catalog player: %w", err)
	}

	cardRepo := uow.CardRepository()
	cardID, err := s.ids.NextUnique(ctx, cardRepo.CardIDExists)
	if err != nil {
		return "", err
	}

	card := &entities.Card{
		CardID:   cardID,
		OwnerID:  userID,
		PlayerID: player.ID,
		Goals:    entry.Goals,
		Assists:  entry.Assists,
		League:   entry.League,
	}
	if err := cardRepo.Create(ctx, card); err != nil {
		return "", fmt.Errorf("failed to create card: %w", err)
	}

	uow.EventBus().Publish(events.CardDroppedEvent{
		CardID:     card.CardID,
		OwnerID:    userID,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Rarity:     entry.Rarity,
		DroppedAt:  s.clock.Now(),
	})

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	entry.Player.ID = player.ID
	return card.CardID, nil
}
