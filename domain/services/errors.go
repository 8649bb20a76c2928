package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	// drop
	ErrPoolUnavailable    = errors.New("player pool is unavailable")
	ErrNoPlayersAvailable = errors.New("no players available for any rarity")

	// collection and burn
	ErrCardNotFound       = errors.New("card not found in your collection")
	ErrStorageUnavailable = errors.New("card storage is unavailable")

	// trade proposal, in precondition order
	ErrSelfTrade               = errors.New("you cannot trade with yourself")
	ErrBotTrade                = errors.New("you cannot trade with bots")
	ErrCardNotOwnedByInitiator = errors.New("you do not own the offered card")
	ErrCardNotOwnedByTarget    = errors.New("the other user does not own the requested card")
	ErrTradeAlreadyActive      = errors.New("a trade between these users is already pending")

	// trade response
	ErrTradeNotFound         = errors.New("trade not found or no longer active")
	ErrNotAuthorizedForTrade = errors.New("you are not allowed to act on this trade")
	ErrTradeInProgress       = errors.New("trade is already being processed")
	ErrCardNoLongerAvailable = errors.New("one of the cards is no longer available")
	ErrTradeExecution        = errors.New("trade could not be completed")
)

// CooldownError is returned when a user drops again inside the cooldown window
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("drop on cooldown for another %s", e.Remaining.Round(time.Second))
}

// storageError wraps a repository failure so callers can match
// ErrStorageUnavailable while logs keep the cause.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
