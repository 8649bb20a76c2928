package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"footycards/domain/entities"

	"github.com/jonboulle/clockwork"
	gonanoid "github.com/matoous/go-nanoid/v2"
	log "github.com/sirupsen/logrus"
)

const (
	cardIDAlphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	cardIDTimeLength   = 8
	cardIDSuffixLength = entities.CardIDLength - cardIDTimeLength

	// DefaultCardIDAttempts bounds the uniqueness checks per drop
	DefaultCardIDAttempts = 5
)

// CardIDExistsFunc reports whether a card ID is already taken
type CardIDExistsFunc func(ctx context.Context, cardID string) (bool, error)

// CardIDGenerator issues 12-character uppercase card IDs: eight base-36
// digits of a strictly increasing millisecond counter followed by four
// crypto-random characters.
type CardIDGenerator struct {
	clock       clockwork.Clock
	lastMillis  atomic.Int64
	maxAttempts int
}

// NewCardIDGenerator creates a generator; maxAttempts below one falls back to the default
func NewCardIDGenerator(clock clockwork.Clock, maxAttempts int) *CardIDGenerator {
	if maxAttempts < 1 {
		maxAttempts = DefaultCardIDAttempts
	}
	return &CardIDGenerator{clock: clock, maxAttempts: maxAttempts}
}

// Next returns a new card ID without checking storage
func (g *CardIDGenerator) Next() (string, error) {
	suffix, err := gonanoid.Generate(cardIDAlphabet, cardIDSuffixLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate card id suffix: %w", err)
	}

	millis := g.nextMillis()
	timePart := strings.ToUpper(strconv.FormatInt(millis, 36))
	if len(timePart) > cardIDTimeLength {
		timePart = timePart[len(timePart)-cardIDTimeLength:]
	}
	timePart = strings.Repeat("0", cardIDTimeLength-len(timePart)) + timePart

	return timePart + suffix, nil
}

// nextMillis returns max(now, last+1) so two IDs issued in the same
// millisecond still differ in their time component.
func (g *CardIDGenerator) nextMillis() int64 {
	now := g.clock.Now().UnixMilli()
	for {
		last := g.lastMillis.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if g.lastMillis.CompareAndSwap(last, next) {
			return next
		}
	}
}

// NextUnique generates IDs until exists reports one as free. After
// maxAttempts collisions the last candidate is returned anyway; the unique
// index on card_id then rejects the insert rather than duplicating an ID.
func (g *CardIDGenerator) NextUnique(ctx context.Context, exists CardIDExistsFunc) (string, error) {
	var candidate string
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		id, err := g.Next()
		if err != nil {
			return "", err
		}
		candidate = id

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check card id: %w", err)
		}
		if !taken {
			return candidate, nil
		}

		log.WithFields(log.Fields{
			"cardId":  candidate,
			"attempt": attempt,
		}).Warn("Card ID collision, regenerating")
	}

	log.WithFields(log.Fields{
		"cardId":   candidate,
		"attempts": g.maxAttempts,
	}).Error("Card ID still colliding after max attempts, using last candidate")
	return candidate, nil
}
