package repository

import (
	"context"
	"errors"
	"fmt"

	"footycards/database"
	"footycards/domain/entities"
	"footycards/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const cardColumns = `
	c.id, c.card_id, c.user_id, c.player_id, c.goals, c.assists, c.league, c.collected_at,
	p.id, p.name, p.team, p.position, p.nationality, p.image_url, p.rarity`

const cardFrom = `
	FROM user_cards c
	JOIN players p ON p.id = c.player_id`

// CardRepository implements the CardRepository interface
type CardRepository struct {
	q Queryable
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{q: db.Pool}
}

// NewCardRepositoryWithTx creates a card repository bound to a transaction
func NewCardRepositoryWithTx(tx Queryable) *CardRepository {
	return &CardRepository{q: tx}
}

var _ interfaces.CardRepository = (*CardRepository)(nil)

func scanCard(row pgx.Row) (*entities.Card, error) {
	var card entities.Card
	var player entities.Player
	err := row.Scan(
		&card.ID,
		&card.CardID,
		&card.OwnerID,
		&card.PlayerID,
		&card.Goals,
		&card.Assists,
		&card.League,
		&card.CollectedAt,
		&player.ID,
		&player.Name,
		&player.Team,
		&player.Position,
		&player.Nationality,
		&player.ImageURL,
		&player.Rarity,
	)
	if err != nil {
		return nil, err
	}
	card.Player = &player
	return &card, nil
}

func (r *CardRepository) getOne(ctx context.Context, query string, args ...any) (*entities.Card, error) {
	card, err := scanCard(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return card, err
}

// GetByOwnerAndCardID retrieves a card by public ID, scoped to its owner
func (r *CardRepository) GetByOwnerAndCardID(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	query := `SELECT` + cardColumns + cardFrom + `
		WHERE c.user_id = $1 AND c.card_id = $2`

	card, err := r.getOne(ctx, query, ownerID, entities.NormalizeCardID(cardID))
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s for user %d: %w", cardID, ownerID, err)
	}
	return card, nil
}

// GetByOwnerAndCardIDForUpdate is GetByOwnerAndCardID holding a row lock on the card
func (r *CardRepository) GetByOwnerAndCardIDForUpdate(ctx context.Context, ownerID int64, cardID string) (*entities.Card, error) {
	query := `SELECT` + cardColumns + cardFrom + `
		WHERE c.user_id = $1 AND c.card_id = $2
		FOR UPDATE OF c`

	card, err := r.getOne(ctx, query, ownerID, entities.NormalizeCardID(cardID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock card %s for user %d: %w", cardID, ownerID, err)
	}
	return card, nil
}

// GetLatestByOwner retrieves the most recently collected card of a user
func (r *CardRepository) GetLatestByOwner(ctx context.Context, ownerID int64) (*entities.Card, error) {
	query := `SELECT` + cardColumns + cardFrom + `
		WHERE c.user_id = $1
		ORDER BY c.collected_at DESC, c.id DESC
		LIMIT 1`

	card, err := r.getOne(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest card for user %d: %w", ownerID, err)
	}
	return card, nil
}

// ListByOwner returns a page of a user's cards, newest first
func (r *CardRepository) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*entities.Card, error) {
	query := `SELECT` + cardColumns + cardFrom + `
		WHERE c.user_id = $1
		ORDER BY c.collected_at DESC, c.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for user %d: %w", ownerID, err)
	}
	defer rows.Close()

	cards := make([]*entities.Card, 0, limit)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return cards, nil
}

// CountByOwner returns the number of cards a user holds
func (r *CardRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM user_cards WHERE user_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards for user %d: %w", ownerID, err)
	}
	return count, nil
}

// CardIDExists reports whether a public card ID is taken by anyone
func (r *CardRepository) CardIDExists(ctx context.Context, cardID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_cards WHERE card_id = $1)`, cardID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check card ID %s: %w", cardID, err)
	}
	return exists, nil
}

// Create inserts a new card
func (r *CardRepository) Create(ctx context.Context, card *entities.Card) error {
	query := `
		INSERT INTO user_cards (card_id, user_id, player_id, goals, assists, league)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, collected_at`

	err := r.q.QueryRow(ctx, query,
		card.CardID,
		card.OwnerID,
		card.PlayerID,
		card.Goals,
		card.Assists,
		card.League,
	).Scan(&card.ID, &card.CollectedAt)
	if err != nil {
		return fmt.Errorf("failed to create card %s: %w", card.CardID, err)
	}
	return nil
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM user_cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("card %d not found", id)
	}
	return nil
}

// ReassignOwner moves a card between users, only if fromOwnerID still holds it
func (r *CardRepository) ReassignOwner(ctx context.Context, id int64, fromOwnerID, toOwnerID int64) error {
	query := `
		UPDATE user_cards
		SET user_id = $3
		WHERE id = $1 AND user_id = $2`

	result, err := r.q.Exec(ctx, query, id, fromOwnerID, toOwnerID)
	if err != nil {
		return fmt.Errorf("failed to reassign card %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("card %d is not held by user %d", id, fromOwnerID)
	}
	return nil
}
