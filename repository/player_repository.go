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

// PlayerRepository implements the PlayerRepository interface
type PlayerRepository struct {
	q Queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// NewPlayerRepositoryWithTx creates a player repository bound to a transaction
func NewPlayerRepositoryWithTx(tx Queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

var _ interfaces.PlayerRepository = (*PlayerRepository)(nil)

// UpsertByName inserts the player or refreshes its catalog fields.
// Existing cards keep pointing at the same row.
func (r *PlayerRepository) UpsertByName(ctx context.Context, player *entities.Player) error {
	query := `
		INSERT INTO players (name, team, position, nationality, image_url, rarity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			nationality = EXCLUDED.nationality,
			image_url = EXCLUDED.image_url,
			rarity = EXCLUDED.rarity,
			updated_at = NOW()
		RETURNING id`

	err := r.q.QueryRow(ctx, query,
		player.Name,
		player.Team,
		player.Position,
		player.Nationality,
		player.ImageURL,
		player.Rarity,
	).Scan(&player.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert player %q: %w", player.Name, err)
	}
	return nil
}

// GetByID retrieves a catalog entry
func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*entities.Player, error) {
	query := `
		SELECT id, name, team, position, nationality, image_url, rarity
		FROM players
		WHERE id = $1`

	var player entities.Player
	err := r.q.QueryRow(ctx, query, id).Scan(
		&player.ID,
		&player.Name,
		&player.Team,
		&player.Position,
		&player.Nationality,
		&player.ImageURL,
		&player.Rarity,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return &player, nil
}
