package repository

import (
	"context"
	"errors"

	"github.com/clawbot69/clawnopoly/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new game row
func (r *GameRepository) Create(ctx context.Context, g *domain.GameRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO games (id, status, current_player, turn_count, board_state, jackpot)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		g.ID,
		g.Status,
		g.CurrentPlayer,
		g.TurnCount,
		boardJSON(g.BoardState),
		g.Jackpot,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
}

// Update writes the current state of a game, inserting the row if an
// earlier create was lost.
func (r *GameRepository) Update(ctx context.Context, g *domain.GameRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO games (id, status, current_player, turn_count, board_state, jackpot)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			current_player = EXCLUDED.current_player,
			turn_count = EXCLUDED.turn_count,
			board_state = EXCLUDED.board_state,
			jackpot = EXCLUDED.jackpot,
			updated_at = NOW()
		 RETURNING created_at, updated_at`,
		g.ID,
		g.Status,
		g.CurrentPlayer,
		g.TurnCount,
		boardJSON(g.BoardState),
		g.Jackpot,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.GameRecord, error) {
	var g domain.GameRecord
	var board []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, status, current_player, turn_count, board_state, jackpot, created_at, updated_at
		 FROM games
		 WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Status, &g.CurrentPlayer, &g.TurnCount, &board, &g.Jackpot, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	g.BoardState = board
	return &g, nil
}

// Delete removes a game; players, properties and log entries go with it.
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func boardJSON(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}
