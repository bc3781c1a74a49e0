package repository

import (
	"context"

	"github.com/clawbot69/clawnopoly/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepository struct {
	db *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// ReplaceForGame swaps the whole ownership table of a game in one
// transaction. Bankruptcies and forced trades touch several rows at once.
func (r *PropertyRepository) ReplaceForGame(ctx context.Context, gameID string, props []domain.PropertyRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM properties WHERE game_id = $1`, gameID); err != nil {
		return err
	}
	for i := range props {
		props[i].GameID = gameID
		if err := upsertProperty(ctx, tx, &props[i]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PropertyRepository) GetByGame(ctx context.Context, gameID string) ([]*domain.PropertyRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT game_id, tile_id, owner_id, houses, hotel, mortgaged
		 FROM properties
		 WHERE game_id = $1
		 ORDER BY tile_id`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []*domain.PropertyRecord
	for rows.Next() {
		var p domain.PropertyRecord
		if err := rows.Scan(&p.GameID, &p.TileID, &p.OwnerID, &p.Houses, &p.Hotel, &p.Mortgaged); err != nil {
			return nil, err
		}
		props = append(props, &p)
	}
	return props, rows.Err()
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertProperty(ctx context.Context, db execer, p *domain.PropertyRecord) error {
	_, err := db.Exec(ctx,
		`INSERT INTO properties (game_id, tile_id, owner_id, houses, hotel, mortgaged)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (game_id, tile_id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			houses = EXCLUDED.houses,
			hotel = EXCLUDED.hotel,
			mortgaged = EXCLUDED.mortgaged`,
		p.GameID, p.TileID, p.OwnerID, p.Houses, p.Hotel, p.Mortgaged,
	)
	return err
}
