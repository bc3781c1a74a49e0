package repository

import (
	"context"
	"encoding/json"

	"github.com/clawbot69/clawnopoly/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert inserts or overwrites a player row
func (r *PlayerRepository) Upsert(ctx context.Context, p *domain.PlayerRecord) error {
	propsJSON, err := json.Marshal(p.Properties)
	if err != nil || p.Properties == nil {
		propsJSON = []byte("[]")
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO players
			(id, game_id, name, color, position, money, in_jail, jail_turns, jail_free_cards, properties, turn_order, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			position = EXCLUDED.position,
			money = EXCLUDED.money,
			in_jail = EXCLUDED.in_jail,
			jail_turns = EXCLUDED.jail_turns,
			jail_free_cards = EXCLUDED.jail_free_cards,
			properties = EXCLUDED.properties,
			turn_order = EXCLUDED.turn_order,
			active = EXCLUDED.active`,
		p.ID,
		p.GameID,
		p.Name,
		p.Color,
		p.Position,
		p.Money,
		p.InJail,
		p.JailTurns,
		p.JailFreeCards,
		propsJSON,
		p.TurnOrder,
		p.Active,
	)
	return err
}

// GetByGame returns the seats of a game in turn order
func (r *PlayerRepository) GetByGame(ctx context.Context, gameID string) ([]*domain.PlayerRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, name, color, position, money, in_jail, jail_turns,
				jail_free_cards, properties, turn_order, active
		 FROM players
		 WHERE game_id = $1
		 ORDER BY turn_order`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// DeleteMissing drops seats of a game that are no longer in ids, which is
// how a player leaving a lobby reaches the database.
func (r *PlayerRepository) DeleteMissing(ctx context.Context, gameID string, ids []string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM players WHERE game_id = $1 AND NOT (id = ANY($2))`,
		gameID, ids,
	)
	return err
}

func scanPlayers(rows pgx.Rows) ([]*domain.PlayerRecord, error) {
	var players []*domain.PlayerRecord
	for rows.Next() {
		var p domain.PlayerRecord
		var propsJSON []byte
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name, &p.Color, &p.Position, &p.Money, &p.InJail,
			&p.JailTurns, &p.JailFreeCards, &propsJSON, &p.TurnOrder, &p.Active); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(propsJSON, &p.Properties); err != nil {
			p.Properties = []int{}
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}
