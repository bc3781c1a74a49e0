package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clawbot69/clawnopoly/internal/domain"
	"github.com/clawbot69/clawnopoly/internal/migrations"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the single-file alternative to PostgresStore. All access
// goes through one connection, so writes are serialized by the pool.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the
// embedded schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	dsn := path + "?" + params
	if strings.Contains(path, "?") {
		dsn = path + "&" + params
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	migs, err := migrations.SQLite()
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, m := range migs {
		if _, err := db.ExecContext(ctx, m.SQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", m.Name, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateGame(ctx context.Context, g *domain.GameRecord) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, status, current_player, turn_count, board_state, jackpot, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Status, g.CurrentPlayer, g.TurnCount, string(boardJSON(g.BoardState)), g.Jackpot, now, now,
	)
	if err != nil {
		return err
	}
	g.CreatedAt, g.UpdatedAt = now, now
	return nil
}

func (s *SQLiteStore) UpdateGame(ctx context.Context, g *domain.GameRecord) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, status, current_player, turn_count, board_state, jackpot, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			current_player = excluded.current_player,
			turn_count = excluded.turn_count,
			board_state = excluded.board_state,
			jackpot = excluded.jackpot,
			updated_at = excluded.updated_at`,
		g.ID, g.Status, g.CurrentPlayer, g.TurnCount, string(boardJSON(g.BoardState)), g.Jackpot, now, now,
	)
	if err != nil {
		return err
	}
	g.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) GetGame(ctx context.Context, id string) (*domain.GameRecord, error) {
	var g domain.GameRecord
	var board string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, current_player, turn_count, board_state, jackpot, created_at, updated_at
		 FROM games WHERE id = ?`,
		id,
	).Scan(&g.ID, &g.Status, &g.CurrentPlayer, &g.TurnCount, &board, &g.Jackpot, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	g.BoardState = json.RawMessage(board)
	return &g, nil
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (s *SQLiteStore) SavePlayer(ctx context.Context, p *domain.PlayerRecord) error {
	propsJSON, err := json.Marshal(p.Properties)
	if err != nil || p.Properties == nil {
		propsJSON = []byte("[]")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players
			(id, game_id, name, color, position, money, in_jail, jail_turns, jail_free_cards, properties, turn_order, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			position = excluded.position,
			money = excluded.money,
			in_jail = excluded.in_jail,
			jail_turns = excluded.jail_turns,
			jail_free_cards = excluded.jail_free_cards,
			properties = excluded.properties,
			turn_order = excluded.turn_order,
			active = excluded.active`,
		p.ID, p.GameID, p.Name, p.Color, p.Position, p.Money, p.InJail, p.JailTurns,
		p.JailFreeCards, string(propsJSON), p.TurnOrder, p.Active,
	)
	return err
}

func (s *SQLiteStore) GetPlayers(ctx context.Context, gameID string) ([]*domain.PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, name, color, position, money, in_jail, jail_turns,
				jail_free_cards, properties, turn_order, active
		 FROM players WHERE game_id = ? ORDER BY turn_order`,
		gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*domain.PlayerRecord
	for rows.Next() {
		var p domain.PlayerRecord
		var props string
		if err := rows.Scan(&p.ID, &p.GameID, &p.Name, &p.Color, &p.Position, &p.Money, &p.InJail,
			&p.JailTurns, &p.JailFreeCards, &props, &p.TurnOrder, &p.Active); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(props), &p.Properties); err != nil {
			p.Properties = []int{}
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) PrunePlayers(ctx context.Context, gameID string, keep []string) error {
	query := `DELETE FROM players WHERE game_id = ?`
	args := []any{gameID}
	if len(keep) > 0 {
		query += ` AND id NOT IN (?` + strings.Repeat(", ?", len(keep)-1) + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLiteStore) SaveProperties(ctx context.Context, gameID string, props []domain.PropertyRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE game_id = ?`, gameID); err != nil {
		return err
	}
	for _, p := range props {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO properties (game_id, tile_id, owner_id, houses, hotel, mortgaged)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			gameID, p.TileID, p.OwnerID, p.Houses, p.Hotel, p.Mortgaged,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetProperties(ctx context.Context, gameID string) ([]*domain.PropertyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, tile_id, owner_id, houses, hotel, mortgaged
		 FROM properties WHERE game_id = ? ORDER BY tile_id`,
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

func (s *SQLiteStore) AppendLog(ctx context.Context, log *domain.ActionLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil || log.Details == nil {
		detailsJSON = []byte("{}")
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO game_log (game_id, player_id, action, details, created_at) VALUES (?, ?, ?, ?, ?)`,
		log.GameID, log.PlayerID, log.Action, string(detailsJSON), now,
	)
	if err != nil {
		return err
	}
	log.ID, _ = res.LastInsertId()
	log.CreatedAt = now
	return nil
}

func (s *SQLiteStore) GetLog(ctx context.Context, gameID string, limit int) ([]*domain.ActionLog, error) {
	if limit <= 0 {
		limit = domain.DefaultLogLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, player_id, action, details, created_at
		 FROM game_log WHERE game_id = ? ORDER BY id DESC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.ActionLog
	for rows.Next() {
		var log domain.ActionLog
		var details string
		if err := rows.Scan(&log.ID, &log.GameID, &log.PlayerID, &log.Action, &details, &log.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(details), &log.Details); err != nil {
			log.Details = make(map[string]interface{})
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}
