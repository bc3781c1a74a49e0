package repository

import (
	"context"
	"encoding/json"

	"github.com/clawbot69/clawnopoly/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActionLogRepository handles game log database operations
type ActionLogRepository struct {
	db *pgxpool.Pool
}

func NewActionLogRepository(db *pgxpool.Pool) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// Create appends an entry to a game's log
func (r *ActionLogRepository) Create(ctx context.Context, log *domain.ActionLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil || log.Details == nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO game_log (game_id, player_id, action, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, log.GameID, log.PlayerID, log.Action, detailsJSON).Scan(&log.ID, &log.CreatedAt)
}

// GetByGame returns the latest entries of a game, newest first
func (r *ActionLogRepository) GetByGame(ctx context.Context, gameID string, limit int) ([]*domain.ActionLog, error) {
	if limit <= 0 {
		limit = domain.DefaultLogLimit
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, player_id, action, details, created_at
		FROM game_log
		WHERE game_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActionLogs(rows)
}

func scanActionLogs(rows pgx.Rows) ([]*domain.ActionLog, error) {
	var logs []*domain.ActionLog
	for rows.Next() {
		var log domain.ActionLog
		var detailsJSON []byte
		if err := rows.Scan(&log.ID, &log.GameID, &log.PlayerID, &log.Action, &detailsJSON, &log.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &log.Details); err != nil {
			log.Details = make(map[string]interface{})
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
