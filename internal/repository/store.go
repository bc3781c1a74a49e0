package repository

import (
	"context"

	"github.com/clawbot69/clawnopoly/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore bundles the repositories behind the persistence surface the
// game service writes to.
type PostgresStore struct {
	db         *pgxpool.Pool
	Games      *GameRepository
	Players    *PlayerRepository
	Properties *PropertyRepository
	Logs       *ActionLogRepository
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:         db,
		Games:      NewGameRepository(db),
		Players:    NewPlayerRepository(db),
		Properties: NewPropertyRepository(db),
		Logs:       NewActionLogRepository(db),
	}
}

func (s *PostgresStore) CreateGame(ctx context.Context, g *domain.GameRecord) error {
	return s.Games.Create(ctx, g)
}

func (s *PostgresStore) UpdateGame(ctx context.Context, g *domain.GameRecord) error {
	return s.Games.Update(ctx, g)
}

func (s *PostgresStore) GetGame(ctx context.Context, id string) (*domain.GameRecord, error) {
	return s.Games.GetByID(ctx, id)
}

func (s *PostgresStore) DeleteGame(ctx context.Context, id string) error {
	return s.Games.Delete(ctx, id)
}

func (s *PostgresStore) SavePlayer(ctx context.Context, p *domain.PlayerRecord) error {
	return s.Players.Upsert(ctx, p)
}

func (s *PostgresStore) GetPlayers(ctx context.Context, gameID string) ([]*domain.PlayerRecord, error) {
	return s.Players.GetByGame(ctx, gameID)
}

func (s *PostgresStore) PrunePlayers(ctx context.Context, gameID string, keep []string) error {
	return s.Players.DeleteMissing(ctx, gameID, keep)
}

func (s *PostgresStore) SaveProperties(ctx context.Context, gameID string, props []domain.PropertyRecord) error {
	return s.Properties.ReplaceForGame(ctx, gameID, props)
}

func (s *PostgresStore) GetProperties(ctx context.Context, gameID string) ([]*domain.PropertyRecord, error) {
	return s.Properties.GetByGame(ctx, gameID)
}

func (s *PostgresStore) AppendLog(ctx context.Context, log *domain.ActionLog) error {
	return s.Logs.Create(ctx, log)
}

func (s *PostgresStore) GetLog(ctx context.Context, gameID string, limit int) ([]*domain.ActionLog, error) {
	return s.Logs.GetByGame(ctx, gameID, limit)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}
