package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/clawbot69/clawnopoly/internal/domain"
	"github.com/clawbot69/clawnopoly/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRandom replays queued values; an empty queue yields 0 for ints
// and 0.99 (no chaos) for floats.
type scriptedRandom struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
}

func (r *scriptedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRandom) dice(faces ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range faces {
		r.ints = append(r.ints, f-1)
	}
}

func (r *scriptedRandom) chaos(draws ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, draws...)
}

// mockBroadcaster captures events per game.
type mockBroadcaster struct {
	mu     sync.Mutex
	events map[string][]Event
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{events: make(map[string][]Event)}
}

func (m *mockBroadcaster) Broadcast(gameID string, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[gameID] = append(m.events[gameID], ev)
}

func (m *mockBroadcaster) types(gameID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, ev := range m.events[gameID] {
		out = append(out, ev.Type)
	}
	return out
}

func (m *mockBroadcaster) last(gameID, typ string) (Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	evs := m.events[gameID]
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Type == typ {
			return evs[i], true
		}
	}
	return Event{}, false
}

func (m *mockBroadcaster) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]Event)
}

// memoryStore is an in-process Store.
type memoryStore struct {
	mu      sync.Mutex
	games   map[string]domain.GameRecord
	players map[string]map[string]domain.PlayerRecord
	props   map[string][]domain.PropertyRecord
	logs    map[string][]domain.ActionLog
	nextID  int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		games:   make(map[string]domain.GameRecord),
		players: make(map[string]map[string]domain.PlayerRecord),
		props:   make(map[string][]domain.PropertyRecord),
		logs:    make(map[string][]domain.ActionLog),
	}
}

func (m *memoryStore) CreateGame(_ context.Context, g *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = *g
	return nil
}

func (m *memoryStore) UpdateGame(_ context.Context, g *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = *g
	return nil
}

func (m *memoryStore) GetGame(_ context.Context, id string) (*domain.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return &g, nil
}

func (m *memoryStore) DeleteGame(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(m.games, id)
	delete(m.players, id)
	delete(m.props, id)
	delete(m.logs, id)
	return nil
}

func (m *memoryStore) SavePlayer(_ context.Context, p *domain.PlayerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.players[p.GameID] == nil {
		m.players[p.GameID] = make(map[string]domain.PlayerRecord)
	}
	m.players[p.GameID][p.ID] = *p
	return nil
}

func (m *memoryStore) GetPlayers(_ context.Context, gameID string) ([]*domain.PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PlayerRecord
	for _, p := range m.players[gameID] {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TurnOrder < out[j].TurnOrder })
	return out, nil
}

func (m *memoryStore) PrunePlayers(_ context.Context, gameID string, keep []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make(map[string]bool)
	for _, id := range keep {
		kept[id] = true
	}
	for id := range m.players[gameID] {
		if !kept[id] {
			delete(m.players[gameID], id)
		}
	}
	return nil
}

func (m *memoryStore) SaveProperties(_ context.Context, gameID string, props []domain.PropertyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[gameID] = append([]domain.PropertyRecord(nil), props...)
	return nil
}

func (m *memoryStore) GetProperties(_ context.Context, gameID string) ([]*domain.PropertyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PropertyRecord
	for _, p := range m.props[gameID] {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (m *memoryStore) AppendLog(_ context.Context, log *domain.ActionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	log.ID = m.nextID
	m.logs[log.GameID] = append(m.logs[log.GameID], *log)
	return nil
}

func (m *memoryStore) GetLog(_ context.Context, gameID string, limit int) ([]*domain.ActionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.logs[gameID]
	var out []*domain.ActionLog
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := entries[i]
		out = append(out, &e)
	}
	return out, nil
}

func (m *memoryStore) Ping(context.Context) error { return nil }
func (m *memoryStore) Close()                     {}

func (m *memoryStore) actions(gameID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, l := range m.logs[gameID] {
		out = append(out, l.Action)
	}
	return out
}

type fixture struct {
	svc   *GameService
	hub   *mockBroadcaster
	store *memoryStore
	rng   *scriptedRandom
	rec   *Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rng := &scriptedRandom{}
	hub := newMockBroadcaster()
	store := newMemoryStore()
	rec := NewRecorder(store, nil, 64, time.Minute)
	reg := NewRegistry(game.DefaultRules(), game.WithRandom(rng))
	svc := NewGameService(reg, hub, NewSeatTokens("test-secret", time.Hour), rec, 0)
	t.Cleanup(func() {
		reg.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		rec.Stop(ctx)
	})
	return &fixture{svc: svc, hub: hub, store: store, rng: rng, rec: rec}
}

// lobby creates a game and seats the given names.
func (f *fixture) lobby(t *testing.T, names ...string) (string, []*JoinResult) {
	t.Helper()
	ctx := context.Background()
	id, err := f.svc.CreateGame(ctx)
	require.NoError(t, err)

	var seats []*JoinResult
	for _, name := range names {
		res, err := f.svc.JoinGame(ctx, id, name, nil)
		require.NoError(t, err)
		seats = append(seats, res)
	}
	return id, seats
}

func (f *fixture) started(t *testing.T, names ...string) (string, []*JoinResult) {
	t.Helper()
	id, seats := f.lobby(t, names...)
	require.NoError(t, f.svc.StartGame(context.Background(), id, seats[0].Player.ID))
	f.hub.reset()
	return id, seats
}

func (f *fixture) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.rec.Flush(ctx))
}

func TestCreateJoinStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.CreateGame(ctx)
	require.NoError(t, err)
	assert.Len(t, id, 8)
	assert.Equal(t, NormalizeGameID(id), id)

	var seated *JoinResult
	alice, err := f.svc.JoinGame(ctx, id, "alice", func(r *JoinResult) { seated = r })
	require.NoError(t, err)
	assert.Same(t, alice, seated)
	assert.Equal(t, "#FF0000", alice.Player.Color)
	assert.NotEmpty(t, alice.Token)

	bob, err := f.svc.JoinGame(ctx, id, "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, bob.Player.TurnOrder)

	lobbies := f.svc.ListOpenGames(ctx)
	require.Len(t, lobbies, 1)
	assert.Equal(t, []string{"alice", "bob"}, lobbies[0].Players)

	require.NoError(t, f.svc.StartGame(ctx, id, alice.Player.ID))
	assert.Equal(t, []string{EventPlayerJoined, EventPlayerJoined, EventGameStarted}, f.hub.types(id))
	assert.Empty(t, f.svc.ListOpenGames(ctx))

	_, err = f.svc.JoinGame(ctx, id, "carol", nil)
	assert.ErrorIs(t, err, game.ErrAlreadyStarted)

	f.flush(t)
	assert.Equal(t, []string{domain.ActionCreate, domain.ActionJoin, domain.ActionJoin, domain.ActionStart}, f.store.actions(id))
	rec, err := f.store.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "active", rec.Status)
	players, _ := f.store.GetPlayers(ctx, id)
	assert.Len(t, players, 2)
}

func TestUnknownGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.JoinGame(ctx, "NOPE0000", "alice", nil)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = f.svc.RollDice(ctx, "NOPE0000", "p1")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestJoinValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _ := f.lobby(t, "a", "b", "c", "d", "e", "f")

	_, err := f.svc.JoinGame(ctx, id, "g", nil)
	assert.ErrorIs(t, err, game.ErrGameFull)

	id2, _ := f.lobby(t)
	_, err = f.svc.JoinGame(ctx, id2, "   ", nil)
	assert.ErrorIs(t, err, game.ErrInvalidName)

	id3, seats := f.lobby(t, "solo")
	assert.ErrorIs(t, f.svc.StartGame(ctx, id3, seats[0].Player.ID), game.ErrNotEnoughPlayers)
}

func TestRollResolvesChaosAfterTile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, seats := f.started(t, "alice", "bob")
	alice := seats[0].Player.ID

	f.rng.dice(1, 2)
	f.rng.chaos(0.10)
	res, err := f.svc.RollDice(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewPosition)
	assert.Equal(t, game.OutcomeCanBuy, res.Outcome.Kind)
	require.NotNil(t, res.Chaos)
	assert.Equal(t, "lottery_win", res.Chaos.ID)

	assert.Equal(t, []string{EventDiceRolled, EventTileAction, EventChaos}, f.hub.types(id))
	ev, _ := f.hub.last(id, EventChaos)
	cr := ev.Payload.(*game.ChaosResult)
	assert.Equal(t, 2000, cr.Outcome.Balance)

	bought, err := f.svc.BuyProperty(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, 1940, bought.Balance)

	turn, err := f.svc.EndTurn(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, seats[1].Player.ID, turn.CurrentPlayerID)
	ev, _ = f.hub.last(id, EventTurnEnded)
	assert.Equal(t, "bob", ev.Payload.(TurnEndedPayload).NextPlayer.Name)

	f.flush(t)
	assert.Equal(t, []string{
		domain.ActionCreate, domain.ActionJoin, domain.ActionJoin, domain.ActionStart,
		domain.ActionRoll, domain.ActionChaos, domain.ActionBuyProperty, domain.ActionEndTurn,
	}, f.store.actions(id))
	props, _ := f.store.GetProperties(ctx, id)
	require.Len(t, props, 1)
	assert.Equal(t, 3, props[0].TileID)
}

func TestChaosDelayHoldsOtherActions(t *testing.T) {
	f := newFixture(t)
	f.svc.chaosDelay = 100 * time.Millisecond
	ctx := context.Background()
	id, seats := f.started(t, "alice", "bob")

	f.rng.dice(1, 2)
	f.rng.chaos(0.10)

	rolled := make(chan error, 1)
	go func() {
		_, err := f.svc.RollDice(ctx, id, seats[0].Player.ID)
		rolled <- err
	}()
	require.Eventually(t, func() bool {
		return len(f.hub.types(id)) == 2
	}, time.Second, time.Millisecond)

	// queued behind the roll; runs after the chaos event resolved
	_, err := f.svc.EndTurn(ctx, id, seats[0].Player.ID)
	require.NoError(t, err)
	require.NoError(t, <-rolled)
	assert.Equal(t, []string{EventDiceRolled, EventTileAction, EventChaos, EventTurnEnded}, f.hub.types(id))
}

func TestRejectedActionsBroadcastNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, seats := f.started(t, "alice", "bob")

	_, err := f.svc.RollDice(ctx, id, seats[1].Player.ID)
	assert.ErrorIs(t, err, game.ErrNotYourTurn)
	_, err = f.svc.EndTurn(ctx, id, seats[0].Player.ID)
	assert.ErrorIs(t, err, game.ErrMustRoll)
	_, err = f.svc.PayJailFine(ctx, id, seats[0].Player.ID)
	assert.ErrorIs(t, err, game.ErrNotInJail)
	_, err = f.svc.BuildHouse(ctx, id, seats[0].Player.ID, 1)
	assert.Error(t, err)

	assert.Empty(t, f.hub.types(id))
}

func TestDisconnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lobby, seats := f.lobby(t, "alice", "bob")
	f.svc.Disconnected(ctx, lobby, seats[1].Player.ID)
	ev, ok := f.hub.last(lobby, EventPlayerLeft)
	require.True(t, ok)
	assert.Len(t, ev.Payload.(PlayerLeftPayload).Players, 1)

	f.svc.Disconnected(ctx, lobby, seats[0].Player.ID)
	_, ok = f.svc.Registry().Get(lobby)
	assert.False(t, ok, "empty lobby should be dropped")

	active, seats := f.started(t, "carol", "dave")
	f.svc.Disconnected(ctx, active, seats[1].Player.ID)
	assert.Equal(t, []string{EventPlayerDisconnected}, f.hub.types(active))

	seat, snap, err := f.svc.Resume(ctx, seats[1].Token)
	require.NoError(t, err)
	assert.Equal(t, seats[1].Player.ID, seat.PlayerID)
	assert.Len(t, snap.Players, 2)
}

func TestLeaveRunningGameEndsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, seats := f.started(t, "alice", "bob")

	require.NoError(t, f.svc.LeaveGame(ctx, id, seats[0].Player.ID))
	assert.Equal(t, []string{EventPlayerLeft, EventBankrupt, EventGameEnded}, f.hub.types(id))
	ev, _ := f.hub.last(id, EventGameEnded)
	assert.Equal(t, seats[1].Player.ID, ev.Payload.(*game.GameOver).WinnerID)

	_, err := f.svc.RollDice(ctx, id, seats[1].Player.ID)
	assert.ErrorIs(t, err, game.ErrGameEnded)
}

func TestLeaveHandsOverTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, seats := f.started(t, "alice", "bob", "carol")

	require.NoError(t, f.svc.LeaveGame(ctx, id, seats[0].Player.ID))
	ev, ok := f.hub.last(id, EventTurnEnded)
	require.True(t, ok)
	assert.Equal(t, seats[1].Player.ID, ev.Payload.(TurnEndedPayload).NextPlayer.ID)
}

func TestResumeRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Resume(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewSeatTokens("other-secret", time.Hour)
	tok, err := other.Issue(Seat{GameID: "ABCDEF12", PlayerID: "p1"})
	require.NoError(t, err)
	_, _, err = f.svc.Resume(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = f.svc.Tokens().Issue(Seat{GameID: "ABCDEF12", PlayerID: "p1"})
	require.NoError(t, err)
	_, _, err = f.svc.Resume(ctx, tok)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestStateFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _ := f.started(t, "alice", "bob")

	snap, err := f.svc.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.StatusActive, snap.Status)

	f.flush(t)
	f.svc.Registry().Remove(id)

	snap, err = f.svc.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Len(t, snap.Players, 2)

	_, err = f.svc.State(ctx, "MISSING0")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestActionLogNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _ := f.lobby(t, "alice", "bob")
	f.flush(t)

	logs, err := f.svc.ActionLog(ctx, id, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.ActionJoin, logs[0].Action)
	assert.Equal(t, "bob", logs[0].Details["name"])
}

func TestDeleteGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, seats := f.lobby(t, "alice")
	other, _ := f.lobby(t, "bob")

	assert.ErrorIs(t, f.svc.DeleteGame(ctx, other, seats[0].Token), ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteGame(ctx, id, "bad"), ErrInvalidToken)

	require.NoError(t, f.svc.DeleteGame(ctx, id, seats[0].Token))
	_, ok := f.svc.Registry().Get(id)
	assert.False(t, ok)
	_, err := f.store.GetGame(ctx, id)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	assert.Empty(t, f.store.actions(id))

	assert.ErrorIs(t, f.svc.DeleteGame(ctx, id, seats[0].Token), ErrGameNotFound)
}
