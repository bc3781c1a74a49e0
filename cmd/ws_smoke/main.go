// Command ws_smoke plays a scripted two-player game against a running
// server: both players join, then take turns rolling, buying what they land
// on and ending their turn.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/clawbot69/clawnopoly/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type player struct {
	name   string
	id     string
	conn   *websocket.Conn
	frames chan frame
}

func dial(url, name string) *player {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Fatal("dial failed", "player", name, "error", err)
	}
	p := &player{name: name, conn: conn, frames: make(chan frame, 512)}
	go func() {
		defer close(p.frames)
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			p.frames <- f
		}
	}()
	return p
}

func (p *player) send(typ string, payload map[string]interface{}) {
	msg := map[string]interface{}{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := p.conn.WriteJSON(msg); err != nil {
		logger.Fatal("write failed", "player", p.name, "error", err)
	}
}

// wait returns the first frame of one of the given types, or an error frame.
func (p *player) wait(timeout time.Duration, types ...string) frame {
	deadline := time.After(timeout)
	for {
		select {
		case f, ok := <-p.frames:
			if !ok {
				logger.Fatal("connection closed", "player", p.name)
			}
			if f.Type == "error" {
				return f
			}
			for _, t := range types {
				if f.Type == t {
					return f
				}
			}
		case <-deadline:
			logger.Fatal("timed out", "player", p.name, "waiting_for", types)
		}
	}
}

func decode(f frame, out interface{}) {
	if err := json.Unmarshal(f.Payload, out); err != nil {
		logger.Fatal("bad payload", "type", f.Type, "error", err)
	}
}

func main() {
	addr := flag.String("addr", "", "server address (default 127.0.0.1:$APP_PORT)")
	turns := flag.Int("turns", 12, "turns to play")
	flag.Parse()
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	if *addr == "" {
		port := os.Getenv("APP_PORT")
		if port == "" {
			port = "8080"
		}
		*addr = "127.0.0.1:" + port
	}
	url := fmt.Sprintf("ws://%s/ws", *addr)

	a, b := dial(url, "smokeA"), dial(url, "smokeB")
	defer a.conn.Close()
	defer b.conn.Close()
	timeout := 5 * time.Second

	a.send("createGame", nil)
	var created struct {
		GameID string `json:"gameId"`
	}
	decode(a.wait(timeout, "gameCreated"), &created)
	logger.Info("game created", "game_id", created.GameID)

	byID := map[string]*player{}
	for _, p := range []*player{a, b} {
		p.send("joinGame", map[string]interface{}{"gameId": created.GameID, "playerName": p.name})
		var joined struct {
			Player struct {
				ID string `json:"id"`
			} `json:"player"`
		}
		f := p.wait(timeout, "joinedGame")
		if f.Type == "error" {
			logger.Fatal("join rejected", "player", p.name, "payload", string(f.Payload))
		}
		decode(f, &joined)
		p.id = joined.Player.ID
		byID[p.id] = p
	}

	a.send("startGame", nil)
	var started struct {
		CurrentPlayer struct {
			ID string `json:"id"`
		} `json:"currentPlayer"`
	}
	decode(a.wait(timeout, "gameStarted"), &started)
	current := started.CurrentPlayer.ID

	for turn := 0; turn < *turns; turn++ {
		p := byID[current]
		p.send("rollDice", nil)
		f := p.wait(timeout, "tileAction", "gameEnded")
		if f.Type == "error" {
			// jailed: pay out and roll, or sit the turn when broke
			logger.Info("roll refused", "player", p.name, "payload", string(f.Payload))
			p.send("payJailFine", nil)
			if paid := p.wait(timeout, "jailFinePaid"); paid.Type == "jailFinePaid" {
				p.send("rollDice", nil)
				f = p.wait(timeout, "tileAction", "gameEnded")
			}
		}
		if f.Type == "gameEnded" {
			logger.Info("game over", "payload", string(f.Payload))
			return
		}
		if f.Type == "tileAction" {
			var tile struct {
				Tile struct {
					Name string `json:"name"`
				} `json:"tile"`
				Result struct {
					Type string `json:"type"`
				} `json:"result"`
			}
			decode(f, &tile)
			logger.Info("landed", "player", p.name, "tile", tile.Tile.Name, "outcome", tile.Result.Type)
			if tile.Result.Type == "canBuy" {
				p.send("buyProperty", nil)
				if got := p.wait(timeout, "propertyBought"); got.Type == "propertyBought" {
					logger.Info("bought", "player", p.name, "tile", tile.Tile.Name)
				}
			}
		}

		p.send("endTurn", nil)
		f = p.wait(timeout, "turnEnded", "gameEnded")
		if f.Type == "gameEnded" {
			logger.Info("game over", "payload", string(f.Payload))
			return
		}
		if f.Type == "error" {
			logger.Fatal("end turn refused", "player", p.name, "payload", string(f.Payload))
		}
		var ended struct {
			NextPlayer struct {
				ID string `json:"id"`
			} `json:"nextPlayer"`
		}
		decode(f, &ended)
		current = ended.NextPlayer.ID
	}

	a.send("getState", nil)
	var state struct {
		Players []struct {
			Name  string `json:"name"`
			Money int    `json:"money"`
		} `json:"players"`
	}
	decode(a.wait(timeout, "state"), &state)
	for _, p := range state.Players {
		logger.Info("final balance", "player", p.Name, "money", p.Money)
	}
	logger.Info("smoke test finished", "game_id", created.GameID)
}
