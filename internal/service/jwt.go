package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Seat identifies a player in a game.
type Seat struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// SeatTokens issues and verifies the HS256 tokens handed out on join. A
// token lets a reconnecting client take its seat back.
type SeatTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatTokens(secret string, ttl time.Duration) *SeatTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SeatTokens{secret: []byte(secret), ttl: ttl}
}

func (t *SeatTokens) Issue(seat Seat) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"game_id":   seat.GameID,
		"player_id": seat.PlayerID,
		"exp":       time.Now().Add(t.ttl).Unix(),
		"iat":       now,
		"nbf":       now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *SeatTokens) Parse(tokenString string) (Seat, error) {
	token, err := jwt.Parse(tokenString, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Seat{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Seat{}, ErrInvalidToken
	}

	gameID, _ := claims["game_id"].(string)
	playerID, _ := claims["player_id"].(string)
	if gameID == "" || playerID == "" {
		return Seat{}, ErrInvalidToken
	}
	return Seat{GameID: gameID, PlayerID: playerID}, nil
}
