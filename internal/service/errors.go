package service

import (
	"errors"

	"github.com/clawbot69/clawnopoly/internal/domain"
)

var (
	ErrGameNotFound  = domain.ErrGameNotFound
	ErrSessionClosed = errors.New("game session closed")
	ErrInvalidToken  = errors.New("invalid seat token")
	ErrForbidden     = errors.New("seat token does not belong to this game")
)
