package game

import "errors"

// Validation errors: the request is not allowed in the current state.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrGameFull         = errors.New("game is full")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotEnoughPlayers = errors.New("need at least 2 players")
	ErrGameNotActive    = errors.New("game is not active")
	ErrGameEnded        = errors.New("game has ended")
	ErrInJail           = errors.New("you are in jail")
	ErrNotInJail        = errors.New("you are not in jail")
	ErrAlreadyRolled    = errors.New("already rolled this turn")
	ErrMustRoll         = errors.New("you must roll the dice first")
	ErrChaosPending     = errors.New("chaos event still resolving")
	ErrPlayerInactive   = errors.New("player is bankrupt")
	ErrNotHost          = errors.New("only a seated player can start the game")
	ErrInvalidName      = errors.New("player name is required")
)

// Resource errors: the player lacks what the action consumes.
var (
	ErrInsufficientFunds = errors.New("not enough money")
	ErrNoJailCard        = errors.New("no get out of jail free card")
	ErrNotPurchasable    = errors.New("cannot buy this tile")
	ErrAlreadyOwned      = errors.New("property already owned")
	ErrNotOwner          = errors.New("you do not own this property")
	ErrNoMonopoly        = errors.New("you need every property in the group")
	ErrFullyImproved     = errors.New("property already has a hotel")
	ErrNotBuildable      = errors.New("cannot build on this tile")
)

var ErrPlayerNotFound = errors.New("player not found")

var validationErrors = []error{
	ErrNotYourTurn, ErrGameFull, ErrAlreadyStarted, ErrNotEnoughPlayers, ErrGameNotActive,
	ErrGameEnded, ErrInJail, ErrNotInJail, ErrAlreadyRolled, ErrMustRoll, ErrChaosPending,
	ErrPlayerInactive, ErrNotHost, ErrInvalidName,
}

var resourceErrors = []error{
	ErrInsufficientFunds, ErrNoJailCard, ErrNotPurchasable, ErrAlreadyOwned, ErrNotOwner,
	ErrNoMonopoly, ErrFullyImproved, ErrNotBuildable,
}

func IsValidation(err error) bool {
	return matchesAny(err, validationErrors)
}

func IsResource(err error) bool {
	return matchesAny(err, resourceErrors)
}

func matchesAny(err error, set []error) bool {
	for _, e := range set {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
