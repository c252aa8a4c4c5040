package engine

import "errors"

// Every precondition a caller can violate maps to one of these. They are
// recoverable and returned to the caller; none of them tears a table down.
var (
	ErrSeatOccupied        = errors.New("seat already occupied")
	ErrInvalidSeat         = errors.New("invalid seat number")
	ErrTableFull           = errors.New("table is full")
	ErrTableNotFound       = errors.New("table not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerNotActive     = errors.New("player is not active")
	ErrWrongPhase          = errors.New("action not allowed in current phase")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrHandAlreadyFinished = errors.New("hand already finished")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrSplitAlreadyDone    = errors.New("split already performed this round")
	ErrBuyInTooLow         = errors.New("buy-in below table minimum")
	ErrInvalidAction       = errors.New("action not valid for this game")
)
