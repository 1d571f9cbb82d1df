package game

import "errors"

// Rejection reasons. A rejected action never mutates room state; the
// transport layer relays these to the acting seat as an explicit notice.
var (
	ErrGameInProgress     = errors.New("game already in progress")
	ErrNotStarted         = errors.New("round not started")
	ErrRoundFinished      = errors.New("round already finished")
	ErrRoundNotFinished   = errors.New("round is not finished")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNoSuchCard         = errors.New("no card at that position")
	ErrIllegalCard        = errors.New("card is not legal to play")
	ErrAwaitingSuitChoice = errors.New("a suit declaration is pending")
	ErrNotSuitChooser     = errors.New("suit choice not expected from this seat")
	ErrInvalidSuit        = errors.New("invalid suit")
	ErrRonDecisionPending = errors.New("a reactive win decision is pending")
	ErrNotRonCandidate    = errors.New("seat is not a reactive win candidate")
	ErrUnknownSeat        = errors.New("unknown seat")
)
