package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction is returned by Apply for any action the rules reject.
	// The hand state is left untouched.
	ErrIllegalAction = errors.New("game: illegal action")
	// ErrInsufficientPlayers is returned by StartHand when fewer than two
	// seats have chips.
	ErrInsufficientPlayers = errors.New("game: insufficient players")
	// ErrRoundIncomplete is returned by AdvanceStage while players still owe action.
	ErrRoundIncomplete = errors.New("game: betting round incomplete")
	// ErrHandOver is returned when advancing a hand that has already finished.
	ErrHandOver = errors.New("game: hand is over")
	// ErrHandNotOver is returned by Settle before showdown or a fold-out.
	ErrHandNotOver = errors.New("game: hand not over")
	// ErrAlreadySettled is returned by a second call to Settle.
	ErrAlreadySettled = errors.New("game: hand already settled")
)

// InvariantError describes a broken engine invariant such as a negative stack
// or chips appearing from nowhere. It is raised with panic, never returned:
// the hand cannot continue with corrupted state.
type InvariantError string

func (e InvariantError) Error() string { return "game: invariant violated: " + string(e) }

func invariant(ok bool, format string, args ...any) {
	if !ok {
		panic(InvariantError(fmt.Sprintf(format, args...)))
	}
}

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}
