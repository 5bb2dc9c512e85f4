package game

import "fmt"

// Stage represents the betting round
type Stage int

const (
	PreFlop Stage = iota
	Flop
	Turn
	River
	Showdown
	// HandOver is reached when everyone but one player has folded.
	HandOver
)

func (s Stage) String() string {
	switch s {
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	case HandOver:
		return "handover"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further betting happens in this stage.
func (s Stage) Terminal() bool {
	return s == Showdown || s == HandOver
}

// ActionKind is the closed set of things a player can do.
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// Action is a player decision. Amount is the absolute amount the player wants
// committed this round (not a delta) and is only read for Bet and Raise.
type Action struct {
	Kind   ActionKind
	Amount int
}

// Act builds an amount-less action (fold, check, call, all-in).
func Act(kind ActionKind) Action {
	return Action{Kind: kind}
}

// BetTo opens the betting with a total commitment of amount this round.
func BetTo(amount int) Action {
	return Action{Kind: Bet, Amount: amount}
}

// RaiseTo raises to a total commitment of amount this round.
func RaiseTo(amount int) Action {
	return Action{Kind: Raise, Amount: amount}
}

func (a Action) String() string {
	if a.Kind == Bet || a.Kind == Raise {
		return fmt.Sprintf("%s %d", a.Kind, a.Amount)
	}
	return a.Kind.String()
}

// LegalActions returns the action kinds Apply would accept from seat right
// now. It is empty for anyone but the current actor.
func (h *HandState) LegalActions(seat int) []ActionKind {
	if h.stage.Terminal() || seat != h.actor || seat < 0 || seat >= len(h.players) {
		return nil
	}
	p := &h.players[seat]
	if !p.IsActive() {
		return nil
	}

	toCall := h.currentBet - p.Bet
	reopened := !h.acted[seat]
	actions := []ActionKind{Fold}

	if toCall == 0 {
		actions = append(actions, Check, Bet)
	} else {
		actions = append(actions, Call)
		if reopened && p.Chips > toCall {
			actions = append(actions, Raise)
		}
	}
	// All-in is a raise whenever the stack covers more than the call, and a
	// short all-in does not give earlier actors a second raise.
	if reopened || p.Chips <= toCall {
		actions = append(actions, AllIn)
	}
	return actions
}

// validate checks a against the current state without mutating anything.
func (h *HandState) validate(seat int, a Action) error {
	if h.stage.Terminal() {
		return illegal("hand is over (%s)", h.stage)
	}
	if seat < 0 || seat >= len(h.players) {
		return illegal("no seat %d", seat)
	}
	p := &h.players[seat]
	if p.Folded {
		return illegal("seat %d has folded", seat)
	}
	if p.AllIn {
		return illegal("seat %d is all-in", seat)
	}
	if seat != h.actor {
		return illegal("seat %d acted out of turn, action is on seat %d", seat, h.actor)
	}

	toCall := h.currentBet - p.Bet
	stack := p.Bet + p.Chips
	minTarget := h.currentBet + h.minRaise

	switch a.Kind {
	case Fold:
		return nil
	case Check:
		if toCall != 0 {
			return illegal("cannot check, must call %d", toCall)
		}
	case Call:
		if toCall == 0 {
			return illegal("nothing to call")
		}
	case Bet:
		if toCall != 0 {
			return illegal("cannot bet facing %d, raise instead", toCall)
		}
		if err := checkTarget(a.Amount, h.currentBet, minTarget, stack); err != nil {
			return err
		}
	case Raise:
		if toCall == 0 {
			return illegal("nothing to raise, bet instead")
		}
		if h.acted[seat] {
			return illegal("action was not reopened for seat %d", seat)
		}
		if err := checkTarget(a.Amount, h.currentBet, minTarget, stack); err != nil {
			return err
		}
	case AllIn:
		if h.acted[seat] && stack > h.currentBet {
			return illegal("action was not reopened for seat %d", seat)
		}
	default:
		return illegal("unknown action kind %d", a.Kind)
	}
	return nil
}

// checkTarget enforces the minimum bet/raise, waived for an all-in.
func checkTarget(target, currentBet, minTarget, stack int) error {
	switch {
	case target <= currentBet:
		return illegal("target %d does not exceed current bet %d", target, currentBet)
	case target > stack:
		return illegal("target %d exceeds stack %d", target, stack)
	case target < minTarget && target != stack:
		return illegal("target %d below minimum %d", target, minTarget)
	}
	return nil
}
