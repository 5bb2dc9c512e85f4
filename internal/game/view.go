package game

import (
	"slices"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/evaluator"
)

// View is a read-only snapshot of the table from one seat's perspective. It
// carries everything a decision needs and nothing another player could not
// see, apart from the seat's own hole cards.
type View struct {
	Seat          int
	Stage         Stage
	Variant       evaluator.Variant
	HoleCards     []deck.Card
	Board         []deck.Card
	Pot           int
	Chips         int
	Bet           int // Committed this round
	CurrentBet    int
	ToCall        int
	MinRaise      int
	MinTarget     int // Smallest legal Bet/Raise target, capped by the stack
	BigBlind      int
	LiveOpponents int // Opponents who have not folded
	Legal         []ActionKind
}

// View returns the snapshot for seat.
func (h *HandState) View(seat int) View {
	p := h.players[seat].clone()
	live := 0
	for i := range h.players {
		if i != seat && h.players[i].InHand() {
			live++
		}
	}
	return View{
		Seat:          seat,
		Stage:         h.stage,
		Variant:       h.variant,
		HoleCards:     p.HoleCards,
		Board:         h.Board(),
		Pot:           h.pot,
		Chips:         p.Chips,
		Bet:           p.Bet,
		CurrentBet:    h.currentBet,
		ToCall:        h.currentBet - p.Bet,
		MinRaise:      h.minRaise,
		MinTarget:     h.MinTarget(seat),
		BigBlind:      h.bigBlind,
		LiveOpponents: live,
		Legal:         h.LegalActions(seat),
	}
}

// CanDo reports whether kind is currently legal.
func (v View) CanDo(kind ActionKind) bool {
	return slices.Contains(v.Legal, kind)
}

// MaxTarget is the total commitment of going all-in.
func (v View) MaxTarget() int {
	return v.Bet + v.Chips
}
