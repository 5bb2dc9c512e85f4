package phh

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/evaluator"
	"github.com/lox/handengine/internal/game"
)

// Recorder accumulates a HandHistory while a hand is played. A nil
// *Recorder ignores every call, so callers need not check whether
// recording is enabled.
type Recorder struct {
	history   HandHistory
	boardSeen int
}

// NewRecorder starts recording h, which must have just been started: blinds
// are read from the players' commitments.
func NewRecorder(h *game.HandState, id string, at time.Time) *Recorder {
	players := h.Players()
	r := &Recorder{
		history: HandHistory{
			Variant:   variantCode(h.Variant()),
			SeatCount: len(players),
			MinBet:    h.BigBlind(),
			HandID:    id,
			Time:      at.Format(time.TimeOnly),
			TimeZone:  at.Location().String(),
			Day:       at.Day(),
			Month:     int(at.Month()),
			Year:      at.Year(),
		},
	}
	for i, p := range players {
		r.history.Seats = append(r.history.Seats, i+1)
		r.history.Players = append(r.history.Players, p.Name)
		r.history.Antes = append(r.history.Antes, 0)
		r.history.BlindsOrStraddles = append(r.history.BlindsOrStraddles, p.TotalBet)
		r.history.StartingStacks = append(r.history.StartingStacks, p.Chips+p.TotalBet)
	}
	for i, p := range players {
		if len(p.HoleCards) > 0 {
			r.add("d dh %s %s", player(i), Cards(p.HoleCards))
		}
	}
	return r
}

// SetSeed notes the seed that reproduces the hand.
func (r *Recorder) SetSeed(seed int64) {
	if r == nil {
		return
	}
	r.history.Seed = seed
}

// Action records an applied action. bet is the seat's commitment this round
// after the action and before is the table's current bet before it, which
// tells an all-in raise from an all-in call.
func (r *Recorder) Action(seat int, a game.Action, bet, before int) {
	if r == nil {
		return
	}
	switch a.Kind {
	case game.Fold:
		r.add("%s f", player(seat))
	case game.Check, game.Call:
		r.add("%s cc", player(seat))
	case game.Bet, game.Raise:
		r.add("%s cbr %d", player(seat), bet)
	case game.AllIn:
		if bet > before {
			r.add("%s cbr %d", player(seat), bet)
		} else {
			r.add("%s cc", player(seat))
		}
	}
}

// Board records any community cards dealt since the last call.
func (r *Recorder) Board(board []deck.Card) {
	if r == nil || len(board) <= r.boardSeen {
		return
	}
	r.add("d db %s", Cards(board[r.boardSeen:]))
	r.boardSeen = len(board)
}

// Finish records showdown reveals and the result of a settled hand.
func (r *Recorder) Finish(h *game.HandState, payouts map[int]int) {
	if r == nil {
		return
	}
	players := h.Players()
	if h.Stage() == game.Showdown {
		for i, p := range players {
			if p.InHand() && len(p.HoleCards) > 0 {
				r.add("%s sm %s", player(i), Cards(p.HoleCards))
			}
		}
	}
	r.history.FinishingStacks = make([]int, len(players))
	r.history.Winnings = make([]int, len(players))
	for i, p := range players {
		r.history.FinishingStacks[i] = p.Chips
		r.history.Winnings[i] = payouts[i]
	}
}

// History returns the hand recorded so far.
func (r *Recorder) History() *HandHistory {
	if r == nil {
		return nil
	}
	h := r.history
	return &h
}

func (r *Recorder) add(format string, args ...any) {
	r.history.Actions = append(r.history.Actions, fmt.Sprintf(format, args...))
}

func player(seat int) string {
	return fmt.Sprintf("p%d", seat+1)
}

// Cards renders cards in PHH notation, e.g. "AhTd".
func Cards(cards []deck.Card) string {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(c.Notation())
	}
	return sb.String()
}

// variantCode maps to PHH variant codes. No-limit Omaha has no standard code;
// "NO" follows the no-limit naming.
func variantCode(v evaluator.Variant) string {
	if v == evaluator.Omaha {
		return "NO"
	}
	return "NT"
}
