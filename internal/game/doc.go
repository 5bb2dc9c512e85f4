// Package game implements the hand engine for Texas Hold'em and Omaha.
//
// The main type is HandState, which runs a single dealt hand from blind
// posting through showdown: it validates and applies actions, tracks the
// pot and per-player commitments, advances the stage, and settles side pots.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	seats := []game.Seat{{Name: "Alice", Chips: 1000}, {Name: "Bob", Chips: 1000}, {Name: "Carol", Chips: 1000}}
//	h, err := game.StartHand(rng, seats, 5, 10, 0)
//	if err != nil {
//	    return err
//	}
//	for !h.IsOver() {
//	    if h.RoundComplete() {
//	        if err := h.AdvanceStage(); err != nil {
//	            return err
//	        }
//	        continue
//	    }
//	    seat := h.Actor()
//	    if err := h.Apply(seat, decide(h.View(seat))); err != nil {
//	        // IllegalAction: nothing was changed, ask again
//	    }
//	}
//	payouts, err := h.Settle()
//
// # Ownership
//
// HandState owns every Player record by value. Players and Player return
// copies, and the only mutation paths are Apply, ForceFold, AdvanceStage and
// Settle. A HandState must not be used from more than one goroutine at a time.
//
// # Determinism
//
// The deck is shuffled from the injected *rand.Rand unless a stacked deck is
// supplied with WithDeck, so a fixed seed replays the same hand.
package game
