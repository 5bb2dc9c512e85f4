package game

import "github.com/lox/handengine/internal/deck"

// Seat is a roster entry handed to StartHand.
type Seat struct {
	Name  string
	Chips int
}

// Player represents a player in a hand
type Player struct {
	Seat       int
	Name       string
	Chips      int
	HoleCards  []deck.Card
	Folded     bool
	AllIn      bool
	SittingOut bool // No chips at the start of the hand; dealt out
	Bet        int  // Committed in the current betting round
	TotalBet   int  // Committed over the whole hand
}

// IsActive returns true if the player can still act
func (p *Player) IsActive() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}

// InHand returns true if the player still contests the pot
func (p *Player) InHand() bool {
	return !p.Folded
}

func (p Player) clone() Player {
	p.HoleCards = append([]deck.Card(nil), p.HoleCards...)
	return p
}
