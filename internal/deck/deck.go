package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrDeckExhausted is returned when more cards are requested than remain.
	ErrDeckExhausted = errors.New("deck: exhausted")
	// ErrInvalidCard is returned for unparseable card notation.
	ErrInvalidCard = errors.New("deck: invalid card")
)

// Deck is a mutable sequence of cards dealt from the top.
type Deck struct {
	cards []Card
}

// New returns a full 52-card deck shuffled with rng.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{cards: FullDeck()}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// NewFromCards returns a deck that deals the given cards in order. Used to
// stack the deck for deterministic scenarios.
func NewFromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Deal removes and returns the top n cards. It never deals a partial hand:
// if fewer than n cards remain the deck is left untouched.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrDeckExhausted, n, len(d.cards))
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Burn discards the top card.
func (d *Deck) Burn() error {
	_, err := d.Deal(1)
	return err
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
