package deck

import "fmt"

// Suit represents a card suit. Suits carry no ranking weight.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// NumSuits is the number of suits in a standard deck.
const NumSuits = 4

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the compact notation letter for the suit (s, h, d, c).
func (s Suit) Letter() byte {
	switch s {
	case Spades:
		return 's'
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	case Clubs:
		return 'c'
	default:
		return '?'
	}
}

// Rank represents a card rank, ace high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks.
const NumRanks = 13

const rankChars = "23456789TJQKA"

// String returns the string representation of a rank
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card represents a playing card. Cards are values and never mutated.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Notation returns the compact two-character form used by ParseCards (e.g., "As").
func (c Card) Notation() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// Index maps the card to a unique value in [0, 52).
func (c Card) Index() int {
	return int(c.Rank-Two)*NumSuits + int(c.Suit)
}

// Valid reports whether the card has a known rank and suit.
func (c Card) Valid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Clubs
}

// FullDeck returns all 52 cards in canonical order.
func FullDeck() []Card {
	cards := make([]Card, 0, NumRanks*NumSuits)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Without returns the cards of FullDeck that are not in any of the given sets.
func Without(exclude ...[]Card) []Card {
	var used [NumRanks * NumSuits]bool
	for _, set := range exclude {
		for _, c := range set {
			used[c.Index()] = true
		}
	}
	remaining := make([]Card, 0, NumRanks*NumSuits)
	for _, c := range FullDeck() {
		if !used[c.Index()] {
			remaining = append(remaining, c)
		}
	}
	return remaining
}
