package evaluator

import (
	"strings"

	"github.com/lox/handengine/internal/deck"
)

// Category is the class of a five-card poker hand, weakest first.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the readable name of the category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is a totally ordered hand strength: category first, then the
// tiebreak ranks in descending significance. Unused tiebreak slots are zero,
// so two HandRanks are a tie exactly when they are ==.
type HandRank struct {
	Category Category
	Tiebreak [5]deck.Rank
}

// Compare returns -1 if h is weaker, 0 if equal, 1 if h is stronger
func (h HandRank) Compare(other HandRank) int {
	if h.Category != other.Category {
		if h.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := range h.Tiebreak {
		switch {
		case h.Tiebreak[i] < other.Tiebreak[i]:
			return -1
		case h.Tiebreak[i] > other.Tiebreak[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether h is strictly weaker than other.
func (h HandRank) Less(other HandRank) bool {
	return h.Compare(other) < 0
}

// String returns e.g. "Full House (K, 9)".
func (h HandRank) String() string {
	var ranks []string
	for _, r := range h.Tiebreak {
		if r == 0 {
			break
		}
		ranks = append(ranks, r.String())
	}
	return h.Category.String() + " (" + strings.Join(ranks, ", ") + ")"
}
