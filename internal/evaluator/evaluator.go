// Package evaluator ranks poker hands and estimates equity by Monte Carlo
// sampling.
package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/handengine/internal/deck"
)

// ErrInvalidHand is returned when the card counts do not describe a rankable hand.
var ErrInvalidHand = errors.New("evaluator: invalid hand")

// Variant selects the hole-card rules used to build a five-card hand.
type Variant int

const (
	Holdem Variant = iota
	Omaha
)

// HoleCards returns how many hole cards each player is dealt.
func (v Variant) HoleCards() int {
	if v == Omaha {
		return 4
	}
	return 2
}

func (v Variant) String() string {
	if v == Omaha {
		return "omaha"
	}
	return "holdem"
}

// ParseVariant accepts "holdem" or "omaha".
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "holdem", "hold'em", "texas":
		return Holdem, nil
	case "omaha", "plo":
		return Omaha, nil
	default:
		return Holdem, fmt.Errorf("unknown variant %q", s)
	}
}

// Rank returns the best HandRank over every five-card subset of 5 to 7 cards.
// Any subset is legal; Omaha callers go through BestOmaha instead.
func Rank(cards []deck.Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("%w: %d cards", ErrInvalidHand, len(cards))
	}
	if len(cards) == 5 {
		return rankFive([5]deck.Card(cards)), nil
	}

	var best HandRank
	first := true
	eachFive(cards, func(five [5]deck.Card) {
		r := rankFive(five)
		if first || best.Less(r) {
			best, first = r, false
		}
	})
	return best, nil
}

// MustRank is Rank for inputs known to be valid; it panics otherwise.
func MustRank(cards []deck.Card) HandRank {
	r, err := Rank(cards)
	if err != nil {
		panic(err)
	}
	return r
}

// BestOmaha ranks the best hand using exactly two hole cards and exactly three
// board cards.
func BestOmaha(hole, board []deck.Card) (HandRank, error) {
	if len(hole) < 2 || len(hole) > 4 || len(board) < 3 || len(board) > 5 {
		return HandRank{}, fmt.Errorf("%w: omaha needs 2-4 hole and 3-5 board cards, got %d and %d",
			ErrInvalidHand, len(hole), len(board))
	}

	var best HandRank
	first := true
	var five [5]deck.Card
	for i := 0; i < len(hole); i++ {
		for j := i + 1; j < len(hole); j++ {
			five[0], five[1] = hole[i], hole[j]
			for a := 0; a < len(board); a++ {
				for b := a + 1; b < len(board); b++ {
					for c := b + 1; c < len(board); c++ {
						five[2], five[3], five[4] = board[a], board[b], board[c]
						r := rankFive(five)
						if first || best.Less(r) {
							best, first = r, false
						}
					}
				}
			}
		}
	}
	return best, nil
}

// Best ranks a player's hand under the variant's hole-card rules.
func Best(v Variant, hole, board []deck.Card) (HandRank, error) {
	if v == Omaha {
		return BestOmaha(hole, board)
	}
	cards := make([]deck.Card, 0, len(hole)+len(board))
	cards = append(cards, hole...)
	cards = append(cards, board...)
	return Rank(cards)
}

// eachFive calls fn with every five-card subset of cards (len 6 or 7).
func eachFive(cards []deck.Card, fn func([5]deck.Card)) {
	n := len(cards)
	var five [5]deck.Card
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						five = [5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						fn(five)
					}
				}
			}
		}
	}
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

func rankFive(cards [5]deck.Card) HandRank {
	var counts [deck.Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	groups := make([]rankGroup, 0, 5)
	for r := deck.Ace; r >= deck.Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	// Larger groups first, higher rank breaks ties; this order is the tiebreak.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	var tiebreak [5]deck.Rank
	for i, g := range groups {
		tiebreak[i] = g.rank
	}

	if len(groups) == 5 {
		high, straight := straightHigh(groups)
		switch {
		case straight && flush:
			return HandRank{Category: StraightFlush, Tiebreak: [5]deck.Rank{high}}
		case flush:
			return HandRank{Category: Flush, Tiebreak: tiebreak}
		case straight:
			return HandRank{Category: Straight, Tiebreak: [5]deck.Rank{high}}
		default:
			return HandRank{Category: HighCard, Tiebreak: tiebreak}
		}
	}

	switch {
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreak: tiebreak}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreak: tiebreak}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreak: tiebreak}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreak: tiebreak}
	default:
		return HandRank{Category: Pair, Tiebreak: tiebreak}
	}
}

// straightHigh expects five distinct ranks in descending order. The wheel
// (A-5-4-3-2) is a five-high straight.
func straightHigh(groups []rankGroup) (deck.Rank, bool) {
	if groups[0].rank-groups[4].rank == 4 {
		return groups[0].rank, true
	}
	if groups[0].rank == deck.Ace && groups[1].rank == deck.Five && groups[4].rank == deck.Two {
		return deck.Five, true
	}
	return 0, false
}
