package game

import (
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/randutil"
)

// stackedDeck builds a deck that deals holes[seat] to each seat clockwise
// from the dealer's left (skipping empty entries), then burn+flop, burn+turn,
// burn+river from board. Burns and the tail are filled with unused cards.
func stackedDeck(t *testing.T, dealer int, holes []string, board string) *deck.Deck {
	t.Helper()
	var used []deck.Card
	var hole [][]deck.Card
	for _, h := range holes {
		cards := deck.MustParseCards(h)
		hole = append(hole, cards)
		used = append(used, cards...)
	}
	boardCards := deck.MustParseCards(board)
	require.Len(t, boardCards, 5)
	used = append(used, boardCards...)
	filler := deck.Without(used)

	var order []deck.Card
	n := len(holes)
	for i := 1; i <= n; i++ {
		order = append(order, hole[(dealer+i)%n]...)
	}
	order = append(order, filler[0])
	order = append(order, boardCards[:3]...)
	order = append(order, filler[1], boardCards[3], filler[2], boardCards[4])
	order = append(order, filler[3:]...)
	return deck.NewFromCards(order)
}

func seats(chips ...int) []Seat {
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}
	out := make([]Seat, len(chips))
	for i, c := range chips {
		out[i] = Seat{Name: names[i], Chips: c}
	}
	return out
}

func newTestHand(t *testing.T, dealer int, chips []int, opts ...HandOption) *HandState {
	t.Helper()
	h, err := StartHand(randutil.New(42), seats(chips...), 5, 10, dealer, opts...)
	require.NoError(t, err)
	return h
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func totalChips(h *HandState) int {
	sum := h.Pot()
	for _, p := range h.Players() {
		sum += p.Chips
	}
	return sum
}

// mustApply applies a sequence like "call", "raise 40", "check" for whoever is to act.
func mustApply(t *testing.T, h *HandState, actions ...string) {
	t.Helper()
	for _, s := range actions {
		a := parseAction(t, s)
		require.NoError(t, h.Apply(h.Actor(), a), "seat %d: %s", h.Actor(), s)
	}
}

func parseAction(t *testing.T, s string) Action {
	t.Helper()
	fields := strings.Fields(s)
	var amount int
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[1])
		require.NoError(t, err)
		amount = n
	}
	switch fields[0] {
	case "fold":
		return Act(Fold)
	case "check":
		return Act(Check)
	case "call":
		return Act(Call)
	case "bet":
		return BetTo(amount)
	case "raise":
		return RaiseTo(amount)
	case "allin":
		return Act(AllIn)
	}
	t.Fatalf("unknown action %q", s)
	return Action{}
}

// showdownHand builds a finished hand directly from player records.
func showdownHand(button int, board string, players ...Player) *HandState {
	h := &HandState{
		players: players,
		logger:  quietLogger(),
		button:  button,
		stage:   Showdown,
		board:   deck.MustParseCards(board),
		acted:   make([]bool, len(players)),
		actor:   -1,
	}
	for i := range h.players {
		h.players[i].Seat = i
		h.pot += h.players[i].TotalBet
		h.startingChips += h.players[i].Chips + h.players[i].TotalBet
	}
	return h
}
