package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/evaluator"
)

// Deck is the card supply a hand deals from.
type Deck interface {
	Deal(n int) ([]deck.Card, error)
	Burn() error
}

// HandState represents the state of a poker hand
type HandState struct {
	players []Player
	variant evaluator.Variant
	deck    Deck
	logger  *log.Logger

	button     int
	smallBlind int
	bigBlind   int

	stage      Stage
	board      []deck.Card
	pot        int
	currentBet int    // Highest commitment this round
	minRaise   int    // Smallest legal increment over currentBet
	actor      int    // Seat to act, -1 when nobody owes action
	acted      []bool // Acted since the last full bet or raise

	startingChips int // Sum of stacks before blinds; conserved until settlement
	settled       bool
}

// StartHand posts blinds, deals hole cards and sets the first actor. Seats
// with no chips are dealt out. The rng shuffles the deck unless WithDeck is
// given.
func StartHand(rng *rand.Rand, seats []Seat, smallBlind, bigBlind, dealer int, opts ...HandOption) (*HandState, error) {
	cfg := &handConfig{
		variant: evaluator.Holdem,
		logger:  discardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.deck == nil && rng == nil {
		panic("rng is required for hand creation")
	}
	if smallBlind < 0 || bigBlind <= 0 || smallBlind > bigBlind {
		return nil, fmt.Errorf("game: invalid blinds %d/%d", smallBlind, bigBlind)
	}
	if dealer < 0 || dealer >= len(seats) {
		return nil, fmt.Errorf("game: dealer seat %d out of range", dealer)
	}

	live := 0
	total := 0
	for _, s := range seats {
		if s.Chips < 0 {
			return nil, fmt.Errorf("game: seat %q has negative chips", s.Name)
		}
		if s.Chips > 0 {
			live++
		}
		total += s.Chips
	}
	if live < 2 {
		return nil, fmt.Errorf("%w: %d seats with chips", ErrInsufficientPlayers, live)
	}

	d := cfg.deck
	if d == nil {
		d = deck.New(rng)
	}

	h := &HandState{
		players:       make([]Player, len(seats)),
		variant:       cfg.variant,
		deck:          d,
		logger:        cfg.logger.WithPrefix("hand"),
		button:        dealer,
		smallBlind:    smallBlind,
		bigBlind:      bigBlind,
		stage:         PreFlop,
		actor:         -1,
		acted:         make([]bool, len(seats)),
		startingChips: total,
	}
	for i, s := range seats {
		h.players[i] = Player{
			Seat:       i,
			Name:       s.Name,
			Chips:      s.Chips,
			SittingOut: s.Chips == 0,
			Folded:     s.Chips == 0,
		}
	}

	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	sbSeat, bbSeat := h.blindSeats(live)
	h.commit(sbSeat, min(smallBlind, h.players[sbSeat].Chips))
	h.commit(bbSeat, min(bigBlind, h.players[bbSeat].Chips))
	h.currentBet = bigBlind
	h.minRaise = bigBlind

	// Heads-up the small blind (dealer) opens; otherwise the seat after the big blind.
	first := bbSeat + 1
	if live == 2 {
		first = sbSeat
	}
	h.setActor(first)

	h.logger.Debug("hand started",
		"variant", h.variant,
		"dealer", dealer,
		"small_blind", sbSeat,
		"big_blind", bbSeat,
		"pot", h.pot,
		"actor", h.actor)
	h.checkConservation()
	return h, nil
}

func (h *HandState) dealHoleCards() error {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		p := &h.players[(h.button+i)%n]
		if p.SittingOut {
			continue
		}
		cards, err := h.deck.Deal(h.variant.HoleCards())
		if err != nil {
			return fmt.Errorf("dealing hole cards: %w", err)
		}
		p.HoleCards = cards
	}
	return nil
}

// blindSeats returns the small and big blind seats. Heads-up the dealer posts
// the small blind.
func (h *HandState) blindSeats(live int) (int, int) {
	sb := h.nextLive(h.button + 1)
	if live == 2 && !h.players[h.button].SittingOut {
		sb = h.button
	}
	return sb, h.nextLive(sb + 1)
}

func (h *HandState) nextLive(from int) int {
	n := len(h.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if !h.players[seat].SittingOut {
			return seat
		}
	}
	return -1
}

// Apply validates and applies a for seat. On error nothing changes.
func (h *HandState) Apply(seat int, a Action) error {
	if err := h.validate(seat, a); err != nil {
		return err
	}
	p := &h.players[seat]

	switch a.Kind {
	case Fold:
		p.Folded = true
		h.acted[seat] = true
	case Check:
		h.acted[seat] = true
	case Call:
		h.commit(seat, min(h.currentBet-p.Bet, p.Chips))
		h.acted[seat] = true
	case Bet, Raise:
		h.raiseTo(seat, a.Amount)
	case AllIn:
		if target := p.Bet + p.Chips; target > h.currentBet {
			h.raiseTo(seat, target)
		} else {
			h.commit(seat, p.Chips)
			h.acted[seat] = true
		}
	}

	h.logger.Debug("action",
		"stage", h.stage,
		"seat", seat,
		"player", p.Name,
		"action", a.Kind,
		"bet", p.Bet,
		"chips", p.Chips,
		"pot", h.pot)

	h.afterAction(seat + 1)
	h.checkConservation()
	return nil
}

// ForceFold folds seat regardless of turn order. The orchestrator uses it
// for abandoned seats such as a disconnected player.
func (h *HandState) ForceFold(seat int) error {
	if h.stage.Terminal() {
		return illegal("hand is over (%s)", h.stage)
	}
	if seat < 0 || seat >= len(h.players) || h.players[seat].Folded || h.players[seat].AllIn {
		return illegal("seat %d cannot fold", seat)
	}
	h.players[seat].Folded = true
	h.acted[seat] = true
	h.logger.Debug("forced fold", "seat", seat, "player", h.players[seat].Name)

	// The action only moves on if the folded seat was the one to act.
	next := seat + 1
	if h.actor >= 0 && h.actor != seat {
		next = h.actor
	}
	h.afterAction(next)
	return nil
}

func (h *HandState) afterAction(next int) {
	if h.inHand() == 1 {
		h.stage = HandOver
		h.actor = -1
		h.logger.Debug("hand over, everyone else folded", "pot", h.pot)
		return
	}
	h.setActor(next)
}

// raiseTo moves seat's commitment to target. A full-size raise (or the
// opening bet of a round) reopens the action for everyone else; a short
// all-in raise leaves the acted-set alone so players who already acted may
// only call or fold.
func (h *HandState) raiseTo(seat, target int) {
	p := &h.players[seat]
	increment := target - h.currentBet
	full := h.currentBet == 0 || increment >= h.minRaise

	h.commit(seat, target-p.Bet)
	h.currentBet = target
	if full {
		h.minRaise = increment
		clear(h.acted)
	}
	h.acted[seat] = true
}

// commit moves amount from seat's stack into the pot.
func (h *HandState) commit(seat, amount int) {
	p := &h.players[seat]
	invariant(amount >= 0 && amount <= p.Chips, "seat %d commits %d with %d chips", seat, amount, p.Chips)
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	h.pot += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// RoundComplete reports whether the current betting round is finished: every
// player who can still act has matched the current bet and acted since the
// last full bet or raise. A lone player who can act and has already matched
// has nobody left to bet against.
func (h *HandState) RoundComplete() bool {
	if h.stage.Terminal() {
		return true
	}
	canAct := 0
	for i := range h.players {
		p := &h.players[i]
		if !p.IsActive() {
			continue
		}
		canAct++
		if p.Bet != h.currentBet {
			return false
		}
	}
	if canAct <= 1 {
		return true
	}
	for i := range h.players {
		if h.players[i].IsActive() && !h.acted[i] {
			return false
		}
	}
	return true
}

// setActor moves the action to the first seat from `from` that owes action,
// or to -1 once the round is complete.
func (h *HandState) setActor(from int) {
	h.actor = -1
	if h.RoundComplete() {
		return
	}
	n := len(h.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		p := &h.players[seat]
		if p.IsActive() && (!h.acted[seat] || p.Bet < h.currentBet) {
			h.actor = seat
			return
		}
	}
}

// AdvanceStage closes a complete betting round, burns and deals the next
// street, and hands the action to the first live seat after the dealer.
// From the river it moves to Showdown.
func (h *HandState) AdvanceStage() error {
	if h.stage.Terminal() {
		return ErrHandOver
	}
	if !h.RoundComplete() {
		return fmt.Errorf("%w: seat %d to act in %s", ErrRoundIncomplete, h.actor, h.stage)
	}

	var dealt []deck.Card
	if n := streetCards(h.stage); n > 0 {
		if err := h.deck.Burn(); err != nil {
			return fmt.Errorf("burning before %s: %w", h.stage+1, err)
		}
		cards, err := h.deck.Deal(n)
		if err != nil {
			return fmt.Errorf("dealing %s: %w", h.stage+1, err)
		}
		dealt = cards
	}

	for i := range h.players {
		h.players[i].Bet = 0
	}
	clear(h.acted)
	h.currentBet = 0
	h.minRaise = h.bigBlind
	h.board = append(h.board, dealt...)
	h.stage++

	h.logger.Debug("stage advanced", "stage", h.stage, "board", h.board, "pot", h.pot)

	if h.stage == Showdown {
		h.actor = -1
		return nil
	}
	h.setActor(h.button + 1)
	return nil
}

func streetCards(s Stage) int {
	switch s {
	case PreFlop:
		return 3
	case Flop, Turn:
		return 1
	default:
		return 0
	}
}

func (h *HandState) inHand() int {
	n := 0
	for i := range h.players {
		if h.players[i].InHand() {
			n++
		}
	}
	return n
}

func (h *HandState) checkConservation() {
	sum := h.pot
	for i := range h.players {
		invariant(h.players[i].Chips >= 0, "seat %d has %d chips", i, h.players[i].Chips)
		sum += h.players[i].Chips
	}
	invariant(sum == h.startingChips, "chips %d != starting %d", sum, h.startingChips)
}

// Stage returns the current stage
func (h *HandState) Stage() Stage { return h.stage }

// IsOver returns true once the hand reached Showdown or HandOver
func (h *HandState) IsOver() bool { return h.stage.Terminal() }

// Pot returns the chips committed by all players so far
func (h *HandState) Pot() int { return h.pot }

// CurrentBet returns the highest commitment in the current round
func (h *HandState) CurrentBet() int { return h.currentBet }

// MinRaise returns the minimum legal raise increment
func (h *HandState) MinRaise() int { return h.minRaise }

// Actor returns the seat to act, or -1 if nobody owes action
func (h *HandState) Actor() int { return h.actor }

// Button returns the dealer seat
func (h *HandState) Button() int { return h.button }

// BigBlind returns the big blind amount
func (h *HandState) BigBlind() int { return h.bigBlind }

// Variant returns the game variant
func (h *HandState) Variant() evaluator.Variant { return h.variant }

// Board returns a copy of the community cards
func (h *HandState) Board() []deck.Card { return append([]deck.Card(nil), h.board...) }

// Players returns copies of every player record in seat order
func (h *HandState) Players() []Player {
	out := make([]Player, len(h.players))
	for i, p := range h.players {
		out[i] = p.clone()
	}
	return out
}

// Player returns a copy of the record for seat
func (h *HandState) Player(seat int) Player { return h.players[seat].clone() }

// ToCall returns how much seat must add to match the current bet
func (h *HandState) ToCall(seat int) int { return h.currentBet - h.players[seat].Bet }

// MinTarget returns the smallest total a Bet or Raise from seat may reach.
// A stack that cannot make a full raise may still go all-in for less.
func (h *HandState) MinTarget(seat int) int {
	p := &h.players[seat]
	return min(h.currentBet+h.minRaise, p.Bet+p.Chips)
}
