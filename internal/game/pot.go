package game

import (
	"fmt"
	"slices"

	"github.com/lox/handengine/internal/evaluator"
)

// SidePot is one contribution tier of the pot.
type SidePot struct {
	Amount   int
	Level    int   // Total commitment that caps this tier
	Eligible []int // Seats that can win it, clockwise from the dealer's left
}

// SidePots splits the pot into tiers at every distinct total commitment.
// Each tier holds (level - previous level) from every player who committed at
// least level; only players still in the hand are eligible for it. A tier
// whose contributors have all folded is contested by those contributors.
func (h *HandState) SidePots() []SidePot {
	var levels []int
	for i := range h.players {
		if tb := h.players[i].TotalBet; tb > 0 && !slices.Contains(levels, tb) {
			levels = append(levels, tb)
		}
	}
	slices.Sort(levels)

	order := h.clockwiseFromButton()
	pots := make([]SidePot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		var contributors, eligible []int
		for _, seat := range order {
			p := &h.players[seat]
			if p.TotalBet < level {
				continue
			}
			contributors = append(contributors, seat)
			if p.InHand() {
				eligible = append(eligible, seat)
			}
		}
		if len(eligible) == 0 {
			eligible = contributors
		}
		pots = append(pots, SidePot{
			Amount:   (level - prev) * len(contributors),
			Level:    level,
			Eligible: eligible,
		})
		prev = level
	}
	return pots
}

// Settle pays out the pot and returns the chips won per seat. A fold-out pays
// the whole pot to the last player standing; a showdown pays every side pot
// to the best eligible hand, splitting ties evenly with odd chips going to the
// earliest winners clockwise from the dealer. Anything left over goes to the
// chip leader. Settle may be called once, after Showdown or HandOver.
func (h *HandState) Settle() (map[int]int, error) {
	if h.settled {
		return nil, ErrAlreadySettled
	}
	if !h.stage.Terminal() {
		return nil, fmt.Errorf("%w: stage %s", ErrHandNotOver, h.stage)
	}

	payouts := make(map[int]int)
	if h.inHand() == 1 {
		for i := range h.players {
			if h.players[i].InHand() {
				payouts[i] = h.pot
			}
		}
	} else {
		ranks, err := h.showdownRanks()
		if err != nil {
			return nil, err
		}
		distributed := 0
		for _, sp := range h.SidePots() {
			winners := bestHands(sp.Eligible, ranks)
			splitPot(sp.Amount, winners, payouts)
			distributed += sp.Amount
		}
		rest := h.pot - distributed
		invariant(rest >= 0, "side pots hold %d but pot is %d", distributed, h.pot)
		if rest > 0 {
			payouts[h.chipLeader(payouts)] += rest
		}
	}

	paid := 0
	for seat, amount := range payouts {
		h.players[seat].Chips += amount
		paid += amount
	}
	invariant(paid == h.pot, "paid %d from a pot of %d", paid, h.pot)

	h.logger.Debug("settled", "pot", h.pot, "payouts", payouts)
	h.pot = 0
	h.settled = true
	h.checkConservation()
	return payouts, nil
}

// Settled reports whether Settle has run.
func (h *HandState) Settled() bool { return h.settled }

func (h *HandState) showdownRanks() (map[int]evaluator.HandRank, error) {
	ranks := make(map[int]evaluator.HandRank)
	for i := range h.players {
		p := &h.players[i]
		if len(p.HoleCards) == 0 {
			continue
		}
		r, err := evaluator.Best(h.variant, p.HoleCards, h.board)
		if err != nil {
			return nil, fmt.Errorf("ranking seat %d: %w", i, err)
		}
		ranks[i] = r
	}
	return ranks, nil
}

// bestHands returns the seats holding the best rank, preserving seat order.
func bestHands(seats []int, ranks map[int]evaluator.HandRank) []int {
	var winners []int
	var best evaluator.HandRank
	for _, seat := range seats {
		r := ranks[seat]
		switch {
		case len(winners) == 0 || best.Less(r):
			best = r
			winners = []int{seat}
		case r == best:
			winners = append(winners, seat)
		}
	}
	return winners
}

// splitPot divides amount evenly; the remainder goes one chip at a time to
// the first winners in order.
func splitPot(amount int, winners []int, payouts map[int]int) {
	if len(winners) == 0 || amount <= 0 {
		return
	}
	share := amount / len(winners)
	remainder := amount % len(winners)
	for i, seat := range winners {
		payouts[seat] += share
		if i < remainder {
			payouts[seat]++
		}
	}
}

// chipLeader returns the seat with the most chips once payouts land, lowest
// seat on ties.
func (h *HandState) chipLeader(payouts map[int]int) int {
	leader := -1
	most := -1
	for i := range h.players {
		if c := h.players[i].Chips + payouts[i]; c > most {
			leader, most = i, c
		}
	}
	return leader
}

func (h *HandState) clockwiseFromButton() []int {
	n := len(h.players)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, (h.button+i)%n)
	}
	return order
}
