package evaluator

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// tally holds the results from a Monte Carlo run
type tally struct {
	wins   int
	ties   int
	trials int
}

func (t tally) equity() float64 {
	if t.trials == 0 {
		return 0
	}
	return (float64(t.wins) + float64(t.ties)/2.0) / float64(t.trials)
}

// EstimateEquity estimates the probability that hole wins against opponents
// unknown hands, given the known board. Ties count half. With no opponents the
// result is 1 and rng is not touched.
//
// Each trial shuffles the unseen cards with rng, deals every opponent its hole
// cards and completes the board, so the estimate is a pure function of the
// inputs and the generator state.
func EstimateEquity(hole, board []deck.Card, opponents int, variant Variant, trials int, rng *rand.Rand) (float64, error) {
	pool, err := equityPool(hole, board, opponents, variant, trials)
	if err != nil {
		return 0, err
	}
	if opponents == 0 {
		return 1, nil
	}
	return runTrials(hole, board, pool, opponents, variant, trials, rng).equity(), nil
}

// EstimateEquityParallel splits trials across workers. Worker seeds are drawn
// from rng in worker order, so the result is reproducible for a fixed seed and
// worker count, though it differs from the sequential estimate.
func EstimateEquityParallel(ctx context.Context, hole, board []deck.Card, opponents int, variant Variant, trials, workers int, rng *rand.Rand) (float64, error) {
	pool, err := equityPool(hole, board, opponents, variant, trials)
	if err != nil {
		return 0, err
	}
	if opponents == 0 {
		return 1, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > trials {
		workers = trials
	}

	seeds := make([]int64, workers)
	for w := range seeds {
		seeds[w] = randutil.Derive(rng)
	}

	results := make([]tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		workerTrials := trials / workers
		if w < trials%workers {
			workerTrials++
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Each worker shuffles its own copy of the pool.
			own := append([]deck.Card(nil), pool...)
			results[w] = runTrials(hole, board, own, opponents, variant, workerTrials, randutil.New(seeds[w]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total tally
	for _, r := range results {
		total.wins += r.wins
		total.ties += r.ties
		total.trials += r.trials
	}
	return total.equity(), nil
}

func equityPool(hole, board []deck.Card, opponents int, variant Variant, trials int) ([]deck.Card, error) {
	if len(hole) != variant.HoleCards() {
		return nil, fmt.Errorf("%w: %s needs %d hole cards, got %d", ErrInvalidHand, variant, variant.HoleCards(), len(hole))
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("%w: board has %d cards", ErrInvalidHand, len(board))
	}
	if opponents < 0 || trials <= 0 {
		return nil, fmt.Errorf("%w: opponents=%d trials=%d", ErrInvalidHand, opponents, trials)
	}

	pool := deck.Without(hole, board)
	need := opponents*variant.HoleCards() + 5 - len(board)
	if need > len(pool) {
		return nil, fmt.Errorf("%w: %d opponents need %d unseen cards, have %d",
			deck.ErrDeckExhausted, opponents, need, len(pool))
	}
	return pool, nil
}

// runTrials shuffles pool in place on every trial.
func runTrials(hole, board, pool []deck.Card, opponents int, variant Variant, trials int, rng *rand.Rand) tally {
	holeN := variant.HoleCards()
	missing := 5 - len(board)

	fullBoard := make([]deck.Card, 5)
	copy(fullBoard, board)

	var t tally
	for i := 0; i < trials; i++ {
		rng.Shuffle(len(pool), func(a, b int) {
			pool[a], pool[b] = pool[b], pool[a]
		})
		copy(fullBoard[len(board):], pool[:missing])
		next := missing

		hero := mustBest(variant, hole, fullBoard)
		var bestOpp HandRank
		for o := 0; o < opponents; o++ {
			r := mustBest(variant, pool[next:next+holeN], fullBoard)
			next += holeN
			if o == 0 || bestOpp.Less(r) {
				bestOpp = r
			}
		}

		switch hero.Compare(bestOpp) {
		case 1:
			t.wins++
		case 0:
			t.ties++
		}
		t.trials++
	}
	return t
}

func mustBest(v Variant, hole, board []deck.Card) HandRank {
	r, err := Best(v, hole, board)
	if err != nil {
		panic(err)
	}
	return r
}
