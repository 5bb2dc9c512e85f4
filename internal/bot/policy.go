// Package bot chooses actions for computer-controlled seats from a profile
// and a Monte Carlo equity estimate.
package bot

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/handengine/internal/evaluator"
	"github.com/lox/handengine/internal/game"
	"github.com/lox/handengine/internal/randutil"
)

// strongMargin is how far above the call threshold a hand must be to bet or
// raise for value.
const strongMargin = 0.20

// stageOffset makes pre-flop calls more demanding and river calls more lenient.
func stageOffset(s game.Stage) float64 {
	switch s {
	case game.PreFlop:
		return 0.05
	case game.Turn:
		return -0.02
	case game.River:
		return -0.05
	default:
		return 0
	}
}

// Policy decides actions for bot seats. It holds no per-hand state and is
// safe to share between seats.
type Policy struct {
	logger *log.Logger
}

// NewPolicy creates a policy that logs its reasoning to logger at debug level.
func NewPolicy(logger *log.Logger) *Policy {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Policy{logger: logger.WithPrefix("bot")}
}

// Decide returns a legal action for the seat v describes. All randomness,
// including the equity simulation, is drawn from rng.
func (p *Policy) Decide(v game.View, profile Profile, rng *rand.Rand) game.Action {
	if v.Chips == 0 || len(v.Legal) == 0 {
		return game.Act(game.Check)
	}

	equity := p.equity(v, profile, rng)

	if randutil.Chance(rng, profile.MistakeRate) {
		a := mistake(v, rng)
		p.logger.Debug("mistake", "seat", v.Seat, "equity", equity, "action", a)
		return a
	}

	callThreshold := profile.Tightness + stageOffset(v.Stage)
	strongThreshold := callThreshold + strongMargin
	potOdds := float64(v.ToCall) / float64(v.Pot+v.ToCall)

	a := choose(v, profile, rng, equity, callThreshold, strongThreshold, potOdds)
	p.logger.Debug("decision",
		"seat", v.Seat,
		"stage", v.Stage,
		"hole", v.HoleCards,
		"equity", equity,
		"call_threshold", callThreshold,
		"strong_threshold", strongThreshold,
		"pot_odds", potOdds,
		"to_call", v.ToCall,
		"action", a)
	return a
}

func choose(v game.View, profile Profile, rng *rand.Rand, equity, callThreshold, strongThreshold, potOdds float64) game.Action {
	if v.ToCall == 0 {
		switch {
		case equity >= strongThreshold && randutil.Chance(rng, profile.Aggression):
			return sized(v, game.Bet, profile.BetFraction*float64(v.Pot))
		case equity < callThreshold && randutil.Chance(rng, profile.BluffRate):
			return sized(v, game.Bet, profile.BetFraction*float64(v.Pot))
		}
		return game.Act(game.Check)
	}

	if equity < callThreshold && equity < potOdds && !randutil.Chance(rng, profile.BluffRate) {
		return game.Act(game.Fold)
	}
	if equity >= strongThreshold && v.CanDo(game.Raise) && randutil.Chance(rng, profile.Aggression) {
		return sized(v, game.Raise, profile.BetFraction*float64(v.Pot+v.ToCall))
	}
	if v.ToCall >= v.Chips {
		return game.Act(game.AllIn)
	}
	return game.Act(game.Call)
}

// sized builds a bet or raise of roughly extra chips over the current bet,
// clamped to what the table allows. A target covering the whole stack
// becomes an all-in.
func sized(v game.View, kind game.ActionKind, extra float64) game.Action {
	target := v.CurrentBet + int(extra)
	target = max(target, v.MinTarget)
	if target >= v.MaxTarget() {
		return game.Act(game.AllIn)
	}
	return game.Action{Kind: kind, Amount: target}
}

// mistake picks any legal action; sized actions use the minimum target.
func mistake(v game.View, rng *rand.Rand) game.Action {
	kind := randutil.Choice(rng, v.Legal)
	if kind == game.Bet || kind == game.Raise {
		return game.Action{Kind: kind, Amount: v.MinTarget}
	}
	return game.Act(kind)
}

func (p *Policy) equity(v game.View, profile Profile, rng *rand.Rand) float64 {
	trials := profile.Trials
	if trials <= 0 {
		trials = Intermediate.Trials
	}
	eq, err := evaluator.EstimateEquity(v.HoleCards, v.Board, v.LiveOpponents, v.Variant, trials, rng)
	if err != nil {
		p.logger.Warn("equity estimate failed, playing as the weakest hand", "seat", v.Seat, "err", err)
		return 0
	}
	return eq
}
