package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/evaluator"
	"github.com/lox/handengine/internal/game"
	"github.com/lox/handengine/internal/randutil"
)

func riverView(hole, board string, toCall int) game.View {
	v := game.View{
		Stage:         game.River,
		Variant:       evaluator.Holdem,
		HoleCards:     deck.MustParseCards(hole),
		Board:         deck.MustParseCards(board),
		Pot:           100,
		Chips:         1000,
		CurrentBet:    toCall,
		ToCall:        toCall,
		MinRaise:      10,
		MinTarget:     max(10, 2*toCall),
		BigBlind:      10,
		LiveOpponents: 1,
	}
	if toCall == 0 {
		v.Legal = []game.ActionKind{game.Fold, game.Check, game.Bet, game.AllIn}
	} else {
		v.Legal = []game.ActionKind{game.Fold, game.Call, game.Raise, game.AllIn}
	}
	return v
}

func TestDecideBetsStrongHand(t *testing.T) {
	t.Parallel()
	profile := Expert
	profile.MistakeRate = 0
	profile.Aggression = 1

	a := NewPolicy(nil).Decide(riverView("AsAh", "AdAcKs2h7d", 0), profile, randutil.New(1))
	assert.Equal(t, game.BetTo(75), a)
}

func TestDecideRaisesStrongHandFacingBet(t *testing.T) {
	t.Parallel()
	profile := Expert
	profile.MistakeRate = 0
	profile.Aggression = 1

	a := NewPolicy(nil).Decide(riverView("AsAh", "AdAcKs2h7d", 50), profile, randutil.New(1))
	assert.Equal(t, game.RaiseTo(162), a, "50 plus three quarters of the 150 pot")
}

func TestDecideFoldsWeakHandFacingBet(t *testing.T) {
	t.Parallel()
	profile := Expert
	profile.MistakeRate = 0
	profile.BluffRate = 0

	a := NewPolicy(nil).Decide(riverView("3c2d", "AsKsQsJs9h", 100), profile, randutil.New(1))
	assert.Equal(t, game.Act(game.Fold), a)
}

func TestDecideChecksWeakHand(t *testing.T) {
	t.Parallel()
	profile := Expert
	profile.MistakeRate = 0
	profile.BluffRate = 0

	a := NewPolicy(nil).Decide(riverView("3c2d", "AsKsQsJs9h", 0), profile, randutil.New(1))
	assert.Equal(t, game.Act(game.Check), a)
}

func TestDecideWithoutChipsChecks(t *testing.T) {
	t.Parallel()
	v := riverView("AsAh", "AdAcKs2h7d", 0)
	v.Chips = 0
	assert.Equal(t, game.Act(game.Check), NewPolicy(nil).Decide(v, Expert, randutil.New(1)))
}

func TestDecideCallsAllInWhenShort(t *testing.T) {
	t.Parallel()
	profile := Expert
	profile.MistakeRate = 0
	profile.Aggression = 0

	v := riverView("AsAh", "AdAcKs2h7d", 400)
	v.Chips = 300
	v.Legal = []game.ActionKind{game.Fold, game.Call, game.AllIn}
	assert.Equal(t, game.Act(game.AllIn), NewPolicy(nil).Decide(v, profile, randutil.New(1)))
}

func TestDecideMistakeUsesMinimumTarget(t *testing.T) {
	t.Parallel()
	profile := Beginner
	profile.MistakeRate = 1

	v := riverView("3c2d", "AsKsQsJs9h", 40)
	v.Legal = []game.ActionKind{game.Raise}
	assert.Equal(t, game.RaiseTo(80), NewPolicy(nil).Decide(v, profile, randutil.New(3)))
}

func TestDecideIsDeterministic(t *testing.T) {
	t.Parallel()
	v := riverView("KhQh", "Jh9c4h2s7d", 30)
	for seed := int64(0); seed < 20; seed++ {
		a := NewPolicy(nil).Decide(v, Beginner, randutil.New(seed))
		b := NewPolicy(nil).Decide(v, Beginner, randutil.New(seed))
		assert.Equal(t, a, b, "seed %d", seed)
	}
}

func TestDecideAlwaysLegal(t *testing.T) {
	t.Parallel()
	profiles := []Profile{Beginner, Intermediate, Expert}
	for i := range profiles {
		profiles[i].Trials = 40
		profiles[i].MistakeRate = max(profiles[i].MistakeRate, 0.2)
	}
	policy := NewPolicy(nil)

	for seed := int64(0); seed < 60; seed++ {
		rng := randutil.New(seed)
		variant := evaluator.Holdem
		if seed%4 == 0 {
			variant = evaluator.Omaha
		}
		seats := []game.Seat{{Name: "a", Chips: 1000}, {Name: "b", Chips: 300}, {Name: "c", Chips: 1000}, {Name: "d", Chips: 45}}
		h, err := game.StartHand(rng, seats, 5, 10, int(seed)%len(seats), game.WithVariant(variant))
		require.NoError(t, err)

		for !h.IsOver() {
			if h.RoundComplete() {
				require.NoError(t, h.AdvanceStage())
				continue
			}
			seat := h.Actor()
			a := policy.Decide(h.View(seat), profiles[seat%len(profiles)], rng)
			require.NoError(t, h.Apply(seat, a), "seed %d seat %d %s", seed, seat, a)
		}
		_, err = h.Settle()
		require.NoError(t, err)
	}
}
