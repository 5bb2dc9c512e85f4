package bot

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProfile is returned by ProfileByName for names without a preset.
var ErrUnknownProfile = errors.New("bot: unknown profile")

// Profile tunes how a bot plays. Rates and thresholds are probabilities or
// equities in [0,1].
type Profile struct {
	Name string
	// Tightness is the equity needed to continue on the flop; other streets
	// shift it by a fixed offset.
	Tightness float64
	// Aggression is the chance of betting or raising a strong hand rather
	// than checking or calling.
	Aggression float64
	// BluffRate is the chance of betting weak hands and of continuing with a
	// hand that should fold.
	BluffRate float64
	// MistakeRate is the chance of picking a random legal action.
	MistakeRate float64
	// BetFraction sizes bets and raises as a fraction of the pot.
	BetFraction float64
	// Trials is the number of Monte Carlo deals per equity estimate.
	Trials int
}

// Presets.
var (
	Beginner = Profile{
		Name:        "beginner",
		Tightness:   0.25,
		Aggression:  0.30,
		BluffRate:   0.10,
		MistakeRate: 0.15,
		BetFraction: 0.50,
		Trials:      200,
	}
	Intermediate = Profile{
		Name:        "intermediate",
		Tightness:   0.35,
		Aggression:  0.50,
		BluffRate:   0.06,
		MistakeRate: 0.05,
		BetFraction: 0.66,
		Trials:      500,
	}
	Expert = Profile{
		Name:        "expert",
		Tightness:   0.40,
		Aggression:  0.65,
		BluffRate:   0.08,
		MistakeRate: 0.01,
		BetFraction: 0.75,
		Trials:      1500,
	}
)

// Presets lists the built-in profiles from weakest to strongest.
func Presets() []Profile {
	return []Profile{Beginner, Intermediate, Expert}
}

// ProfileByName returns the preset with the given name, ignoring case.
func ProfileByName(name string) (Profile, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Validate checks that every rate is a probability and that Trials is positive.
func (p Profile) Validate() error {
	rates := []struct {
		name  string
		value float64
	}{
		{"tightness", p.Tightness},
		{"aggression", p.Aggression},
		{"bluff_rate", p.BluffRate},
		{"mistake_rate", p.MistakeRate},
		{"bet_fraction", p.BetFraction},
	}
	for _, r := range rates {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("profile %q: %s must be within [0,1], got %v", p.Name, r.name, r.value)
		}
	}
	if p.Trials <= 0 {
		return fmt.Errorf("profile %q: trials must be positive, got %d", p.Name, p.Trials)
	}
	return nil
}
