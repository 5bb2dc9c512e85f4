// Package simulator plays bot-vs-bot hands on the engine, rotating the dealer
// and checking that no chips are created or destroyed along the way.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/handengine/internal/bot"
	"github.com/lox/handengine/internal/evaluator"
	"github.com/lox/handengine/internal/game"
	"github.com/lox/handengine/internal/handid"
	"github.com/lox/handengine/internal/phh"
	"github.com/lox/handengine/internal/randutil"
	"github.com/lox/handengine/internal/statistics"
)

var (
	// ErrConservation is returned when the chips at the table no longer add
	// up to what the session started with.
	ErrConservation = errors.New("simulator: chips not conserved")
	// ErrHandTimeout is returned when a single hand runs past Config.Timeout.
	ErrHandTimeout = errors.New("simulator: hand timed out")
)

// Seat is a bot at the table
type Seat struct {
	Name    string
	Chips   int
	Profile bot.Profile
}

// Config holds configuration for running simulations
type Config struct {
	Hands      int
	Seats      []Seat
	SmallBlind int
	BigBlind   int
	Variant    evaluator.Variant
	Seed       int64         // Hand n is dealt from Seed+n so any hand can be replayed alone
	Timeout    time.Duration // Per-hand budget; zero disables it
	History    io.Writer     // PHH session output; nil disables recording
	Logger     *log.Logger
	Clock      quartz.Clock
}

// SeatResult summarises one seat over the whole run
type SeatResult struct {
	Name    string
	Profile string
	Start   int
	Final   int
	Net     int
	Stats   statistics.Statistics
}

// Result summarises a run
type Result struct {
	HandsPlayed int
	Showdowns   int
	Seats       []SeatResult
	Elapsed     time.Duration
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	logger *log.Logger
	policy *bot.Policy
	ids    *handid.Generator
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{
		config: config,
		logger: config.Logger.WithPrefix("simulator"),
		policy: bot.NewPolicy(config.Logger),
	}
}

func (c Config) validate() error {
	if c.Hands <= 0 {
		return fmt.Errorf("hands must be positive, got %d", c.Hands)
	}
	if len(c.Seats) < 2 {
		return fmt.Errorf("at least two seats are required, got %d", len(c.Seats))
	}
	if c.SmallBlind <= 0 || c.BigBlind < c.SmallBlind {
		return fmt.Errorf("invalid blinds %d/%d", c.SmallBlind, c.BigBlind)
	}
	for _, s := range c.Seats {
		if s.Chips < 0 {
			return fmt.Errorf("seat %s: chips must not be negative", s.Name)
		}
		if err := s.Profile.Validate(); err != nil {
			return fmt.Errorf("seat %s: %w", s.Name, err)
		}
	}
	return nil
}

// Run plays up to Config.Hands hands, stopping early once fewer than two
// seats have chips.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.validate(); err != nil {
		return nil, err
	}
	start := s.config.Clock.Now()

	stacks := make([]int, len(s.config.Seats))
	total := 0
	for i, seat := range s.config.Seats {
		stacks[i] = seat.Chips
		total += seat.Chips
	}
	stats := make([]statistics.Statistics, len(stacks))
	if s.config.History != nil {
		s.ids = handid.NewGenerator(s.config.Clock, randutil.New(s.config.Seed))
	}

	s.logger.Info("simulation starting",
		"hands", s.config.Hands,
		"seats", len(stacks),
		"variant", s.config.Variant,
		"seed", s.config.Seed)

	result := &Result{}
	dealer := len(stacks) - 1
	for hand := 0; hand < s.config.Hands; hand++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if withChips(stacks) < 2 {
			s.logger.Info("stopping early, one seat holds every chip", "hand", hand)
			break
		}
		dealer = nextWithChips(stacks, dealer+1)

		before := append([]int(nil), stacks...)
		seed := s.config.Seed + int64(hand)
		showdown, err := s.playHand(ctx, hand+1, seed, stacks, dealer)
		if err != nil {
			return nil, fmt.Errorf("hand %d (seed %d): %w", hand+1, seed, err)
		}

		sum := 0
		for _, c := range stacks {
			sum += c
		}
		if sum != total {
			return nil, fmt.Errorf("%w: hand %d (seed %d) left %d chips, expected %d",
				ErrConservation, hand+1, seed, sum, total)
		}

		for i := range stacks {
			if before[i] == 0 {
				continue
			}
			stats[i].Add(statistics.HandResult{
				NetBB:          float64(stacks[i]-before[i]) / float64(s.config.BigBlind),
				WentToShowdown: showdown,
			})
		}
		result.HandsPlayed++
		if showdown {
			result.Showdowns++
		}
	}

	for i, seat := range s.config.Seats {
		if err := stats[i].Validate(); err != nil {
			return nil, fmt.Errorf("seat %s statistics: %w", seat.Name, err)
		}
		result.Seats = append(result.Seats, SeatResult{
			Name:    seat.Name,
			Profile: seat.Profile.Name,
			Start:   seat.Chips,
			Final:   stacks[i],
			Net:     stacks[i] - seat.Chips,
			Stats:   stats[i],
		})
	}
	result.Elapsed = s.config.Clock.Since(start)

	s.logger.Info("simulation finished",
		"hands", result.HandsPlayed,
		"showdowns", result.Showdowns,
		"elapsed", result.Elapsed)
	return result, nil
}

// playHand plays one hand to completion and writes the final stacks back.
// It reports whether the hand reached showdown.
func (s *Simulator) playHand(ctx context.Context, number int, seed int64, stacks []int, dealer int) (showdown bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(game.InvariantError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %v", ErrConservation, ie)
		}
	}()

	seats := make([]game.Seat, len(stacks))
	for i, c := range stacks {
		seats[i] = game.Seat{Name: s.config.Seats[i].Name, Chips: c}
	}
	rng := randutil.New(seed)
	h, err := game.StartHand(rng, seats, s.config.SmallBlind, s.config.BigBlind, dealer,
		game.WithVariant(s.config.Variant),
		game.WithLogger(s.config.Logger))
	if err != nil {
		return false, err
	}

	var rec *phh.Recorder
	if s.ids != nil {
		rec = phh.NewRecorder(h, s.ids.Generate(), s.config.Clock.Now())
		rec.SetSeed(seed)
	}

	started := s.config.Clock.Now()
	for !h.IsOver() {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if s.config.Timeout > 0 && s.config.Clock.Since(started) > s.config.Timeout {
			return false, fmt.Errorf("%w after %v in %s", ErrHandTimeout, s.config.Timeout, h.Stage())
		}
		if h.RoundComplete() {
			if err := h.AdvanceStage(); err != nil {
				return false, err
			}
			rec.Board(h.Board())
			continue
		}

		seat := h.Actor()
		before := h.CurrentBet()
		a := s.policy.Decide(h.View(seat), s.config.Seats[seat].Profile, rng)
		if err := h.Apply(seat, a); err != nil {
			s.logger.Warn("bot chose an illegal action, folding it", "seat", seat, "action", a, "err", err)
			if err := h.ForceFold(seat); err != nil {
				return false, err
			}
			a = game.Act(game.Fold)
		}
		rec.Action(seat, a, h.Player(seat).Bet, before)
	}

	showdown = h.Stage() == game.Showdown
	payouts, err := h.Settle()
	if err != nil {
		return false, err
	}
	for i, p := range h.Players() {
		stacks[i] = p.Chips
	}
	if rec != nil {
		rec.Finish(h, payouts)
		if err := phh.EncodeSection(s.config.History, number, rec.History()); err != nil {
			return false, fmt.Errorf("writing hand history: %w", err)
		}
	}
	s.logger.Debug("hand complete", "dealer", dealer, "showdown", showdown, "payouts", payouts)
	return showdown, nil
}

func withChips(stacks []int) int {
	n := 0
	for _, c := range stacks {
		if c > 0 {
			n++
		}
	}
	return n
}

func nextWithChips(stacks []int, from int) int {
	for i := range stacks {
		seat := (from + i) % len(stacks)
		if stacks[seat] > 0 {
			return seat
		}
	}
	return -1
}
