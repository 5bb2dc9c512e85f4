package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handengine/internal/bot"
	"github.com/lox/handengine/internal/evaluator"
	"github.com/lox/handengine/internal/handid"
	"github.com/lox/handengine/internal/phh"
)

func quickProfile(base bot.Profile) bot.Profile {
	base.Trials = 30
	return base
}

func testConfig(t *testing.T, hands int, chips ...int) Config {
	profiles := []bot.Profile{bot.Beginner, bot.Intermediate, bot.Expert}
	seats := make([]Seat, len(chips))
	for i, c := range chips {
		seats[i] = Seat{
			Name:    string(rune('a' + i)),
			Chips:   c,
			Profile: quickProfile(profiles[i%len(profiles)]),
		}
	}
	return Config{
		Hands:      hands,
		Seats:      seats,
		SmallBlind: 5,
		BigBlind:   10,
		Variant:    evaluator.Holdem,
		Seed:       12345,
		Logger:     log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel}),
		Clock:      quartz.NewMock(t),
	}
}

func TestRunConservesChips(t *testing.T) {
	t.Parallel()
	config := testConfig(t, 30, 1000, 500, 1000, 250)
	result, err := New(config).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Seats, 4)
	total, net := 0, 0
	for _, seat := range result.Seats {
		total += seat.Final
		net += seat.Net
		assert.Equal(t, seat.Final-seat.Start, seat.Net, seat.Name)
	}
	assert.Equal(t, 2750, total)
	assert.Zero(t, net)
	assert.LessOrEqual(t, result.Showdowns, result.HandsPlayed)
	assert.Positive(t, result.HandsPlayed)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()
	a, err := New(testConfig(t, 15, 1000, 1000, 1000)).Run(context.Background())
	require.NoError(t, err)
	b, err := New(testConfig(t, 15, 1000, 1000, 1000)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunOmaha(t *testing.T) {
	t.Parallel()
	config := testConfig(t, 10, 1000, 1000, 1000)
	config.Variant = evaluator.Omaha
	result, err := New(config).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, result.HandsPlayed)
}

func TestRunSkipsEmptySeats(t *testing.T) {
	t.Parallel()
	config := testConfig(t, 10, 1000, 0, 1000)
	result, err := New(config).Run(context.Background())
	require.NoError(t, err)

	empty := result.Seats[1]
	assert.Zero(t, empty.Final)
	assert.Zero(t, empty.Stats.Hands)
}

func TestRunStopsWithoutTwoStacks(t *testing.T) {
	t.Parallel()
	result, err := New(testConfig(t, 10, 1000, 0)).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.HandsPlayed)
	assert.Equal(t, 1000, result.Seats[0].Final)
}

func TestRunElapsedUsesClock(t *testing.T) {
	t.Parallel()
	config := testConfig(t, 3, 1000, 1000)
	result, err := New(config).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Elapsed, "a mock clock never moves on its own")
}

func TestRunHonoursContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig(t, 10, 1000, 1000)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunHandTimeout(t *testing.T) {
	t.Parallel()
	config := testConfig(t, 5, 1000, 1000, 1000)
	config.Clock = quartz.NewReal()
	config.Timeout = time.Nanosecond
	_, err := New(config).Run(context.Background())
	assert.ErrorIs(t, err, ErrHandTimeout)
}

func TestRunValidatesConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no hands", func(c *Config) { c.Hands = 0 }},
		{"one seat", func(c *Config) { c.Seats = c.Seats[:1] }},
		{"bad blinds", func(c *Config) { c.BigBlind = 2 }},
		{"negative chips", func(c *Config) { c.Seats[0].Chips = -1 }},
		{"bad profile", func(c *Config) { c.Seats[1].Profile.Trials = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig(t, 5, 1000, 1000)
			tt.mutate(&config)
			_, err := New(config).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestRunWritesHandHistory(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	config := testConfig(t, 4, 1000, 1000, 1000)
	config.History = &buf
	result, err := New(config).Run(context.Background())
	require.NoError(t, err)

	hands, err := phh.DecodeSession(&buf)
	require.NoError(t, err)
	require.Len(t, hands, result.HandsPlayed)

	seen := map[string]bool{}
	for n := 1; n <= result.HandsPlayed; n++ {
		hand, ok := hands[n]
		require.True(t, ok, "hand %d missing", n)
		assert.Equal(t, "NT", hand.Variant)
		assert.Equal(t, config.Seed+int64(n-1), hand.Seed)
		assert.Equal(t, []string{"a", "b", "c"}, hand.Players)
		require.NoError(t, handid.Validate(hand.HandID))
		assert.False(t, seen[hand.HandID], "duplicate hand id")
		seen[hand.HandID] = true

		start, finish := 0, 0
		for i := range hand.StartingStacks {
			start += hand.StartingStacks[i]
			finish += hand.FinishingStacks[i]
		}
		assert.Equal(t, start, finish, "hand %d", n)
		assert.NotEmpty(t, hand.Actions)
	}
}
