// Package config loads table, bot profile and simulation settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/handengine/internal/bot"
	"github.com/lox/handengine/internal/evaluator"
)

// Config is the complete, defaulted configuration.
type Config struct {
	Table      TableSettings
	Profiles   []ProfileConfig
	Seats      []SeatConfig
	Simulation SimulationSettings
}

// TableSettings describes the game being played
type TableSettings struct {
	Variant       string `hcl:"variant,optional"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
}

// ProfileConfig defines or tweaks a bot profile. A profile named after a
// preset starts from that preset; otherwise it starts from Base (default
// "intermediate"). Only the attributes present override the starting values.
type ProfileConfig struct {
	Name        string   `hcl:"name,label"`
	Base        string   `hcl:"base,optional"`
	Tightness   *float64 `hcl:"tightness,optional"`
	Aggression  *float64 `hcl:"aggression,optional"`
	BluffRate   *float64 `hcl:"bluff_rate,optional"`
	MistakeRate *float64 `hcl:"mistake_rate,optional"`
	BetFraction *float64 `hcl:"bet_fraction,optional"`
	Trials      *int     `hcl:"trials,optional"`
}

// SeatConfig places a bot at the table
type SeatConfig struct {
	Name    string `hcl:"name,label"`
	Profile string `hcl:"profile,optional"`
	Chips   int    `hcl:"chips,optional"`
}

// SimulationSettings controls the bot-vs-bot simulator
type SimulationSettings struct {
	Hands    int    `hcl:"hands,optional"`
	Seed     int64  `hcl:"seed,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

type fileConfig struct {
	Table      *TableSettings      `hcl:"table,block"`
	Profiles   []ProfileConfig     `hcl:"profile,block"`
	Seats      []SeatConfig        `hcl:"seat,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

const (
	defaultVariant       = "holdem"
	defaultSmallBlind    = 5
	defaultBigBlind      = 10
	defaultStartingChips = 1000
	defaultProfile       = "intermediate"
	defaultHands         = 100
	defaultSeed          = 1
	defaultLogLevel      = "info"
)

// DefaultConfig returns a four-handed hold'em table with one seat per preset
func DefaultConfig() *Config {
	c := &Config{Seats: defaultSeats()}
	c.applyDefaults()
	return c
}

func defaultSeats() []SeatConfig {
	return []SeatConfig{
		{Name: "alice", Profile: "beginner"},
		{Name: "bob", Profile: "intermediate"},
		{Name: "carol", Profile: "expert"},
		{Name: "dave", Profile: "intermediate"},
	}
}

// Load reads configuration from an HCL file. A missing file yields DefaultConfig.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse reads configuration from HCL source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{
		Profiles: fc.Profiles,
		Seats:    fc.Seats,
	}
	if fc.Table != nil {
		c.Table = *fc.Table
	}
	if fc.Simulation != nil {
		c.Simulation = *fc.Simulation
	}
	if len(c.Seats) == 0 {
		c.Seats = defaultSeats()
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Table.Variant == "" {
		c.Table.Variant = defaultVariant
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = defaultSmallBlind
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = max(defaultBigBlind, 2*c.Table.SmallBlind)
	}
	if c.Table.StartingChips == 0 {
		c.Table.StartingChips = 100 * c.Table.BigBlind
	}

	for i := range c.Seats {
		if c.Seats[i].Profile == "" {
			c.Seats[i].Profile = defaultProfile
		}
		if c.Seats[i].Chips == 0 {
			c.Seats[i].Chips = c.Table.StartingChips
		}
	}

	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = defaultHands
	}
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = defaultSeed
	}
	if c.Simulation.LogLevel == "" {
		c.Simulation.LogLevel = defaultLogLevel
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := evaluator.ParseVariant(c.Table.Variant); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("table: small blind must be positive")
	}
	if c.Table.BigBlind < c.Table.SmallBlind {
		return fmt.Errorf("table: big blind must be at least the small blind")
	}
	if c.Table.StartingChips <= 0 {
		return fmt.Errorf("table: starting chips must be positive")
	}

	seen := make(map[string]bool)
	for _, p := range c.Profiles {
		if seen[p.Name] {
			return fmt.Errorf("profile %s: defined twice", p.Name)
		}
		seen[p.Name] = true
		if _, err := c.Profile(p.Name); err != nil {
			return err
		}
	}

	if len(c.Seats) < 2 {
		return fmt.Errorf("at least two seats must be configured")
	}
	if len(c.Seats) > 10 {
		return fmt.Errorf("at most ten seats may be configured, got %d", len(c.Seats))
	}
	names := make(map[string]bool)
	for _, s := range c.Seats {
		if names[s.Name] {
			return fmt.Errorf("seat %s: defined twice", s.Name)
		}
		names[s.Name] = true
		if s.Chips < 0 {
			return fmt.Errorf("seat %s: chips must not be negative", s.Name)
		}
		if _, err := c.Profile(s.Profile); err != nil {
			return fmt.Errorf("seat %s: %w", s.Name, err)
		}
	}

	if c.Simulation.Hands <= 0 {
		return fmt.Errorf("simulation: hands must be positive")
	}
	if _, err := log.ParseLevel(c.Simulation.LogLevel); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}

// Variant returns the configured game variant
func (c *Config) Variant() (evaluator.Variant, error) {
	return evaluator.ParseVariant(c.Table.Variant)
}

// LogLevel returns the configured simulation log level
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Simulation.LogLevel)
}

// Profile resolves a profile by name: a profile block with that name, or a preset.
func (c *Config) Profile(name string) (bot.Profile, error) {
	for _, pc := range c.Profiles {
		if pc.Name == name {
			return pc.resolve()
		}
	}
	return bot.ProfileByName(name)
}

func (pc ProfileConfig) resolve() (bot.Profile, error) {
	p, err := bot.ProfileByName(pc.Name)
	if err != nil {
		base := pc.Base
		if base == "" {
			base = defaultProfile
		}
		if p, err = bot.ProfileByName(base); err != nil {
			return bot.Profile{}, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
	}
	p.Name = pc.Name

	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Tightness, pc.Tightness)
	set(&p.Aggression, pc.Aggression)
	set(&p.BluffRate, pc.BluffRate)
	set(&p.MistakeRate, pc.MistakeRate)
	set(&p.BetFraction, pc.BetFraction)
	if pc.Trials != nil {
		p.Trials = *pc.Trials
	}

	if err := p.Validate(); err != nil {
		return bot.Profile{}, err
	}
	return p, nil
}
