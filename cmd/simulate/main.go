package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/handengine/internal/config"
	"github.com/lox/handengine/internal/fileutil"
	"github.com/lox/handengine/internal/simulator"
)

type CLI struct {
	Config   string        `short:"c" help:"HCL configuration file (defaults are used when it does not exist)" default:"simulate.hcl" type:"path"`
	Hands    int           `help:"Number of hands to play (overrides the config)"`
	Seed     *int64        `help:"RNG seed (overrides the config)"`
	LogLevel string        `help:"Log level: debug, info, warn, error (overrides the config)"`
	Timeout  time.Duration `help:"Abort if a single hand takes longer than this" default:"5s"`
	History  string        `help:"Write every hand to this PHH session file" type:"path"`
	NoColor  bool          `help:"Disable colored output"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Play bot-vs-bot hands and report per-seat results."))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(runCtx, cli, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

func run(ctx context.Context, cli CLI, out, logOut io.Writer) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Hands > 0 {
		cfg.Simulation.Hands = cli.Hands
	}
	if cli.Seed != nil {
		cfg.Simulation.Seed = *cli.Seed
	}
	if cli.LogLevel != "" {
		cfg.Simulation.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(logOut, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	simCfg, err := simulatorConfig(cfg)
	if err != nil {
		return err
	}
	simCfg.Timeout = cli.Timeout
	simCfg.Logger = logger

	var history *fileutil.AtomicFile
	if cli.History != "" {
		history, err = fileutil.CreateAtomic(cli.History, 0o644)
		if err != nil {
			return fmt.Errorf("creating hand history: %w", err)
		}
		defer history.Abort()
		simCfg.History = history
	}

	result, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}
	printResults(out, cfg, result)
	if history != nil {
		if err := history.Commit(); err != nil {
			return fmt.Errorf("writing hand history: %w", err)
		}
		fmt.Fprintf(out, "Hand history written to %s\n", cli.History)
	}
	return nil
}

func simulatorConfig(cfg *config.Config) (simulator.Config, error) {
	variant, err := cfg.Variant()
	if err != nil {
		return simulator.Config{}, err
	}
	sc := simulator.Config{
		Hands:      cfg.Simulation.Hands,
		SmallBlind: cfg.Table.SmallBlind,
		BigBlind:   cfg.Table.BigBlind,
		Variant:    variant,
		Seed:       cfg.Simulation.Seed,
	}
	for _, seat := range cfg.Seats {
		profile, err := cfg.Profile(seat.Profile)
		if err != nil {
			return simulator.Config{}, fmt.Errorf("seat %s: %w", seat.Name, err)
		}
		sc.Seats = append(sc.Seats, simulator.Seat{
			Name:    seat.Name,
			Chips:   seat.Chips,
			Profile: profile,
		})
	}
	return sc, nil
}

func printResults(out io.Writer, cfg *config.Config, result *simulator.Result) {
	fmt.Fprintf(out, "%s\n", titleStyle.Render(fmt.Sprintf("%s %d/%d, %d hands (%d to showdown), seed %d",
		cfg.Table.Variant, cfg.Table.SmallBlind, cfg.Table.BigBlind,
		result.HandsPlayed, result.Showdowns, cfg.Simulation.Seed)))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("seat"),
		headerStyle.Render("profile"),
		headerStyle.Render("chips"),
		headerStyle.Render("net"),
		headerStyle.Render("bb/hand"),
		headerStyle.Render("95% CI"))
	for _, seat := range result.Seats {
		style := winStyle
		if seat.Net < 0 {
			style = lossStyle
		}
		low, high := seat.Stats.ConfidenceInterval95()
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			seat.Name,
			seat.Profile,
			seat.Final,
			style.Render(fmt.Sprintf("%+d", seat.Net)),
			style.Render(fmt.Sprintf("%+.3f", seat.Stats.Mean())),
			fmt.Sprintf("[%.3f, %.3f]", low, high))
	}
	w.Flush()

	fmt.Fprintf(out, "\nElapsed: %v\n", result.Elapsed.Truncate(time.Millisecond))
}
