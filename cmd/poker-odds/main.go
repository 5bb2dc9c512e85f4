package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/handengine/internal/deck"
	"github.com/lox/handengine/internal/evaluator"
	"github.com/lox/handengine/internal/randutil"
)

type CLI struct {
	Hands      []string `arg:"" help:"Hole cards to evaluate, e.g. 'AsKd' (4 cards for omaha). Each hand is estimated on its own." required:"true"`
	Board      string   `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Opponents  int      `short:"o" help:"Number of opponents holding random cards" default:"1"`
	Variant    string   `short:"v" help:"Game variant" enum:"holdem,omaha" default:"holdem"`
	Iterations int      `short:"i" help:"Number of Monte Carlo iterations" default:"100000"`
	Workers    int      `short:"w" help:"Parallel workers; results are reproducible for a fixed seed and worker count" default:"1"`
	Seed       *int64   `help:"Random seed for reproducible results"`
	NoColor    bool     `help:"Disable colored output"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	equityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Estimate the equity of starting hands against random opponents."))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := run(context.Background(), cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

type handResult struct {
	Hand   []deck.Card
	Made   string
	Equity float64
}

func run(ctx context.Context, cli CLI, out io.Writer) error {
	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	rng := randutil.New(seed)

	variant, err := evaluator.ParseVariant(cli.Variant)
	if err != nil {
		return err
	}
	hands, err := parseHands(cli.Hands, variant)
	if err != nil {
		return fmt.Errorf("parsing hands: %w", err)
	}

	var board []deck.Card
	if cli.Board != "" {
		board, err = deck.ParseCards(cli.Board)
		if err != nil {
			return fmt.Errorf("parsing board: %w", err)
		}
		if len(board) > 5 {
			return fmt.Errorf("board cannot have more than 5 cards")
		}
	}

	start := time.Now()
	results := make([]handResult, 0, len(hands))
	for i, hand := range hands {
		if err := validateNoDuplicates(hand, board); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}

		var equity float64
		if cli.Workers > 1 {
			equity, err = evaluator.EstimateEquityParallel(ctx, hand, board, cli.Opponents, variant, cli.Iterations, cli.Workers, rng)
		} else {
			equity, err = evaluator.EstimateEquity(hand, board, cli.Opponents, variant, cli.Iterations, rng)
		}
		if err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}

		result := handResult{Hand: hand, Equity: equity}
		if len(board) >= 3 {
			rank, err := evaluator.Best(variant, hand, board)
			if err != nil {
				return fmt.Errorf("hand %d: %w", i+1, err)
			}
			result.Made = rank.Category.String()
		}
		results = append(results, result)
	}

	displayResults(out, results, board, cli, seed, time.Since(start))
	return nil
}

func parseHands(handStrings []string, variant evaluator.Variant) ([][]deck.Card, error) {
	var hands [][]deck.Card
	for i, handStr := range handStrings {
		hand, err := deck.ParseCards(strings.TrimSpace(handStr))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != variant.HoleCards() {
			return nil, fmt.Errorf("hand %d: %s needs exactly %d cards, got %d", i+1, variant, variant.HoleCards(), len(hand))
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func validateNoDuplicates(hand, board []deck.Card) error {
	seen := make(map[deck.Card]bool)
	for _, card := range append(append([]deck.Card(nil), board...), hand...) {
		if seen[card] {
			return fmt.Errorf("duplicate card found: %s", card)
		}
		seen[card] = true
	}
	return nil
}

func displayResults(out io.Writer, results []handResult, board []deck.Card, cli CLI, seed int64, duration time.Duration) {
	if len(board) > 0 {
		fmt.Fprintf(out, "%s\n", headerStyle.Render("board"))
		fmt.Fprintf(out, "%s\n\n", formatCards(board))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("made"),
		headerStyle.Render(fmt.Sprintf("equity vs %d", cli.Opponents)))
	for _, r := range results {
		made := r.Made
		if made == "" {
			made = "."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			handStyle.Render(formatCards(r.Hand)),
			categoryStyle.Render(made),
			equityStyle.Render(fmt.Sprintf("%.1f%%", r.Equity*100)))
	}
	w.Flush()

	fmt.Fprintf(out, "\n%s\n", footerStyle.Render(fmt.Sprintf("%s, %d iterations, %d worker(s), seed %d, %v",
		cli.Variant, cli.Iterations, max(cli.Workers, 1), seed, duration.Truncate(time.Millisecond))))
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}
