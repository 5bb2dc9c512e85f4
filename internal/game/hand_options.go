package game

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/handengine/internal/evaluator"
)

// HandOption configures a HandState during creation.
type HandOption func(*handConfig)

type handConfig struct {
	variant evaluator.Variant
	deck    Deck
	logger  *log.Logger
}

// WithVariant selects Hold'em (default) or Omaha.
func WithVariant(v evaluator.Variant) HandOption {
	return func(c *handConfig) {
		c.variant = v
	}
}

// WithDeck sets a specific pre-shuffled or stacked deck.
// This overrides the RNG for deck creation.
func WithDeck(d Deck) HandOption {
	return func(c *handConfig) {
		c.deck = d
	}
}

// WithLogger routes hand events to logger at debug level.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
