package deck

import (
	"testing"

	"github.com/lox/handengine/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullDeckIsUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[int]bool)
	for _, c := range FullDeck() {
		require.True(t, c.Valid(), "card %v", c)
		require.False(t, seen[c.Index()], "duplicate %v", c)
		seen[c.Index()] = true
	}
	assert.Len(t, seen, 52)
}

func TestWithoutExcludesKnownCards(t *testing.T) {
	t.Parallel()
	hole := MustParseCards("AsAd")
	board := MustParseCards("Kh7c2d")
	pool := Without(hole, board)
	assert.Len(t, pool, 47)
	for _, c := range pool {
		assert.NotContains(t, hole, c)
		assert.NotContains(t, board, c)
	}
}

func TestNewShufflesDeterministically(t *testing.T) {
	t.Parallel()
	a := New(randutil.New(7))
	b := New(randutil.New(7))
	c := New(randutil.New(8))

	ca, err := a.Deal(52)
	require.NoError(t, err)
	cb, err := b.Deal(52)
	require.NoError(t, err)
	cc, err := c.Deal(52)
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
	assert.NotEqual(t, ca, cc)
	assert.ElementsMatch(t, FullDeck(), ca)
}

func TestDealAndBurn(t *testing.T) {
	t.Parallel()
	d := NewFromCards(MustParseCards("AsKsQsJsTs"))

	require.NoError(t, d.Burn())
	cards, err := d.Deal(3)
	require.NoError(t, err)
	assert.Equal(t, MustParseCards("KsQsJs"), cards)
	assert.Equal(t, 1, d.Remaining())

	_, err = d.Deal(2)
	assert.ErrorIs(t, err, ErrDeckExhausted)
	assert.Equal(t, 1, d.Remaining(), "failed deal must not consume cards")
}
