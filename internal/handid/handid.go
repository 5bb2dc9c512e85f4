// Package handid generates sortable identifiers for recorded hands: a UUIDv7
// (millisecond timestamp plus random bits) rendered as 26 characters of
// Crockford base32.
package handid

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/coder/quartz"
)

// Crockford base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID
const Length = 26

// Generator produces IDs from an injected clock and generator, so a seeded
// run with a mock clock yields the same IDs every time.
type Generator struct {
	clock quartz.Clock
	rng   *rand.Rand
}

// NewGenerator creates a generator. Both arguments are required.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil || rng == nil {
		panic("handid: clock and rng are required")
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate returns the next ID
func (g *Generator) Generate() string {
	var id [16]byte

	ms := uint64(g.clock.Now().UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}
	hi, lo := g.rng.Uint64(), g.rng.Uint64()
	for i := 0; i < 2; i++ {
		id[6+i] = byte(hi >> (8 * i))
	}
	for i := 0; i < 8; i++ {
		id[8+i] = byte(lo >> (8 * i))
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return encode(id)
}

// encode writes the 128 bits as 26 five-bit groups, padding the last group
// with two zero bits.
func encode(id [16]byte) string {
	var sb strings.Builder
	sb.Grow(Length)
	for i := 0; i < Length; i++ {
		var v byte
		for b := 0; b < 5; b++ {
			bit := i*5 + b
			v <<= 1
			if bit < 128 && id[bit/8]&(0x80>>(bit%8)) != 0 {
				v |= 1
			}
		}
		sb.WriteByte(alphabet[v])
	}
	return sb.String()
}

// Validate checks that id is a well-formed hand ID
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	// The final character only carries three data bits.
	if strings.IndexByte(alphabet, id[Length-1])&0x3 != 0 {
		return fmt.Errorf("hand ID has padding bits set")
	}
	return nil
}
