package phh

import (
	"fmt"
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Encode writes a single hand as a PHH TOML document.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeSection appends hand to a session file as table [index].
func EncodeSection(w io.Writer, index int, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	if err := enc.Encode(map[string]*HandHistory{strconv.Itoa(index): hand}); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// DecodeSession reads a session file back, keyed by section index.
func DecodeSession(r io.Reader) (map[int]HandHistory, error) {
	var raw map[string]HandHistory
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("phh: decoding session: %w", err)
	}
	hands := make(map[int]HandHistory, len(raw))
	for key, hand := range raw {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("phh: section %q is not a hand index", key)
		}
		hands[index] = hand
	}
	return hands, nil
}
