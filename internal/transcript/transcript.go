// Package transcript implements the base-36 encoding of a complete (or
// partial) game history: the engine's only persisted-state format.
package transcript

import (
	"fmt"
	"strings"

	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/rules"
)

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// digitValue returns the base-36 value of ch, or -1 if ch is not a valid
// base-36 digit.
func digitValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	default:
		return -1
	}
}

// Encode renders history as 2*len(history) base-36 digits: one
// (field, value) digit pair per move. Brown moves encode value as 0,
// red moves as their face value (1..15), blue moves as value+15
// (16..30).
func Encode(history []rules.Move) string {
	var b strings.Builder
	b.Grow(2 * len(history))
	for i, m := range history {
		v := 0
		if i >= rules.InitialStones {
			if (i-rules.InitialStones)%2 == 0 {
				v = m.Value
			} else {
				v = m.Value + rules.MaxValue
			}
		}
		b.WriteByte(digits[int(m.Field)])
		b.WriteByte(digits[v])
	}
	return b.String()
}

// minLen and maxLen bound the permitted transcript lengths in base-36
// digits: {10, 12, ..., 70}, i.e. 2*(5..35) digits for 5 brown stones
// plus 0..30 coloured moves.
const (
	minLen = 2 * rules.InitialStones
	maxLen = 2 * (rules.InitialStones + rules.MaxMoves)
)

// Decode parses s into the move history it encodes, re-deriving each
// move's colour from its position (the first InitialStones pairs are
// brown, thereafter alternating red/blue starting red) and validating
// the resulting sequence against the rules engine. It fails on any
// string whose length is not in the permitted set, whose digits are not
// valid base-36, or whose decoded moves do not form a legal game.
func Decode(s string) ([]rules.Move, error) {
	if len(s) < minLen || len(s) > maxLen || len(s)%2 != 0 {
		return nil, fmt.Errorf("transcript: invalid length %d", len(s))
	}

	state := rules.NewState()
	history := make([]rules.Move, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		fieldDigit := digitValue(s[i])
		valueDigit := digitValue(s[i+1])
		if fieldDigit < 0 || valueDigit < 0 {
			return nil, fmt.Errorf("transcript: invalid base-36 digit at offset %d", i)
		}
		field := board.Field(fieldDigit)
		if !field.Valid() {
			return nil, fmt.Errorf("transcript: field index %d out of range", fieldDigit)
		}

		pairIndex := i / 2
		value := valueDigit
		if pairIndex >= rules.InitialStones && (pairIndex-rules.InitialStones)%2 == 1 {
			value -= rules.MaxValue
		}

		move := rules.Move{Field: field, Value: value}
		if err := rules.ValidateMove(state, move); err != nil {
			return nil, fmt.Errorf("transcript: move %d (%s): %w", pairIndex, move, err)
		}
		rules.DoMove(state, move)
		history = append(history, move)
	}
	return history, nil
}
