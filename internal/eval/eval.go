// Package eval implements the static evaluator used at interior search
// leaves: a closed-form score over empty fields, biased towards
// strongly polarised fields and oriented to the side to move.
package eval

import (
	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/rules"
)

// polarityBonus rewards empty fields whose neighbour sum already leans
// strongly one way: it is a tie-breaking heuristic, not part of the
// true terminal score computed by rules.FinalScore.
func polarityBonus(score int) int {
	switch {
	case score > 0:
		return 5
	case score < 0:
		return -5
	default:
		return 0
	}
}

// Evaluate returns the biased static evaluation of s from the
// perspective of the side to move: positive favours that side. At
// depth 0 this is exactly the value search.Search must return.
func Evaluate(s *rules.State) int {
	score := 0
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if s.Occupied[f] {
			continue
		}
		fieldScore := s.Score[f]
		score += fieldScore + polarityBonus(fieldScore)
	}
	if rules.NextColour(s) == rules.Blue {
		return -score
	}
	return score
}
