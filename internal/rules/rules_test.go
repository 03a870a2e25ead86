package rules

import (
	"testing"

	"github.com/hailam/blackhole/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustField(t *testing.T, name string) board.Field {
	t.Helper()
	f, err := board.ParseFieldName(name)
	require.NoError(t, err)
	return f
}

func seedBrown(t *testing.T, s *State, names ...string) []Move {
	t.Helper()
	var history []Move
	for _, n := range names {
		m := Move{Field: mustField(t, n), Value: 0}
		require.NoError(t, ValidateMove(s, m))
		DoMove(s, m)
		history = append(history, m)
	}
	return history
}

func TestNextColourPhases(t *testing.T) {
	s := NewState()
	assert.Equal(t, Brown, NextColour(s))
	history := seedBrown(t, s, "A1", "A2", "A3", "A4", "A5")
	assert.Equal(t, Red, NextColour(s))

	m := Move{Field: mustField(t, "A6"), Value: 15}
	require.NoError(t, ValidateMove(s, m))
	DoMove(s, m)
	history = append(history, m)
	assert.Equal(t, Blue, NextColour(s))
	assert.NoError(t, Validate(s, history))
}

func TestDoUndoRestoresStateBitForBit(t *testing.T) {
	s := NewState()
	seedBrown(t, s, "A1", "A2", "A3", "A4", "A5")
	before := *s

	m := Move{Field: mustField(t, "A6"), Value: 9}
	require.NoError(t, ValidateMove(s, m))
	DoMove(s, m)
	assert.NotEqual(t, before, *s)
	UndoMove(s, m)
	assert.Equal(t, before, *s)
}

func TestValidateMoveRejectsOccupiedField(t *testing.T) {
	s := NewState()
	seedBrown(t, s, "A1", "A2", "A3", "A4", "A5")
	err := ValidateMove(s, Move{Field: mustField(t, "A1"), Value: 3})
	require.Error(t, err)
	var imErr *InvalidMoveError
	require.ErrorAs(t, err, &imErr)
	assert.Equal(t, ReasonFieldOccupied, imErr.Reason)
}

func TestValidateMoveRejectsReusedValue(t *testing.T) {
	s := NewState()
	seedBrown(t, s, "A1", "A2", "A3", "A4", "A5")
	m1 := Move{Field: mustField(t, "H1"), Value: 7}
	require.NoError(t, ValidateMove(s, m1))
	DoMove(s, m1)
	m2 := Move{Field: mustField(t, "A6"), Value: 7}
	require.NoError(t, ValidateMove(s, m2))
	DoMove(s, m2)
	m3 := Move{Field: mustField(t, "A7"), Value: 7}
	err := ValidateMove(s, m3)
	require.Error(t, err)
	var imErr *InvalidMoveError
	require.ErrorAs(t, err, &imErr)
	assert.Equal(t, ReasonValueAlreadyUsed, imErr.Reason)
}

func TestValidateMoveRejectsBrownWithValue(t *testing.T) {
	s := NewState()
	err := ValidateMove(s, Move{Field: mustField(t, "A1"), Value: 1})
	require.Error(t, err)
	var imErr *InvalidMoveError
	require.ErrorAs(t, err, &imErr)
	assert.Equal(t, ReasonBrownHasValue, imErr.Reason)
}

func TestExactly30MovesEndTheGame(t *testing.T) {
	s := NewState()
	history := seedBrown(t, s, "A1", "A2", "A3", "A4", "A5")

	fields := make([]board.Field, 0, board.NumFields)
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if !s.Occupied[f] {
			fields = append(fields, f)
		}
	}

	idx := 0
	for !IsGameOver(s) {
		colour := NextColour(s)
		value := 1 + (idx / 2 % MaxValue)
		if s.Used[colour.PlayerIndex()][value] {
			value = MaxValue
			for s.Used[colour.PlayerIndex()][value] {
				value--
			}
		}
		m := Move{Field: fields[idx], Value: value}
		require.NoError(t, ValidateMove(s, m))
		DoMove(s, m)
		history = append(history, m)
		idx++
	}
	assert.Equal(t, MaxMoves, s.MovesPlayed)
	assert.Equal(t, None, NextColour(s))
	assert.NoError(t, Validate(s, history))

	// One more coloured move must be refused.
	err := ValidateMove(s, Move{Field: fields[idx], Value: 1})
	require.Error(t, err)
	var imErr *InvalidMoveError
	require.ErrorAs(t, err, &imErr)
	assert.Equal(t, ReasonWrongColour, imErr.Reason)
}

func TestFinalScoreSingleEmptyField(t *testing.T) {
	// A hand-built state: one empty field E1 (index for u=4,v=0) with
	// neighbours carrying red 5, red 3, blue 7, blue 2; final_score =
	// +5+3-7-2 = -1, matching spec.md scenario 5.
	s := NewState()
	e1 := board.CoordsToIndex(4, 0)
	neighbours := board.Neighbours(e1)
	require.GreaterOrEqual(t, len(neighbours), 4)
	values := []int{5, 3, -7, -2}
	for i, n := range neighbours[:4] {
		s.Occupied[n] = true
		s.Value[n] = values[i]
		if values[i] > 0 {
			s.Colour[n] = Red
		} else {
			s.Colour[n] = Blue
		}
	}
	for _, n := range board.Neighbours(e1) {
		s.Score[e1] += s.Value[n]
	}
	// Fill every other field with a brown stone so that E1 is the only
	// empty field on the board.
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if f != e1 && !s.Occupied[f] {
			s.Occupied[f] = true
			s.Colour[f] = Brown
		}
	}
	assert.Equal(t, -1, FinalScore(s))
}

func TestFinalScoreMatchesDirectComputation(t *testing.T) {
	s := NewState()
	history := seedBrown(t, s, "D1", "D2", "D3", "D4", "D5")
	moves := []Move{
		{Field: mustField(t, "A1"), Value: 15},
		{Field: mustField(t, "A2"), Value: 15},
		{Field: mustField(t, "A3"), Value: 14},
		{Field: mustField(t, "A4"), Value: 14},
	}
	for _, m := range moves {
		require.NoError(t, ValidateMove(s, m))
		DoMove(s, m)
		history = append(history, m)
	}
	assert.NoError(t, Validate(s, history))

	direct := 0
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if s.Occupied[f] {
			continue
		}
		for _, n := range board.Neighbours(f) {
			direct += s.Value[n]
		}
	}
	assert.Equal(t, direct, FinalScore(s))

	cached := 0
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if !s.Occupied[f] {
			cached += s.Score[f]
		}
	}
	assert.Equal(t, direct, cached)
}
