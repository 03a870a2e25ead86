// Package rules implements the game state and the rules engine shared by
// the arbiter and the player: move validity, make/undo with incremental
// neighbour-score updates, and terminal-score computation.
package rules

import (
	"fmt"

	"github.com/hailam/blackhole/internal/board"
)

// MaxValue is the highest stone value a player may place (1..MaxValue).
const MaxValue = 15

// InitialStones is the number of brown "hole" stones seeded before play.
const InitialStones = 5

// MaxMoves is the number of coloured moves played in a complete game
// (15 red + 15 blue).
const MaxMoves = 2 * MaxValue

// Colour identifies what, if anything, occupies a field.
type Colour int

const (
	None Colour = iota
	Brown
	Red
	Blue
)

// String renders a colour for diagnostics.
func (c Colour) String() string {
	switch c {
	case None:
		return "none"
	case Brown:
		return "brown"
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return "invalid"
	}
}

// PlayerIndex maps Red/Blue to the arbiter's 0/1 player slots.
func (c Colour) PlayerIndex() int {
	switch c {
	case Red:
		return 0
	case Blue:
		return 1
	default:
		panic(fmt.Sprintf("rules: PlayerIndex called on colour %v", c))
	}
}

// Move is a (field, value) pair. Brown placements carry Value 0.
type Move struct {
	Field board.Field
	Value int
}

// String renders the move the way it appears on the wire: "C3" for a
// brown placement, "C3=7" for a coloured one.
func (m Move) String() string {
	if m.Value == 0 {
		return board.FieldName(m.Field)
	}
	return fmt.Sprintf("%s=%d", board.FieldName(m.Field), m.Value)
}

// State is a flat, array-backed record of one game in progress. All
// fields are plain arrays with no pointers or cycles, so a State is
// trivially copyable (Search takes a *State and mutates it in place via
// DoMove/UndoMove rather than copying on recursion).
type State struct {
	// Occupied[f] is true once any stone (brown or coloured) sits on f.
	Occupied [board.NumFields]bool

	// Colour[f] is the colour of the stone on f, or None if empty.
	Colour [board.NumFields]Colour

	// Value[f] is the signed value of the stone on f: positive for red,
	// negative for blue, zero for brown or empty fields.
	Value [board.NumFields]int

	// Used[player][v] holds iff player has already placed value v.
	// Index 0 is red, index 1 is blue; v ranges 1..MaxValue.
	Used [2][MaxValue + 1]bool

	// Score[f] is the sum of signed values of f's occupied neighbours,
	// maintained incrementally by DoMove/UndoMove so Evaluate never needs
	// to rescan the whole board. FinalScore does not read this cache; it
	// recomputes the sums from Value.
	Score [board.NumFields]int

	// BrownPlaced counts brown stones placed so far (0..InitialStones).
	BrownPlaced int

	// MovesPlayed counts coloured moves only; brown seeding does not
	// contribute, per spec: "moves_played counts only coloured moves".
	MovesPlayed int
}

// NewState returns an empty game state.
func NewState() *State {
	return &State{}
}

// NextColour returns the colour that must move next, or None if the
// game is over.
func NextColour(s *State) Colour {
	if s.BrownPlaced < InitialStones {
		return Brown
	}
	if s.MovesPlayed >= MaxMoves {
		return None
	}
	if s.MovesPlayed%2 == 0 {
		return Red
	}
	return Blue
}

// IsGameOver reports whether all 30 coloured moves have been played.
func IsGameOver(s *State) bool {
	return s.BrownPlaced >= InitialStones && s.MovesPlayed >= MaxMoves
}

// InvalidMoveReason names why ValidateMove rejected a move. It is a
// distinct type (not a bare string) so callers can compare/switch on it
// without string matching, the way board.ParseFieldName's errors are
// distinguishable from the move-level ones constructed here.
type InvalidMoveReason string

const (
	ReasonFieldOutOfRange  InvalidMoveReason = "field index out of range"
	ReasonFieldOccupied    InvalidMoveReason = "field is not empty"
	ReasonWrongColour      InvalidMoveReason = "colour does not match next colour to move"
	ReasonBrownHasValue    InvalidMoveReason = "brown stone cannot have a value"
	ReasonValueOutOfRange  InvalidMoveReason = "stone value out of range"
	ReasonValueAlreadyUsed InvalidMoveReason = "stone value has been used"
)

// InvalidMoveError reports a rule violation. It wraps the named reason
// so arbiter logging can print it directly, per spec.md's error design.
type InvalidMoveError struct {
	Move   Move
	Colour Colour
	Reason InvalidMoveReason
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %s for %v: %s", e.Move, e.Colour, e.Reason)
}

// ValidateMove checks move for the colour that is actually next to move.
// It never panics: every malformed or illegal input is reported as an
// *InvalidMoveError.
func ValidateMove(s *State, move Move) error {
	colour := NextColour(s)
	if !move.Field.Valid() {
		return &InvalidMoveError{move, colour, ReasonFieldOutOfRange}
	}
	if s.Occupied[move.Field] {
		return &InvalidMoveError{move, colour, ReasonFieldOccupied}
	}
	if colour == None {
		return &InvalidMoveError{move, colour, ReasonWrongColour}
	}
	if colour == Brown {
		if move.Value != 0 {
			return &InvalidMoveError{move, colour, ReasonBrownHasValue}
		}
		return nil
	}
	if move.Value < 1 || move.Value > MaxValue {
		return &InvalidMoveError{move, colour, ReasonValueOutOfRange}
	}
	if s.Used[colour.PlayerIndex()][move.Value] {
		return &InvalidMoveError{move, colour, ReasonValueAlreadyUsed}
	}
	return nil
}

// DoMove applies move, which must already be valid (callers that cannot
// guarantee this must call ValidateMove first). It updates Occupied,
// Colour, Value, Used and the incremental Score cache, and advances
// BrownPlaced or MovesPlayed.
func DoMove(s *State, move Move) {
	colour := NextColour(s)
	s.Occupied[move.Field] = true
	s.Colour[move.Field] = colour

	if colour == Brown {
		s.BrownPlaced++
		return
	}

	signed := move.Value
	if colour == Blue {
		signed = -signed
	}
	s.Value[move.Field] = signed
	s.Used[colour.PlayerIndex()][move.Value] = true
	for _, n := range board.Neighbours(move.Field) {
		s.Score[n] += signed
	}
	s.MovesPlayed++
}

// UndoMove is the exact inverse of DoMove: given the same move last
// applied to s, it restores s bit-for-bit, including the Score cache.
func UndoMove(s *State, move Move) {
	if s.MovesPlayed > 0 && s.Colour[move.Field] != Brown {
		s.MovesPlayed--
		colour := NextColour(s)
		signed := move.Value
		if colour == Blue {
			signed = -signed
		}
		for _, n := range board.Neighbours(move.Field) {
			s.Score[n] -= signed
		}
		s.Value[move.Field] = 0
		s.Used[colour.PlayerIndex()][move.Value] = false
	} else {
		s.BrownPlaced--
	}
	s.Occupied[move.Field] = false
	s.Colour[move.Field] = None
}

// FinalScore computes the terminal score directly from the board: for
// each empty field, the sum of its occupied neighbours' signed values.
// It is the ground-truth definition against which Score is a cache;
// Validate cross-checks the two.
func FinalScore(s *State) int {
	total := 0
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if s.Occupied[f] {
			continue
		}
		for _, n := range board.Neighbours(f) {
			total += s.Value[n]
		}
	}
	return total
}

// rebuildScore recomputes Score from Occupied/Value alone, for use by
// Validate as an independent cross-check of the incremental cache.
func rebuildScore(s *State) [board.NumFields]int {
	var score [board.NumFields]int
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if !s.Occupied[f] || s.Value[f] == 0 {
			continue
		}
		for _, n := range board.Neighbours(f) {
			score[n] += s.Value[f]
		}
	}
	return score
}

// Validate reconstructs state from history and checks every invariant of
// the data model: occupancy matches colour, Used matches the stones on
// the board, Score matches a from-scratch rebuild, red/blue counts are
// within one of each other, and history replays to exactly this state.
// It returns a descriptive error rather than panicking, so callers can
// decide whether a failure is a forfeit-worthy protocol problem (a
// transcript that doesn't validate) or an internal bug (the arbiter's
// own authoritative state failing to validate, which should never
// happen and is treated as fatal by the caller).
func Validate(s *State, history []Move) error {
	var brownStones, redStones, blueStones int
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		v := s.Value[f]
		switch {
		case s.Occupied[f] && v > 0:
			redStones++
			if !s.Used[0][v] {
				return fmt.Errorf("rules: unused red value field=%d v=%d", f, v)
			}
		case s.Occupied[f] && v < 0:
			blueStones++
			if !s.Used[1][-v] {
				return fmt.Errorf("rules: unused blue value field=%d v=%d", f, -v)
			}
		case s.Occupied[f]:
			brownStones++
		default:
			if v != 0 {
				return fmt.Errorf("rules: unoccupied field=%d has value %d", f, v)
			}
		}
	}
	if brownStones != s.BrownPlaced {
		return fmt.Errorf("rules: brown_stones=%d != BrownPlaced=%d", brownStones, s.BrownPlaced)
	}
	if s.BrownPlaced > InitialStones {
		return fmt.Errorf("rules: BrownPlaced=%d exceeds %d", s.BrownPlaced, InitialStones)
	}
	if redStones+blueStones != s.MovesPlayed {
		return fmt.Errorf("rules: red=%d + blue=%d != MovesPlayed=%d", redStones, blueStones, s.MovesPlayed)
	}
	if redStones != blueStones && redStones != blueStones+1 {
		return fmt.Errorf("rules: red=%d blue=%d stone-count imbalance", redStones, blueStones)
	}

	var redUsed, blueUsed int
	for v := 1; v <= MaxValue; v++ {
		if s.Used[0][v] {
			redUsed++
		}
		if s.Used[1][v] {
			blueUsed++
		}
	}
	if redUsed != redStones {
		return fmt.Errorf("rules: red_values_used=%d != red_stones=%d", redUsed, redStones)
	}
	if blueUsed != blueStones {
		return fmt.Errorf("rules: blue_values_used=%d != blue_stones=%d", blueUsed, blueStones)
	}

	wantScore := rebuildScore(s)
	if wantScore != s.Score {
		return fmt.Errorf("rules: cached Score diverges from rebuilt Score")
	}

	if s.BrownPlaced+s.MovesPlayed != len(history) {
		return fmt.Errorf("rules: history length=%d does not match state (brown=%d moves=%d)",
			len(history), s.BrownPlaced, s.MovesPlayed)
	}
	replay := NewState()
	for i, move := range history {
		wantColour := Brown
		if i >= InitialStones {
			if (i-InitialStones)%2 == 0 {
				wantColour = Red
			} else {
				wantColour = Blue
			}
		}
		if got := NextColour(replay); got != wantColour {
			return fmt.Errorf("rules: history[%d] expected colour %v, state had %v", i, wantColour, got)
		}
		if err := ValidateMove(replay, move); err != nil {
			return fmt.Errorf("rules: history[%d] %s: %w", i, move, err)
		}
		DoMove(replay, move)
	}
	if *replay != *s {
		return fmt.Errorf("rules: replayed history does not reproduce the given state")
	}
	return nil
}
