package transcript

import (
	"testing"

	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory(t *testing.T) []rules.Move {
	t.Helper()
	s := rules.NewState()
	history := []rules.Move{
		{Field: board.CoordsToIndex(0, 0)},
		{Field: board.CoordsToIndex(0, 1)},
		{Field: board.CoordsToIndex(0, 2)},
		{Field: board.CoordsToIndex(0, 3)},
		{Field: board.CoordsToIndex(0, 4)},
		{Field: board.CoordsToIndex(7, 0), Value: 1},  // H1=1 (red)
		{Field: board.CoordsToIndex(0, 5), Value: 1},   // A6=1 (blue)
		{Field: board.CoordsToIndex(6, 0), Value: 2},   // G1=2 (red)
		{Field: board.CoordsToIndex(0, 6), Value: 2},   // A7=2 (blue)
	}
	for _, m := range history {
		require.NoError(t, rules.ValidateMove(s, m))
		rules.DoMove(s, m)
	}
	return history
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	history := sampleHistory(t)
	encoded := Encode(history)
	assert.Len(t, encoded, 2*len(history))

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, history, decoded)
}

func TestEncodeFirstValueDigitsMatchH1AndA6(t *testing.T) {
	history := sampleHistory(t)
	encoded := Encode(history)
	// H1 = field index 35 -> base-36 digit 'z'; red value 1 stays 1.
	assert.Equal(t, "z1", encoded[10:12])
	// A6 = field index 5 -> base-36 digit '5'; blue value 1 becomes 16 -> 'g'.
	assert.Equal(t, "5g", encoded[12:14])
}

func TestDecodeRejectsBadLength(t *testing.T) {
	_, err := Decode("00")
	assert.Error(t, err)
	_, err = Decode("0")
	assert.Error(t, err)
}

func TestDecodeRejectsIllegalMove(t *testing.T) {
	// Five brown stones on fields 0..4, then a sixth move re-occupying
	// field 0 — satisfies the length constraint but is illegal.
	_, err := Decode("001020304000")
	assert.Error(t, err)
}

func TestDecodeRejectsNonBase36Digit(t *testing.T) {
	_, err := Decode("00102030405!")
	assert.Error(t, err)
}

func TestDecodedHistoryValidatesAgainstRules(t *testing.T) {
	history := sampleHistory(t)
	encoded := Encode(history)
	decoded, err := Decode(encoded)
	require.NoError(t, err)

	replay := rules.NewState()
	for _, m := range decoded {
		require.NoError(t, rules.ValidateMove(replay, m))
		rules.DoMove(replay, m)
	}
	assert.NoError(t, rules.Validate(replay, decoded))
}
