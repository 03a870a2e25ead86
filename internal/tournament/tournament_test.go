package tournament

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both commands read the 5 brown seeds and Start/forwarded-move line,
// then immediately exit without writing anything: an instant forfeit by
// whichever side is red that game (red reads Start and must reply).
const exitsImmediately = `for i in 1 2 3 4 5; do read line; done
read line
`

func TestRunAggregatesForfeitsAcrossRounds(t *testing.T) {
	report, err := Run(exitsImmediately, exitsImmediately, 2, nil)
	require.NoError(t, err)
	require.Len(t, report.Games, 4)

	totalWins := report.Stats[0].Wins + report.Stats[1].Wins
	totalLosses := report.Stats[0].Losses + report.Stats[1].Losses
	assert.Equal(t, 4, totalWins)
	assert.Equal(t, 4, totalLosses)

	totalFailures := report.Stats[0].Failures + report.Stats[1].Failures
	assert.Equal(t, 4, totalFailures)

	// Every game is a forfeit, so scores must sum to zero across both
	// players (invariant 7: cumulative stats equal the sum of games).
	assert.Equal(t, 0, report.Stats[0].TotalScore+report.Stats[1].TotalScore)
}

func TestRunSingleGameWhenRoundsIsZero(t *testing.T) {
	report, err := Run(exitsImmediately, exitsImmediately, 0, nil)
	require.NoError(t, err)
	assert.Len(t, report.Games, 1)
}

func TestPrintTranscriptsIncludesIndexForMultiGame(t *testing.T) {
	report, err := Run(exitsImmediately, exitsImmediately, 1, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintTranscripts(&buf, report)
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "0:")
	assert.Contains(t, string(lines[1]), "1:")
}

func TestPrintSummaryOmittedForSingleGame(t *testing.T) {
	report, err := Run(exitsImmediately, exitsImmediately, 0, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report, false)
	assert.Empty(t, buf.String())
}

func TestPrintSummaryRendersTableForMultiGame(t *testing.T) {
	report, err := Run(exitsImmediately, exitsImmediately, 1, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, report, false)
	assert.Contains(t, buf.String(), "Player")
	assert.Contains(t, buf.String(), "Wins")
}

func TestShortCommandTrimsPath(t *testing.T) {
	assert.Equal(t, "player", shortCommand("/usr/local/bin/path/to/player"))
	assert.Equal(t, "short", shortCommand("short"))
}
