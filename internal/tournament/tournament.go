// Package tournament implements the multi-round driver: it plays 2R
// games between two player commands, swapping sides each game, and
// aggregates per-player win/tie/loss/failure and timing statistics.
package tournament

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/hailam/blackhole/internal/arbiter"
)

// Stats accumulates one player's results across a tournament.
type Stats struct {
	Wins, Ties, Losses, Failures int
	ScoreAsRed, ScoreAsBlue      int
	TotalScore                   int
	TotalTime                    time.Duration
	MaxTime                      time.Duration
	GamesPlayed                  int
}

// add folds one game's outcome into s, from the perspective of the
// player that held colour for that game (red if asRed, else blue).
func (s *Stats) add(score int, asRed bool, wallTime time.Duration, isForfeitAgainstUs bool) {
	s.GamesPlayed++
	signedScore := score
	if asRed {
		s.ScoreAsRed += score
	} else {
		signedScore = -score
		s.ScoreAsBlue += signedScore
	}
	s.TotalScore += signedScore
	switch {
	case signedScore > 0:
		s.Wins++
	case signedScore < 0:
		s.Losses++
	default:
		s.Ties++
	}
	if isForfeitAgainstUs {
		s.Failures++
	}
	s.TotalTime += wallTime
	if wallTime > s.MaxTime {
		s.MaxTime = wallTime
	}
}

// LoggedGame pairs one game's index (for transcript printing) with its
// outcome and which command played red.
type LoggedGame struct {
	Index      int
	RedCommand string
	Result     arbiter.GameResult
}

// Report is the outcome of a full tournament run.
type Report struct {
	ID             uuid.UUID
	PlayerCommands [2]string
	Games          []LoggedGame
	Stats          [2]Stats
}

// LogFactory returns the stderr destination for one child in one game.
// slot is 0 for the child playing red that game, 1 for blue.
type LogFactory func(gameIndex, slot int) io.Writer

// DiscardLogs is a LogFactory that routes every child's stderr to
// /dev/null-equivalent discarding, matching an unset --logs prefix.
func DiscardLogs(int, int) io.Writer { return io.Discard }

// Run plays 2*rounds games (or 1 game if rounds<=0) between command1 and
// command2, swapping which one plays red each game, and returns the
// aggregated report.
func Run(command1, command2 string, rounds int, logs LogFactory) (*Report, error) {
	if logs == nil {
		logs = DiscardLogs
	}
	games := 1
	if rounds > 0 {
		games = 2 * rounds
	}

	commands := [2]string{command1, command2}
	report := &Report{ID: uuid.New(), PlayerCommands: commands}

	for game := 0; game < games; game++ {
		p := game % 2
		q := 1 - p

		result, err := arbiter.RunGame(commands[p], commands[q], logs(game, 0), logs(game, 1))
		if err != nil {
			return nil, fmt.Errorf("tournament: game %d: %w", game, err)
		}

		report.Stats[p].add(result.Score, true, result.WallTime[0], result.Forfeit && result.Score < 0)
		report.Stats[q].add(result.Score, false, result.WallTime[1], result.Forfeit && result.Score > 0)
		report.Games = append(report.Games, LoggedGame{Index: game, RedCommand: commands[p], Result: result})
	}
	return report, nil
}

// PrintTranscripts writes one "<index>: <transcript> <signed-score>"
// line per game (spec.md §6.2); a zero score is written "+0". The index
// prefix is only printed for multi-game reports.
func PrintTranscripts(w io.Writer, report *Report) {
	multi := len(report.Games) > 1
	for _, g := range report.Games {
		sign := ""
		if g.Result.Score >= 0 {
			sign = "+"
		}
		if multi {
			fmt.Fprintf(w, "%4d: %s %s%d\n", g.Index, g.Result.Transcript, sign, g.Result.Score)
		} else {
			fmt.Fprintf(w, "%s %s%d\n", g.Result.Transcript, sign, g.Result.Score)
		}
	}
}

// shortCommand trims a player command to its final path segment once it
// exceeds 20 characters, matching the reference summary table's
// column width.
func shortCommand(command string) string {
	for len(command) > 20 {
		if idx := strings.LastIndex(command, "/"); idx >= 0 {
			command = command[idx+1:]
		} else {
			break
		}
	}
	return command
}

// PrintSummary renders the per-player statistics table. Win/loss cells
// are colourised in green/red when useColor is set, so a terminal run
// highlights the outcome at a glance while piped output stays plain.
func PrintSummary(w io.Writer, report *Report, useColor bool) {
	if len(report.Games) <= 1 {
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	paint := func(n int, c func(a ...interface{}) string) string {
		if !useColor {
			return fmt.Sprintf("%4d", n)
		}
		return c(fmt.Sprintf("%4d", n))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Player               AvgTm MaxTm Wins Ties Loss Fail RedPts BluePt Total")
	fmt.Fprintln(w, "-------------------- ----- ----- ---- ---- ---- ---- ------ ------ ------")
	for i, s := range report.Stats {
		avg := time.Duration(0)
		if s.GamesPlayed > 0 {
			avg = s.TotalTime / time.Duration(s.GamesPlayed)
		}
		fmt.Fprintf(w, "%-20s %.3f %.3f %s %s %s %s %+6d %+6d %+6d\n",
			shortCommand(report.PlayerCommands[i]),
			avg.Seconds(), s.MaxTime.Seconds(),
			paint(s.Wins, green), fmt.Sprintf("%4d", s.Ties), paint(s.Losses, red), fmt.Sprintf("%4d", s.Failures),
			s.ScoreAsRed, s.ScoreAsBlue, s.TotalScore)
	}
}
