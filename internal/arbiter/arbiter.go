// Package arbiter implements the match engine: it spawns two player
// child processes, seeds the board with random brown stones, forwards
// moves between them in lockstep, and computes the final score.
package arbiter

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/rules"
	"github.com/hailam/blackhole/internal/transcript"
)

// ForfeitScore is the magnitude of the sentinel score assigned when a
// player produces a malformed or illegal move (spec.md §4.7).
const ForfeitScore = 99

// child is one spawned player process and its line-buffered pipes.
type child struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
}

func spawnChild(command string, stderr io.Writer) (*child, error) {
	cmd := exec.Command("/bin/sh", "-c", command)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("arbiter: stdin pipe for %q: %w", command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("arbiter: stdout pipe for %q: %w", command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("arbiter: spawn %q: %w", command, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 1024), 1024)
	return &child{cmd: cmd, stdin: stdin, stdout: scanner}, nil
}

// writeLine writes one newline-terminated line. A failure here (the
// child has exited, closing its read end) is reported as an error, not a
// panic or process signal: Go's os/exec pipes already turn a broken pipe
// into an ordinary write error, which is exactly the suppressed-SIGPIPE
// behaviour spec.md §5 asks for.
func (c *child) writeLine(line string) error {
	_, err := fmt.Fprintf(c.stdin, "%s\n", line)
	return err
}

func (c *child) readLine() (string, error) {
	if !c.stdout.Scan() {
		if err := c.stdout.Err(); err != nil {
			return "", fmt.Errorf("arbiter: read: %w", err)
		}
		return "", fmt.Errorf("arbiter: read: %w", io.EOF)
	}
	return strings.TrimSpace(c.stdout.Text()), nil
}

// quit sends Quit, closes the write end, and waits for the process to
// exit. Errors are returned but are never fatal to the tournament: by
// the time Quit is called the game's result is already decided.
func (c *child) quit() error {
	writeErr := c.writeLine("Quit")
	closeErr := c.stdin.Close()
	waitErr := c.cmd.Wait()
	if waitErr != nil {
		return fmt.Errorf("arbiter: child did not exit cleanly: %w", waitErr)
	}
	if writeErr != nil {
		return fmt.Errorf("arbiter: quit write: %w", writeErr)
	}
	return closeErr
}

// sampleBrownFields draws InitialStones distinct field indices without
// replacement, using a 64-bit OS-entropy seed and the partial
// Fisher-Yates shuffle specified in spec.md §6.4.
func sampleBrownFields() ([rules.InitialStones]board.Field, error) {
	var seedBytes [8]byte
	if _, err := rand.Read(seedBytes[:]); err != nil {
		return [rules.InitialStones]board.Field{}, fmt.Errorf("arbiter: reading random seed: %w", err)
	}
	seed := binary.BigEndian.Uint64(seedBytes[:])

	var fields [board.NumFields]board.Field
	for i := range fields {
		fields[i] = board.Field(i)
	}

	var chosen [rules.InitialStones]board.Field
	for i := 0; i < rules.InitialStones; i++ {
		n := uint64(board.NumFields - i)
		j := i + int(seed%n)
		fields[i], fields[j] = fields[j], fields[i]
		seed /= n
		chosen[i] = fields[i]
	}
	return chosen, nil
}

// parseMove parses a wire line "FIELD=VALUE" into a Move. Unlike
// protocol.parseMoveLine it never accepts a bare field name: every move
// the arbiter reads from a child is a coloured placement.
func parseMove(line string) (rules.Move, error) {
	name, valueStr, ok := strings.Cut(line, "=")
	if !ok {
		return rules.Move{}, fmt.Errorf("arbiter: move %q missing '='", line)
	}
	field, err := board.ParseFieldName(name)
	if err != nil {
		return rules.Move{}, fmt.Errorf("arbiter: %w", err)
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return rules.Move{}, fmt.Errorf("arbiter: invalid value %q: %w", valueStr, err)
	}
	return rules.Move{Field: field, Value: value}, nil
}

// GameResult reports the outcome of one RunGame call.
type GameResult struct {
	ID            uuid.UUID
	Transcript    string
	Score         int
	Forfeit       bool
	ForfeitColour rules.Colour
	ForfeitReason string
	WallTime      [2]time.Duration
	History       []rules.Move
}

// RunGame plays one game between command1 (red) and command2 (blue),
// routing each child's stderr to the given writer (nil selects
// /dev/null-equivalent discarding at the caller's discretion via
// io.Discard). It returns an error only when a child could not be
// spawned at all; any in-game protocol or rule violation is reported as
// a forfeit inside GameResult, never as a Go error.
func RunGame(command1, command2 string, stderr1, stderr2 io.Writer) (GameResult, error) {
	if stderr1 == nil {
		stderr1 = io.Discard
	}
	if stderr2 == nil {
		stderr2 = io.Discard
	}

	var children [2]*child
	var err error
	children[0], err = spawnChild(command1, stderr1)
	if err != nil {
		return GameResult{}, err
	}
	children[1], err = spawnChild(command2, stderr2)
	if err != nil {
		_ = children[0].quit()
		return GameResult{}, err
	}
	defer func() {
		_ = children[0].quit()
		_ = children[1].quit()
	}()

	result := GameResult{ID: uuid.New()}
	state := rules.NewState()

	brownFields, err := sampleBrownFields()
	if err != nil {
		return GameResult{}, err
	}
	for _, f := range brownFields {
		move := rules.Move{Field: f}
		rules.DoMove(state, move)
		result.History = append(result.History, move)
		line := move.String()
		if err := children[0].writeLine(line); err != nil {
			return forfeitResult(result, state, rules.Red, "write failed during setup: "+err.Error()), nil
		}
		if err := children[1].writeLine(line); err != nil {
			return forfeitResult(result, state, rules.Blue, "write failed during setup: "+err.Error()), nil
		}
	}

	if err := children[0].writeLine("Start"); err != nil {
		return forfeitResult(result, state, rules.Red, "write failed sending Start: "+err.Error()), nil
	}

	for {
		colour := rules.NextColour(state)
		if colour == rules.None {
			break
		}
		player := colour.PlayerIndex()

		start := time.Now()
		line, err := children[player].readLine()
		result.WallTime[player] += time.Since(start)
		if err != nil {
			return forfeitResult(result, state, colour, err.Error()), nil
		}

		move, err := parseMove(line)
		if err != nil {
			return forfeitResult(result, state, colour, err.Error()), nil
		}
		if err := rules.ValidateMove(state, move); err != nil {
			return forfeitResult(result, state, colour, err.Error()), nil
		}
		rules.DoMove(state, move)
		result.History = append(result.History, move)

		if rules.NextColour(state) != rules.None {
			if err := children[1-player].writeLine(move.String()); err != nil {
				// A broken pipe forwarding to the opponent means that
				// child has already exited; log and continue scoring the
				// game normally (spec.md §5: ignored during finalisation).
				fmt.Fprintf(stderr2, "arbiter: forward to opponent failed: %v\n", err)
			}
		}
	}

	result.Score = rules.FinalScore(state)
	result.Transcript = transcript.Encode(result.History)
	return result, nil
}

func forfeitResult(result GameResult, state *rules.State, offender rules.Colour, reason string) GameResult {
	result.Forfeit = true
	result.ForfeitColour = offender
	result.ForfeitReason = reason
	if offender == rules.Red {
		result.Score = -ForfeitScore
	} else {
		result.Score = ForfeitScore
	}
	result.Transcript = transcript.Encode(result.History)
	_ = state // state is left at the point of the offending move, for diagnostics by the caller
	return result
}
