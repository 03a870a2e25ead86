// Package protocol implements the player side of the arbiter-player wire
// protocol: a line-based state machine reading brown seeding, the
// Start/first-move handshake, the move loop, and Quit.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/rules"
	"github.com/hailam/blackhole/internal/search"
)

// Phase names the player's position in the state machine (spec.md §4.6).
type Phase int

const (
	ReadInitialStones Phase = iota
	AwaitStartOrFirstMove
	MyTurn
	OpponentTurn
	GameOver
)

func (p Phase) String() string {
	switch p {
	case ReadInitialStones:
		return "READ_INITIAL_STONES"
	case AwaitStartOrFirstMove:
		return "AWAIT_START_OR_FIRST_MOVE"
	case MyTurn:
		return "MY_TURN"
	case OpponentTurn:
		return "OPPONENT_TURN"
	case GameOver:
		return "GAME_OVER"
	default:
		return "INVALID_PHASE"
	}
}

// infinity bounds the search window; large enough that no real evaluation
// can reach it, small enough to stay clear of int overflow under negation.
const infinity = 1 << 29

// Player drives one side of a game over a line-based connection to the
// arbiter. It owns a private mirror of the game state, reconstructed
// entirely from what it reads and writes (the arbiter owns the
// authoritative copy).
type Player struct {
	state   *rules.State
	history []rules.Move
	colour  rules.Colour
	phase   Phase

	in  *bufio.Scanner
	out *bufio.Writer
	cfg search.Config

	// LastStats records the Stats of the most recently completed search,
	// for callers that want to report node counts.
	LastStats search.Stats
}

// New creates a Player that reads wire-protocol lines from r and writes
// its own moves to w, using cfg to configure its search.
func New(r io.Reader, w io.Writer, cfg search.Config) *Player {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024), 1024)
	return &Player{
		state: rules.NewState(),
		in:    scanner,
		out:   bufio.NewWriter(w),
		cfg:   cfg,
		phase: ReadInitialStones,
	}
}

// SeedFromHistory replays an already-decoded history (e.g. from a
// base-36 transcript argument) into the player's state, bypassing
// whichever leading phases that history already covers. It is the
// transcript-resume path named in spec.md §4.6.
func (p *Player) SeedFromHistory(history []rules.Move) error {
	state := rules.NewState()
	for i, m := range history {
		if err := rules.ValidateMove(state, m); err != nil {
			return fmt.Errorf("protocol: seed move %d: %w", i, err)
		}
		rules.DoMove(state, m)
	}
	p.state = state
	p.history = append([]rules.Move(nil), history...)

	if p.state.BrownPlaced < rules.InitialStones {
		p.phase = ReadInitialStones
		return nil
	}
	if p.state.MovesPlayed == 0 {
		p.phase = AwaitStartOrFirstMove
		return nil
	}
	// Colour is ambiguous purely from state once coloured moves exist;
	// the caller (which knows whether it is running as red or blue) must
	// set it explicitly via SetColour before Run.
	p.phase = GameOver
	if rules.NextColour(p.state) != rules.None {
		p.phase = MyTurn
	}
	return nil
}

// SetColour fixes which side this player is playing, for resumed games
// where SeedFromHistory cannot infer it. Run derives MyTurn/OpponentTurn
// from this against rules.NextColour.
func (p *Player) SetColour(c rules.Colour) {
	p.colour = c
	if p.phase == MyTurn || p.phase == GameOver {
		if next := rules.NextColour(p.state); next != rules.None {
			if next == c {
				p.phase = MyTurn
			} else {
				p.phase = OpponentTurn
			}
		}
	}
}

// History returns the moves played so far, in order.
func (p *Player) History() []rules.Move {
	return p.history
}

// State returns the player's private mirror of the game state.
func (p *Player) State() *rules.State {
	return p.state
}

func (p *Player) scanLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("protocol: read error: %w", err)
		}
		return "", fmt.Errorf("protocol: unexpected end of input")
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Player) writeLine(line string) error {
	if _, err := p.out.WriteString(line); err != nil {
		return fmt.Errorf("protocol: write error: %w", err)
	}
	if err := p.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("protocol: write error: %w", err)
	}
	return p.out.Flush()
}

// parseMoveLine parses "FIELD" (brown) or "FIELD=VALUE" (coloured) as it
// appears on the wire.
func parseMoveLine(line string) (rules.Move, error) {
	name, valueStr, hasValue := strings.Cut(line, "=")
	field, err := board.ParseFieldName(name)
	if err != nil {
		return rules.Move{}, fmt.Errorf("protocol: %w", err)
	}
	if !hasValue {
		return rules.Move{Field: field}, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return rules.Move{}, fmt.Errorf("protocol: invalid value %q: %w", valueStr, err)
	}
	return rules.Move{Field: field, Value: value}, nil
}

func (p *Player) readInitialStones() error {
	for p.state.BrownPlaced < rules.InitialStones {
		line, err := p.scanLine()
		if err != nil {
			return err
		}
		field, err := board.ParseFieldName(line)
		if err != nil {
			return fmt.Errorf("protocol: initial stone: %w", err)
		}
		move := rules.Move{Field: field}
		if err := rules.ValidateMove(p.state, move); err != nil {
			return fmt.Errorf("protocol: initial stone: %w", err)
		}
		rules.DoMove(p.state, move)
		p.history = append(p.history, move)
	}
	p.phase = AwaitStartOrFirstMove
	return nil
}

func (p *Player) awaitStartOrFirstMove() error {
	line, err := p.scanLine()
	if err != nil {
		return err
	}
	if line == "Start" {
		p.colour = rules.Red
		p.phase = MyTurn
		return nil
	}
	move, err := parseMoveLine(line)
	if err != nil {
		return fmt.Errorf("protocol: first move: %w", err)
	}
	if err := rules.ValidateMove(p.state, move); err != nil {
		return fmt.Errorf("protocol: first move: %w", err)
	}
	rules.DoMove(p.state, move)
	p.history = append(p.history, move)
	p.colour = rules.Blue
	p.phase = MyTurn
	return nil
}

// seedMoveOrderingRand lazily seeds cfg.Rand from the brown-stone
// placement once it is known, the first time a move actually needs to be
// chosen. This is what gives move-ordering ties a PRNG seeded
// deterministically from the initial board (spec.md §9) without
// requiring callers to know the brown seed up front.
func (p *Player) seedMoveOrderingRand() {
	if !p.cfg.OrderByLiberty || p.cfg.Rand != nil {
		return
	}
	var seed int64
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if p.state.Occupied[f] && p.state.Colour[f] == rules.Brown {
			seed = seed*37 + int64(f) + 1
		}
	}
	p.cfg.Rand = rand.New(rand.NewSource(seed))
}

func (p *Player) decideMove() rules.Move {
	p.seedMoveOrderingRand()
	depth := search.EffectiveDepth(p.state, p.cfg.MaxDepth)
	searcher := search.NewSearcher(p.state, p.cfg)
	_, move, stats := searcher.Search(depth, -infinity, infinity)
	p.LastStats = stats
	return move
}

func (p *Player) myTurn() error {
	move := p.decideMove()
	if err := rules.ValidateMove(p.state, move); err != nil {
		return fmt.Errorf("protocol: search produced an invalid move: %w", err)
	}
	rules.DoMove(p.state, move)
	p.history = append(p.history, move)
	if err := p.writeLine(move.String()); err != nil {
		return err
	}
	p.advancePhase()
	return nil
}

func (p *Player) opponentTurn() error {
	line, err := p.scanLine()
	if err != nil {
		return err
	}
	move, err := parseMoveLine(line)
	if err != nil {
		return fmt.Errorf("protocol: opponent move: %w", err)
	}
	if err := rules.ValidateMove(p.state, move); err != nil {
		return fmt.Errorf("protocol: opponent move: %w", err)
	}
	rules.DoMove(p.state, move)
	p.history = append(p.history, move)
	p.advancePhase()
	return nil
}

func (p *Player) advancePhase() {
	if rules.NextColour(p.state) == rules.None {
		p.phase = GameOver
		return
	}
	if rules.NextColour(p.state) == p.colour {
		p.phase = MyTurn
	} else if p.state.MovesPlayed == rules.MaxMoves-1 {
		// The arbiter does not forward the game's final move, so there is
		// no opponent move left to read.
		p.phase = GameOver
	} else {
		p.phase = OpponentTurn
	}
}

// gameOver optionally reads a trailing Quit line. Per spec.md's open
// question the final move is never forwarded to us by the arbiter, so an
// immediate EOF here is not an error.
func (p *Player) gameOver() error {
	if !p.in.Scan() {
		return nil
	}
	if strings.TrimSpace(p.in.Text()) != "Quit" {
		return fmt.Errorf("protocol: expected Quit, got %q", p.in.Text())
	}
	return nil
}

// Run drives the full state machine to completion. Any parsing or
// validity failure aborts the run and is returned to the caller, which
// per spec.md §7 treats every such error as fatal to the process.
func (p *Player) Run() error {
	if p.phase == ReadInitialStones {
		if err := p.readInitialStones(); err != nil {
			return err
		}
	}
	if p.phase == AwaitStartOrFirstMove {
		if err := p.awaitStartOrFirstMove(); err != nil {
			return err
		}
	}
	for p.phase != GameOver {
		var err error
		switch p.phase {
		case MyTurn:
			err = p.myTurn()
		case OpponentTurn:
			err = p.opponentTurn()
		default:
			return fmt.Errorf("protocol: unreachable phase %v", p.phase)
		}
		if err != nil {
			return err
		}
	}
	return p.gameOver()
}
