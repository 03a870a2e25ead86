// Package search implements the bounded-depth negamax search with
// alpha-beta pruning used by the AI player to choose its next move.
package search

import (
	"math"
	"math/rand"
	"sort"

	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/eval"
	"github.com/hailam/blackhole/internal/rules"
)

// StoneSelection governs which stone values a search branch is allowed
// to place. ForceHighest restricts every branch to the side's highest
// remaining value (the original heuristic: it collapses the branching
// factor to "one move per empty field" but is not game-theoretically
// complete, since a strong player might deliberately hold back a high
// stone). EnumerateAll considers every unused value at every branch; it
// is exposed for completeness and future use but is substantially more
// expensive.
type StoneSelection int

const (
	ForceHighest StoneSelection = iota
	EnumerateAll
)

// Config holds the search parameters that used to be process-global
// flags in the reference implementation: maximum depth, move-ordering
// toggle, and stone-selection policy. Passing this explicitly into
// Search (rather than reading package globals) is this package's answer
// to the reference's global "max_search_depth"/ordering flags.
type Config struct {
	MaxDepth       int
	OrderByLiberty bool
	Selection      StoneSelection
	// Rand drives the move-ordering shuffle (spec: ties among
	// equal-liberty fields are broken uniformly at random, seeded
	// deterministically from the initial brown-stone placement so
	// analyses are reproducible). Callers construct this once per game
	// from the brown seed; nil disables the shuffle.
	Rand *rand.Rand
}

// Stats counts search nodes visited per ply, for diagnostics only; it
// never influences the search outcome.
type Stats struct {
	// VisitsByPly[d] counts calls to the search core at remaining-depth
	// d (VisitsByPly[0] is leaf evaluations).
	VisitsByPly []int64
}

// Total returns the sum of all per-ply visit counts.
func (s Stats) Total() int64 {
	var total int64
	for _, v := range s.VisitsByPly {
		total += v
	}
	return total
}

func newStats(maxDepth int) *Stats {
	return &Stats{VisitsByPly: make([]int64, maxDepth+1)}
}

func (s *Stats) record(depth int) {
	s.VisitsByPly[depth]++
}

// EffectiveDepth returns min(30-movesPlayed, maxDepth): the search never
// explores past the game's natural end (spec.md §4.5.2).
func EffectiveDepth(s *rules.State, maxDepth int) int {
	remaining := rules.MaxMoves - s.MovesPlayed
	if remaining < maxDepth {
		return remaining
	}
	return maxDepth
}

// highestUnused returns the highest value in 1..MaxValue that player has
// not yet placed, or 0 if all are used (which cannot happen while the
// game has moves remaining).
func highestUnused(s *rules.State, player int) int {
	for v := rules.MaxValue; v > 0; v-- {
		if !s.Used[player][v] {
			return v
		}
	}
	return 0
}

// candidateValues returns the stone values a branch at s may place,
// according to cfg.Selection.
func candidateValues(s *rules.State, player int, cfg Config) []int {
	if cfg.Selection == ForceHighest {
		v := highestUnused(s, player)
		if v == 0 {
			return nil
		}
		return []int{v}
	}
	values := make([]int, 0, rules.MaxValue)
	for v := 1; v <= rules.MaxValue; v++ {
		if !s.Used[player][v] {
			values = append(values, v)
		}
	}
	return values
}

// emptyFields returns the unoccupied fields of s, ordered by decreasing
// liberty count when cfg.OrderByLiberty is set (spec.md §4.5.1): the
// order is randomly permuted first (when cfg.Rand is set) and then
// stably sorted, so fields tied on liberty count appear in random order;
// with a nil cfg.Rand ties stay in field-index order.
func emptyFields(s *rules.State, cfg Config) []board.Field {
	fields := make([]board.Field, 0, board.NumFields)
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if !s.Occupied[f] {
			fields = append(fields, f)
		}
	}
	if !cfg.OrderByLiberty {
		return fields
	}
	if cfg.Rand != nil {
		cfg.Rand.Shuffle(len(fields), func(i, j int) {
			fields[i], fields[j] = fields[j], fields[i]
		})
	}
	liberties := func(f board.Field) int {
		n := 0
		for _, g := range board.Neighbours(f) {
			if !s.Occupied[g] {
				n++
			}
		}
		return n
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return liberties(fields[i]) > liberties(fields[j])
	})
	return fields
}

// Searcher runs one negamax search against a shared, mutated-in-place
// rules.State: DoMove/UndoMove around each recursive call, rather than
// copying the state, mirroring the teacher's undo-stack-based Searcher.
type Searcher struct {
	cfg   Config
	state *rules.State
	stats *Stats
}

// NewSearcher creates a Searcher over state using cfg. state is mutated
// in place by Search and restored to its original contents before
// Search returns.
func NewSearcher(state *rules.State, cfg Config) *Searcher {
	return &Searcher{cfg: cfg, state: state}
}

// Search runs a fail-soft negamax search to depth, returning the value
// and (if depth > 0 and a move exists) the best root move. lo < hi is
// required. The returned value v is exact if lo < v < hi; v <= lo is an
// upper bound and v >= hi is a lower bound on the true value.
func (s *Searcher) Search(depth, lo, hi int) (value int, bestMove rules.Move, stats Stats) {
	if lo >= hi {
		panic("search: require lo < hi")
	}
	s.stats = newStats(depth)
	value, bestMove = s.negamax(depth, lo, hi)
	return value, bestMove, *s.stats
}

// negamax implements the recursive search. Every call returns a best
// move alongside its value, but only the root call's move is used by
// Search; recursive callers discard it.
func (s *Searcher) negamax(depth, lo, hi int) (int, rules.Move) {
	s.stats.record(depth)

	if depth == 0 {
		return eval.Evaluate(s.state), rules.Move{}
	}

	colour := rules.NextColour(s.state)
	player := colour.PlayerIndex()
	values := candidateValues(s.state, player, s.cfg)
	fields := emptyFields(s.state, s.cfg)

	bestValue := math.MinInt32
	var bestMove rules.Move
	found := false

	for _, field := range fields {
		for _, value := range values {
			move := rules.Move{Field: field, Value: value}
			rules.DoMove(s.state, move)
			childValue, _ := s.negamax(depth-1, -hi, -lo)
			v := -childValue
			rules.UndoMove(s.state, move)

			if v > bestValue {
				bestValue = v
				bestMove = move
				found = true
				if bestValue > lo {
					lo = bestValue
					if lo >= hi {
						return bestValue, bestMove
					}
				}
			}
		}
	}

	if !found {
		// No candidate move exists; this should only happen when the
		// caller invoked Search on a terminal or near-terminal state
		// with depth > 0, which violates the search precondition.
		return eval.Evaluate(s.state), rules.Move{}
	}
	return bestValue, bestMove
}
