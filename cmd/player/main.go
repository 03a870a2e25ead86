// Command player is the Black Hole AI player: by default it speaks the
// arbiter's wire protocol over stdin/stdout; in analyze mode it reports
// the best move for a transcript and exits; in benchmark mode it reads
// transcripts from stdin and accumulates search-node counters.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hailam/blackhole/internal/protocol"
	"github.com/hailam/blackhole/internal/rules"
	"github.com/hailam/blackhole/internal/search"
	"github.com/hailam/blackhole/internal/transcript"
)

const usage = "Usage: player [analyze|benchmark] [-d<N>|--max_search_depth=<N>] [-o] [<base36-transcript>]"

const defaultMaxDepth = 6

// options mirrors the small hand-rolled argv scan the reference arbiter
// uses for its own flags (original_source/client/arbiter.cc main()):
// this protocol's flag shapes (-d6, --max_search_depth=6, -o) don't fit
// the standard library's flag package, which wants a single dash form
// and no positional interleaving.
type options struct {
	mode       string // "", "analyze", or "benchmark"
	maxDepth   int
	orderByLib bool
	transcript string
}

func parseArgs(args []string) (options, error) {
	opts := options{maxDepth: defaultMaxDepth}
	var positional []string
	for _, arg := range args {
		switch {
		case arg == "analyze" || arg == "benchmark":
			opts.mode = arg
		case arg == "-o":
			opts.orderByLib = true
		case strings.HasPrefix(arg, "--max_search_depth="):
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--max_search_depth="))
			if err != nil {
				return opts, fmt.Errorf("invalid --max_search_depth: %w", err)
			}
			opts.maxDepth = v
		case strings.HasPrefix(arg, "-d"):
			v, err := strconv.Atoi(arg[2:])
			if err != nil {
				return opts, fmt.Errorf("invalid -d flag %q: %w", arg, err)
			}
			opts.maxDepth = v
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) > 1 {
		return opts, fmt.Errorf("too many positional arguments")
	}
	if len(positional) == 1 {
		opts.transcript = positional[0]
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		log.Fatal(err)
	}

	cfg := search.Config{
		MaxDepth:       opts.maxDepth,
		OrderByLiberty: opts.orderByLib,
		Selection:      search.ForceHighest,
	}

	switch opts.mode {
	case "analyze":
		runAnalyze(opts.transcript, cfg)
	case "benchmark":
		runBenchmark(cfg)
	default:
		runInteractive(opts.transcript, cfg)
	}
}

func runAnalyze(transcriptArg string, cfg search.Config) {
	if transcriptArg == "" {
		log.Fatal("analyze mode requires a base36 transcript argument")
	}
	history, err := transcript.Decode(transcriptArg)
	if err != nil {
		log.Fatalf("invalid transcript: %v", err)
	}
	state := rules.NewState()
	for _, m := range history {
		rules.DoMove(state, m)
	}
	if rules.NextColour(state) == rules.None {
		log.Fatal("transcript already describes a finished game")
	}

	depth := search.EffectiveDepth(state, cfg.MaxDepth)
	searcher := search.NewSearcher(state, cfg)
	value, move, stats := searcher.Search(depth, -(1 << 29), 1<<29)
	fmt.Printf("bestmove %s value %d nodes %d\n", move, value, stats.Total())
}

func runBenchmark(cfg search.Config) {
	scanner := bufio.NewScanner(os.Stdin)
	var totalNodes int64
	var games int
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		history, err := transcript.Decode(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "benchmark: skipping invalid transcript: %v\n", err)
			continue
		}
		state := rules.NewState()
		for _, m := range history {
			rules.DoMove(state, m)
		}
		if rules.NextColour(state) == rules.None {
			continue
		}
		depth := search.EffectiveDepth(state, cfg.MaxDepth)
		searcher := search.NewSearcher(state, cfg)
		_, _, stats := searcher.Search(depth, -(1 << 29), 1<<29)
		totalNodes += stats.Total()
		games++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("benchmark: reading stdin: %v", err)
	}
	fmt.Printf("games %d nodes %d\n", games, totalNodes)
}

func runInteractive(transcriptArg string, cfg search.Config) {
	player := protocol.New(os.Stdin, os.Stdout, cfg)
	if transcriptArg != "" {
		history, err := transcript.Decode(transcriptArg)
		if err != nil {
			log.Fatalf("invalid transcript: %v", err)
		}
		if err := player.SeedFromHistory(history); err != nil {
			log.Fatalf("could not resume from transcript: %v", err)
		}
		colour := rules.NextColour(player.State())
		if colour == rules.None {
			log.Fatal("transcript already describes a finished game")
		}
		player.SetColour(colour)
	}
	if err := player.Run(); err != nil {
		log.Fatal(err)
	}
}
