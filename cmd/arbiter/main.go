// Command arbiter runs one or more Black Hole games between two player
// commands, swapping sides each game, and prints per-game transcripts
// and (for multi-game runs) a summary table.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hailam/blackhole/internal/tournament"
)

const usage = "Usage: arbiter [--rounds=<N>] [--logs=<filename-prefix>] <player1-command> <player2-command>"

type options struct {
	rounds     int
	logsPrefix string
	hasLogs    bool
	commands   [2]string
}

func parseArgs(args []string) (options, error) {
	var opts options
	var positional []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--rounds="):
			v, err := strconv.Atoi(strings.TrimPrefix(arg, "--rounds="))
			if err != nil {
				return opts, fmt.Errorf("invalid --rounds: %w", err)
			}
			opts.rounds = v
		case strings.HasPrefix(arg, "--logs="):
			opts.logsPrefix = strings.TrimPrefix(arg, "--logs=")
			opts.hasLogs = true
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) != 2 {
		return opts, fmt.Errorf("expected exactly two player commands, got %d", len(positional))
	}
	opts.commands[0] = positional[0]
	opts.commands[1] = positional[1]
	return opts, nil
}

// logFactory builds the per-child stderr destination according to
// --logs: unset discards, "-" routes to the arbiter's own stderr, and
// anything else is a filename prefix (spec.md §6.3).
func logFactory(opts options) tournament.LogFactory {
	if !opts.hasLogs {
		return tournament.DiscardLogs
	}
	if opts.logsPrefix == "-" {
		return func(int, int) io.Writer { return os.Stderr }
	}
	return func(game, slot int) io.Writer {
		label := "red"
		if slot == 1 {
			label = "blue"
		}
		name := fmt.Sprintf("%s%04d_%d_%s", opts.logsPrefix, game, slot, label)
		f, err := os.Create(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "arbiter: could not create log %q: %v\n", name, err)
			return io.Discard
		}
		return f
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		log.Fatal(err)
	}

	report, err := tournament.Run(opts.commands[0], opts.commands[1], opts.rounds, logFactory(opts))
	if err != nil {
		log.Fatal(err)
	}

	tournament.PrintTranscripts(os.Stdout, report)
	tournament.PrintSummary(os.Stdout, report, isatty.IsTerminal(os.Stdout.Fd()))
}
