// Command randomplayer is a trivial Black Hole player that places
// random unused stones on random empty fields. It exists only as a
// cheap opponent for self-testing the arbiter and protocol packages.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/hailam/blackhole/internal/board"
	"github.com/hailam/blackhole/internal/rules"
)

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024), 1024)
	readLine := func() string {
		if !scanner.Scan() {
			os.Exit(1)
		}
		return strings.TrimSpace(scanner.Text())
	}

	state := rules.NewState()
	for i := 0; i < rules.InitialStones; i++ {
		field, err := board.ParseFieldName(readLine())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		rules.DoMove(state, rules.Move{Field: field})
	}

	line := readLine()
	colour := rules.Red
	if line != "Start" {
		colour = rules.Blue
		move, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		rules.DoMove(state, move)
	}

	for rules.NextColour(state) != rules.None {
		if rules.NextColour(state) == colour {
			move := randomMove(state, colour)
			rules.DoMove(state, move)
			fmt.Println(move)
		} else {
			move, err := parseMove(readLine())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			rules.DoMove(state, move)
		}
	}

	if readLine() != "Quit" {
		fmt.Fprintln(os.Stderr, "expected Quit")
		os.Exit(1)
	}
}

func parseMove(line string) (rules.Move, error) {
	name, valueStr, _ := strings.Cut(line, "=")
	field, err := board.ParseFieldName(name)
	if err != nil {
		return rules.Move{}, err
	}
	var value int
	fmt.Sscanf(valueStr, "%d", &value)
	return rules.Move{Field: field, Value: value}, nil
}

func randomMove(state *rules.State, colour rules.Colour) rules.Move {
	var empty []board.Field
	for f := board.Field(0); int(f) < board.NumFields; f++ {
		if !state.Occupied[f] {
			empty = append(empty, f)
		}
	}
	var unused []int
	player := colour.PlayerIndex()
	for v := 1; v <= rules.MaxValue; v++ {
		if !state.Used[player][v] {
			unused = append(unused, v)
		}
	}
	field := empty[rand.Intn(len(empty))]
	value := unused[rand.Intn(len(unused))]
	return rules.Move{Field: field, Value: value}
}
