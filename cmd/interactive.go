package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/engine"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/session"
	"github.com/muesli/termenv"
)

const interactiveHelp = "Enter a cell (0-8), hint, reset or quit."

// runInteractive plays games in the terminal until the input ends or the player quits.
func runInteractive(
	ctx context.Context,
	in io.Reader,
	out *termenv.Output,
	sess *session.Session,
	eng *engine.Engine,
	playerSymbol string,
) error {
	state, err := sess.Start(ctx, playerSymbol)
	if err != nil {
		return err
	}
	printState(out, state)
	fmt.Fprintln(out, interactiveHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch line {
		case "":
			continue
		case "quit", "q":
			return nil
		case "hint":
			printHint(out, eng, state)
			continue
		case "reset":
			sess.Reset()
			state, err = sess.Start(ctx, playerSymbol)
		default:
			index, convErr := strconv.Atoi(line)
			if convErr != nil {
				printError(out, fmt.Errorf("%q is not a cell. %s", line, interactiveHelp))
				continue
			}
			state, err = sess.PlayerMove(ctx, index)
		}

		if err != nil {
			printError(out, err)
		}
		printState(out, state)
		if state.GameOver {
			fmt.Fprintln(out, "Type reset to play again or quit to exit.")
		}
	}
	return scanner.Err()
}

func symbolStyle(out *termenv.Output, cell string, index int, state session.State) string {
	switch cell {
	case board.Empty:
		return out.String(strconv.Itoa(index)).Faint().String()
	case state.PlayerSymbol:
		return out.String(cell).Foreground(out.Color("4")).Bold().String()
	default:
		return out.String(cell).Foreground(out.Color("1")).Bold().String()
	}
}

func printState(out *termenv.Output, state session.State) {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := range cells {
			i := row*3 + col
			cells[col] = symbolStyle(out, state.Board[i], i, state)
		}
		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			sb.WriteString("---|---|---\n")
		}
	}
	fmt.Fprint(out, sb.String())
	fmt.Fprintln(out, state.Message)
}

// printHint lists the guaranteed score of every move for the player, best first.
func printHint(out *termenv.Output, eng *engine.Engine, state session.State) {
	if state.GameOver || state.Turn != session.TurnPlayer {
		printError(out, fmt.Errorf("no hint available"))
		return
	}
	b := board.Normalize(state.Board, state.PlayerSymbol, state.AISymbol)
	scores, err := eng.Evaluate(b, state.PlayerSymbol, state.AISymbol)
	if err != nil {
		printError(out, err)
		return
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	for _, s := range scores {
		fmt.Fprintf(out, "  %d: %+d\n", s.Index, s.Score)
	}
}

func printError(out *termenv.Output, err error) {
	fmt.Fprintln(out, out.String("Error: "+err.Error()).Foreground(out.Color("1")).String())
}
