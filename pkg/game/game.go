package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/api"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/engine"
)

// Player chooses a move for the symbol own on b.
type Player interface {
	Name() string
	Move(ctx context.Context, b board.Board, own, opponent string) (int, error)
}

// MinimaxPlayer plays the engine's move.
type MinimaxPlayer struct {
	engine *engine.Engine
}

func NewMinimaxPlayer(e *engine.Engine) *MinimaxPlayer {
	if e == nil {
		e = engine.New()
	}
	return &MinimaxPlayer{engine: e}
}

func (p *MinimaxPlayer) Name() string { return "minimax" }

func (p *MinimaxPlayer) Move(_ context.Context, b board.Board, own, opponent string) (int, error) {
	return p.engine.SelectMove(b, own, opponent)
}

// RandomPlayer picks uniformly among the empty cells.
type RandomPlayer struct {
	rand engine.Randomizer
}

func NewRandomPlayer(r engine.Randomizer) *RandomPlayer {
	if r == nil {
		r = engine.FastRandomizer()
	}
	return &RandomPlayer{rand: r}
}

func (p *RandomPlayer) Name() string { return "random" }

func (p *RandomPlayer) Move(_ context.Context, b board.Board, _, _ string) (int, error) {
	moves := b.AvailableMoves()
	if len(moves) == 0 {
		return 0, engine.ErrNoMovesAvailable
	}
	return moves[p.rand.Intn(len(moves))], nil
}

// PredictorPlayer asks a Predictor, local or remote, for its moves.
type PredictorPlayer struct {
	predictor api.Predictor
}

func NewPredictorPlayer(predictor api.Predictor) *PredictorPlayer {
	return &PredictorPlayer{predictor: predictor}
}

func (p *PredictorPlayer) Name() string { return "predictor" }

func (p *PredictorPlayer) Move(ctx context.Context, b board.Board, own, opponent string) (int, error) {
	resp, err := p.predictor.PredictMove(ctx, api.PredictMoveRequest{
		Board:          b.Cells(),
		AISymbol:       own,
		OpponentSymbol: opponent,
	})
	if err != nil {
		return 0, err
	}
	if resp.AIMoveIndex == nil {
		return 0, fmt.Errorf("predictor returned no move: %s", resp.Message)
	}
	return *resp.AIMoveIndex, nil
}

// Result of a finished game from the first player's point of view.
type Result int

const (
	Tie Result = iota
	FirstWins
	SecondWins
)

func (r Result) String() string {
	switch r {
	case FirstWins:
		return "first"
	case SecondWins:
		return "second"
	default:
		return "tie"
	}
}

type Outcome struct {
	Result Result
	Board  board.Board
	Moves  []int
}

var ErrIllegalMove = errors.New("illegal move")

// Play drives one game from an empty board, first moving with firstSymbol.
func Play(ctx context.Context, first, second Player, firstSymbol, secondSymbol string) (Outcome, error) {
	players := [2]Player{first, second}
	symbols := [2]string{firstSymbol, secondSymbol}
	outcome := Outcome{Board: board.New()}

	for turn := 0; ; turn = 1 - turn {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		own, opponent := symbols[turn], symbols[1-turn]
		move, err := players[turn].Move(ctx, outcome.Board, own, opponent)
		if err != nil {
			return outcome, fmt.Errorf("%s (%s): %w", players[turn].Name(), own, err)
		}
		next, err := outcome.Board.ApplyMove(move, own)
		if err != nil {
			return outcome, fmt.Errorf("%s (%s) played %d: %w: %v", players[turn].Name(), own, move, ErrIllegalMove, err)
		}
		outcome.Board = next
		outcome.Moves = append(outcome.Moves, move)

		switch {
		case next.Winner(own):
			outcome.Result = FirstWins
			if turn == 1 {
				outcome.Result = SecondWins
			}
			return outcome, nil
		case next.IsFull():
			outcome.Result = Tie
			return outcome, nil
		}
	}
}
