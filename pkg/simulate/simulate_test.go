package simulate

import (
	"context"
	"errors"
	"testing"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/engine"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenPlayer struct{}

func (brokenPlayer) Name() string { return "broken" }

func (brokenPlayer) Move(context.Context, board.Board, string, string) (int, error) {
	return 0, errors.New("unplugged")
}

func TestRunAgainstRandom(t *testing.T) {
	summary, err := Run(context.Background(), Options{
		Games:    40,
		Workers:  4,
		AI:       game.NewMinimaxPlayer(engine.New(engine.WithSeed(2))),
		Opponent: game.NewRandomPlayer(engine.SeededRandomizer(4)),
	})
	require.NoError(t, err)

	assert.Equal(t, 40, summary.Games)
	assert.Equal(t, 20, summary.AIFirstGames)
	assert.Equal(t, 0, summary.OpponentWins)
	assert.Equal(t, 40, summary.AIWins+summary.Ties)
	assert.Equal(t, 1.0, summary.Unbeatability())
}

func TestRunSelfPlay(t *testing.T) {
	ai := game.NewMinimaxPlayer(nil)
	summary, err := Run(context.Background(), Options{Games: 5, AI: ai, Opponent: ai})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Ties)
	assert.Equal(t, 2, summary.AIFirstGames)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrNoGames)

	_, err = Run(context.Background(), Options{Games: 4, Opponent: brokenPlayer{}})
	assert.ErrorContains(t, err, "unplugged")
}

func TestUnbeatability(t *testing.T) {
	assert.Equal(t, 0.0, Summary{}.Unbeatability())
	s := Summary{Games: 4, AIWins: 1, Ties: 2, OpponentWins: 1}
	assert.Equal(t, 0.75, s.Unbeatability())
	assert.Contains(t, s.String(), "unbeatability=75.00%")
}
