package engine

import (
	"testing"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromString(s string) board.Board {
	var b board.Board
	for i, r := range s {
		if r == '.' {
			b[i] = board.Empty
		} else {
			b[i] = string(r)
		}
	}
	return b
}

func other(symbol string) string {
	if symbol == "X" {
		return "O"
	}
	return "X"
}

func TestSelfPlayAlwaysTies(t *testing.T) {
	engines := map[string]*Engine{
		"default": New(),
		"seed 1":  New(WithSeed(1)),
		"seed 7":  New(WithSeed(7)),
		"seed 42": New(WithSeed(42)),
	}

	for name, e := range engines {
		t.Run(name, func(t *testing.T) {
			for game := 0; game < 5; game++ {
				b := board.New()
				turn := "X"
				for !b.Winner("X") && !b.Winner("O") && !b.IsFull() {
					move, err := e.SelectMove(b, turn, other(turn))
					require.NoError(t, err)
					require.True(t, b.IsValidMove(move), "move %d on\n%s", move, b)

					b, err = b.ApplyMove(move, turn)
					require.NoError(t, err)
					turn = other(turn)
				}
				assert.False(t, b.Winner("X"), "X won\n%s", b)
				assert.False(t, b.Winner("O"), "O won\n%s", b)
				assert.True(t, b.IsFull())
			}
		})
	}
}

func TestForcedWin(t *testing.T) {
	// X holds 0 and 1, O holds 4 and 8 with no line of its own open.
	b := fromString("XX..O...O")
	for seed := int64(0); seed < 10; seed++ {
		sel, err := New(WithSeed(seed)).Select(b, "X", "O")
		require.NoError(t, err)
		assert.Equal(t, 2, sel.Index)
		assert.Equal(t, WinScore, sel.Score)
	}
}

func TestForcedBlock(t *testing.T) {
	// O threatens 0-1-2, X has no win in one.
	b := fromString("OO..X....")
	for seed := int64(0); seed < 10; seed++ {
		sel, err := New(WithSeed(seed)).Select(b, "X", "O")
		require.NoError(t, err)
		assert.Equal(t, 2, sel.Index)
		assert.Greater(t, int(sel.Score), int(1-WinScore))
	}
}

func TestForcedBlockColumn(t *testing.T) {
	b := fromString("A..A.B...")
	move, err := New(WithSeed(3)).SelectMove(b, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, 6, move)
}

func TestPrefersWinOverBlock(t *testing.T) {
	b := fromString("XX.OO....")
	move, err := New().SelectMove(b, "O", "X")
	require.NoError(t, err)
	assert.Equal(t, 5, move)
}

func TestSwappedSymbolsDoNotShareScores(t *testing.T) {
	e := New(WithSeed(11))
	b := fromString("XX.OO....")

	first, err := e.Select(b, "X", "O")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Index)
	assert.Equal(t, WinScore, first.Score)

	second, err := e.Select(b, "O", "X")
	require.NoError(t, err)
	assert.Equal(t, 5, second.Index)
	assert.Equal(t, WinScore, second.Score)
}

func TestSearchersDoNotShareMemo(t *testing.T) {
	b := fromString("XX..O...O")
	first := newSearcher("X", "O")
	assert.Equal(t, Score(WinScore-1), first.search(b, 0, true, negInf, posInf))
	assert.Positive(t, first.memo.Len())

	second := newSearcher("O", "X")
	assert.Zero(t, second.memo.Len())
	assert.NotSame(t, first.memo, second.memo)
}

func TestSelectionScoreIsStable(t *testing.T) {
	boards := []string{".........", "X........", "....X....", "X...O....", "XO..X...."}
	for _, s := range boards {
		b := fromString(s)
		ai := "O"
		if len(b.AvailableMoves())%2 == 1 {
			ai = "X"
		}

		first, err := New().Select(b, ai, other(ai))
		require.NoError(t, err)
		second, err := New().Select(b, ai, other(ai))
		require.NoError(t, err)
		assert.Equal(t, first.Score, second.Score, "board %s", s)

		scores, err := New().Evaluate(b, ai, other(ai))
		require.NoError(t, err)
		best := negInf
		for _, ms := range scores {
			best = max(best, ms.Score)
		}
		assert.Equal(t, best, first.Score, "board %s", s)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	b := board.New()
	for seed := int64(0); seed < 5; seed++ {
		a, err := New(WithSeed(seed)).SelectMove(b, "X", "O")
		require.NoError(t, err)
		c, err := New(WithSeed(seed)).SelectMove(b, "X", "O")
		require.NoError(t, err)
		assert.Equal(t, a, c)
	}
}

func TestSelectMoveAlwaysLegal(t *testing.T) {
	e := New(WithSeed(5))
	r := New(WithSeed(99)).rand
	for game := 0; game < 20; game++ {
		b := board.New()
		turn := "X"
		for !b.Winner("X") && !b.Winner("O") && !b.IsFull() {
			var move int
			if turn == "X" {
				moves := b.AvailableMoves()
				move = moves[r.Intn(len(moves))]
			} else {
				var err error
				move, err = e.SelectMove(b, "O", "X")
				require.NoError(t, err)
				require.True(t, b.IsValidMove(move))
			}
			var err error
			b, err = b.ApplyMove(move, turn)
			require.NoError(t, err)
			turn = other(turn)
		}
		assert.False(t, b.Winner("X"), "random player beat the engine\n%s", b)
	}
}

func TestNoMovesAvailable(t *testing.T) {
	_, err := New().SelectMove(fromString("XOXXOOOXX"), "X", "O")
	assert.ErrorIs(t, err, ErrNoMovesAvailable)

	_, err = New().Evaluate(fromString("XOXXOOOXX"), "X", "O")
	assert.ErrorIs(t, err, ErrNoMovesAvailable)
}

func TestEvaluateDepthParity(t *testing.T) {
	scores, err := New().Evaluate(fromString("OO..X...."), "X", "O")
	require.NoError(t, err)
	for _, ms := range scores {
		if ms.Index == 2 {
			assert.Greater(t, int(ms.Score), int(1-WinScore))
		} else {
			assert.Equal(t, 1-WinScore, ms.Score, "move %d", ms.Index)
		}
	}
}

func TestStatsAreReported(t *testing.T) {
	sel, err := New().Select(board.New(), "X", "O")
	require.NoError(t, err)
	assert.Positive(t, sel.Stats.Nodes)
	assert.Positive(t, sel.Stats.MemoSize)
	assert.Positive(t, sel.Stats.MemoHits)
}

func TestPackageSelectMove(t *testing.T) {
	move, err := SelectMove(fromString("XX..O...O"), "X", "O")
	require.NoError(t, err)
	assert.Equal(t, 2, move)
}
