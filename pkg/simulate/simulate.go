package simulate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/engine"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/game"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrNoGames = errors.New("number of games must be positive")

// Options configures a simulation run. The first half of the games is played with the AI
// moving first, the rest with the opponent moving first.
type Options struct {
	Games    int
	Workers  int
	AI       game.Player
	Opponent game.Player
	// AISymbol always belongs to the AI, whichever side moves first.
	AISymbol       string
	OpponentSymbol string
	Log            *zap.Logger
}

// Summary counts results from the AI's point of view.
type Summary struct {
	Games        int `json:"games"`
	AIFirstGames int `json:"aiFirstGames"`
	AIWins       int `json:"aiWins"`
	OpponentWins int `json:"opponentWins"`
	Ties         int `json:"ties"`
}

// Unbeatability is the share of games the AI did not lose.
func (s Summary) Unbeatability() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.AIWins+s.Ties) / float64(s.Games)
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"games=%d aiFirst=%d aiWins=%d opponentWins=%d ties=%d unbeatability=%.2f%%",
		s.Games, s.AIFirstGames, s.AIWins, s.OpponentWins, s.Ties, 100*s.Unbeatability())
}

func (o *Options) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.AI == nil {
		o.AI = game.NewMinimaxPlayer(nil)
	}
	if o.Opponent == nil {
		o.Opponent = game.NewRandomPlayer(engine.FastRandomizer())
	}
	if o.AISymbol == "" {
		o.AISymbol = "X"
	}
	if o.OpponentSymbol == "" {
		o.OpponentSymbol = "O"
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
}

// Run plays opts.Games games over a bounded worker pool and tallies the results.
// The first failing game cancels the rest.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Games <= 0 {
		return Summary{}, ErrNoGames
	}
	opts.setDefaults()

	var (
		mu      sync.Mutex
		summary = Summary{Games: opts.Games, AIFirstGames: opts.Games / 2}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := 0; i < opts.Games; i++ {
		aiFirst := i < summary.AIFirstGames
		gameID := i
		g.Go(func() error {
			var (
				outcome game.Outcome
				err     error
			)
			if aiFirst {
				outcome, err = game.Play(ctx, opts.AI, opts.Opponent, opts.AISymbol, opts.OpponentSymbol)
			} else {
				outcome, err = game.Play(ctx, opts.Opponent, opts.AI, opts.OpponentSymbol, opts.AISymbol)
			}
			if err != nil {
				return fmt.Errorf("game %d: %w", gameID, err)
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case outcome.Result == game.Tie:
				summary.Ties++
			case (outcome.Result == game.FirstWins) == aiFirst:
				summary.AIWins++
			default:
				summary.OpponentWins++
				opts.Log.Warn("AI lost a game",
					zap.Int("game", gameID),
					zap.Bool("aiFirst", aiFirst),
					zap.Ints("moves", outcome.Moves))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	opts.Log.Info("Simulation finished", zap.String("summary", summary.String()))
	return summary, nil
}
