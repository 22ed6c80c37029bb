package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"go.uber.org/zap"
	"lukechampine.com/frand"
)

// ErrNoMovesAvailable is returned when selection is asked for on a board without empty cells.
var ErrNoMovesAvailable = errors.New("no moves available")

// Randomizer supplies the randomness used to break ties between equally scored moves.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
	Intn(n int) int
}

type frandRandomizer struct{}

func (frandRandomizer) Shuffle(n int, swap func(i, j int)) { frand.Shuffle(n, swap) }
func (frandRandomizer) Intn(n int) int                     { return frand.Intn(n) }

// lockedRand makes a seeded math/rand source safe to share between selections.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// FastRandomizer returns the default, unseeded Randomizer.
func FastRandomizer() Randomizer { return frandRandomizer{} }

// SeededRandomizer returns a reproducible Randomizer safe for concurrent use.
func SeededRandomizer(seed int64) Randomizer {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// Engine picks moves by exhaustive minimax search. Search state lives in a fresh
// searcher per call, so one Engine can serve concurrent requests.
type Engine struct {
	log  *zap.Logger
	rand Randomizer
}

type Option func(*Engine)

// WithLogger attaches a logger, the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSeed makes tie-breaking reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rand = SeededRandomizer(seed)
	}
}

// WithRandomizer replaces the tie-breaking source.
func WithRandomizer(r Randomizer) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:  zap.NewNop(),
		rand: frandRandomizer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Selection is the outcome of a move selection.
type Selection struct {
	Index int   `json:"index"`
	Score Score `json:"score"`
	Stats Stats `json:"stats"`
}

// MoveScore is the guaranteed score of playing Index.
type MoveScore struct {
	Index int   `json:"index"`
	Score Score `json:"score"`
}

// SelectMove returns the index of a move at least as good as any other under optimal play.
func (e *Engine) SelectMove(b board.Board, ai, opponent string) (int, error) {
	sel, err := e.Select(b, ai, opponent)
	if err != nil {
		return -1, err
	}
	return sel.Index, nil
}

// Select is SelectMove that also reports the score of the chosen move and search statistics.
//
// Candidates are visited in shuffled order and the first strictly greater score wins,
// so the choice among equally good moves is not predictable.
func (e *Engine) Select(b board.Board, ai, opponent string) (Selection, error) {
	moves := b.AvailableMoves()
	if len(moves) == 0 {
		return Selection{Index: -1}, ErrNoMovesAvailable
	}

	start := time.Now()
	s := newSearcher(ai, opponent)
	e.rand.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	best, bestScore := -1, negInf
	for _, move := range moves {
		next := b
		next[move] = ai
		score := s.search(next, 0, false, negInf, posInf)
		if score > bestScore {
			best, bestScore = move, score
		}
	}

	if best == -1 {
		// Unreachable while moves exist, every search returns a real score.
		best = moves[e.rand.Intn(len(moves))]
		e.log.Warn("No move beat the sentinel score, falling back to a random move",
			zap.Int("move", best))
	}

	s.stats.MemoSize = s.memo.Len()
	e.log.Debug(fmt.Sprintf("Selected move %d for %s", best, ai),
		zap.Int("score", int(bestScore)),
		zap.Int("nodes", s.stats.Nodes),
		zap.Int("memoHits", s.stats.MemoHits),
		zap.Int("memoSize", s.stats.MemoSize),
		zap.Int("cutoffs", s.stats.Cutoffs),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Selection{Index: best, Score: bestScore, Stats: s.stats}, nil
}

// Evaluate returns the guaranteed score of every legal move, in ascending index order.
func (e *Engine) Evaluate(b board.Board, ai, opponent string) ([]MoveScore, error) {
	moves := b.AvailableMoves()
	if len(moves) == 0 {
		return nil, ErrNoMovesAvailable
	}

	s := newSearcher(ai, opponent)
	scores := make([]MoveScore, 0, len(moves))
	for _, move := range moves {
		next := b
		next[move] = ai
		scores = append(scores, MoveScore{
			Index: move,
			Score: s.search(next, 0, false, negInf, posInf),
		})
	}
	return scores, nil
}

var defaultEngine = New()

// SelectMove picks a move with the default Engine.
func SelectMove(b board.Board, ai, opponent string) (int, error) {
	return defaultEngine.SelectMove(b, ai, opponent)
}
