package engine

import (
	"math"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
)

// Score is the value of a position from the AI's point of view. A win is worth
// WinScore minus the depth it happens at, so faster wins and slower losses rank higher.
type Score int

const (
	WinScore Score = 10
	TieScore Score = 0

	negInf = Score(math.MinInt32)
	posInf = Score(math.MaxInt32)
)

// Stats counts the work done by one move selection.
type Stats struct {
	Nodes    int `json:"nodes"`
	MemoHits int `json:"memoHits"`
	MemoSize int `json:"memoSize"`
	Cutoffs  int `json:"cutoffs"`
}

// searcher runs minimax with alpha-beta pruning for a single selection context.
// It is not safe for concurrent use; every top-level selection gets its own.
type searcher struct {
	ai       string
	opponent string
	memo     *Memo
	stats    Stats
}

func newSearcher(ai, opponent string) *searcher {
	return &searcher{ai: ai, opponent: opponent, memo: NewMemo()}
}

// search returns the score of b where maximizing tells whether the AI places the next symbol.
//
// Scores that come out of a cutoff are only bounds on the real value, so only results
// strictly inside the (alpha, beta) window the node was entered with are memoized.
func (s *searcher) search(b board.Board, depth int, maximizing bool, alpha, beta Score) Score {
	s.stats.Nodes++

	if score, ok := s.memo.Get(b); ok {
		s.stats.MemoHits++
		return score
	}

	switch {
	case b.Winner(s.ai):
		score := WinScore - Score(depth)
		s.memo.Put(b, score)
		return score
	case b.Winner(s.opponent):
		score := Score(depth) - WinScore
		s.memo.Put(b, score)
		return score
	case b.IsFull():
		s.memo.Put(b, TieScore)
		return TieScore
	}

	alphaIn, betaIn := alpha, beta
	var best Score

	if maximizing {
		best = negInf
		for _, move := range b.AvailableMoves() {
			next := b
			next[move] = s.ai
			score := s.search(next, depth+1, false, alpha, beta)
			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
	} else {
		best = posInf
		for _, move := range b.AvailableMoves() {
			next := b
			next[move] = s.opponent
			score := s.search(next, depth+1, true, alpha, beta)
			best = min(best, score)
			beta = min(beta, score)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
	}

	if best > alphaIn && best < betaIn {
		s.memo.Put(b, best)
	}
	return best
}
