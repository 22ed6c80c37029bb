package engine

import "github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"

// Memo caches search scores by board. Scores depend on which symbol is the AI, so a Memo
// belongs to one selection and is never shared between symbol pairs.
type Memo struct {
	scores map[board.Board]Score
}

func NewMemo() *Memo {
	return &Memo{scores: make(map[board.Board]Score)}
}

func (m *Memo) Get(b board.Board) (Score, bool) {
	score, ok := m.scores[b]
	return score, ok
}

func (m *Memo) Put(b board.Board, score Score) {
	m.scores[b] = score
}

func (m *Memo) Len() int {
	return len(m.scores)
}
