package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/api"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Turn string

const (
	TurnPlayer Turn = "player"
	TurnAI     Turn = "ai"
)

var (
	ErrNotStarted  = errors.New("game has not been started")
	ErrGameOver    = errors.New("game is already over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameChanged = errors.New("game was reset while the AI was thinking")
)

// State is a snapshot of a Session, safe to hand to other goroutines.
type State struct {
	ID           string   `json:"id"`
	Board        []string `json:"board"`
	PlayerSymbol string   `json:"playerSymbol"`
	AISymbol     string   `json:"aiSymbol"`
	Turn         Turn     `json:"turn"`
	GameOver     bool     `json:"gameOver"`
	Winner       string   `json:"winner,omitempty"`
	Message      string   `json:"message"`
	Started      bool     `json:"started"`
}

// Session plays one game against the AI. It owns the authoritative board and turn flag and
// asks a Predictor for every AI move.
type Session struct {
	ID string

	log       *zap.Logger
	predictor api.Predictor

	mu           sync.Mutex
	board        board.Board
	playerSymbol string
	aiSymbol     string
	turn         Turn
	gameOver     bool
	winner       string
	message      string
	started      bool
	// generation changes on every Start and Reset, so a late AI reply can tell its game is gone.
	generation uint64
}

// New creates a session with a fresh ID.
func New(log *zap.Logger, predictor api.Predictor) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		ID:        id,
		log:       log.With(zap.String("session", id)),
		predictor: predictor,
		board:     board.New(),
	}
}

// Start begins a new game. Choosing X means the player moves first, anything else gives
// the player O and lets the AI (X) open immediately.
func (s *Session) Start(ctx context.Context, playerSymbol string) (State, error) {
	s.mu.Lock()
	if playerSymbol == "X" {
		s.playerSymbol, s.aiSymbol, s.turn = "X", "O", TurnPlayer
	} else {
		s.playerSymbol, s.aiSymbol, s.turn = "O", "X", TurnAI
	}
	s.board = board.New()
	s.gameOver = false
	s.winner = ""
	s.started = true
	s.generation++
	s.message = fmt.Sprintf("Game started. You are %s.", s.playerSymbol)
	aiFirst := s.turn == TurnAI
	s.mu.Unlock()

	s.log.Info("Started game", zap.String("player", playerSymbol))
	if aiFirst {
		return s.AITurn(ctx)
	}
	return s.State(), nil
}

// PlayerMove places the player's symbol at index and, unless the game ended, lets the AI reply.
func (s *Session) PlayerMove(ctx context.Context, index int) (State, error) {
	s.mu.Lock()
	if err := s.checkTurnLocked(TurnPlayer); err != nil {
		s.mu.Unlock()
		return s.State(), err
	}

	next, err := s.board.ApplyMove(index, s.playerSymbol)
	if err != nil {
		s.mu.Unlock()
		return s.State(), err
	}
	s.board = next

	switch {
	case next.Winner(s.playerSymbol):
		s.gameOver = true
		s.winner = s.playerSymbol
		s.message = fmt.Sprintf("Congratulations! You (%s) won!", s.playerSymbol)
	case next.IsFull():
		s.gameOver = true
		s.winner = api.WinnerTie
		s.message = "It's a tie!"
	default:
		s.turn = TurnAI
		s.message = fmt.Sprintf("You played at %d. AI's turn.", index)
	}
	aiNext := !s.gameOver
	s.mu.Unlock()

	if aiNext {
		return s.AITurn(ctx)
	}
	return s.State(), nil
}

// AITurn asks the Predictor for the AI's move. If the call fails the turn stays with the AI,
// so it can be retried.
func (s *Session) AITurn(ctx context.Context) (State, error) {
	s.mu.Lock()
	if err := s.checkTurnLocked(TurnAI); err != nil {
		s.mu.Unlock()
		return s.State(), err
	}
	req := api.PredictMoveRequest{
		Board:          s.board.Cells(),
		AISymbol:       s.aiSymbol,
		OpponentSymbol: s.playerSymbol,
	}
	generation := s.generation
	s.mu.Unlock()

	resp, err := s.predictor.PredictMove(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.log.Debug("Dropped AI reply for a previous game")
		return s.stateLocked(), ErrGameChanged
	}
	if err != nil {
		s.log.Warn("AI turn failed", zap.Error(err))
		s.message = "Error: Could not reach AI. Please try again later."
		return s.stateLocked(), fmt.Errorf("ai turn: %w", err)
	}

	s.board = board.Normalize(resp.Board, s.aiSymbol, s.playerSymbol)
	move := "?"
	if resp.AIMoveIndex != nil {
		move = fmt.Sprint(*resp.AIMoveIndex)
	}

	if resp.GameOver {
		s.gameOver = true
		if resp.Winner != nil {
			s.winner = *resp.Winner
		}
		switch s.winner {
		case s.aiSymbol:
			s.message = fmt.Sprintf("AI (%s) moved to %s and won!", s.aiSymbol, move)
		case api.WinnerTie:
			s.message = fmt.Sprintf("AI (%s) moved. It's a tie!", s.aiSymbol)
		default:
			s.message = fmt.Sprintf("Game over. Winner: %s", s.winner)
		}
	} else {
		s.message = fmt.Sprintf("AI (%s) moved to %s. Your turn.", s.aiSymbol, move)
	}
	s.turn = TurnPlayer

	s.log.Debug("AI moved", zap.String("move", move), zap.Bool("gameOver", s.gameOver))
	return s.stateLocked(), nil
}

// Reset clears the game, a new one needs Start.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = board.New()
	s.playerSymbol, s.aiSymbol = "", ""
	s.turn = ""
	s.gameOver = false
	s.winner = ""
	s.started = false
	s.generation++
	s.message = "Game has been reset."
	return s.stateLocked()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) checkTurnLocked(turn Turn) error {
	switch {
	case !s.started:
		return ErrNotStarted
	case s.gameOver:
		return ErrGameOver
	case s.turn != turn:
		return ErrNotYourTurn
	}
	return nil
}

func (s *Session) stateLocked() State {
	return State{
		ID:           s.ID,
		Board:        s.board.Cells(),
		PlayerSymbol: s.playerSymbol,
		AISymbol:     s.aiSymbol,
		Turn:         s.turn,
		GameOver:     s.gameOver,
		Winner:       s.winner,
		Message:      s.message,
		Started:      s.started,
	}
}
