package api

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/board"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Predictor answers "what does the AI play on this board".
type Predictor interface {
	PredictMove(ctx context.Context, req PredictMoveRequest) (*PredictMoveResponse, error)
}

// MoveSelector is the engine contract the Service relies on.
type MoveSelector interface {
	SelectMove(b board.Board, ai, opponent string) (int, error)
}

// Service validates prediction requests, guards the engine against finished games and
// reports the board after the AI's move.
type Service struct {
	log      *zap.Logger
	selector MoveSelector
}

// NewService constructs a new Service instance.
func NewService(log *zap.Logger, selector MoveSelector) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log, selector: selector}
}

// DecodePredictMoveRequest converts a generic JSON object into a request, rejecting
// anything that is not shaped like one.
func DecodePredictMoveRequest(raw map[string]interface{}) (PredictMoveRequest, error) {
	if len(raw) == 0 {
		return PredictMoveRequest{}, malformed("No input data provided")
	}

	var wire wirePredictMoveRequest
	if err := mapstructure.Decode(raw["board"], &wire.Board); err != nil {
		if _, isList := raw["board"].([]interface{}); isList {
			return PredictMoveRequest{}, malformed("Board elements must be strings (e.g., 'X', 'O', ' ').")
		}
		return PredictMoveRequest{}, malformed("Invalid 'board' provided. Must be a list of 9 strings.")
	}
	if err := mapstructure.Decode(raw["ai_symbol"], &wire.AISymbol); err != nil {
		return PredictMoveRequest{}, malformed("Invalid 'ai_symbol' provided. Must be a single character string.")
	}
	if err := mapstructure.Decode(raw["opponent_symbol"], &wire.OpponentSymbol); err != nil {
		return PredictMoveRequest{}, malformed("Invalid 'opponent_symbol' provided. Must be a single character string.")
	}

	if len(wire.Board) != board.Size {
		return PredictMoveRequest{}, malformed("Invalid 'board' provided. Must be a list of %d strings.", board.Size)
	}
	req := PredictMoveRequest{
		Board:          make([]string, board.Size),
		AISymbol:       wire.AISymbol,
		OpponentSymbol: wire.OpponentSymbol,
	}
	for i, cell := range wire.Board {
		if cell == nil {
			return PredictMoveRequest{}, malformed("Board elements must be strings (e.g., 'X', 'O', ' ').")
		}
		req.Board[i] = *cell
	}
	return req, req.Validate()
}

// Validate checks the board shape and the two symbols.
func (r PredictMoveRequest) Validate() error {
	if len(r.Board) != board.Size {
		return malformed("Invalid 'board' provided. Must be a list of %d strings.", board.Size)
	}
	if !isSymbol(r.AISymbol) {
		return malformed("Invalid 'ai_symbol' provided. Must be a single character string.")
	}
	if !isSymbol(r.OpponentSymbol) {
		return malformed("Invalid 'opponent_symbol' provided. Must be a single character string.")
	}
	if r.AISymbol == r.OpponentSymbol {
		return malformed("'ai_symbol' and 'opponent_symbol' cannot be the same.")
	}
	return nil
}

// isSymbol accepts one character that cannot be confused with an empty cell.
func isSymbol(s string) bool {
	return utf8.RuneCountInString(s) == 1 && s != board.Empty
}

// PredictMove plays the AI's move on the request board.
func (s *Service) PredictMove(ctx context.Context, req PredictMoveRequest) (resp *PredictMoveResponse, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ai, opponent := req.AISymbol, req.OpponentSymbol
	current := board.Normalize(req.Board, ai, opponent)

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Recovered from panic while predicting a move",
				zap.Any("panic", r), zap.Strings("board", current.Cells()))
			resp = nil
			err = &InternalError{Reason: "An internal server error occurred.", Board: current.Cells(), Err: fmt.Errorf("%v", r)}
		}
	}()

	switch {
	case current.Winner(ai):
		return gameOver(current, fmt.Sprintf("Game already over. AI (%s) had already won.", ai), ai), nil
	case current.Winner(opponent):
		return gameOver(current, fmt.Sprintf("Game already over. Opponent (%s) had already won.", opponent), opponent), nil
	case current.IsFull():
		return gameOver(current, "Game already over. It's a tie.", WinnerTie), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := s.selector.SelectMove(current, ai, opponent)
	if err != nil {
		return nil, &InternalError{
			Reason: "AI could not determine a move, board might be in an unexpected state.",
			Board:  current.Cells(),
			Err:    err,
		}
	}

	next, err := current.ApplyMove(index, ai)
	if err != nil {
		return nil, &InternalError{Reason: "AI generated an invalid move index.", Board: current.Cells(), Err: err}
	}

	resp = &PredictMoveResponse{
		Board:       next.Cells(),
		AIMoveIndex: &index,
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("AI (%s) moved to position %d.", ai, index),
	}
	if next.Winner(ai) {
		resp.GameOver = true
		resp.Winner = &ai
		resp.Message = fmt.Sprintf("AI (%s) moved to %d and won!", ai, index)
	} else if next.IsFull() {
		tie := WinnerTie
		resp.GameOver = true
		resp.Winner = &tie
		resp.Message = fmt.Sprintf("AI (%s) moved to %d. It's a tie!", ai, index)
	}

	s.log.Debug("Predicted move", zap.String("ai", ai), zap.Int("index", index), zap.Bool("gameOver", resp.GameOver))
	return resp, nil
}

func gameOver(b board.Board, message, winner string) *PredictMoveResponse {
	return &PredictMoveResponse{
		Board:    b.Cells(),
		Status:   StatusGameOver,
		Message:  message,
		GameOver: true,
		Winner:   &winner,
	}
}
