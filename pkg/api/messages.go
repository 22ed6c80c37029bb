package api

// Status values of a PredictMoveResponse.
const (
	StatusSuccess  = "success"
	StatusGameOver = "game_over"
)

// WinnerTie is reported as the winner of a drawn game.
const WinnerTie = "tie"

type PredictMoveRequest struct {
	Board          []string `json:"board"`
	AISymbol       string   `json:"ai_symbol"`
	OpponentSymbol string   `json:"opponent_symbol"`
}

// wirePredictMoveRequest is what a request decodes into before validation. Board cells are
// pointers so a JSON null can be told apart from a string.
type wirePredictMoveRequest struct {
	Board          []*string `mapstructure:"board"`
	AISymbol       string    `mapstructure:"ai_symbol"`
	OpponentSymbol string    `mapstructure:"opponent_symbol"`
}

type PredictMoveResponse struct {
	Board       []string `json:"board"`
	AIMoveIndex *int     `json:"ai_move_index"`
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	GameOver    bool     `json:"game_over"`
	Winner      *string  `json:"winner"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Board   []string `json:"board,omitempty"`
}

type PingResponse struct {
	Status string `json:"status"`
}
