package server

import (
	"errors"
	"fmt"
	"math"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/session"
	"github.com/mitchellh/mapstructure"
)

var ErrMalformedContents = errors.New("malformed message contents")

type SessionCreatedBroadcast struct {
	SessionID string `json:"sessionID"`
}

type StartGameRequest struct {
	PlayerSymbol string `json:"playerSymbol"`
}

type MakeMoveRequest struct {
	Index int `json:"index"`
}

type AITurnRequest struct{}

type ResetRequest struct{}

type GameStateBroadcast struct {
	session.State
}

// Wire forms use pointers so a missing field is told apart from a zero value.
type wireStartGameRequest struct {
	PlayerSymbol *string `mapstructure:"playerSymbol"`
}

type wireMakeMoveRequest struct {
	Index *float64 `mapstructure:"index"`
}

func decodeStartGameRequest(contents interface{}) (StartGameRequest, error) {
	var wire wireStartGameRequest
	if err := mapstructure.Decode(contents, &wire); err != nil {
		return StartGameRequest{}, fmt.Errorf("%w: %v", ErrMalformedContents, err)
	}
	if wire.PlayerSymbol == nil {
		return StartGameRequest{}, fmt.Errorf("%w: missing playerSymbol", ErrMalformedContents)
	}
	return StartGameRequest{PlayerSymbol: *wire.PlayerSymbol}, nil
}

func decodeMakeMoveRequest(contents interface{}) (MakeMoveRequest, error) {
	var wire wireMakeMoveRequest
	if err := mapstructure.Decode(contents, &wire); err != nil {
		return MakeMoveRequest{}, fmt.Errorf("%w: %v", ErrMalformedContents, err)
	}
	if wire.Index == nil {
		return MakeMoveRequest{}, fmt.Errorf("%w: missing index", ErrMalformedContents)
	}
	index := *wire.Index
	if index != math.Trunc(index) || math.IsInf(index, 0) {
		return MakeMoveRequest{}, fmt.Errorf("%w: index %v is not an integer", ErrMalformedContents, index)
	}
	if index < math.MinInt32 || index > math.MaxInt32 {
		return MakeMoveRequest{}, fmt.Errorf("%w: index %v out of range", ErrMalformedContents, index)
	}
	return MakeMoveRequest{Index: int(index)}, nil
}
