package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/api"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/comms"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/engine"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rawMessage struct {
	Type     string          `json:"type"`
	Contents json.RawMessage `json:"contents"`
}

func newTestServer(t *testing.T) (*httptest.Server, *session.Store) {
	log := zap.NewNop()
	store := session.NewStore(log, api.NewService(log, engine.New(engine.WithSeed(3))))
	ts := httptest.NewServer(NewServer(log, store, OriginChecker("")).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, contents interface{}) {
	require.NoError(t, conn.WriteJSON(comms.ToMessage(contents)))
}

func receive(t *testing.T, conn *websocket.Conn) rawMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var m rawMessage
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func receiveState(t *testing.T, conn *websocket.Conn) session.State {
	m := receive(t, conn)
	require.Equal(t, "GameStateBroadcast", m.Type)
	var state session.State
	require.NoError(t, json.Unmarshal(m.Contents, &state))
	return state
}

func TestWebsocketGameFlow(t *testing.T) {
	ts, store := newTestServer(t)
	conn := dial(t, ts)

	created := receive(t, conn)
	require.Equal(t, "SessionCreatedBroadcast", created.Type)
	var sc SessionCreatedBroadcast
	require.NoError(t, json.Unmarshal(created.Contents, &sc))
	_, ok := store.Get(sc.SessionID)
	assert.True(t, ok)

	send(t, conn, StartGameRequest{PlayerSymbol: "X"})
	state := receiveState(t, conn)
	assert.True(t, state.Started)
	assert.Equal(t, sc.SessionID, state.ID)
	assert.Equal(t, session.TurnPlayer, state.Turn)

	send(t, conn, MakeMoveRequest{Index: 4})
	state = receiveState(t, conn)
	assert.Equal(t, "X", state.Board[4])
	assert.Equal(t, session.TurnPlayer, state.Turn)

	// Occupied square: rejected, the unchanged state follows the error.
	send(t, conn, MakeMoveRequest{Index: 4})
	m := receive(t, conn)
	assert.Equal(t, "ErrorResponse", m.Type)
	after := receiveState(t, conn)
	assert.Equal(t, state.Board, after.Board)

	send(t, conn, ResetRequest{})
	state = receiveState(t, conn)
	assert.False(t, state.Started)
}

func TestInvalidMessages(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)
	receive(t, conn)

	require.NoError(t, conn.WriteJSON(comms.Message{Type: "FlyRequest"}))
	m := receive(t, conn)
	assert.Equal(t, "ErrorResponse", m.Type)
	assert.Contains(t, string(m.Contents), "FlyRequest is an invalid message type")

	require.NoError(t, conn.WriteJSON(comms.Message{
		Type:     "MakeMoveRequest",
		Contents: map[string]interface{}{"index": "centre"},
	}))
	m = receive(t, conn)
	assert.Equal(t, "ErrorDecodingMessageResponse", m.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	m = receive(t, conn)
	assert.Equal(t, "ErrorDecodingMessageResponse", m.Type)

	send(t, conn, AITurnRequest{})
	m = receive(t, conn)
	assert.Equal(t, "ErrorResponse", m.Type)
	assert.Contains(t, string(m.Contents), session.ErrNotStarted.Error())
}

func TestMoveContentsMustBeExplicit(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)
	receive(t, conn)

	send(t, conn, StartGameRequest{PlayerSymbol: "X"})
	receiveState(t, conn)

	for _, raw := range []string{
		`{"type":"MakeMoveRequest","contents":{}}`,
		`{"type":"MakeMoveRequest"}`,
		`{"type":"MakeMoveRequest","contents":{"index":null}}`,
		`{"type":"MakeMoveRequest","contents":{"index":5.9}}`,
		`{"type":"StartGameRequest","contents":{}}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
		m := receive(t, conn)
		assert.Equal(t, "ErrorDecodingMessageResponse", m.Type, raw)
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"MakeMoveRequest","contents":{"index":5}}`)))
	state := receiveState(t, conn)
	assert.Equal(t, "X", state.Board[5])
	xs := 0
	for _, c := range state.Board {
		if c == "X" {
			xs++
		}
	}
	assert.Equal(t, 1, xs)
}

func TestDecodeMakeMoveRequest(t *testing.T) {
	req, err := decodeMakeMoveRequest(map[string]interface{}{"index": 3.0})
	require.NoError(t, err)
	assert.Equal(t, 3, req.Index)

	req, err = decodeMakeMoveRequest(map[string]interface{}{"index": 7})
	require.NoError(t, err)
	assert.Equal(t, 7, req.Index)

	for _, contents := range []interface{}{
		nil,
		map[string]interface{}{},
		map[string]interface{}{"index": 5.9},
		map[string]interface{}{"index": "5"},
		map[string]interface{}{"index": 1e12},
		"index",
	} {
		_, err := decodeMakeMoveRequest(contents)
		assert.ErrorIs(t, err, ErrMalformedContents, "%v", contents)
	}
}

func TestSessionRemovedOnDisconnect(t *testing.T) {
	ts, store := newTestServer(t)
	conn := dial(t, ts)
	receive(t, conn)
	assert.Equal(t, 1, store.Len())

	conn.Close()
	assert.Eventually(t, func() bool { return store.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "https://games.example.com")
	assert.True(t, OriginChecker("")(r))
	assert.True(t, OriginChecker("games.example.com")(r))
	assert.False(t, OriginChecker("other.example.com")(r))
}

func TestPing(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
