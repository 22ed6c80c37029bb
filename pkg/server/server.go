package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/api"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/comms"
	"github.com/JJ-Intelligence/SR-TicTacToe-AI/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server stores all connection dependencies for the game front-end server.
type Server struct {
	log            *zap.Logger
	store          *session.Store
	socketUpgrader websocket.Upgrader
}

// NewServer constructs a new Server instance.
func NewServer(log *zap.Logger, store *session.Store, checkOriginFunc func(r *http.Request) bool) *Server {
	return &Server{
		log:            log,
		store:          store,
		socketUpgrader: websocket.Upgrader{CheckOrigin: checkOriginFunc},
	}
}

// OriginChecker accepts requests whose Origin contains frontendHost, or any origin when it is empty.
func OriginChecker(frontendHost string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if frontendHost == "" {
			return true
		}
		return strings.Contains(r.Header.Get("Origin"), frontendHost)
	}
}

// Handler routes the websocket endpoint and health check.
func (server *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(server.log))
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, api.PingResponse{Status: "ok"})
	})
	r.Get("/ws", server.connectionHandler)
	return r
}

// Start starts up the front-end server.
func (server *Server) Start(port string) error {
	server.log.Info(fmt.Sprintf("Started game server on port %s", port))
	return http.ListenAndServe(":"+port, server.Handler())
}

// connectionHandler upgrades new HTTP requests from clients to websockets, giving each
// connection its own game session and handling its messages until it disconnects.
func (server *Server) connectionHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP GET request to a socket connection
	s, err := server.socketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		server.log.Warn("Error upgrading connection", zap.Error(err))
		return
	}

	conn := comms.NewConnectionWrapper(s)
	sess := server.store.Create()
	conn.SessionID = sess.ID
	log := server.log.With(zap.String("session", sess.ID))
	log.Info("Client connected")

	defer func() {
		server.store.Delete(sess.ID)
		conn.Close()
		log.Info("Client disconnected")
	}()

	go conn.WritePump(func(err error) {
		log.Warn("Error writing message", zap.Error(err))
	})
	conn.Send(comms.ToMessage(SessionCreatedBroadcast{SessionID: sess.ID}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Forever handle messages from this client
	for {
		message, err := conn.ReadMessage()
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			conn.Send(comms.ToMessage(comms.ErrorDecodingMessageResponse{}))
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Client errored", zap.Error(err))
			}
			return
		}
		server.handleRequest(ctx, log, conn, sess, message)
	}
}

// handleRequest applies one client message to the session and replies with the new game state.
func (server *Server) handleRequest(
	ctx context.Context,
	log *zap.Logger,
	conn *comms.ConnectionWrapper,
	sess *session.Session,
	message comms.Message,
) {
	var (
		state session.State
		err   error
	)

	switch message.Type {
	case "StartGameRequest":
		contents, decodeErr := decodeStartGameRequest(message.Contents)
		if decodeErr != nil {
			server.rejectContents(log, conn, message.Type, decodeErr)
			return
		}
		state, err = sess.Start(ctx, contents.PlayerSymbol)

	case "MakeMoveRequest":
		contents, decodeErr := decodeMakeMoveRequest(message.Contents)
		if decodeErr != nil {
			server.rejectContents(log, conn, message.Type, decodeErr)
			return
		}
		state, err = sess.PlayerMove(ctx, contents.Index)

	case "AITurnRequest":
		state, err = sess.AITurn(ctx)

	case "ResetRequest":
		state = sess.Reset()

	default:
		conn.Send(comms.ToMessage(comms.ErrorResponse{
			Reason: fmt.Sprintf("%s is an invalid message type", message.Type),
		}))
		return
	}

	if err != nil {
		log.Debug("Request rejected", zap.String("type", message.Type), zap.Error(err))
		conn.Send(comms.ToMessage(comms.ErrorResponse{Reason: err.Error()}))
	}
	conn.Send(comms.ToMessage(GameStateBroadcast{State: state}))
}

func (server *Server) rejectContents(log *zap.Logger, conn *comms.ConnectionWrapper, messageType string, err error) {
	log.Debug("Undecodable contents", zap.String("type", messageType), zap.Error(err))
	conn.Send(comms.ToMessage(comms.ErrorDecodingMessageResponse{}))
}
