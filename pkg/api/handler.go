package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the prediction endpoints.
func NewRouter(log *zap.Logger, svc *Service, allowedOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(CORS(allowedOrigin))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, PingResponse{Status: "ok"})
	})
	r.Post("/predict_move", predictMoveHandler(log, svc))
	return r
}

func predictMoveHandler(log *zap.Logger, svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "No input data provided", Details: err.Error()})
			return
		}

		req, err := DecodePredictMoveRequest(raw)
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		resp, err := svc.PredictMove(r.Context(), req)
		if err != nil {
			var bad *MalformedInputError
			var internal *InternalError
			switch {
			case errors.As(err, &bad):
				WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: bad.Reason})
			case errors.As(err, &internal):
				log.Error("Error in /predict_move", zap.Error(err),
					zap.String("requestID", middleware.GetReqID(r.Context())))
				WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error:   internal.Reason,
					Details: errorDetails(internal.Err),
					Board:   internal.Board,
				})
			default:
				log.Error("Error in /predict_move", zap.Error(err))
				WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error:   "An internal server error occurred.",
					Details: err.Error(),
				})
			}
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func errorDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
