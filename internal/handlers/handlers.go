package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"bayou-commons/internal/database"
	"bayou-commons/internal/engine"
	"bayou-commons/internal/utils"
	"bayou-commons/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Hub            *websocket.Hub
	MongoDB        *database.MongoDB
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	hub *websocket.Hub,
	mongodb *database.MongoDB,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         eng,
		Metrics:        metrics,
		Hub:            hub,
		MongoDB:        mongodb,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and waits for the reply.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	return future.Result()
}

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its HTTP status and writes a JSON error
// envelope. Unknown error shapes become a 500.
func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		writeJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

// respond writes the actor's reply: AppError replies become error
// responses, anything else is the success body.
func (s *Server) respond(w http.ResponseWriter, status int, pid *actor.PID, msg interface{}) {
	result, err := s.ask(pid, msg)
	if err != nil {
		s.Metrics.IncrementErrors()
		writeError(w, utils.NewAppError(utils.ErrActorTimeout, "request timed out", err))
		return
	}
	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		writeError(w, appErr)
		return
	}
	writeJSON(w, status, result)
}
