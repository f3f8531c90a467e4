package handlers

import (
	"log/slog"
	"net/http"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"
	"bayou-commons/internal/models"
	"bayou-commons/internal/websocket"

	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens in the CORS middleware; the upgrade
		// accepts what got through it.
		return true
	},
}

// HandleWebSocket upgrades a connection into the notification stream for
// one user.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := identity.ParseID(r.URL.Query().Get("userId"), "user id")
		if err != nil {
			writeError(w, err)
			return
		}

		// The user must exist before we hold a connection open for them.
		result, askErr := s.ask(s.Engine.GetUserActor(), &actors.GetUserProfileMsg{UserID: userID})
		if askErr != nil {
			http.Error(w, "Failed to resolve user", http.StatusInternalServerError)
			return
		}
		if _, ok := result.(*models.User); !ok {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "user", userID, "error", err)
			return
		}

		client := &websocket.Client{
			Hub:    s.Hub,
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 256),
		}
		s.Hub.RegisterClient(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
