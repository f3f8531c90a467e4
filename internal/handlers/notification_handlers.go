package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"
)

// MarkReadRequest represents a recipient marking a notification read
type MarkReadRequest struct {
	UserID         string `json:"userId"`
	NotificationID string `json:"notificationId,omitempty"` // empty means all
}

// HandleNotifications lists and deletes a user's notifications
func (s *Server) HandleNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			userID, err := identity.ParseID(r.URL.Query().Get("userId"), "user id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetNotificationActor(), &actors.GetNotificationsMsg{UserID: userID})

		case http.MethodDelete:
			userID, err := identity.ParseID(r.URL.Query().Get("userId"), "user id")
			if err != nil {
				writeError(w, err)
				return
			}
			if id := r.URL.Query().Get("id"); id != "" {
				notificationID, err := identity.ParseID(id, "notification id")
				if err != nil {
					writeError(w, err)
					return
				}
				s.respond(w, http.StatusOK, s.Engine.GetNotificationActor(), &actors.DeleteNotificationMsg{
					UserID:         userID,
					NotificationID: notificationID,
				})
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetNotificationActor(), &actors.DeleteAllNotificationsMsg{UserID: userID})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleMarkNotificationRead marks one notification, or all of them, read
func (s *Server) HandleMarkNotificationRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req MarkReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		if req.NotificationID == "" {
			s.respond(w, http.StatusOK, s.Engine.GetNotificationActor(), &actors.MarkAllNotificationsReadMsg{UserID: userID})
			return
		}
		notificationID, err := identity.ParseID(req.NotificationID, "notification id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetNotificationActor(), &actors.MarkNotificationReadMsg{
			UserID:         userID,
			NotificationID: notificationID,
		})
	}
}
