package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"
)

// CreateEventRequest represents a request to create a community event
type CreateEventRequest struct {
	CommunityID string    `json:"communityId"`
	CreatorID   string    `json:"creatorId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
}

// RSVPRequest represents an attendance toggle
type RSVPRequest struct {
	EventID   string `json:"eventId"`
	UserID    string `json:"userId"`
	Attending bool   `json:"attending"`
}

// HandleEvents handles event creation and lookup
func (s *Server) HandleEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req CreateEventRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			communityID, err := identity.ParseID(req.CommunityID, "community id")
			if err != nil {
				writeError(w, err)
				return
			}
			creatorID, err := identity.ParseID(req.CreatorID, "creator id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusCreated, s.Engine.GetEventActor(), &actors.CreateEventMsg{
				CommunityID: communityID,
				CreatorID:   creatorID,
				Title:       req.Title,
				Description: req.Description,
				StartsAt:    req.StartsAt,
			})

		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				s.respond(w, http.StatusOK, s.Engine.GetEventActor(), &actors.GetEventMsg{EventID: id})
				return
			}
			communityID, err := identity.ParseID(r.URL.Query().Get("communityId"), "community id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetEventActor(), &actors.GetCommunityEventsMsg{CommunityID: communityID})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleRSVP toggles event attendance for a community member
func (s *Server) HandleRSVP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req RSVPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.EventID == "" {
			http.Error(w, "Event ID is required", http.StatusBadRequest)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetEventActor(), &actors.RSVPMsg{
			EventID:   req.EventID,
			UserID:    userID,
			Attending: req.Attending,
		})
	}
}
