package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// HandleUsers handles user registration and profile lookup
func (s *Server) HandleUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req RegisterUserRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			s.respond(w, http.StatusCreated, s.Engine.GetUserActor(), &actors.RegisterUserMsg{
				Username:  req.Username,
				AvatarURL: req.AvatarURL,
			})

		case http.MethodGet:
			userID, err := identity.ParseID(r.URL.Query().Get("id"), "user id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetUserActor(), &actors.GetUserProfileMsg{UserID: userID})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleUserCommunities lists the communities a user belongs to
func (s *Server) HandleUserCommunities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userID, err := identity.ParseID(r.URL.Query().Get("userId"), "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetUserActor(), &actors.GetUserCommunitiesMsg{UserID: userID})
	}
}

// HandleUserBookmarks lists the posts a user has bookmarked
func (s *Server) HandleUserBookmarks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userID, err := identity.ParseID(r.URL.Query().Get("userId"), "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetUserActor(), &actors.GetUserBookmarksMsg{UserID: userID})
	}
}
