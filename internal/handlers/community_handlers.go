package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"
	"bayou-commons/internal/models"
)

// CreateCommunityRequest represents a request to create a new community
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"` // "public" or "private"
	CreatorID   string `json:"creatorId"`
}

// MembershipRequest represents a join or leave request
type MembershipRequest struct {
	CommunityID string `json:"communityId"`
	UserID      string `json:"userId"`
}

// ModerationActionRequest represents an admin acting on a pending member
type ModerationActionRequest struct {
	CommunityID string `json:"communityId"`
	ActorID     string `json:"actorId"`
	UserID      string `json:"userId"`
}

// TransferOwnershipRequest represents an ownership hand-off
type TransferOwnershipRequest struct {
	CommunityID string `json:"communityId"`
	ActorID     string `json:"actorId"`
	NewOwnerID  string `json:"newOwnerId"`
}

// HandleCommunities handles community creation, lookup, listing and deletion
func (s *Server) HandleCommunities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req CreateCommunityRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			creatorID, err := identity.ParseID(req.CreatorID, "creator id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusCreated, s.Engine.GetCommunityActor(), &actors.CreateCommunityMsg{
				Name:        req.Name,
				Description: req.Description,
				Privacy:     models.Privacy(req.Privacy),
				CreatorID:   creatorID,
			})

		case http.MethodGet:
			id := r.URL.Query().Get("id")
			if id == "" {
				s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.ListCommunitiesMsg{})
				return
			}
			communityID, err := identity.ParseID(id, "community id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.GetCommunityMsg{CommunityID: communityID})

		case http.MethodDelete:
			communityID, err := identity.ParseID(r.URL.Query().Get("id"), "community id")
			if err != nil {
				writeError(w, err)
				return
			}
			actorID, err := identity.ParseID(r.URL.Query().Get("actorId"), "actor id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.DeleteCommunityMsg{
				CommunityID: communityID,
				ActorID:     actorID,
			})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleJoinCommunity handles a user joining (or requesting to join) a community
func (s *Server) HandleJoinCommunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req MembershipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		communityID, err := identity.ParseID(req.CommunityID, "community id")
		if err != nil {
			writeError(w, err)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.JoinCommunityMsg{
			CommunityID: communityID,
			UserID:      userID,
		})
	}
}

// HandleLeaveCommunity handles a member leaving a community
func (s *Server) HandleLeaveCommunity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req MembershipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		communityID, err := identity.ParseID(req.CommunityID, "community id")
		if err != nil {
			writeError(w, err)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.LeaveCommunityMsg{
			CommunityID: communityID,
			UserID:      userID,
		})
	}
}

// HandleCommunityMembers lists a community's members
func (s *Server) HandleCommunityMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		communityID, err := identity.ParseID(r.URL.Query().Get("communityId"), "community id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.GetCommunityMembersMsg{CommunityID: communityID})
	}
}

// HandlePendingMembers lists pending join requests, admin only
func (s *Server) HandlePendingMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		communityID, err := identity.ParseID(r.URL.Query().Get("communityId"), "community id")
		if err != nil {
			writeError(w, err)
			return
		}
		actorID, err := identity.ParseID(r.URL.Query().Get("actorId"), "actor id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.GetPendingMembersMsg{
			CommunityID: communityID,
			ActorID:     actorID,
		})
	}
}

// HandleApproveMember approves a pending join request
func (s *Server) HandleApproveMember() http.HandlerFunc {
	return s.handleModerationAction(func(req *actors.ApproveMemberMsg) interface{} { return req })
}

// HandleDenyMember denies a pending join request
func (s *Server) HandleDenyMember() http.HandlerFunc {
	return s.handleModerationAction(func(req *actors.ApproveMemberMsg) interface{} {
		return &actors.DenyMemberMsg{
			CommunityID: req.CommunityID,
			ActorID:     req.ActorID,
			UserID:      req.UserID,
		}
	})
}

// handleModerationAction decodes an admin-on-pending-member request and
// forwards the message toMsg builds from it.
func (s *Server) handleModerationAction(toMsg func(*actors.ApproveMemberMsg) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req ModerationActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		communityID, err := identity.ParseID(req.CommunityID, "community id")
		if err != nil {
			writeError(w, err)
			return
		}
		actorID, err := identity.ParseID(req.ActorID, "actor id")
		if err != nil {
			writeError(w, err)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), toMsg(&actors.ApproveMemberMsg{
			CommunityID: communityID,
			ActorID:     actorID,
			UserID:      userID,
		}))
	}
}

// HandleTransferOwnership transfers community ownership to another member
func (s *Server) HandleTransferOwnership() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req TransferOwnershipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		communityID, err := identity.ParseID(req.CommunityID, "community id")
		if err != nil {
			writeError(w, err)
			return
		}
		actorID, err := identity.ParseID(req.ActorID, "actor id")
		if err != nil {
			writeError(w, err)
			return
		}
		newOwnerID, err := identity.ParseID(req.NewOwnerID, "new owner id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetCommunityActor(), &actors.TransferOwnershipMsg{
			CommunityID: communityID,
			ActorID:     actorID,
			NewOwnerID:  newOwnerID,
		})
	}
}
