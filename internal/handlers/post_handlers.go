package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"authorId"`
	CommunityID string     `json:"communityId,omitempty"` // empty for profile posts
	PollOptions []string   `json:"pollOptions,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// EngagementRequest represents a like/unlike or bookmark toggle
type EngagementRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// VotePollRequest represents a poll vote
type VotePollRequest struct {
	PostID   string `json:"postId"`
	OptionID string `json:"optionId"`
	UserID   string `json:"userId"`
}

// PublishPostRequest represents a publish request
type PublishPostRequest struct {
	PostID  string `json:"postId"`
	ActorID string `json:"actorId"`
}

// HandlePosts handles post creation, lookup and deletion
func (s *Server) HandlePosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			authorID, err := identity.ParseID(req.AuthorID, "author id")
			if err != nil {
				writeError(w, err)
				return
			}
			var communityID *uuid.UUID
			if req.CommunityID != "" {
				id, err := identity.ParseID(req.CommunityID, "community id")
				if err != nil {
					writeError(w, err)
					return
				}
				communityID = &id
			}
			s.respond(w, http.StatusCreated, s.Engine.GetPostActor(), &actors.CreatePostMsg{
				Title:       req.Title,
				Content:     req.Content,
				AuthorID:    authorID,
				CommunityID: communityID,
				PollOptions: req.PollOptions,
				ScheduledAt: req.ScheduledAt,
			})

		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				postID, err := identity.ParseID(id, "post id")
				if err != nil {
					writeError(w, err)
					return
				}
				s.respond(w, http.StatusOK, s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID})
				return
			}
			communityID, err := identity.ParseID(r.URL.Query().Get("communityId"), "community id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetPostActor(), &actors.GetCommunityPostsMsg{CommunityID: communityID})

		case http.MethodDelete:
			postID, err := identity.ParseID(r.URL.Query().Get("id"), "post id")
			if err != nil {
				writeError(w, err)
				return
			}
			actorID, err := identity.ParseID(r.URL.Query().Get("actorId"), "actor id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetPostActor(), &actors.DeletePostMsg{
				PostID:  postID,
				ActorID: actorID,
			})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePublishPost moves a draft or scheduled post through moderation to published
func (s *Server) HandlePublishPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req PublishPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		postID, err := identity.ParseID(req.PostID, "post id")
		if err != nil {
			writeError(w, err)
			return
		}
		actorID, err := identity.ParseID(req.ActorID, "actor id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetPostActor(), &actors.PublishPostMsg{
			PostID:  postID,
			ActorID: actorID,
		})
	}
}

// HandleLikePost likes a post; repeats are no-ops
func (s *Server) HandleLikePost() http.HandlerFunc {
	return s.handleEngagement(func(postID, userID uuid.UUID) interface{} {
		return &actors.LikePostMsg{PostID: postID, UserID: userID}
	})
}

// HandleUnlikePost removes a like; repeats are no-ops
func (s *Server) HandleUnlikePost() http.HandlerFunc {
	return s.handleEngagement(func(postID, userID uuid.UUID) interface{} {
		return &actors.UnlikePostMsg{PostID: postID, UserID: userID}
	})
}

// HandleBookmarkPost bookmarks a post for a user
func (s *Server) HandleBookmarkPost() http.HandlerFunc {
	return s.handleEngagement(func(postID, userID uuid.UUID) interface{} {
		return &actors.BookmarkPostMsg{PostID: postID, UserID: userID}
	})
}

// HandleUnbookmarkPost removes a bookmark
func (s *Server) HandleUnbookmarkPost() http.HandlerFunc {
	return s.handleEngagement(func(postID, userID uuid.UUID) interface{} {
		return &actors.UnbookmarkPostMsg{PostID: postID, UserID: userID}
	})
}

func (s *Server) handleEngagement(toMsg func(postID, userID uuid.UUID) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req EngagementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		postID, err := identity.ParseID(req.PostID, "post id")
		if err != nil {
			writeError(w, err)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetPostActor(), toMsg(postID, userID))
	}
}

// HandleVotePoll records a poll vote
func (s *Server) HandleVotePoll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req VotePollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		postID, err := identity.ParseID(req.PostID, "post id")
		if err != nil {
			writeError(w, err)
			return
		}
		userID, err := identity.ParseID(req.UserID, "user id")
		if err != nil {
			writeError(w, err)
			return
		}
		if req.OptionID == "" {
			http.Error(w, "Option ID is required", http.StatusBadRequest)
			return
		}
		s.respond(w, http.StatusOK, s.Engine.GetPostActor(), &actors.VotePollMsg{
			PostID:   postID,
			OptionID: req.OptionID,
			UserID:   userID,
		})
	}
}
