package handlers

import (
	"encoding/json"
	"net/http"

	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/identity"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a comment or reply
type CreateCommentRequest struct {
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
	ParentID string `json:"parentId,omitempty"` // set for replies
}

// HandleComments handles comment creation and listing
func (s *Server) HandleComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			postID, err := identity.ParseID(req.PostID, "post id")
			if err != nil {
				writeError(w, err)
				return
			}
			authorID, err := identity.ParseID(req.AuthorID, "author id")
			if err != nil {
				writeError(w, err)
				return
			}
			var parentID *uuid.UUID
			if req.ParentID != "" {
				id, err := identity.ParseID(req.ParentID, "parent comment id")
				if err != nil {
					writeError(w, err)
					return
				}
				parentID = &id
			}
			s.respond(w, http.StatusCreated, s.Engine.GetCommentActor(), &actors.CreateCommentMsg{
				PostID:   postID,
				AuthorID: authorID,
				Content:  req.Content,
				ParentID: parentID,
			})

		case http.MethodGet:
			postID, err := identity.ParseID(r.URL.Query().Get("postId"), "post id")
			if err != nil {
				writeError(w, err)
				return
			}
			s.respond(w, http.StatusOK, s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{PostID: postID})

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
