package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID             uuid.UUID  `json:"id"`
	PostID         uuid.UUID  `json:"postId"`
	AuthorID       uuid.UUID  `json:"authorId"`
	AuthorUsername string     `json:"authorUsername"`
	Content        string     `json:"content"`
	ParentID       *uuid.UUID `json:"parentId,omitempty"` // nil for top-level comments
	CreatedAt      time.Time  `json:"createdAt"`
}
