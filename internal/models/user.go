package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID   `json:"id"`
	Username        string      `json:"username"`
	AvatarURL       string      `json:"avatarUrl,omitempty"`
	Reputation      int         `json:"reputation"`
	Communities     []uuid.UUID `json:"communities"`
	BookmarkedPosts []uuid.UUID `json:"bookmarkedPosts"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// HasBookmarked reports whether the user's bookmark set contains postID.
func (u *User) HasBookmarked(postID uuid.UUID) bool {
	for _, id := range u.BookmarkedPosts {
		if id == postID {
			return true
		}
	}
	return false
}

// InCommunity reports whether communityID is in the user's community list.
func (u *User) InCommunity(communityID uuid.UUID) bool {
	for _, id := range u.Communities {
		if id == communityID {
			return true
		}
	}
	return false
}
