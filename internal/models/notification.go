package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what a notification is about.
type NotificationType string

const (
	NotifMemberApproved     NotificationType = "member_approved"
	NotifMemberDenied       NotificationType = "member_denied"
	NotifOwnershipReceived  NotificationType = "ownership_received"
	NotifOwnershipHandedOff NotificationType = "ownership_handed_off"
	NotifPostLiked          NotificationType = "post_liked"
	NotifPostCommented      NotificationType = "post_commented"
)

// ActorSnapshot captures who triggered a notification at emission time.
// It is a copy, not a live join; later profile edits don't rewrite history.
type ActorSnapshot struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

type Notification struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"userId"` // recipient
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	Link            string           `json:"link,omitempty"`
	RelatedEntityID *uuid.UUID       `json:"relatedEntityId,omitempty"`
	Actor           *ActorSnapshot   `json:"actor,omitempty"`
	IsRead          bool             `json:"isRead"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// SnapshotOf builds the embedded actor snapshot from a user.
func SnapshotOf(u *User) *ActorSnapshot {
	if u == nil {
		return nil
	}
	return &ActorSnapshot{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}
