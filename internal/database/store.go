// internal/database/store.go
package database

import (
	"context"
	"time"

	"bayou-commons/internal/models"

	"github.com/google/uuid"
)

// Store is the narrow set of document-store operations the engine actors
// consume. *MongoDB is the production implementation; tests substitute an
// in-memory double. Methods returning (bool, error) report whether the
// guarded update actually changed the document — false with a nil error
// means the precondition encoded in the filter did not hold.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
	UpdateUserCommunities(ctx context.Context, userID, communityID uuid.UUID, joining bool) error
	AddBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error
	PullCommunityFromUsers(ctx context.Context, communityID uuid.UUID) (int64, error)
	PullBookmarkFromUsers(ctx context.Context, postID uuid.UUID) (int64, error)

	// Communities
	CreateCommunity(ctx context.Context, community *models.Community) error
	GetCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error)
	ListCommunities(ctx context.Context) ([]*models.Community, error)
	AddMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	AddPendingMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	ApproveMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	RemovePendingMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
	TransferOwnership(ctx context.Context, communityID, newOwnerID uuid.UUID) (bool, error)
	DeleteCommunity(ctx context.Context, communityID uuid.UUID) error

	// Posts
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetCommunityPosts(ctx context.Context, communityID uuid.UUID) ([]*models.Post, error)
	GetCommunityPostIDs(ctx context.Context, communityID uuid.UUID) ([]uuid.UUID, error)
	LikePost(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	UnlikePost(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	VotePoll(ctx context.Context, postID uuid.UUID, optionID string, userID uuid.UUID) (bool, error)
	AppendComment(ctx context.Context, postID, commentID uuid.UUID) error
	PublishPost(ctx context.Context, postID uuid.UUID, category string, tags []string, at time.Time) (bool, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
	DeleteCommunityPosts(ctx context.Context, communityID uuid.UUID) (int64, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	DeletePostComments(ctx context.Context, postID uuid.UUID) (int64, error)
	DeleteCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) (int64, error)

	// Notifications
	InsertNotification(ctx context.Context, n *models.Notification) error
	GetUserNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteNotification(ctx context.Context, notificationID, userID uuid.UUID) (bool, error)
	DeleteUserNotifications(ctx context.Context, userID uuid.UUID) (int64, error)

	// Events
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetCommunityEvents(ctx context.Context, communityID uuid.UUID) ([]*models.Event, error)
	AddAttendee(ctx context.Context, eventID string, userID uuid.UUID) (bool, error)
	RemoveAttendee(ctx context.Context, eventID string, userID uuid.UUID) (bool, error)
	DeleteCommunityEvents(ctx context.Context, communityID uuid.UUID) (int64, error)
}

var _ Store = (*MongoDB)(nil)
