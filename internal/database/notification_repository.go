// internal/database/notification_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationDocument represents notification data in MongoDB. The actor
// snapshot is embedded as captured at emission time, never re-joined.
type NotificationDocument struct {
	ID              string                 `bson:"_id"`
	UserID          string                 `bson:"userId"`
	Type            string                 `bson:"type"`
	Title           string                 `bson:"title"`
	Message         string                 `bson:"message"`
	Link            string                 `bson:"link,omitempty"`
	RelatedEntityID *string                `bson:"relatedEntityId,omitempty"`
	Actor           *ActorSnapshotDocument `bson:"actor,omitempty"`
	IsRead          bool                   `bson:"isRead"`
	CreatedAt       time.Time              `bson:"createdAt"`
}

type ActorSnapshotDocument struct {
	ID        string `bson:"id"`
	Username  string `bson:"username"`
	AvatarURL string `bson:"avatarUrl,omitempty"`
}

func notificationDocumentToModel(doc *NotificationDocument) (*models.Notification, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid notification ID in database: %v", err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient ID in database: %v", err)
	}

	notification := &models.Notification{
		ID:        id,
		UserID:    userID,
		Type:      models.NotificationType(doc.Type),
		Title:     doc.Title,
		Message:   doc.Message,
		Link:      doc.Link,
		IsRead:    doc.IsRead,
		CreatedAt: doc.CreatedAt,
	}

	if doc.RelatedEntityID != nil {
		relatedID, err := uuid.Parse(*doc.RelatedEntityID)
		if err != nil {
			return nil, fmt.Errorf("invalid related entity ID in database: %v", err)
		}
		notification.RelatedEntityID = &relatedID
	}

	if doc.Actor != nil {
		actorID, err := uuid.Parse(doc.Actor.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid actor ID in database: %v", err)
		}
		notification.Actor = &models.ActorSnapshot{
			ID:        actorID,
			Username:  doc.Actor.Username,
			AvatarURL: doc.Actor.AvatarURL,
		}
	}

	return notification, nil
}

// InsertNotification stores one notification document.
func (m *MongoDB) InsertNotification(ctx context.Context, n *models.Notification) error {
	doc := NotificationDocument{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedEntityID != nil {
		s := n.RelatedEntityID.String()
		doc.RelatedEntityID = &s
	}
	if n.Actor != nil {
		doc.Actor = &ActorSnapshotDocument{
			ID:        n.Actor.ID.String(),
			Username:  n.Actor.Username,
			AvatarURL: n.Actor.AvatarURL,
		}
	}

	_, err := m.Notifications.InsertOne(ctx, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to insert notification", err)
	}
	return nil
}

// GetUserNotifications retrieves a recipient's notifications, newest first.
func (m *MongoDB) GetUserNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Notifications.Find(ctx, bson.M{"userId": userID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get notifications", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var doc NotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %v", err)
		}
		notification, err := notificationDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, cursor.Err()
}

// MarkNotificationRead flips isRead on one notification. The filter keys
// on the recipient too, so users can only mark their own.
func (m *MongoDB) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	result, err := m.Notifications.UpdateOne(
		ctx,
		bson.M{"_id": notificationID.String(), "userId": userID.String()},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to mark notification read", err)
	}
	return result.MatchedCount > 0, nil
}

// MarkAllNotificationsRead flips isRead on every unread notification of a
// recipient and returns how many changed.
func (m *MongoDB) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := m.Notifications.UpdateMany(
		ctx,
		bson.M{"userId": userID.String(), "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to mark notifications read", err)
	}
	return result.ModifiedCount, nil
}

// DeleteNotification removes one notification owned by the recipient.
func (m *MongoDB) DeleteNotification(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	result, err := m.Notifications.DeleteOne(
		ctx,
		bson.M{"_id": notificationID.String(), "userId": userID.String()},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to delete notification", err)
	}
	return result.DeletedCount > 0, nil
}

// DeleteUserNotifications removes every notification of a recipient.
func (m *MongoDB) DeleteUserNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := m.Notifications.DeleteMany(ctx, bson.M{"userId": userID.String()})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to delete notifications", err)
	}
	return result.DeletedCount, nil
}
