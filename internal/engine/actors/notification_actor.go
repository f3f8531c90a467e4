package actors

import (
	stdctx "context"
	"encoding/json"
	"log/slog"
	"time"

	"bayou-commons/internal/database"
	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for notification operations
type (
	// EmitNotificationMsg is fire-and-forget: senders use context.Send,
	// never RequestFuture, so a slow or failing insert cannot block the
	// state transition that triggered it.
	EmitNotificationMsg struct {
		Recipient       uuid.UUID
		Type            models.NotificationType
		Title           string
		Message         string
		Link            string
		RelatedEntityID *uuid.UUID
		Actor           *models.ActorSnapshot
	}

	GetNotificationsMsg struct {
		UserID uuid.UUID
	}

	MarkNotificationReadMsg struct {
		UserID         uuid.UUID
		NotificationID uuid.UUID
	}

	MarkAllNotificationsReadMsg struct {
		UserID uuid.UUID
	}

	DeleteNotificationMsg struct {
		UserID         uuid.UUID
		NotificationID uuid.UUID
	}

	DeleteAllNotificationsMsg struct {
		UserID uuid.UUID
	}
)

// Pusher delivers a rendered notification to a connected recipient.
// Implemented by the websocket hub; delivery is best effort.
type Pusher interface {
	Push(userID uuid.UUID, payload []byte)
}

// NotificationActor inserts notification documents as a side effect of
// other entities' transitions and serves recipient-initiated operations.
type NotificationActor struct {
	store  database.Store
	pusher Pusher
}

func NewNotificationActor(store database.Store, pusher Pusher) actor.Actor {
	return &NotificationActor{store: store, pusher: pusher}
}

func (a *NotificationActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("NotificationActor started")

	case *EmitNotificationMsg:
		a.handleEmit(msg)

	case *GetNotificationsMsg:
		ctx := stdctx.Background()
		notifications, err := a.store.GetUserNotifications(ctx, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		if notifications == nil {
			notifications = []*models.Notification{}
		}
		context.Respond(notifications)

	case *MarkNotificationReadMsg:
		ctx := stdctx.Background()
		found, err := a.store.MarkNotificationRead(ctx, msg.NotificationID, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		if !found {
			context.Respond(utils.NewNotFoundError("notification"))
			return
		}
		context.Respond(&models.StatusResponse{Success: true})

	case *MarkAllNotificationsReadMsg:
		ctx := stdctx.Background()
		count, err := a.store.MarkAllNotificationsRead(ctx, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		slog.Debug("marked notifications read", "user", msg.UserID, "count", count)
		context.Respond(&models.StatusResponse{Success: true})

	case *DeleteNotificationMsg:
		ctx := stdctx.Background()
		found, err := a.store.DeleteNotification(ctx, msg.NotificationID, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		if !found {
			context.Respond(utils.NewNotFoundError("notification"))
			return
		}
		context.Respond(&models.StatusResponse{Success: true})

	case *DeleteAllNotificationsMsg:
		ctx := stdctx.Background()
		if _, err := a.store.DeleteUserNotifications(ctx, msg.UserID); err != nil {
			context.Respond(err)
			return
		}
		context.Respond(&models.StatusResponse{Success: true})
	}
}

// handleEmit inserts the notification document. The triggering operation
// has already committed; a failure here is logged and swallowed.
func (a *NotificationActor) handleEmit(msg *EmitNotificationMsg) {
	notification := &models.Notification{
		ID:              uuid.New(),
		UserID:          msg.Recipient,
		Type:            msg.Type,
		Title:           msg.Title,
		Message:         msg.Message,
		Link:            msg.Link,
		RelatedEntityID: msg.RelatedEntityID,
		Actor:           msg.Actor,
		IsRead:          false,
		CreatedAt:       time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.store.InsertNotification(ctx, notification); err != nil {
		slog.Warn("notification insert failed, dropping",
			"recipient", msg.Recipient, "type", msg.Type, "error", err)
		return
	}

	if a.pusher != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			a.pusher.Push(notification.UserID, payload)
		}
	}
}
