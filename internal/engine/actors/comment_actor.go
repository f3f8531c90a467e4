package actors

import (
	stdctx "context"
	"log/slog"
	"time"

	"bayou-commons/internal/database"
	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for comment operations
type (
	CreateCommentMsg struct {
		PostID   uuid.UUID
		AuthorID uuid.UUID
		Content  string
		ParentID *uuid.UUID
	}

	GetCommentMsg struct {
		CommentID uuid.UUID
	}

	GetPostCommentsMsg struct {
		PostID uuid.UUID
	}
)

// CommentActor owns comment creation and the comment-to-post backlink.
type CommentActor struct {
	store           database.Store
	metrics         *utils.MetricsCollector
	notificationPID *actor.PID
}

func NewCommentActor(store database.Store, metrics *utils.MetricsCollector, notificationPID *actor.PID) actor.Actor {
	return &CommentActor{
		store:           store,
		metrics:         metrics,
		notificationPID: notificationPID,
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("CommentActor started")

	case *CreateCommentMsg:
		a.handleCreate(context, msg)

	case *GetCommentMsg:
		ctx := stdctx.Background()
		comment, err := a.store.GetComment(ctx, msg.CommentID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(comment)

	case *GetPostCommentsMsg:
		ctx := stdctx.Background()
		comments, err := a.store.GetPostComments(ctx, msg.PostID)
		if err != nil {
			context.Respond(err)
			return
		}
		if comments == nil {
			comments = []*models.Comment{}
		}
		context.Respond(comments)
	}
}

func (a *CommentActor) handleCreate(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "comment content is required", nil))
		return
	}

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	author, err := a.store.GetUser(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}

	// A reply's parent must exist and hang off the same post.
	if msg.ParentID != nil {
		parent, err := a.store.GetComment(ctx, *msg.ParentID)
		if err != nil {
			context.Respond(err)
			return
		}
		if parent.PostID != msg.PostID {
			context.Respond(utils.NewConflictError("parent comment belongs to a different post"))
			return
		}
	}

	comment := &models.Comment{
		ID:             uuid.New(),
		PostID:         msg.PostID,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Content:        msg.Content,
		ParentID:       msg.ParentID,
		CreatedAt:      time.Now(),
	}

	// The comment document is authoritative; the post's commentIds list
	// is the denormalized copy. If the backlink write fails the comment
	// still exists and readers find it through the postId query.
	if err := a.store.CreateComment(ctx, comment); err != nil {
		context.Respond(err)
		return
	}
	if err := a.store.AppendComment(ctx, msg.PostID, comment.ID); err != nil {
		slog.Warn("comment created but post backlink update failed",
			"comment", comment.ID, "post", msg.PostID, "error", err)
	}

	if post.AuthorID != author.ID {
		a.emit(context, &EmitNotificationMsg{
			Recipient:       post.AuthorID,
			Type:            models.NotifPostCommented,
			Title:           "New comment",
			Message:         author.Username + " commented on \"" + post.Title + "\"",
			Link:            "/posts/" + post.ID.String(),
			RelatedEntityID: &post.ID,
			Actor:           models.SnapshotOf(author),
		})
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(comment)
}

func (a *CommentActor) emit(context actor.Context, msg *EmitNotificationMsg) {
	if a.notificationPID != nil {
		context.Send(a.notificationPID, msg)
	}
}
