package actors

import (
	stdctx "context"
	"log/slog"
	"time"

	"bayou-commons/internal/database"
	"bayou-commons/internal/identity"
	"bayou-commons/internal/models"
	"bayou-commons/internal/moderation"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Message types for post operations
type (
	CreatePostMsg struct {
		Title       string
		Content     string
		AuthorID    uuid.UUID
		CommunityID *uuid.UUID
		PollOptions []string // empty means no poll
		ScheduledAt *time.Time
	}

	GetPostMsg struct {
		PostID uuid.UUID
	}

	GetCommunityPostsMsg struct {
		CommunityID uuid.UUID
	}

	PublishPostMsg struct {
		PostID  uuid.UUID
		ActorID uuid.UUID
	}

	LikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	UnlikePostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	BookmarkPostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	UnbookmarkPostMsg struct {
		PostID uuid.UUID
		UserID uuid.UUID
	}

	VotePollMsg struct {
		PostID   uuid.UUID
		OptionID string
		UserID   uuid.UUID
	}

	DeletePostMsg struct {
		PostID  uuid.UUID
		ActorID uuid.UUID
	}
)

// LikeResult reports the like state after a like/unlike call. Repeats
// return the same state with Changed=false.
type LikeResult struct {
	Liked   bool `json:"liked"`
	Changed bool `json:"changed"`
}

// Classifier is the moderation seam: *moderation.Client in production, a
// stub in tests.
type Classifier interface {
	Classify(ctx stdctx.Context, title, content string) (*moderation.Result, error)
}

// PostActor owns the post lifecycle, engagement toggles and poll voting.
type PostActor struct {
	store           database.Store
	classifier      Classifier
	metrics         *utils.MetricsCollector
	notificationPID *actor.PID
}

func NewPostActor(store database.Store, classifier Classifier, metrics *utils.MetricsCollector, notificationPID *actor.PID) actor.Actor {
	return &PostActor{
		store:           store,
		classifier:      classifier,
		metrics:         metrics,
		notificationPID: notificationPID,
	}
}

func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("PostActor started")

	case *CreatePostMsg:
		a.handleCreate(context, msg)

	case *GetPostMsg:
		ctx := stdctx.Background()
		post, err := a.store.GetPost(ctx, msg.PostID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(post)

	case *GetCommunityPostsMsg:
		ctx := stdctx.Background()
		posts, err := a.store.GetCommunityPosts(ctx, msg.CommunityID)
		if err != nil {
			context.Respond(err)
			return
		}
		if posts == nil {
			posts = []*models.Post{}
		}
		context.Respond(posts)

	case *PublishPostMsg:
		a.handlePublish(context, msg)

	case *LikePostMsg:
		a.handleLike(context, msg)

	case *UnlikePostMsg:
		a.handleUnlike(context, msg)

	case *BookmarkPostMsg:
		a.handleBookmark(context, msg, true)

	case *UnbookmarkPostMsg:
		a.handleBookmark(context, &BookmarkPostMsg{PostID: msg.PostID, UserID: msg.UserID}, false)

	case *VotePollMsg:
		a.handleVote(context, msg)

	case *DeletePostMsg:
		a.handleDelete(context, msg)
	}
}

func (a *PostActor) handleCreate(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" || msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and content are required", nil))
		return
	}
	if len(msg.PollOptions) == 1 {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "a poll needs at least two options", nil))
		return
	}

	author, err := a.store.GetUser(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}

	// A community post requires the author to already be a member.
	if msg.CommunityID != nil {
		community, err := a.store.GetCommunity(ctx, *msg.CommunityID)
		if err != nil {
			context.Respond(err)
			return
		}
		if err := identity.Authorize(msg.AuthorID, models.RoleMember, community); err != nil {
			context.Respond(err)
			return
		}
	}

	post := &models.Post{
		ID:             uuid.New(),
		Title:          msg.Title,
		Content:        msg.Content,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		CommunityID:    msg.CommunityID,
		Status:         models.StatusDraft,
		LikedBy:        []uuid.UUID{},
		CommentIDs:     []uuid.UUID{},
		CreatedAt:      time.Now(),
	}
	if msg.ScheduledAt != nil {
		post.Status = models.StatusScheduled
		post.ScheduledAt = msg.ScheduledAt
	}
	if len(msg.PollOptions) > 0 {
		options := make([]models.PollOption, 0, len(msg.PollOptions))
		for _, text := range msg.PollOptions {
			options = append(options, models.PollOption{
				ID:      shortuuid.New(),
				Text:    text,
				VotedBy: []uuid.UUID{},
			})
		}
		post.Poll = &models.Poll{Options: options}
	}

	if err := a.store.CreatePost(ctx, post); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(post)
}

// handlePublish moves a draft or scheduled post to published, gated by the
// moderation service. A flagged verdict blocks publication; a verdict the
// service could not produce also blocks it, since publishing unreviewed
// content is the worse failure mode.
func (a *PostActor) handlePublish(context actor.Context, msg *PublishPostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.AuthorizeSelf(msg.ActorID, post.AuthorID); err != nil {
		context.Respond(err)
		return
	}
	if post.Status == models.StatusPublished {
		context.Respond(utils.NewConflictError("post is already published"))
		return
	}

	verdict, err := a.classifier.Classify(ctx, post.Title, post.Content)
	if err != nil {
		slog.Error("moderation check failed", "post", post.ID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrUnavailable, "moderation service unavailable", err))
		return
	}
	if verdict.IsFlagged {
		context.Respond(utils.NewAppError(utils.ErrModerationBlocked, "post was flagged: "+verdict.Reason, nil))
		return
	}

	changed, err := a.store.PublishPost(ctx, post.ID, verdict.Category, verdict.Tags, time.Now())
	if err != nil {
		context.Respond(err)
		return
	}
	if !changed {
		// A concurrent publish won.
		context.Respond(utils.NewConflictError("post is already published"))
		return
	}

	published, err := a.store.GetPost(ctx, post.ID)
	if err != nil {
		context.Respond(err)
		return
	}
	a.metrics.AddOperationLatency("publish_post", time.Since(startTime))
	context.Respond(published)
}

func (a *PostActor) handleLike(context actor.Context, msg *LikePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.store.GetUser(ctx, msg.UserID); err != nil {
		context.Respond(err)
		return
	}
	if post.HasLiked(msg.UserID) {
		context.Respond(&LikeResult{Liked: true, Changed: false})
		return
	}

	// Set membership and likeCount move together in one update; a repeat
	// that raced us past the read is absorbed as changed=false.
	changed, err := a.store.LikePost(ctx, msg.PostID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if changed {
		// Author reputation tracks net likes, best effort.
		if err := a.store.AdjustReputation(ctx, post.AuthorID, 1); err != nil {
			slog.Warn("like recorded but reputation update failed",
				"post", msg.PostID, "author", post.AuthorID, "error", err)
		}
		if post.AuthorID != msg.UserID {
			a.emit(context, &EmitNotificationMsg{
				Recipient:       post.AuthorID,
				Type:            models.NotifPostLiked,
				Title:           "New like",
				Message:         "Someone liked your post \"" + post.Title + "\"",
				Link:            "/posts/" + post.ID.String(),
				RelatedEntityID: &post.ID,
				Actor:           a.snapshotUser(ctx, msg.UserID),
			})
		}
	}

	a.metrics.AddOperationLatency("like_post", time.Since(startTime))
	context.Respond(&LikeResult{Liked: true, Changed: changed})
}

func (a *PostActor) handleUnlike(context actor.Context, msg *UnlikePostMsg) {
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !post.HasLiked(msg.UserID) {
		context.Respond(&LikeResult{Liked: false, Changed: false})
		return
	}

	changed, err := a.store.UnlikePost(ctx, msg.PostID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if changed {
		if err := a.store.AdjustReputation(ctx, post.AuthorID, -1); err != nil {
			slog.Warn("unlike recorded but reputation update failed",
				"post", msg.PostID, "author", post.AuthorID, "error", err)
		}
	}
	context.Respond(&LikeResult{Liked: false, Changed: changed})
}

// handleBookmark toggles a post in the user's bookmark list. Bookmarks
// live on the user document, so this is a single-document update with no
// secondary copy to maintain.
func (a *PostActor) handleBookmark(context actor.Context, msg *BookmarkPostMsg, adding bool) {
	ctx := stdctx.Background()

	if _, err := a.store.GetPost(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}

	var changed bool
	var err error
	if adding {
		changed, err = a.store.AddBookmark(ctx, msg.UserID, msg.PostID)
	} else {
		changed, err = a.store.RemoveBookmark(ctx, msg.UserID, msg.PostID)
	}
	if err != nil {
		context.Respond(err)
		return
	}
	if !changed {
		context.Respond(&models.StatusResponse{Success: true, Message: "no change"})
		return
	}
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *PostActor) handleVote(context actor.Context, msg *VotePollMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	if post.Poll == nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "post has no poll", nil))
		return
	}
	if post.Poll.Option(msg.OptionID) == nil {
		context.Respond(utils.NewNotFoundError("poll option"))
		return
	}
	if _, err := a.store.GetUser(ctx, msg.UserID); err != nil {
		context.Respond(err)
		return
	}
	if voted := post.Poll.VoterOption(msg.UserID); voted != "" {
		context.Respond(utils.NewConflictError("user has already voted in this poll"))
		return
	}

	// The store-level filter re-checks "has not voted anywhere in this
	// poll" so two concurrent votes cannot both land.
	changed, err := a.store.VotePoll(ctx, msg.PostID, msg.OptionID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !changed {
		context.Respond(utils.NewConflictError("user has already voted in this poll"))
		return
	}

	updated, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	a.metrics.AddOperationLatency("vote_poll", time.Since(startTime))
	context.Respond(updated.Poll)
}

// handleDelete cascades a post: comments first, then bookmark references,
// then the post document.
func (a *PostActor) handleDelete(context actor.Context, msg *DeletePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	post, err := a.store.GetPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Author may always delete; a community admin may delete community
	// posts.
	if msg.ActorID != post.AuthorID {
		if post.CommunityID == nil {
			context.Respond(utils.NewForbiddenError("only the author can delete this post"))
			return
		}
		community, err := a.store.GetCommunity(ctx, *post.CommunityID)
		if err != nil {
			context.Respond(err)
			return
		}
		if err := identity.Authorize(msg.ActorID, models.RoleAdmin, community); err != nil {
			context.Respond(err)
			return
		}
	}

	if _, err := a.store.DeletePostComments(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.store.PullBookmarkFromUsers(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}
	if err := a.store.DeletePost(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}

	slog.Info("post deleted", "post", msg.PostID, "by", msg.ActorID)
	a.metrics.AddOperationLatency("delete_post", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "post deleted"})
}

func (a *PostActor) emit(context actor.Context, msg *EmitNotificationMsg) {
	if a.notificationPID != nil {
		context.Send(a.notificationPID, msg)
	}
}

func (a *PostActor) snapshotUser(ctx stdctx.Context, userID uuid.UUID) *models.ActorSnapshot {
	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil
	}
	return models.SnapshotOf(user)
}
