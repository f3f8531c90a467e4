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

// Message types for user operations
type (
	RegisterUserMsg struct {
		Username  string
		AvatarURL string
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID
	}

	GetUserCommunitiesMsg struct {
		UserID uuid.UUID
	}

	GetUserBookmarksMsg struct {
		UserID uuid.UUID
	}
)

// UserActor owns registration and profile reads.
type UserActor struct {
	store   database.Store
	metrics *utils.MetricsCollector
}

func NewUserActor(store database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &UserActor{store: store, metrics: metrics}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("UserActor started")

	case *RegisterUserMsg:
		a.handleRegister(context, msg)

	case *GetUserProfileMsg:
		ctx := stdctx.Background()
		user, err := a.store.GetUser(ctx, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(user)

	case *GetUserCommunitiesMsg:
		a.handleGetCommunities(context, msg)

	case *GetUserBookmarksMsg:
		a.handleGetBookmarks(context, msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Username == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "username is required", nil))
		return
	}

	user := &models.User{
		ID:              uuid.New(),
		Username:        msg.Username,
		AvatarURL:       msg.AvatarURL,
		Communities:     []uuid.UUID{},
		BookmarkedPosts: []uuid.UUID{},
		CreatedAt:       time.Now(),
	}

	if err := a.store.CreateUser(ctx, user); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleGetCommunities(context actor.Context, msg *GetUserCommunitiesMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	communities := make([]*models.Community, 0, len(user.Communities))
	for _, id := range user.Communities {
		community, err := a.store.GetCommunity(ctx, id)
		if err != nil {
			// A stale entry from a half-finished cascade; skip it.
			if utils.IsErrorCode(err, utils.ErrNotFound) {
				slog.Warn("user references missing community", "user", user.ID, "community", id)
				continue
			}
			context.Respond(err)
			return
		}
		communities = append(communities, community)
	}
	context.Respond(communities)
}

func (a *UserActor) handleGetBookmarks(context actor.Context, msg *GetUserBookmarksMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	posts := make([]*models.Post, 0, len(user.BookmarkedPosts))
	for _, id := range user.BookmarkedPosts {
		post, err := a.store.GetPost(ctx, id)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrNotFound) {
				slog.Warn("user bookmarks missing post", "user", user.ID, "post", id)
				continue
			}
			context.Respond(err)
			return
		}
		posts = append(posts, post)
	}
	context.Respond(posts)
}
