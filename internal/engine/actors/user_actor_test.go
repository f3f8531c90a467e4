package actors

import (
	"context"
	"testing"

	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnUserActor(system *actor.ActorSystem, store *memStore) *actor.PID {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(store, utils.NewMetricsCollector())
	})
	return system.Root.Spawn(props)
}

func TestRegisterUser(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnUserActor(system, store)

	result := ask(t, system, pid, &RegisterUserMsg{Username: "alice", AvatarURL: "https://example.com/a.png"})
	user, ok := result.(*models.User)
	require.True(t, ok, "expected a user, got %v", result)
	assert.Equal(t, "alice", user.Username)
	assert.Zero(t, user.Reputation)
	assert.Empty(t, user.Communities)

	// Username is required.
	result = ask(t, system, pid, &RegisterUserMsg{})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestGetUserProfile(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnUserActor(system, store)

	user := seedUser(t, store, "alice")

	result := ask(t, system, pid, &GetUserProfileMsg{UserID: user.ID})
	fetched, ok := result.(*models.User)
	require.True(t, ok)
	assert.Equal(t, user.ID, fetched.ID)
}

func TestGetUserBookmarksSkipsDeadReferences(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnUserActor(system, store)

	author := seedUser(t, store, "alice")
	reader := seedUser(t, store, "bob")
	live := seedPost(t, store, author, nil)
	dead := seedPost(t, store, author, nil)

	ctx := context.Background()
	_, err := store.AddBookmark(ctx, reader.ID, live.ID)
	require.NoError(t, err)
	_, err = store.AddBookmark(ctx, reader.ID, dead.ID)
	require.NoError(t, err)

	// Simulate a half-finished post cascade: the post is gone, the
	// bookmark entry survived.
	require.NoError(t, store.DeletePost(ctx, dead.ID))

	result := ask(t, system, pid, &GetUserBookmarksMsg{UserID: reader.ID})
	posts, ok := result.([]*models.Post)
	require.True(t, ok)
	require.Len(t, posts, 1)
	assert.Equal(t, live.ID, posts[0].ID)
}
