package actors

import (
	"context"
	"testing"
	"time"

	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnCommentActor(system *actor.ActorSystem, store *memStore) *actor.PID {
	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return NewNotificationActor(store, nil)
	})
	notificationPID := system.Root.Spawn(notificationProps)
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(store, utils.NewMetricsCollector(), notificationPID)
	})
	return system.Root.Spawn(props)
}

func TestCreateCommentLinksToPost(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommentActor(system, store)

	author := seedUser(t, store, "alice")
	commenter := seedUser(t, store, "bob")
	post := seedPost(t, store, author, nil)

	result := ask(t, system, pid, &CreateCommentMsg{
		PostID: post.ID, AuthorID: commenter.ID, Content: "nice",
	})
	comment, ok := result.(*models.Comment)
	require.True(t, ok, "expected a comment, got %v", result)
	assert.Equal(t, commenter.Username, comment.AuthorUsername)

	ctx := context.Background()
	fresh, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Contains(t, fresh.CommentIDs, comment.ID)
	assert.Equal(t, 1, fresh.CommentCount)

	// The post author hears about it.
	assert.Eventually(t, func() bool {
		ns, _ := store.GetUserNotifications(ctx, author.ID)
		return len(ns) == 1 && ns[0].Type == models.NotifPostCommented
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCreateReplyValidatesParent(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommentActor(system, store)

	author := seedUser(t, store, "alice")
	post := seedPost(t, store, author, nil)
	otherPost := seedPost(t, store, author, nil)

	top := ask(t, system, pid, &CreateCommentMsg{
		PostID: post.ID, AuthorID: author.ID, Content: "top",
	}).(*models.Comment)

	// Reply under the right post works.
	reply := ask(t, system, pid, &CreateCommentMsg{
		PostID: post.ID, AuthorID: author.ID, Content: "reply", ParentID: &top.ID,
	})
	_, ok := reply.(*models.Comment)
	require.True(t, ok, "reply failed: %v", reply)

	// Parent from a different post is rejected.
	result := ask(t, system, pid, &CreateCommentMsg{
		PostID: otherPost.ID, AuthorID: author.ID, Content: "stray", ParentID: &top.ID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConflict, appErr.Code)

	// Missing parent is rejected.
	missing := uuid.New()
	result = ask(t, system, pid, &CreateCommentMsg{
		PostID: post.ID, AuthorID: author.ID, Content: "stray", ParentID: &missing,
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestGetPostCommentsOrdersByCreation(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommentActor(system, store)

	author := seedUser(t, store, "alice")
	post := seedPost(t, store, author, nil)

	ctx := context.Background()
	base := time.Now()
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, store.CreateComment(ctx, &models.Comment{
			ID: uuid.New(), PostID: post.ID, AuthorID: author.ID,
			Content: content, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	result := ask(t, system, pid, &GetPostCommentsMsg{PostID: post.ID})
	comments, ok := result.([]*models.Comment)
	require.True(t, ok)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
}
