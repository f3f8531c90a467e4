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

func ask(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

func seedUser(t *testing.T, store *memStore, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:              uuid.New(),
		Username:        username,
		Communities:     []uuid.UUID{},
		BookmarkedPosts: []uuid.UUID{},
		CreatedAt:       time.Now(),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func spawnCommunityActor(system *actor.ActorSystem, store *memStore) *actor.PID {
	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return NewNotificationActor(store, nil)
	})
	notificationPID := system.Root.Spawn(notificationProps)
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommunityActor(store, utils.NewMetricsCollector(), notificationPID)
	})
	return system.Root.Spawn(props)
}

func TestCreateCommunitySeedsCreatorEverywhere(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")

	result := ask(t, system, pid, &CreateCommunityMsg{
		Name:      "bayou-dwellers",
		Privacy:   models.PrivacyPublic,
		CreatorID: creator.ID,
	})
	community, ok := result.(*models.Community)
	require.True(t, ok, "expected a community, got %T: %v", result, result)

	assert.Equal(t, creator.ID, community.CreatorID)
	assert.Contains(t, community.AdminIDs, creator.ID)
	assert.Contains(t, community.MemberIDs, creator.ID)
	assert.Equal(t, models.RoleCreator, community.RoleOf(creator.ID))

	// The creator's own community list got the denormalized entry.
	fresh, err := store.GetUser(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.True(t, fresh.InCommunity(community.ID))
}

func TestJoinPublicCommunityIsIdempotent(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	joiner := seedUser(t, store, "bob")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: creator.ID,
	}).(*models.Community)

	first := ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: joiner.ID}).(*JoinResult)
	assert.Equal(t, models.RoleMember, first.Status)
	assert.True(t, first.Changed)

	// Second join settles in the same state without another write.
	second := ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: joiner.ID}).(*JoinResult)
	assert.Equal(t, models.RoleMember, second.Status)
	assert.False(t, second.Changed)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, len(fresh.MemberIDs))

	user, err := store.GetUser(context.Background(), joiner.ID)
	require.NoError(t, err)
	assert.True(t, user.InCommunity(community.ID))
}

func TestJoinPrivateCommunityGoesPending(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	joiner := seedUser(t, store, "bob")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "secret-swamp", Privacy: models.PrivacyPrivate, CreatorID: creator.ID,
	}).(*models.Community)

	result := ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: joiner.ID}).(*JoinResult)
	assert.Equal(t, models.RolePending, result.Status)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.Contains(t, fresh.PendingMemberIDs, joiner.ID)
	assert.NotContains(t, fresh.MemberIDs, joiner.ID)

	// The user's list stays untouched until approval.
	user, err := store.GetUser(context.Background(), joiner.ID)
	require.NoError(t, err)
	assert.False(t, user.InCommunity(community.ID))
}

func TestApproveMemberRequiresAdmin(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	joiner := seedUser(t, store, "bob")
	outsider := seedUser(t, store, "mallory")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "secret-swamp", Privacy: models.PrivacyPrivate, CreatorID: creator.ID,
	}).(*models.Community)
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: joiner.ID})

	result := ask(t, system, pid, &ApproveMemberMsg{
		CommunityID: community.ID, ActorID: outsider.ID, UserID: joiner.ID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Creator approval moves pending to member and fixes the user's list.
	ok2 := ask(t, system, pid, &ApproveMemberMsg{
		CommunityID: community.ID, ActorID: creator.ID, UserID: joiner.ID,
	})
	_, isStatus := ok2.(*models.StatusResponse)
	require.True(t, isStatus)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.Contains(t, fresh.MemberIDs, joiner.ID)
	assert.NotContains(t, fresh.PendingMemberIDs, joiner.ID)

	user, err := store.GetUser(context.Background(), joiner.ID)
	require.NoError(t, err)
	assert.True(t, user.InCommunity(community.ID))

	// The joiner got a member_approved notification.
	assert.Eventually(t, func() bool {
		ns, _ := store.GetUserNotifications(context.Background(), joiner.ID)
		return len(ns) == 1 && ns[0].Type == models.NotifMemberApproved
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApproveNoLongerPendingIsNoOp(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	ghost := seedUser(t, store, "bob")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "secret-swamp", Privacy: models.PrivacyPrivate, CreatorID: creator.ID,
	}).(*models.Community)

	// bob never requested to join; approving him must not invent a member.
	result := ask(t, system, pid, &ApproveMemberMsg{
		CommunityID: community.ID, ActorID: creator.ID, UserID: ghost.ID,
	})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok)
	assert.True(t, status.Success)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.NotContains(t, fresh.MemberIDs, ghost.ID)
}

func TestCreatorCannotLeave(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: creator.ID,
	}).(*models.Community)

	result := ask(t, system, pid, &LeaveCommunityMsg{CommunityID: community.ID, UserID: creator.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConflict, appErr.Code)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.Contains(t, fresh.MemberIDs, creator.ID)
}

func TestTransferOwnershipRequiresMember(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	member := seedUser(t, store, "bob")
	outsider := seedUser(t, store, "mallory")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: creator.ID,
	}).(*models.Community)
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: member.ID})

	// Non-member target is rejected.
	result := ask(t, system, pid, &TransferOwnershipMsg{
		CommunityID: community.ID, ActorID: creator.ID, NewOwnerID: outsider.ID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConflict, appErr.Code)

	// Member target works; the former creator remains admin and member.
	result = ask(t, system, pid, &TransferOwnershipMsg{
		CommunityID: community.ID, ActorID: creator.ID, NewOwnerID: member.ID,
	})
	_, isStatus := result.(*models.StatusResponse)
	require.True(t, isStatus, "transfer failed: %v", result)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, fresh.CreatorID)
	assert.Contains(t, fresh.AdminIDs, member.ID)
	assert.Contains(t, fresh.AdminIDs, creator.ID)
	assert.Contains(t, fresh.MemberIDs, creator.ID)

	// Both sides were notified.
	assert.Eventually(t, func() bool {
		received, _ := store.GetUserNotifications(context.Background(), member.ID)
		handedOff, _ := store.GetUserNotifications(context.Background(), creator.ID)
		return len(received) == 1 && received[0].Type == models.NotifOwnershipReceived &&
			len(handedOff) == 1 && handedOff[0].Type == models.NotifOwnershipHandedOff
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDeleteCommunityCascades(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	member := seedUser(t, store, "bob")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: creator.ID,
	}).(*models.Community)
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: member.ID})

	ctx := context.Background()
	post := &models.Post{ID: uuid.New(), Title: "t", Content: "c", AuthorID: member.ID, CommunityID: &community.ID, CreatedAt: time.Now()}
	require.NoError(t, store.CreatePost(ctx, post))
	require.NoError(t, store.CreateComment(ctx, &models.Comment{ID: uuid.New(), PostID: post.ID, AuthorID: creator.ID, Content: "hi", CreatedAt: time.Now()}))
	require.NoError(t, store.CreateEvent(ctx, &models.Event{ID: "evt1", CommunityID: community.ID, CreatorID: creator.ID, Title: "meetup", StartsAt: time.Now(), CreatedAt: time.Now()}))

	bookmarked, err := store.AddBookmark(ctx, creator.ID, post.ID)
	require.NoError(t, err)
	require.True(t, bookmarked)

	// Only the creator may delete.
	result := ask(t, system, pid, &DeleteCommunityMsg{CommunityID: community.ID, ActorID: member.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = ask(t, system, pid, &DeleteCommunityMsg{CommunityID: community.ID, ActorID: creator.ID})
	_, isStatus := result.(*models.StatusResponse)
	require.True(t, isStatus, "delete failed: %v", result)

	_, err = store.GetCommunity(ctx, community.ID)
	assert.Error(t, err)
	_, err = store.GetPost(ctx, post.ID)
	assert.Error(t, err)
	comments, _ := store.GetPostComments(ctx, post.ID)
	assert.Empty(t, comments)
	_, err = store.GetEvent(ctx, "evt1")
	assert.Error(t, err)

	// No user still references the dead community or its posts.
	for _, id := range []uuid.UUID{creator.ID, member.ID} {
		u, err := store.GetUser(ctx, id)
		require.NoError(t, err)
		assert.False(t, u.InCommunity(community.ID))
		assert.False(t, u.HasBookmarked(post.ID))
	}
}

func TestLeaveRestoresPreJoinState(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	joiner := seedUser(t, store, "bob")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: creator.ID,
	}).(*models.Community)

	ctx := context.Background()
	membersBefore := append([]uuid.UUID(nil), community.MemberIDs...)
	userBefore, err := store.GetUser(ctx, joiner.ID)
	require.NoError(t, err)
	communitiesBefore := append([]uuid.UUID(nil), userBefore.Communities...)

	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: joiner.ID})

	result := ask(t, system, pid, &LeaveCommunityMsg{CommunityID: community.ID, UserID: joiner.ID})
	_, isStatus := result.(*models.StatusResponse)
	require.True(t, isStatus, "leave failed: %v", result)

	// Both sides of the denormalized pair end up exactly where they started.
	after, err := store.GetCommunity(ctx, community.ID)
	require.NoError(t, err)
	assert.Equal(t, membersBefore, after.MemberIDs)

	userAfter, err := store.GetUser(ctx, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, communitiesBefore, userAfter.Communities)
}

func TestLeaveAfterOwnershipTransfer(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	founder := seedUser(t, store, "alice")
	successor := seedUser(t, store, "bob")

	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: founder.ID,
	}).(*models.Community)
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, UserID: successor.ID})

	result := ask(t, system, pid, &TransferOwnershipMsg{
		CommunityID: community.ID, ActorID: founder.ID, NewOwnerID: successor.ID,
	})
	_, isStatus := result.(*models.StatusResponse)
	require.True(t, isStatus, "transfer failed: %v", result)

	// The former owner is just an admin now and may walk away.
	result = ask(t, system, pid, &LeaveCommunityMsg{CommunityID: community.ID, UserID: founder.ID})
	_, isStatus = result.(*models.StatusResponse)
	require.True(t, isStatus, "former owner's leave failed: %v", result)

	// The new owner inherited the creator's restriction.
	result = ask(t, system, pid, &LeaveCommunityMsg{CommunityID: community.ID, UserID: successor.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrConflict, appErr.Code)

	fresh, err := store.GetCommunity(context.Background(), community.ID)
	require.NoError(t, err)
	assert.NotContains(t, fresh.MemberIDs, founder.ID)
	assert.Contains(t, fresh.MemberIDs, successor.ID)
}

func TestDeleteDeletedCommunityIsNotFound(t *testing.T) {
	system := actor.NewActorSystem()
	store := newMemStore()
	pid := spawnCommunityActor(system, store)

	creator := seedUser(t, store, "alice")
	community := ask(t, system, pid, &CreateCommunityMsg{
		Name: "gators", Privacy: models.PrivacyPublic, CreatorID: creator.ID,
	}).(*models.Community)

	result := ask(t, system, pid, &DeleteCommunityMsg{CommunityID: community.ID, ActorID: creator.ID})
	_, isStatus := result.(*models.StatusResponse)
	require.True(t, isStatus, "delete failed: %v", result)

	result = ask(t, system, pid, &DeleteCommunityMsg{CommunityID: community.ID, ActorID: creator.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}
