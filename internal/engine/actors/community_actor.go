package actors

import (
	stdctx "context"
	"log/slog"
	"time"

	"bayou-commons/internal/database"
	"bayou-commons/internal/identity"
	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for community operations
type (
	CreateCommunityMsg struct {
		Name        string
		Description string
		Privacy     models.Privacy
		CreatorID   uuid.UUID
	}

	GetCommunityMsg struct {
		CommunityID uuid.UUID
	}

	ListCommunitiesMsg struct{}

	JoinCommunityMsg struct {
		CommunityID uuid.UUID
		UserID      uuid.UUID
	}

	LeaveCommunityMsg struct {
		CommunityID uuid.UUID
		UserID      uuid.UUID
	}

	ApproveMemberMsg struct {
		CommunityID uuid.UUID
		ActorID     uuid.UUID // must be admin or creator
		UserID      uuid.UUID // the pending member
	}

	DenyMemberMsg struct {
		CommunityID uuid.UUID
		ActorID     uuid.UUID
		UserID      uuid.UUID
	}

	GetPendingMembersMsg struct {
		CommunityID uuid.UUID
		ActorID     uuid.UUID
	}

	GetCommunityMembersMsg struct {
		CommunityID uuid.UUID
	}

	TransferOwnershipMsg struct {
		CommunityID uuid.UUID
		ActorID     uuid.UUID // must be the current creator
		NewOwnerID  uuid.UUID
	}

	DeleteCommunityMsg struct {
		CommunityID uuid.UUID
		ActorID     uuid.UUID // must be the creator
	}
)

// JoinResult reports the membership state a join call ended in. Repeats
// of an already-settled join return the same state with Changed=false.
type JoinResult struct {
	Status  models.Role `json:"status"`
	Changed bool        `json:"changed"`
}

// CommunityActor owns the membership state machine. Every transition is a
// guarded read-then-conditional-write: the community document is the
// primary invariant holder and is always written first; the user-side
// community list is the secondary denormalized copy.
type CommunityActor struct {
	store           database.Store
	metrics         *utils.MetricsCollector
	notificationPID *actor.PID
}

func NewCommunityActor(store database.Store, metrics *utils.MetricsCollector, notificationPID *actor.PID) actor.Actor {
	return &CommunityActor{
		store:           store,
		metrics:         metrics,
		notificationPID: notificationPID,
	}
}

func (a *CommunityActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("CommunityActor started")

	case *CreateCommunityMsg:
		a.handleCreate(context, msg)

	case *GetCommunityMsg:
		ctx := stdctx.Background()
		community, err := a.store.GetCommunity(ctx, msg.CommunityID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(community)

	case *ListCommunitiesMsg:
		ctx := stdctx.Background()
		communities, err := a.store.ListCommunities(ctx)
		if err != nil {
			context.Respond(err)
			return
		}
		if communities == nil {
			communities = []*models.Community{}
		}
		context.Respond(communities)

	case *JoinCommunityMsg:
		a.handleJoin(context, msg)

	case *LeaveCommunityMsg:
		a.handleLeave(context, msg)

	case *ApproveMemberMsg:
		a.handleApprove(context, msg)

	case *DenyMemberMsg:
		a.handleDeny(context, msg)

	case *GetPendingMembersMsg:
		a.handleGetPending(context, msg)

	case *GetCommunityMembersMsg:
		a.handleGetMembers(context, msg)

	case *TransferOwnershipMsg:
		a.handleTransferOwnership(context, msg)

	case *DeleteCommunityMsg:
		a.handleDelete(context, msg)
	}
}

func (a *CommunityActor) handleCreate(context actor.Context, msg *CreateCommunityMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Name == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "community name is required", nil))
		return
	}
	if msg.Privacy != models.PrivacyPublic && msg.Privacy != models.PrivacyPrivate {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "privacy must be public or private", nil))
		return
	}

	creator, err := a.store.GetUser(ctx, msg.CreatorID)
	if err != nil {
		context.Respond(err)
		return
	}

	// The creator starts as admin and member; creatorId must stay inside
	// both sets for the life of the community.
	community := &models.Community{
		ID:               uuid.New(),
		Name:             msg.Name,
		Description:      msg.Description,
		Privacy:          msg.Privacy,
		CreatorID:        creator.ID,
		AdminIDs:         []uuid.UUID{creator.ID},
		MemberIDs:        []uuid.UUID{creator.ID},
		PendingMemberIDs: []uuid.UUID{},
		CreatedAt:        time.Now(),
	}

	if err := a.store.CreateCommunity(ctx, community); err != nil {
		context.Respond(err)
		return
	}

	// Secondary write: the creator's own community list.
	if err := a.store.UpdateUserCommunities(ctx, creator.ID, community.ID, true); err != nil {
		slog.Warn("community created but creator list update failed",
			"community", community.ID, "user", creator.ID, "error", err)
	}

	a.metrics.AddOperationLatency("create_community", time.Since(startTime))
	context.Respond(community)
}

func (a *CommunityActor) handleJoin(context actor.Context, msg *JoinCommunityMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.store.GetUser(ctx, msg.UserID); err != nil {
		context.Respond(err)
		return
	}

	// Read current state, then branch. Repeat joins are a success no-op.
	switch role := community.RoleOf(msg.UserID); role {
	case models.RoleMember, models.RoleAdmin, models.RoleCreator:
		context.Respond(&JoinResult{Status: models.RoleMember, Changed: false})
		return
	case models.RolePending:
		context.Respond(&JoinResult{Status: models.RolePending, Changed: false})
		return
	}

	if community.Privacy == models.PrivacyPrivate {
		// NONE -> PENDING: the community document only; the user's own
		// list is not touched until approval.
		changed, err := a.store.AddPendingMember(ctx, msg.CommunityID, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		a.metrics.AddOperationLatency("join_community", time.Since(startTime))
		context.Respond(&JoinResult{Status: models.RolePending, Changed: changed})
		return
	}

	// NONE -> MEMBER: community document first, then the user's list.
	// The two writes are separate atomic updates, not a transaction.
	changed, err := a.store.AddMember(ctx, msg.CommunityID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if changed {
		if err := a.store.UpdateUserCommunities(ctx, msg.UserID, msg.CommunityID, true); err != nil {
			slog.Warn("member added but user community list update failed",
				"community", msg.CommunityID, "user", msg.UserID, "error", err)
		}
	}

	a.metrics.AddOperationLatency("join_community", time.Since(startTime))
	context.Respond(&JoinResult{Status: models.RoleMember, Changed: changed})
}

func (a *CommunityActor) handleLeave(context actor.Context, msg *LeaveCommunityMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	role := community.RoleOf(msg.UserID)
	if role == models.RoleCreator {
		context.Respond(utils.NewConflictError("creator cannot leave; transfer ownership or delete the community"))
		return
	}
	if !models.CanLeave(role) && role != models.RolePending {
		context.Respond(utils.NewConflictError("user is not a member of this community"))
		return
	}

	if _, err := a.store.RemoveMember(ctx, msg.CommunityID, msg.UserID); err != nil {
		context.Respond(err)
		return
	}
	if err := a.store.UpdateUserCommunities(ctx, msg.UserID, msg.CommunityID, false); err != nil {
		slog.Warn("member removed but user community list update failed",
			"community", msg.CommunityID, "user", msg.UserID, "error", err)
	}

	a.metrics.AddOperationLatency("leave_community", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *CommunityActor) handleApprove(context actor.Context, msg *ApproveMemberMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.ActorID, models.RoleAdmin, community); err != nil {
		context.Respond(err)
		return
	}

	// PENDING -> MEMBER: pull from pending and add to members in one
	// atomic update. A user who already left the pending set makes this
	// a no-op success, not an error.
	changed, err := a.store.ApproveMember(ctx, msg.CommunityID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !changed {
		context.Respond(&models.StatusResponse{Success: true, Message: "user was not pending"})
		return
	}

	if err := a.store.UpdateUserCommunities(ctx, msg.UserID, msg.CommunityID, true); err != nil {
		slog.Warn("member approved but user community list update failed",
			"community", msg.CommunityID, "user", msg.UserID, "error", err)
	}

	a.emit(context, &EmitNotificationMsg{
		Recipient:       msg.UserID,
		Type:            models.NotifMemberApproved,
		Title:           "Request approved",
		Message:         "Your request to join " + community.Name + " was approved",
		Link:            "/communities/" + community.ID.String(),
		RelatedEntityID: &community.ID,
		Actor:           a.snapshot(ctx, msg.ActorID),
	})

	a.metrics.AddOperationLatency("approve_member", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *CommunityActor) handleDeny(context actor.Context, msg *DenyMemberMsg) {
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.ActorID, models.RoleAdmin, community); err != nil {
		context.Respond(err)
		return
	}

	changed, err := a.store.RemovePendingMember(ctx, msg.CommunityID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	if changed {
		a.emit(context, &EmitNotificationMsg{
			Recipient:       msg.UserID,
			Type:            models.NotifMemberDenied,
			Title:           "Request declined",
			Message:         "Your request to join " + community.Name + " was declined",
			RelatedEntityID: &community.ID,
		})
	}

	context.Respond(&models.StatusResponse{Success: true})
}

func (a *CommunityActor) handleGetPending(context actor.Context, msg *GetPendingMembersMsg) {
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.ActorID, models.RoleAdmin, community); err != nil {
		context.Respond(err)
		return
	}

	users, err := a.store.GetUsersByIDs(ctx, community.PendingMemberIDs)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(users)
}

func (a *CommunityActor) handleGetMembers(context actor.Context, msg *GetCommunityMembersMsg) {
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	users, err := a.store.GetUsersByIDs(ctx, community.MemberIDs)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(users)
}

func (a *CommunityActor) handleTransferOwnership(context actor.Context, msg *TransferOwnershipMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.ActorID, models.RoleCreator, community); err != nil {
		context.Respond(err)
		return
	}
	if msg.NewOwnerID == community.CreatorID {
		context.Respond(utils.NewConflictError("user is already the owner"))
		return
	}
	if !community.RoleOf(msg.NewOwnerID).AtLeast(models.RoleMember) {
		context.Respond(utils.NewConflictError("new owner must be a member of the community"))
		return
	}

	// Single atomic update: creatorId flips and the new owner joins the
	// admin set together. The former creator stays admin and member.
	changed, err := a.store.TransferOwnership(ctx, msg.CommunityID, msg.NewOwnerID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !changed {
		// The new owner left between the read and the write.
		context.Respond(utils.NewConflictError("new owner must be a member of the community"))
		return
	}

	formerOwner := community.CreatorID
	a.emit(context, &EmitNotificationMsg{
		Recipient:       msg.NewOwnerID,
		Type:            models.NotifOwnershipReceived,
		Title:           "You are the new owner",
		Message:         "Ownership of " + community.Name + " was transferred to you",
		Link:            "/communities/" + community.ID.String(),
		RelatedEntityID: &community.ID,
		Actor:           a.snapshot(ctx, formerOwner),
	})
	a.emit(context, &EmitNotificationMsg{
		Recipient:       formerOwner,
		Type:            models.NotifOwnershipHandedOff,
		Title:           "Ownership transferred",
		Message:         "You handed off ownership of " + community.Name,
		RelatedEntityID: &community.ID,
	})

	a.metrics.AddOperationLatency("transfer_ownership", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true})
}

// handleDelete runs the community cascade. Dependent entities go first so
// a crash mid-cascade leaves orphaned cleanup work behind, never a live
// reference to a community that no longer exists.
func (a *CommunityActor) handleDelete(context actor.Context, msg *DeleteCommunityMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.ActorID, models.RoleCreator, community); err != nil {
		context.Respond(err)
		return
	}

	postIDs, err := a.store.GetCommunityPostIDs(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if deleted, err := a.store.DeleteCommentsForPosts(ctx, postIDs); err != nil {
		context.Respond(err)
		return
	} else if deleted > 0 {
		slog.Info("cascade deleted comments", "community", msg.CommunityID, "count", deleted)
	}
	for _, id := range postIDs {
		if _, err := a.store.PullBookmarkFromUsers(ctx, id); err != nil {
			context.Respond(err)
			return
		}
	}
	if _, err := a.store.DeleteCommunityPosts(ctx, msg.CommunityID); err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.store.DeleteCommunityEvents(ctx, msg.CommunityID); err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.store.PullCommunityFromUsers(ctx, msg.CommunityID); err != nil {
		context.Respond(err)
		return
	}
	if err := a.store.DeleteCommunity(ctx, msg.CommunityID); err != nil {
		context.Respond(err)
		return
	}

	slog.Info("community deleted", "community", msg.CommunityID, "posts", len(postIDs))
	a.metrics.AddOperationLatency("delete_community", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "community deleted"})
}

func (a *CommunityActor) emit(context actor.Context, msg *EmitNotificationMsg) {
	if a.notificationPID != nil {
		context.Send(a.notificationPID, msg)
	}
}

// snapshot loads the actor snapshot for a notification; nil on any error
// since notifications are best effort.
func (a *CommunityActor) snapshot(ctx stdctx.Context, userID uuid.UUID) *models.ActorSnapshot {
	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil
	}
	return models.SnapshotOf(user)
}
