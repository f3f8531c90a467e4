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
	"github.com/lithammer/shortuuid/v4"
)

// Message types for community event operations
type (
	CreateEventMsg struct {
		CommunityID uuid.UUID
		CreatorID   uuid.UUID
		Title       string
		Description string
		StartsAt    time.Time
	}

	GetEventMsg struct {
		EventID string
	}

	GetCommunityEventsMsg struct {
		CommunityID uuid.UUID
	}

	RSVPMsg struct {
		EventID   string
		UserID    uuid.UUID
		Attending bool
	}
)

// RSVPResult reports the attendance state after an RSVP toggle.
type RSVPResult struct {
	Attending bool `json:"attending"`
	Changed   bool `json:"changed"`
}

// EventActor owns community events and RSVP toggles.
type EventActor struct {
	store   database.Store
	metrics *utils.MetricsCollector
}

func NewEventActor(store database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &EventActor{store: store, metrics: metrics}
}

func (a *EventActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		slog.Info("EventActor started")

	case *CreateEventMsg:
		a.handleCreate(context, msg)

	case *GetEventMsg:
		ctx := stdctx.Background()
		event, err := a.store.GetEvent(ctx, msg.EventID)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(event)

	case *GetCommunityEventsMsg:
		ctx := stdctx.Background()
		events, err := a.store.GetCommunityEvents(ctx, msg.CommunityID)
		if err != nil {
			context.Respond(err)
			return
		}
		if events == nil {
			events = []*models.Event{}
		}
		context.Respond(events)

	case *RSVPMsg:
		a.handleRSVP(context, msg)
	}
}

func (a *EventActor) handleCreate(context actor.Context, msg *CreateEventMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "event title is required", nil))
		return
	}
	if msg.StartsAt.IsZero() {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "event start time is required", nil))
		return
	}

	community, err := a.store.GetCommunity(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.CreatorID, models.RoleMember, community); err != nil {
		context.Respond(err)
		return
	}

	event := &models.Event{
		ID:          shortuuid.New(),
		CommunityID: msg.CommunityID,
		CreatorID:   msg.CreatorID,
		Title:       msg.Title,
		Description: msg.Description,
		StartsAt:    msg.StartsAt,
		AttendeeIDs: []uuid.UUID{msg.CreatorID},
		CreatedAt:   time.Now(),
	}

	if err := a.store.CreateEvent(ctx, event); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_event", time.Since(startTime))
	context.Respond(event)
}

func (a *EventActor) handleRSVP(context actor.Context, msg *RSVPMsg) {
	ctx := stdctx.Background()

	event, err := a.store.GetEvent(ctx, msg.EventID)
	if err != nil {
		context.Respond(err)
		return
	}

	community, err := a.store.GetCommunity(ctx, event.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	if err := identity.Authorize(msg.UserID, models.RoleMember, community); err != nil {
		context.Respond(err)
		return
	}

	var changed bool
	if msg.Attending {
		changed, err = a.store.AddAttendee(ctx, msg.EventID, msg.UserID)
	} else {
		changed, err = a.store.RemoveAttendee(ctx, msg.EventID, msg.UserID)
	}
	if err != nil {
		context.Respond(err)
		return
	}
	if !changed {
		slog.Debug("rsvp was a no-op", "event", msg.EventID, "user", msg.UserID)
	}
	context.Respond(&RSVPResult{Attending: msg.Attending, Changed: changed})
}
