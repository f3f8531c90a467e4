package engine

import (
	"bayou-commons/internal/database"
	"bayou-commons/internal/engine/actors"
	"bayou-commons/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors. The notification actor
// is spawned first so the domain actors can hold its PID for
// fire-and-forget emission.
type Engine struct {
	userActor         *actor.PID
	communityActor    *actor.PID
	postActor         *actor.PID
	commentActor      *actor.PID
	eventActor        *actor.PID
	notificationActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, metrics *utils.MetricsCollector, store database.Store, classifier actors.Classifier, pusher actors.Pusher) *Engine {
	context := system.Root

	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewNotificationActor(store, pusher)
	})
	notificationPID := context.Spawn(notificationProps)

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(store, metrics)
	})
	userPID := context.Spawn(userProps)

	communityProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommunityActor(store, metrics, notificationPID)
	})
	communityPID := context.Spawn(communityProps)

	postProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(store, classifier, metrics, notificationPID)
	})
	postPID := context.Spawn(postProps)

	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, metrics, notificationPID)
	})
	commentPID := context.Spawn(commentProps)

	eventProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewEventActor(store, metrics)
	})
	eventPID := context.Spawn(eventProps)

	return &Engine{
		userActor:         userPID,
		communityActor:    communityPID,
		postActor:         postPID,
		commentActor:      commentPID,
		eventActor:        eventPID,
		notificationActor: notificationPID,
	}
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}

// GetCommunityActor returns the PID of the community actor
func (e *Engine) GetCommunityActor() *actor.PID {
	return e.communityActor
}

// GetPostActor returns the PID of the post actor
func (e *Engine) GetPostActor() *actor.PID {
	return e.postActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}

// GetEventActor returns the PID of the event actor
func (e *Engine) GetEventActor() *actor.PID {
	return e.eventActor
}

// GetNotificationActor returns the PID of the notification actor
func (e *Engine) GetNotificationActor() *actor.PID {
	return e.notificationActor
}
