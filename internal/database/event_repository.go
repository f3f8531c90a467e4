// internal/database/event_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventDocument represents event data in MongoDB. Event ids are
// shortuuids, stored as-is.
type EventDocument struct {
	ID          string    `bson:"_id"`
	CommunityID string    `bson:"communityId"`
	CreatorID   string    `bson:"creatorId"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	StartsAt    time.Time `bson:"startsAt"`
	AttendeeIDs []string  `bson:"attendeeIds"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func eventDocumentToModel(doc *EventDocument) (*models.Event, error) {
	communityID, err := uuid.Parse(doc.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("invalid community ID in database: %v", err)
	}
	creatorID, err := uuid.Parse(doc.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID in database: %v", err)
	}
	attendees, err := parseIDList(doc.AttendeeIDs, "attendee ID")
	if err != nil {
		return nil, err
	}

	return &models.Event{
		ID:          doc.ID,
		CommunityID: communityID,
		CreatorID:   creatorID,
		Title:       doc.Title,
		Description: doc.Description,
		StartsAt:    doc.StartsAt,
		AttendeeIDs: attendees,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// CreateEvent inserts a new event document.
func (m *MongoDB) CreateEvent(ctx context.Context, event *models.Event) error {
	doc := EventDocument{
		ID:          event.ID,
		CommunityID: event.CommunityID.String(),
		CreatorID:   event.CreatorID.String(),
		Title:       event.Title,
		Description: event.Description,
		StartsAt:    event.StartsAt,
		AttendeeIDs: make([]string, len(event.AttendeeIDs)),
		CreatedAt:   event.CreatedAt,
	}
	for i, id := range event.AttendeeIDs {
		doc.AttendeeIDs[i] = id.String()
	}

	_, err := m.Events.InsertOne(ctx, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to create event", err)
	}
	return nil
}

// GetEvent retrieves an event by its id.
func (m *MongoDB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var doc EventDocument
	err := m.Events.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("event")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get event", err)
	}
	return eventDocumentToModel(&doc)
}

// GetCommunityEvents retrieves a community's events, soonest first.
func (m *MongoDB) GetCommunityEvents(ctx context.Context, communityID uuid.UUID) ([]*models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startsAt", Value: 1}})
	cursor, err := m.Events.Find(ctx, bson.M{"communityId": communityID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get community events", err)
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	for cursor.Next(ctx) {
		var doc EventDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode event: %v", err)
		}
		event, err := eventDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, cursor.Err()
}

// AddAttendee adds userID to the event's attendee set. False means the
// user had already RSVP'd (idempotent no-op).
func (m *MongoDB) AddAttendee(ctx context.Context, eventID string, userID uuid.UUID) (bool, error) {
	result, err := m.Events.UpdateOne(
		ctx,
		bson.M{"_id": eventID, "attendeeIds": bson.M{"$ne": userID.String()}},
		bson.M{"$addToSet": bson.M{"attendeeIds": userID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to add attendee", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveAttendee removes userID from the event's attendee set.
func (m *MongoDB) RemoveAttendee(ctx context.Context, eventID string, userID uuid.UUID) (bool, error) {
	result, err := m.Events.UpdateOne(
		ctx,
		bson.M{"_id": eventID, "attendeeIds": userID.String()},
		bson.M{"$pull": bson.M{"attendeeIds": userID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to remove attendee", err)
	}
	return result.ModifiedCount > 0, nil
}

// DeleteCommunityEvents removes every event belonging to a community.
func (m *MongoDB) DeleteCommunityEvents(ctx context.Context, communityID uuid.UUID) (int64, error) {
	result, err := m.Events.DeleteMany(ctx, bson.M{"communityId": communityID.String()})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to delete community events", err)
	}
	return result.DeletedCount, nil
}
