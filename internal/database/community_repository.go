// internal/database/community_repository.go
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
)

// CommunityDocument represents the MongoDB schema for a community.
// creatorId is always present in both adminIds and memberIds; a user id
// appears in at most one of memberIds / pendingMemberIds.
type CommunityDocument struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Description      string    `bson:"description"`
	Privacy          string    `bson:"privacy"`
	CreatorID        string    `bson:"creatorId"`
	AdminIDs         []string  `bson:"adminIds"`
	MemberIDs        []string  `bson:"memberIds"`
	PendingMemberIDs []string  `bson:"pendingMemberIds"`
	CreatedAt        time.Time `bson:"createdAt"`
}

func communityToDocument(c *models.Community) *CommunityDocument {
	doc := &CommunityDocument{
		ID:               c.ID.String(),
		Name:             c.Name,
		Description:      c.Description,
		Privacy:          string(c.Privacy),
		CreatorID:        c.CreatorID.String(),
		AdminIDs:         make([]string, len(c.AdminIDs)),
		MemberIDs:        make([]string, len(c.MemberIDs)),
		PendingMemberIDs: make([]string, len(c.PendingMemberIDs)),
		CreatedAt:        c.CreatedAt,
	}
	for i, id := range c.AdminIDs {
		doc.AdminIDs[i] = id.String()
	}
	for i, id := range c.MemberIDs {
		doc.MemberIDs[i] = id.String()
	}
	for i, id := range c.PendingMemberIDs {
		doc.PendingMemberIDs[i] = id.String()
	}
	return doc
}

func parseIDList(raw []string, field string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, idStr := range raw {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s in database: %v", field, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func communityDocumentToModel(doc *CommunityDocument) (*models.Community, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid community ID in database: %v", err)
	}
	creatorID, err := uuid.Parse(doc.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID in database: %v", err)
	}
	adminIDs, err := parseIDList(doc.AdminIDs, "admin ID")
	if err != nil {
		return nil, err
	}
	memberIDs, err := parseIDList(doc.MemberIDs, "member ID")
	if err != nil {
		return nil, err
	}
	pendingIDs, err := parseIDList(doc.PendingMemberIDs, "pending member ID")
	if err != nil {
		return nil, err
	}

	return &models.Community{
		ID:               id,
		Name:             doc.Name,
		Description:      doc.Description,
		Privacy:          models.Privacy(doc.Privacy),
		CreatorID:        creatorID,
		AdminIDs:         adminIDs,
		MemberIDs:        memberIDs,
		PendingMemberIDs: pendingIDs,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

// CreateCommunity inserts a new community document.
func (m *MongoDB) CreateCommunity(ctx context.Context, community *models.Community) error {
	_, err := m.Communities.InsertOne(ctx, communityToDocument(community))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewAppError(utils.ErrDuplicate, fmt.Sprintf("community with name %s already exists", community.Name), err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to create community", err)
	}
	return nil
}

// GetCommunity retrieves a community by its ID.
func (m *MongoDB) GetCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	var doc CommunityDocument
	err := m.Communities.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("community")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get community", err)
	}
	return communityDocumentToModel(&doc)
}

// ListCommunities retrieves all communities.
func (m *MongoDB) ListCommunities(ctx context.Context) ([]*models.Community, error) {
	cursor, err := m.Communities.Find(ctx, bson.M{})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to list communities", err)
	}
	defer cursor.Close(ctx)

	var communities []*models.Community
	for cursor.Next(ctx) {
		var doc CommunityDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode community: %v", err)
		}
		community, err := communityDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	return communities, cursor.Err()
}

// AddMember adds userID to memberIds. The filter guards against a
// concurrent duplicate add; false means the user was already a member.
func (m *MongoDB) AddMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	result, err := m.Communities.UpdateOne(
		ctx,
		bson.M{"_id": communityID.String(), "memberIds": bson.M{"$ne": userID.String()}},
		bson.M{"$addToSet": bson.M{"memberIds": userID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to add member", err)
	}
	return result.ModifiedCount > 0, nil
}

// AddPendingMember adds userID to pendingMemberIds (private communities).
// The guard keeps a user out of both sets at once.
func (m *MongoDB) AddPendingMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	result, err := m.Communities.UpdateOne(
		ctx,
		bson.M{
			"_id":              communityID.String(),
			"memberIds":        bson.M{"$ne": userID.String()},
			"pendingMemberIds": bson.M{"$ne": userID.String()},
		},
		bson.M{"$addToSet": bson.M{"pendingMemberIds": userID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to add pending member", err)
	}
	return result.ModifiedCount > 0, nil
}

// ApproveMember moves userID from pendingMemberIds to memberIds in one
// atomic update. False means the user was no longer pending.
func (m *MongoDB) ApproveMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	result, err := m.Communities.UpdateOne(
		ctx,
		bson.M{"_id": communityID.String(), "pendingMemberIds": userID.String()},
		bson.M{
			"$pull":     bson.M{"pendingMemberIds": userID.String()},
			"$addToSet": bson.M{"memberIds": userID.String()},
		},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to approve member", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemovePendingMember pulls userID from pendingMemberIds (deny).
func (m *MongoDB) RemovePendingMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	result, err := m.Communities.UpdateOne(
		ctx,
		bson.M{"_id": communityID.String()},
		bson.M{"$pull": bson.M{"pendingMemberIds": userID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to remove pending member", err)
	}
	if result.MatchedCount == 0 {
		return false, utils.NewNotFoundError("community")
	}
	return result.ModifiedCount > 0, nil
}

// RemoveMember pulls userID from memberIds, adminIds and pendingMemberIds.
// Pulling all three is defensive; at most one actually contains the user.
func (m *MongoDB) RemoveMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	result, err := m.Communities.UpdateOne(
		ctx,
		bson.M{"_id": communityID.String()},
		bson.M{"$pull": bson.M{
			"memberIds":        userID.String(),
			"adminIds":         userID.String(),
			"pendingMemberIds": userID.String(),
		}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to remove member", err)
	}
	if result.MatchedCount == 0 {
		return false, utils.NewNotFoundError("community")
	}
	return result.ModifiedCount > 0, nil
}

// TransferOwnership sets creatorId to newOwner and promotes them to admin
// in one atomic update. The filter requires newOwner to be a current
// member, so a concurrent leave loses the race cleanly. The former
// creator keeps admin and member standing.
func (m *MongoDB) TransferOwnership(ctx context.Context, communityID, newOwnerID uuid.UUID) (bool, error) {
	result, err := m.Communities.UpdateOne(
		ctx,
		bson.M{"_id": communityID.String(), "memberIds": newOwnerID.String()},
		bson.M{
			"$set":      bson.M{"creatorId": newOwnerID.String()},
			"$addToSet": bson.M{"adminIds": newOwnerID.String()},
		},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to transfer ownership", err)
	}
	return result.MatchedCount > 0, nil
}

// DeleteCommunity removes the community document itself. Dependent
// entities must already have been deleted by the cascade.
func (m *MongoDB) DeleteCommunity(ctx context.Context, communityID uuid.UUID) error {
	result, err := m.Communities.DeleteOne(ctx, bson.M{"_id": communityID.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete community", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("community")
	}
	return nil
}
