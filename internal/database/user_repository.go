// internal/database/user_repository.go
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

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID              string    `bson:"_id"`
	Username        string    `bson:"username"`
	AvatarURL       string    `bson:"avatarUrl,omitempty"`
	Reputation      int       `bson:"reputation"`
	Communities     []string  `bson:"communities"`
	BookmarkedPosts []string  `bson:"bookmarkedPosts"`
	CreatedAt       time.Time `bson:"createdAt"`
}

func userToDocument(user *models.User) *UserDocument {
	doc := &UserDocument{
		ID:              user.ID.String(),
		Username:        user.Username,
		AvatarURL:       user.AvatarURL,
		Reputation:      user.Reputation,
		Communities:     make([]string, len(user.Communities)),
		BookmarkedPosts: make([]string, len(user.BookmarkedPosts)),
		CreatedAt:       user.CreatedAt,
	}
	for i, id := range user.Communities {
		doc.Communities[i] = id.String()
	}
	for i, id := range user.BookmarkedPosts {
		doc.BookmarkedPosts[i] = id.String()
	}
	return doc
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	communities := make([]uuid.UUID, len(doc.Communities))
	for i, idStr := range doc.Communities {
		communityID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid community ID in database: %v", err)
		}
		communities[i] = communityID
	}

	bookmarks := make([]uuid.UUID, len(doc.BookmarkedPosts))
	for i, idStr := range doc.BookmarkedPosts {
		postID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid bookmarked post ID in database: %v", err)
		}
		bookmarks[i] = postID
	}

	return &models.User{
		ID:              id,
		Username:        doc.Username,
		AvatarURL:       doc.AvatarURL,
		Reputation:      doc.Reputation,
		Communities:     communities,
		BookmarkedPosts: bookmarks,
		CreatedAt:       doc.CreatedAt,
	}, nil
}

// CreateUser inserts a new user document.
func (m *MongoDB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := m.Users.InsertOne(ctx, userToDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewAppError(utils.ErrDuplicate, "user already exists", err)
		}
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument
	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("user")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get user", err)
	}
	return userDocumentToModel(&doc)
}

// GetUsersByIDs retrieves the users whose ids are in the given set.
func (m *MongoDB) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	cursor, err := m.Users.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings}})
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get users", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		user, err := userDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, cursor.Err()
}

// UpdateUserCommunities adds or removes a community id from a user's list.
// This is the user-side half of the membership denorm pair; the community
// document is always written first.
func (m *MongoDB) UpdateUserCommunities(ctx context.Context, userID, communityID uuid.UUID, joining bool) error {
	var update bson.M
	if joining {
		update = bson.M{"$addToSet": bson.M{"communities": communityID.String()}}
	} else {
		update = bson.M{"$pull": bson.M{"communities": communityID.String()}}
	}

	result, err := m.Users.UpdateOne(ctx, bson.M{"_id": userID.String()}, update)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to update user communities", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}
	return nil
}

// AddBookmark adds postID to a user's bookmark set. Returns false if the
// post was already bookmarked (idempotent no-op).
func (m *MongoDB) AddBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	result, err := m.Users.UpdateOne(
		ctx,
		bson.M{"_id": userID.String(), "bookmarkedPosts": bson.M{"$ne": postID.String()}},
		bson.M{"$addToSet": bson.M{"bookmarkedPosts": postID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to add bookmark", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveBookmark removes postID from a user's bookmark set. Returns false
// if it was not bookmarked.
func (m *MongoDB) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	result, err := m.Users.UpdateOne(
		ctx,
		bson.M{"_id": userID.String(), "bookmarkedPosts": postID.String()},
		bson.M{"$pull": bson.M{"bookmarkedPosts": postID.String()}},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to remove bookmark", err)
	}
	return result.ModifiedCount > 0, nil
}

// AdjustReputation increments a user's reputation counter.
func (m *MongoDB) AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error {
	result, err := m.Users.UpdateOne(
		ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$inc": bson.M{"reputation": delta}},
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to adjust reputation", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}
	return nil
}

// PullCommunityFromUsers removes communityID from every user's community
// list. Part of the community deletion cascade.
func (m *MongoDB) PullCommunityFromUsers(ctx context.Context, communityID uuid.UUID) (int64, error) {
	result, err := m.Users.UpdateMany(
		ctx,
		bson.M{"communities": communityID.String()},
		bson.M{"$pull": bson.M{"communities": communityID.String()}},
	)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to pull community from users", err)
	}
	return result.ModifiedCount, nil
}

// PullBookmarkFromUsers removes postID from every user's bookmark set.
// Part of the post deletion cascade.
func (m *MongoDB) PullBookmarkFromUsers(ctx context.Context, postID uuid.UUID) (int64, error) {
	result, err := m.Users.UpdateMany(
		ctx,
		bson.M{"bookmarkedPosts": postID.String()},
		bson.M{"$pull": bson.M{"bookmarkedPosts": postID.String()}},
	)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to pull bookmark from users", err)
	}
	return result.ModifiedCount, nil
}
