// internal/database/comment_repository.go
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

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID             string    `bson:"_id"`
	PostID         string    `bson:"postId"`
	AuthorID       string    `bson:"authorId"`
	AuthorUsername string    `bson:"authorUsername"`
	Content        string    `bson:"content"`
	ParentID       *string   `bson:"parentId,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID in database: %v", err)
	}
	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}

	var parentID *uuid.UUID
	if doc.ParentID != nil {
		parsed, err := uuid.Parse(*doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent ID in database: %v", err)
		}
		parentID = &parsed
	}

	return &models.Comment{
		ID:             id,
		PostID:         postID,
		AuthorID:       authorID,
		AuthorUsername: doc.AuthorUsername,
		Content:        doc.Content,
		ParentID:       parentID,
		CreatedAt:      doc.CreatedAt,
	}, nil
}

// CreateComment inserts a new comment document.
func (m *MongoDB) CreateComment(ctx context.Context, comment *models.Comment) error {
	doc := CommentDocument{
		ID:             comment.ID.String(),
		PostID:         comment.PostID.String(),
		AuthorID:       comment.AuthorID.String(),
		AuthorUsername: comment.AuthorUsername,
		Content:        comment.Content,
		CreatedAt:      comment.CreatedAt,
	}
	if comment.ParentID != nil {
		parentIDStr := comment.ParentID.String()
		doc.ParentID = &parentIDStr
	}

	_, err := m.Comments.InsertOne(ctx, doc)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to create comment", err)
	}
	return nil
}

// GetComment retrieves a comment by ID.
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument
	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("comment")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get comment", err)
	}
	return commentDocumentToModel(&doc)
}

// GetPostComments retrieves all comments for a post, oldest first. This
// queries by postId directly instead of trusting the parent's commentIds
// list, so comments orphaned by a failed linkage write still show up.
func (m *MongoDB) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": postID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get post comments", err)
	}
	defer cursor.Close(ctx)

	var comments []*models.Comment
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}
		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, cursor.Err()
}

// DeletePostComments removes every comment on a post. Counters are not
// touched; this only runs while the parent post is being deleted.
func (m *MongoDB) DeletePostComments(ctx context.Context, postID uuid.UUID) (int64, error) {
	result, err := m.Comments.DeleteMany(ctx, bson.M{"postId": postID.String()})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to delete post comments", err)
	}
	return result.DeletedCount, nil
}

// DeleteCommentsForPosts removes all comments whose postId is in the given
// set. Used by the community deletion cascade before its posts go.
func (m *MongoDB) DeleteCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	idStrings := make([]string, len(postIDs))
	for i, id := range postIDs {
		idStrings[i] = id.String()
	}
	result, err := m.Comments.DeleteMany(ctx, bson.M{"postId": bson.M{"$in": idStrings}})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to delete comments for posts", err)
	}
	return result.DeletedCount, nil
}
