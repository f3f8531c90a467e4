// internal/database/post_repository.go
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

// PostDocument represents the MongoDB schema for a post. likeCount and
// commentCount are cached sizes of likedBy/commentIds and are only ever
// written in the same update that mutates the set they mirror.
type PostDocument struct {
	ID             string        `bson:"_id"`
	Title          string        `bson:"title"`
	Content        string        `bson:"content"`
	AuthorID       string        `bson:"authorId"`
	AuthorUsername string        `bson:"authorUsername"`
	CommunityID    *string       `bson:"communityId,omitempty"`
	Status         string        `bson:"status"`
	Category       string        `bson:"category,omitempty"`
	Tags           []string      `bson:"tags,omitempty"`
	LikedBy        []string      `bson:"likedBy"`
	LikeCount      int           `bson:"likeCount"`
	CommentIDs     []string      `bson:"commentIds"`
	CommentCount   int           `bson:"commentCount"`
	Poll           *PollDocument `bson:"poll,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt"`
	ScheduledAt    *time.Time    `bson:"scheduledAt,omitempty"`
	PublishedAt    *time.Time    `bson:"publishedAt,omitempty"`
}

type PollDocument struct {
	Options    []PollOptionDocument `bson:"options"`
	TotalVotes int                  `bson:"totalVotes"`
}

type PollOptionDocument struct {
	ID      string   `bson:"id"`
	Text    string   `bson:"text"`
	Votes   int      `bson:"votes"`
	VotedBy []string `bson:"votedBy"`
}

func postToDocument(post *models.Post) *PostDocument {
	doc := &PostDocument{
		ID:             post.ID.String(),
		Title:          post.Title,
		Content:        post.Content,
		AuthorID:       post.AuthorID.String(),
		AuthorUsername: post.AuthorUsername,
		Status:         string(post.Status),
		Category:       post.Category,
		Tags:           post.Tags,
		LikedBy:        make([]string, len(post.LikedBy)),
		LikeCount:      post.LikeCount,
		CommentIDs:     make([]string, len(post.CommentIDs)),
		CommentCount:   post.CommentCount,
		CreatedAt:      post.CreatedAt,
		ScheduledAt:    post.ScheduledAt,
		PublishedAt:    post.PublishedAt,
	}
	if post.CommunityID != nil {
		s := post.CommunityID.String()
		doc.CommunityID = &s
	}
	for i, id := range post.LikedBy {
		doc.LikedBy[i] = id.String()
	}
	for i, id := range post.CommentIDs {
		doc.CommentIDs[i] = id.String()
	}
	if post.Poll != nil {
		poll := &PollDocument{
			Options:    make([]PollOptionDocument, len(post.Poll.Options)),
			TotalVotes: post.Poll.TotalVotes,
		}
		for i, opt := range post.Poll.Options {
			votedBy := make([]string, len(opt.VotedBy))
			for j, id := range opt.VotedBy {
				votedBy[j] = id.String()
			}
			poll.Options[i] = PollOptionDocument{
				ID:      opt.ID,
				Text:    opt.Text,
				Votes:   opt.Votes,
				VotedBy: votedBy,
			}
		}
		doc.Poll = poll
	}
	return doc
}

func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID in database: %v", err)
	}

	likedBy, err := parseIDList(doc.LikedBy, "likedBy entry")
	if err != nil {
		return nil, err
	}
	commentIDs, err := parseIDList(doc.CommentIDs, "comment ID")
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:             id,
		Title:          doc.Title,
		Content:        doc.Content,
		AuthorID:       authorID,
		AuthorUsername: doc.AuthorUsername,
		Status:         models.PostStatus(doc.Status),
		Category:       doc.Category,
		Tags:           doc.Tags,
		LikedBy:        likedBy,
		LikeCount:      doc.LikeCount,
		CommentIDs:     commentIDs,
		CommentCount:   doc.CommentCount,
		CreatedAt:      doc.CreatedAt,
		ScheduledAt:    doc.ScheduledAt,
		PublishedAt:    doc.PublishedAt,
	}

	if doc.CommunityID != nil {
		communityID, err := uuid.Parse(*doc.CommunityID)
		if err != nil {
			return nil, fmt.Errorf("invalid community ID in database: %v", err)
		}
		post.CommunityID = &communityID
	}

	if doc.Poll != nil {
		poll := &models.Poll{
			Options:    make([]models.PollOption, len(doc.Poll.Options)),
			TotalVotes: doc.Poll.TotalVotes,
		}
		for i, opt := range doc.Poll.Options {
			votedBy, err := parseIDList(opt.VotedBy, "votedBy entry")
			if err != nil {
				return nil, err
			}
			poll.Options[i] = models.PollOption{
				ID:      opt.ID,
				Text:    opt.Text,
				Votes:   opt.Votes,
				VotedBy: votedBy,
			}
		}
		post.Poll = poll
	}

	return post, nil
}

// CreatePost inserts a new post document.
func (m *MongoDB) CreatePost(ctx context.Context, post *models.Post) error {
	_, err := m.Posts.InsertOne(ctx, postToDocument(post))
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to create post", err)
	}
	return nil
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument
	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("post")
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get post", err)
	}
	return postDocumentToModel(&doc)
}

// GetCommunityPosts retrieves all posts for a community, newest first.
func (m *MongoDB) GetCommunityPosts(ctx context.Context, communityID uuid.UUID) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Posts.Find(ctx, bson.M{"communityId": communityID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get community posts", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %v", err)
		}
		post, err := postDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, cursor.Err()
}

// GetCommunityPostIDs returns just the ids of a community's posts. The
// deletion cascade uses this to clear dependent comments first.
func (m *MongoDB) GetCommunityPostIDs(ctx context.Context, communityID uuid.UUID) ([]uuid.UUID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := m.Posts.Find(ctx, bson.M{"communityId": communityID.String()}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to get community post ids", err)
	}
	defer cursor.Close(ctx)

	var ids []uuid.UUID
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post id: %v", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid post ID in database: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, cursor.Err()
}

// LikePost adds userID to likedBy and bumps likeCount in one atomic
// update. The filter excludes posts already containing the user, so two
// concurrent likes cannot push the counter past the set size. False means
// the user had already liked the post.
func (m *MongoDB) LikePost(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result, err := m.Posts.UpdateOne(
		ctx,
		bson.M{"_id": postID.String(), "likedBy": bson.M{"$ne": userID.String()}},
		bson.M{
			"$addToSet": bson.M{"likedBy": userID.String()},
			"$inc":      bson.M{"likeCount": 1},
		},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to like post", err)
	}
	return result.ModifiedCount > 0, nil
}

// UnlikePost is the mirror of LikePost: pull plus decrement, guarded on
// the user actually being in the set.
func (m *MongoDB) UnlikePost(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result, err := m.Posts.UpdateOne(
		ctx,
		bson.M{"_id": postID.String(), "likedBy": userID.String()},
		bson.M{
			"$pull": bson.M{"likedBy": userID.String()},
			"$inc":  bson.M{"likeCount": -1},
		},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to unlike post", err)
	}
	return result.ModifiedCount > 0, nil
}

// VotePoll records a vote: the option's votedBy gains the user, its votes
// counter and the poll total are bumped, all in one update keyed by post
// and option. The filter rejects the write if any option already contains
// the user, so a racing duplicate vote loses. False means no vote was
// recorded (already voted, or the option vanished).
func (m *MongoDB) VotePoll(ctx context.Context, postID uuid.UUID, optionID string, userID uuid.UUID) (bool, error) {
	filter := bson.M{
		"_id":                  postID.String(),
		"poll.options.id":      optionID,
		"poll.options.votedBy": bson.M{"$ne": userID.String()},
	}
	update := bson.M{
		"$addToSet": bson.M{"poll.options.$[opt].votedBy": userID.String()},
		"$inc": bson.M{
			"poll.options.$[opt].votes": 1,
			"poll.totalVotes":           1,
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"opt.id": optionID}},
	})

	result, err := m.Posts.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to record poll vote", err)
	}
	return result.ModifiedCount > 0, nil
}

// AppendComment links a freshly inserted comment to its parent: one update
// appends the id and bumps commentCount together.
func (m *MongoDB) AppendComment(ctx context.Context, postID, commentID uuid.UUID) error {
	result, err := m.Posts.UpdateOne(
		ctx,
		bson.M{"_id": postID.String()},
		bson.M{
			"$push": bson.M{"commentIds": commentID.String()},
			"$inc":  bson.M{"commentCount": 1},
		},
	)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to append comment to post", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("post")
	}
	return nil
}

// PublishPost moves a draft or scheduled post to published, recording the
// moderation outcome. False means the post was already published.
func (m *MongoDB) PublishPost(ctx context.Context, postID uuid.UUID, category string, tags []string, at time.Time) (bool, error) {
	set := bson.M{
		"status":      string(models.StatusPublished),
		"publishedAt": at,
	}
	if category != "" {
		set["category"] = category
	}
	if len(tags) > 0 {
		set["tags"] = tags
	}

	result, err := m.Posts.UpdateOne(
		ctx,
		bson.M{"_id": postID.String(), "status": bson.M{"$ne": string(models.StatusPublished)}},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, utils.NewAppError(utils.ErrDatabase, "failed to publish post", err)
	}
	return result.ModifiedCount > 0, nil
}

// DeletePost removes the post document itself.
func (m *MongoDB) DeletePost(ctx context.Context, postID uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": postID.String()})
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete post", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("post")
	}
	return nil
}

// DeleteCommunityPosts removes every post belonging to a community.
func (m *MongoDB) DeleteCommunityPosts(ctx context.Context, communityID uuid.UUID) (int64, error) {
	result, err := m.Posts.DeleteMany(ctx, bson.M{"communityId": communityID.String()})
	if err != nil {
		return 0, utils.NewAppError(utils.ErrDatabase, "failed to delete community posts", err)
	}
	return result.DeletedCount, nil
}
