package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
)

type Post struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	AuthorID       uuid.UUID  `json:"authorId"`
	AuthorUsername string     `json:"authorUsername"`
	CommunityID    *uuid.UUID `json:"communityId,omitempty"`
	Status         PostStatus `json:"status"`
	Category       string     `json:"category,omitempty"`
	Tags           []string   `json:"tags,omitempty"`

	// likedBy is the authoritative like set; LikeCount is the cached size
	// and is only ever adjusted in the same store operation that mutates
	// the set.
	LikedBy   []uuid.UUID `json:"likedBy"`
	LikeCount int         `json:"likeCount"`

	// CommentIDs is a denormalized convenience list; readers should query
	// comments by postId rather than trust it (see comment linkage).
	CommentIDs   []uuid.UUID `json:"commentIds"`
	CommentCount int         `json:"commentCount"`

	Poll *Poll `json:"poll,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Poll is embedded in its post so a vote can adjust the option set, the
// option counter and the total in one single-document update.
type Poll struct {
	Options    []PollOption `json:"options"`
	TotalVotes int          `json:"totalVotes"`
}

// PollOption ids are shortuuids generated at post creation.
type PollOption struct {
	ID      string      `json:"id"`
	Text    string      `json:"text"`
	Votes   int         `json:"votes"`
	VotedBy []uuid.UUID `json:"votedBy"`
}

// HasLiked reports whether userID is in the post's like set.
func (p *Post) HasLiked(userID uuid.UUID) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Option returns the poll option with the given id, or nil.
func (pl *Poll) Option(optionID string) *PollOption {
	for i := range pl.Options {
		if pl.Options[i].ID == optionID {
			return &pl.Options[i]
		}
	}
	return nil
}

// VoterOption returns the id of the option userID has voted for, or "" if
// the user has not voted. A user appears in at most one option's votedBy.
func (pl *Poll) VoterOption(userID uuid.UUID) string {
	for i := range pl.Options {
		for _, id := range pl.Options[i].VotedBy {
			if id == userID {
				return pl.Options[i].ID
			}
		}
	}
	return ""
}
