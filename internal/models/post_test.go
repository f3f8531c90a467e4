package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestVoterOption(t *testing.T) {
	voterA := uuid.New()
	voterB := uuid.New()
	nonVoter := uuid.New()

	poll := &Poll{
		Options: []PollOption{
			{ID: "opt1", Text: "red", VotedBy: []uuid.UUID{voterA}},
			{ID: "opt2", Text: "blue", VotedBy: []uuid.UUID{voterB}},
		},
	}

	assert.Equal(t, "opt1", poll.VoterOption(voterA))
	assert.Equal(t, "opt2", poll.VoterOption(voterB))
	assert.Equal(t, "", poll.VoterOption(nonVoter))
}

func TestPollOptionLookup(t *testing.T) {
	poll := &Poll{Options: []PollOption{{ID: "opt1"}, {ID: "opt2"}}}

	assert.NotNil(t, poll.Option("opt2"))
	assert.Nil(t, poll.Option("missing"))

	// Mutating through the returned pointer reaches the poll itself.
	poll.Option("opt1").Votes++
	assert.Equal(t, 1, poll.Options[0].Votes)
}

func TestHasLiked(t *testing.T) {
	liker := uuid.New()
	post := &Post{LikedBy: []uuid.UUID{liker}}

	assert.True(t, post.HasLiked(liker))
	assert.False(t, post.HasLiked(uuid.New()))
}
