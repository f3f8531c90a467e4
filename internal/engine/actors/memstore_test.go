package actors

import (
	"context"
	"sort"
	"sync"
	"time"

	"bayou-commons/internal/database"
	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/google/uuid"
)

// memStore is an in-memory database.Store used by the actor tests. Guarded
// updates reproduce the filter semantics of the real store: (false, nil)
// when the precondition does not hold.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	communities   map[uuid.UUID]*models.Community
	posts         map[uuid.UUID]*models.Post
	comments      map[uuid.UUID]*models.Comment
	notifications map[uuid.UUID]*models.Notification
	events        map[string]*models.Event
}

var _ database.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]*models.User),
		communities:   make(map[uuid.UUID]*models.Community),
		posts:         make(map[uuid.UUID]*models.Post),
		comments:      make(map[uuid.UUID]*models.Comment),
		notifications: make(map[uuid.UUID]*models.Notification),
		events:        make(map[string]*models.Event),
	}
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Users

func (s *memStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return utils.NewAppError(utils.ErrDuplicate, "user already exists", nil)
	}
	s.users[user.ID] = user
	return nil
}

func (s *memStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("user")
	}
	return user, nil
}

func (s *memStore) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *memStore) UpdateUserCommunities(ctx context.Context, userID, communityID uuid.UUID, joining bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	if joining {
		if !contains(user.Communities, communityID) {
			user.Communities = append(user.Communities, communityID)
		}
	} else {
		user.Communities = without(user.Communities, communityID)
	}
	return nil
}

func (s *memStore) AddBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return false, utils.NewNotFoundError("user")
	}
	if contains(user.BookmarkedPosts, postID) {
		return false, nil
	}
	user.BookmarkedPosts = append(user.BookmarkedPosts, postID)
	return true, nil
}

func (s *memStore) RemoveBookmark(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return false, utils.NewNotFoundError("user")
	}
	if !contains(user.BookmarkedPosts, postID) {
		return false, nil
	}
	user.BookmarkedPosts = without(user.BookmarkedPosts, postID)
	return true, nil
}

func (s *memStore) AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	user.Reputation += delta
	return nil
}

func (s *memStore) PullCommunityFromUsers(ctx context.Context, communityID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, user := range s.users {
		if contains(user.Communities, communityID) {
			user.Communities = without(user.Communities, communityID)
			n++
		}
	}
	return n, nil
}

func (s *memStore) PullBookmarkFromUsers(ctx context.Context, postID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, user := range s.users {
		if contains(user.BookmarkedPosts, postID) {
			user.BookmarkedPosts = without(user.BookmarkedPosts, postID)
			n++
		}
	}
	return n, nil
}

// Communities

func (s *memStore) CreateCommunity(ctx context.Context, community *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.communities {
		if c.Name == community.Name {
			return utils.NewAppError(utils.ErrDuplicate, "community name already taken", nil)
		}
	}
	s.communities[community.ID] = community
	return nil
}

func (s *memStore) GetCommunity(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[id]
	if !ok {
		return nil, utils.NewNotFoundError("community")
	}
	return community, nil
}

func (s *memStore) ListCommunities(ctx context.Context) ([]*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	communities := make([]*models.Community, 0, len(s.communities))
	for _, c := range s.communities {
		communities = append(communities, c)
	}
	sort.Slice(communities, func(i, j int) bool {
		return communities[i].CreatedAt.Before(communities[j].CreatedAt)
	})
	return communities, nil
}

func (s *memStore) AddMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return false, utils.NewNotFoundError("community")
	}
	if contains(community.MemberIDs, userID) {
		return false, nil
	}
	community.MemberIDs = append(community.MemberIDs, userID)
	return true, nil
}

func (s *memStore) AddPendingMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return false, utils.NewNotFoundError("community")
	}
	if contains(community.MemberIDs, userID) || contains(community.PendingMemberIDs, userID) {
		return false, nil
	}
	community.PendingMemberIDs = append(community.PendingMemberIDs, userID)
	return true, nil
}

func (s *memStore) ApproveMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return false, utils.NewNotFoundError("community")
	}
	if !contains(community.PendingMemberIDs, userID) {
		return false, nil
	}
	community.PendingMemberIDs = without(community.PendingMemberIDs, userID)
	if !contains(community.MemberIDs, userID) {
		community.MemberIDs = append(community.MemberIDs, userID)
	}
	return true, nil
}

func (s *memStore) RemovePendingMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return false, utils.NewNotFoundError("community")
	}
	if !contains(community.PendingMemberIDs, userID) {
		return false, nil
	}
	community.PendingMemberIDs = without(community.PendingMemberIDs, userID)
	return true, nil
}

func (s *memStore) RemoveMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return false, utils.NewNotFoundError("community")
	}
	changed := contains(community.MemberIDs, userID) ||
		contains(community.AdminIDs, userID) ||
		contains(community.PendingMemberIDs, userID)
	community.MemberIDs = without(community.MemberIDs, userID)
	community.AdminIDs = without(community.AdminIDs, userID)
	community.PendingMemberIDs = without(community.PendingMemberIDs, userID)
	return changed, nil
}

func (s *memStore) TransferOwnership(ctx context.Context, communityID, newOwnerID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	community, ok := s.communities[communityID]
	if !ok {
		return false, utils.NewNotFoundError("community")
	}
	if !contains(community.MemberIDs, newOwnerID) {
		return false, nil
	}
	community.CreatorID = newOwnerID
	if !contains(community.AdminIDs, newOwnerID) {
		community.AdminIDs = append(community.AdminIDs, newOwnerID)
	}
	return true, nil
}

func (s *memStore) DeleteCommunity(ctx context.Context, communityID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.communities, communityID)
	return nil
}

// Posts

func (s *memStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	return nil
}

func (s *memStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, utils.NewNotFoundError("post")
	}
	return post, nil
}

func (s *memStore) GetCommunityPosts(ctx context.Context, communityID uuid.UUID) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []*models.Post
	for _, p := range s.posts {
		if p.CommunityID != nil && *p.CommunityID == communityID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *memStore) GetCommunityPostIDs(ctx context.Context, communityID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for _, p := range s.posts {
		if p.CommunityID != nil && *p.CommunityID == communityID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (s *memStore) LikePost(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return false, utils.NewNotFoundError("post")
	}
	if contains(post.LikedBy, userID) {
		return false, nil
	}
	post.LikedBy = append(post.LikedBy, userID)
	post.LikeCount++
	return true, nil
}

func (s *memStore) UnlikePost(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return false, utils.NewNotFoundError("post")
	}
	if !contains(post.LikedBy, userID) {
		return false, nil
	}
	post.LikedBy = without(post.LikedBy, userID)
	post.LikeCount--
	return true, nil
}

func (s *memStore) VotePoll(ctx context.Context, postID uuid.UUID, optionID string, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok || post.Poll == nil {
		return false, utils.NewNotFoundError("post")
	}
	if post.Poll.VoterOption(userID) != "" {
		return false, nil
	}
	option := post.Poll.Option(optionID)
	if option == nil {
		return false, nil
	}
	option.VotedBy = append(option.VotedBy, userID)
	option.Votes++
	post.Poll.TotalVotes++
	return true, nil
}

func (s *memStore) AppendComment(ctx context.Context, postID, commentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return utils.NewNotFoundError("post")
	}
	post.CommentIDs = append(post.CommentIDs, commentID)
	post.CommentCount++
	return nil
}

func (s *memStore) PublishPost(ctx context.Context, postID uuid.UUID, category string, tags []string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[postID]
	if !ok {
		return false, utils.NewNotFoundError("post")
	}
	if post.Status == models.StatusPublished {
		return false, nil
	}
	post.Status = models.StatusPublished
	post.Category = category
	post.Tags = tags
	post.PublishedAt = &at
	return true, nil
}

func (s *memStore) DeletePost(ctx context.Context, postID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, postID)
	return nil
}

func (s *memStore) DeleteCommunityPosts(ctx context.Context, communityID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.posts {
		if p.CommunityID != nil && *p.CommunityID == communityID {
			delete(s.posts, id)
			n++
		}
	}
	return n, nil
}

// Comments

func (s *memStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.ID] = comment
	return nil
}

func (s *memStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, utils.NewNotFoundError("comment")
	}
	return comment, nil
}

func (s *memStore) GetPostComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *memStore) DeletePostComments(ctx context.Context, postID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

func (s *memStore) DeleteCommentsForPosts(ctx context.Context, postIDs []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.comments {
		if contains(postIDs, c.PostID) {
			delete(s.comments, id)
			n++
		}
	}
	return n, nil
}

// Notifications

func (s *memStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
	return nil
}

func (s *memStore) GetUserNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memStore) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notificationID]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (s *memStore) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (s *memStore) DeleteNotification(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notificationID]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(s.notifications, notificationID)
	return true, nil
}

func (s *memStore) DeleteUserNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, n := range s.notifications {
		if n.UserID == userID {
			delete(s.notifications, id)
			count++
		}
	}
	return count, nil
}

// Events

func (s *memStore) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
	return nil
}

func (s *memStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, utils.NewNotFoundError("event")
	}
	return event, nil
}

func (s *memStore) GetCommunityEvents(ctx context.Context, communityID uuid.UUID) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []*models.Event
	for _, e := range s.events {
		if e.CommunityID == communityID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

func (s *memStore) AddAttendee(ctx context.Context, eventID string, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return false, utils.NewNotFoundError("event")
	}
	if contains(event.AttendeeIDs, userID) {
		return false, nil
	}
	event.AttendeeIDs = append(event.AttendeeIDs, userID)
	return true, nil
}

func (s *memStore) RemoveAttendee(ctx context.Context, eventID string, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return false, utils.NewNotFoundError("event")
	}
	if !contains(event.AttendeeIDs, userID) {
		return false, nil
	}
	event.AttendeeIDs = without(event.AttendeeIDs, userID)
	return true, nil
}

func (s *memStore) DeleteCommunityEvents(ctx context.Context, communityID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.events {
		if e.CommunityID == communityID {
			delete(s.events, id)
			n++
		}
	}
	return n, nil
}
