package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

type videoSearchStub struct {
	calls   []string
	results []models.VideoPost
	err     error
}

func (s *videoSearchStub) Search(ctx context.Context, query string) ([]models.VideoPost, error) {
	s.calls = append(s.calls, query)
	return s.results, s.err
}

type userSearchStub struct {
	calls   []string
	results []models.UserProfile
	err     error
}

func (s *userSearchStub) Search(ctx context.Context, query string) ([]models.UserProfile, error) {
	s.calls = append(s.calls, query)
	return s.results, s.err
}

func TestSearchVideosBlankQuerySkipsDatabase(t *testing.T) {
	videos := &videoSearchStub{}
	svc := NewSearchService(videos, &userSearchStub{}, nil, time.Minute)

	got := svc.SearchVideos(context.Background(), "   ")

	assert.Empty(t, got)
	assert.Empty(t, videos.calls)
}

func TestSearchVideosErrorYieldsEmpty(t *testing.T) {
	svc := NewSearchService(&videoSearchStub{err: errors.New("function search_videos does not exist")}, nil, nil, time.Minute)

	got := svc.SearchVideos(context.Background(), "beach")

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchVideosCachesNormalizedQuery(t *testing.T) {
	videos := &videoSearchStub{results: []models.VideoPost{{ID: "v1", ModerationStatus: models.ModerationApproved}}}
	svc := NewSearchService(videos, nil, nil, time.Minute)

	first := svc.SearchVideos(context.Background(), "Sunset  Beach")
	second := svc.SearchVideos(context.Background(), "  sunset beach ")

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"sunset beach"}, videos.calls)
}

func TestSearchVideosCacheExpires(t *testing.T) {
	videos := &videoSearchStub{results: []models.VideoPost{{ID: "v1", ModerationStatus: models.ModerationApproved}}}
	svc := NewSearchService(videos, nil, nil, time.Minute)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.videoCache.now = func() time.Time { return now }

	svc.SearchVideos(context.Background(), "pier")
	now = now.Add(2 * time.Minute)
	svc.SearchVideos(context.Background(), "pier")

	assert.Len(t, videos.calls, 2)
}

func TestSearchVideosFiltersUnapproved(t *testing.T) {
	videos := &videoSearchStub{results: []models.VideoPost{
		{ID: "ok", ModerationStatus: models.ModerationApproved},
		{ID: "hidden", ModerationStatus: models.ModerationPending},
	}}
	svc := NewSearchService(videos, nil, nil, 0)

	got := svc.SearchVideos(context.Background(), "x")

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestSearchUsers(t *testing.T) {
	users := &userSearchStub{results: []models.UserProfile{{ID: "u1", Username: "surfer"}}}
	svc := NewSearchService(nil, users, nil, 0)

	got := svc.SearchUsers(context.Background(), "Surf")

	require.Len(t, got, 1)
	assert.Equal(t, "surfer", got[0].Username)
	assert.Equal(t, []string{"surf"}, users.calls)

	users.err = errors.New("boom")
	assert.Empty(t, svc.SearchUsers(context.Background(), "surf"))
	assert.Empty(t, svc.SearchUsers(context.Background(), ""))
}

func TestSearchResultsDoNotShareCachedSlice(t *testing.T) {
	users := &userSearchStub{results: []models.UserProfile{{ID: "u1", Username: "alice"}}}
	videos := &videoSearchStub{results: []models.VideoPost{{ID: "v1", Caption: "pier", ModerationStatus: models.ModerationApproved}}}
	svc := NewSearchService(videos, users, nil, time.Minute)

	first := svc.SearchUsers(context.Background(), "ali")
	first[0].Username = "changed"
	assert.Equal(t, "alice", svc.SearchUsers(context.Background(), "ali")[0].Username)

	posts := svc.SearchVideos(context.Background(), "pier")
	posts[0].Caption = "changed"
	assert.Equal(t, "pier", svc.SearchVideos(context.Background(), "pier")[0].Caption)

	assert.Len(t, users.calls, 1)
	assert.Len(t, videos.calls, 1)
}
