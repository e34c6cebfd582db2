package feed

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// VideoSearcher runs the server-side video search procedure.
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]models.VideoPost, error)
}

// UserSearcher runs the server-side user search procedure.
type UserSearcher interface {
	Search(ctx context.Context, query string) ([]models.UserProfile, error)
}

// SearchService answers free-text searches. Results are cached for a short TTL and
// every caller receives its own copy of the cached slice.
type SearchService struct {
	videos  VideoSearcher
	users   UserSearcher
	metrics *metrics.Metrics

	videoCache *ttlCache[[]models.VideoPost]
	userCache  *ttlCache[[]models.UserProfile]
}

// NewSearchService wires the searchers. A non-positive ttl disables caching.
func NewSearchService(videos VideoSearcher, users UserSearcher, m *metrics.Metrics, ttl time.Duration) *SearchService {
	return &SearchService{
		videos:     videos,
		users:      users,
		metrics:    m,
		videoCache: newTTLCache[[]models.VideoPost](ttl),
		userCache:  newTTLCache[[]models.UserProfile](ttl),
	}
}

// SearchVideos returns approved videos matching query. Blank queries and failures
// yield an empty result.
func (s *SearchService) SearchVideos(ctx context.Context, query string) []models.VideoPost {
	key := normalizeQuery(query)
	if key == "" || s == nil || s.videos == nil {
		return []models.VideoPost{}
	}
	if cached, ok := s.videoCache.get(key); ok {
		return slices.Clone(cached)
	}

	posts, err := s.videos.Search(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Error("video search failed", slog.String("query", key), slog.String("error", err.Error()))
		s.metrics.QueryError("search_videos")
		return []models.VideoPost{}
	}

	posts = displayPosts(posts)
	s.videoCache.put(key, slices.Clone(posts))
	return posts
}

// SearchUsers returns profiles matching query. Blank queries and failures yield an
// empty result.
func (s *SearchService) SearchUsers(ctx context.Context, query string) []models.UserProfile {
	key := normalizeQuery(query)
	if key == "" || s == nil || s.users == nil {
		return []models.UserProfile{}
	}
	if cached, ok := s.userCache.get(key); ok {
		return slices.Clone(cached)
	}

	users, err := s.users.Search(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Error("user search failed", slog.String("query", key), slog.String("error", err.Error()))
		s.metrics.QueryError("search_users")
		return []models.UserProfile{}
	}
	if users == nil {
		users = []models.UserProfile{}
	}

	s.userCache.put(key, slices.Clone(users))
	return users
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
