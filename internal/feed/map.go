package feed

import (
	"context"
	"log/slog"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// BoundsLister loads approved videos located inside a bounding box.
type BoundsLister interface {
	ListInBounds(ctx context.Context, box models.BoundingBox, viewerID string) ([]models.VideoPost, error)
}

// MapService answers map viewport queries.
type MapService struct {
	Videos  BoundsLister
	Metrics *metrics.Metrics
}

// VideosInBounds returns the approved videos inside box, inclusive on both axes.
// Lookup failures are logged and reported as an empty result.
func (s *MapService) VideosInBounds(ctx context.Context, box models.BoundingBox, viewerID string) []models.VideoPost {
	if s == nil || s.Videos == nil {
		return []models.VideoPost{}
	}

	posts, err := s.Videos.ListInBounds(ctx, box, viewerID)
	if err != nil {
		logging.FromContext(ctx).Error("map query failed", slog.String("error", err.Error()))
		s.Metrics.QueryError("map")
		return []models.VideoPost{}
	}

	return displayPosts(posts)
}

// displayPosts drops anything not approved and coarsens locations to their privacy tier.
func displayPosts(posts []models.VideoPost) []models.VideoPost {
	out := make([]models.VideoPost, 0, len(posts))
	for _, post := range posts {
		if post.ModerationStatus != models.ModerationApproved {
			continue
		}
		if post.Location != nil {
			loc := post.Location.Display()
			post.Location = &loc
		}
		post.ModerationResult = nil
		out = append(out, post)
	}
	return out
}
