package repositories

import (
	"context"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// VideoRepository exposes data access for video posts.
type VideoRepository interface {
	Create(ctx context.Context, post models.VideoPost) error
	ListInBounds(ctx context.Context, box models.BoundingBox, viewerID string) ([]models.VideoPost, error)
	UpdateModeration(ctx context.Context, videoID string, status models.ModerationStatus, result *models.ModerationResult) error
	Search(ctx context.Context, query string) ([]models.VideoPost, error)
}

// ProfileRepository exposes data access for user profiles.
type ProfileRepository interface {
	FindByID(ctx context.Context, userID string) (models.UserProfile, error)
	ClearAvatar(ctx context.Context, userID string) error
	Search(ctx context.Context, query string) ([]models.UserProfile, error)
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) error
}

// EngagementRepository handles likes and comments on videos.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, videoID, userID string) (bool, int, error)
	AddComment(ctx context.Context, comment models.Comment) error
	ListComments(ctx context.Context, videoID string) ([]models.Comment, error)
}
