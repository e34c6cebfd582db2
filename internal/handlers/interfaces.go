package handlers

import (
	"context"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/videos"
)

// VideoUploader runs the upload routine for a recorded video.
type VideoUploader interface {
	Upload(ctx context.Context, req videos.UploadRequest) videos.UploadResult
}

// MapFeed answers map viewport queries.
type MapFeed interface {
	VideosInBounds(ctx context.Context, box models.BoundingBox, viewerID string) []models.VideoPost
}

// Searcher answers free-text video and user searches.
type Searcher interface {
	SearchVideos(ctx context.Context, query string) []models.VideoPost
	SearchUsers(ctx context.Context, query string) []models.UserProfile
}

// Engagement captures likes, comments and profile lookups.
type Engagement interface {
	ToggleLike(ctx context.Context, videoID, userID string) (bool, int, error)
	AddComment(ctx context.Context, videoID, userID, text string) (models.Comment, error)
	ListComments(ctx context.Context, videoID string) ([]models.Comment, error)
	FindProfile(ctx context.Context, userID string) (models.UserProfile, error)
}

// VideoModerationTrigger forwards a video to the moderation job runner.
type VideoModerationTrigger interface {
	Trigger(ctx context.Context, req moderation.VideoModerationRequest) (string, error)
}

// AvatarReviewer classifies an avatar and cleans up after rejections.
type AvatarReviewer interface {
	Moderate(ctx context.Context, userID, avatarURL string) (moderation.AvatarDecision, error)
}

// ModerationRecorder stores the outcome reported by the job runner.
type ModerationRecorder interface {
	UpdateModeration(ctx context.Context, videoID string, status models.ModerationStatus, result *models.ModerationResult) error
}

// SecretVerifier checks the shared secret presented by the job runner.
type SecretVerifier interface {
	VerifySecret(token string) bool
}
