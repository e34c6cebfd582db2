package videos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
)

// MaxDuration is the longest recording accepted.
const MaxDuration = 30 * time.Second

const maxTags = 20

// ObjectStorage stores raw video bytes and returns their public URL.
type ObjectStorage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// VideoCreator persists video metadata.
type VideoCreator interface {
	Create(ctx context.Context, post models.VideoPost) error
}

// ModerationQueue schedules moderation of a stored video.
type ModerationQueue interface {
	Enqueue(ctx context.Context, req moderation.VideoModerationRequest) error
}

// UploadRequest describes one recorded video handed over by the client.
type UploadRequest struct {
	UserID          string
	File            io.Reader
	ContentType     string
	Caption         string
	Tags            []string
	Location        *models.Location
	DurationSeconds *float64
	ThumbnailURL    string
}

// UploadResult reports the outcome of an upload. Err holds the first failure.
type UploadResult struct {
	Success  bool
	VideoID  string
	VideoURL string
	Err      error
}

// Uploader stores a recorded video, records it as pending and schedules moderation.
type Uploader struct {
	Storage    ObjectStorage
	Videos     VideoCreator
	Moderation ModerationQueue
	Metrics    *metrics.Metrics
	NowFunc    func() time.Time
	NewID      func() string
}

// Upload runs the upload routine. Storage and insert failures fail the upload and
// skip moderation. Moderation scheduling failures are only logged: the video stays
// stored and pending. Nothing is retried.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest) (result UploadResult) {
	ctx, span := logging.StartSpan(ctx, "upload_video")
	defer func() {
		span.End(result.Err)
		if result.Success {
			u.Metrics.UploadResult("success")
		} else {
			u.Metrics.UploadResult("failed")
		}
	}()

	if err := normalize(&req); err != nil {
		return UploadResult{Err: err}
	}
	if u.Storage == nil || u.Videos == nil {
		return UploadResult{Err: ErrStorageUnavailable}
	}

	logger := logging.FromContext(ctx).With(slog.String("userId", req.UserID))
	now := u.now()
	key := fmt.Sprintf("videos/%s/%d.mp4", req.UserID, now.UnixMilli())

	videoURL, err := u.Storage.Save(ctx, key, req.ContentType, req.File)
	if err != nil {
		return UploadResult{Err: fmt.Errorf("upload video: %w", err)}
	}

	post := models.VideoPost{
		ID:               u.newID(),
		UserID:           req.UserID,
		VideoURL:         videoURL,
		ThumbnailURL:     req.ThumbnailURL,
		Caption:          req.Caption,
		Tags:             req.Tags,
		Location:         req.Location,
		CreatedAt:        now,
		DurationSeconds:  req.DurationSeconds,
		ModerationStatus: models.ModerationPending,
	}

	if err := u.Videos.Create(ctx, post); err != nil {
		logger.Error("video stored but metadata insert failed", slog.String("key", key), slog.String("error", err.Error()))
		return UploadResult{Err: fmt.Errorf("save video metadata: %w", err)}
	}

	u.scheduleModeration(ctx, post)

	logger.Info("video uploaded", slog.String("videoId", post.ID), slog.String("key", key))
	return UploadResult{Success: true, VideoID: post.ID, VideoURL: videoURL}
}

func (u *Uploader) scheduleModeration(ctx context.Context, post models.VideoPost) {
	logger := logging.FromContext(ctx).With(slog.String("videoId", post.ID))
	if u.Moderation == nil {
		logger.Warn("moderation queue unavailable; video left pending")
		return
	}

	err := u.Moderation.Enqueue(ctx, moderation.VideoModerationRequest{
		VideoID:      post.ID,
		VideoURL:     post.VideoURL,
		ThumbnailURL: post.ThumbnailURL,
		UserID:       post.UserID,
	})
	if err != nil {
		logger.Error("failed to schedule moderation; video left pending", slog.String("error", err.Error()))
	}
}

func normalize(req *UploadRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || strings.ContainsAny(req.UserID, "/\\") {
		return fmt.Errorf("%w: a valid user id is required", ErrInvalidUpload)
	}
	if req.File == nil {
		return fmt.Errorf("%w: video file is required", ErrInvalidUpload)
	}
	if d := req.DurationSeconds; d != nil && (*d < 0 || *d > MaxDuration.Seconds()) {
		return fmt.Errorf("%w: duration must be between 0 and %v", ErrInvalidUpload, MaxDuration)
	}
	if req.Location != nil {
		if err := req.Location.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUpload, err)
		}
		if req.Location.Privacy == "" {
			req.Location.Privacy = models.PrivacyExact
		}
	}

	req.Caption = strings.TrimSpace(req.Caption)
	req.Tags = normalizeTags(req.Tags)
	if len(req.Tags) > maxTags {
		return fmt.Errorf("%w: at most %d tags", ErrInvalidUpload, maxTags)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (u *Uploader) now() time.Time {
	if u.NowFunc != nil {
		return u.NowFunc()
	}
	return time.Now().UTC()
}

func (u *Uploader) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

// IsClientError reports whether err was caused by the request rather than a dependency.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidUpload)
}
