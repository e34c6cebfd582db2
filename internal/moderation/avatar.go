package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
)

// FileDeleter removes a stored file given its public URL.
type FileDeleter interface {
	DeleteByURL(ctx context.Context, fileURL string) error
}

// AvatarClearer resets a user's avatar field.
type AvatarClearer interface {
	ClearAvatar(ctx context.Context, userID string) error
}

// NotificationCreator stores an in-app notification.
type NotificationCreator interface {
	Create(ctx context.Context, n models.Notification) error
}

// AvatarDecision is the result of reviewing one avatar image.
type AvatarDecision struct {
	Approved bool
	Reasons  []string
	Deleted  bool
	Cleanup  *CleanupReport
}

// AvatarModerator reviews profile images synchronously and removes rejected ones.
type AvatarModerator struct {
	Fetcher       ImageFetcher
	Classifier    Classifier
	Files         FileDeleter
	Profiles      AvatarClearer
	Notifications NotificationCreator
	Metrics       *metrics.Metrics
	MinConfidence float64
	NowFunc       func() time.Time
}

// Moderate downloads and classifies the avatar. On rejection it deletes the file,
// clears the profile field and notifies the user, attempting every step.
// Download and classifier failures are returned as errors.
func (m *AvatarModerator) Moderate(ctx context.Context, userID, avatarURL string) (decision AvatarDecision, err error) {
	userID, avatarURL = strings.TrimSpace(userID), strings.TrimSpace(avatarURL)
	if userID == "" || avatarURL == "" {
		return AvatarDecision{}, fmt.Errorf("%w: userId and avatarUrl are required", ErrInvalidRequest)
	}
	if m.Fetcher == nil || m.Classifier == nil {
		return AvatarDecision{}, errors.New("avatar moderation dependencies unavailable")
	}

	ctx, span := logging.StartSpan(ctx, "moderate_avatar")
	defer func() { span.End(err) }()
	logger := logging.FromContext(ctx).With(slog.String("userId", userID))

	image, err := m.Fetcher.Fetch(ctx, avatarURL)
	if err != nil {
		return AvatarDecision{}, err
	}

	labels, err := m.Classifier.DetectModerationLabels(ctx, image, m.threshold())
	if err != nil {
		return AvatarDecision{}, err
	}

	reasons := Evaluate(labels, m.threshold())
	if len(reasons) == 0 {
		logger.Info("avatar approved", slog.Int("labels", len(labels)))
		m.Metrics.AvatarDecision("approved")
		return AvatarDecision{Approved: true}, nil
	}

	logger.Warn("avatar rejected", slog.Any("reasons", reasons))
	m.Metrics.AvatarDecision("rejected")

	report := runCleanup(ctx, m.rejectionSteps(userID, avatarURL, reasons), m.Metrics.CleanupStep)
	return AvatarDecision{
		Approved: false,
		Reasons:  reasons,
		Deleted:  report.Succeeded(StepDeleteFile),
		Cleanup:  &report,
	}, nil
}

func (m *AvatarModerator) rejectionSteps(userID, avatarURL string, reasons []string) []cleanupStep {
	return []cleanupStep{
		{name: StepDeleteFile, run: func(ctx context.Context) error {
			if m.Files == nil {
				return errors.New("file storage unavailable")
			}
			return m.Files.DeleteByURL(ctx, avatarURL)
		}},
		{name: StepClearAvatar, run: func(ctx context.Context) error {
			if m.Profiles == nil {
				return errors.New("profile store unavailable")
			}
			return m.Profiles.ClearAvatar(ctx, userID)
		}},
		{name: StepNotifyUser, run: func(ctx context.Context) error {
			if m.Notifications == nil {
				return errors.New("notification store unavailable")
			}
			return m.Notifications.Create(ctx, models.Notification{
				ID:        uuid.NewString(),
				UserID:    userID,
				Type:      models.NotificationAvatarRejected,
				Title:     "Profile picture removed",
				Message:   "Your profile picture was removed because it was flagged for: " + strings.Join(reasons, ", ") + ".",
				CreatedAt: m.now(),
			})
		}},
	}
}

func (m *AvatarModerator) threshold() float64 {
	if m.MinConfidence > 0 {
		return m.MinConfidence
	}
	return DefaultMinConfidence
}

func (m *AvatarModerator) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return time.Now().UTC()
}
