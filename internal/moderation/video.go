package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
)

// DefaultVideoTask is the job runner task that classifies uploaded videos.
const DefaultVideoTask = "moderate-video"

// TaskRunner triggers tasks on the external job runner.
type TaskRunner interface {
	Configured() bool
	Trigger(ctx context.Context, taskID string, payload any) (string, error)
}

// VideoModerationRequest is the payload forwarded to the job runner.
type VideoModerationRequest struct {
	VideoID      string `json:"videoId"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	UserID       string `json:"userId,omitempty"`
}

// VideoTrigger hands uploaded videos to the job runner for classification. It
// returns as soon as the runner accepts the task.
type VideoTrigger struct {
	Runner  TaskRunner
	TaskID  string
	Metrics *metrics.Metrics
}

// Trigger validates req and forwards it, returning the runner's task id.
func (t *VideoTrigger) Trigger(ctx context.Context, req VideoModerationRequest) (string, error) {
	req.VideoID = strings.TrimSpace(req.VideoID)
	req.VideoURL = strings.TrimSpace(req.VideoURL)
	if req.VideoID == "" || req.VideoURL == "" {
		return "", fmt.Errorf("%w: videoId and videoUrl are required", ErrInvalidRequest)
	}
	if t == nil || t.Runner == nil || !t.Runner.Configured() {
		t.observe("unconfigured")
		return "", ErrRunnerNotConfigured
	}

	logger := logging.FromContext(ctx).With(slog.String("videoId", req.VideoID))

	taskID, err := t.Runner.Trigger(ctx, t.task(), req)
	if err != nil {
		t.observe("failed")
		logger.Error("moderation task trigger failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("trigger moderation task: %w", err)
	}

	t.observe("triggered")
	logger.Info("moderation task triggered", slog.String("taskId", taskID))
	return taskID, nil
}

func (t *VideoTrigger) task() string {
	if t.TaskID != "" {
		return t.TaskID
	}
	return DefaultVideoTask
}

func (t *VideoTrigger) observe(result string) {
	if t != nil {
		t.Metrics.ModerationTrigger(result)
	}
}
