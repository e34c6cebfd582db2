package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/moderation"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/repositories"
)

// FunctionHandler serves the moderation functions invoked by the mobile client and
// by the job runner.
type FunctionHandler struct {
	VideoTrigger VideoModerationTrigger
	Avatars      AvatarReviewer
	Results      ModerationRecorder
	Secrets      SecretVerifier
	Limiter      RateLimiter
	Metrics      *metrics.Metrics
}

type moderateVideoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	TaskID  string `json:"taskId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ModerateVideo handles POST /functions/v1/moderate-video.
func (h FunctionHandler) ModerateVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if !allowRequest(h.Limiter, r, "moderate-video") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req moderation.VideoModerationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.VideoID) == "" || strings.TrimSpace(req.VideoURL) == "" {
		respondError(ctx, w, http.StatusBadRequest, "videoId and videoUrl are required")
		return
	}
	if h.VideoTrigger == nil {
		respondError(ctx, w, http.StatusInternalServerError, moderation.ErrRunnerNotConfigured.Error())
		return
	}

	taskID, err := h.VideoTrigger.Trigger(ctx, req)
	switch {
	case errors.Is(err, moderation.ErrInvalidRequest):
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondJSON(ctx, w, http.StatusInternalServerError, moderateVideoResponse{Error: err.Error()})
		return
	}

	respondJSON(ctx, w, http.StatusOK, moderateVideoResponse{
		Success: true,
		Message: "Video moderation started",
		TaskID:  taskID,
	})
}

type moderateAvatarRequest struct {
	UserID    string `json:"userId"`
	AvatarURL string `json:"avatarUrl"`
}

type moderateAvatarResponse struct {
	Success  bool     `json:"success"`
	Approved bool     `json:"approved"`
	Reasons  []string `json:"reasons,omitempty"`
	Deleted  *bool    `json:"deleted,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// ModerateAvatar handles POST /functions/v1/moderate-avatar.
func (h FunctionHandler) ModerateAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if !allowRequest(h.Limiter, r, "moderate-avatar") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req moderateAvatarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.AvatarURL) == "" {
		respondError(ctx, w, http.StatusBadRequest, "userId and avatarUrl are required")
		return
	}
	if h.Avatars == nil {
		respondError(ctx, w, http.StatusInternalServerError, "avatar moderation unavailable")
		return
	}

	decision, err := h.Avatars.Moderate(ctx, req.UserID, req.AvatarURL)
	switch {
	case errors.Is(err, moderation.ErrInvalidRequest):
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	if decision.Approved {
		respondJSON(ctx, w, http.StatusOK, moderateAvatarResponse{
			Success:  true,
			Approved: true,
			Message:  "Avatar approved",
		})
		return
	}

	deleted := decision.Deleted
	respondJSON(ctx, w, http.StatusOK, moderateAvatarResponse{
		Success:  true,
		Approved: false,
		Reasons:  decision.Reasons,
		Deleted:  &deleted,
	})
}

type moderationResultRequest struct {
	VideoID string                   `json:"videoId"`
	Status  models.ModerationStatus  `json:"status"`
	Result  *models.ModerationResult `json:"result"`
}

// ModerationResult handles POST /functions/v1/moderation-result, the callback the
// job runner uses to publish its verdict.
func (h FunctionHandler) ModerationResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Secrets == nil || h.Results == nil {
		logger.Error("moderation callback dependencies unavailable", "hasSecrets", h.Secrets != nil, "hasResults", h.Results != nil)
		respondError(ctx, w, http.StatusInternalServerError, "moderation callback unavailable")
		return
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || !h.Secrets.VerifySecret(strings.TrimSpace(token)) {
		respondError(ctx, w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req moderationResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.VideoID = strings.TrimSpace(req.VideoID)
	if req.VideoID == "" {
		respondError(ctx, w, http.StatusBadRequest, "videoId is required")
		return
	}
	if !req.Status.Valid() || req.Status == models.ModerationPending {
		respondError(ctx, w, http.StatusBadRequest, "status must be approved, rejected or flagged")
		return
	}

	if err := h.Results.UpdateModeration(ctx, req.VideoID, req.Status, req.Result); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		respondError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Metrics.ModerationCallback(string(req.Status))
	logger.Info("moderation result recorded", "videoId", req.VideoID, "status", req.Status)
	respondJSON(ctx, w, http.StatusOK, map[string]any{"success": true})
}
