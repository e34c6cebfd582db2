package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/feed"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/logging"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/models"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/repositories"
	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/videos"
)

const (
	maxUploadBytes  = 200 << 20
	multipartMemory = 32 << 20
)

// VideoHandler provides endpoints for uploading, locating and engaging with videos.
type VideoHandler struct {
	Uploader   VideoUploader
	Feed       MapFeed
	Engagement Engagement
	Limiter    RateLimiter
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	VideoID  string `json:"videoId,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Upload handles POST /api/v1/videos with a multipart body.
func (h VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "upload") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many uploads, slow down")
		return
	}
	if h.Uploader == nil {
		logger.Error("upload dependencies unavailable")
		respondError(ctx, w, http.StatusInternalServerError, "video uploads unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		logger.Warn("invalid upload form", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req, err := uploadRequestFromForm(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()

	req.File = file
	req.ContentType = header.Header.Get("Content-Type")

	result := h.Uploader.Upload(ctx, req)
	if !result.Success {
		status := http.StatusInternalServerError
		if videos.IsClientError(result.Err) {
			status = http.StatusBadRequest
		}
		respondJSON(ctx, w, status, uploadResponse{Error: errorMessage(result.Err)})
		return
	}

	respondJSON(ctx, w, http.StatusCreated, uploadResponse{
		Success:  true,
		VideoID:  result.VideoID,
		VideoURL: result.VideoURL,
	})
}

func uploadRequestFromForm(r *http.Request) (videos.UploadRequest, error) {
	req := videos.UploadRequest{
		UserID:       r.FormValue("userId"),
		Caption:      r.FormValue("caption"),
		ThumbnailURL: strings.TrimSpace(r.FormValue("thumbnailUrl")),
	}
	if tags := r.FormValue("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}

	if raw := strings.TrimSpace(r.FormValue("duration")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, errors.New("duration must be a number")
		}
		req.DurationSeconds = &d
	}

	lat, lng := strings.TrimSpace(r.FormValue("latitude")), strings.TrimSpace(r.FormValue("longitude"))
	if lat != "" || lng != "" {
		latitude, errLat := strconv.ParseFloat(lat, 64)
		longitude, errLng := strconv.ParseFloat(lng, 64)
		if errLat != nil || errLng != nil {
			return req, errors.New("latitude and longitude must both be numbers")
		}
		req.Location = &models.Location{
			Latitude:  latitude,
			Longitude: longitude,
			Name:      strings.TrimSpace(r.FormValue("locationName")),
			Privacy:   models.PrivacyTier(strings.TrimSpace(r.FormValue("privacy"))),
		}
	}

	return req, nil
}

// Map handles GET /api/v1/videos/map.
func (h VideoHandler) Map(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Feed == nil {
		respondError(ctx, w, http.StatusInternalServerError, "map feed unavailable")
		return
	}

	box, err := boundingBoxFromQuery(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	posts := h.Feed.VideosInBounds(ctx, box, strings.TrimSpace(r.URL.Query().Get("viewer")))
	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": posts})
}

func boundingBoxFromQuery(r *http.Request) (models.BoundingBox, error) {
	q := r.URL.Query()
	var values [4]float64
	for i, name := range []string{"minLat", "maxLat", "minLng", "maxLng"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(q.Get(name)), 64)
		if err != nil {
			return models.BoundingBox{}, fmt.Errorf("%s must be a number", name)
		}
		values[i] = v
	}

	box := models.BoundingBox{MinLat: values[0], MaxLat: values[1], MinLng: values[2], MaxLng: values[3]}
	if err := box.Validate(); err != nil {
		return models.BoundingBox{}, err
	}
	return box, nil
}

type likeRequest struct {
	UserID string `json:"userId"`
}

// Like handles POST /api/v1/videos/{id}/like.
func (h VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Engagement == nil {
		respondError(ctx, w, http.StatusInternalServerError, "engagement unavailable")
		return
	}

	var req likeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	liked, likes, err := h.Engagement.ToggleLike(ctx, r.PathValue("id"), req.UserID)
	if err != nil {
		respondEngagementError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"liked": liked, "likes": likes})
}

type commentRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// Comments handles GET and POST /api/v1/videos/{id}/comments.
func (h VideoHandler) Comments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.Engagement == nil {
		respondError(ctx, w, http.StatusInternalServerError, "engagement unavailable")
		return
	}

	videoID := r.PathValue("id")
	if r.Method == http.MethodGet {
		comments, err := h.Engagement.ListComments(ctx, videoID)
		if err != nil {
			respondEngagementError(ctx, w, err)
			return
		}
		respondJSON(ctx, w, http.StatusOK, map[string]any{"comments": comments})
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Engagement.AddComment(ctx, videoID, req.UserID, req.Text)
	if err != nil {
		respondEngagementError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]any{"comment": comment})
}

func respondEngagementError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ErrInvalidInput):
		respondError(ctx, w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		respondError(ctx, w, http.StatusNotFound, "not found")
	case errors.Is(err, repositories.ErrConflict):
		respondError(ctx, w, http.StatusConflict, "conflict")
	default:
		respondError(ctx, w, http.StatusInternalServerError, err.Error())
	}
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
