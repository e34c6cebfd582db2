package handlers

import (
	"net/http"

	"github.com/ROBPOPNOW/popnow-app-skyzhp-sub001/internal/metrics"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Database: deps.Database}
	videos := VideoHandler{Uploader: deps.Uploader, Feed: deps.Map, Engagement: deps.Engagement, Limiter: deps.Limiter}
	search := SearchHandler{Search: deps.Search}
	profiles := ProfileHandler{Engagement: deps.Engagement}
	clientConfig := ClientConfigHandler{MapboxToken: deps.MapboxToken}
	functions := FunctionHandler{
		VideoTrigger: deps.VideoTrigger,
		Avatars:      deps.Avatars,
		Results:      deps.Results,
		Secrets:      deps.Secrets,
		Limiter:      deps.Limiter,
		Metrics:      deps.Metrics,
	}

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("/metrics", deps.Metrics.Handler())
	mux.HandleFunc("/api/v1/config", clientConfig.Get)

	mux.HandleFunc("/api/v1/videos", videos.Upload)
	mux.HandleFunc("/api/v1/videos/map", videos.Map)
	mux.HandleFunc("/api/v1/videos/{id}/like", videos.Like)
	mux.HandleFunc("/api/v1/videos/{id}/comments", videos.Comments)
	mux.HandleFunc("/api/v1/search/videos", search.Videos)
	mux.HandleFunc("/api/v1/search/users", search.Users)
	mux.HandleFunc("/api/v1/users/{id}", profiles.Get)

	mux.HandleFunc("/functions/v1/moderate-video", functions.ModerateVideo)
	mux.HandleFunc("/functions/v1/moderate-avatar", functions.ModerateAvatar)
	mux.HandleFunc("/functions/v1/moderation-result", functions.ModerationResult)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Database     Pinger
	Uploader     VideoUploader
	Map          MapFeed
	Search       Searcher
	Engagement   Engagement
	VideoTrigger VideoModerationTrigger
	Avatars      AvatarReviewer
	Results      ModerationRecorder
	Secrets      SecretVerifier
	Limiter      RateLimiter
	Metrics      *metrics.Metrics
	MapboxToken  string
}
