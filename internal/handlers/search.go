package handlers

import "net/http"

// SearchHandler exposes free-text search over videos and users.
type SearchHandler struct {
	Search Searcher
}

// Videos handles GET /api/v1/search/videos?q=.
func (h SearchHandler) Videos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Search == nil {
		respondError(ctx, w, http.StatusInternalServerError, "search unavailable")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"videos": h.Search.SearchVideos(ctx, r.URL.Query().Get("q"))})
}

// Users handles GET /api/v1/search/users?q=.
func (h SearchHandler) Users(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Search == nil {
		respondError(ctx, w, http.StatusInternalServerError, "search unavailable")
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]any{"users": h.Search.SearchUsers(ctx, r.URL.Query().Get("q"))})
}
