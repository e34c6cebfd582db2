package handlers

import "net/http"

// ProfileHandler serves public user profiles.
type ProfileHandler struct {
	Engagement Engagement
}

// Get handles GET /api/v1/users/{id}.
func (h ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if h.Engagement == nil {
		respondError(ctx, w, http.StatusInternalServerError, "profiles unavailable")
		return
	}

	profile, err := h.Engagement.FindProfile(ctx, r.PathValue("id"))
	if err != nil {
		respondEngagementError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, profile)
}
