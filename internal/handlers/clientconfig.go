package handlers

import "net/http"

// ClientConfigHandler exposes the public settings mobile clients need at startup.
type ClientConfigHandler struct {
	MapboxToken string
}

// Get handles GET /api/v1/config.
func (h ClientConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	respondJSON(r.Context(), w, http.StatusOK, map[string]string{"mapboxToken": h.MapboxToken})
}
