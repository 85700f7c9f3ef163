package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fanlink_server/cache"
	"fanlink_server/middleware"
	"fanlink_server/services"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the service failure taxonomy onto HTTP statuses.
// ErrStoreUnavailable maps to 503 so clients know it is the retryable one.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Not allowed", http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, services.ErrEmptyContent):
		http.Error(w, "Content must not be empty", http.StatusBadRequest)
	case errors.Is(err, services.ErrStoreUnavailable):
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// requireUser pulls the authenticated user id out of the request context.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// allowAction applies a per-action rate limit for the user. A nil limiter
// means the action is unlimited.
func allowAction(w http.ResponseWriter, r *http.Request, limiter *cache.RateLimiter, userID string) bool {
	if limiter == nil || limiter.Allow(r.Context(), userID) {
		return true
	}
	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	return false
}
