// HTTP handlers for the matching service.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	POST /matches/rank → rank the recent job window for the caller and
//	                     persist the results; body may carry a free-text
//	                     query, the profile-context opt-in, and partial
//	                     weight/gate overrides
//	GET  /matches      → stored matches for the caller, score descending
package matching

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
)

// Handler holds shared dependencies for the HTTP routes.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all matching-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/matches", h.handleMatches)
	mux.HandleFunc("/matches/rank", h.handleRank)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}

	matches, err := h.svc.ListMatches(r.Context(), userID, limit)
	if err != nil {
		log.Printf("[matching] listMatches error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, matches)
}

func (h *Handler) handleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		Query             string             `json:"query"`
		UseProfileContext bool               `json:"useProfileContext"`
		Weights           map[string]float64 `json:"weights"`
		Gate              *GateOverrides     `json:"gate"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	matches, err := h.svc.RankAndStore(r.Context(), userID, RankOptions{
		Query:             body.Query,
		UseProfileContext: body.UseProfileContext,
		Weights:           body.Weights,
		Gate:              body.Gate,
	})

	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrProfileNotFound):
		jsonError(w, "job profile not found; create a profile before ranking", http.StatusNotFound)
		return
	case errors.As(err, &validationErr):
		jsonError(w, validationErr.Msg, http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("[matching] rankAndStore error for user %s: %v", userID, err)
		jsonError(w, "ranking failed", http.StatusInternalServerError)
		return
	}

	// An empty list is a valid, normal outcome (no eligible jobs); it is
	// distinguishable from the error cases above.
	jsonOK(w, matches)
}

// ─── JSON helpers ─────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[matching] encode response error: %v", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
