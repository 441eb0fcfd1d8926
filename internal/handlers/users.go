package handlers

import (
	"net/http"

	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/middleware"
	"github.com/snapsplit/snapsplit/internal/service"
)

// UserHandler serves the authenticated user's profile statistics.
type UserHandler struct {
	profiles *service.ProfileService
}

func NewUserHandler(profiles *service.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// Profile returns lifetime stats, or one month's stats when both the
// year and month query parameters are present.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	period, err := calculator.ParsePeriod(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	profile, err := h.profiles.Profile(r.Context(), middleware.GetUserID(r.Context()), period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
