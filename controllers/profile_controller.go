package controllers

import (
	"net/http"

	"github.com/habitloop/health-backend/middleware"
	"github.com/habitloop/health-backend/services"
)

type ProfileController struct {
	profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// CompleteOnboarding handles POST /api/profile/onboarding.
func (c *ProfileController) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	var in services.OnboardingInput
	if !decodeBody(w, r, &in) {
		return
	}

	profile, err := c.profiles.CompleteOnboarding(middleware.GetUserID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

// GetProfile handles GET /api/profile.
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.profiles.GetProfile(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile.
func (c *ProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	profile, err := c.profiles.UpdateProfile(middleware.GetUserID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// RecalculateTargets handles POST /api/profile/recalculate-targets.
func (c *ProfileController) RecalculateTargets(w http.ResponseWriter, r *http.Request) {
	profile, err := c.profiles.RecalculateTargetsAI(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// DeleteAccountData handles DELETE /api/profile.
func (c *ProfileController) DeleteAccountData(w http.ResponseWriter, r *http.Request) {
	if err := c.profiles.DeleteAccountData(middleware.GetUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
