package controllers

import (
	"net/http"

	"github.com/habitloop/health-backend/middleware"
	"github.com/habitloop/health-backend/services"
)

type MilestoneController struct {
	milestones *services.MilestoneService
}

func NewMilestoneController(milestones *services.MilestoneService) *MilestoneController {
	return &MilestoneController{milestones: milestones}
}

// List handles GET /api/milestones.
func (c *MilestoneController) List(w http.ResponseWriter, r *http.Request) {
	milestones, err := c.milestones.List(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestones)
}

// Create handles POST /api/milestones.
func (c *MilestoneController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.MilestoneInput
	if !decodeBody(w, r, &in) {
		return
	}

	milestone, err := c.milestones.Create(middleware.GetUserID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, milestone)
}
