package controllers

import (
	"net/http"

	"github.com/habitloop/health-backend/middleware"
	"github.com/habitloop/health-backend/services"
)

type WorkoutController struct {
	workouts *services.WorkoutService
}

func NewWorkoutController(workouts *services.WorkoutService) *WorkoutController {
	return &WorkoutController{workouts: workouts}
}

// Generate handles POST /api/workout-plans/generate.
func (c *WorkoutController) Generate(w http.ResponseWriter, r *http.Request) {
	plan, err := c.workouts.GenerateWorkoutPlan(r.Context(), middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// List handles GET /api/workout-plans.
func (c *WorkoutController) List(w http.ResponseWriter, r *http.Request) {
	plans, err := c.workouts.ListWorkoutPlans(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetActive handles GET /api/workout-plans/active.
func (c *WorkoutController) GetActive(w http.ResponseWriter, r *http.Request) {
	plan, err := c.workouts.GetActiveWorkoutPlan(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
