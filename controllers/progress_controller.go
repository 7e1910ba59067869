package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/habitloop/health-backend/middleware"
	"github.com/habitloop/health-backend/services"
)

type ProgressController struct {
	progress *services.ProgressService
}

func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{progress: progress}
}

// LogMeal handles POST /api/food-logs.
func (c *ProgressController) LogMeal(w http.ResponseWriter, r *http.Request) {
	var in services.LogMealInput
	if !decodeBody(w, r, &in) {
		return
	}

	entry, err := c.progress.LogMeal(r.Context(), middleware.GetUserID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListFoodLogs handles GET /api/food-logs?date=YYYY-MM-DD.
func (c *ProgressController) ListFoodLogs(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	entries, err := c.progress.ListFoodLogs(middleware.GetUserID(r), date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListDailyProgress handles GET /api/progress?limit=N.
func (c *ProgressController) ListDailyProgress(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := c.progress.ListDailyProgress(middleware.GetUserID(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// CompleteWorkout handles POST /api/progress/workout.
func (c *ProgressController) CompleteWorkout(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Date string `json:"date"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	record, err := c.progress.CompleteWorkout(middleware.GetUserID(r), in.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// LogWeight handles POST /api/progress/weight.
func (c *ProgressController) LogWeight(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Date     string  `json:"date"`
		WeightKg float64 `json:"weight_kg"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	record, err := c.progress.LogWeight(middleware.GetUserID(r), in.Date, in.WeightKg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
