package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/habitloop/health-backend/middleware"
	"github.com/habitloop/health-backend/models"
	"github.com/habitloop/health-backend/services"
)

type MealPlanController struct {
	mealPlans *services.MealPlanService
	grocery   *services.GroceryService
}

func NewMealPlanController(mealPlans *services.MealPlanService, grocery *services.GroceryService) *MealPlanController {
	return &MealPlanController{mealPlans: mealPlans, grocery: grocery}
}

// Generate handles POST /api/meal-plans/generate. The returned plan is a
// preview; nothing is persisted until approval.
func (c *MealPlanController) Generate(w http.ResponseWriter, r *http.Request) {
	var opts services.MealPlanOptions
	if !decodeBody(w, r, &opts) {
		return
	}

	plan, err := c.mealPlans.GenerateMealPlan(r.Context(), middleware.GetUserID(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Approve handles POST /api/meal-plans/approve.
func (c *MealPlanController) Approve(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Plan     *models.MealPlan      `json:"plan"`
		Duration services.PlanDuration `json:"duration"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	plan, err := c.mealPlans.ApproveMealPlan(r.Context(), middleware.GetUserID(r), in.Plan, in.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// List handles GET /api/meal-plans.
func (c *MealPlanController) List(w http.ResponseWriter, r *http.Request) {
	plans, err := c.mealPlans.ListMealPlans(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// GetActive handles GET /api/meal-plans/active.
func (c *MealPlanController) GetActive(w http.ResponseWriter, r *http.Request) {
	plan, err := c.mealPlans.GetActiveMealPlan(middleware.GetUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Delete handles DELETE /api/meal-plans/{planID}.
func (c *MealPlanController) Delete(w http.ResponseWriter, r *http.Request) {
	planID, ok := parseUintParam(w, r, "planID")
	if !ok {
		return
	}

	if err := c.mealPlans.DeleteMealPlan(middleware.GetUserID(r), planID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteAll handles DELETE /api/meal-plans.
func (c *MealPlanController) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := c.mealPlans.DeleteAllMealPlans(middleware.GetUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetGroceryList handles GET /api/meal-plans/{planID}/grocery-list.
func (c *MealPlanController) GetGroceryList(w http.ResponseWriter, r *http.Request) {
	planID, ok := parseUintParam(w, r, "planID")
	if !ok {
		return
	}

	list, err := c.grocery.GetByPlan(middleware.GetUserID(r), planID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// RegenerateGroceryList handles POST /api/meal-plans/{planID}/grocery-list.
func (c *MealPlanController) RegenerateGroceryList(w http.ResponseWriter, r *http.Request) {
	planID, ok := parseUintParam(w, r, "planID")
	if !ok {
		return
	}

	var in struct {
		Duration services.PlanDuration `json:"duration"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Duration == "" {
		in.Duration = services.DurationOneWeek
	}

	list, err := c.grocery.GenerateForPlanID(r.Context(), middleware.GetUserID(r), planID, in.Duration)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// ToggleGroceryItem handles PATCH /api/grocery-lists/{listID}/items/{index}.
func (c *MealPlanController) ToggleGroceryItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := parseUintParam(w, r, "listID")
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item index"})
		return
	}

	list, err := c.grocery.TogglePurchased(middleware.GetUserID(r), listID, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func parseUintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	value, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return uint(value), true
}
