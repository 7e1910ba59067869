package services_test

import (
	"errors"
	"testing"

	"github.com/habitloop/health-backend/models"
	"github.com/habitloop/health-backend/services"
)

func TestValidatePlanResponseRejectsShortPlan(t *testing.T) {
	err := services.ValidatePlanResponse(7, sampleDailyPlans(5))

	var incomplete *services.IncompletePlanError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want IncompletePlanError", err)
	}
	if incomplete.Requested != 7 || incomplete.Returned != 5 {
		t.Errorf("error = %+v, want requested 7 returned 5", incomplete)
	}
}

func TestValidatePlanResponseAcceptsExactAndSurplus(t *testing.T) {
	if err := services.ValidatePlanResponse(7, sampleDailyPlans(7)); err != nil {
		t.Errorf("exact day count rejected: %v", err)
	}
	if err := services.ValidatePlanResponse(7, sampleDailyPlans(8)); err != nil {
		t.Errorf("surplus days rejected: %v", err)
	}
}

func TestTotalPlanCaloriesExcludesSnacks(t *testing.T) {
	plans := sampleDailyPlans(2)

	// Each sample day: 400 + 650 + 700 from meals; snacks add 330 that must
	// not be counted.
	if got := services.TotalPlanCalories(plans); got != 3500 {
		t.Errorf("TotalPlanCalories = %.0f, want 3500", got)
	}
}

func TestTotalPlanCaloriesSkipsMissingMeals(t *testing.T) {
	plans := []models.DailyPlan{
		{
			Day:   "Day 1",
			Lunch: &models.PlannedMeal{Calories: 600},
		},
	}
	if got := services.TotalPlanCalories(plans); got != 600 {
		t.Errorf("TotalPlanCalories = %.0f, want 600", got)
	}
}
