package services

import (
	"go.uber.org/zap"

	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/models"
)

// ValidatePlanResponse enforces the requested day count on a generated plan.
// Fewer days than requested is an IncompletePlanError and the plan must be
// discarded. Surplus days are accepted; the overage is only logged.
func ValidatePlanResponse(requestedDays int, plans []models.DailyPlan) error {
	if len(plans) < requestedDays {
		return &IncompletePlanError{Requested: requestedDays, Returned: len(plans)}
	}
	if len(plans) > requestedDays {
		logger.Warn("plan has more days than requested",
			zap.Int("requested", requestedDays),
			zap.Int("returned", len(plans)))
	}
	return nil
}

// TotalPlanCalories sums breakfast, lunch and dinner calories across all
// days. Snacks are excluded from the total.
func TotalPlanCalories(plans []models.DailyPlan) float64 {
	var total float64
	for _, day := range plans {
		if day.Breakfast != nil {
			total += day.Breakfast.Calories
		}
		if day.Lunch != nil {
			total += day.Lunch.Calories
		}
		if day.Dinner != nil {
			total += day.Dinner.Calories
		}
	}
	return total
}
