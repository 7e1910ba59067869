package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/models"
)

// GroceryScheduler hands grocery-list generation off to the background
// worker after a plan is approved. Failures there never block approval.
type GroceryScheduler interface {
	Schedule(userID string, mealPlanID uint, duration PlanDuration)
}

// MealPlanService owns the meal plan lifecycle: generation, approval with
// the single-active-plan invariant, tracking seed-out and deletion.
type MealPlanService struct {
	db        *gorm.DB
	inference Inference
	grocery   GroceryScheduler
}

func NewMealPlanService(db *gorm.DB, inference Inference, grocery GroceryScheduler) *MealPlanService {
	return &MealPlanService{db: db, inference: inference, grocery: grocery}
}

// recentLogLimit caps how much history feeds the habit analysis.
const recentLogLimit = 30

type generatedMealPlan struct {
	DailyPlans []models.DailyPlan `json:"daily_plans"`
	AINotes    string             `json:"ai_notes"`
}

// GenerateMealPlan builds the generation request from the profile, recent
// logs and options, invokes the inference service and validates the result.
// The returned plan is a preview: not persisted and not active. An
// IncompletePlanError means the whole attempt was discarded and the user can
// retry.
func (s *MealPlanService) GenerateMealPlan(ctx context.Context, userID string, opts MealPlanOptions) (*models.MealPlan, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var logs []models.FoodLogEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(recentLogLimit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load recent food logs: %w", err)
	}

	startDate := time.Now()
	request := BuildMealPlanRequest(&profile, logs, opts, startDate)

	var result generatedMealPlan
	if err := s.inference.GenerateJSON(ctx, request.Prompt, request.ResponseSchema, &result); err != nil {
		return nil, fmt.Errorf("generate meal plan: %w", err)
	}

	if err := ValidatePlanResponse(request.Days, result.DailyPlans); err != nil {
		return nil, err
	}

	endDate := startDate.AddDate(0, 0, request.Days-1)
	plan := &models.MealPlan{
		UserID:              userID,
		WeekStartDate:       startDate.Format("2006-01-02"),
		WeekEndDate:         endDate.Format("2006-01-02"),
		DailyPlans:          result.DailyPlans,
		TotalWeeklyCalories: TotalPlanCalories(result.DailyPlans),
		BasedOnHabits:       len(logs) > 0,
		AINotes:             result.AINotes,
		IsActive:            false,
	}

	logger.Info("meal plan generated",
		zap.String("user_id", userID),
		zap.Int("days", len(result.DailyPlans)))
	return plan, nil
}

// trackingSeedDays is how many days of adherence tracking are created on
// approval, regardless of plan length.
const trackingSeedDays = 7

// ApproveMealPlan persists the previewed plan as the user's active plan.
// Any previously active plan is deactivated in the same transaction, so
// exactly one plan is active afterwards. Tracking rows are seeded for the
// first week and grocery-list generation is scheduled in the background.
func (s *MealPlanService) ApproveMealPlan(ctx context.Context, userID string, plan *models.MealPlan, duration PlanDuration) (*models.MealPlan, error) {
	if plan == nil || len(plan.DailyPlans) == 0 {
		return nil, fmt.Errorf("%w: plan has no daily plans", ErrInvalidInput)
	}

	plan.UserID = userID
	plan.IsActive = true

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MealPlan{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate previous plans: %w", err)
		}

		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("create meal plan: %w", err)
		}

		today := time.Now()
		days := trackingSeedDays
		if len(plan.DailyPlans) < days {
			days = len(plan.DailyPlans)
		}
		for i := 0; i < days; i++ {
			tracking := models.MealPlanTracking{
				UserID:     userID,
				MealPlanID: plan.ID,
				Date:       today.AddDate(0, 0, i).Format("2006-01-02"),
				DayName:    plan.DailyPlans[i].Day,
			}
			if err := tx.Create(&tracking).Error; err != nil {
				return fmt.Errorf("seed plan tracking: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.grocery != nil {
		s.grocery.Schedule(userID, plan.ID, duration)
	}

	logger.Info("meal plan approved",
		zap.String("user_id", userID),
		zap.Uint("plan_id", plan.ID))
	return plan, nil
}

// ListMealPlans returns the user's plans, newest first.
func (s *MealPlanService) ListMealPlans(userID string) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	return plans, nil
}

// GetActiveMealPlan returns the single active plan, or gorm.ErrRecordNotFound.
func (s *MealPlanService) GetActiveMealPlan(userID string) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeleteMealPlan removes one plan and its dependent grocery list and
// tracking rows.
func (s *MealPlanService) DeleteMealPlan(userID string, planID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND id = ?", userID, planID).Delete(&models.MealPlan{})
		if result.Error != nil {
			return fmt.Errorf("delete meal plan: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("user_id = ? AND meal_plan_id = ?", userID, planID).Delete(&models.GroceryList{}).Error; err != nil {
			return fmt.Errorf("delete grocery list: %w", err)
		}
		if err := tx.Where("user_id = ? AND meal_plan_id = ?", userID, planID).Delete(&models.MealPlanTracking{}).Error; err != nil {
			return fmt.Errorf("delete plan tracking: %w", err)
		}
		return nil
	})
}

// DeleteAllMealPlans wipes every plan the user owns.
func (s *MealPlanService) DeleteAllMealPlans(userID string) error {
	plans, err := s.ListMealPlans(userID)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		if err := s.DeleteMealPlan(userID, plan.ID); err != nil {
			return err
		}
	}
	return nil
}
