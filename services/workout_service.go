package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/models"
)

// WorkoutService generates and activates AI workout plans. Like meal plans,
// at most one workout plan is active per user.
type WorkoutService struct {
	db        *gorm.DB
	inference Inference
}

func NewWorkoutService(db *gorm.DB, inference Inference) *WorkoutService {
	return &WorkoutService{db: db, inference: inference}
}

type generatedWorkoutPlan struct {
	PlanName       string              `json:"plan_name"`
	FitnessLevel   models.FitnessLevel `json:"fitness_level"`
	WeeklySchedule []models.WorkoutDay `json:"weekly_schedule"`
	AIRationale    string              `json:"ai_rationale"`
}

// workoutGoal maps the profile goal onto the coarser workout goal taxonomy.
func workoutGoal(goal models.PrimaryGoal) string {
	switch goal {
	case models.GoalLoseWeight:
		return "fat_loss"
	case models.GoalGainMuscle:
		return "muscle_gain"
	default:
		return "general_fitness"
	}
}

// GenerateWorkoutPlan builds the workout request, invokes the inference
// service and persists the result as the user's active plan, deactivating
// any previous one in the same transaction.
func (s *WorkoutService) GenerateWorkoutPlan(ctx context.Context, userID string) (*models.WorkoutPlan, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	request := BuildWorkoutPlanRequest(&profile)

	var result generatedWorkoutPlan
	if err := s.inference.GenerateJSON(ctx, request.Prompt, request.ResponseSchema, &result); err != nil {
		return nil, fmt.Errorf("generate workout plan: %w", err)
	}
	if len(result.WeeklySchedule) == 0 {
		return nil, fmt.Errorf("generate workout plan: empty weekly schedule returned")
	}

	plan := &models.WorkoutPlan{
		UserID:             userID,
		PlanName:           result.PlanName,
		FitnessLevel:       result.FitnessLevel,
		WeeklySchedule:     result.WeeklySchedule,
		Goal:               workoutGoal(profile.PrimaryGoal),
		EquipmentAvailable: []string{"bodyweight", "dumbbells", "resistance bands"},
		WeeksDuration:      4,
		AIRationale:        result.AIRationale,
		IsActive:           true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkoutPlan{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate previous plans: %w", err)
		}
		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("create workout plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("workout plan generated",
		zap.String("user_id", userID),
		zap.String("plan_name", plan.PlanName),
		zap.Int("days", len(plan.WeeklySchedule)))
	return plan, nil
}

// ListWorkoutPlans returns the user's workout plans, newest first.
func (s *WorkoutService) ListWorkoutPlans(userID string) ([]models.WorkoutPlan, error) {
	var plans []models.WorkoutPlan
	err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("list workout plans: %w", err)
	}
	return plans, nil
}

// GetActiveWorkoutPlan returns the active plan or gorm.ErrRecordNotFound.
func (s *WorkoutService) GetActiveWorkoutPlan(userID string) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
