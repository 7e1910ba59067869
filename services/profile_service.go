package services

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/habitloop/health-backend/llm"
	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/models"
)

// ProfileService owns the user profile lifecycle: onboarding, edits, target
// recalculation and account data removal.
type ProfileService struct {
	db        *gorm.DB
	inference Inference
}

func NewProfileService(db *gorm.DB, inference Inference) *ProfileService {
	return &ProfileService{db: db, inference: inference}
}

// OnboardingInput is the onboarding questionnaire submission. Favorite and
// disliked foods arrive as free comma-separated text.
type OnboardingInput struct {
	Age             int                  `json:"age"`
	Sex             models.Sex           `json:"sex"`
	HeightCm        float64              `json:"height_cm"`
	CurrentWeightKg float64              `json:"current_weight_kg"`
	GoalWeightKg    float64              `json:"goal_weight_kg"`
	ActivityLevel   models.ActivityLevel `json:"activity_level"`
	PrimaryGoal     models.PrimaryGoal   `json:"primary_goal"`

	HealthConditions   []string `json:"health_conditions"`
	DietaryPreferences []string `json:"dietary_preferences"`
	FavoriteFoods      string   `json:"favorite_foods"`
	DislikedFoods      string   `json:"disliked_foods"`
}

// CompleteOnboarding derives nutrition targets from the questionnaire and
// creates the profile with fresh gamification state. A second call for the
// same user fails on the unique user_id index.
func (s *ProfileService) CompleteOnboarding(userID string, in OnboardingInput) (*models.UserProfile, error) {
	targets, err := CalculateTargets(BiometricInput{
		Age:           in.Age,
		Sex:           in.Sex,
		HeightCm:      in.HeightCm,
		WeightKg:      in.CurrentWeightKg,
		ActivityLevel: in.ActivityLevel,
		PrimaryGoal:   in.PrimaryGoal,
	})
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:          userID,
		Age:             in.Age,
		Sex:             in.Sex,
		HeightCm:        in.HeightCm,
		CurrentWeightKg: in.CurrentWeightKg,
		GoalWeightKg:    in.GoalWeightKg,
		ActivityLevel:   in.ActivityLevel,
		PrimaryGoal:     in.PrimaryGoal,

		HealthConditions:   in.HealthConditions,
		DietaryPreferences: in.DietaryPreferences,
		FavoriteFoods:      splitCommaList(in.FavoriteFoods),
		DislikedFoods:      splitCommaList(in.DislikedFoods),

		DailyCalorieTarget: targets.DailyCalorieTarget,
		ProteinTargetG:     targets.ProteinTargetG,
		CarbsTargetG:       targets.CarbsTargetG,
		FatTargetG:         targets.FatTargetG,

		CurrentStreak:       0,
		TotalPoints:         0,
		OnboardingCompleted: true,
	}

	if err := s.db.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	logger.Info("onboarding completed",
		zap.String("user_id", userID),
		zap.Int("daily_calorie_target", targets.DailyCalorieTarget))
	return profile, nil
}

// GetProfile loads a user's profile, gorm.ErrRecordNotFound if onboarding
// has not run.
func (s *ProfileService) GetProfile(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileUpdate carries optional profile edits; nil fields are untouched.
type ProfileUpdate struct {
	Age             *int                  `json:"age"`
	HeightCm        *float64              `json:"height_cm"`
	CurrentWeightKg *float64              `json:"current_weight_kg"`
	GoalWeightKg    *float64              `json:"goal_weight_kg"`
	ActivityLevel   *models.ActivityLevel `json:"activity_level"`
	PrimaryGoal     *models.PrimaryGoal   `json:"primary_goal"`

	HealthConditions   []string `json:"health_conditions"`
	DietaryPreferences []string `json:"dietary_preferences"`
	FavoriteFoods      *string  `json:"favorite_foods"`
	DislikedFoods      *string  `json:"disliked_foods"`
}

// UpdateProfile applies the provided fields and recomputes nutrition targets
// from the resulting biometrics.
func (s *ProfileService) UpdateProfile(userID string, in ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if in.Age != nil {
		profile.Age = *in.Age
	}
	if in.HeightCm != nil {
		profile.HeightCm = *in.HeightCm
	}
	if in.CurrentWeightKg != nil {
		profile.CurrentWeightKg = *in.CurrentWeightKg
	}
	if in.GoalWeightKg != nil {
		profile.GoalWeightKg = *in.GoalWeightKg
	}
	if in.ActivityLevel != nil {
		profile.ActivityLevel = *in.ActivityLevel
	}
	if in.PrimaryGoal != nil {
		profile.PrimaryGoal = *in.PrimaryGoal
	}
	if in.HealthConditions != nil {
		profile.HealthConditions = in.HealthConditions
	}
	if in.DietaryPreferences != nil {
		profile.DietaryPreferences = in.DietaryPreferences
	}
	if in.FavoriteFoods != nil {
		profile.FavoriteFoods = splitCommaList(*in.FavoriteFoods)
	}
	if in.DislikedFoods != nil {
		profile.DislikedFoods = splitCommaList(*in.DislikedFoods)
	}

	targets, err := CalculateTargets(BiometricInput{
		Age:           profile.Age,
		Sex:           profile.Sex,
		HeightCm:      profile.HeightCm,
		WeightKg:      profile.CurrentWeightKg,
		ActivityLevel: profile.ActivityLevel,
		PrimaryGoal:   profile.PrimaryGoal,
	})
	if err != nil {
		return nil, err
	}
	profile.DailyCalorieTarget = targets.DailyCalorieTarget
	profile.ProteinTargetG = targets.ProteinTargetG
	profile.CarbsTargetG = targets.CarbsTargetG
	profile.FatTargetG = targets.FatTargetG

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

type aiTargets struct {
	DailyCalorieTarget float64 `json:"daily_calorie_target"`
	ProteinTargetG     float64 `json:"protein_target_g"`
	CarbsTargetG       float64 `json:"carbs_target_g"`
	FatTargetG         float64 `json:"fat_target_g"`
	Rationale          string  `json:"rationale"`
}

func targetsSchema() llm.Schema {
	return llm.Schema{
		"type": "object",
		"properties": llm.Schema{
			"daily_calorie_target": llm.Schema{"type": "number"},
			"protein_target_g":     llm.Schema{"type": "number"},
			"carbs_target_g":       llm.Schema{"type": "number"},
			"fat_target_g":         llm.Schema{"type": "number"},
			"rationale":            llm.Schema{"type": "string"},
		},
	}
}

// RecalculateTargetsAI asks the inference service to refine the formula
// targets using the full profile context, then persists the result.
func (s *ProfileService) RecalculateTargetsAI(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Calculate personalized daily nutrition targets for this person:
- Age: %d, Sex: %s
- Height: %.0f cm, Current weight: %.1f kg, Goal weight: %.1f kg
- Activity level: %s
- Primary goal: %s
- Health conditions: %s
- Dietary preferences: %s

Use established nutrition science (Mifflin-St Jeor for BMR, appropriate
activity multipliers and goal adjustments). Adjust for health conditions
where relevant. Briefly explain the reasoning.

Return as JSON matching this exact structure.`,
		profile.Age, profile.Sex,
		profile.HeightCm, profile.CurrentWeightKg, profile.GoalWeightKg,
		profile.ActivityLevel,
		profile.PrimaryGoal,
		joinOr(profile.HealthConditions, "none"),
		joinOr(profile.DietaryPreferences, "none"))

	var targets aiTargets
	if err := s.inference.GenerateJSON(ctx, prompt, targetsSchema(), &targets); err != nil {
		return nil, fmt.Errorf("recalculate targets: %w", err)
	}
	if targets.DailyCalorieTarget <= 0 || targets.ProteinTargetG <= 0 ||
		targets.CarbsTargetG <= 0 || targets.FatTargetG <= 0 {
		return nil, fmt.Errorf("recalculate targets: model returned non-positive targets")
	}

	profile.DailyCalorieTarget = int(math.Round(targets.DailyCalorieTarget))
	profile.ProteinTargetG = int(math.Round(targets.ProteinTargetG))
	profile.CarbsTargetG = int(math.Round(targets.CarbsTargetG))
	profile.FatTargetG = int(math.Round(targets.FatTargetG))

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	logger.Info("targets recalculated",
		zap.String("user_id", userID),
		zap.Int("daily_calorie_target", profile.DailyCalorieTarget))
	return profile, nil
}

// DeleteAccountData removes every record belonging to the user across all
// tables in one transaction.
func (s *ProfileService) DeleteAccountData(userID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.FoodLogEntry{},
			&models.DailyProgress{},
			&models.MealPlan{},
			&models.WorkoutPlan{},
			&models.GroceryList{},
			&models.MealPlanTracking{},
			&models.Milestone{},
			&models.UserProfile{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete account data: %w", err)
	}

	logger.Info("account data deleted", zap.String("user_id", userID))
	return nil
}
