package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/habitloop/health-backend/llm"
	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/models"
)

// Point awards for gamification. Streak increments on meal logs only.
const (
	mealLogPoints         = 10
	workoutCompletePoints = 20
)

var validMealTypes = map[models.MealType]bool{
	models.MealBreakfast: true,
	models.MealLunch:     true,
	models.MealDinner:    true,
	models.MealSnack:     true,
}

// ProgressService folds meal-log and workout events into the daily progress
// record and the profile's gamification state. Updates are read-modify-write
// against the store with no concurrency token; two near-simultaneous logs
// for the same day can lose one update. Re-applying the same event
// double-counts; at-most-once delivery is the caller's responsibility.
type ProgressService struct {
	db        *gorm.DB
	inference Inference
}

func NewProgressService(db *gorm.DB, inference Inference) *ProgressService {
	return &ProgressService{db: db, inference: inference}
}

// MealAnalysis is the structured result of analyzing a free-text meal
// description.
type MealAnalysis struct {
	FoodItems        []models.FoodItem `json:"food_items"`
	TotalCalories    float64           `json:"total_calories"`
	TotalProteinG    float64           `json:"total_protein_g"`
	TotalCarbsG      float64           `json:"total_carbs_g"`
	TotalFatG        float64           `json:"total_fat_g"`
	HealthinessScore int               `json:"healthiness_score"`
	AISuggestions    string            `json:"ai_suggestions"`
}

func mealAnalysisSchema() llm.Schema {
	return llm.Schema{
		"type": "object",
		"properties": llm.Schema{
			"food_items": llm.Schema{
				"type": "array",
				"items": llm.Schema{
					"type": "object",
					"properties": llm.Schema{
						"name":      llm.Schema{"type": "string"},
						"portion":   llm.Schema{"type": "string"},
						"calories":  llm.Schema{"type": "number"},
						"protein_g": llm.Schema{"type": "number"},
						"carbs_g":   llm.Schema{"type": "number"},
						"fat_g":     llm.Schema{"type": "number"},
					},
				},
			},
			"total_calories":    llm.Schema{"type": "number"},
			"total_protein_g":   llm.Schema{"type": "number"},
			"total_carbs_g":     llm.Schema{"type": "number"},
			"total_fat_g":       llm.Schema{"type": "number"},
			"healthiness_score": llm.Schema{"type": "integer"},
			"ai_suggestions":    llm.Schema{"type": "string"},
		},
	}
}

// AnalyzeMeal asks the inference service for a nutrient breakdown of a
// free-text meal description.
func (s *ProgressService) AnalyzeMeal(ctx context.Context, description string) (*MealAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze this meal and extract nutrition information. Meal description: %q

Break down the foods into individual items with portions and estimate:
- Calories
- Protein (g)
- Carbs (g)
- Fat (g)

Also provide:
- A healthiness score from 1-10
- 2-3 suggestions for healthier alternatives or improvements
- Keep cultural context and preferences in mind

Return as JSON matching this exact structure.`, description)

	var analysis MealAnalysis
	if err := s.inference.GenerateJSON(ctx, prompt, mealAnalysisSchema(), &analysis); err != nil {
		return nil, fmt.Errorf("analyze meal: %w", err)
	}
	return &analysis, nil
}

// LogMealInput is the caller's meal log submission.
type LogMealInput struct {
	MealType    models.MealType `json:"meal_type"`
	MealDate    string          `json:"meal_date"` // YYYY-MM-DD, defaults to today
	Description string          `json:"description"`
}

// LogMeal analyzes the description, stores the immutable food log entry,
// folds its totals into the day's progress record and awards streak and
// points.
func (s *ProgressService) LogMeal(ctx context.Context, userID string, in LogMealInput) (*models.FoodLogEntry, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: meal description is required", ErrInvalidInput)
	}
	if !validMealTypes[in.MealType] {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrInvalidInput, in.MealType)
	}
	if in.MealDate == "" {
		in.MealDate = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", in.MealDate); err != nil {
		return nil, fmt.Errorf("%w: invalid meal date %q (expected YYYY-MM-DD)", ErrInvalidInput, in.MealDate)
	}

	analysis, err := s.AnalyzeMeal(ctx, in.Description)
	if err != nil {
		return nil, err
	}

	entry := &models.FoodLogEntry{
		UserID:           userID,
		MealType:         in.MealType,
		MealDate:         in.MealDate,
		MealTime:         time.Now().Format("15:04"),
		Notes:            in.Description,
		FoodItems:        analysis.FoodItems,
		TotalCalories:    analysis.TotalCalories,
		TotalProteinG:    analysis.TotalProteinG,
		TotalCarbsG:      analysis.TotalCarbsG,
		TotalFatG:        analysis.TotalFatG,
		HealthinessScore: analysis.HealthinessScore,
		AISuggestions:    analysis.AISuggestions,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("create food log entry: %w", err)
	}

	if _, err := s.ApplyMealToProgress(userID, in.MealDate, analysis); err != nil {
		return nil, err
	}

	if err := s.awardMealPoints(userID); err != nil {
		return nil, err
	}

	logger.Info("meal logged",
		zap.String("user_id", userID),
		zap.String("meal_type", string(in.MealType)),
		zap.Float64("calories", analysis.TotalCalories))
	return entry, nil
}

// ApplyMealToProgress adds one meal's totals to the (user, date) progress
// record, creating it with zeroed fields first if the day has none yet.
func (s *ProgressService) ApplyMealToProgress(userID, date string, analysis *MealAnalysis) (*models.DailyProgress, error) {
	var progress models.DailyProgress
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load daily progress: %w", err)
		}
		progress = models.DailyProgress{UserID: userID, Date: date}
	}

	progress.CaloriesConsumed += analysis.TotalCalories
	progress.ProteinConsumedG += analysis.TotalProteinG
	progress.CarbsConsumedG += analysis.TotalCarbsG
	progress.FatConsumedG += analysis.TotalFatG
	progress.MealsLogged++

	if err := s.db.Save(&progress).Error; err != nil {
		return nil, fmt.Errorf("save daily progress: %w", err)
	}
	return &progress, nil
}

func (s *ProgressService) awardMealPoints(userID string) error {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	profile.CurrentStreak++
	profile.TotalPoints += mealLogPoints
	if err := s.db.Save(&profile).Error; err != nil {
		return fmt.Errorf("update gamification state: %w", err)
	}
	return nil
}

// CompleteWorkout marks today's workout done and awards points. The streak
// is unchanged; only meal logs advance it.
func (s *ProgressService) CompleteWorkout(userID, date string) (*models.DailyProgress, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var progress models.DailyProgress
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load daily progress: %w", err)
		}
		progress = models.DailyProgress{UserID: userID, Date: date}
	}

	progress.WorkoutCompleted = true
	if err := s.db.Save(&progress).Error; err != nil {
		return nil, fmt.Errorf("save daily progress: %w", err)
	}

	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	profile.TotalPoints += workoutCompletePoints
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("update gamification state: %w", err)
	}

	logger.Info("workout completed", zap.String("user_id", userID), zap.String("date", date))
	return &progress, nil
}

// LogWeight records a weight sample on the day's progress record.
func (s *ProgressService) LogWeight(userID, date string, weightKg float64) (*models.DailyProgress, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var progress models.DailyProgress
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&progress).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load daily progress: %w", err)
		}
		progress = models.DailyProgress{UserID: userID, Date: date}
	}

	progress.WeightKg = &weightKg
	if err := s.db.Save(&progress).Error; err != nil {
		return nil, fmt.Errorf("save daily progress: %w", err)
	}
	return &progress, nil
}

// ListDailyProgress returns up to limit records, most recent date first.
func (s *ProgressService) ListDailyProgress(userID string, limit int) ([]models.DailyProgress, error) {
	query := s.db.Where("user_id = ?", userID).Order("date desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []models.DailyProgress
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list daily progress: %w", err)
	}
	return records, nil
}

// ListFoodLogs returns the user's food log entries for one date, newest
// first.
func (s *ProgressService) ListFoodLogs(userID, date string) ([]models.FoodLogEntry, error) {
	var entries []models.FoodLogEntry
	err := s.db.Where("user_id = ? AND meal_date = ?", userID, date).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list food logs: %w", err)
	}
	return entries, nil
}
