package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/habitloop/health-backend/database"
	"github.com/habitloop/health-backend/llm"
	"github.com/habitloop/health-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// stubInference answers every GenerateJSON call with a canned payload and
// records the prompts it saw.
type stubInference struct {
	payload interface{}
	err     error
	prompts []string
}

func (s *stubInference) GenerateJSON(_ context.Context, prompt string, _ llm.Schema, out interface{}) error {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return s.err
	}
	data, err := json.Marshal(s.payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func seedProfile(t *testing.T, db *gorm.DB, userID string) *models.UserProfile {
	t.Helper()

	profile := &models.UserProfile{
		UserID:              userID,
		Age:                 30,
		Sex:                 models.SexMale,
		HeightCm:            175,
		CurrentWeightKg:     70,
		GoalWeightKg:        68,
		ActivityLevel:       models.ActivityModeratelyActive,
		PrimaryGoal:         models.GoalMaintainWeight,
		DailyCalorieTarget:  2556,
		ProteinTargetG:      192,
		CarbsTargetG:        256,
		FatTargetG:          85,
		OnboardingCompleted: true,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

func sampleDailyPlans(days int) []models.DailyPlan {
	meal := func(name string, calories float64, ingredients ...string) *models.PlannedMeal {
		return &models.PlannedMeal{
			MealName:    name,
			Ingredients: ingredients,
			Calories:    calories,
			PrepTimeMin: 20,
		}
	}

	plans := make([]models.DailyPlan, days)
	for i := range plans {
		plans[i] = models.DailyPlan{
			Day:       fmt.Sprintf("Day %d", i+1),
			Breakfast: meal("Oatmeal", 400, "1 cup oats", "1 banana"),
			Lunch:     meal("Chicken bowl", 650, "1 lb chicken", "2 cups rice"),
			Dinner:    meal("Salmon and veg", 700, "1 salmon fillet", "2 cups broccoli"),
			Snacks: []models.PlannedSnack{
				{Name: "Greek yogurt", Calories: 150},
				{Name: "Almonds", Calories: 180},
			},
		}
	}
	return plans
}
