package services_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/habitloop/health-backend/models"
	"github.com/habitloop/health-backend/services"
)

func TestDurationDays(t *testing.T) {
	cases := map[services.PlanDuration]int{
		services.DurationOneWeek:     7,
		services.DurationOneMonth:    30,
		services.DurationThreeMonths: 90,
		services.DurationSixMonths:   180,
		"fortnight":                  7, // unknown defaults to a week
		"":                           7,
	}
	for duration, want := range cases {
		if got := services.DurationDays(duration); got != want {
			t.Errorf("DurationDays(%q) = %d, want %d", duration, got, want)
		}
	}
}

func logWith(mealType models.MealType, foods ...string) models.FoodLogEntry {
	entry := models.FoodLogEntry{MealType: mealType}
	for _, f := range foods {
		entry.FoodItems = append(entry.FoodItems, models.FoodItem{Name: f})
	}
	return entry
}

func TestAnalyzeFoodHabitsFrequencyOrder(t *testing.T) {
	logs := []models.FoodLogEntry{
		logWith(models.MealBreakfast, "oats", "banana"),
		logWith(models.MealLunch, "rice", "chicken", "oats"),
		logWith(models.MealDinner, "rice", "banana"),
	}

	summary := services.AnalyzeFoodHabits(logs)

	if summary.TotalLogged != 3 {
		t.Errorf("TotalLogged = %d, want 3", summary.TotalLogged)
	}
	// oats, banana and rice all appear twice; ties keep first-observed order.
	want := []string{"oats", "banana", "rice", "chicken"}
	if !reflect.DeepEqual(summary.FrequentFoods, want) {
		t.Errorf("FrequentFoods = %v, want %v", summary.FrequentFoods, want)
	}
	if summary.MealTypeCounts[models.MealBreakfast] != 1 || summary.MealTypeCounts[models.MealLunch] != 1 {
		t.Errorf("unexpected meal type counts: %v", summary.MealTypeCounts)
	}
}

func TestAnalyzeFoodHabitsTopTenCap(t *testing.T) {
	var logs []models.FoodLogEntry
	for i := 0; i < 15; i++ {
		logs = append(logs, logWith(models.MealLunch, fmt.Sprintf("food-%02d", i)))
	}

	summary := services.AnalyzeFoodHabits(logs)
	if len(summary.FrequentFoods) != 10 {
		t.Fatalf("FrequentFoods has %d entries, want 10", len(summary.FrequentFoods))
	}
	// All counts equal, so the cap keeps the first ten observed.
	if summary.FrequentFoods[0] != "food-00" || summary.FrequentFoods[9] != "food-09" {
		t.Errorf("unexpected cap order: %v", summary.FrequentFoods)
	}
}

func TestBuildMealPlanRequestDefaults(t *testing.T) {
	profile := &models.UserProfile{
		DailyCalorieTarget: 2594,
		ProteinTargetG:     195,
		CarbsTargetG:       259,
		FatTargetG:         86,
		PrimaryGoal:        models.GoalMaintainWeight,
		ActivityLevel:      models.ActivityModeratelyActive,
	}
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	req := services.BuildMealPlanRequest(profile, nil, services.MealPlanOptions{Duration: services.DurationOneWeek}, start)

	if req.Days != 7 {
		t.Errorf("Days = %d, want 7", req.Days)
	}
	if req.CalorieTarget != 2594 || req.ProteinTarget != 195 {
		t.Errorf("targets = %d kcal / %dg protein, want profile values", req.CalorieTarget, req.ProteinTarget)
	}
	if req.MaxPrepTimeMin != 60 {
		t.Errorf("MaxPrepTimeMin = %d, want default 60", req.MaxPrepTimeMin)
	}
	for _, want := range []string{
		"COMPLETE 7-DAY MEAL PLAN",
		"March 2, 2026 (Monday)",
		"Day 1 (Mar 2)",
		"Day 7 (Mar 8)",
		"Daily calories: 2594 cal",
		"No previous meals logged",
	} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildMealPlanRequestCustomNutrition(t *testing.T) {
	profile := &models.UserProfile{
		DailyCalorieTarget: 2594,
		ProteinTargetG:     195,
		CarbsTargetG:       259,
		FatTargetG:         86,
	}

	req := services.BuildMealPlanRequest(profile, nil, services.MealPlanOptions{
		UseCustomNutrition: true,
		CustomCalories:     1800,
		CustomProtein:      150,
		// zero custom carbs/fat keep the profile values
	}, time.Now())

	if req.CalorieTarget != 1800 || req.ProteinTarget != 150 {
		t.Errorf("custom targets not applied: %d kcal / %dg protein", req.CalorieTarget, req.ProteinTarget)
	}
	if req.CarbsTarget != 259 || req.FatTarget != 86 {
		t.Errorf("zero custom values should keep profile targets, got %dg carbs / %dg fat", req.CarbsTarget, req.FatTarget)
	}
}

func TestBuildMealPlanRequestMergesLists(t *testing.T) {
	profile := &models.UserProfile{
		DietaryPreferences: []string{"vegetarian"},
		DislikedFoods:      []string{"mushrooms"},
		FavoriteFoods:      []string{"paneer"},
	}
	logs := []models.FoodLogEntry{logWith(models.MealLunch, "rice")}

	req := services.BuildMealPlanRequest(profile, logs, services.MealPlanOptions{
		DietaryRestrictions: []string{"vegetarian", "low-sodium"},
		OtherRestrictions:   " no gluten ,  ",
		AvoidFoods:          "olives",
		PreferredFoods:      "lentils, tofu",
	}, time.Now())

	// Profile and option lists concatenate in order; duplicates pass through.
	wantRestrictions := []string{"vegetarian", "vegetarian", "low-sodium", "no gluten"}
	if !reflect.DeepEqual(req.Restrictions, wantRestrictions) {
		t.Errorf("Restrictions = %v, want %v", req.Restrictions, wantRestrictions)
	}
	wantAvoid := []string{"mushrooms", "olives"}
	if !reflect.DeepEqual(req.AvoidFoods, wantAvoid) {
		t.Errorf("AvoidFoods = %v, want %v", req.AvoidFoods, wantAvoid)
	}
	wantPreferred := []string{"paneer", "rice", "lentils", "tofu"}
	if !reflect.DeepEqual(req.PreferredFoods, wantPreferred) {
		t.Errorf("PreferredFoods = %v, want %v", req.PreferredFoods, wantPreferred)
	}
	if !strings.Contains(req.Prompt, "Total meals logged: 1") {
		t.Error("prompt missing habit analysis for logged meals")
	}
}

func TestBuildWorkoutPlanRequest(t *testing.T) {
	profile := &models.UserProfile{
		Age:              30,
		PrimaryGoal:      models.GoalGainMuscle,
		ActivityLevel:    models.ActivityLightlyActive,
		HealthConditions: []string{"asthma"},
	}

	req := services.BuildWorkoutPlanRequest(profile)
	for _, want := range []string{"gain_muscle", "lightly_active", "Age: 30", "asthma"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if req.ResponseSchema == nil {
		t.Error("ResponseSchema is nil")
	}
}
