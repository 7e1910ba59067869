package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/habitloop/health-backend/llm"
	"github.com/habitloop/health-backend/models"
)

// PlanDuration selects how many days a generated meal plan covers. The month
// mappings are fixed day counts, not calendar-accurate.
type PlanDuration string

const (
	DurationOneWeek     PlanDuration = "1_week"
	DurationOneMonth    PlanDuration = "1_month"
	DurationThreeMonths PlanDuration = "3_months"
	DurationSixMonths   PlanDuration = "6_months"
)

// DurationDays maps a duration selector to its day count. Unknown values
// default to a week.
func DurationDays(d PlanDuration) int {
	switch d {
	case DurationOneWeek:
		return 7
	case DurationOneMonth:
		return 30
	case DurationThreeMonths:
		return 90
	case DurationSixMonths:
		return 180
	default:
		return 7
	}
}

// MealPlanOptions carries the user's per-generation customization.
type MealPlanOptions struct {
	Duration            PlanDuration `json:"duration"`
	MaxPrepTimeMin      int          `json:"max_prep_time"`
	DietaryRestrictions []string     `json:"dietary_restrictions"`
	OtherRestrictions   string       `json:"other_restrictions"` // comma-separated free text
	PreferredFoods      string       `json:"preferred_foods"`    // comma-separated free text
	AvoidFoods          string       `json:"avoid_foods"`        // comma-separated free text

	UseCustomNutrition bool `json:"use_custom_nutrition"`
	CustomCalories     int  `json:"custom_calories"`
	CustomProtein      int  `json:"custom_protein"`
	CustomCarbs        int  `json:"custom_carbs"`
	CustomFat          int  `json:"custom_fat"`
}

// HabitSummary aggregates recent food logs to bias generation toward what the
// user actually eats.
type HabitSummary struct {
	TotalLogged    int
	MealTypeCounts map[models.MealType]int
	FrequentFoods  []string // top 10 by count desc, ties by first observation
}

// AnalyzeFoodHabits builds the frequency table over the given logs. Frequent
// foods are the ten most common item names; count ties keep the order the
// foods were first seen.
func AnalyzeFoodHabits(logs []models.FoodLogEntry) HabitSummary {
	summary := HabitSummary{
		TotalLogged:    len(logs),
		MealTypeCounts: make(map[models.MealType]int),
	}

	counts := make(map[string]int)
	var order []string
	for _, log := range logs {
		summary.MealTypeCounts[log.MealType]++
		for _, item := range log.FoodItems {
			if counts[item.Name] == 0 {
				order = append(order, item.Name)
			}
			counts[item.Name]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 10 {
		order = order[:10]
	}
	summary.FrequentFoods = order
	return summary
}

// PlanRequest is a fully assembled structured generation request for a meal
// plan: the prompt, the expected response schema, and the expectations the
// response is validated against afterwards.
type PlanRequest struct {
	Days      int
	StartDate time.Time

	CalorieTarget int
	ProteinTarget int
	CarbsTarget   int
	FatTarget     int

	Restrictions   []string
	PreferredFoods []string
	AvoidFoods     []string
	MaxPrepTimeMin int

	Prompt         string
	ResponseSchema llm.Schema
}

// splitCommaList splits free text on commas, trimming whitespace and dropping
// empty entries.
func splitCommaList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// concatLists merges string lists by ordering-preserving concatenation.
// Duplicates pass through on purpose; the prompt tolerates them and dedup
// would change observed behavior.
func concatLists(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// BuildMealPlanRequest turns the profile, recent logs and customization into
// a generation request. Pure transform; the caller invokes the inference
// service with the result.
func BuildMealPlanRequest(profile *models.UserProfile, logs []models.FoodLogEntry, opts MealPlanOptions, startDate time.Time) PlanRequest {
	days := DurationDays(opts.Duration)
	habits := AnalyzeFoodHabits(logs)

	restrictions := concatLists(
		profile.DietaryPreferences,
		opts.DietaryRestrictions,
		splitCommaList(opts.OtherRestrictions),
	)
	avoid := concatLists(profile.DislikedFoods, splitCommaList(opts.AvoidFoods))
	preferred := concatLists(profile.FavoriteFoods, habits.FrequentFoods, splitCommaList(opts.PreferredFoods))

	calorieTarget := profile.DailyCalorieTarget
	proteinTarget := profile.ProteinTargetG
	carbsTarget := profile.CarbsTargetG
	fatTarget := profile.FatTargetG
	if opts.UseCustomNutrition {
		if opts.CustomCalories > 0 {
			calorieTarget = opts.CustomCalories
		}
		if opts.CustomProtein > 0 {
			proteinTarget = opts.CustomProtein
		}
		if opts.CustomCarbs > 0 {
			carbsTarget = opts.CustomCarbs
		}
		if opts.CustomFat > 0 {
			fatTarget = opts.CustomFat
		}
	}

	maxPrep := opts.MaxPrepTimeMin
	if maxPrep <= 0 {
		maxPrep = 60
	}

	habitAnalysis := "No previous meals logged - will create plan based on preferences"
	if habits.TotalLogged > 0 {
		top := habits.FrequentFoods
		if len(top) > 5 {
			top = top[:5]
		}
		habitAnalysis = fmt.Sprintf(`Eating Pattern Analysis:
- Total meals logged: %d
- Breakfast habits: %d logged
- Lunch habits: %d logged
- Dinner habits: %d logged
- Most frequent foods: %s`,
			habits.TotalLogged,
			habits.MealTypeCounts[models.MealBreakfast],
			habits.MealTypeCounts[models.MealLunch],
			habits.MealTypeCounts[models.MealDinner],
			strings.Join(top, ", "))
	}

	// The inference service routinely under-delivers on array lengths, so the
	// prompt states the required day count several times and the response is
	// still validated afterwards.
	prompt := fmt.Sprintf(`YOU MUST CREATE A COMPLETE %[1]d-DAY MEAL PLAN. DO NOT CREATE LESS THAN %[1]d DAYS.

I REPEAT: YOU MUST GENERATE EXACTLY %[1]d DAYS OF MEALS. NOT %[2]d, BUT EXACTLY %[1]d DAYS.

EACH DAY MUST INCLUDE:
- Breakfast with full details
- Lunch with full details
- Dinner with full details
- 2 snack options

START DATE: %[3]s

**User Requirements:**
- Daily calories: %[4]d cal
- Protein: %[5]dg | Carbs: %[6]dg | Fat: %[7]dg
- Goal: %[8]s
- Activity: %[9]s
- Health: %[10]s
- Dietary restrictions: %[11]s
- Preferred foods: %[12]s
- Avoid: %[13]s
- Max prep time: %[14]d minutes

**%[15]s**

**MANDATORY OUTPUT:**
Generate %[1]d complete days. Label each day as:
- Day 1 (%[16]s)
- Day 2 (%[17]s)
... continuing through Day %[1]d (%[18]s)

For EVERY SINGLE DAY (all %[1]d days), provide:
- Complete breakfast, lunch, dinner
- EXACT ingredient quantities (e.g., "2 cups rice", "1 lb chicken")
- Precise macros per meal
- Prep time per meal
- DETAILED cooking instructions (5+ steps)
- 2 snacks

Variety across all %[1]d days while using preferred foods.`,
		days,
		days-1,
		startDate.Format("January 2, 2006 (Monday)"),
		calorieTarget,
		proteinTarget,
		carbsTarget,
		fatTarget,
		profile.PrimaryGoal,
		profile.ActivityLevel,
		joinOr(profile.HealthConditions, "None"),
		joinOr(restrictions, "None"),
		joinOr(preferred, "Variety"),
		joinOr(avoid, "None"),
		maxPrep,
		habitAnalysis,
		startDate.Format("Jan 2"),
		startDate.AddDate(0, 0, 1).Format("Jan 2"),
		startDate.AddDate(0, 0, days-1).Format("Jan 2"),
	)

	return PlanRequest{
		Days:           days,
		StartDate:      startDate,
		CalorieTarget:  calorieTarget,
		ProteinTarget:  proteinTarget,
		CarbsTarget:    carbsTarget,
		FatTarget:      fatTarget,
		Restrictions:   restrictions,
		PreferredFoods: preferred,
		AvoidFoods:     avoid,
		MaxPrepTimeMin: maxPrep,
		Prompt:         prompt,
		ResponseSchema: mealPlanSchema(),
	}
}

func mealSchema() llm.Schema {
	return llm.Schema{
		"type": "object",
		"properties": llm.Schema{
			"meal_name":     llm.Schema{"type": "string"},
			"ingredients":   llm.Schema{"type": "array", "items": llm.Schema{"type": "string"}},
			"calories":      llm.Schema{"type": "number"},
			"protein_g":     llm.Schema{"type": "number"},
			"carbs_g":       llm.Schema{"type": "number"},
			"fat_g":         llm.Schema{"type": "number"},
			"prep_time_min": llm.Schema{"type": "integer"},
			"instructions":  llm.Schema{"type": "string"},
		},
	}
}

func mealPlanSchema() llm.Schema {
	return llm.Schema{
		"type": "object",
		"properties": llm.Schema{
			"daily_plans": llm.Schema{
				"type": "array",
				"items": llm.Schema{
					"type": "object",
					"properties": llm.Schema{
						"day":       llm.Schema{"type": "string"},
						"breakfast": mealSchema(),
						"lunch":     mealSchema(),
						"dinner":    mealSchema(),
						"snacks": llm.Schema{
							"type": "array",
							"items": llm.Schema{
								"type": "object",
								"properties": llm.Schema{
									"name":     llm.Schema{"type": "string"},
									"calories": llm.Schema{"type": "number"},
								},
							},
						},
					},
				},
			},
			"ai_notes": llm.Schema{"type": "string"},
		},
	}
}

// WorkoutRequest is the structured generation request for a workout plan.
type WorkoutRequest struct {
	Prompt         string
	ResponseSchema llm.Schema
}

// BuildWorkoutPlanRequest assembles the workout generation request from the
// profile's goal, activity level, age and health conditions.
func BuildWorkoutPlanRequest(profile *models.UserProfile) WorkoutRequest {
	prompt := fmt.Sprintf(`Create a personalized workout plan for a user with these details:

**Profile:**
- Primary goal: %s
- Activity level: %s
- Age: %d
- Health conditions: %s

Create a 4-week workout plan with 4-5 workouts per week that:
1. Aligns with their fitness goal and current activity level
2. Considers their age and any health conditions
3. Includes progressive overload
4. Provides variety (strength, cardio, flexibility)
5. Can be done with minimal equipment (bodyweight, dumbbells, resistance bands)

For each workout day, provide:
- Day name (e.g., "Monday", "Tuesday")
- Workout type (e.g., "Upper Body Strength", "Cardio", "Full Body")
- Duration in minutes
- List of exercises with sets, reps, and rest periods
- Brief notes on form or modifications
- Estimated calories burned

Also include a brief explanation of why this plan fits their goals.`,
		profile.PrimaryGoal,
		profile.ActivityLevel,
		profile.Age,
		joinOr(profile.HealthConditions, "None"),
	)

	return WorkoutRequest{
		Prompt:         prompt,
		ResponseSchema: workoutPlanSchema(),
	}
}

func workoutPlanSchema() llm.Schema {
	return llm.Schema{
		"type": "object",
		"properties": llm.Schema{
			"plan_name": llm.Schema{"type": "string"},
			"fitness_level": llm.Schema{
				"type": "string",
				"enum": []string{"beginner", "intermediate", "advanced"},
			},
			"weekly_schedule": llm.Schema{
				"type": "array",
				"items": llm.Schema{
					"type": "object",
					"properties": llm.Schema{
						"day":          llm.Schema{"type": "string"},
						"workout_type": llm.Schema{"type": "string"},
						"duration_min": llm.Schema{"type": "integer"},
						"exercises": llm.Schema{
							"type": "array",
							"items": llm.Schema{
								"type": "object",
								"properties": llm.Schema{
									"name":     llm.Schema{"type": "string"},
									"sets":     llm.Schema{"type": "integer"},
									"reps":     llm.Schema{"type": "string"},
									"rest_sec": llm.Schema{"type": "integer"},
									"notes":    llm.Schema{"type": "string"},
								},
							},
						},
						"calories_burned_estimate": llm.Schema{"type": "number"},
					},
				},
			},
			"ai_rationale": llm.Schema{"type": "string"},
		},
	}
}
