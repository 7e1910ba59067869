package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityLevel scales BMR into total daily energy expenditure.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// PrimaryGoal is the user's stated objective; it shifts the calorie target.
type PrimaryGoal string

const (
	GoalLoseWeight     PrimaryGoal = "lose_weight"
	GoalGainMuscle     PrimaryGoal = "gain_muscle"
	GoalMaintainWeight PrimaryGoal = "maintain_weight"
	GoalImproveHealth  PrimaryGoal = "improve_health"
	GoalIncreaseEnergy PrimaryGoal = "increase_energy"
)

type Sex string

const (
	SexMale           Sex = "male"
	SexFemale         Sex = "female"
	SexOther          Sex = "other"
	SexPreferNotToSay Sex = "prefer_not_to_say"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// UserProfile holds biometrics, derived nutrition targets, food preferences
// and gamification state. One row per user, created when onboarding completes.
type UserProfile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:255;uniqueIndex;not null" json:"user_id"`

	Age             int           `gorm:"not null" json:"age"`
	Sex             Sex           `gorm:"size:32;not null" json:"sex"`
	HeightCm        float64       `gorm:"not null" json:"height_cm"`
	CurrentWeightKg float64       `gorm:"not null" json:"current_weight_kg"`
	GoalWeightKg    float64       `json:"goal_weight_kg"`
	ActivityLevel   ActivityLevel `gorm:"size:32;not null" json:"activity_level"`
	PrimaryGoal     PrimaryGoal   `gorm:"size:32;not null" json:"primary_goal"`

	HealthConditions   []string `gorm:"serializer:json" json:"health_conditions"`
	DietaryPreferences []string `gorm:"serializer:json" json:"dietary_preferences"`
	FavoriteFoods      []string `gorm:"serializer:json" json:"favorite_foods"`
	DislikedFoods      []string `gorm:"serializer:json" json:"disliked_foods"`

	DailyCalorieTarget int `gorm:"not null" json:"daily_calorie_target"`
	ProteinTargetG     int `gorm:"not null" json:"protein_target_g"`
	CarbsTargetG       int `gorm:"not null" json:"carbs_target_g"`
	FatTargetG         int `gorm:"not null" json:"fat_target_g"`

	CurrentStreak       int  `gorm:"default:0" json:"current_streak"`
	TotalPoints         int  `gorm:"default:0" json:"total_points"`
	OnboardingCompleted bool `gorm:"default:false" json:"onboarding_completed"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FoodItem is one analyzed component of a logged meal.
type FoodItem struct {
	Name     string  `json:"name"`
	Portion  string  `json:"portion"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// FoodLogEntry is an immutable record of one logged meal with its AI-analyzed
// nutrient breakdown.
type FoodLogEntry struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:255;index;not null" json:"user_id"`

	MealType MealType `gorm:"size:16;not null" json:"meal_type"`
	MealDate string   `gorm:"size:10;index;not null" json:"meal_date"` // YYYY-MM-DD
	MealTime string   `gorm:"size:5" json:"meal_time"`                 // HH:MM
	Notes    string   `gorm:"type:text" json:"notes"`

	FoodItems []FoodItem `gorm:"serializer:json" json:"food_items"`

	TotalCalories float64 `json:"total_calories"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalFatG     float64 `json:"total_fat_g"`

	HealthinessScore int    `json:"healthiness_score"` // 1-10
	AISuggestions    string `gorm:"type:text" json:"ai_suggestions"`

	CreatedAt time.Time `json:"created_at"`
}

// DailyProgress accumulates the day's consumption. At most one row per
// (user, date); numeric fields are running sums of that day's food logs.
type DailyProgress struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:255;not null;uniqueIndex:idx_user_date" json:"user_id"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_user_date" json:"date"`

	CaloriesConsumed float64 `gorm:"default:0" json:"calories_consumed"`
	ProteinConsumedG float64 `gorm:"default:0" json:"protein_consumed_g"`
	CarbsConsumedG   float64 `gorm:"default:0" json:"carbs_consumed_g"`
	FatConsumedG     float64 `gorm:"default:0" json:"fat_consumed_g"`
	MealsLogged      int     `gorm:"default:0" json:"meals_logged"`

	WorkoutCompleted bool     `gorm:"default:false" json:"workout_completed"`
	WeightKg         *float64 `json:"weight_kg,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlannedMeal is one generated meal within a daily plan.
type PlannedMeal struct {
	MealName     string   `json:"meal_name"`
	Ingredients  []string `json:"ingredients"`
	Calories     float64  `json:"calories"`
	ProteinG     float64  `json:"protein_g"`
	CarbsG       float64  `json:"carbs_g"`
	FatG         float64  `json:"fat_g"`
	PrepTimeMin  int      `json:"prep_time_min"`
	Instructions string   `json:"instructions"`
}

// PlannedSnack is a lightweight snack suggestion; snacks do not count toward
// plan calorie totals.
type PlannedSnack struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// DailyPlan is one day of a meal plan.
type DailyPlan struct {
	Day       string         `json:"day"`
	Breakfast *PlannedMeal   `json:"breakfast"`
	Lunch     *PlannedMeal   `json:"lunch"`
	Dinner    *PlannedMeal   `json:"dinner"`
	Snacks    []PlannedSnack `json:"snacks"`
}

// MealPlan is a generated multi-day plan. At most one plan per user carries
// is_active=true at any time.
type MealPlan struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:255;index;not null" json:"user_id"`

	WeekStartDate string `gorm:"size:10;not null" json:"week_start_date"`
	WeekEndDate   string `gorm:"size:10;not null" json:"week_end_date"`

	DailyPlans []DailyPlan `gorm:"serializer:json" json:"daily_plans"`

	TotalWeeklyCalories float64 `json:"total_weekly_calories"`
	BasedOnHabits       bool    `gorm:"default:false" json:"based_on_habits"`
	AINotes             string  `gorm:"type:text" json:"ai_notes"`
	IsActive            bool    `gorm:"default:false;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Exercise is one movement in a workout day.
type Exercise struct {
	Name    string `json:"name"`
	Sets    int    `json:"sets"`
	Reps    string `json:"reps"`
	RestSec int    `json:"rest_sec"`
	Notes   string `json:"notes"`
}

// WorkoutDay is one scheduled day in a workout plan.
type WorkoutDay struct {
	Day                    string     `json:"day"`
	WorkoutType            string     `json:"workout_type"`
	DurationMin            int        `json:"duration_min"`
	Exercises              []Exercise `json:"exercises"`
	CaloriesBurnedEstimate float64    `json:"calories_burned_estimate"`
}

type FitnessLevel string

const (
	FitnessBeginner     FitnessLevel = "beginner"
	FitnessIntermediate FitnessLevel = "intermediate"
	FitnessAdvanced     FitnessLevel = "advanced"
)

// WorkoutPlan mirrors MealPlan's lifecycle: at most one active per user.
type WorkoutPlan struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:255;index;not null" json:"user_id"`

	PlanName       string       `gorm:"size:255" json:"plan_name"`
	FitnessLevel   FitnessLevel `gorm:"size:16" json:"fitness_level"`
	WeeklySchedule []WorkoutDay `gorm:"serializer:json" json:"weekly_schedule"`

	Goal               string   `gorm:"size:32" json:"goal"`
	EquipmentAvailable []string `gorm:"serializer:json" json:"equipment_available"`
	WeeksDuration      int      `gorm:"default:4" json:"weeks_duration"`
	AIRationale        string   `gorm:"type:text" json:"ai_rationale"`
	IsActive           bool     `gorm:"default:false;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroceryCategory buckets consolidated grocery items.
type GroceryCategory string

const (
	CategoryProduce GroceryCategory = "produce"
	CategoryProtein GroceryCategory = "protein"
	CategoryDairy   GroceryCategory = "dairy"
	CategoryGrains  GroceryCategory = "grains"
	CategoryPantry  GroceryCategory = "pantry"
	CategorySpices  GroceryCategory = "spices"
	CategoryOther   GroceryCategory = "other"
)

// GroceryItem identity is positional within its list; the purchased toggle
// addresses items by index.
type GroceryItem struct {
	ItemName      string          `json:"item_name"`
	Quantity      string          `json:"quantity"`
	Category      GroceryCategory `json:"category"`
	EstimatedCost float64         `json:"estimated_cost"`
	Purchased     bool            `json:"purchased"`
}

// GroceryList is generated from an approved meal plan's ingredients, one list
// per plan.
type GroceryList struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     string `gorm:"size:255;index;not null" json:"user_id"`
	MealPlanID uint   `gorm:"index;not null" json:"meal_plan_id"`

	PlanDuration string        `gorm:"size:16" json:"plan_duration"`
	Items        []GroceryItem `gorm:"serializer:json" json:"items"`

	TotalEstimatedCost float64 `json:"total_estimated_cost"`
	GeneratedDate      string  `gorm:"size:10" json:"generated_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MealPlanTracking records per-day adherence against an active plan. Seven
// days are seeded when a plan is approved.
type MealPlanTracking struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     string `gorm:"size:255;index;not null" json:"user_id"`
	MealPlanID uint   `gorm:"index;not null" json:"meal_plan_id"`

	Date    string `gorm:"size:10;not null" json:"date"`
	DayName string `gorm:"size:64" json:"day_name"`

	BreakfastCompleted bool    `gorm:"default:false" json:"breakfast_completed"`
	LunchCompleted     bool    `gorm:"default:false" json:"lunch_completed"`
	DinnerCompleted    bool    `gorm:"default:false" json:"dinner_completed"`
	AdherenceScore     float64 `gorm:"default:0" json:"adherence_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Milestone is an append-only achievement record.
type Milestone struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:255;index;not null" json:"user_id"`

	Title        string `gorm:"size:255;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	PointsEarned int    `json:"points_earned"`
	AchievedDate string `gorm:"size:10" json:"achieved_date"`

	CreatedAt time.Time `json:"created_at"`
}
