package services

import (
	"fmt"
	"math"

	"github.com/habitloop/health-backend/models"
)

// activityMultipliers maps activity level to its TDEE multiplier. This is the
// single source of truth for valid activity levels and doubles as input
// validation.
var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtremelyActive:  1.9,
}

// goalAdjustments shifts TDEE by the user's primary goal. Goals absent from
// the table leave the target at TDEE.
var goalAdjustments = map[models.PrimaryGoal]float64{
	models.GoalLoseWeight: -500,
	models.GoalGainMuscle: +300,
}

var validGoals = map[models.PrimaryGoal]bool{
	models.GoalLoseWeight:     true,
	models.GoalGainMuscle:     true,
	models.GoalMaintainWeight: true,
	models.GoalImproveHealth:  true,
	models.GoalIncreaseEnergy: true,
}

// Mifflin-St Jeor sex offsets. The formula only defines male and female;
// other/prefer_not_to_say uses the midpoint of the two published offsets so
// the result stays deterministic.
const (
	sexOffsetMale   = 5
	sexOffsetFemale = -161
	sexOffsetOther  = -78
)

// BiometricInput is everything target calculation needs. All fields required.
type BiometricInput struct {
	WeightKg      float64
	HeightCm      float64
	Age           int
	Sex           models.Sex
	ActivityLevel models.ActivityLevel
	PrimaryGoal   models.PrimaryGoal
}

// NutritionTargets are the derived daily targets, always positive integers.
type NutritionTargets struct {
	DailyCalorieTarget int `json:"daily_calorie_target"`
	ProteinTargetG     int `json:"protein_target_g"`
	CarbsTargetG       int `json:"carbs_target_g"`
	FatTargetG         int `json:"fat_target_g"`
}

// CalculateTargets computes BMR via Mifflin-St Jeor, scales by activity
// level, applies the goal adjustment and derives a 30/40/30
// protein/carbs/fat split (4/4/9 kcal per gram), rounding each to the
// nearest gram.
func CalculateTargets(in BiometricInput) (NutritionTargets, error) {
	if in.WeightKg <= 0 || in.HeightCm <= 0 || in.Age <= 0 {
		return NutritionTargets{}, fmt.Errorf("%w: weight, height and age must be positive", ErrInvalidInput)
	}

	mult, ok := activityMultipliers[in.ActivityLevel]
	if !ok {
		return NutritionTargets{}, fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, in.ActivityLevel)
	}
	if !validGoals[in.PrimaryGoal] {
		return NutritionTargets{}, fmt.Errorf("%w: unknown primary goal %q", ErrInvalidInput, in.PrimaryGoal)
	}

	var offset float64
	switch in.Sex {
	case models.SexMale:
		offset = sexOffsetMale
	case models.SexFemale:
		offset = sexOffsetFemale
	case models.SexOther, models.SexPreferNotToSay:
		offset = sexOffsetOther
	default:
		return NutritionTargets{}, fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, in.Sex)
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*float64(in.Age) + offset
	tdee := bmr*mult + goalAdjustments[in.PrimaryGoal]

	if tdee <= 0 {
		return NutritionTargets{}, fmt.Errorf("%w: inputs produce a non-positive calorie target", ErrInvalidInput)
	}

	targets := NutritionTargets{
		DailyCalorieTarget: int(math.Round(tdee)),
		ProteinTargetG:     int(math.Round(tdee * 0.3 / 4)),
		CarbsTargetG:       int(math.Round(tdee * 0.4 / 4)),
		FatTargetG:         int(math.Round(tdee * 0.3 / 9)),
	}

	if targets.ProteinTargetG <= 0 || targets.CarbsTargetG <= 0 || targets.FatTargetG <= 0 {
		return NutritionTargets{}, fmt.Errorf("%w: inputs produce non-positive macro targets", ErrInvalidInput)
	}

	return targets, nil
}
