package services_test

import (
	"errors"
	"math"
	"testing"

	"github.com/habitloop/health-backend/models"
	"github.com/habitloop/health-backend/services"
)

func baseInput() services.BiometricInput {
	return services.BiometricInput{
		WeightKg:      70,
		HeightCm:      175,
		Age:           30,
		Sex:           models.SexMale,
		ActivityLevel: models.ActivityModeratelyActive,
		PrimaryGoal:   models.GoalMaintainWeight,
	}
}

func TestCalculateTargetsReferenceCase(t *testing.T) {
	// 70kg, 175cm, 30y male, moderately active, maintaining:
	// BMR 1648.75, TDEE 2555.5625.
	got, err := services.CalculateTargets(baseInput())
	if err != nil {
		t.Fatalf("CalculateTargets: %v", err)
	}

	want := services.NutritionTargets{
		DailyCalorieTarget: 2556,
		ProteinTargetG:     192,
		CarbsTargetG:       256,
		FatTargetG:         85,
	}
	if got != want {
		t.Errorf("targets = %+v, want %+v", got, want)
	}
}

func TestCalculateTargetsGoalAdjustments(t *testing.T) {
	maintain, err := services.CalculateTargets(baseInput())
	if err != nil {
		t.Fatalf("maintain: %v", err)
	}

	lose := baseInput()
	lose.PrimaryGoal = models.GoalLoseWeight
	loseTargets, err := services.CalculateTargets(lose)
	if err != nil {
		t.Fatalf("lose_weight: %v", err)
	}
	if diff := maintain.DailyCalorieTarget - loseTargets.DailyCalorieTarget; diff != 500 {
		t.Errorf("lose_weight deficit = %d, want 500", diff)
	}

	gain := baseInput()
	gain.PrimaryGoal = models.GoalGainMuscle
	gainTargets, err := services.CalculateTargets(gain)
	if err != nil {
		t.Fatalf("gain_muscle: %v", err)
	}
	if diff := gainTargets.DailyCalorieTarget - maintain.DailyCalorieTarget; diff != 300 {
		t.Errorf("gain_muscle surplus = %d, want 300", diff)
	}

	// improve_health and increase_energy stay at TDEE.
	for _, goal := range []models.PrimaryGoal{models.GoalImproveHealth, models.GoalIncreaseEnergy} {
		in := baseInput()
		in.PrimaryGoal = goal
		got, err := services.CalculateTargets(in)
		if err != nil {
			t.Fatalf("%s: %v", goal, err)
		}
		if got.DailyCalorieTarget != maintain.DailyCalorieTarget {
			t.Errorf("%s target = %d, want %d", goal, got.DailyCalorieTarget, maintain.DailyCalorieTarget)
		}
	}
}

func TestCalculateTargetsSexOffsets(t *testing.T) {
	targets := map[models.Sex]int{}
	for _, sex := range []models.Sex{models.SexMale, models.SexFemale, models.SexOther, models.SexPreferNotToSay} {
		in := baseInput()
		in.Sex = sex
		got, err := services.CalculateTargets(in)
		if err != nil {
			t.Fatalf("%s: %v", sex, err)
		}
		targets[sex] = got.DailyCalorieTarget
	}

	if targets[models.SexMale] <= targets[models.SexFemale] {
		t.Errorf("male target %d should exceed female target %d", targets[models.SexMale], targets[models.SexFemale])
	}
	if targets[models.SexOther] != targets[models.SexPreferNotToSay] {
		t.Errorf("other (%d) and prefer_not_to_say (%d) should use the same offset",
			targets[models.SexOther], targets[models.SexPreferNotToSay])
	}
	if targets[models.SexOther] <= targets[models.SexFemale] || targets[models.SexOther] >= targets[models.SexMale] {
		t.Errorf("other target %d should fall between female %d and male %d",
			targets[models.SexOther], targets[models.SexFemale], targets[models.SexMale])
	}
}

func TestCalculateTargetsMacroSplit(t *testing.T) {
	got, err := services.CalculateTargets(baseInput())
	if err != nil {
		t.Fatalf("CalculateTargets: %v", err)
	}

	// Macro grams should reconstruct the calorie target within rounding slack.
	reconstructed := float64(got.ProteinTargetG)*4 + float64(got.CarbsTargetG)*4 + float64(got.FatTargetG)*9
	if math.Abs(reconstructed-float64(got.DailyCalorieTarget)) > float64(got.DailyCalorieTarget)*0.01 {
		t.Errorf("macros reconstruct to %.0f kcal, target %d", reconstructed, got.DailyCalorieTarget)
	}
}

func TestCalculateTargetsInvalidInput(t *testing.T) {
	cases := map[string]func(*services.BiometricInput){
		"zero weight":      func(in *services.BiometricInput) { in.WeightKg = 0 },
		"negative height":  func(in *services.BiometricInput) { in.HeightCm = -175 },
		"zero age":         func(in *services.BiometricInput) { in.Age = 0 },
		"unknown activity": func(in *services.BiometricInput) { in.ActivityLevel = "couch_potato" },
		"unknown goal":     func(in *services.BiometricInput) { in.PrimaryGoal = "run_marathon" },
		"unknown sex":      func(in *services.BiometricInput) { in.Sex = "unknown" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := baseInput()
			mutate(&in)
			_, err := services.CalculateTargets(in)
			if !errors.Is(err, services.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
