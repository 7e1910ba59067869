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

// GroceryService consolidates an approved meal plan's ingredients into a
// categorized shopping list via the inference service.
type GroceryService struct {
	db        *gorm.DB
	inference Inference
}

func NewGroceryService(db *gorm.DB, inference Inference) *GroceryService {
	return &GroceryService{db: db, inference: inference}
}

// FlattenPlanIngredients walks the plan day by day, breakfast then lunch
// then dinner, and collects every ingredient in encounter order. Duplicates
// are kept; consolidation is the model's job.
func FlattenPlanIngredients(plans []models.DailyPlan) []string {
	var ingredients []string
	for _, day := range plans {
		for _, meal := range []*models.PlannedMeal{day.Breakfast, day.Lunch, day.Dinner} {
			if meal == nil {
				continue
			}
			ingredients = append(ingredients, meal.Ingredients...)
		}
	}
	return ingredients
}

// BuildGroceryRequest produces the consolidation prompt and schema for a raw
// ingredient list.
func BuildGroceryRequest(ingredients []string, duration PlanDuration) (string, llm.Schema) {
	prompt := fmt.Sprintf(`Create a consolidated grocery list from these meal plan ingredients for %d days:

%s

Consolidate duplicate items (e.g., "2 eggs" + "3 eggs" = "5 eggs" or "half dozen eggs").
Combine quantities into practical shopping amounts.
Organize by category: produce, protein, dairy, grains, pantry, spices, other.
Estimate a reasonable cost for each item.

Return as JSON matching this exact structure.`, DurationDays(duration), strings.Join(ingredients, "\n"))

	return prompt, grocerySchema()
}

func grocerySchema() llm.Schema {
	return llm.Schema{
		"type": "object",
		"properties": llm.Schema{
			"items": llm.Schema{
				"type": "array",
				"items": llm.Schema{
					"type": "object",
					"properties": llm.Schema{
						"item_name": llm.Schema{"type": "string"},
						"quantity":  llm.Schema{"type": "string"},
						"category": llm.Schema{
							"type": "string",
							"enum": []string{"produce", "protein", "dairy", "grains", "pantry", "spices", "other"},
						},
						"estimated_cost": llm.Schema{"type": "number"},
					},
				},
			},
			"total_estimated_cost": llm.Schema{"type": "number"},
		},
	}
}

type generatedGroceryList struct {
	Items              []models.GroceryItem `json:"items"`
	TotalEstimatedCost float64              `json:"total_estimated_cost"`
}

// GenerateForPlanID builds and persists the grocery list for an approved
// plan. A fresh list replaces any previous list for the same plan.
func (s *GroceryService) GenerateForPlanID(ctx context.Context, userID string, mealPlanID uint, duration PlanDuration) (*models.GroceryList, error) {
	var plan models.MealPlan
	err := s.db.Where("id = ? AND user_id = ?", mealPlanID, userID).First(&plan).Error
	if err != nil {
		return nil, fmt.Errorf("load meal plan %d: %w", mealPlanID, err)
	}

	ingredients := FlattenPlanIngredients(plan.DailyPlans)
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: meal plan %d has no ingredients", ErrInvalidInput, mealPlanID)
	}

	prompt, schema := BuildGroceryRequest(ingredients, duration)
	var generated generatedGroceryList
	if err := s.inference.GenerateJSON(ctx, prompt, schema, &generated); err != nil {
		return nil, fmt.Errorf("generate grocery list: %w", err)
	}

	for i := range generated.Items {
		generated.Items[i].Purchased = false
	}

	list := &models.GroceryList{
		UserID:             userID,
		MealPlanID:         mealPlanID,
		PlanDuration:       string(duration),
		Items:              generated.Items,
		TotalEstimatedCost: generated.TotalEstimatedCost,
		GeneratedDate:      time.Now().Format("2006-01-02"),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND meal_plan_id = ?", userID, mealPlanID).
			Delete(&models.GroceryList{}).Error; err != nil {
			return err
		}
		return tx.Create(list).Error
	})
	if err != nil {
		return nil, fmt.Errorf("save grocery list: %w", err)
	}

	logger.Info("grocery list generated",
		zap.String("user_id", userID),
		zap.Uint("meal_plan_id", mealPlanID),
		zap.Int("items", len(list.Items)))
	return list, nil
}

// TogglePurchased flips the purchased flag of the item at index. Items have
// no identity of their own; the index into the stored slice addresses them.
func (s *GroceryService) TogglePurchased(userID string, listID uint, index int) (*models.GroceryList, error) {
	var list models.GroceryList
	err := s.db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error
	if err != nil {
		return nil, fmt.Errorf("load grocery list %d: %w", listID, err)
	}

	if index < 0 || index >= len(list.Items) {
		return nil, fmt.Errorf("%w: item index %d out of range (list has %d items)", ErrInvalidInput, index, len(list.Items))
	}

	list.Items[index].Purchased = !list.Items[index].Purchased
	if err := s.db.Save(&list).Error; err != nil {
		return nil, fmt.Errorf("save grocery list: %w", err)
	}
	return &list, nil
}

// GetByPlan returns the grocery list for a meal plan, or
// gorm.ErrRecordNotFound if none was generated yet.
func (s *GroceryService) GetByPlan(userID string, mealPlanID uint) (*models.GroceryList, error) {
	var list models.GroceryList
	err := s.db.Where("user_id = ? AND meal_plan_id = ?", userID, mealPlanID).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load grocery list: %w", err)
	}
	return &list, nil
}

// ListGroceryLists returns all of the user's grocery lists, newest first.
func (s *GroceryService) ListGroceryLists(userID string) ([]models.GroceryList, error) {
	var lists []models.GroceryList
	err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("list grocery lists: %w", err)
	}
	return lists, nil
}
