package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/habitloop/health-backend/controllers"
	"github.com/habitloop/health-backend/database"
	"github.com/habitloop/health-backend/llm"
	"github.com/habitloop/health-backend/models"
	"github.com/habitloop/health-backend/routes"
	"github.com/habitloop/health-backend/services"
)

const testSecret = "test-secret"

type stubInference struct {
	payload interface{}
}

func (s *stubInference) GenerateJSON(_ context.Context, _ string, _ llm.Schema, out interface{}) error {
	data, err := json.Marshal(s.payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

type testServer struct {
	router http.Handler
	db     *gorm.DB
	stub   *stubInference
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stub := &stubInference{}
	grocery := services.NewGroceryService(db, stub)
	router := routes.SetupRouter(routes.Controllers{
		Profile:   controllers.NewProfileController(services.NewProfileService(db, stub)),
		Progress:  controllers.NewProgressController(services.NewProgressService(db, stub)),
		MealPlan:  controllers.NewMealPlanController(services.NewMealPlanService(db, stub, nil), grocery),
		Workout:   controllers.NewWorkoutController(services.NewWorkoutService(db, stub)),
		Milestone: controllers.NewMilestoneController(services.NewMilestoneService(db)),
	}, testSecret)

	return &testServer{router: router, db: db, stub: stub}
}

func (s *testServer) request(t *testing.T, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID,
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func onboardingBody() map[string]interface{} {
	return map[string]interface{}{
		"age":               30,
		"sex":               "male",
		"height_cm":         175,
		"current_weight_kg": 70,
		"activity_level":    "moderately_active",
		"primary_goal":      "maintain_weight",
		"favorite_foods":    "paneer, dal",
	}
}

func TestOnboardingAndProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.request(t, http.MethodPost, "/api/profile/onboarding", onboardingBody(), "user-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("onboarding status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = srv.request(t, http.MethodGet, "/api/profile/", nil, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile status = %d", rec.Code)
	}
	var profile models.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.DailyCalorieTarget != 2556 {
		t.Errorf("DailyCalorieTarget = %d, want 2556", profile.DailyCalorieTarget)
	}
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.request(t, http.MethodGet, "/api/profile/", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProfileNotFoundMapsTo404(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.request(t, http.MethodGet, "/api/profile/", nil, "nobody")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInvalidInputMapsTo400(t *testing.T) {
	srv := newTestServer(t)
	srv.request(t, http.MethodPost, "/api/profile/onboarding", onboardingBody(), "user-1")

	rec := srv.request(t, http.MethodPost, "/api/food-logs/", map[string]interface{}{
		"meal_type":   "brunch",
		"description": "eggs benedict",
	}, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestIncompletePlanMapsTo422(t *testing.T) {
	srv := newTestServer(t)
	srv.request(t, http.MethodPost, "/api/profile/onboarding", onboardingBody(), "user-1")

	short := make([]map[string]interface{}, 5)
	for i := range short {
		short[i] = map[string]interface{}{"day": "Day", "breakfast": map[string]interface{}{"calories": 400}}
	}
	srv.stub.payload = map[string]interface{}{"daily_plans": short}

	rec := srv.request(t, http.MethodPost, "/api/meal-plans/generate", map[string]interface{}{
		"duration": "1_week",
	}, "user-1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}

func TestGroceryToggleRoute(t *testing.T) {
	srv := newTestServer(t)
	list := &models.GroceryList{
		UserID:     "user-1",
		MealPlanID: 1,
		Items: []models.GroceryItem{
			{ItemName: "oats"},
			{ItemName: "chicken"},
			{ItemName: "spinach"},
		},
	}
	if err := srv.db.Create(list).Error; err != nil {
		t.Fatalf("seed list: %v", err)
	}

	rec := srv.request(t, http.MethodPatch, "/api/grocery-lists/1/items/2", nil, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var updated models.GroceryList
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if !updated.Items[2].Purchased || updated.Items[0].Purchased {
		t.Errorf("toggle affected wrong items: %+v", updated.Items)
	}

	rec = srv.request(t, http.MethodPatch, "/api/grocery-lists/1/items/9", nil, "user-1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range index status = %d, want 400", rec.Code)
	}
}
