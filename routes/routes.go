package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/habitloop/health-backend/controllers"
	"github.com/habitloop/health-backend/middleware"
)

// Controllers groups the handler sets the router mounts.
type Controllers struct {
	Profile   *controllers.ProfileController
	Progress  *controllers.ProgressController
	MealPlan  *controllers.MealPlanController
	Workout   *controllers.WorkoutController
	Milestone *controllers.MilestoneController
}

func SetupRouter(c Controllers, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.Route("/profile", func(r chi.Router) {
			r.Post("/onboarding", c.Profile.CompleteOnboarding)
			r.Get("/", c.Profile.GetProfile)
			r.Put("/", c.Profile.UpdateProfile)
			r.Post("/recalculate-targets", c.Profile.RecalculateTargets)
			r.Delete("/", c.Profile.DeleteAccountData)
		})

		r.Route("/food-logs", func(r chi.Router) {
			r.Post("/", c.Progress.LogMeal)
			r.Get("/", c.Progress.ListFoodLogs)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/", c.Progress.ListDailyProgress)
			r.Post("/workout", c.Progress.CompleteWorkout)
			r.Post("/weight", c.Progress.LogWeight)
		})

		r.Route("/meal-plans", func(r chi.Router) {
			r.Post("/generate", c.MealPlan.Generate)
			r.Post("/approve", c.MealPlan.Approve)
			r.Get("/", c.MealPlan.List)
			r.Get("/active", c.MealPlan.GetActive)
			r.Delete("/", c.MealPlan.DeleteAll)
			r.Delete("/{planID}", c.MealPlan.Delete)
			r.Get("/{planID}/grocery-list", c.MealPlan.GetGroceryList)
			r.Post("/{planID}/grocery-list", c.MealPlan.RegenerateGroceryList)
		})

		r.Patch("/grocery-lists/{listID}/items/{index}", c.MealPlan.ToggleGroceryItem)

		r.Route("/workout-plans", func(r chi.Router) {
			r.Post("/generate", c.Workout.Generate)
			r.Get("/", c.Workout.List)
			r.Get("/active", c.Workout.GetActive)
		})

		r.Route("/milestones", func(r chi.Router) {
			r.Get("/", c.Milestone.List)
			r.Post("/", c.Milestone.Create)
		})
	})

	return r
}
