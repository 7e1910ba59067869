package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/habitloop/health-backend/config"
	"github.com/habitloop/health-backend/controllers"
	"github.com/habitloop/health-backend/database"
	"github.com/habitloop/health-backend/jobs"
	"github.com/habitloop/health-backend/llm"
	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/routes"
	"github.com/habitloop/health-backend/services"
)

func main() {
	logger.Init()
	defer logger.Close()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system env vars")
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	inference := llm.NewClient(cfg.Inference)

	groceryService := services.NewGroceryService(db, inference)
	groceryWorker := jobs.NewGroceryWorker(groceryService)
	groceryWorker.Start()
	defer groceryWorker.Stop()

	profileService := services.NewProfileService(db, inference)
	progressService := services.NewProgressService(db, inference)
	mealPlanService := services.NewMealPlanService(db, inference, groceryWorker)
	workoutService := services.NewWorkoutService(db, inference)
	milestoneService := services.NewMilestoneService(db)

	router := routes.SetupRouter(routes.Controllers{
		Profile:   controllers.NewProfileController(profileService),
		Progress:  controllers.NewProgressController(progressService),
		MealPlan:  controllers.NewMealPlanController(mealPlanService, groceryService),
		Workout:   controllers.NewWorkoutController(workoutService),
		Milestone: controllers.NewMilestoneController(milestoneService),
	}, config.Resolve(cfg.JWTSecret, "JWT_SECRET", "dev-secret"))

	port := config.Resolve(cfg.Server.Port, "PORT", "8080")
	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
