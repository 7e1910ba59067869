package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/habitloop/health-backend/logger"
	"github.com/habitloop/health-backend/services"
)

// GroceryJob asks for a grocery list to be generated for an approved meal
// plan.
type GroceryJob struct {
	UserID     string
	MealPlanID uint
	Duration   services.PlanDuration
}

// GroceryWorker generates grocery lists in the background so plan approval
// never waits on inference. Generation failures are logged and dropped; the
// list can be regenerated on demand.
type GroceryWorker struct {
	jobs    chan GroceryJob
	grocery *services.GroceryService

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

func NewGroceryWorker(grocery *services.GroceryService) *GroceryWorker {
	return &GroceryWorker{
		jobs:    make(chan GroceryJob, 100),
		grocery: grocery,
		done:    make(chan struct{}),
	}
}

// Start launches the processing goroutine. Safe to call more than once.
func (w *GroceryWorker) Start() {
	w.startOnce.Do(func() {
		go w.run()
		logger.Info("grocery worker started")
	})
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (w *GroceryWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.jobs)
		<-w.done
		logger.Info("grocery worker stopped")
	})
}

// Schedule enqueues a generation job. If the queue is full the job is
// dropped with a warning rather than blocking the caller.
func (w *GroceryWorker) Schedule(userID string, mealPlanID uint, duration services.PlanDuration) {
	select {
	case w.jobs <- GroceryJob{UserID: userID, MealPlanID: mealPlanID, Duration: duration}:
		logger.Info("grocery job enqueued",
			zap.String("user_id", userID),
			zap.Uint("meal_plan_id", mealPlanID))
	default:
		logger.Warn("grocery job queue full, dropping job",
			zap.String("user_id", userID),
			zap.Uint("meal_plan_id", mealPlanID))
	}
}

func (w *GroceryWorker) run() {
	defer close(w.done)
	for job := range w.jobs {
		w.processJob(job)
	}
}

func (w *GroceryWorker) processJob(job GroceryJob) {
	logger.Info("processing grocery job",
		zap.String("user_id", job.UserID),
		zap.Uint("meal_plan_id", job.MealPlanID))

	_, err := w.grocery.GenerateForPlanID(context.Background(), job.UserID, job.MealPlanID, job.Duration)
	if err != nil {
		logger.Error("grocery list generation failed",
			zap.String("user_id", job.UserID),
			zap.Uint("meal_plan_id", job.MealPlanID),
			zap.Error(err))
	}
}
