package database

import (
	"fmt"

	"github.com/habitloop/health-backend/config"
	"github.com/habitloop/health-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and runs migrations. The returned
// handle is passed explicitly into services; there is no package-level DB.
func Connect(cfg config.PostgresConfig) (*gorm.DB, error) {
	host := config.Resolve(cfg.Host, "DB_HOST", "localhost")
	user := config.Resolve(cfg.User, "DB_USER", "postgres")
	password := config.Resolve(cfg.Password, "DB_PASSWORD", "password")
	dbname := config.Resolve(cfg.DBName, "DB_NAME", "habitloop")
	port := config.Resolve(cfg.Port, "DB_PORT", "5432")
	sslmode := config.Resolve(cfg.SSLMode, "DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.UserProfile{},
		&models.FoodLogEntry{},
		&models.DailyProgress{},
		&models.MealPlan{},
		&models.WorkoutPlan{},
		&models.GroceryList{},
		&models.MealPlanTracking{},
		&models.Milestone{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
