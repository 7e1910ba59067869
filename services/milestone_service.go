package services

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/habitloop/health-backend/models"
)

// MilestoneService manages the append-only achievement log.
type MilestoneService struct {
	db *gorm.DB
}

func NewMilestoneService(db *gorm.DB) *MilestoneService {
	return &MilestoneService{db: db}
}

// List returns the user's milestones, most recently achieved first.
func (s *MilestoneService) List(userID string) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := s.db.Where("user_id = ?", userID).
		Order("achieved_date desc").
		Find(&milestones).Error
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return milestones, nil
}

// MilestoneInput is a new achievement record.
type MilestoneInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PointsEarned int    `json:"points_earned"`
	AchievedDate string `json:"achieved_date"` // YYYY-MM-DD, defaults to today
}

// Create appends a milestone. Existing records are never modified.
func (s *MilestoneService) Create(userID string, in MilestoneInput) (*models.Milestone, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: milestone title is required", ErrInvalidInput)
	}
	if in.AchievedDate == "" {
		in.AchievedDate = time.Now().Format("2006-01-02")
	}

	milestone := &models.Milestone{
		UserID:       userID,
		Title:        in.Title,
		Description:  in.Description,
		PointsEarned: in.PointsEarned,
		AchievedDate: in.AchievedDate,
	}
	if err := s.db.Create(milestone).Error; err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return milestone, nil
}
