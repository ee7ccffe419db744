package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leafkeeper/leafkeeper/internal/models"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reminder status buckets, ordered by urgency. The bucket is a pure function
// of DaysUntil and is derived at read time, never stored.
const (
	StatusOverdue  = "overdue"
	StatusDueToday = "due-today"
	StatusUpcoming = "upcoming"
	StatusFuture   = "future"
)

// ReminderStatus is the derived due-state of a reminder.
type ReminderStatus struct {
	Overdue   bool   `json:"overdue"`
	DueToday  bool   `json:"dueToday"`
	DaysUntil int    `json:"daysUntil"`
	Bucket    string `json:"status"`
}

// ReminderInput carries the writable reminder fields.
type ReminderInput struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DueDate       string `json:"dueDate"` // YYYY-MM-DD
	FrequencyDays int    `json:"frequencyDays"`
}

// ReminderService is the owner-scoped reminder engine.
type ReminderService struct {
	db *gorm.DB
}

func NewReminderService(db *gorm.DB) *ReminderService {
	return &ReminderService{db: db}
}

// List returns the plant's reminders ascending by due date.
func (s *ReminderService) List(owner, plantID string) ([]models.Reminder, error) {
	if err := s.requirePlant(owner, plantID); err != nil {
		return nil, err
	}

	var reminders []models.Reminder
	if err := s.db.Where("plant_id = ?", plantID).
		Order("due_date ASC").
		Find(&reminders).Error; err != nil {
		return nil, types.Internal("failed to list reminders", err)
	}
	return reminders, nil
}

// Create adds a reminder to an owned plant. FrequencyDays defaults by type
// when omitted (quick add).
func (s *ReminderService) Create(owner, plantID string, in ReminderInput) (*models.Reminder, error) {
	if plantID == "" || in.Type == "" || in.Title == "" || in.DueDate == "" {
		return nil, types.Validation("plantId, type, title and dueDate are required")
	}

	due, err := time.Parse("2006-01-02", in.DueDate)
	if err != nil {
		return nil, types.Validation("dueDate must be YYYY-MM-DD")
	}

	if err := s.requirePlant(owner, plantID); err != nil {
		return nil, err
	}

	frequency := in.FrequencyDays
	if frequency == 0 {
		frequency = models.DefaultFrequencyDays(in.Type)
	}
	if frequency < 1 {
		return nil, types.Validation("frequencyDays must be at least 1")
	}

	reminder := models.Reminder{
		ID:            uuid.New().String(),
		PlantID:       plantID,
		Type:          in.Type,
		Title:         in.Title,
		Description:   in.Description,
		DueDate:       datatypes.Date(due),
		FrequencyDays: frequency,
	}

	if err := s.db.Create(&reminder).Error; err != nil {
		return nil, types.Internal("failed to create reminder", err)
	}
	return &reminder, nil
}

// Delete removes a reminder by id, scoped through plant ownership.
func (s *ReminderService) Delete(owner, reminderID string) (int64, error) {
	res := s.db.Where("id = ? AND plant_id IN (?)",
		reminderID, s.ownedPlantIDs(owner)).
		Delete(&models.Reminder{})
	if res.Error != nil {
		return 0, types.Internal("failed to delete reminder", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, types.NotFound("reminder not found")
	}
	return res.RowsAffected, nil
}

// SetCompleted flips the completion flag. It deliberately does not advance
// DueDate by FrequencyDays; recurrence is re-created manually by the user.
func (s *ReminderService) SetCompleted(owner, reminderID string, completed bool) error {
	res := s.db.Model(&models.Reminder{}).
		Where("id = ? AND plant_id IN (?)", reminderID, s.ownedPlantIDs(owner)).
		Update("completed", completed)
	if res.Error != nil {
		return types.Internal("failed to update reminder", res.Error)
	}
	if res.RowsAffected == 0 {
		return types.NotFound("reminder not found")
	}
	return nil
}

// DeriveStatus compares calendar dates built from Y-M-D components. Both
// sides are rebuilt at UTC midnight so the difference is an exact day count
// regardless of the process timezone or DST.
func DeriveStatus(due datatypes.Date, today time.Time) ReminderStatus {
	d := civilDate(time.Time(due))
	t := civilDate(today)

	days := int(d.Sub(t).Hours() / 24)

	status := ReminderStatus{DaysUntil: days}
	switch {
	case days < 0:
		status.Overdue = true
		status.Bucket = StatusOverdue
	case days == 0:
		status.DueToday = true
		status.Bucket = StatusDueToday
	case days <= 7:
		status.Bucket = StatusUpcoming
	default:
		status.Bucket = StatusFuture
	}
	return status
}

// civilDate strips the time and zone, keeping only the calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// requirePlant verifies plant ownership, mapping a miss to not found.
func (s *ReminderService) requirePlant(owner, plantID string) error {
	var plant models.Plant
	err := s.db.Select("id").Where("id = ? AND owner_id = ?", plantID, owner).First(&plant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NotFound("plant not found")
	}
	if err != nil {
		return types.Internal("failed to load plant", err)
	}
	return nil
}

// ownedPlantIDs is the subquery every by-reminder-id operation joins through
// so a query without owner scope is structurally impossible.
func (s *ReminderService) ownedPlantIDs(owner string) *gorm.DB {
	return s.db.Model(&models.Plant{}).Select("id").Where("owner_id = ?", owner)
}
