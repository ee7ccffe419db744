package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reminder types. The column is a plain string so new care task kinds can be
// added without a migration.
const (
	ReminderWatering    = "watering"
	ReminderFertilizing = "fertilizing"
	ReminderPruning     = "pruning"
	ReminderRepotting   = "repotting"
	ReminderInspection  = "inspection"
)

// Reminder is a recurring care task for a plant. DueDate is a calendar date
// (datatypes.Date, no time component); all due/overdue comparisons are done
// on Y-M-D components, never on instants.
type Reminder struct {
	ID            string         `gorm:"type:char(36);primaryKey" json:"id"`
	PlantID       string         `gorm:"type:char(36);not null;index" json:"plantId"`
	Type          string         `gorm:"size:50;not null" json:"type"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	DueDate       datatypes.Date `gorm:"not null" json:"dueDate"`
	FrequencyDays int            `gorm:"not null;default:7" json:"frequencyDays"`
	Completed     bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for Reminder
func (Reminder) TableName() string {
	return "reminders"
}

// DefaultFrequencyDays returns the quick-add recurrence for a reminder type.
func DefaultFrequencyDays(reminderType string) int {
	switch reminderType {
	case ReminderWatering:
		return 7
	case ReminderFertilizing:
		return 30
	case ReminderPruning:
		return 90
	case ReminderRepotting:
		return 365
	case ReminderInspection:
		return 14
	default:
		return 7
	}
}
