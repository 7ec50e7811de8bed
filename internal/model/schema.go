package model

import (
	"time"
)

// TrainingSchema is a multi-week training program definition. Authored by
// coaches; read-only to this service.
type TrainingSchema struct {
	UUIDBase
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	WeeksTotal  int           `gorm:"default:8" json:"weeksTotal"`
	Status      ContentStatus `gorm:"size:20;default:'draft'" json:"status"`
}

func (TrainingSchema) TableName() string {
	return "training_schemas"
}

type PeriodStatus string

const (
	PeriodActive    PeriodStatus = "active"
	PeriodCompleted PeriodStatus = "completed"
)

// SchemaPeriod binds a user to one schema for a span of time. At most one
// active period per user; starting a new one closes the prior active one.
// A period closed by switching schemas keeps CompletedAt nil.
type SchemaPeriod struct {
	BaseModel
	UserID    uint         `gorm:"index:idx_period_user;not null" json:"userId"`
	SchemaID  string       `gorm:"size:36;index;not null" json:"schemaId"`
	StartDate time.Time    `gorm:"not null" json:"startDate"`
	Status    PeriodStatus `gorm:"size:20;default:'active';index:idx_period_user" json:"status"`
	// ActiveUserID mirrors UserID while the period is active and goes NULL
	// on close. Its unique index is the store constraint behind the one
	// active period per user invariant; closed rows (NULL) never collide.
	ActiveUserID *uint      `gorm:"uniqueIndex" json:"-"`
	CompletedAt  *time.Time `json:"completedAt"`
}

func (SchemaPeriod) TableName() string {
	return "schema_periods"
}

// SchemaProgress holds the running counters for a (user, schema) pair.
// Weeks completed is derived on read, never stored.
type SchemaProgress struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex:idx_user_schema_progress;not null" json:"userId"`
	SchemaID      string     `gorm:"size:36;uniqueIndex:idx_user_schema_progress;not null" json:"schemaId"`
	CompletedDays int        `gorm:"default:0" json:"completedDays"`
	CurrentDay    int        `gorm:"default:0" json:"currentDay"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
}

func (SchemaProgress) TableName() string {
	return "schema_progress"
}

// TrainingDayCompletion records one finished training day. Insert-once per
// (user, schema, day) so a retried request cannot inflate the counters.
type TrainingDayCompletion struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_schema_day;not null" json:"userId"`
	SchemaID    string    `gorm:"size:36;uniqueIndex:idx_user_schema_day;not null" json:"schemaId"`
	DayNumber   int       `gorm:"uniqueIndex:idx_user_schema_day;not null" json:"dayNumber"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (TrainingDayCompletion) TableName() string {
	return "training_day_completions"
}
