package model

import (
	"time"
)

// LessonCompletion records that a user finished a lesson. At most one row
// per (user, lesson); a repeat completion overwrites score/time/timestamp.
type LessonCompletion struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    uint      `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	Score       int       `gorm:"default:0" json:"score"`
	TimeSpent   int       `gorm:"default:0" json:"timeSpent"` // seconds
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

// LegacyLessonProgress is the historical per-lesson progress table that
// predates lesson_completions. It is read, never written: a lesson marked
// complete in either table counts as complete.
type LegacyLessonProgress struct {
	BaseModel
	UserID    uint `gorm:"uniqueIndex:idx_legacy_user_lesson;not null" json:"userId"`
	LessonID  uint `gorm:"uniqueIndex:idx_legacy_user_lesson;not null" json:"lessonId"`
	Completed bool `gorm:"default:false" json:"completed"`
	Score     int  `gorm:"default:0" json:"score"`
	TimeSpent int  `gorm:"default:0" json:"timeSpent"`
}

func (LegacyLessonProgress) TableName() string {
	return "user_lesson_progress"
}

// ModuleCompletion is a derived fact: every published lesson of the module
// was completed by the user at evaluation time. Insert-once per
// (user, module), written only by the gate evaluator.
type ModuleCompletion struct {
	BaseModel
	UserID           uint      `gorm:"uniqueIndex:idx_user_module_completion;not null" json:"userId"`
	ModuleID         uint      `gorm:"uniqueIndex:idx_user_module_completion;not null" json:"moduleId"`
	TotalLessons     int       `gorm:"default:0" json:"totalLessons"`
	CompletedLessons int       `gorm:"default:0" json:"completedLessons"`
	CompletedAt      time.Time `gorm:"not null" json:"completedAt"`
}

func (ModuleCompletion) TableName() string {
	return "module_completions"
}

// ModuleUnlock makes a module reachable for a user. Insert-once per
// (user, module); never revoked.
type ModuleUnlock struct {
	BaseModel
	UserID     uint      `gorm:"uniqueIndex:idx_user_module_unlock;not null" json:"userId"`
	ModuleID   uint      `gorm:"uniqueIndex:idx_user_module_unlock;not null" json:"moduleId"`
	UnlockedAt time.Time `gorm:"not null" json:"unlockedAt"`
}

func (ModuleUnlock) TableName() string {
	return "module_unlocks"
}
