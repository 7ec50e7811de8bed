package repository

import (
	"fitacademy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonCompletionRepository struct {
	DB *gorm.DB
}

func NewLessonCompletionRepository(db *gorm.DB) *LessonCompletionRepository {
	return &LessonCompletionRepository{DB: db}
}

// Upsert writes the completion keyed by (user, lesson) and reports whether
// this call inserted the row. The insert attempt arbitrates through the
// unique index, so of any number of concurrent first completions exactly
// one caller sees created; the rest fall through to a latest-write-wins
// update of score/time/timestamp.
func (r *LessonCompletionRepository) Upsert(completion *model.LessonCompletion) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(completion)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND lesson_id = ?", completion.UserID, completion.LessonID).
		Updates(map[string]interface{}{
			"score":        completion.Score,
			"time_spent":   completion.TimeSpent,
			"completed_at": completion.CompletedAt,
		}).Error
	return false, err
}

// CompletedLessonIDs returns which of the given lessons the user completed
// under the current completion table.
func (r *LessonCompletionRepository) CompletedLessonIDs(userID uint, lessonIDs []uint) ([]uint, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Pluck("lesson_id", &ids).Error
	return ids, err
}

type LegacyProgressRepository struct {
	DB *gorm.DB
}

func NewLegacyProgressRepository(db *gorm.DB) *LegacyProgressRepository {
	return &LegacyProgressRepository{DB: db}
}

// CompletedLessonIDs reads the historical progress table. Rows there are
// only trusted when their completed flag is set.
func (r *LegacyProgressRepository) CompletedLessonIDs(userID uint, lessonIDs []uint) ([]uint, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.DB.Model(&model.LegacyLessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Pluck("lesson_id", &ids).Error
	return ids, err
}

type ModuleCompletionRepository struct {
	DB *gorm.DB
}

func NewModuleCompletionRepository(db *gorm.DB) *ModuleCompletionRepository {
	return &ModuleCompletionRepository{DB: db}
}

// CreateIfAbsent inserts the completion fact unless one already exists for
// (user, module). A losing concurrent insert is a successful no-op, not an
// error; the returned flag says whether this call wrote the row.
func (r *ModuleCompletionRepository) CreateIfAbsent(completion *model.ModuleCompletion) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(completion)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ModuleCompletionRepository) Exists(userID, moduleID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ModuleCompletion{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Count(&count).Error
	return count > 0, err
}

type ModuleUnlockRepository struct {
	DB *gorm.DB
}

func NewModuleUnlockRepository(db *gorm.DB) *ModuleUnlockRepository {
	return &ModuleUnlockRepository{DB: db}
}

// CreateIfAbsent inserts the unlock unless it already exists. Same no-op
// semantics as module completions: the store's unique index arbitrates
// concurrent unlock attempts and exactly one wins.
func (r *ModuleUnlockRepository) CreateIfAbsent(unlock *model.ModuleUnlock) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(unlock)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ModuleUnlockRepository) Exists(userID, moduleID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ModuleUnlock{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Count(&count).Error
	return count > 0, err
}

func (r *ModuleUnlockRepository) UnlockedModuleIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ModuleUnlock{}).
		Where("user_id = ?", userID).
		Pluck("module_id", &ids).Error
	return ids, err
}
