package repository

import (
	"fitacademy_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OnboardingRepository struct {
	DB *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{DB: db}
}

// GetOrCreate returns the user's onboarding row, creating it on first
// touch. Two concurrent first touches race on the unique user index; the
// loser re-reads the winner's row.
func (r *OnboardingRepository) GetOrCreate(userID uint) (*model.OnboardingStatus, error) {
	var status model.OnboardingStatus
	err := r.DB.Where("user_id = ?", userID).First(&status).Error
	if err == nil {
		return &status, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	status = model.OnboardingStatus{UserID: userID}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := r.DB.Where("user_id = ?", userID).First(&status).Error; err != nil {
			return nil, err
		}
	}
	return &status, nil
}

// SetMilestone persists a single milestone column together with a
// forward-only lift of the step cache. Touching only the caller's column
// makes writes to different milestones commute: two interleaved updates
// both land instead of the later full-row write dropping the earlier one.
func (r *OnboardingRepository) SetMilestone(userID uint, column string, step int, completed bool) error {
	updates := map[string]interface{}{
		column:         true,
		"current_step": gorm.Expr("CASE WHEN current_step < ? THEN ? ELSE current_step END", step, step),
	}
	if completed {
		updates["completed"] = true
	}
	return r.DB.Model(&model.OnboardingStatus{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
