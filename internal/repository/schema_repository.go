package repository

import (
	"errors"
	"fitacademy_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SchemaRepository struct {
	DB *gorm.DB
}

func NewSchemaRepository(db *gorm.DB) *SchemaRepository {
	return &SchemaRepository{DB: db}
}

func (r *SchemaRepository) FindByID(id string) (*model.TrainingSchema, error) {
	var schema model.TrainingSchema
	err := r.DB.First(&schema, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

type PeriodRepository struct {
	DB *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) *PeriodRepository {
	return &PeriodRepository{DB: db}
}

func (r *PeriodRepository) FindActiveByUser(userID uint) (*model.SchemaPeriod, error) {
	var period model.SchemaPeriod
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.PeriodActive).
		Order("start_date DESC").
		First(&period).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// StartPeriod closes any active period and opens the new one. The unique
// active_user_id slot is what holds the one-active-period invariant: of
// two concurrent starters only one insert lands, the loser's transaction
// rolls back and re-runs, now closing the winner's row first. Closing by
// switching leaves completed_at untouched: that close is not a program
// completion.
func (r *PeriodRepository) StartPeriod(period *model.SchemaPeriod) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		period.ID = 0
		period.ActiveUserID = &period.UserID
		err = r.DB.Transaction(func(tx *gorm.DB) error {
			closeErr := tx.Model(&model.SchemaPeriod{}).
				Where("user_id = ? AND status = ?", period.UserID, model.PeriodActive).
				Updates(map[string]interface{}{
					"status":         model.PeriodCompleted,
					"active_user_id": nil,
				}).Error
			if closeErr != nil {
				return closeErr
			}
			return tx.Create(period).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// Complete closes the period with its completion timestamp and releases
// the active slot.
func (r *PeriodRepository) Complete(period *model.SchemaPeriod, at time.Time) error {
	return r.DB.Model(period).Updates(map[string]interface{}{
		"status":         model.PeriodCompleted,
		"completed_at":   at,
		"active_user_id": nil,
	}).Error
}

func (r *PeriodRepository) FindByUser(userID uint) ([]model.SchemaPeriod, error) {
	var periods []model.SchemaPeriod
	err := r.DB.Where("user_id = ?", userID).Order("start_date DESC").Find(&periods).Error
	return periods, err
}

type SchemaProgressRepository struct {
	DB *gorm.DB
}

func NewSchemaProgressRepository(db *gorm.DB) *SchemaProgressRepository {
	return &SchemaProgressRepository{DB: db}
}

func (r *SchemaProgressRepository) Find(userID uint, schemaID string) (*model.SchemaProgress, error) {
	var progress model.SchemaProgress
	err := r.DB.Where("user_id = ? AND schema_id = ?", userID, schemaID).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *SchemaProgressRepository) GetOrCreate(userID uint, schemaID string) (*model.SchemaProgress, error) {
	progress := model.SchemaProgress{
		UserID:    userID,
		SchemaID:  schemaID,
		StartedAt: time.Now(),
	}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "schema_id"}},
		DoNothing: true,
	}).Create(&progress)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var existing model.SchemaProgress
		if err := r.DB.Where("user_id = ? AND schema_id = ?", userID, schemaID).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &progress, nil
}

// IncrementDay bumps the counters atomically. current_day only moves
// forward; a replayed day never advances it past the real position.
func (r *SchemaProgressRepository) IncrementDay(userID uint, schemaID string, dayNumber int) error {
	return r.DB.Model(&model.SchemaProgress{}).
		Where("user_id = ? AND schema_id = ?", userID, schemaID).
		Updates(map[string]interface{}{
			"completed_days": gorm.Expr("completed_days + 1"),
			"current_day":    gorm.Expr("CASE WHEN current_day < ? THEN ? ELSE current_day END", dayNumber, dayNumber),
		}).Error
}

func (r *SchemaProgressRepository) MarkCompleted(userID uint, schemaID string, at time.Time) error {
	return r.DB.Model(&model.SchemaProgress{}).
		Where("user_id = ? AND schema_id = ? AND completed_at IS NULL", userID, schemaID).
		Update("completed_at", at).Error
}

type DayCompletionRepository struct {
	DB *gorm.DB
}

func NewDayCompletionRepository(db *gorm.DB) *DayCompletionRepository {
	return &DayCompletionRepository{DB: db}
}

// CreateIfAbsent records one finished training day; replays are no-ops so
// retried requests cannot inflate the progress counters.
func (r *DayCompletionRepository) CreateIfAbsent(completion *model.TrainingDayCompletion) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "schema_id"}, {Name: "day_number"}},
		DoNothing: true,
	}).Create(completion)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
