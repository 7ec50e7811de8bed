package service

import (
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSchema(t *testing.T, db *gorm.DB) *model.TrainingSchema {
	t.Helper()
	schema := &model.TrainingSchema{Name: "Full Body 8 Weeks", WeeksTotal: 8, Status: model.StatusPublished}
	require.NoError(t, db.Create(schema).Error)
	return schema
}

func seedUserWithFrequency(t *testing.T, db *gorm.DB, frequency int) *model.User {
	t.Helper()
	user := &model.User{
		Name: "Sam", Email: "sam@example.com", Password: "x",
		Package: model.PackageTraining, TrainingFrequency: frequency,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func completeDays(t *testing.T, svc *SchemaService, userID uint, schemaID string, days int) {
	t.Helper()
	for day := 1; day <= days; day++ {
		_, err := svc.CompleteTrainingDay(userID, schemaID, day)
		require.NoError(t, err)
	}
}

func TestStartPeriodClosesPreviousActive(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	first := seedSchema(t, db)
	second := &model.TrainingSchema{Name: "Hypertrophy Block", WeeksTotal: 8, Status: model.StatusPublished}
	require.NoError(t, db.Create(second).Error)

	_, err := svc.StartPeriod(user.ID, first.ID, time.Time{})
	require.NoError(t, err)
	_, err = svc.StartPeriod(user.ID, second.ID, time.Time{})
	require.NoError(t, err)

	var active []model.SchemaPeriod
	require.NoError(t, db.Where("user_id = ? AND status = ?", user.ID, model.PeriodActive).Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].SchemaID)

	// the switched-away period is closed but carries no completion event
	var closed model.SchemaPeriod
	require.NoError(t, db.Where("user_id = ? AND schema_id = ?", user.ID, first.ID).First(&closed).Error)
	assert.Equal(t, model.PeriodCompleted, closed.Status)
	assert.Nil(t, closed.CompletedAt)
}

func TestStartPeriodUnknownSchema(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)

	_, err := svc.StartPeriod(user.ID, "no-such-schema", time.Time{})
	assert.ErrorIs(t, err, util.ErrSchemaNotFound)
}

func TestCompletionStatusWeekArithmetic(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	schema := seedSchema(t, db)

	_, err := svc.StartPeriod(user.ID, schema.ID, time.Time{})
	require.NoError(t, err)

	// 23 days at 3 per week floors to 7 weeks, one short of done
	completeDays(t, svc, user.ID, schema.ID, 23)

	status, err := svc.CompletionStatus(user.ID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 23, status.TotalDaysCompleted)
	assert.Equal(t, 7, status.WeeksCompleted)
	assert.False(t, status.IsCompleted)
	assert.Nil(t, status.CompletedAt)

	// one more day crosses the threshold
	_, err = svc.CompleteTrainingDay(user.ID, schema.ID, 24)
	require.NoError(t, err)

	status, err = svc.CompletionStatus(user.ID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, status.WeeksCompleted)
	assert.True(t, status.IsCompleted)
	assert.Nil(t, status.CompletedAt, "derived completion never writes the event")
}

func TestCompletionStatusWithoutProgressIsZero(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	schema := seedSchema(t, db)

	status, err := svc.CompletionStatus(user.ID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalDaysCompleted)
	assert.False(t, status.IsCompleted)
}

func TestCompleteTrainingDayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	schema := seedSchema(t, db)

	for i := 0; i < 4; i++ {
		progress, err := svc.CompleteTrainingDay(user.ID, schema.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 1, progress.CompletedDays)
		assert.Equal(t, 1, progress.CurrentDay)
	}
}

func TestCompleteTrainingDayOutOfOrderKeepsCurrentDay(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	schema := seedSchema(t, db)

	_, err := svc.CompleteTrainingDay(user.ID, schema.ID, 5)
	require.NoError(t, err)

	// a backfilled earlier day counts but must not move the position back
	progress, err := svc.CompleteTrainingDay(user.ID, schema.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.CompletedDays)
	assert.Equal(t, 5, progress.CurrentDay)
}

func TestCompleteTrainingDayValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	schema := seedSchema(t, db)

	_, err := svc.CompleteTrainingDay(user.ID, schema.ID, 0)
	assert.ErrorIs(t, err, util.ErrInvalidDayNumber)

	_, err = svc.CompleteTrainingDay(user.ID, "missing", 1)
	assert.ErrorIs(t, err, util.ErrSchemaNotFound)
}

func TestMarkCompletedOverridesArithmetic(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 7)
	schema := seedSchema(t, db)

	_, err := svc.StartPeriod(user.ID, schema.ID, time.Time{})
	require.NoError(t, err)
	completeDays(t, svc, user.ID, schema.ID, 5)

	status, err := svc.MarkCompleted(user.ID, schema.ID)
	require.NoError(t, err)
	assert.True(t, status.IsCompleted)
	require.NotNil(t, status.CompletedAt)
	// the explicit event pins the week count to the full program length
	assert.Equal(t, 8, status.WeeksCompleted)

	// the active period was closed with the completion timestamp
	var period model.SchemaPeriod
	require.NoError(t, db.Where("user_id = ? AND schema_id = ?", user.ID, schema.ID).First(&period).Error)
	assert.Equal(t, model.PeriodCompleted, period.Status)
	assert.NotNil(t, period.CompletedAt)
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	schema := seedSchema(t, db)

	first, err := svc.MarkCompleted(user.ID, schema.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	second, err := svc.MarkCompleted(user.ID, schema.ID)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt), "replay must not move the completion timestamp")
}

func TestActivePeriodUniqueInStore(t *testing.T) {
	db := newTestDB(t)

	uid := uint(1)
	first := &model.SchemaPeriod{
		UserID: 1, SchemaID: "s1", StartDate: time.Now(),
		Status: model.PeriodActive, ActiveUserID: &uid,
	}
	require.NoError(t, db.Create(first).Error)

	// a second active row for the same user hits the unique slot
	second := &model.SchemaPeriod{
		UserID: 1, SchemaID: "s2", StartDate: time.Now(),
		Status: model.PeriodActive, ActiveUserID: &uid,
	}
	err := db.Create(second).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// closed rows carry a NULL slot and never collide
	for i := 0; i < 2; i++ {
		closed := &model.SchemaPeriod{
			UserID: 1, SchemaID: "s3", StartDate: time.Now(),
			Status: model.PeriodCompleted,
		}
		require.NoError(t, db.Create(closed).Error)
	}

	// another user's active period is unaffected
	other := uint(2)
	third := &model.SchemaPeriod{
		UserID: 2, SchemaID: "s1", StartDate: time.Now(),
		Status: model.PeriodActive, ActiveUserID: &other,
	}
	require.NoError(t, db.Create(third).Error)
}

func TestStartPeriodReleasesActiveSlot(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 3)
	first := seedSchema(t, db)
	second := &model.TrainingSchema{Name: "Strength Block", WeeksTotal: 8, Status: model.StatusPublished}
	require.NoError(t, db.Create(second).Error)

	_, err := svc.StartPeriod(user.ID, first.ID, time.Time{})
	require.NoError(t, err)
	_, err = svc.StartPeriod(user.ID, second.ID, time.Time{})
	require.NoError(t, err)

	var closed model.SchemaPeriod
	require.NoError(t, db.Where("user_id = ? AND schema_id = ?", user.ID, first.ID).First(&closed).Error)
	assert.Nil(t, closed.ActiveUserID)

	var active model.SchemaPeriod
	require.NoError(t, db.Where("user_id = ? AND schema_id = ?", user.ID, second.ID).First(&active).Error)
	require.NotNil(t, active.ActiveUserID)
	assert.Equal(t, user.ID, *active.ActiveUserID)

	// an explicit completion also hands the slot back
	_, err = svc.MarkCompleted(user.ID, second.ID)
	require.NoError(t, err)
	require.NoError(t, db.Where("user_id = ? AND schema_id = ?", user.ID, second.ID).First(&active).Error)
	assert.Nil(t, active.ActiveUserID)
}

func TestProgressionReloadTakesEffect(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 2)
	schema := seedSchema(t, db)

	completeDays(t, svc, user.ID, schema.ID, 8)

	status, err := svc.CompletionStatus(user.ID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, status.WeeksCompleted)
	assert.False(t, status.IsCompleted)

	// a config reload lowers the threshold mid-flight
	svc.Cfg.SetProgression(config.ProgressionConfig{CompletionWeeks: 4, DefaultFrequency: 7})

	status, err = svc.CompletionStatus(user.ID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, status.WeeksCompleted)
	assert.True(t, status.IsCompleted)
}

func TestDefaultFrequencyAppliesWhenUnset(t *testing.T) {
	db := newTestDB(t)
	svc := newSchemaService(db)
	user := seedUserWithFrequency(t, db, 0)
	schema := seedSchema(t, db)

	completeDays(t, svc, user.ID, schema.ID, 14)

	// unset frequency falls back to the configured default of 7
	status, err := svc.CompletionStatus(user.ID, schema.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.WeeksCompleted)
}
