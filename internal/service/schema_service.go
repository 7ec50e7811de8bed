package service

import (
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/util"
	"fitacademy_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// SchemaService tracks a user's commitment to a training schema over time.
// "Done" has two distinct signals folded into one boolean: an explicit
// completion event (completed_at set) and the derived week-count threshold.
// The derived signal is never written back; completed_at staying nil is how
// reports tell auto-completion apart from the real event.
type SchemaService struct {
	SchemaRepo   *repository.SchemaRepository
	PeriodRepo   *repository.PeriodRepository
	ProgressRepo *repository.SchemaProgressRepository
	DayRepo      *repository.DayCompletionRepository
	UserRepo     *repository.UserRepository
	Cfg          *config.Config
}

func NewSchemaService(
	schemaRepo *repository.SchemaRepository,
	periodRepo *repository.PeriodRepository,
	progressRepo *repository.SchemaProgressRepository,
	dayRepo *repository.DayCompletionRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *SchemaService {
	return &SchemaService{
		SchemaRepo:   schemaRepo,
		PeriodRepo:   periodRepo,
		ProgressRepo: progressRepo,
		DayRepo:      dayRepo,
		UserRepo:     userRepo,
		Cfg:          cfg,
	}
}

type SchemaStatus struct {
	TotalDaysCompleted int        `json:"totalDaysCompleted"`
	WeeksCompleted     int        `json:"weeksCompleted"`
	CompletedAt        *time.Time `json:"completedAt"`
	IsCompleted        bool       `json:"isCompleted"`
}

// StartPeriod opens a new active period on the schema, closing whatever
// period was active before. One active period per user is an enforced
// invariant; the close-and-create runs in one transaction.
func (s *SchemaService) StartPeriod(userID uint, schemaID string, startDate time.Time) (*model.SchemaPeriod, error) {
	if _, err := s.SchemaRepo.FindByID(schemaID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSchemaNotFound
		}
		return nil, err
	}

	if startDate.IsZero() {
		startDate = time.Now()
	}

	period := &model.SchemaPeriod{
		UserID:    userID,
		SchemaID:  schemaID,
		StartDate: startDate,
		Status:    model.PeriodActive,
	}
	if err := s.PeriodRepo.StartPeriod(period); err != nil {
		return nil, err
	}
	monitoring.PeriodsStarted.Inc()

	if _, err := s.ProgressRepo.GetOrCreate(userID, schemaID); err != nil {
		return nil, err
	}

	return period, nil
}

// CompletionStatus derives the week count from the day counter and the
// user's weekly training frequency. An explicit completion event always
// wins over the arithmetic: a high-frequency user can finish in fewer
// calendar weeks than the division suggests, and the counter may be stale.
func (s *SchemaService) CompletionStatus(userID uint, schemaID string) (*SchemaStatus, error) {
	if _, err := s.SchemaRepo.FindByID(schemaID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSchemaNotFound
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.Find(userID, schemaID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return &SchemaStatus{}, nil
	}

	settings := s.Cfg.ProgressionSettings()
	frequency := s.trainingFrequency(userID)

	status := &SchemaStatus{
		TotalDaysCompleted: progress.CompletedDays,
		CompletedAt:        progress.CompletedAt,
	}

	if progress.CompletedAt != nil {
		status.WeeksCompleted = settings.CompletionWeeks
	} else {
		status.WeeksCompleted = progress.CompletedDays / frequency
	}
	status.IsCompleted = progress.CompletedAt != nil ||
		status.WeeksCompleted >= settings.CompletionWeeks

	return status, nil
}

// CompleteTrainingDay records one finished training day. The day fact is
// insert-once per (user, schema, day); only a fresh insert moves the
// counters, so retries and double taps cannot inflate the progress.
func (s *SchemaService) CompleteTrainingDay(userID uint, schemaID string, dayNumber int) (*model.SchemaProgress, error) {
	if dayNumber < 1 {
		return nil, util.ErrInvalidDayNumber
	}
	if _, err := s.SchemaRepo.FindByID(schemaID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSchemaNotFound
		}
		return nil, err
	}

	created, err := s.DayRepo.CreateIfAbsent(&model.TrainingDayCompletion{
		UserID:      userID,
		SchemaID:    schemaID,
		DayNumber:   dayNumber,
		CompletedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.ProgressRepo.GetOrCreate(userID, schemaID); err != nil {
		return nil, err
	}
	if created {
		if err := s.ProgressRepo.IncrementDay(userID, schemaID, dayNumber); err != nil {
			return nil, err
		}
	}

	return s.ProgressRepo.Find(userID, schemaID)
}

// MarkCompleted records the explicit completion event for the schema and
// closes the matching active period with a completion timestamp. Calling it
// again is a no-op.
func (s *SchemaService) MarkCompleted(userID uint, schemaID string) (*SchemaStatus, error) {
	if _, err := s.SchemaRepo.FindByID(schemaID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSchemaNotFound
		}
		return nil, err
	}

	if _, err := s.ProgressRepo.GetOrCreate(userID, schemaID); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.ProgressRepo.MarkCompleted(userID, schemaID, now); err != nil {
		return nil, err
	}

	period, err := s.PeriodRepo.FindActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if period != nil && period.SchemaID == schemaID {
		if err := s.PeriodRepo.Complete(period, now); err != nil {
			return nil, err
		}
	}

	return s.CompletionStatus(userID, schemaID)
}

// PeriodHistory lists the user's periods across all schemas, newest first.
func (s *SchemaService) PeriodHistory(userID uint) ([]model.SchemaPeriod, error) {
	return s.PeriodRepo.FindByUser(userID)
}

func (s *SchemaService) trainingFrequency(userID uint) int {
	frequency := 0
	if user, err := s.UserRepo.FindByID(userID); err == nil {
		frequency = user.TrainingFrequency
	}
	if frequency <= 0 {
		frequency = s.Cfg.ProgressionSettings().DefaultFrequency
	}
	if frequency < 1 {
		frequency = 1
	}
	return frequency
}
