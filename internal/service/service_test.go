package service

import (
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/pkg/logger"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.AcademyModule{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.LegacyLessonProgress{},
		&model.ModuleCompletion{},
		&model.ModuleUnlock{},
		&model.OnboardingStatus{},
		&model.TrainingSchema{},
		&model.SchemaPeriod{},
		&model.SchemaProgress{},
		&model.TrainingDayCompletion{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Progression: config.ProgressionConfig{
			CompletionWeeks:  8,
			DefaultFrequency: 7,
		},
	}
}

func newAcademyService(db *gorm.DB) *AcademyService {
	return NewAcademyService(
		repository.NewModuleRepository(db),
		repository.NewLessonRepository(db),
		repository.NewLessonCompletionRepository(db),
		repository.NewLegacyProgressRepository(db),
		repository.NewModuleCompletionRepository(db),
		repository.NewModuleUnlockRepository(db),
		repository.NewUserRepository(db),
		testConfig(),
	)
}

func newSchemaService(db *gorm.DB) *SchemaService {
	return NewSchemaService(
		repository.NewSchemaRepository(db),
		repository.NewPeriodRepository(db),
		repository.NewSchemaProgressRepository(db),
		repository.NewDayCompletionRepository(db),
		repository.NewUserRepository(db),
		testConfig(),
	)
}

func newOnboardingService(db *gorm.DB) *OnboardingService {
	return NewOnboardingService(repository.NewOnboardingRepository(db))
}
