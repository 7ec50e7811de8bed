package database

import (
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate runs AutoMigrate over the full model set. The unique indexes it
// creates are what make the engine's insert-once and upsert semantics hold
// under concurrent writers.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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
		return err
	}

	log.Println("Database migration completed")
	return nil
}
