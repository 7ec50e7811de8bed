// Backfill lesson_completions from the legacy user_lesson_progress table.
//
// The engine already reads both tables when it evaluates module gates, so
// running this is optional. It exists for deployments that want to retire
// the legacy table: after a backfill, every completed row has a
// lesson_completions counterpart and user_lesson_progress can be dropped.
//
// Usage: go run scripts/backfill_completions.go

package main

import (
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/pkg/database"
	"fitacademy_backend/pkg/logger"
	"log"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Backfilling lesson completions from legacy progress...")

	var migrated, scanned int64
	batch := make([]model.LegacyLessonProgress, 0, 500)
	result := db.Where("completed = ?", true).FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
		for _, row := range batch {
			scanned++
			completion := model.LessonCompletion{
				UserID:      row.UserID,
				LessonID:    row.LessonID,
				Score:       row.Score,
				TimeSpent:   row.TimeSpent,
				CompletedAt: row.UpdatedAt,
			}
			res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
			if res.Error != nil {
				return res.Error
			}
			migrated += res.RowsAffected
		}
		return nil
	})
	if result.Error != nil {
		log.Fatalf("Backfill failed: %v", result.Error)
	}

	log.Printf("Done: %d legacy rows scanned, %d completions written", scanned, migrated)
}
