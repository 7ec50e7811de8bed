package service

import (
	"fitacademy_backend/internal/config"
	"fitacademy_backend/internal/model"
	"fitacademy_backend/internal/repository"
	"fitacademy_backend/internal/util"
	"fitacademy_backend/pkg/logger"
	"fitacademy_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AcademyService owns lesson completion recording and module gating. All
// idempotence is enforced by the store's unique indexes, never by in-process
// state: requests for the same user may run concurrently on other instances.
type AcademyService struct {
	ModuleRepo           *repository.ModuleRepository
	LessonRepo           *repository.LessonRepository
	CompletionRepo       *repository.LessonCompletionRepository
	LegacyRepo           *repository.LegacyProgressRepository
	ModuleCompletionRepo *repository.ModuleCompletionRepository
	UnlockRepo           *repository.ModuleUnlockRepository
	UserRepo             *repository.UserRepository
	Cfg                  *config.Config
}

func NewAcademyService(
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	completionRepo *repository.LessonCompletionRepository,
	legacyRepo *repository.LegacyProgressRepository,
	moduleCompletionRepo *repository.ModuleCompletionRepository,
	unlockRepo *repository.ModuleUnlockRepository,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *AcademyService {
	return &AcademyService{
		ModuleRepo:           moduleRepo,
		LessonRepo:           lessonRepo,
		CompletionRepo:       completionRepo,
		LegacyRepo:           legacyRepo,
		ModuleCompletionRepo: moduleCompletionRepo,
		UnlockRepo:           unlockRepo,
		UserRepo:             userRepo,
		Cfg:                  cfg,
	}
}

type LessonProgressItem struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type ModuleProgress struct {
	ModuleID         uint                 `json:"moduleId"`
	Lessons          []LessonProgressItem `json:"lessons"`
	Completed        bool                 `json:"completed"`
	PreviousModuleID *uint                `json:"previousModuleId,omitempty"`
	NextModuleID     *uint                `json:"nextModuleId,omitempty"`
}

type ModuleEvaluation struct {
	Completed    bool  `json:"completed"`
	NextModuleID *uint `json:"nextModuleId,omitempty"`
	// UnlockedNext is true only when this evaluation wrote the unlock row.
	UnlockedNext bool `json:"unlockedNext"`
}

type ModuleSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Unlocked  bool   `json:"unlocked"`
	Completed bool   `json:"completed"`
}

type UnlockResult struct {
	Unlocked     bool   `json:"unlocked"`
	Reason       string `json:"reason,omitempty"`
	NextModuleID *uint  `json:"nextModuleId,omitempty"`
}

const (
	UnlockReasonNoNextModule       = "no_next_module"
	UnlockReasonAlreadyUnlocked    = "already_unlocked"
	UnlockReasonModuleNotCompleted = "module_not_completed"
)

// CompleteLesson records a lesson completion. The write is an upsert keyed
// by (user, lesson): replays and multi-device races collapse to one row
// with latest-write-wins fields, so blind client retries are safe.
func (s *AcademyService) CompleteLesson(userID, lessonID uint, score, timeSpent int) (*model.LessonCompletion, error) {
	if timeSpent < 0 {
		return nil, util.ErrInvalidTimeSpent
	}
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	completion := &model.LessonCompletion{
		UserID:      userID,
		LessonID:    lessonID,
		Score:       score,
		TimeSpent:   timeSpent,
		CompletedAt: time.Now(),
	}
	// The upsert itself says whether this was the first completion, so the
	// XP award rides on the store's insert arbitration rather than a
	// read-then-write check.
	created, err := s.CompletionRepo.Upsert(completion)
	if err != nil {
		return nil, err
	}
	monitoring.LessonCompletions.Inc()

	if created {
		if err := s.UserRepo.AddXP(userID, util.XPLessonCompleted); err != nil {
			logger.Log.Warn("failed to award lesson XP",
				zap.Uint("userId", userID), zap.Uint("lessonId", lessonID), zap.Error(err))
		}
	}

	// The completion itself is committed; a gate failure here is logged and
	// left for the next evaluation to converge on.
	if _, err := s.EvaluateModule(userID, lesson.ModuleID); err != nil {
		logger.Log.Error("module gate evaluation failed",
			zap.Uint("userId", userID), zap.Uint("moduleId", lesson.ModuleID), zap.Error(err))
	}

	return completion, nil
}

// EvaluateModule decides whether the user finished every published lesson
// of the module, reconciling the legacy progress table with the current
// completion table (a lesson complete in either counts). When complete it
// writes the insert-once completion snapshot and unlocks the next module
// by order index. Losing a concurrent insert race is a successful no-op.
func (s *AcademyService) EvaluateModule(userID, moduleID uint) (*ModuleEvaluation, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	lessons, err := s.LessonRepo.FindPublishedByModule(moduleID)
	if err != nil {
		return nil, err
	}
	// A module with no published lessons is vacuously coverable but not
	// completable: unlocking the rest of the curriculum off an empty module
	// would let a stub module open everything.
	if len(lessons) == 0 {
		return &ModuleEvaluation{Completed: false}, nil
	}

	completed, err := s.completedSet(userID, lessons)
	if err != nil {
		return nil, err
	}

	for _, lesson := range lessons {
		if !completed[lesson.ID] {
			return &ModuleEvaluation{Completed: false}, nil
		}
	}

	_, err = s.ModuleCompletionRepo.CreateIfAbsent(&model.ModuleCompletion{
		UserID:           userID,
		ModuleID:         moduleID,
		TotalLessons:     len(lessons),
		CompletedLessons: len(lessons),
		CompletedAt:      time.Now(),
	})
	if err != nil {
		return nil, err
	}

	next, err := s.ModuleRepo.NextAfter(module.OrderIndex)
	if err != nil {
		return nil, err
	}
	if next == nil {
		// Last module of the curriculum, nothing left to unlock.
		return &ModuleEvaluation{Completed: true}, nil
	}

	created, err := s.UnlockRepo.CreateIfAbsent(&model.ModuleUnlock{
		UserID:     userID,
		ModuleID:   next.ID,
		UnlockedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if created {
		monitoring.ModuleUnlocks.Inc()
	}

	nextID := next.ID
	return &ModuleEvaluation{Completed: true, NextModuleID: &nextID, UnlockedNext: created}, nil
}

// UnlockNextModule is the explicit client-facing unlock. It re-evaluates
// completeness rather than trusting any stored flag, and reports an already
// existing unlock as success so N concurrent calls all succeed with exactly
// one row written.
func (s *AcademyService) UnlockNextModule(userID, moduleID uint) (*UnlockResult, error) {
	eval, err := s.EvaluateModule(userID, moduleID)
	if err != nil {
		return nil, err
	}

	if !eval.Completed {
		return &UnlockResult{Unlocked: false, Reason: UnlockReasonModuleNotCompleted}, nil
	}
	if eval.NextModuleID == nil {
		return &UnlockResult{Unlocked: false, Reason: UnlockReasonNoNextModule}, nil
	}
	if !eval.UnlockedNext {
		return &UnlockResult{Unlocked: true, Reason: UnlockReasonAlreadyUnlocked, NextModuleID: eval.NextModuleID}, nil
	}
	return &UnlockResult{Unlocked: true, NextModuleID: eval.NextModuleID}, nil
}

// ModuleProgress assembles the per-lesson completion view for one module.
func (s *AcademyService) ModuleProgress(userID, moduleID uint) (*ModuleProgress, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	lessons, err := s.LessonRepo.FindPublishedByModule(moduleID)
	if err != nil {
		return nil, err
	}

	completed, err := s.completedSet(userID, lessons)
	if err != nil {
		return nil, err
	}

	items := make([]LessonProgressItem, len(lessons))
	allDone := len(lessons) > 0
	for i, lesson := range lessons {
		done := completed[lesson.ID]
		items[i] = LessonProgressItem{ID: lesson.ID, Title: lesson.Title, Completed: done}
		if !done {
			allDone = false
		}
	}

	progress := &ModuleProgress{
		ModuleID:  moduleID,
		Lessons:   items,
		Completed: allDone,
	}

	if prev, err := s.ModuleRepo.PrevBefore(module.OrderIndex); err != nil {
		return nil, err
	} else if prev != nil {
		progress.PreviousModuleID = &prev.ID
	}
	if next, err := s.ModuleRepo.NextAfter(module.OrderIndex); err != nil {
		return nil, err
	} else if next != nil {
		progress.NextModuleID = &next.ID
	}

	return progress, nil
}

// ListModules returns the published curriculum with the user's unlock and
// completion state. The first module by order is unlocked for everyone.
func (s *AcademyService) ListModules(userID uint) ([]ModuleSummary, error) {
	modules, err := s.ModuleRepo.FindPublished()
	if err != nil {
		return nil, err
	}

	unlockedIDs, err := s.UnlockRepo.UnlockedModuleIDs(userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	first, err := s.ModuleRepo.FirstByOrder()
	if err != nil {
		return nil, err
	}

	summaries := make([]ModuleSummary, len(modules))
	for i, m := range modules {
		done, err := s.ModuleCompletionRepo.Exists(userID, m.ID)
		if err != nil {
			return nil, err
		}
		summaries[i] = ModuleSummary{
			ID:        m.ID,
			Title:     m.Title,
			Order:     m.OrderIndex,
			Unlocked:  unlocked[m.ID] || (first != nil && first.ID == m.ID),
			Completed: done,
		}
	}
	return summaries, nil
}

// completedSet merges the two historical completion sources into one set of
// completed lesson ids. Neither table is migrated here; the union at read
// time is the canonical answer.
func (s *AcademyService) completedSet(userID uint, lessons []model.Lesson) (map[uint]bool, error) {
	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}

	current, err := s.CompletionRepo.CompletedLessonIDs(userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	legacy, err := s.LegacyRepo.CompletedLessonIDs(userID, lessonIDs)
	if err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(current)+len(legacy))
	for _, id := range current {
		set[id] = true
	}
	for _, id := range legacy {
		set[id] = true
	}
	return set, nil
}
