package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrModuleNotFound   = errors.New("module not found")
	ErrSchemaNotFound   = errors.New("schema not found")
	ErrUnknownMilestone = errors.New("unknown onboarding milestone")
	ErrInvalidTimeSpent = errors.New("time spent must not be negative")
	ErrInvalidDayNumber = errors.New("day number must be positive")
)
