package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Coach  UserRole = "coach"
	Admin  UserRole = "admin"
)

// MemberPackage is the billing package a user bought. Entitlement flags
// (training/nutrition access) are derived from it, never stored.
type MemberPackage string

const (
	PackageAcademy   MemberPackage = "academy"
	PackageTraining  MemberPackage = "training"
	PackageNutrition MemberPackage = "nutrition"
	PackageAllAccess MemberPackage = "all_access"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string        `gorm:"size:100;not null" json:"name"`
	Email    string        `gorm:"size:100;unique;not null" json:"email"`
	Password string        `gorm:"size:100;not null" json:"-"`
	Role     UserRole      `gorm:"size:20;default:'member'" json:"role"`
	Package  MemberPackage `gorm:"size:30;default:'academy'" json:"package"`
	// TrainingFrequency is the configured number of training days per week.
	// Zero means not configured; the progression default applies.
	TrainingFrequency int       `gorm:"default:0" json:"trainingFrequency"`
	XP                int       `gorm:"default:0" json:"xp"`
	Avatar            string    `gorm:"size:255" json:"avatar"`
	Disabled          bool      `gorm:"default:false" json:"disabled"`
	LastLogin         time.Time `json:"lastLogin"`
	LastSeen          time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
