package model

// OnboardingStatus is the per-user onboarding singleton. The milestone
// booleans are the source of truth; CurrentStep is a monotone write-through
// cache and is re-derived from the milestones on every read.
type OnboardingStatus struct {
	BaseModel
	UserID                uint `gorm:"uniqueIndex;not null" json:"userId"`
	WelcomeVideoWatched   bool `gorm:"default:false" json:"welcomeVideoWatched"`
	GoalSet               bool `gorm:"default:false" json:"goalSet"`
	ChallengesSelected    bool `gorm:"default:false" json:"challengesSelected"`
	SchemaSelected        bool `gorm:"default:false" json:"schemaSelected"`
	NutritionPlanSelected bool `gorm:"default:false" json:"nutritionPlanSelected"`
	ForumIntroDone        bool `gorm:"default:false" json:"forumIntroDone"`
	CurrentStep           int  `gorm:"default:0" json:"currentStep"`
	Completed             bool `gorm:"default:false" json:"completed"`
}

func (OnboardingStatus) TableName() string {
	return "onboarding_statuses"
}
