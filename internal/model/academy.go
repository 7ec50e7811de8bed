package model

// AcademyModule is an ordered unit of the curriculum. Authored in the CMS;
// read-only to this service.
type AcademyModule struct {
	BaseModel
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	OrderIndex  int           `gorm:"column:order_index;default:0;index" json:"order"`
	Status      ContentStatus `gorm:"size:20;default:'draft'" json:"status"`
	Lessons     []Lesson      `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (AcademyModule) TableName() string {
	return "academy_modules"
}

// Lesson is the smallest completable curriculum unit.
type Lesson struct {
	BaseModel
	ModuleID   uint          `gorm:"index;not null" json:"moduleId"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	OrderIndex int           `gorm:"column:order_index;default:0" json:"order"`
	Status     ContentStatus `gorm:"size:20;default:'draft'" json:"status"`
	VideoURL   string        `gorm:"size:255" json:"videoUrl"`
}

func (Lesson) TableName() string {
	return "lessons"
}
