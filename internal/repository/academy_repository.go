package repository

import (
	"fitacademy_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) FindByID(id uint) (*model.AcademyModule, error) {
	var module model.AcademyModule
	err := r.DB.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) FindPublished() ([]model.AcademyModule, error) {
	var modules []model.AcademyModule
	err := r.DB.Where("status = ?", model.StatusPublished).
		Order("order_index ASC").
		Find(&modules).Error
	return modules, err
}

// NextAfter returns the module with the smallest order index strictly
// greater than the given one, regardless of publish status: draft modules
// are valid unlock targets, visibility is a content-management concern.
// Returns nil when the given module is the last one.
func (r *ModuleRepository) NextAfter(orderIndex int) (*model.AcademyModule, error) {
	var module model.AcademyModule
	err := r.DB.Where("order_index > ?", orderIndex).
		Order("order_index ASC").
		First(&module).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// PrevBefore mirrors NextAfter for the previous module, used by the module
// progress read model.
func (r *ModuleRepository) PrevBefore(orderIndex int) (*model.AcademyModule, error) {
	var module model.AcademyModule
	err := r.DB.Where("order_index < ?", orderIndex).
		Order("order_index DESC").
		First(&module).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) FirstByOrder() (*model.AcademyModule, error) {
	var module model.AcademyModule
	err := r.DB.Order("order_index ASC").First(&module).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindPublishedByModule returns the lessons that count toward module
// completion, in curriculum order.
func (r *LessonRepository) FindPublishedByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ? AND status = ?", moduleID, model.StatusPublished).
		Order("order_index ASC").
		Find(&lessons).Error
	return lessons, err
}
