package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// Create appends one event. The log is append-only: no update or delete
// methods exist on purpose.
func (r *ActivityRepository) Create(activity *model.Activity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) ListAll() ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.Preload("Actor").Order("timestamp desc").Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) ListRecent(limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.Preload("Actor").Order("timestamp desc").Limit(limit).Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) ListByTarget(targetType string, targetID uint) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("timestamp desc").
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) CountByVerb(verb string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Activity{}).Where("verb = ?", verb).Count(&count).Error
	return count, err
}
