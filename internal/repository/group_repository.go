package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(group *model.Group) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindByIDWithMembers(id uint) (*model.Group, error) {
	var group model.Group
	err := r.DB.Preload("Users").First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) List() ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Order("name asc").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) Update(group *model.Group) error {
	return r.DB.Save(group).Error
}

func (r *GroupRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, id).Error
	})
}
