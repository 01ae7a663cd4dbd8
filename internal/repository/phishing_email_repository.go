package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type PhishingEmailRepository struct {
	DB *gorm.DB
}

func NewPhishingEmailRepository(db *gorm.DB) *PhishingEmailRepository {
	return &PhishingEmailRepository{DB: db}
}

func (r *PhishingEmailRepository) Create(email *model.PhishingEmail) error {
	return r.DB.Create(email).Error
}

func (r *PhishingEmailRepository) FindByID(id uint) (*model.PhishingEmail, error) {
	var email model.PhishingEmail
	err := r.DB.First(&email, id).Error
	return &email, err
}

func (r *PhishingEmailRepository) List() ([]model.PhishingEmail, error) {
	var emails []model.PhishingEmail
	err := r.DB.Preload("User").Order("sent_at desc").Find(&emails).Error
	return emails, err
}

func (r *PhishingEmailRepository) ListByUser(userID uint) ([]model.PhishingEmail, error) {
	var emails []model.PhishingEmail
	err := r.DB.Where("user_id = ?", userID).Order("sent_at desc").Find(&emails).Error
	return emails, err
}
