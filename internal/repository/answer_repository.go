package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) Create(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *AnswerRepository) FindByID(id uint) (*model.Answer, error) {
	var a model.Answer
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *AnswerRepository) ListByQuestion(questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("question_id = ?", questionID).Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) ListCorrectByQuestion(questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("question_id = ? AND is_correct = ?", questionID, true).Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) Update(answer *model.Answer) error {
	return r.DB.Save(answer).Error
}

func (r *AnswerRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Answer{}, id).Error
}
