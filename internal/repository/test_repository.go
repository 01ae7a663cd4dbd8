package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.First(&test, id).Error
	return &test, err
}

// FindByIDWithQuestions loads the test with its full question/answer tree,
// which is what the grading engine evaluates against.
func (r *TestRepository) FindByIDWithQuestions(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.Preload("Questions.Answers").First(&test, id).Error
	return &test, err
}

func (r *TestRepository) List() ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Order("created_at desc").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) ListByCourse(courseID uint) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.Where("course_id = ?", courseID).Find(&tests).Error
	return tests, err
}

func (r *TestRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Test{}).Count(&count).Error
	return count, err
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Save(test).Error
}

// Delete removes the test and cascades over its questions and their answers.
func (r *TestRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("test_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Test{}, id).Error
	})
}
