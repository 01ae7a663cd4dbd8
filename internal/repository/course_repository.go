package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Pages", func(db *gorm.DB) *gorm.DB {
			return db.Order("course_pages.order asc")
		}).
		Preload("Tests").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Tests").Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.CoursePage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) CreatePage(page *model.CoursePage) error {
	return r.DB.Create(page).Error
}

func (r *CourseRepository) FindPage(courseID, pageID uint) (*model.CoursePage, error) {
	var page model.CoursePage
	err := r.DB.Where("course_id = ?", courseID).First(&page, pageID).Error
	return &page, err
}

func (r *CourseRepository) ListPages(courseID uint) ([]model.CoursePage, error) {
	var pages []model.CoursePage
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc").Find(&pages).Error
	return pages, err
}

func (r *CourseRepository) UpdatePage(page *model.CoursePage) error {
	return r.DB.Save(page).Error
}

func (r *CourseRepository) DeletePage(pageID uint) error {
	return r.DB.Delete(&model.CoursePage{}, pageID).Error
}
