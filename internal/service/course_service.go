package service

import (
	"errors"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

var ErrCourseNotFound = errors.New("course not found")
var ErrPageNotFound = errors.New("course page not found")

type CourseReq struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (s *CourseService) Create(req CourseReq) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithContent(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) List() ([]model.Course, error) {
	return s.CourseRepo.List()
}

func (s *CourseService) Update(id uint, req CourseReq) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	course.Title = req.Title
	course.Description = req.Description
	course.Image = req.Image
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(id uint) error {
	return s.CourseRepo.Delete(id)
}

type PageReq struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

func (s *CourseService) CreatePage(courseID uint, req PageReq) (*model.CoursePage, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	page := &model.CoursePage{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
		Order:    req.Order,
	}
	if err := s.CourseRepo.CreatePage(page); err != nil {
		return nil, err
	}
	return page, nil
}

// PageView is one page plus the ids of its neighbours in reading order, for
// previous/next navigation in the course player.
type PageView struct {
	Page   *model.CoursePage `json:"page"`
	PrevID *uint             `json:"prevId"`
	NextID *uint             `json:"nextId"`
}

func (s *CourseService) GetPage(courseID, pageID uint) (*PageView, error) {
	pages, err := s.CourseRepo.ListPages(courseID)
	if err != nil {
		return nil, err
	}

	for i := range pages {
		if pages[i].ID != pageID {
			continue
		}
		view := &PageView{Page: &pages[i]}
		if i > 0 {
			view.PrevID = &pages[i-1].ID
		}
		if i < len(pages)-1 {
			view.NextID = &pages[i+1].ID
		}
		return view, nil
	}
	return nil, ErrPageNotFound
}

func (s *CourseService) UpdatePage(courseID, pageID uint, req PageReq) (*model.CoursePage, error) {
	page, err := s.CourseRepo.FindPage(courseID, pageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	page.Title = req.Title
	page.Content = req.Content
	page.Order = req.Order
	if err := s.CourseRepo.UpdatePage(page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *CourseService) DeletePage(courseID, pageID uint) error {
	if _, err := s.CourseRepo.FindPage(courseID, pageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return err
	}
	return s.CourseRepo.DeletePage(pageID)
}
