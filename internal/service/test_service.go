package service

import (
	"errors"
	"fmt"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"

	"gorm.io/gorm"
)

// TestService manages test, question and answer authoring. Grading lives in
// GradingService; this service only shapes content.
type TestService struct {
	TestRepo     *repository.TestRepository
	QuestionRepo *repository.QuestionRepository
	AnswerRepo   *repository.AnswerRepository
	CourseRepo   *repository.CourseRepository
}

func NewTestService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	courseRepo *repository.CourseRepository,
) *TestService {
	return &TestService{
		TestRepo:     testRepo,
		QuestionRepo: questionRepo,
		AnswerRepo:   answerRepo,
		CourseRepo:   courseRepo,
	}
}

var ErrQuestionNotFound = errors.New("question not found")
var ErrAnswerNotFound = errors.New("answer not found")

type TestReq struct {
	CourseID    uint   `json:"courseId" binding:"required"`
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

func (s *TestService) Create(req TestReq) (*model.Test, error) {
	if _, err := s.CourseRepo.FindByID(req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	test := &model.Test{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.TestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) Get(id uint) (*model.Test, error) {
	test, err := s.TestRepo.FindByIDWithQuestions(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTestNotFound
	}
	return test, err
}

func (s *TestService) List() ([]model.Test, error) {
	return s.TestRepo.List()
}

func (s *TestService) Update(id uint, req TestReq) (*model.Test, error) {
	test, err := s.TestRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	test.CourseID = req.CourseID
	test.Title = req.Title
	test.Description = req.Description
	if err := s.TestRepo.Update(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) Delete(id uint) error {
	return s.TestRepo.Delete(id)
}

type QuestionReq struct {
	Text         string             `json:"text" binding:"required"`
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
}

func validQuestionType(t model.QuestionType) bool {
	switch t {
	case model.QuestionText, model.QuestionSingleChoice, model.QuestionMultipleChoice:
		return true
	}
	return false
}

func (s *TestService) CreateQuestion(testID uint, req QuestionReq) (*model.Question, error) {
	if !validQuestionType(req.QuestionType) {
		return nil, fmt.Errorf("unknown question type %q", req.QuestionType)
	}
	if _, err := s.TestRepo.FindByID(testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	question := &model.Question{
		TestID:       testID,
		Text:         req.Text,
		QuestionType: req.QuestionType,
	}
	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *TestService) UpdateQuestion(id uint, req QuestionReq) (*model.Question, error) {
	if !validQuestionType(req.QuestionType) {
		return nil, fmt.Errorf("unknown question type %q", req.QuestionType)
	}
	question, err := s.QuestionRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	question.Text = req.Text
	question.QuestionType = req.QuestionType
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *TestService) DeleteQuestion(id uint) error {
	return s.QuestionRepo.Delete(id)
}

type AnswerReq struct {
	Text      string `json:"text" binding:"required,max=255"`
	IsCorrect bool   `json:"isCorrect"`
}

func (s *TestService) CreateAnswer(questionID uint, req AnswerReq) (*model.Answer, error) {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	answer := &model.Answer{
		QuestionID: questionID,
		Text:       req.Text,
		IsCorrect:  req.IsCorrect,
	}
	if err := s.AnswerRepo.Create(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *TestService) UpdateAnswer(id uint, req AnswerReq) (*model.Answer, error) {
	answer, err := s.AnswerRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}
	answer.Text = req.Text
	answer.IsCorrect = req.IsCorrect
	if err := s.AnswerRepo.Update(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *TestService) DeleteAnswer(id uint) error {
	return s.AnswerRepo.Delete(id)
}
