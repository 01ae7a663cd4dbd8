package service

import (
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"strings"
	"time"
)

// GradingService evaluates a learner's submitted answers against a test and
// appends one attempt record per submission.
type GradingService struct {
	TestRepo    *repository.TestRepository
	AttemptRepo *repository.UserTestRepository
}

func NewGradingService(testRepo *repository.TestRepository, attemptRepo *repository.UserTestRepository) *GradingService {
	return &GradingService{TestRepo: testRepo, AttemptRepo: attemptRepo}
}

// SubmittedAnswer carries one answer payload. Which field is meaningful
// depends on the question type: Text for text questions, AnswerID for
// single_choice, AnswerIDs for multiple_choice.
type SubmittedAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Text       string `json:"text,omitempty"`
	AnswerID   uint   `json:"answerId,omitempty"`
	AnswerIDs  []uint `json:"answerIds,omitempty"`
}

type GradeResult struct {
	Score   float64         `json:"score"`
	Correct int             `json:"correct"`
	Total   int             `json:"total"`
	Attempt *model.UserTest `json:"attempt"`
}

// TakeTest grades one submission and persists the attempt. Grading is a pure,
// synchronous pass over the test's questions; test content is never mutated.
func (s *GradingService) TakeTest(userID, testID uint, answers []SubmittedAnswer) (*GradeResult, error) {
	test, err := s.TestRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, err
	}

	total := len(test.Questions)
	if total == 0 {
		// Refuse rather than divide by zero.
		return nil, util.ErrTestHasNoQuestions
	}

	submitted := make(map[uint]SubmittedAnswer, len(answers))
	for _, a := range answers {
		submitted[a.QuestionID] = a
	}

	correct := 0
	for _, q := range test.Questions {
		ans, ok := submitted[q.ID]
		if !ok {
			continue // unanswered counts as incorrect
		}
		if gradeQuestion(&q, ans) {
			correct++
		}
	}

	score := float64(correct) / float64(total) * 100

	attempt := &model.UserTest{
		UserID:      userID,
		TestID:      testID,
		Score:       score,
		CompletedAt: time.Now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	return &GradeResult{Score: score, Correct: correct, Total: total, Attempt: attempt}, nil
}

func gradeQuestion(q *model.Question, ans SubmittedAnswer) bool {
	switch q.QuestionType {
	case model.QuestionText:
		// Correct when the submission matches any correct answer's text,
		// case-insensitively.
		for _, a := range q.Answers {
			if a.IsCorrect && strings.EqualFold(ans.Text, a.Text) {
				return true
			}
		}
		return false

	case model.QuestionSingleChoice:
		// The submitted id must name an answer of this question flagged
		// correct.
		for _, a := range q.Answers {
			if a.ID == ans.AnswerID && a.IsCorrect {
				return true
			}
		}
		return false

	case model.QuestionMultipleChoice:
		// Exact set equality with the correct set: supersets, subsets and the
		// empty set all grade incorrect. A question with no correct answers
		// can therefore never be answered correctly; this matches the
		// authoring gap upstream and is deliberately not "fixed" here.
		want := make(map[uint]bool)
		for _, a := range q.Answers {
			if a.IsCorrect {
				want[a.ID] = true
			}
		}
		got := make(map[uint]bool, len(ans.AnswerIDs))
		for _, id := range ans.AnswerIDs {
			got[id] = true
		}
		if len(want) == 0 || len(got) != len(want) {
			return false
		}
		for id := range want {
			if !got[id] {
				return false
			}
		}
		return true
	}
	return false
}

func (s *GradingService) ResultsForUser(userID uint) ([]model.UserTest, error) {
	return s.AttemptRepo.ListByUser(userID)
}
