package service

import (
	"errors"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newGradingFixture(t *testing.T) (*gorm.DB, *GradingService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewGradingService(repository.NewTestRepository(db), repository.NewUserTestRepository(db))
	return db, svc
}

func TestTakeTestScoresProportionally(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "alice")
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"phish", "safe"}, correct: []int{0}},
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"yes", "no"}, correct: []int{1}},
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a", "b"}, correct: []int{0}},
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a", "b"}, correct: []int{0}},
	)
	questions := loadAnswers(t, db, test.ID)

	// Answer the first three correctly, the last one wrong.
	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, AnswerID: questions[0].Answers[0].ID},
		{QuestionID: questions[1].ID, AnswerID: questions[1].Answers[1].ID},
		{QuestionID: questions[2].ID, AnswerID: questions[2].Answers[0].ID},
		{QuestionID: questions[3].ID, AnswerID: questions[3].Answers[1].ID},
	}

	result, err := svc.TakeTest(user.ID, test.ID, answers)
	if err != nil {
		t.Fatalf("TakeTest: %v", err)
	}
	if result.Correct != 3 || result.Total != 4 {
		t.Errorf("got %d/%d, want 3/4", result.Correct, result.Total)
	}
	if result.Score != 75 {
		t.Errorf("score = %v, want 75", result.Score)
	}

	var attempts []model.UserTest
	if err := db.Where("user_id = ?", user.ID).Find(&attempts).Error; err != nil {
		t.Fatal(err)
	}
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}
	if attempts[0].Score != 75 {
		t.Errorf("persisted score = %v, want 75", attempts[0].Score)
	}
	if attempts[0].CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}
}

func TestTakeTestEmptyTestRejected(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "bob")
	test := createTest(t, db) // no questions

	_, err := svc.TakeTest(user.ID, test.ID, nil)
	if !errors.Is(err, util.ErrTestHasNoQuestions) {
		t.Fatalf("err = %v, want ErrTestHasNoQuestions", err)
	}

	var n int64
	db.Model(&model.UserTest{}).Count(&n)
	if n != 0 {
		t.Errorf("attempt recorded for empty test")
	}
}

func TestTakeTestUnknownTest(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "carol")

	_, err := svc.TakeTest(user.ID, 9999, nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

func TestTakeTestTextCaseInsensitive(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "dave")
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionText, options: []string{"paris"}, correct: []int{0}},
	)
	questions := loadAnswers(t, db, test.ID)

	result, err := svc.TakeTest(user.ID, test.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, Text: "PARIS"},
	})
	if err != nil {
		t.Fatalf("TakeTest: %v", err)
	}
	if result.Score != 100 {
		t.Errorf("score = %v, want 100", result.Score)
	}
}

func TestTakeTestSingleChoiceForeignAnswerRejected(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "erin")
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"right", "wrong"}, correct: []int{0}},
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"right", "wrong"}, correct: []int{0}},
	)
	questions := loadAnswers(t, db, test.ID)

	// Submit question 2's correct answer id against question 1.
	result, err := svc.TakeTest(user.ID, test.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, AnswerID: questions[1].Answers[0].ID},
		{QuestionID: questions[1].ID, AnswerID: questions[1].Answers[0].ID},
	})
	if err != nil {
		t.Fatalf("TakeTest: %v", err)
	}
	if result.Correct != 1 {
		t.Errorf("correct = %d, want 1: answer ids must belong to the question", result.Correct)
	}
}

func TestTakeTestMultipleChoiceExactSet(t *testing.T) {
	db, svc := newGradingFixture(t)
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionMultipleChoice, options: []string{"a", "b", "c"}, correct: []int{0, 1}},
	)
	questions := loadAnswers(t, db, test.ID)
	q := questions[0]
	idA, idB, idC := q.Answers[0].ID, q.Answers[1].ID, q.Answers[2].ID

	cases := []struct {
		name    string
		ids     []uint
		correct int
	}{
		{"exact set", []uint{idA, idB}, 1},
		{"order ignored", []uint{idB, idA}, 1},
		{"subset", []uint{idA}, 0},
		{"superset", []uint{idA, idB, idC}, 0},
		{"empty", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := createUser(t, db, "mc-"+tc.name)
			result, err := svc.TakeTest(user.ID, test.ID, []SubmittedAnswer{
				{QuestionID: q.ID, AnswerIDs: tc.ids},
			})
			if err != nil {
				t.Fatalf("TakeTest: %v", err)
			}
			if result.Correct != tc.correct {
				t.Errorf("correct = %d, want %d", result.Correct, tc.correct)
			}
		})
	}
}

func TestTakeTestUnansweredCountsIncorrect(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "frank")
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a", "b"}, correct: []int{0}},
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a", "b"}, correct: []int{0}},
	)
	questions := loadAnswers(t, db, test.ID)

	result, err := svc.TakeTest(user.ID, test.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, AnswerID: questions[0].Answers[0].ID},
	})
	if err != nil {
		t.Fatalf("TakeTest: %v", err)
	}
	if result.Score != 50 {
		t.Errorf("score = %v, want 50", result.Score)
	}
}

func TestTakeTestAttemptsAccumulate(t *testing.T) {
	db, svc := newGradingFixture(t)
	user := createUser(t, db, "grace")
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a", "b"}, correct: []int{0}},
	)
	questions := loadAnswers(t, db, test.ID)
	answers := []SubmittedAnswer{{QuestionID: questions[0].ID, AnswerID: questions[0].Answers[0].ID}}

	for i := 0; i < 3; i++ {
		if _, err := svc.TakeTest(user.ID, test.ID, answers); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	results, err := svc.ResultsForUser(user.ID)
	if err != nil {
		t.Fatalf("ResultsForUser: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("got %d attempts, want 3", len(results))
	}
}
