package service

import (
	"context"
	"fmt"
	"os"
	"secaware_backend/internal/model"
	"secaware_backend/pkg/database"
	"secaware_backend/pkg/logger"
	"sync"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB opens a private in-memory database with the full schema. Migrate
// also seeds the default admin account, so user ids of fixtures start at 2.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     model.RoleLearner,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, db *gorm.DB, name string, members ...*model.User) *model.Group {
	t.Helper()
	group := &model.Group{Name: name, Users: members}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create group %s: %v", name, err)
	}
	return group
}

// questionSpec describes one question to seed: its type, the option texts and
// which options are correct. Text questions store their accepted answers the
// same way.
type questionSpec struct {
	qtype   model.QuestionType
	options []string
	correct []int
}

func createTest(t *testing.T, db *gorm.DB, specs ...questionSpec) *model.Test {
	t.Helper()

	course := &model.Course{Title: "Security Basics"}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	test := &model.Test{CourseID: course.ID, Title: "Quiz"}
	if err := db.Create(test).Error; err != nil {
		t.Fatalf("create test: %v", err)
	}

	for i, spec := range specs {
		q := &model.Question{
			TestID:       test.ID,
			Text:         fmt.Sprintf("question %d", i+1),
			QuestionType: spec.qtype,
		}
		if err := db.Create(q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		correct := make(map[int]bool, len(spec.correct))
		for _, idx := range spec.correct {
			correct[idx] = true
		}
		for j, text := range spec.options {
			a := &model.Answer{QuestionID: q.ID, Text: text, IsCorrect: correct[j]}
			if err := db.Create(a).Error; err != nil {
				t.Fatalf("create answer: %v", err)
			}
		}
	}
	return test
}

func loadAnswers(t *testing.T, db *gorm.DB, testID uint) []model.Question {
	t.Helper()
	var questions []model.Question
	if err := db.Where("test_id = ?", testID).Preload("Answers").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	return questions
}

// recordingMailer captures sent messages. When failFor contains a recipient
// address, Send fails for messages addressed to it.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []*MailMessage
	failFor map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, msg *MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range msg.To {
		if m.failFor[to] {
			return fmt.Errorf("smtp refused %s", to)
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func countActivities(t *testing.T, db *gorm.DB, verb string, targetType string, targetID uint) int64 {
	t.Helper()
	var n int64
	q := db.Model(&model.Activity{}).Where("verb = ?", verb)
	if targetType != "" {
		q = q.Where("target_type = ? AND target_id = ?", targetType, targetID)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count activities: %v", err)
	}
	return n
}
