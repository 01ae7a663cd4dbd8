package service

import (
	"context"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"testing"
	"time"

	"gorm.io/gorm"
)

// Reports run uncached when no Redis client is configured.
func newReportFixture(t *testing.T) (*gorm.DB, *ReportService) {
	t.Helper()
	db := newTestDB(t)
	svc := NewReportService(
		repository.NewUserTestRepository(db),
		repository.NewActivityRepository(db),
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewTestRepository(db),
		repository.NewPhishingEmailRepository(db),
		nil,
	)
	return db, svc
}

func seedAttempt(t *testing.T, db *gorm.DB, userID, testID uint, score float64) {
	t.Helper()
	attempt := &model.UserTest{
		UserID:      userID,
		TestID:      testID,
		Score:       score,
		CompletedAt: time.Now(),
	}
	if err := db.Create(attempt).Error; err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
}

func TestTestResultsAverages(t *testing.T) {
	db, svc := newReportFixture(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	test := createTest(t, db,
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a", "b"}, correct: []int{0}},
	)

	seedAttempt(t, db, alice.ID, test.ID, 100)
	seedAttempt(t, db, alice.ID, test.ID, 50)
	seedAttempt(t, db, bob.ID, test.ID, 0)

	report, err := svc.TestResults(context.Background())
	if err != nil {
		t.Fatalf("TestResults: %v", err)
	}

	if len(report.ByTest) != 1 {
		t.Fatalf("got %d test rows, want 1", len(report.ByTest))
	}
	if got := report.ByTest[0].AvgScore; got != 50 {
		t.Errorf("test average = %v, want 50", got)
	}

	averages := make(map[string]float64)
	for _, row := range report.ByUser {
		averages[row.Username] = row.AvgScore
	}
	if averages["alice"] != 75 {
		t.Errorf("alice average = %v, want 75", averages["alice"])
	}
	if averages["bob"] != 0 {
		t.Errorf("bob average = %v, want 0", averages["bob"])
	}
}

func TestUserProgressPerCourse(t *testing.T) {
	db, svc := newReportFixture(t)
	alice := createUser(t, db, "alice")

	attempted := createTest(t, db,
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a"}, correct: []int{0}},
	)
	createTest(t, db, // second course, never attempted
		questionSpec{qtype: model.QuestionSingleChoice, options: []string{"a"}, correct: []int{0}},
	)
	seedAttempt(t, db, alice.ID, attempted.ID, 80)

	progress, err := svc.UserProgress(alice.ID)
	if err != nil {
		t.Fatalf("UserProgress: %v", err)
	}
	if len(progress) != 2 {
		t.Fatalf("got %d course rows, want 2", len(progress))
	}

	byCourse := make(map[uint]CourseProgress)
	for _, p := range progress {
		byCourse[p.CourseID] = p
	}

	done := byCourse[attempted.CourseID]
	if !done.Attempted || done.AvgScore == nil || *done.AvgScore != 80 {
		t.Errorf("attempted course row = %+v, want attempted with avg 80", done)
	}
	for id, p := range byCourse {
		if id == attempted.CourseID {
			continue
		}
		if p.Attempted || p.AvgScore != nil {
			t.Errorf("untouched course row = %+v, want unattempted", p)
		}
	}
}

func TestDashboardCounts(t *testing.T) {
	db, svc := newReportFixture(t)
	sender := createUser(t, db, "sender")
	victim := createUser(t, db, "victim")

	activity := NewActivityService(repository.NewActivityRepository(db))
	if err := activity.Record(sender.ID, model.VerbSent, model.TargetUser, victim.ID); err != nil {
		t.Fatal(err)
	}
	if err := activity.Record(victim.ID, model.VerbClicked, model.TargetPhishingEmail, 1); err != nil {
		t.Fatal(err)
	}
	if err := activity.Record(victim.ID, model.VerbClicked, model.TargetPhishingEmail, 1); err != nil {
		t.Fatal(err)
	}

	report, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	// Seeded admin plus the two fixtures.
	if report.Users != 3 {
		t.Errorf("users = %d, want 3", report.Users)
	}
	if report.EmailsSent != 1 {
		t.Errorf("emailsSent = %d, want 1", report.EmailsSent)
	}
	if report.LinksClicked != 2 {
		t.Errorf("linksClicked = %d, want 2", report.LinksClicked)
	}
	if len(report.RecentActivity) != 3 {
		t.Errorf("recent activity = %d entries, want 3", len(report.RecentActivity))
	}
}
