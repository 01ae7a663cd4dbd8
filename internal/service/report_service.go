package service

import (
	"context"
	"encoding/json"
	"errors"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testResultsCacheKey = "report:test_results"
const testResultsCacheTTL = 5 * time.Minute

// ReportService aggregates activity and grading data into the admin reports
// and the dashboard. The test results report is cached in Redis for a few
// minutes; everything else is computed per request.
type ReportService struct {
	AttemptRepo  *repository.UserTestRepository
	ActivityRepo *repository.ActivityRepository
	UserRepo     *repository.UserRepository
	CourseRepo   *repository.CourseRepository
	TestRepo     *repository.TestRepository
	EmailRepo    *repository.PhishingEmailRepository
	RDB          *redis.Client
}

func NewReportService(
	attemptRepo *repository.UserTestRepository,
	activityRepo *repository.ActivityRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	testRepo *repository.TestRepository,
	emailRepo *repository.PhishingEmailRepository,
	rdb *redis.Client,
) *ReportService {
	return &ReportService{
		AttemptRepo:  attemptRepo,
		ActivityRepo: activityRepo,
		UserRepo:     userRepo,
		CourseRepo:   courseRepo,
		TestRepo:     testRepo,
		EmailRepo:    emailRepo,
		RDB:          rdb,
	}
}

// ActivityReport is the full event log, newest first.
func (s *ReportService) ActivityReport() ([]model.Activity, error) {
	return s.ActivityRepo.ListAll()
}

type TestResultsReport struct {
	ByTest []repository.TestAverageRow `json:"byTest"`
	ByUser []repository.UserAverageRow `json:"byUser"`
}

// TestResults returns average scores per test and per user. Results may be up
// to five minutes stale when Redis is configured.
func (s *ReportService) TestResults(ctx context.Context) (*TestResultsReport, error) {
	if s.RDB != nil {
		cached, err := s.RDB.Get(ctx, testResultsCacheKey).Bytes()
		if err == nil {
			var report TestResultsReport
			if err := json.Unmarshal(cached, &report); err == nil {
				return &report, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("report cache read failed", zap.Error(err))
		}
	}

	byTest, err := s.AttemptRepo.AverageByTest()
	if err != nil {
		return nil, err
	}
	byUser, err := s.AttemptRepo.AverageByUser()
	if err != nil {
		return nil, err
	}
	report := &TestResultsReport{ByTest: byTest, ByUser: byUser}

	if s.RDB != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.RDB.Set(ctx, testResultsCacheKey, payload, testResultsCacheTTL).Err(); err != nil {
				logger.Log.Warn("report cache write failed", zap.Error(err))
			}
		}
	}
	return report, nil
}

type CourseProgress struct {
	CourseID    uint     `json:"courseId"`
	CourseTitle string   `json:"courseTitle"`
	TestCount   int      `json:"testCount"`
	Attempted   bool     `json:"attempted"`
	AvgScore    *float64 `json:"avgScore"`
}

// UserProgress reports, per course, whether the user attempted its tests and
// their average score over those tests.
func (s *ReportService) UserProgress(userID uint) ([]CourseProgress, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return nil, err
	}

	courses, err := s.CourseRepo.List()
	if err != nil {
		return nil, err
	}

	progress := make([]CourseProgress, 0, len(courses))
	for _, course := range courses {
		tests, err := s.TestRepo.ListByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		testIDs := make([]uint, 0, len(tests))
		for _, t := range tests {
			testIDs = append(testIDs, t.ID)
		}

		entry := CourseProgress{
			CourseID:    course.ID,
			CourseTitle: course.Title,
			TestCount:   len(tests),
		}
		avg, attempted, err := s.AttemptRepo.AverageForUserByTests(userID, testIDs)
		if err != nil {
			return nil, err
		}
		if attempted {
			entry.Attempted = true
			entry.AvgScore = &avg
		}
		progress = append(progress, entry)
	}
	return progress, nil
}

type UserProgressReport struct {
	User     *model.User      `json:"user"`
	Progress []CourseProgress `json:"progress"`
	Attempts []model.UserTest `json:"attempts"`
}

// UserReport bundles one user's profile, course progress and attempt history
// for the admin drill-down view.
func (s *ReportService) UserReport(userID uint) (*UserProgressReport, error) {
	user, err := s.UserRepo.FindByIDWithGroups(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	progress, err := s.UserProgress(userID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.AttemptRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return &UserProgressReport{User: user, Progress: progress, Attempts: attempts}, nil
}

type DashboardReport struct {
	Users          int64            `json:"users"`
	Courses        int64            `json:"courses"`
	Tests          int64            `json:"tests"`
	Attempts       int64            `json:"attempts"`
	EmailsSent     int64            `json:"emailsSent"`
	LinksClicked   int64            `json:"linksClicked"`
	EmailsOpened   int64            `json:"emailsOpened"`
	Downloads      int64            `json:"downloads"`
	RecentActivity []model.Activity `json:"recentActivity"`
}

func (s *ReportService) Dashboard() (*DashboardReport, error) {
	report := &DashboardReport{}
	var err error

	if report.Users, err = s.UserRepo.Count(); err != nil {
		return nil, err
	}
	if report.Courses, err = s.CourseRepo.Count(); err != nil {
		return nil, err
	}
	if report.Tests, err = s.TestRepo.Count(); err != nil {
		return nil, err
	}
	if report.Attempts, err = s.AttemptRepo.Count(); err != nil {
		return nil, err
	}
	if report.EmailsSent, err = s.ActivityRepo.CountByVerb(model.VerbSent); err != nil {
		return nil, err
	}
	if report.LinksClicked, err = s.ActivityRepo.CountByVerb(model.VerbClicked); err != nil {
		return nil, err
	}
	if report.EmailsOpened, err = s.ActivityRepo.CountByVerb(model.VerbOpened); err != nil {
		return nil, err
	}
	if report.Downloads, err = s.ActivityRepo.CountByVerb(model.VerbDownloaded); err != nil {
		return nil, err
	}
	if report.RecentActivity, err = s.ActivityRepo.ListRecent(10); err != nil {
		return nil, err
	}
	return report, nil
}
