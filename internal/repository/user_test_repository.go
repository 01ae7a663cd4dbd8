package repository

import (
	"secaware_backend/internal/model"

	"gorm.io/gorm"
)

type UserTestRepository struct {
	DB *gorm.DB
}

func NewUserTestRepository(db *gorm.DB) *UserTestRepository {
	return &UserTestRepository{DB: db}
}

// Create appends one attempt record. Attempts are never updated or deleted.
func (r *UserTestRepository) Create(attempt *model.UserTest) error {
	return r.DB.Create(attempt).Error
}

func (r *UserTestRepository) ListByUser(userID uint) ([]model.UserTest, error) {
	var attempts []model.UserTest
	err := r.DB.Where("user_id = ?", userID).
		Preload("Test").
		Order("completed_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *UserTestRepository) ListAll() ([]model.UserTest, error) {
	var attempts []model.UserTest
	err := r.DB.Preload("Test").Preload("User").Order("completed_at desc").Find(&attempts).Error
	return attempts, err
}

func (r *UserTestRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserTest{}).Count(&count).Error
	return count, err
}

type TestAverageRow struct {
	TestID   uint    `json:"testId"`
	Title    string  `json:"title"`
	AvgScore float64 `json:"avgScore"`
}

// AverageByTest returns the average score grouped by test.
func (r *UserTestRepository) AverageByTest() ([]TestAverageRow, error) {
	var rows []TestAverageRow
	err := r.DB.Table("user_tests").
		Select("user_tests.test_id as test_id, tests.title as title, AVG(user_tests.score) as avg_score").
		Joins("JOIN tests ON tests.id = user_tests.test_id").
		Where("user_tests.deleted_at IS NULL").
		Group("user_tests.test_id, tests.title").
		Scan(&rows).Error
	return rows, err
}

// AverageForUserByTests averages one user's attempts over the given tests.
// The bool result reports whether any attempt exists.
func (r *UserTestRepository) AverageForUserByTests(userID uint, testIDs []uint) (float64, bool, error) {
	if len(testIDs) == 0 {
		return 0, false, nil
	}
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.DB.Table("user_tests").
		Select("AVG(score) as avg, COUNT(*) as count").
		Where("user_id = ? AND test_id IN ? AND deleted_at IS NULL", userID, testIDs).
		Scan(&row).Error
	if err != nil || row.Avg == nil {
		return 0, false, err
	}
	return *row.Avg, row.Count > 0, nil
}

type UserAverageRow struct {
	UserID   uint    `json:"userId"`
	Username string  `json:"username"`
	AvgScore float64 `json:"avgScore"`
	Attempts int64   `json:"attempts"`
}

// AverageByUser returns the average score and attempt count grouped by user.
func (r *UserTestRepository) AverageByUser() ([]UserAverageRow, error) {
	var rows []UserAverageRow
	err := r.DB.Table("user_tests").
		Select("user_tests.user_id as user_id, users.username as username, AVG(user_tests.score) as avg_score, COUNT(*) as attempts").
		Joins("JOIN users ON users.id = user_tests.user_id").
		Where("user_tests.deleted_at IS NULL").
		Group("user_tests.user_id, users.username").
		Scan(&rows).Error
	return rows, err
}
