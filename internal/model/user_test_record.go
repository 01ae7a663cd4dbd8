package model

import "time"

// UserTest is one graded attempt. Attempts are append-only: a new row per
// submission, never updated or deleted.
// swagger:model UserTest
type UserTest struct {
	BaseModel
	UserID      uint      `gorm:"index" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TestID      uint      `gorm:"index" json:"testId"`
	Test        *Test     `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Score       float64   `gorm:"not null" json:"score"` // percentage, 0-100
	CompletedAt time.Time `json:"completedAt"`
}

func (UserTest) TableName() string {
	return "user_tests"
}
