package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Image       string       `gorm:"size:255" json:"image"`
	Pages       []CoursePage `gorm:"foreignKey:CourseID" json:"pages,omitempty"`
	Tests       []Test       `gorm:"foreignKey:CourseID" json:"tests,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model CoursePage
type CoursePage struct {
	BaseModel
	CourseID uint   `gorm:"index" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (CoursePage) TableName() string {
	return "course_pages"
}
