package model

import "time"

// PhishingEmail is one simulated send to exactly one recipient. A campaign
// against a group creates one row per member.
// swagger:model PhishingEmail
type PhishingEmail struct {
	BaseModel
	UserID         uint      `gorm:"index" json:"userId"` // recipient
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Subject        string    `gorm:"size:255;not null" json:"subject"`
	Message        string    `gorm:"type:text" json:"message"`
	Attachment     string    `gorm:"size:255" json:"attachment"` // stored object name, empty when none
	AttachmentName string    `gorm:"size:255" json:"attachmentName"`
	AttachmentType string    `gorm:"size:100" json:"attachmentType"`
	SentAt         time.Time `json:"sentAt"`
}

func (PhishingEmail) TableName() string {
	return "phishing_emails"
}
