package model

import "time"

// Activity verbs emitted by the phishing workflow.
const (
	VerbSent       = "sent"
	VerbClicked    = "clicked tracking link"
	VerbOpened     = "opened message"
	VerbDownloaded = "downloaded attachment"
)

// Activity target types.
const (
	TargetUser          = "user"
	TargetPhishingEmail = "phishing_email"
)

// Activity is one immutable (actor, verb, target) event. Rows are only ever
// appended; repeated opens and clicks are all recorded on purpose.
// swagger:model Activity
type Activity struct {
	BaseModel
	ActorID    uint      `gorm:"index" json:"actorId"`
	Actor      *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Verb       string    `gorm:"size:100;not null" json:"verb"`
	TargetType string    `gorm:"size:50;not null" json:"targetType"`
	TargetID   uint      `gorm:"index" json:"targetId"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
}

func (Activity) TableName() string {
	return "activities"
}
