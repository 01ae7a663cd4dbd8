package model

// Group is a named set of users. Phishing campaigns may target a whole group,
// fanning out one send per member.
// swagger:model Group
type Group struct {
	BaseModel
	Name  string  `gorm:"size:150;unique;not null" json:"name"`
	Users []*User `gorm:"many2many:user_groups" json:"users,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}
