package moim

import "time"

const (
	RoleCreator     = "creator"
	RoleParticipant = "participant"
)

const (
	InviteCodeLength = 8
	URLLength        = 12
	MaxTitleLength   = 100
)

type Moim struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description *string   `gorm:"type:text"`
	CreatorID   string    `gorm:"type:uuid;not null;index"`
	InviteCode  string    `gorm:"size:8;not null;uniqueIndex"`
	URL         string    `gorm:"column:moim_url;size:12;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	ParticipantCount int64         `gorm:"-"`
	Participants     []Participant `gorm:"foreignKey:MoimID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Moim) TableName() string {
	return "moims"
}

type Participant struct {
	MoimID   string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"type:uuid;primaryKey;index"`
	Role     string    `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (Participant) TableName() string {
	return "moim_participants"
}
