package mannam

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	ResponseAvailable   = "available"
	ResponseUnavailable = "unavailable"
	ResponseMaybe       = "maybe"
)

const (
	URLLength      = 12
	MaxTitleLength = 100
	// MaxDuration is one year in minutes.
	MaxDuration    = 525600
)

type Mannam struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	MoimID      string     `gorm:"type:uuid;not null;index"`
	CreatorID   string     `gorm:"type:uuid;not null"`
	Title       string     `gorm:"not null"`
	Description *string    `gorm:"type:text"`
	StartDate   *time.Time `gorm:"column:start_date"`
	EndDate     *time.Time `gorm:"column:end_date"`
	Duration    int        `gorm:"not null;default:0"`
	Status      string     `gorm:"type:varchar(16);not null;default:pending"`
	URL         string     `gorm:"column:mannam_url;size:12;not null;uniqueIndex"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (Mannam) TableName() string {
	return "mannams"
}

type Response struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	MannamID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_mannam_responses_mannam_user"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_mannam_responses_mannam_user"`
	Status    string    `gorm:"type:varchar(16);not null"`
	Comment   *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Response) TableName() string {
	return "mannam_responses"
}

// Counts is the number of responses per availability status.
type Counts struct {
	Available   int `json:"available"`
	Unavailable int `json:"unavailable"`
	Maybe       int `json:"maybe"`
}

type CreateInput struct {
	MoimID      string
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Duration    int
}

func IsResponseStatus(status string) bool {
	switch status {
	case ResponseAvailable, ResponseUnavailable, ResponseMaybe:
		return true
	default:
		return false
	}
}
