package types

import (
	"time"

	"github.com/google/uuid"
)

// UserReputation is the aggregate of all effective feedback a user received.
// Feedback overturned by an AJUSTADA dispute decision is excluded from the
// recompute; the underlying rows stay untouched.
type UserReputation struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	ScoreMedio     float64   `gorm:"column:score_medio;not null" json:"scoreMedio"`
	TotalFeedbacks int64     `gorm:"column:total_feedbacks;not null" json:"totalFeedbacks"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (UserReputation) TableName() string { return "user_reputations" }
