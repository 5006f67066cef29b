package types

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeOpen   DisputeStatus = "OPEN"
	DisputeClosed DisputeStatus = "CLOSED"
)

type DisputeDecision string

const (
	DecisionMantida  DisputeDecision = "MANTIDA"
	DecisionAjustada DisputeDecision = "AJUSTADA"
)

func (d DisputeDecision) Valid() bool {
	return d == DecisionMantida || d == DecisionAjustada
}

// FeedbackDispute is a challenge the rated party raises against a feedback
// entry. One OPEN dispute per feedback (partial unique index); an admin
// decision closes it for good.
type FeedbackDispute struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FeedbackID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"feedbackId"`
	OpenedByUserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"openedByUserId"`
	JustificativaDisputa string          `gorm:"column:justificativa_disputa;type:text;not null" json:"justificativaDisputa"`
	EvidenciasPath      string           `gorm:"column:evidencias_path" json:"evidenciasPath,omitempty"`
	Status              DisputeStatus    `gorm:"column:status;not null;index" json:"status"`
	DecisaoMediacao     *DisputeDecision `gorm:"column:decisao_mediacao" json:"decisaoMediacao,omitempty"`
	CreatedAt           time.Time        `gorm:"not null;default:now();index" json:"createdAt"`
	ResolvedAt          *time.Time       `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
}

func (FeedbackDispute) TableName() string { return "feedback_disputes" }
