package types

import (
	"time"

	"github.com/google/uuid"
)

type MilestoneStatus string

const (
	MilestoneProposed      MilestoneStatus = "PROPOSED"
	MilestoneAcceptedByDev MilestoneStatus = "ACCEPTED_BY_DEV"
	MilestoneRejectedByDev MilestoneStatus = "REJECTED_BY_DEV"
	MilestoneDelivered     MilestoneStatus = "DELIVERED"
	MilestoneApproved      MilestoneStatus = "APPROVED"
	MilestoneRejected      MilestoneStatus = "REJECTED"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestoneProposed, MilestoneAcceptedByDev, MilestoneRejectedByDev,
		MilestoneDelivered, MilestoneApproved, MilestoneRejected:
		return true
	}
	return false
}

// Milestone is a priced unit of work inside a contract. The company creates
// it, the developer accepts or rejects it, and deliveries drive it through
// DELIVERED to APPROVED or REJECTED. REJECTED is not terminal: a new delivery
// moves it back to DELIVERED.
type Milestone struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"contractId"`
	Titulo             string          `gorm:"column:titulo;not null" json:"titulo"`
	Descricao          string          `gorm:"column:descricao;type:text" json:"descricao"`
	DueDate            *time.Time      `gorm:"column:prazo_entrega" json:"dueDate,omitempty"`
	ValorMilestone     float64         `gorm:"column:valor_milestone;not null" json:"valorMilestone"`
	CriteriosAceitacao string          `gorm:"column:criterios_aceitacao;type:text" json:"criteriosAceitacao"`
	Status             MilestoneStatus `gorm:"column:status;not null;index" json:"status"`
	CreatedAt          time.Time       `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt          time.Time       `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Milestone) TableName() string { return "milestones" }
