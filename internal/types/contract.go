package types

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractPendingTestApproval ContractStatus = "PENDING_TEST_APPROVAL"
	ContractActive              ContractStatus = "ACTIVE"
	ContractFinished            ContractStatus = "FINISHED"
	ContractCancelled           ContractStatus = "CANCELLED"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractPendingTestApproval, ContractActive, ContractFinished, ContractCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s ContractStatus) Terminal() bool {
	return s == ContractFinished || s == ContractCancelled
}

type ContractType string

const (
	ContractTypeCLT         ContractType = "CLT"
	ContractTypePJ          ContractType = "PJ"
	ContractTypeContract    ContractType = "CONTRACT"
	ContractTypeCooperative ContractType = "COOPERATIVE"
)

func (t ContractType) Valid() bool {
	switch t {
	case ContractTypeCLT, ContractTypePJ, ContractTypeContract, ContractTypeCooperative:
		return true
	}
	return false
}

// Contract binds one company and one developer to one job posting. The
// job/developer pair is exclusive while the contract is pending or active,
// enforced by a partial unique index created in db.AutoMigrateAll.
type Contract struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"vagaId"`
	CompanyID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"companyId"`
	DeveloperID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"developerId"`
	ContractType ContractType   `gorm:"column:contract_type;not null" json:"contractType"`
	Status       ContractStatus `gorm:"column:status;not null;index" json:"status"`
	StartedAt    time.Time      `gorm:"column:started_at;not null;default:now()" json:"startedAt"`
	EndedAt      *time.Time     `gorm:"column:ended_at" json:"endedAt,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

// OtherParty returns the counterparty of userID, with the role the
// counterparty plays, or false if userID is not a party of the contract.
func (c *Contract) OtherParty(userID uuid.UUID) (uuid.UUID, FeedbackRole, bool) {
	switch userID {
	case c.CompanyID:
		return c.DeveloperID, RoleDeveloper, true
	case c.DeveloperID:
		return c.CompanyID, RoleCompany, true
	}
	return uuid.Nil, "", false
}
