package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Delivery is one developer submission against a milestone. At most one
// unreviewed delivery may exist per milestone (partial unique index). A
// review is terminal for the delivery; a rejected review re-opens the
// milestone for a fresh submission.
type Delivery struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MilestoneID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"milestoneId"`
	DeveloperID      uuid.UUID      `gorm:"type:uuid;not null;index;column:perfil_dev_id" json:"perfilDevId"`
	DescricaoEntrega string         `gorm:"column:descricao_entrega;type:text;not null" json:"descricaoEntrega"`
	ArquivosEntrega  datatypes.JSON `gorm:"type:jsonb;column:arquivos_entrega" json:"arquivosEntrega"`
	HorasTrabalhadas *float64       `gorm:"column:horas_trabalhadas" json:"horasTrabalhadas,omitempty"`
	SubmittedAt      time.Time      `gorm:"column:submitted_at;not null;default:now()" json:"submittedAt"`
	Reviewed         bool           `gorm:"column:reviewed;not null;default:false" json:"reviewed"`
	Approved         *bool          `gorm:"column:approved" json:"approved,omitempty"`
	ComentarioRevisao string        `gorm:"column:comentario_revisao;type:text" json:"comentarioRevisao,omitempty"`
	DataRevisao      *time.Time     `gorm:"column:data_revisao" json:"dataRevisao,omitempty"`
}

func (Delivery) TableName() string { return "deliveries" }
