package types

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackRole string

const (
	RoleCompany   FeedbackRole = "COMPANY"
	RoleDeveloper FeedbackRole = "DEVELOPER"
)

func (r FeedbackRole) Valid() bool {
	return r == RoleCompany || r == RoleDeveloper
}

// Feedback is one rating one contract party gives the other, scoped to a
// project (job). The (project, rater) pair is unique; stored scores are never
// mutated after creation, disputes only record a decision alongside.
type Feedback struct {
	ID               uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID        uuid.UUID    `gorm:"type:uuid;not null;index:idx_project_rater,unique" json:"projectId"`
	RaterID          uuid.UUID    `gorm:"type:uuid;not null;index:idx_project_rater,unique" json:"raterId"`
	RatedID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"ratedId"`
	RatedRole        FeedbackRole `gorm:"column:rated_role;not null" json:"ratedRole"`
	QualidadeTecnica int          `gorm:"column:qualidade_tecnica;not null" json:"qualidadeTecnica"`
	CumprimentoPrazos int         `gorm:"column:cumprimento_prazos;not null" json:"cumprimentoPrazos"`
	Comunicacao      int          `gorm:"column:comunicacao;not null" json:"comunicacao"`
	Colaboracao      int          `gorm:"column:colaboracao;not null" json:"colaboracao"`
	Comentario       string       `gorm:"column:comentario;type:text" json:"comentario,omitempty"`
	Estrelas         float64      `gorm:"column:estrelas;not null" json:"estrelas"`
	DataAvaliacao    time.Time    `gorm:"column:data_avaliacao;not null;default:now()" json:"dataAvaliacao"`
}

func (Feedback) TableName() string { return "feedback" }

// Stars is the arithmetic mean of the four scores, matching the stored
// Estrelas value. Stored exact; rounding is an aggregation concern.
func (f *Feedback) Stars() float64 {
	return float64(f.QualidadeTecnica+f.CumprimentoPrazos+f.Comunicacao+f.Colaboracao) / 4.0
}
