package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatementRoleOutcome      = "outcome"
	StatementRolePrerequisite = "prerequisite"
)

// Signature is the (noun, verb) equality key shared by outcomes and
// prerequisites. Comparison is exact: no case folding, no trimming.
type Signature struct {
	Noun string `json:"noun" yaml:"noun"`
	Verb string `json:"verb" yaml:"verb"`
}

func (s Signature) Valid() bool {
	return strings.TrimSpace(s.Noun) != "" && strings.TrimSpace(s.Verb) != ""
}

func (s Signature) String() string { return s.Verb + " " + s.Noun }

// LearningStatement is either a learning outcome or a prerequisite of a
// resource, distinguished by Role. A zero CreatedAt means the statement has
// not been persisted yet.
type LearningStatement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_learning_statement_signature,priority:4" json:"resource_id"`
	Resource   *Resource `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"-"`
	Role       string    `gorm:"column:role;not null;index:idx_learning_statement_signature,priority:1" json:"role"`
	Noun       string    `gorm:"column:noun;not null;index:idx_learning_statement_signature,priority:2" json:"noun"`
	Verb       string    `gorm:"column:verb;not null;index:idx_learning_statement_signature,priority:3" json:"verb"`
	Position   int       `gorm:"column:position;not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LearningStatement) TableName() string { return "learning_statement" }

func (s *LearningStatement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		s.ID = id
	}
	return nil
}

func (s *LearningStatement) Signature() Signature {
	if s == nil {
		return Signature{}
	}
	return Signature{Noun: s.Noun, Verb: s.Verb}
}

// Persisted reports whether the statement carries a creation timestamp.
func (s *LearningStatement) Persisted() bool {
	return s != nil && !s.CreatedAt.IsZero()
}

func (s *LearningStatement) IsOutcome() bool { return s != nil && s.Role == StatementRoleOutcome }
func (s *LearningStatement) IsPrerequisite() bool {
	return s != nil && s.Role == StatementRolePrerequisite
}
