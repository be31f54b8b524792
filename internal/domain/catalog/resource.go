package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ResourceKindMaterial = "material"
	ResourceKindEvent    = "event"
)

// Resource is a catalog entry (material, event) that may declare learning
// outcomes and prerequisites. Statement lists are loaded by the statement
// repo and are not gorm associations.
type Resource struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Kind              string           `gorm:"column:kind;not null;default:'material';index" json:"kind"`
	Title             string           `gorm:"column:title;not null;index" json:"title"`
	URL               string           `gorm:"column:url;not null" json:"url"`
	ShortDescription  string           `gorm:"column:short_description" json:"short_description"`
	LongDescription   string           `gorm:"column:long_description" json:"long_description"`
	DOI               string           `gorm:"column:doi" json:"doi,omitempty"`
	Keywords          datatypes.JSON   `gorm:"column:keywords" json:"keywords,omitempty"`
	Metadata          datatypes.JSON   `gorm:"column:metadata" json:"metadata,omitempty"`
	ContentProviderID *uuid.UUID       `gorm:"type:uuid;index" json:"content_provider_id,omitempty"`
	ContentProvider   *ContentProvider `gorm:"constraint:OnDelete:SET NULL;foreignKey:ContentProviderID;references:ID" json:"content_provider,omitempty"`

	// Event-only scheduling.
	StartsAt *time.Time `gorm:"column:starts_at" json:"starts_at,omitempty"`
	EndsAt   *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`

	Outcomes      []*LearningStatement `gorm:"-" json:"learning_outcomes"`
	Prerequisites []*LearningStatement `gorm:"-" json:"prerequisites"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Resource) TableName() string { return "resource" }

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		r.ID = id
	}
	return nil
}

// Label is the display name used in rendered outlines.
func (r *Resource) Label() string {
	if r == nil {
		return ""
	}
	if r.Title != "" {
		return r.Title
	}
	return r.ID.String()
}
