package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentProvider struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null;uniqueIndex" json:"title"`
	URL         string    `gorm:"column:url;not null" json:"url"`
	Description string    `gorm:"column:description" json:"description"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContentProvider) TableName() string { return "content_provider" }

func (p *ContentProvider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}
