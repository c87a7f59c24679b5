package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalNote is an ingested clinical document. Entities and Summary stay
// empty until the analysis pipeline has run.
type ClinicalNote struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FileName  string
	RawText   string
	Entities  map[string]interface{}
	Summary   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
