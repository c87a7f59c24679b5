package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicalNote struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileName  string         `gorm:"type:varchar(255);not null"`
	RawText   string         `gorm:"type:text;not null"`
	Entities  datatypes.JSON `gorm:"type:jsonb"`
	Summary   string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ClinicalNote) TableName() string {
	return "clinical_notes"
}
