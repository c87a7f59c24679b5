package mapper

import (
	"encoding/json"
	"time"

	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicalNoteMapper struct{}

func NewClinicalNoteMapper() *ClinicalNoteMapper {
	return &ClinicalNoteMapper{}
}

func (m *ClinicalNoteMapper) ToEntity(n *model.ClinicalNote) *entity.ClinicalNote {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	var entities map[string]interface{}
	if len(n.Entities) > 0 {
		// Corrupt stored JSON leaves Entities nil rather than failing the read
		_ = json.Unmarshal(n.Entities, &entities)
	}

	return &entity.ClinicalNote{
		Id:        n.Id,
		FileName:  n.FileName,
		RawText:   n.RawText,
		Entities:  entities,
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *ClinicalNoteMapper) ToModel(n *entity.ClinicalNote) *model.ClinicalNote {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	var entities datatypes.JSON
	if n.Entities != nil {
		raw, err := json.Marshal(n.Entities)
		if err == nil {
			entities = datatypes.JSON(raw)
		}
	}

	return &model.ClinicalNote{
		Id:        n.Id,
		FileName:  n.FileName,
		RawText:   n.RawText,
		Entities:  entities,
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ClinicalNoteMapper) ToEntities(notes []*model.ClinicalNote) []*entity.ClinicalNote {
	entities := make([]*entity.ClinicalNote, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
