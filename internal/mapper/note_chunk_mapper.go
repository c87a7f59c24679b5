package mapper

import (
	"time"

	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type NoteChunkMapper struct{}

func NewNoteChunkMapper() *NoteChunkMapper {
	return &NoteChunkMapper{}
}

func (m *NoteChunkMapper) ToEntity(c *model.NoteChunk) *entity.NoteChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.NoteChunk{
		Id:         c.Id,
		ChunkText:  c.ChunkText,
		Embedding:  c.Embedding.Slice(),
		NoteId:     c.NoteId,
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *NoteChunkMapper) ToModel(c *entity.NoteChunk) *model.NoteChunk {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.NoteChunk{
		Id:         c.Id,
		ChunkText:  c.ChunkText,
		Embedding:  pgvector.NewVector(c.Embedding),
		NoteId:     c.NoteId,
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *NoteChunkMapper) ToEntities(chunks []*model.NoteChunk) []*entity.NoteChunk {
	entities := make([]*entity.NoteChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *NoteChunkMapper) ToModels(chunks []*entity.NoteChunk) []*model.NoteChunk {
	models := make([]*model.NoteChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
