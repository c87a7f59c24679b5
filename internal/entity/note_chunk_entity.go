package entity

import (
	"time"

	"github.com/google/uuid"
)

// NoteChunk is one retrieval unit of a clinical note: a bounded slice of the
// raw text plus its embedding vector. Chunks are immutable after creation.
type NoteChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChunkText  string
	Embedding  []float32
	NoteId     uuid.UUID `gorm:"type:uuid;index"`
	ChunkIndex int
	CreatedAt  time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
