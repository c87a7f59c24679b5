package contract

import (
	"context"

	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteChunkRepository interface {
	Create(ctx context.Context, chunk *entity.NoteChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.NoteChunk) error
	DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the top-k chunks of ONE note ordered by cosine
	// distance to the query embedding. Results never cross note boundaries.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, noteId uuid.UUID) ([]*entity.NoteChunk, error)
}
