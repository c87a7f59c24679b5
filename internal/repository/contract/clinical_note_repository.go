package contract

import (
	"context"

	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ClinicalNoteRepository interface {
	Create(ctx context.Context, note *entity.ClinicalNote) error
	// UpdateAnalysis persists the extracted entities and summary for a note.
	// The note's raw text is never touched after ingestion.
	UpdateAnalysis(ctx context.Context, id uuid.UUID, entities map[string]interface{}, summary string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClinicalNote, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClinicalNote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
