package unitofwork

import (
	"context"

	"clinical-intel-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ClinicalNoteRepository() contract.ClinicalNoteRepository
	NoteChunkRepository() contract.NoteChunkRepository
	SystemLogRepository() contract.SystemLogRepository
}
