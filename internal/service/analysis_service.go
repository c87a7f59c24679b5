package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"clinical-intel-be/internal/constant"
	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/specification"
	"clinical-intel-be/internal/repository/unitofwork"
	"clinical-intel-be/pkg/chunker"
	"clinical-intel-be/pkg/embedding"
	"clinical-intel-be/pkg/extract"
	"clinical-intel-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalysisService interface {
	Analyze(ctx context.Context, noteId uuid.UUID) (*dto.AnalyzeNoteResponse, error)
}

type analysisService struct {
	uowFactory        unitofwork.RepositoryFactory
	extractor         *extract.Extractor
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	chunkMaxChars     int
}

func NewAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	chunkMaxChars int,
) IAnalysisService {
	if chunkMaxChars <= 0 {
		chunkMaxChars = chunker.DefaultMaxChars
	}

	return &analysisService{
		uowFactory:        uowFactory,
		extractor:         extract.NewExtractor(llmProvider, initLLMLogger()),
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		chunkMaxChars:     chunkMaxChars,
	}
}

// Analyze runs the full pipeline for one note: entity extraction, summary,
// then chunk embedding. The extraction results land before chunking starts, so
// a chunking failure never loses the analysis itself.
func (s *analysisService) Analyze(ctx context.Context, noteId uuid.UUID) (*dto.AnalyzeNoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.ClinicalNoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return nil, err
	}
	if note == nil || strings.TrimSpace(note.RawText) == "" {
		return nil, fiber.NewError(fiber.StatusNotFound, "Note not found")
	}

	entities := s.extractor.ExtractEntities(ctx, note.RawText)

	summary, err := s.extractor.GenerateSummary(ctx, note.RawText)
	if err != nil {
		return nil, fmt.Errorf("summary generation failed: %w", err)
	}

	if err := uow.ClinicalNoteRepository().UpdateAnalysis(ctx, note.Id, entities, summary); err != nil {
		return nil, err
	}

	chunkCount, err := s.rebuildChunks(ctx, uow, note)
	if err != nil {
		return nil, err
	}

	evt := &dto.AuditEventMessage{
		EventType: constant.AuditEventNoteAnalyzed,
		Module:    constant.ModuleAnalysis,
		Message:   "Clinical note analyzed",
		Details: map[string]interface{}{
			"note_id":     note.Id,
			"chunk_count": chunkCount,
		},
	}
	if err := s.publisherService.PublishAudit(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish analysis audit event: %v", err)
	}

	return &dto.AnalyzeNoteResponse{
		NoteId:   note.Id,
		Entities: entities,
		Summary:  summary,
	}, nil
}

// rebuildChunks replaces the note's chunks with a fresh set. Old chunks go
// first so stale text never outranks the current analysis. Each chunk is
// embedded and stored on its own; a failure partway leaves the chunks stored
// so far in place.
func (s *analysisService) rebuildChunks(ctx context.Context, uow unitofwork.UnitOfWork, note *entity.ClinicalNote) (int, error) {
	if err := uow.NoteChunkRepository().DeleteByNoteId(ctx, note.Id); err != nil {
		return 0, err
	}

	chunks := chunker.Split(note.RawText, s.chunkMaxChars)
	for i, chunkText := range chunks {
		res, err := s.embeddingProvider.Generate(chunkText, embedding.TaskRetrievalDocument)
		if err != nil {
			return i, fmt.Errorf("embedding failed for chunk %d: %w", i, err)
		}

		chunk := &entity.NoteChunk{
			Id:         uuid.New(),
			ChunkText:  chunkText,
			Embedding:  res.Embedding.Values,
			NoteId:     note.Id,
			ChunkIndex: i,
			CreatedAt:  time.Now(),
		}
		if err := uow.NoteChunkRepository().Create(ctx, chunk); err != nil {
			return i, fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}

	return len(chunks), nil
}
