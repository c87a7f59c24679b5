package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"clinical-intel-be/internal/constant"
	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/specification"
	"clinical-intel-be/internal/repository/unitofwork"
	"clinical-intel-be/pkg/embedding"
	"clinical-intel-be/pkg/llm"
	"clinical-intel-be/pkg/rag/answer"
	"clinical-intel-be/pkg/rag/retrieve"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	retriever        *retrieve.Retriever
	generator        *answer.Generator
	publisherService IPublisherService
	noteCache        *gocache.Cache
	topK             int
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	topK int,
) IChatService {
	llmLogger := initLLMLogger()

	return &chatService{
		uowFactory:       uowFactory,
		retriever:        retrieve.NewRetriever(embeddingProvider, llmLogger),
		generator:        answer.NewGenerator(llmProvider, llmLogger),
		publisherService: publisherService,
		noteCache:        gocache.New(5*time.Minute, 10*time.Minute),
		topK:             topK,
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Chat answers one question about one note. Answers come only from the note's
// own chunks; with no usable context the fixed fallback goes out and the LLM
// is never called.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.lookupNote(ctx, uow, req.NoteId)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Note not found")
	}

	result, err := s.retriever.Retrieve(ctx, uow, note.Id, req.Question, s.topK)
	if err != nil {
		return nil, err
	}

	if !result.HasContext() {
		return &dto.ChatResponse{Answer: constant.NoContextAnswer}, nil
	}

	reply, err := s.generator.Generate(ctx, req.Question, result.Chunks)
	if err != nil {
		return nil, err
	}

	evt := &dto.AuditEventMessage{
		EventType: constant.AuditEventChatAnswered,
		Module:    constant.ModuleChat,
		Message:   "Chat question answered",
		Details: map[string]interface{}{
			"note_id":     note.Id,
			"chunks_used": len(result.Chunks),
		},
	}
	if err := s.publisherService.PublishAudit(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish chat audit event: %v", err)
	}

	return &dto.ChatResponse{
		Answer:        reply,
		ContextChunks: result.Chunks,
	}, nil
}

// lookupNote resolves the target note, hitting the short-lived cache first so
// repeated questions about the same note skip the database round trip.
func (s *chatService) lookupNote(ctx context.Context, uow unitofwork.UnitOfWork, noteId uuid.UUID) (*entity.ClinicalNote, error) {
	key := noteId.String()
	if cached, found := s.noteCache.Get(key); found {
		return cached.(*entity.ClinicalNote), nil
	}

	note, err := uow.ClinicalNoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return nil, err
	}
	if note != nil {
		s.noteCache.Set(key, note, gocache.DefaultExpiration)
	}
	return note, nil
}
