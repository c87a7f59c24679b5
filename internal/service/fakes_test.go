package service

import (
	"context"
	"errors"
	"sync"

	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/contract"
	"clinical-intel-be/internal/repository/specification"
	"clinical-intel-be/internal/repository/unitofwork"
	"clinical-intel-be/pkg/embedding"
	"clinical-intel-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory fakes for the unit of work so pipeline semantics can be tested
// without a database.

type fakeNoteRepo struct {
	mu           sync.Mutex
	notes        map[uuid.UUID]*entity.ClinicalNote
	findOneCalls int

	updatedId       uuid.UUID
	updatedEntities map[string]interface{}
	updatedSummary  string
	updateCalled    bool
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*entity.ClinicalNote)}
}

func (f *fakeNoteRepo) Create(ctx context.Context, note *entity.ClinicalNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[note.Id] = note
	return nil
}

func (f *fakeNoteRepo) UpdateAnalysis(ctx context.Context, id uuid.UUID, entities map[string]interface{}, summary string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedId = id
	f.updatedEntities = entities
	f.updatedSummary = summary
	f.updateCalled = true
	return nil
}

func (f *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClinicalNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findOneCalls++
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return f.notes[byId.ID], nil
		}
	}
	return nil, nil
}

func (f *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClinicalNote, error) {
	return nil, nil
}

func (f *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.notes)), nil
}

type fakeChunkRepo struct {
	mu             sync.Mutex
	created        []*entity.NoteChunk
	deletedNoteIds []uuid.UUID
	searchResult   []*entity.NoteChunk

	failCreateAt int // index at which Create fails, -1 to disable
}

func newFakeChunkRepo() *fakeChunkRepo {
	return &fakeChunkRepo{failCreateAt: -1}
}

func (f *fakeChunkRepo) Create(ctx context.Context, chunk *entity.NoteChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateAt >= 0 && len(f.created) == f.failCreateAt {
		return errors.New("chunk insert failed")
	}
	f.created = append(f.created, chunk)
	return nil
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.NoteChunk) error {
	for _, chunk := range chunks {
		if err := f.Create(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeChunkRepo) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedNoteIds = append(f.deletedNoteIds, noteId)
	return nil
}

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error) {
	return f.created, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, emb []float32, limit int, noteId uuid.UUID) ([]*entity.NoteChunk, error) {
	return f.searchResult, nil
}

type fakeLogRepo struct {
	mu   sync.Mutex
	rows []*entity.SystemLog
}

func (f *fakeLogRepo) Create(ctx context.Context, row *entity.SystemLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SystemLog, error) {
	return f.rows, nil
}

func (f *fakeLogRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeUnitOfWork struct {
	noteRepo  *fakeNoteRepo
	chunkRepo *fakeChunkRepo
	logRepo   *fakeLogRepo
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		noteRepo:  newFakeNoteRepo(),
		chunkRepo: newFakeChunkRepo(),
		logRepo:   &fakeLogRepo{},
	}
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                   { return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }

func (f *fakeUnitOfWork) ClinicalNoteRepository() contract.ClinicalNoteRepository {
	return f.noteRepo
}

func (f *fakeUnitOfWork) NoteChunkRepository() contract.NoteChunkRepository {
	return f.chunkRepo
}

func (f *fakeUnitOfWork) SystemLogRepository() contract.SystemLogRepository {
	return f.logRepo
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEmbeddingProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: make([]float32, embedding.Dim)},
	}, nil
}

// queuedLLMProvider returns scripted responses in order. A nil entry in errs
// means that call succeeds.
type queuedLLMProvider struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	histories [][]llm.Message
}

func (q *queuedLLMProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	call := len(q.histories)
	q.histories = append(q.histories, history)
	if call < len(q.errs) && q.errs[call] != nil {
		return "", q.errs[call]
	}
	if call < len(q.responses) {
		return q.responses[call], nil
	}
	return "", errors.New("no scripted response left")
}

func (q *queuedLLMProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return q.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (q *queuedLLMProvider) callCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.histories)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*dto.AuditEventMessage
}

func (r *recordingPublisher) PublishAudit(ctx context.Context, event *dto.AuditEventMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}
