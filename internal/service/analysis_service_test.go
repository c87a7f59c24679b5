package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinical-intel-be/internal/constant"
	"clinical-intel-be/internal/entity"
	"clinical-intel-be/pkg/embedding"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNote(uow *fakeUnitOfWork, rawText string) *entity.ClinicalNote {
	note := &entity.ClinicalNote{
		Id:        uuid.New(),
		FileName:  "visit_note.txt",
		RawText:   rawText,
		CreatedAt: time.Now(),
	}
	uow.noteRepo.notes[note.Id] = note
	return note
}

func TestAnalyzeUnknownNote(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewAnalysisService(&fakeUowFactory{uow: uow}, &queuedLLMProvider{}, &fakeEmbeddingProvider{}, &recordingPublisher{}, 500)

	_, err := svc.Analyze(context.Background(), uuid.New())

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestAnalyzeEmptyTextTreatedAsMissing(t *testing.T) {
	uow := newFakeUnitOfWork()
	note := seedNote(uow, "   \n  ")
	svc := NewAnalysisService(&fakeUowFactory{uow: uow}, &queuedLLMProvider{}, &fakeEmbeddingProvider{}, &recordingPublisher{}, 500)

	_, err := svc.Analyze(context.Background(), note.Id)

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusNotFound, fiberErr.Code)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	uow := newFakeUnitOfWork()
	note := seedNote(uow, "aaaa\nbbbb\ncccc")

	llmProvider := &queuedLLMProvider{responses: []string{
		`{"diagnoses":["influenza"],"medications":["oseltamivir"],"lab_values":[],"procedures":[]}`,
		"Patient presents with influenza, started on oseltamivir.",
	}}
	publisher := &recordingPublisher{}

	// max chars 9 packs the first two lines together and overflows the third
	svc := NewAnalysisService(&fakeUowFactory{uow: uow}, llmProvider, &fakeEmbeddingProvider{}, publisher, 9)

	res, err := svc.Analyze(context.Background(), note.Id)
	require.NoError(t, err)

	assert.Equal(t, note.Id, res.NoteId)
	assert.Equal(t, []interface{}{"influenza"}, res.Entities["diagnoses"])
	assert.Equal(t, "Patient presents with influenza, started on oseltamivir.", res.Summary)

	assert.True(t, uow.noteRepo.updateCalled)
	assert.Equal(t, note.Id, uow.noteRepo.updatedId)
	assert.Equal(t, res.Summary, uow.noteRepo.updatedSummary)

	assert.Equal(t, []uuid.UUID{note.Id}, uow.chunkRepo.deletedNoteIds)
	require.Len(t, uow.chunkRepo.created, 2)
	assert.Equal(t, "aaaa\nbbbb", uow.chunkRepo.created[0].ChunkText)
	assert.Equal(t, "cccc", uow.chunkRepo.created[1].ChunkText)
	assert.Equal(t, 0, uow.chunkRepo.created[0].ChunkIndex)
	assert.Equal(t, 1, uow.chunkRepo.created[1].ChunkIndex)
	assert.Len(t, uow.chunkRepo.created[0].Embedding, embedding.Dim)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, constant.AuditEventNoteAnalyzed, publisher.events[0].EventType)
}

func TestAnalyzeGarbledEntityOutputUsesDefaults(t *testing.T) {
	uow := newFakeUnitOfWork()
	note := seedNote(uow, "short note")

	llmProvider := &queuedLLMProvider{responses: []string{
		"I could not produce JSON, sorry.",
		"Summary.",
	}}
	svc := NewAnalysisService(&fakeUowFactory{uow: uow}, llmProvider, &fakeEmbeddingProvider{}, &recordingPublisher{}, 500)

	res, err := svc.Analyze(context.Background(), note.Id)
	require.NoError(t, err)

	for _, key := range []string{"diagnoses", "medications", "lab_values", "procedures"} {
		assert.Equal(t, []interface{}{}, res.Entities[key], key)
	}
}

func TestAnalyzeSummaryFailureStopsPipeline(t *testing.T) {
	uow := newFakeUnitOfWork()
	note := seedNote(uow, "short note")

	llmProvider := &queuedLLMProvider{
		responses: []string{`{"diagnoses":[],"medications":[],"lab_values":[],"procedures":[]}`, ""},
		errs:      []error{nil, errors.New("model unavailable")},
	}
	svc := NewAnalysisService(&fakeUowFactory{uow: uow}, llmProvider, &fakeEmbeddingProvider{}, &recordingPublisher{}, 500)

	_, err := svc.Analyze(context.Background(), note.Id)
	require.Error(t, err)

	assert.False(t, uow.noteRepo.updateCalled)
	assert.Empty(t, uow.chunkRepo.created)
}

func TestAnalyzeChunkFailureKeepsEarlierChunks(t *testing.T) {
	uow := newFakeUnitOfWork()
	note := seedNote(uow, "aaaa\nbbbb\ncccc")
	uow.chunkRepo.failCreateAt = 1

	llmProvider := &queuedLLMProvider{responses: []string{
		`{"diagnoses":[],"medications":[],"lab_values":[],"procedures":[]}`,
		"Summary.",
	}}
	svc := NewAnalysisService(&fakeUowFactory{uow: uow}, llmProvider, &fakeEmbeddingProvider{}, &recordingPublisher{}, 9)

	_, err := svc.Analyze(context.Background(), note.Id)
	require.Error(t, err)

	// extraction results survive, and the first chunk stays stored
	assert.True(t, uow.noteRepo.updateCalled)
	require.Len(t, uow.chunkRepo.created, 1)
	assert.Equal(t, "aaaa\nbbbb", uow.chunkRepo.created[0].ChunkText)
}
