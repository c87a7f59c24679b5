package implementation

import (
	"context"

	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/mapper"
	"clinical-intel-be/internal/model"
	"clinical-intel-be/internal/repository/contract"
	"clinical-intel-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type NoteChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteChunkMapper
}

func NewNoteChunkRepository(db *gorm.DB) contract.NoteChunkRepository {
	return &NoteChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteChunkMapper(),
	}
}

func (r *NoteChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.NoteChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.NoteChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *NoteChunkRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	return specification.ByNoteID{NoteID: noteId}.
		Apply(r.db.WithContext(ctx)).
		Delete(&model.NoteChunk{}).Error
}

func (r *NoteChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error) {
	var models []*model.NoteChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.NoteChunk{}).Count(&count).Error
	return count, err
}

// chunkWithDistance carries the chunk row plus its computed distance column.
type chunkWithDistance struct {
	model.NoteChunk
	Distance float64
}

// similaritySearchQuery builds the ranked retrieval query. The distance is
// selected into a named column and ordered on, because DB.Order only accepts
// strings and clause.OrderBy values; a bare expression there is dropped and
// the result degrades to storage order.
func similaritySearchQuery(db *gorm.DB, queryVector pgvector.Vector, limit int, noteId uuid.UUID) *gorm.DB {
	// pgvector cosine distance: embedding <=> query vector, smaller is closer.
	// The note_id filter is the retrieval scope invariant: a search for one
	// note must never surface another note's chunks.
	query := db.
		Table("note_chunks").
		Select("note_chunks.*, embedding <=> ? AS distance", queryVector)
	query = specification.ByNoteID{NoteID: noteId}.Apply(query)
	return query.
		Where("deleted_at IS NULL").
		Order("distance ASC").
		Limit(limit)
}

func (r *NoteChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, noteId uuid.UUID) ([]*entity.NoteChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	var results []chunkWithDistance
	err := similaritySearchQuery(r.db.WithContext(ctx), pgvector.NewVector(embedding), limit, noteId).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	models := make([]*model.NoteChunk, len(results))
	for i := range results {
		m := results[i].NoteChunk
		models[i] = &m
	}

	return r.mapper.ToEntities(models), nil
}
