package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/mapper"
	"clinical-intel-be/internal/model"
	"clinical-intel-be/internal/repository/contract"
	"clinical-intel-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicalNoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClinicalNoteMapper
}

func NewClinicalNoteRepository(db *gorm.DB) contract.ClinicalNoteRepository {
	return &ClinicalNoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewClinicalNoteMapper(),
	}
}

func (r *ClinicalNoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClinicalNoteRepositoryImpl) Create(ctx context.Context, note *entity.ClinicalNote) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *ClinicalNoteRepositoryImpl) UpdateAnalysis(ctx context.Context, id uuid.UUID, entities map[string]interface{}, summary string) error {
	raw, err := json.Marshal(entities)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&model.ClinicalNote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"entities": datatypes.JSON(raw),
			"summary":  summary,
		}).Error
}

func (r *ClinicalNoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ClinicalNote, error) {
	var m model.ClinicalNote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ClinicalNoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClinicalNote, error) {
	var models []*model.ClinicalNote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ClinicalNoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ClinicalNote{}).Count(&count).Error
	return count, err
}
