package service

import (
	"context"
	"log"
	"strings"
	"time"

	"clinical-intel-be/internal/constant"
	"clinical-intel-be/internal/dto"
	"clinical-intel-be/internal/entity"
	"clinical-intel-be/internal/repository/unitofwork"
	"clinical-intel-be/pkg/pdftext"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteService interface {
	Upload(ctx context.Context, req *dto.UploadNoteRequest) (*dto.UploadNoteResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// Upload ingests one clinical document and stores it untouched. Analysis is a
// separate, explicit step.
func (s *noteService) Upload(ctx context.Context, req *dto.UploadNoteRequest) (*dto.UploadNoteResponse, error) {
	fileName, rawText, err := resolveInput(req)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rawText) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Document contains no extractable text")
	}

	note := entity.ClinicalNote{
		Id:        uuid.New(),
		FileName:  fileName,
		RawText:   rawText,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ClinicalNoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	// Audit is auxiliary; a publish failure never fails the upload.
	evt := &dto.AuditEventMessage{
		EventType: constant.AuditEventNoteUploaded,
		Module:    constant.ModuleIngestion,
		Message:   "Clinical note uploaded",
		Details: map[string]interface{}{
			"note_id":   note.Id,
			"file_name": note.FileName,
			"text_size": len(note.RawText),
		},
	}
	if err := s.publisherService.PublishAudit(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish upload audit event: %v", err)
	}

	return &dto.UploadNoteResponse{
		NoteId:   note.Id,
		FileName: note.FileName,
		RawText:  note.RawText,
	}, nil
}

// resolveInput picks the text source: an uploaded file wins over pasted text.
// PDF files go through text extraction, anything else is read as UTF-8 with
// invalid bytes dropped.
func resolveInput(req *dto.UploadNoteRequest) (string, string, error) {
	if len(req.FileBytes) > 0 {
		fileName := req.FileName
		if fileName == "" {
			fileName = constant.FileNameUploadedFile
		}

		if strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
			text, err := pdftext.Extract(req.FileBytes)
			if err != nil {
				return "", "", fiber.NewError(fiber.StatusBadRequest, "Failed to extract text from PDF")
			}
			return fileName, text, nil
		}

		return fileName, strings.ToValidUTF8(string(req.FileBytes), ""), nil
	}

	if req.Text != "" {
		return constant.FileNamePastedText, req.Text, nil
	}

	return "", "", fiber.NewError(fiber.StatusBadRequest, "Either a file or text input is required")
}
