package dto

import (
	"github.com/google/uuid"
)

// UploadNoteRequest carries one ingestion input. Exactly one of FileBytes or
// Text is expected; the controller fills it from the multipart form.
type UploadNoteRequest struct {
	FileName  string
	FileBytes []byte
	Text      string
}

type UploadNoteResponse struct {
	NoteId   uuid.UUID `json:"note_id"`
	FileName string    `json:"file_name"`
	RawText  string    `json:"raw_text"`
}

type AnalyzeNoteResponse struct {
	NoteId   uuid.UUID              `json:"note_id"`
	Entities map[string]interface{} `json:"entities"`
	Summary  string                 `json:"summary"`
}
