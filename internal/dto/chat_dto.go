package dto

import (
	"github.com/google/uuid"
)

type ChatRequest struct {
	NoteId   uuid.UUID `json:"note_id" validate:"required"`
	Question string    `json:"question" validate:"required"`
}

type ChatResponse struct {
	Answer        string   `json:"answer"`
	ContextChunks []string `json:"context_chunks,omitempty"`
}
