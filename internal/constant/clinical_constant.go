package constant

const (
	// Fallback file names for uploads that carry no usable name.
	FileNamePastedText   = "pasted_text"
	FileNameUploadedFile = "uploaded_file"

	// Answer returned when retrieval finds nothing to ground a reply in.
	NoContextAnswer = "No relevant context found for this note."
)

// Audit event types published on the internal event bus.
const (
	AuditEventNoteUploaded = "note.uploaded"
	AuditEventNoteAnalyzed = "note.analyzed"
	AuditEventChatAnswered = "chat.answered"
)

// Module names used in audit log rows.
const (
	ModuleIngestion = "ingestion"
	ModuleAnalysis  = "analysis"
	ModuleChat      = "chat"
)
