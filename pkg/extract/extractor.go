package extract

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"clinical-intel-be/pkg/llm"
)

// RequiredEntityKeys are the categories every extraction result carries.
// Each key is always bound to a list, even when the model omits it.
var RequiredEntityKeys = []string{"diagnoses", "medications", "lab_values", "procedures"}

const entitySystemPrompt = `You are a clinical NLP engine. Extract medical entities from the given clinical note. ` +
	`Return ONLY valid JSON with no markdown formatting, no backticks. ` +
	`Return this exact structure: ` +
	`{"diagnoses": [...], "medications": [...], "lab_values": [...], "procedures": [...]}`

const summarySystemPrompt = `You are a clinical summarization engine. Summarize the following clinical note into a ` +
	`structured format with these sections: Chief Complaint, Diagnosis, Treatment Plan, ` +
	`Medications, Follow-up. Keep it concise.`

var (
	openFenceRe  = regexp.MustCompile("^```(?:json)?\\s*")
	closeFenceRe = regexp.MustCompile("\\s*```\\s*$")
)

// parseOutcome tags how far entity parsing got, so every branch funnels
// through the same normalization instead of ad hoc error handling.
type parseOutcome int

const (
	parsedValid parseOutcome = iota
	parsedNotObject
	notJSON
)

// Extractor turns raw clinical text into structured entities and a narrative
// summary via single-turn LLM calls.
type Extractor struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *log.Logger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// DefaultEntities returns the all-empty entity mapping: all four required
// keys present, each an empty list.
func DefaultEntities() map[string]interface{} {
	entities := make(map[string]interface{}, len(RequiredEntityKeys))
	for _, key := range RequiredEntityKeys {
		entities[key] = []interface{}{}
	}
	return entities
}

// ExtractEntities never fails: model errors and malformed output both degrade
// to the default mapping. A successful parse is normalized so the four
// required keys always hold lists; extra keys pass through untouched.
func (e *Extractor) ExtractEntities(ctx context.Context, clinicalText string) map[string]interface{} {
	content, err := e.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: entitySystemPrompt},
		{Role: "user", Content: clinicalText},
	})
	if err != nil {
		e.logger.Printf("[WARN] entity extraction call failed, using default entities: %v", err)
		return DefaultEntities()
	}

	parsed, outcome := parseEntityPayload(content)
	switch outcome {
	case parsedValid:
		return normalizeEntities(parsed)
	default:
		e.logger.Printf("[WARN] entity extraction returned unusable output (outcome=%d), using default entities", outcome)
		return DefaultEntities()
	}
}

// parseEntityPayload tries the raw text first, then once more with markdown
// code fences stripped.
func parseEntityPayload(raw string) (map[string]interface{}, parseOutcome) {
	if parsed, outcome := tryParseObject(raw); outcome != notJSON {
		return parsed, outcome
	}

	cleaned := openFenceRe.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = closeFenceRe.ReplaceAllString(cleaned, "")
	return tryParseObject(cleaned)
}

func tryParseObject(raw string) (map[string]interface{}, parseOutcome) {
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, notJSON
	}
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, parsedNotObject
	}
	return obj, parsedValid
}

func normalizeEntities(parsed map[string]interface{}) map[string]interface{} {
	for _, key := range RequiredEntityKeys {
		value, ok := parsed[key]
		if !ok {
			parsed[key] = []interface{}{}
			continue
		}
		if _, isList := value.([]interface{}); !isList {
			parsed[key] = []interface{}{}
		}
	}
	return parsed
}

// GenerateSummary returns the model's narrative verbatim (whitespace-trimmed).
// Unlike entity extraction there is no safe default text, so failures
// propagate.
func (e *Extractor) GenerateSummary(ctx context.Context, clinicalText string) (string, error) {
	content, err := e.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: clinicalText},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
