package answer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"clinical-intel-be/pkg/llm"
)

const groundedSystemPrompt = "You are a helpful clinical assistant. Answer the question based ONLY on the provided " +
	"clinical context. If the answer is not in the context, say so."

// Generator synthesizes an answer constrained to the retrieved context.
// Callers must not invoke it with an empty context; the no-context case is
// short-circuited upstream.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (g *Generator) Generate(ctx context.Context, question string, contextChunks []string) (string, error) {
	contextBlock := strings.Join(contextChunks, "\n")
	userMessage := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextBlock, question)

	response, err := g.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: groundedSystemPrompt},
		{Role: "user", Content: userMessage},
	})
	if err != nil {
		g.logger.Printf("[ERROR] grounded answer generation failed: %v", err)
		return "", err
	}

	return strings.TrimSpace(response), nil
}
