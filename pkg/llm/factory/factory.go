package factory

import (
	"fmt"

	"clinical-intel-be/pkg/llm"
	"clinical-intel-be/pkg/llm/groq"
	"clinical-intel-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, groqBaseURL, groqApiKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		return groq.NewGroqProvider(groqBaseURL, groqApiKey, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
