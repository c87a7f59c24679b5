package embedding

// Dim is the embedding dimensionality every provider must produce.
const Dim = 1536

// Task types hint the provider at how the text will be used. Providers may
// ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

// EmbeddingProvider maps text to a fixed-length vector. Implementations must
// be safe for concurrent use.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
