package retrieve

import (
	"context"
	"fmt"
	"log"

	"clinical-intel-be/internal/repository/unitofwork"
	"clinical-intel-be/pkg/embedding"

	"github.com/google/uuid"
)

// DefaultTopK bounds how many chunks ground an answer.
const DefaultTopK = 3

// Result carries the usable context chunks for one question, ordered by
// descending similarity. Scores stay inside the storage layer.
type Result struct {
	Chunks []string
}

// HasContext reports whether retrieval found anything to ground an answer in.
// An empty result is a valid outcome, not an error.
func (r *Result) HasContext() bool {
	return r != nil && len(r.Chunks) > 0
}

// Retriever embeds a question and fetches the most similar chunks of a single
// clinical note. Similarity ranking itself is owned by the storage layer.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

func NewRetriever(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Retriever {
	return &Retriever{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

func (r *Retriever) Retrieve(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	noteId uuid.UUID,
	question string,
	topK int,
) (*Result, error) {

	if topK <= 0 {
		topK = DefaultTopK
	}

	embeddingRes, err := r.embeddingProvider.Generate(question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	chunks, err := uow.NoteChunkRepository().SearchSimilar(
		ctx,
		embeddingRes.Embedding.Values,
		topK,
		noteId,
	)
	if err != nil {
		r.logger.Printf("[ERROR] similarity search failed for note %s: %v", noteId, err)
		return nil, err
	}

	result := &Result{}
	for _, chunk := range chunks {
		if chunk.ChunkText == "" {
			continue
		}
		result.Chunks = append(result.Chunks, chunk.ChunkText)
	}

	r.logger.Printf("[DEBUG] retrieved %d chunks (%d usable) for note %s",
		len(chunks), len(result.Chunks), noteId)

	return result, nil
}
