package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// HashProvider is a deterministic stand-in for a real embedding model: the
// vector is drawn from a PRNG seeded by the text's SHA-256 digest, so the same
// text always yields the same vector across processes and runs. It carries no
// semantic signal and exists as the default backend where no embedding API is
// available; swap in a real provider without touching chunking or retrieval.
type HashProvider struct{}

func NewHashProvider() EmbeddingProvider {
	return &HashProvider{}
}

func (p *HashProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// taskType is irrelevant to a content hash

	digest := sha256.Sum256([]byte(text))
	seed := binary.BigEndian.Uint64(digest[0:8]) ^ binary.BigEndian.Uint64(digest[8:16])

	rng := rand.New(rand.NewSource(int64(seed)))

	values := make([]float32, Dim)
	for i := range values {
		values[i] = float32(rng.Float64()*2 - 1) // uniform in [-1, 1)
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: values,
		},
	}, nil
}
