package implementation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunDB opens a dialector without touching a real database so generated
// SQL can be inspected.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=dryrun dbname=dryrun"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestSimilaritySearchQueryOrdersByDistance(t *testing.T) {
	db := newDryRunDB(t)
	noteId := uuid.New()
	queryVector := pgvector.NewVector([]float32{0.1, 0.2, 0.3})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var results []chunkWithDistance
		return similaritySearchQuery(tx, queryVector, 3, noteId).Scan(&results)
	})

	// ranking must survive into the statement: distance selected as a column
	// and ordered on, ascending (cosine distance, smaller is closer)
	assert.Contains(t, sql, "embedding <=>", sql)
	assert.Contains(t, sql, "AS distance", sql)
	assert.Contains(t, sql, "ORDER BY distance ASC", sql)
	assert.Contains(t, sql, "LIMIT 3", sql)
}

func TestSimilaritySearchQueryScopesToNote(t *testing.T) {
	db := newDryRunDB(t)
	noteId := uuid.New()
	queryVector := pgvector.NewVector([]float32{0.5})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var results []chunkWithDistance
		return similaritySearchQuery(tx, queryVector, 5, noteId).Scan(&results)
	})

	assert.Contains(t, sql, "note_id = '"+noteId.String()+"'", sql)
	assert.Contains(t, sql, "deleted_at IS NULL", sql)
}
