package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
)

// plainBackend serializes embeddings into an ordinary table and ranks
// nearest neighbors by scanning candidate rows and computing cosine
// similarity in-process.
type plainBackend struct {
	baseBackend
}

func newPlainBackend(db *sql.DB) (*plainBackend, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS docs_embeddings(
			id INTEGER PRIMARY KEY,
			doc_id INTEGER,
			embedding_json TEXT,
			FOREIGN KEY (doc_id) REFERENCES docs(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_embeddings_doc_id ON docs_embeddings(doc_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create embedding table: %w", err)
	}

	return &plainBackend{baseBackend: baseBackend{db: db}}, nil
}

func (b *plainBackend) InsertEmbedding(ctx context.Context, docID int64, vector []float32) error {
	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	_, err = b.db.ExecContext(ctx,
		"INSERT INTO docs_embeddings (doc_id, embedding_json) VALUES (?, ?)",
		docID, string(vectorJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to store embedding for document %d: %w", docID, err)
	}

	return nil
}

func (b *plainBackend) SemanticSearch(ctx context.Context, query []float32, namespace string, limit int) ([]SearchResult, error) {
	sqlQuery := `
		SELECT d.id, d.namespace, d.title, d.content, d.content_hash, d.meta, d.created_at,
		       e.embedding_json
		FROM docs_embeddings e
		JOIN docs d ON e.doc_id = d.id
	`
	var args []interface{}
	if namespace != "" {
		sqlQuery += " WHERE d.namespace = ?"
		args = append(args, namespace)
	}

	rows, err := b.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan embeddings: %w", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var doc Document
		var metaJSON, embeddingJSON string
		if err := rows.Scan(&doc.ID, &doc.Namespace, &doc.Title, &doc.Content, &doc.ContentHash, &metaJSON, &doc.CreatedAt, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		if err := unmarshalMeta(metaJSON, &doc); err != nil {
			return nil, err
		}

		var vector []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &vector); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding for document %d: %w", doc.ID, err)
		}

		score := CosineSimilarity(query, vector)
		results = append(results, SearchResult{
			Document:  doc,
			Score:     &score,
			MatchType: MatchSemantic,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Score > *results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

var _ Backend = (*plainBackend)(nil)
var _ Backend = (*vecBackend)(nil)
