package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// vecBackend stores embeddings in a sqlite-vec vec0 virtual table and
// answers nearest-neighbor queries in SQL, ranked by cosine distance.
type vecBackend struct {
	baseBackend
	dimension int
}

// newVecBackend creates the vec0 table; failure here means sqlite-vec is
// not usable in this environment and the caller falls back to the plain
// strategy.
func newVecBackend(db *sql.DB, dimension int) (*vecBackend, error) {
	schema := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS docs_embeddings USING vec0(
			doc_id INTEGER PRIMARY KEY,
			embedding float[%d] distance_metric=cosine
		);
	`, dimension)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create vector table: %w", err)
	}

	return &vecBackend{baseBackend: baseBackend{db: db}, dimension: dimension}, nil
}

func (b *vecBackend) InsertEmbedding(ctx context.Context, docID int64, vector []float32) error {
	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	_, err = b.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO docs_embeddings (doc_id, embedding) VALUES (?, ?)",
		docID, string(vectorJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to store embedding for document %d: %w", docID, err)
	}

	return nil
}

func (b *vecBackend) SemanticSearch(ctx context.Context, query []float32, namespace string, limit int) ([]SearchResult, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query embedding: %w", err)
	}

	// The vec0 table cannot see the docs table, so namespace filtering
	// happens after the KNN pass; over-fetch to keep enough candidates.
	k := limit
	if namespace != "" {
		k = limit * 10
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT doc_id, distance
		FROM docs_embeddings
		WHERE embedding MATCH ?
		ORDER BY distance ASC
		LIMIT ?
	`, string(queryJSON), k)
	if err != nil {
		return nil, fmt.Errorf("failed to run vector query: %w", err)
	}
	defer rows.Close()

	type candidate struct {
		docID    int64
		distance float64
	}
	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.docID, &c.distance); err != nil {
			return nil, fmt.Errorf("failed to scan vector candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := []SearchResult{}
	for _, c := range candidates {
		if len(results) >= limit {
			break
		}

		doc, err := b.GetDocument(ctx, c.docID)
		if err != nil {
			return nil, err
		}
		if doc == nil || (namespace != "" && doc.Namespace != namespace) {
			continue
		}

		score := 1.0 - c.distance
		results = append(results, SearchResult{
			Document:  *doc,
			Score:     &score,
			MatchType: MatchSemantic,
		})
	}

	return results, nil
}
