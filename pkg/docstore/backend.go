package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func init() {
	// Auto-register sqlite-vec extension
	sqlite_vec.Auto()
}

// Backend is the storage strategy behind the store. Two implementations
// exist: a sqlite-vec backed one that answers nearest-neighbor queries in
// SQL, and a plain-table one that serializes vectors into ordinary rows
// and ranks candidates in-process. Both expose the same operations.
type Backend interface {
	InsertDocument(ctx context.Context, doc *Document) (int64, error)
	InsertEmbedding(ctx context.Context, docID int64, vector []float32) error
	HasEmbeddingForHash(ctx context.Context, contentHash string) (bool, error)
	GetDocument(ctx context.Context, id int64) (*Document, error)
	ListDocuments(ctx context.Context, namespace string, limit int) ([]Summary, error)
	ListRecent(ctx context.Context, namespace string, since float64) ([]Summary, error)
	DeleteDocument(ctx context.Context, id int64) (bool, error)
	TextMatch(ctx context.Context, pattern, namespace string, limit int) ([]Document, error)
	SemanticSearch(ctx context.Context, query []float32, namespace string, limit int) ([]SearchResult, error)
	CountDocuments(ctx context.Context) (int, map[string]int, error)
	CountEmbeddings(ctx context.Context) (int, error)
	Close() error
}

const docsSchema = `
	CREATE TABLE IF NOT EXISTS docs(
		id INTEGER PRIMARY KEY,
		namespace TEXT,
		title TEXT,
		content TEXT,
		content_hash TEXT,
		meta TEXT,
		created_at REAL
	);
	CREATE INDEX IF NOT EXISTS idx_docs_namespace ON docs(namespace);
	CREATE INDEX IF NOT EXISTS idx_docs_created_at ON docs(created_at);
	CREATE INDEX IF NOT EXISTS idx_docs_hash ON docs(content_hash);
`

// openBackend opens the database at path and selects a storage strategy.
// When dimension > 0 it probes for sqlite-vec by creating the vec0 table;
// if the probe fails it falls back to the plain serialized-vector table.
// The choice is made once here, not re-branched per query.
func openBackend(path string, dimension int, logger zerolog.Logger) (Backend, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(docsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize docs schema: %w", err)
	}

	if dimension > 0 {
		vb, err := newVecBackend(db, dimension)
		if err == nil {
			logger.Debug().Int("dimension", dimension).Msg("Vector index backend selected")
			return vb, nil
		}
		logger.Warn().Err(err).Msg("Vector index unavailable, using plain embedding table")
	}

	pb, err := newPlainBackend(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return pb, nil
}

// openDB opens the sqlite database with the store's pragmas applied.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=memory",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return db, nil
}

// baseBackend implements the operations that only touch the docs table
// and the parts of embedding bookkeeping shared by both strategies (both
// keep their vectors in a table named docs_embeddings keyed by doc_id).
type baseBackend struct {
	db *sql.DB
}

func (b *baseBackend) InsertDocument(ctx context.Context, doc *Document) (int64, error) {
	meta := doc.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := b.db.ExecContext(ctx, `
		INSERT INTO docs(namespace, title, content, content_hash, meta, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, doc.Namespace, doc.Title, doc.Content, doc.ContentHash, string(metaJSON), doc.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted document id: %w", err)
	}

	return id, nil
}

func (b *baseBackend) HasEmbeddingForHash(ctx context.Context, contentHash string) (bool, error) {
	var one int
	err := b.db.QueryRowContext(ctx, `
		SELECT 1 FROM docs_embeddings
		WHERE doc_id IN (SELECT id FROM docs WHERE content_hash = ?)
		LIMIT 1
	`, contentHash).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check embedding for hash: %w", err)
	}
	return true, nil
}

func (b *baseBackend) GetDocument(ctx context.Context, id int64) (*Document, error) {
	var doc Document
	var metaJSON string
	err := b.db.QueryRowContext(ctx, `
		SELECT id, namespace, title, content, content_hash, meta, created_at
		FROM docs WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Namespace, &doc.Title, &doc.Content, &doc.ContentHash, &metaJSON, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}

	if err := unmarshalMeta(metaJSON, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (b *baseBackend) ListDocuments(ctx context.Context, namespace string, limit int) ([]Summary, error) {
	query := `
		SELECT id, namespace, title, created_at, substr(content, 1, ?)
		FROM docs
	`
	args := []interface{}{previewLength + 1}
	if namespace != "" {
		query += " WHERE namespace = ?"
		args = append(args, namespace)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		var p string
		if err := rows.Scan(&s.ID, &s.Namespace, &s.Title, &s.CreatedAt, &p); err != nil {
			return nil, fmt.Errorf("failed to scan document summary: %w", err)
		}
		s.Preview = preview(p)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (b *baseBackend) ListRecent(ctx context.Context, namespace string, since float64) ([]Summary, error) {
	query := `
		SELECT id, namespace, title, created_at
		FROM docs WHERE created_at > ?
	`
	args := []interface{}{since}
	if namespace != "" {
		query += " AND namespace = ?"
		args = append(args, namespace)
	}
	query += " ORDER BY created_at DESC"

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Namespace, &s.Title, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (b *baseBackend) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	// vec0 virtual tables have no foreign keys, so the embedding row is
	// removed explicitly under both strategies.
	if _, err := tx.ExecContext(ctx, "DELETE FROM docs_embeddings WHERE doc_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete embedding for document %d: %w", id, err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM docs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}

	return affected > 0, nil
}

func (b *baseBackend) TextMatch(ctx context.Context, pattern, namespace string, limit int) ([]Document, error) {
	like := "%" + pattern + "%"
	query := `
		SELECT id, namespace, title, content, content_hash, meta, created_at
		FROM docs
		WHERE (title LIKE ? OR content LIKE ?)
	`
	args := []interface{}{like, like}
	if namespace != "" {
		query += " AND namespace = ?"
		args = append(args, namespace)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run text match: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (b *baseBackend) CountDocuments(ctx context.Context) (int, map[string]int, error) {
	var total int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM docs").Scan(&total); err != nil {
		return 0, nil, fmt.Errorf("failed to count documents: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, "SELECT namespace, COUNT(*) FROM docs GROUP BY namespace")
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count documents by namespace: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var namespace string
		var n int
		if err := rows.Scan(&namespace, &n); err != nil {
			return 0, nil, fmt.Errorf("failed to scan namespace count: %w", err)
		}
		counts[namespace] = n
	}

	return total, counts, rows.Err()
}

func (b *baseBackend) CountEmbeddings(ctx context.Context) (int, error) {
	var n int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM docs_embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

func (b *baseBackend) Close() error {
	return b.db.Close()
}

// scanDocuments reads full document rows in the canonical column order.
func scanDocuments(rows *sql.Rows) ([]Document, error) {
	docs := []Document{}
	for rows.Next() {
		var doc Document
		var metaJSON string
		if err := rows.Scan(&doc.ID, &doc.Namespace, &doc.Title, &doc.Content, &doc.ContentHash, &metaJSON, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := unmarshalMeta(metaJSON, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func unmarshalMeta(metaJSON string, doc *Document) error {
	if metaJSON == "" {
		metaJSON = "{}"
	}
	if err := json.Unmarshal([]byte(metaJSON), &doc.Meta); err != nil {
		return fmt.Errorf("failed to unmarshal metadata for document %d: %w", doc.ID, err)
	}
	return nil
}
