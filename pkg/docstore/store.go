package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultListLimit is the number of summaries List returns when the
	// caller passes no limit.
	DefaultListLimit = 50

	// DefaultSearchLimit is the number of results Search returns when
	// the caller passes no limit.
	DefaultSearchLimit = 10

	// defaultRecentDays is the window Recent uses when the caller
	// passes no day count.
	defaultRecentDays = 7
)

// Config holds store configuration
type Config struct {
	DBPath        string
	Logger        zerolog.Logger
	Provider      EmbeddingProvider // Optional, if nil semantic search is disabled
	MaxEmbedChars int
	EmbedTimeout  time.Duration
}

// Store is the public surface of the document memory store. It delegates
// persistence to a Backend selected at open time and embedding to the
// Gateway, degrading to text search whenever embeddings are unavailable.
type Store struct {
	backend Backend
	gateway *Gateway
	dbPath  string
	logger  zerolog.Logger
}

// Open opens (creating if necessary) the store at cfg.DBPath.
func Open(cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("database path is required")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gateway := NewGateway(GatewayConfig{
		Provider: cfg.Provider,
		MaxChars: cfg.MaxEmbedChars,
		Timeout:  cfg.EmbedTimeout,
		Logger:   cfg.Logger,
	})

	backend, err := openBackend(cfg.DBPath, gateway.Dimension(), cfg.Logger)
	if err != nil {
		return nil, err
	}

	s := &Store{
		backend: backend,
		gateway: gateway,
		dbPath:  cfg.DBPath,
		logger:  cfg.Logger,
	}

	s.logger.Info().
		Str("db_path", cfg.DBPath).
		Bool("embeddings", gateway.Enabled()).
		Msg("Document store opened")

	return s, nil
}

// Save stores a document and best-effort computes its embedding. The
// embedding is skipped when another document with the same content hash
// already has one; embedding failure never fails the save.
func (s *Store) Save(ctx context.Context, namespace, title, content string, meta map[string]interface{}) (int64, error) {
	doc := &Document{
		Namespace:   namespace,
		Title:       title,
		Content:     content,
		ContentHash: ContentHash(content),
		Meta:        meta,
		CreatedAt:   now(),
	}

	id, err := s.backend.InsertDocument(ctx, doc)
	if err != nil {
		return 0, err
	}

	s.maybeEmbed(ctx, id, doc)

	s.logger.Info().
		Int64("id", id).
		Str("namespace", namespace).
		Str("title", title).
		Msg("Saved document")

	return id, nil
}

// QuickSave stores content under an auto-generated title.
func (s *Store) QuickSave(ctx context.Context, namespace, content string) (int64, error) {
	title := "Note " + time.Now().Format("2006-01-02 15:04")
	return s.Save(ctx, namespace, title, content, nil)
}

// maybeEmbed computes and stores an embedding for the document unless one
// already exists for its content hash.
func (s *Store) maybeEmbed(ctx context.Context, id int64, doc *Document) {
	if !s.gateway.Enabled() {
		return
	}

	exists, err := s.backend.HasEmbeddingForHash(ctx, doc.ContentHash)
	if err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("Failed to check existing embeddings")
		return
	}
	if exists {
		return
	}

	vector, ok := s.gateway.Embed(ctx, doc.Title+"\n\n"+doc.Content)
	if !ok {
		return
	}

	if err := s.backend.InsertEmbedding(ctx, id, vector); err != nil {
		s.logger.Warn().Err(err).Int64("id", id).Msg("Failed to store embedding")
		return
	}

	s.logger.Debug().Int64("id", id).Msg("Created embedding")
}

// Get returns the full document, or nil when the id does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*Document, error) {
	return s.backend.GetDocument(ctx, id)
}

// List returns document summaries, newest first, optionally filtered by
// namespace. limit <= 0 means DefaultListLimit.
func (s *Store) List(ctx context.Context, namespace string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.backend.ListDocuments(ctx, namespace, limit)
}

// Recent returns summaries of documents created in the last days days,
// newest first. days <= 0 means one week.
func (s *Store) Recent(ctx context.Context, namespace string, days int) ([]Summary, error) {
	if days <= 0 {
		days = defaultRecentDays
	}
	since := now() - float64(days)*24*3600
	return s.backend.ListRecent(ctx, namespace, since)
}

// Search returns ranked documents for query. Semantic search runs first
// when a query embedding is obtainable; on failure or zero hits the call
// falls back to substring matching on title and content, newest first.
// A single call returns purely semantic or purely text results.
func (s *Store) Search(ctx context.Context, query, namespace string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if s.gateway.Enabled() {
		if vector, ok := s.gateway.Embed(ctx, query); ok {
			results, err := s.backend.SemanticSearch(ctx, vector, namespace, limit)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Semantic search failed, falling back to text search")
			} else if len(results) > 0 {
				s.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Semantic search completed")
				return results, nil
			}
		}
	}

	docs, err := s.backend.TextMatch(ctx, query, namespace, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, SearchResult{
			Document:  doc,
			MatchType: MatchText,
		})
	}

	s.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Text search completed")
	return results, nil
}

// Delete removes a document and its embedding. It reports whether a
// document row was actually removed.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.backend.DeleteDocument(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info().Int64("id", id).Msg("Deleted document")
	}
	return deleted, nil
}

// Stats returns store-wide counters.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	total, counts, err := s.backend.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}

	embeddings, err := s.backend.CountEmbeddings(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalDocs:         total,
		NamespaceCounts:   counts,
		EmbeddingCount:    embeddings,
		EmbeddingsEnabled: s.gateway.Enabled(),
		DBPath:            s.dbPath,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.logger.Info().Msg("Closing document store")
	return s.backend.Close()
}

// now returns the current time as seconds since epoch with sub-second
// precision, matching the created_at column type.
func now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
