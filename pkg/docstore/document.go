package docstore

// Document is a stored document with its full content and metadata.
type Document struct {
	ID          int64                  `json:"id"`
	Namespace   string                 `json:"namespace"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	ContentHash string                 `json:"content_hash"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
	CreatedAt   float64                `json:"created_at"`
}

// Summary is a listing entry: identity plus a short content preview.
type Summary struct {
	ID        int64   `json:"id"`
	Namespace string  `json:"namespace"`
	Title     string  `json:"title"`
	CreatedAt float64 `json:"created_at"`
	Preview   string  `json:"preview,omitempty"`
}

// MatchType indicates which retrieval mode produced a search result.
type MatchType string

const (
	MatchSemantic MatchType = "semantic"
	MatchText     MatchType = "text"
)

// SearchResult is a document returned by Search, tagged with the retrieval
// mode and, for semantic matches, a similarity score.
type SearchResult struct {
	Document
	Score     *float64  `json:"similarity_score,omitempty"`
	MatchType MatchType `json:"search_type"`
}

// Stats summarizes the contents of the store.
type Stats struct {
	TotalDocs         int            `json:"total_docs"`
	NamespaceCounts   map[string]int `json:"namespace_counts"`
	EmbeddingCount    int            `json:"embedding_count"`
	EmbeddingsEnabled bool           `json:"has_embeddings"`
	DBPath            string         `json:"db_path"`
}

const previewLength = 100

// preview returns the first previewLength characters of content, with an
// ellipsis when truncated.
func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength] + "..."
}
