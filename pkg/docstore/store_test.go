package docstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, provider EmbeddingProvider) *Store {
	t.Helper()

	s, err := Open(Config{
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
		Logger:   testLogger(),
		Provider: provider,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestOpen_RequiresDBPath(t *testing.T) {
	s, err := Open(Config{Logger: testLogger()})
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestSaveAndGet_RoundTrip(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	meta := map[string]interface{}{
		"source": "scraper",
		"score":  0.5,
	}

	id, err := s.Save(ctx, "notes", "a title", "some content", meta)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "notes", doc.Namespace)
	assert.Equal(t, "a title", doc.Title)
	assert.Equal(t, "some content", doc.Content)
	assert.Equal(t, ContentHash("some content"), doc.ContentHash)
	assert.Equal(t, meta, doc.Meta)
	assert.Greater(t, doc.CreatedAt, 0.0)
}

func TestSave_NilMeta(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	id, err := s.Save(ctx, "notes", "t", "c", nil)
	require.NoError(t, err)

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, map[string]interface{}{}, doc.Meta)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t, nil)

	doc, err := s.Get(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := s.Save(ctx, "notes", title, "content of "+title, nil)
		require.NoError(t, err)
	}

	summaries, err := s.List(ctx, "notes", 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "third", summaries[0].Title)

	all, err := s.List(ctx, "notes", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)
}

func TestList_NamespaceFilterAndPreview(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	long := strings.Repeat("x", 300)
	_, err := s.Save(ctx, "scrapes", "long", long, nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, "notes", "short", "tiny", nil)
	require.NoError(t, err)

	scrapes, err := s.List(ctx, "scrapes", 0)
	require.NoError(t, err)
	require.Len(t, scrapes, 1)
	assert.Equal(t, strings.Repeat("x", 100)+"...", scrapes[0].Preview)

	notes, err := s.List(ctx, "notes", 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "tiny", notes[0].Preview)
}

func TestSearch_TextFallbackWithoutProvider(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	for _, content := range []string{"alpha", "beta", "alpha two"} {
		_, err := s.Save(ctx, "notes", "doc", content, nil)
		require.NoError(t, err)
	}

	results, err := s.Search(ctx, "alpha", "notes", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Newest first, text matches only.
	assert.Equal(t, "alpha two", results[0].Content)
	assert.Equal(t, "alpha", results[1].Content)
	for _, r := range results {
		assert.Equal(t, MatchText, r.MatchType)
		assert.Nil(t, r.Score)
	}
}

func TestSearch_TextMatchesTitleToo(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Save(ctx, "notes", "deployment runbook", "steps here", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "runbook", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "deployment runbook", results[0].Title)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Save(ctx, "notes", "t", "Alpha Centauri", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "alpha", "", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_NamespaceScoping(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Save(ctx, "notes", "t", "alpha in notes", nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, "scrapes", "t", "alpha in scrapes", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "alpha", "notes", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "notes", results[0].Namespace)
}

func TestSearch_SemanticRanking(t *testing.T) {
	provider := &mockProvider{
		dimension: 4,
		vectors: map[string][]float32{
			"fruit\n\nred apple":  {1, 0, 0, 0.1},
			"weather\n\nblue sky": {0, 1, 0, 0.1},
			"crunchy snack":       {0.9, 0.1, 0, 0.1},
		},
	}
	s := newTestStore(t, provider)
	ctx := context.Background()

	appleID, err := s.Save(ctx, "notes", "fruit", "red apple", nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, "notes", "weather", "blue sky", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "crunchy snack", "notes", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, appleID, results[0].ID)
	assert.Equal(t, MatchSemantic, results[0].MatchType)
	require.NotNil(t, results[0].Score)
	require.NotNil(t, results[1].Score)
	assert.Greater(t, *results[0].Score, *results[1].Score)
}

func TestSearch_ProviderFailureFallsBackToText(t *testing.T) {
	provider := &mockProvider{dimension: 4, err: assert.AnError}
	s := newTestStore(t, provider)
	ctx := context.Background()

	_, err := s.Save(ctx, "notes", "t", "alpha content", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "alpha", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MatchText, results[0].MatchType)
}

func TestSearch_ZeroSemanticHitsFallsBackToText(t *testing.T) {
	// Only the query embeds; the save-time embedding fails, so the
	// semantic pass has nothing to rank and the text pass must run.
	provider := &mockProvider{
		dimension: 4,
		vectors: map[string][]float32{
			"alpha": {1, 0, 0, 0},
		},
	}
	s := newTestStore(t, provider)
	ctx := context.Background()

	_, err := s.Save(ctx, "notes", "t", "alpha content", nil)
	require.NoError(t, err)

	results, err := s.Search(ctx, "alpha", "", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MatchText, results[0].MatchType)
}

func TestSave_DedupByContentHash(t *testing.T) {
	provider := &mockProvider{dimension: 4}
	s := newTestStore(t, provider)
	ctx := context.Background()

	id1, err := s.Save(ctx, "notes", "first copy", "identical content", nil)
	require.NoError(t, err)
	id2, err := s.Save(ctx, "scrapes", "second copy", "identical content", nil)
	require.NoError(t, err)

	// One embedding computation for two identical-content documents.
	assert.Equal(t, 1, provider.calls)

	// Both document rows exist independently.
	doc1, err := s.Get(ctx, id1)
	require.NoError(t, err)
	require.NotNil(t, doc1)
	doc2, err := s.Get(ctx, id2)
	require.NoError(t, err)
	require.NotNil(t, doc2)
	assert.Equal(t, doc1.ContentHash, doc2.ContentHash)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocs)
	assert.Equal(t, 1, stats.EmbeddingCount)
}

func TestSave_EmbeddingFailureDoesNotFailSave(t *testing.T) {
	provider := &mockProvider{dimension: 4, err: assert.AnError}
	s := newTestStore(t, provider)
	ctx := context.Background()

	id, err := s.Save(ctx, "notes", "t", "content", nil)
	require.NoError(t, err)

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocs)
	assert.Equal(t, 0, stats.EmbeddingCount)
}

func TestDelete_CascadesEmbedding(t *testing.T) {
	provider := &mockProvider{dimension: 4}
	s := newTestStore(t, provider)
	ctx := context.Background()

	id, err := s.Save(ctx, "notes", "t", "content", nil)
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.EmbeddingCount)

	deleted, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, doc)

	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalDocs)
	assert.Equal(t, 0, stats.EmbeddingCount)

	deleted, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStats_PerNamespaceCounts(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, "notes", "t", "c", nil)
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := s.Save(ctx, "scrapes", "t", "c", nil)
		require.NoError(t, err)
	}

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalDocs)
	assert.Equal(t, map[string]int{"notes": 3, "scrapes": 2}, stats.NamespaceCounts)
	assert.False(t, stats.EmbeddingsEnabled)
	assert.NotEmpty(t, stats.DBPath)
}

func TestQuickSave_GeneratesTitle(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	id, err := s.QuickSave(ctx, "notes", "quick content")
	require.NoError(t, err)

	doc, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.True(t, strings.HasPrefix(doc.Title, "Note "))
	assert.Equal(t, "quick content", doc.Content)
}

func TestRecent_NewestFirst(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	_, err := s.Save(ctx, "notes", "older", "a", nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, "notes", "newer", "b", nil)
	require.NoError(t, err)

	recent, err := s.Recent(ctx, "notes", 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "newer", recent[0].Title)
	assert.Equal(t, "older", recent[1].Title)
}
