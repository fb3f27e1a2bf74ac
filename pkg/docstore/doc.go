// Package docstore is an embedded, namespaced document memory store backed
// by sqlite, with optional vector embeddings and dual-mode retrieval.
//
// Invariants:
// - Documents are immutable once saved; only create, read, list, delete.
// - content_hash is always the hash of the content at save time.
// - Embedding failures never fail a save or a search; search degrades to
//   substring matching when no embedding is obtainable.
//
// Usage:
//
//	store, _ := docstore.Open(docstore.Config{DBPath: "/data/memory.sqlite"})
//	defer store.Close()
//	id, _ := store.Save(ctx, "notes", "title", "content", nil)
//	results, _ := store.Search(ctx, "content", "notes", 10)
//	_ = id
//	_ = results
package docstore
