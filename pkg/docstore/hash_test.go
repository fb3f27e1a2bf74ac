package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash_Deterministic(t *testing.T) {
	h1 := ContentHash("the quick brown fox")
	h2 := ContentHash("the quick brown fox")
	assert.Equal(t, h1, h2)
}

func TestContentHash_FixedLength(t *testing.T) {
	tests := []string{"", "a", "some longer content with\nnewlines and unicode: héllo"}
	for _, content := range tests {
		assert.Len(t, ContentHash(content), 16)
	}
}

func TestContentHash_DiffersForDifferentContent(t *testing.T) {
	assert.NotEqual(t, ContentHash("alpha"), ContentHash("beta"))
	assert.NotEqual(t, ContentHash("alpha"), ContentHash("alpha "))
}

func TestContentHash_KnownValue(t *testing.T) {
	// sha256("hello") truncated to 16 hex chars.
	assert.Equal(t, "2cf24dba5fb0a30e", ContentHash("hello"))
}
