package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDocument(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SplitDocument("", 500))
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Empty(t, SplitDocument("  \n\n  \t  \n\n ", 500))
	})

	t.Run("single short paragraph", func(t *testing.T) {
		chunks := SplitDocument("Hello world.", 500)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Hello world.", chunks[0])
	})

	t.Run("paragraphs pack into one chunk", func(t *testing.T) {
		chunks := SplitDocument("First paragraph.\n\nSecond paragraph.", 500)
		require.Len(t, chunks, 1)
		assert.Equal(t, "First paragraph.\n\nSecond paragraph.", chunks[0])
	})

	t.Run("paragraphs split across chunks at limit", func(t *testing.T) {
		para := strings.Repeat("a", 300)
		chunks := SplitDocument(para+"\n\n"+para, 500)
		require.Len(t, chunks, 2)
		assert.Equal(t, para, chunks[0])
		assert.Equal(t, para, chunks[1])
	})

	t.Run("combined length exactly at limit starts new chunk", func(t *testing.T) {
		// 250 + 250 = 500, not strictly under 500
		para := strings.Repeat("a", 250)
		chunks := SplitDocument(para+"\n\n"+para, 500)
		require.Len(t, chunks, 2)
	})

	t.Run("combined length one under limit packs together", func(t *testing.T) {
		a := strings.Repeat("a", 250)
		b := strings.Repeat("b", 249)
		chunks := SplitDocument(a+"\n\n"+b, 500)
		require.Len(t, chunks, 1)
	})

	t.Run("oversized paragraph kept whole", func(t *testing.T) {
		para := strings.Repeat("x", 900)
		chunks := SplitDocument(para, 500)
		require.Len(t, chunks, 1)
		assert.Len(t, chunks[0], 900)
	})

	t.Run("nul bytes stripped", func(t *testing.T) {
		chunks := SplitDocument("Hello\x00 world.", 500)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Hello world.", chunks[0])
	})

	t.Run("blank paragraphs dropped", func(t *testing.T) {
		chunks := SplitDocument("First.\n\n   \n\nSecond.", 500)
		require.Len(t, chunks, 1)
		assert.Equal(t, "First.\n\nSecond.", chunks[0])
	})

	t.Run("zero max uses default", func(t *testing.T) {
		para := strings.Repeat("a", 300)
		chunks := SplitDocument(para+"\n\n"+para, 0)
		assert.Len(t, chunks, 2)
	})

	t.Run("chunks carry no trailing separator", func(t *testing.T) {
		chunks := SplitDocument("One.\n\nTwo.", 500)
		for _, c := range chunks {
			assert.Equal(t, strings.TrimSpace(c), c)
		}
	})
}
