package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedIdentical(t *testing.T) {
	t.Parallel()
	doc := []byte("a\nb\nc\n")
	assert.Empty(t, Unified(doc, doc, "before", "after"))
}

func TestUnifiedSingleLineChange(t *testing.T) {
	t.Parallel()

	result := Unified([]byte("line1\nline2\nline3\n"), []byte("line1\nmodified\nline3\n"), "deck.json", "normalised")
	require.NotEmpty(t, result)
	assert.True(t, strings.HasPrefix(result, "--- deck.json\n+++ normalised\n@@ -1,3 +1,3 @@\n"))
	assert.Contains(t, result, "\n line1\n")
	assert.Contains(t, result, "\n-line2\n")
	assert.Contains(t, result, "\n+modified\n")
	assert.Contains(t, result, "\n line3\n")
}

func TestUnifiedInsertAndDelete(t *testing.T) {
	t.Parallel()

	result := Unified([]byte("a\nb\n"), []byte("a\nb\nc\n"), "x", "y")
	assert.Contains(t, result, "+c\n")
	assert.NotContains(t, result, "-a")

	result = Unified([]byte("a\nb\nc\n"), []byte("a\nc\n"), "x", "y")
	assert.Contains(t, result, "-b\n")
}

func TestUnifiedTruncates(t *testing.T) {
	t.Parallel()

	var before, after strings.Builder
	for i := 0; i < maxDiffLines; i++ {
		fmt.Fprintf(&before, "old %d\n", i)
		fmt.Fprintf(&after, "new %d\n", i)
	}
	result := Unified([]byte(before.String()), []byte(after.String()), "x", "y")
	assert.True(t, strings.HasSuffix(result, truncateMessage+"\n"))
}

func TestChanged(t *testing.T) {
	t.Parallel()

	inserted, deleted := Changed([]byte("a\nb\nc\n"), []byte("a\nB\nc\nd\n"))
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 1, deleted)

	inserted, deleted = Changed([]byte("same\n"), []byte("same\n"))
	assert.Zero(t, inserted)
	assert.Zero(t, deleted)
}
