package extractions

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBounds(t *testing.T) {
	generator := NewGenerator()

	for i := 0; i < 100; i++ {
		set := generator.Generate("doc_1")
		require.NotNil(t, set)
		assert.Equal(t, "doc_1", set.DocumentID)

		count := len(set.Extractions)
		assert.GreaterOrEqual(t, count, 8)
		assert.LessOrEqual(t, count, 12)

		for _, extraction := range set.Extractions {
			assert.NotEmpty(t, extraction.ID)
			assert.NotEmpty(t, extraction.Text)
			assert.GreaterOrEqual(t, extraction.PageNumber, 1)
			assert.LessOrEqual(t, extraction.PageNumber, 5)
		}
	}
}

func TestGenerateSortedByPage(t *testing.T) {
	generator := NewGenerator()

	for i := 0; i < 20; i++ {
		set := generator.Generate("doc_1")
		sorted := sort.SliceIsSorted(set.Extractions, func(a, b int) bool {
			return set.Extractions[a].PageNumber < set.Extractions[b].PageNumber
		})
		assert.True(t, sorted, "extractions must be ordered by page number")
	}
}
