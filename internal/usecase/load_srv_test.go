package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	items := []int64{1, 2, 3, 4, 5}

	t.Run("splits on the batch size", func(t *testing.T) {
		batches := chunk(items, 2)

		require.Len(t, batches, 3)
		assert.Equal(t, []int64{1, 2}, batches[0])
		assert.Equal(t, []int64{3, 4}, batches[1])
		assert.Equal(t, []int64{5}, batches[2])
	})

	t.Run("single batch when size covers everything", func(t *testing.T) {
		batches := chunk(items, 10)

		require.Len(t, batches, 1)
		assert.Equal(t, items, batches[0])
	})

	t.Run("non-positive size means one batch", func(t *testing.T) {
		batches := chunk(items, 0)

		require.Len(t, batches, 1)
		assert.Len(t, batches[0], 5)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, chunk([]int64{}, 3))
	})

	t.Run("exact multiple", func(t *testing.T) {
		batches := chunk([]int64{1, 2, 3, 4}, 2)

		require.Len(t, batches, 2)
		assert.Equal(t, []int64{3, 4}, batches[1])
	})
}
