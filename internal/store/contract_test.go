package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/onkoe/direction/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract checks the behavior every shortener.Store must share.
// Keys are made unique per run so that shared backends need no cleanup between runs.
func testStoreContract(t *testing.T, s shortener.Store) {
	t.Helper()

	ctx := context.Background()
	key := func() []byte { return []byte("contract-" + uuid.NewString()) }

	t.Run("get returns inserted value", func(t *testing.T) {
		k := key()
		require.NoError(t, s.Insert(ctx, k, []byte("value")))

		got, found, err := s.Get(ctx, k)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("value"), got)
	})

	t.Run("get reports missing key without error", func(t *testing.T) {
		got, found, err := s.Get(ctx, key())

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("insert overwrites existing value", func(t *testing.T) {
		k := key()
		require.NoError(t, s.Insert(ctx, k, []byte("old")))
		require.NoError(t, s.Insert(ctx, k, []byte("new")))

		got, found, err := s.Get(ctx, k)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("insert if absent writes a free key", func(t *testing.T) {
		k := key()

		inserted, err := s.InsertIfAbsent(ctx, k, []byte("first"))

		require.NoError(t, err)
		assert.True(t, inserted)

		got, _, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("insert if absent keeps a taken key", func(t *testing.T) {
		k := key()
		require.NoError(t, s.Insert(ctx, k, []byte("first")))

		inserted, err := s.InsertIfAbsent(ctx, k, []byte("second"))

		require.NoError(t, err)
		assert.False(t, inserted)

		got, _, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("stores arbitrary bytes", func(t *testing.T) {
		k := append(key(), 0x00, 0xff)
		value := []byte{0x00, 0x01, 0xfe, 0xff}
		require.NoError(t, s.Insert(ctx, k, value))

		got, found, err := s.Get(ctx, k)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, value, got)
	})

	t.Run("insert if absent has one winner under contention", func(t *testing.T) {
		const writers = 32

		k := key()
		won := make([]bool, writers)
		errs := make([]error, writers)

		var wg sync.WaitGroup

		start := make(chan struct{})

		for w := range writers {
			wg.Add(1)

			go func() {
				defer wg.Done()
				<-start

				won[w], errs[w] = s.InsertIfAbsent(ctx, k, []byte(fmt.Sprintf("writer-%d", w)))
			}()
		}

		close(start)
		wg.Wait()

		winner := -1

		for w := range writers {
			require.NoError(t, errs[w])

			if won[w] {
				require.Equal(t, -1, winner, "writers %d and %d both inserted", winner, w)
				winner = w
			}
		}

		require.NotEqual(t, -1, winner, "no writer inserted")

		got, found, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, fmt.Sprintf("writer-%d", winner), string(got))
	})
}
