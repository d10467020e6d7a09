// Package storagetest runs the ports.KeyValueStore contract against any
// implementation.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

// Run exercises store. newStore must return a fresh, empty store; Run
// closes it.
func Run(t *testing.T, newStore func(t *testing.T) ports.KeyValueStore) {
	t.Helper()

	t.Run("missing key is not found", func(t *testing.T) {
		s := newStore(t)
		defer closeStore(t, s)

		_, err := s.Get(context.Background(), "absent")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		defer closeStore(t, s)

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "zenquote_theme", []byte("dark")))

		got, err := s.Get(ctx, "zenquote_theme")
		require.NoError(t, err)
		assert.Equal(t, []byte("dark"), got)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		defer closeStore(t, s)

		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "k", []byte("one")))
		require.NoError(t, s.Set(ctx, "k", []byte("two")))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), got)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		s := newStore(t)
		defer closeStore(t, s)

		ctx := context.Background()
		in := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", in))
		in[0] = 'x'

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		got[1] = 'y'

		again, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("canceled context", func(t *testing.T) {
		s := newStore(t)
		defer closeStore(t, s)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, s.Set(ctx, "k", []byte("v")))
		_, err := s.Get(ctx, "k")
		assert.Error(t, err)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		s := newStore(t)
		defer closeStore(t, s)

		ctx := context.Background()

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}))
			}()
		}
		wg.Wait()

		for i := range 20 {
			got, err := s.Get(ctx, fmt.Sprintf("k%d", i))
			require.NoError(t, err)
			assert.Equal(t, []byte{byte(i)}, got)
		}
	})
}

func closeStore(t *testing.T, s ports.KeyValueStore) {
	t.Helper()
	assert.NoError(t, s.Close())
}
