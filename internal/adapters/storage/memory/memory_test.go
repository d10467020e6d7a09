package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/zenquote/internal/adapters/storage/storagetest"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/ports"
)

var _ ports.HealthChecker = (*Store)(nil)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(*testing.T) ports.KeyValueStore {
		return New()
	})
}

func TestStore_Closed(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Check(ctx))
	require.NoError(t, s.Close())

	assert.True(t, domain.IsUnavailable(s.Set(ctx, "k", nil)))
	_, err := s.Get(ctx, "k")
	assert.True(t, domain.IsUnavailable(err))
	assert.True(t, domain.IsUnavailable(s.Check(ctx)))
	assert.Equal(t, "storage", s.Name())
}
