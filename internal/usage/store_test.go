package usage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "usage.db"), limit)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCheckAndIncrement_CountsUpToLimit(t *testing.T) {
	s := openTestStore(t, 3)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := s.CheckAndIncrement(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	_, err := s.CheckAndIncrement(ctx, "a@example.com")
	var quota *ErrQuotaExceeded
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, 3, quota.Used)
	assert.Equal(t, 3, quota.Limit)

	// The failed attempt must not have incremented.
	n, err := s.Count(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCheckAndIncrement_IdentitiesAreIndependent(t *testing.T) {
	s := openTestStore(t, 2)
	ctx := context.Background()

	_, err := s.CheckAndIncrement(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = s.CheckAndIncrement(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = s.CheckAndIncrement(ctx, "a@example.com")
	var quota *ErrQuotaExceeded
	require.True(t, errors.As(err, &quota))

	n, err := s.CheckAndIncrement(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCount_UnknownIdentityIsZero(t *testing.T) {
	s := openTestStore(t, 5)

	n, err := s.Count(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_DefaultLimit(t *testing.T) {
	s := openTestStore(t, 0)
	assert.Equal(t, DefaultLimit, s.Limit())
}
