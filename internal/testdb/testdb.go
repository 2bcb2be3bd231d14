// Package testdb opens migrated in-memory stores for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"canefarm/database"
	"canefarm/pkg/cycle"
)

// New returns a migrated memory store with the default categories seeded.
func New(t testing.TB) database.Store {
	t.Helper()
	s, err := database.Open(database.DriverMemory, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, database.Migrate(context.Background(), s, cycle.Default(), true, zap.NewNop()))
	return s
}

// Empty returns a migrated memory store without any seeded rows.
func Empty(t testing.TB) database.Store {
	t.Helper()
	s, err := database.Open(database.DriverMemory, "", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, database.Migrate(context.Background(), s, cycle.Default(), false, zap.NewNop()))
	return s
}
