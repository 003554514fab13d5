package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/internal/access/store/drivers/sqlite"
)

// newTestStore spins up an in-memory sqlite store with migrations applied.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err, "failed to open in-memory store")
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations(), "failed to apply migrations")
	return st
}

// fixedClock returns a Now func pinned to the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// testEpoch is an arbitrary stable instant used as "now" across the suite.
var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
