package sequence

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:sequences_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`DROP TABLE IF EXISTS sequences`)
	db.Exec(`CREATE TABLE sequences (
		name TEXT PRIMARY KEY,
		next_no BIGINT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return db
}

func TestAllocatorNext(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, EnsureDefaults(ctx, db))

	alloc := NewAllocator()

	first, err := alloc.Next(ctx, db, Consumers)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first)

	second, err := alloc.Next(ctx, db, Consumers)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), second)

	// Each entity draws from its own base.
	meterNo, err := alloc.Next(ctx, db, Meters)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), meterNo)

	billNo, err := alloc.Next(ctx, db, Bills)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), billNo)
}

func TestAllocatorUnknownSequence(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, EnsureDefaults(ctx, db))

	_, err := NewAllocator().Next(ctx, db, "invoices")
	assert.ErrorIs(t, err, ErrUnknownSequence)
}

func TestEnsureDefaultsLeavesCountersAlone(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, EnsureDefaults(ctx, db))

	alloc := NewAllocator()
	_, err := alloc.Next(ctx, db, Consumers)
	require.NoError(t, err)

	// Re-seeding must not reset an advanced counter.
	require.NoError(t, EnsureDefaults(ctx, db))

	next, err := alloc.Next(ctx, db, Consumers)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), next)
}
