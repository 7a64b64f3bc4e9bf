package database

import (
	"testing"

	"quantum-energy-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenSQLite_AutoMigrate(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "table for %T", m)
	}
}

func TestNextSequence_StartsAtOneAndIncrements(t *testing.T) {
	db, err := OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	for want := uint64(1); want <= 3; want++ {
		got, err := domain.NextSequence(db, domain.SequenceListings)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	other, err := domain.NextSequence(db, domain.SequenceExperiments)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), other)
}
