package balances

import (
	"context"
	"sync"
	"testing"

	"quantum-energy-backend/internal/domain"
	"quantum-energy-backend/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLedgerTest(t *testing.T) (*Ledger, *gorm.DB) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Ledger{DB: db}, db
}

func TestGet_AbsentIsZero(t *testing.T) {
	l, _ := setupLedgerTest(t)
	q, err := l.Get(context.Background(), "nobody", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)
}

func TestCredit_CreatesThenAccumulates(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()

	require.NoError(t, l.Credit(ctx, "alice", domain.AssetResource, 300))
	require.NoError(t, l.Credit(ctx, "alice", domain.AssetResource, 200))

	q, err := l.Get(ctx, "alice", domain.AssetResource)
	require.NoError(t, err)
	assert.Equal(t, int64(500), q)

	// The two asset classes are independent entries.
	q, err = l.Get(ctx, "alice", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)
}

func TestCredit_RejectsNegative(t *testing.T) {
	l, _ := setupLedgerTest(t)
	assert.ErrorIs(t, l.Credit(context.Background(), "alice", domain.AssetCredit, -1), ErrNegativeAmount)
}

func TestDebit_InsufficientLeavesBalance(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()
	require.NoError(t, l.Credit(ctx, "bob", domain.AssetCredit, 100))

	err := l.Debit(ctx, "bob", domain.AssetCredit, 101)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	q, err := l.Get(ctx, "bob", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(100), q)
}

func TestDebit_ExactBalanceReachesZero(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()
	require.NoError(t, l.Credit(ctx, "bob", domain.AssetCredit, 100))
	require.NoError(t, l.Debit(ctx, "bob", domain.AssetCredit, 100))

	q, err := l.Get(ctx, "bob", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)
}

func TestDebit_AbsentEntry(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()
	assert.ErrorIs(t, l.Debit(ctx, "ghost", domain.AssetResource, 1), ErrInsufficientBalance)
	assert.NoError(t, l.Debit(ctx, "ghost", domain.AssetResource, 0))
	assert.ErrorIs(t, l.Debit(ctx, "ghost", domain.AssetResource, -5), ErrNegativeAmount)
}

func TestSet_OverwritesAndCreates(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()

	require.NoError(t, l.Set(ctx, "carol", domain.AssetCredit, 5000))
	require.NoError(t, l.Set(ctx, "carol", domain.AssetCredit, 1200))
	q, err := l.Get(ctx, "carol", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), q)

	assert.ErrorIs(t, l.Set(ctx, "carol", domain.AssetCredit, -1), ErrNegativeAmount)
	assert.ErrorIs(t, l.Set(ctx, "", domain.AssetCredit, 1), ErrInvalidPrincipal)
}

func TestCredit_ConcurrentFirstCreditsAllLand(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Credit(ctx, "erin", domain.AssetCredit, 5)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}

	q, err := l.Get(ctx, "erin", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(80), q)

	all, err := l.All(ctx, "erin")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSet_ZeroOverwritesExisting(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()

	require.NoError(t, l.Credit(ctx, "frank", domain.AssetResource, 70))
	require.NoError(t, l.Set(ctx, "frank", domain.AssetResource, 0))
	q, err := l.Get(ctx, "frank", domain.AssetResource)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)

	require.NoError(t, l.Credit(ctx, "frank", domain.AssetResource, 3))
	q, err = l.Get(ctx, "frank", domain.AssetResource)
	require.NoError(t, err)
	assert.Equal(t, int64(3), q)
}

func TestWithTx_RollbackDiscardsWrites(t *testing.T) {
	l, db := setupLedgerTest(t)
	ctx := context.Background()
	require.NoError(t, l.Credit(ctx, "dave", domain.AssetCredit, 10))

	err := db.Transaction(func(tx *gorm.DB) error {
		txl := l.WithTx(tx)
		require.NoError(t, txl.Credit(ctx, "dave", domain.AssetCredit, 90))
		return txl.Debit(ctx, "dave", domain.AssetCredit, 1000)
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	q, err := l.Get(ctx, "dave", domain.AssetCredit)
	require.NoError(t, err)
	assert.Equal(t, int64(10), q)
}

func TestAll_ListsEntriesByAsset(t *testing.T) {
	l, _ := setupLedgerTest(t)
	ctx := context.Background()
	require.NoError(t, l.Credit(ctx, "erin", domain.AssetResource, 7))
	require.NoError(t, l.Credit(ctx, "erin", domain.AssetCredit, 3))

	all, err := l.All(ctx, "erin")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.AssetCredit, all[0].Asset)
	assert.Equal(t, domain.AssetResource, all[1].Asset)
}
