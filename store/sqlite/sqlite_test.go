package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stokmaster/stokmaster/core"
	"github.com/stokmaster/stokmaster/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleSnapshot() core.Snapshot {
	snap := core.EmptySnapshot()
	snap.InitialInvestment = decimal.NewFromInt(50000)
	snap.Products = []core.Product{
		{ID: "p-1", Name: "Rice 25kg", Price: decimal.NewFromInt(12500), Stock: 40, Category: "Cereals", SaleType: core.SaleWholesale},
	}
	snap.Transactions = []core.Transaction{
		{ID: "tx-1", ProductID: "p-1", ProductName: "Rice 25kg", Type: core.TxEntry, SaleType: core.SaleWholesale, Quantity: 40, Value: decimal.NewFromInt(360000), Description: "Stock load (Wholesale): Rice 25kg"},
	}
	return snap
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

func TestSnapshot_SaveLoadRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "owner@example.com", sampleSnapshot()))

	got, found, err := st.Load(ctx, "owner@example.com")
	require.NoError(t, err)
	require.True(t, found)

	require.Len(t, got.Products, 1)
	assert.Equal(t, "Rice 25kg", got.Products[0].Name)
	assert.True(t, got.Products[0].Price.Equal(decimal.NewFromInt(12500)))
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, core.TxEntry, got.Transactions[0].Type)
	assert.True(t, got.InitialInvestment.Equal(decimal.NewFromInt(50000)))
}

func TestSnapshot_SaveOverwrites(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "owner@example.com", sampleSnapshot()))

	updated := sampleSnapshot()
	updated.Products[0].Stock = 12
	require.NoError(t, st.Save(ctx, "owner@example.com", updated))

	got, _, err := st.Load(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, 12, got.Products[0].Stock, "save is a full overwrite")
}

func TestSnapshot_MissingAccount_NotFoundFlag(t *testing.T) {
	st := newTestStore(t)

	_, found, err := st.Load(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.False(t, found, "absence is a flag, not an error")
}

func TestSnapshot_AccountsIsolated(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "alice@example.com", sampleSnapshot()))

	_, found, err := st.Load(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

// =============================================================================
// CORRUPT SNAPSHOT DETECTION
// =============================================================================

func TestSnapshot_MalformedJSON_Corrupt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.RawSetSnapshotPayload(ctx, "owner@example.com", "{definitely not json"))

	_, found, err := st.Load(ctx, "owner@example.com")

	assert.True(t, found, "the row exists even though it is unreadable")
	assert.ErrorIs(t, err, core.ErrCorruptSnapshot)
	var corrupt *core.CorruptSnapshotError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, "owner@example.com", corrupt.Account)
}

func TestSnapshot_UnknownVersion_Corrupt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.RawSetSnapshotPayload(ctx, "owner@example.com",
		`{"version": 99, "products": [], "transactions": [], "initialInvestment": "0"}`))

	_, _, err := st.Load(ctx, "owner@example.com")

	assert.ErrorIs(t, err, core.ErrCorruptSnapshot)
}

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

func TestCredentials_CreateAndLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateAccount(ctx, "owner@example.com", "hash-value"))

	hash, found, err := st.LookupAccount(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hash-value", hash)

	_, found, err = st.LookupAccount(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCredentials_DuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateAccount(ctx, "owner@example.com", "hash-1"))

	err := st.CreateAccount(ctx, "owner@example.com", "hash-2")
	assert.ErrorIs(t, err, core.ErrAccountExists)
}
