package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stokmaster/stokmaster/core"
)

func saleDraft(name string, value int64) core.Transaction {
	return core.Transaction{
		Type:        core.TxSale,
		SaleType:    core.SaleRetail,
		ProductName: name,
		Quantity:    1,
		Value:       dec(value),
		Description: "Retail sale: " + name,
	}
}

// =============================================================================
// APPEND SEMANTICS
// =============================================================================

func TestLedgerAppend_AssignsIdentityAndTimestamp(t *testing.T) {
	l := core.NewLedger()

	tx, err := l.Append(saleDraft("Rice", 700))
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.False(t, tx.Date.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), tx.Date, 5*time.Second)
}

func TestLedgerAppend_HeadInsertion_NewestFirst(t *testing.T) {
	// GIVEN: Three appends in order
	// WHEN: Listing
	// THEN: The most recent append is at the head

	l := core.NewLedger()
	for i := 1; i <= 3; i++ {
		_, err := l.Append(saleDraft(fmt.Sprintf("item-%d", i), int64(i*100)))
		require.NoError(t, err)
	}

	all := l.All()
	require.Len(t, all, 3)
	assert.Equal(t, "item-3", all[0].ProductName)
	assert.Equal(t, "item-1", all[2].ProductName)
}

func TestLedgerAppend_StructuralValidationOnly(t *testing.T) {
	l := core.NewLedger()

	_, err := l.Append(core.Transaction{Type: "REFUND", Value: dec(1)})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = l.Append(core.Transaction{Type: core.TxSale, Quantity: -1, Value: dec(1)})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = l.Append(core.Transaction{Type: core.TxSale, Value: dec(-1)})
	assert.ErrorIs(t, err, core.ErrValidation)
}

// =============================================================================
// QUERIES
// =============================================================================

func TestLedgerRecent_WindowsFromTheHead(t *testing.T) {
	l := core.NewLedger()
	for i := 1; i <= 10; i++ {
		_, err := l.Append(saleDraft(fmt.Sprintf("item-%d", i), 100))
		require.NoError(t, err)
	}

	recent := l.Recent(6)
	require.Len(t, recent, 6)
	assert.Equal(t, "item-10", recent[0].ProductName)
	assert.Equal(t, "item-5", recent[5].ProductName)

	assert.Len(t, l.Recent(50), 10, "n beyond length returns everything")
	assert.Empty(t, l.Recent(0))
}

func TestLedgerList_FilterByType(t *testing.T) {
	l := core.NewLedger()
	_, err := l.Append(saleDraft("Rice", 700))
	require.NoError(t, err)
	_, err = l.Append(core.Transaction{Type: core.TxEntry, SaleType: core.SaleRetail, Quantity: 5, Value: dec(2500)})
	require.NoError(t, err)
	_, err = l.Append(core.Transaction{Type: core.TxExpense, SaleType: core.SaleRetail, Value: dec(900)})
	require.NoError(t, err)

	assert.Len(t, l.List(core.TransactionFilter{Type: "SALE"}), 1)
	assert.Len(t, l.List(core.TransactionFilter{Type: "ENTRY"}), 1)
	assert.Len(t, l.List(core.TransactionFilter{Type: "all"}), 3)
	assert.Len(t, l.List(core.TransactionFilter{}), 3)
}
