package uploader

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxue2012/bayclub-to-splitwise/internal/logging"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

type fakeLedger struct {
	created []models.Expense
	failOn  map[string]bool
}

func (f *fakeLedger) CreateExpense(_ context.Context, expense models.Expense) error {
	if f.failOn[expense.Description] {
		return fmt.Errorf("splitwise rejected the request")
	}
	f.created = append(f.created, expense)
	return nil
}

func testExpense(t *testing.T, description, amount string) models.Expense {
	t.Helper()
	amt := decimal.RequireFromString(amount)
	expense, err := models.NewExpense(amt, description,
		time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), 42,
		[]models.Share{
			{MemberID: 1, Paid: amt, Owed: decimal.Zero},
			{MemberID: 2, Paid: decimal.Zero, Owed: amt},
		}, "")
	require.NoError(t, err)
	return expense
}

func TestSubmitAll(t *testing.T) {
	ledger := &fakeLedger{}
	logger := logging.NewMockLogger()

	expenses := []models.Expense{
		testExpense(t, "Monthly dues", "60.00"),
		testExpense(t, "Court fee", "15.00"),
	}

	submitted := New(ledger, logger).Submit(context.Background(), expenses)
	assert.Equal(t, 2, submitted)
	assert.Len(t, ledger.created, 2)
	assert.Empty(t, logger.EntriesByLevel("ERROR"))
}

func TestSubmitToleratesPartialFailure(t *testing.T) {
	ledger := &fakeLedger{failOn: map[string]bool{"Court fee": true}}
	logger := logging.NewMockLogger()

	expenses := []models.Expense{
		testExpense(t, "Monthly dues", "60.00"),
		testExpense(t, "Court fee", "15.00"),
		testExpense(t, "Locker fee", "9.00"),
	}

	submitted := New(ledger, logger).Submit(context.Background(), expenses)

	// The failed expense is skipped, the ones after it still go through.
	assert.Equal(t, 2, submitted)
	require.Len(t, ledger.created, 2)
	assert.Equal(t, "Monthly dues", ledger.created[0].Description)
	assert.Equal(t, "Locker fee", ledger.created[1].Description)
	assert.Len(t, logger.EntriesByLevel("ERROR"), 1)
}

func TestSubmitEmptyBatch(t *testing.T) {
	ledger := &fakeLedger{}
	submitted := New(ledger, logging.NewMockLogger()).Submit(context.Background(), nil)
	assert.Equal(t, 0, submitted)
	assert.Empty(t, ledger.created)
}
