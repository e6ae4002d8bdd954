package allocate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxue2012/bayclub-to-splitwise/internal/allocerror"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
	"github.com/dxue2012/bayclub-to-splitwise/internal/roster"
)

var testDate = time.Date(2024, time.September, 3, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return dec
}

func newTestEngine(t *testing.T, raw map[string]int64, payerName string) *Engine {
	t.Helper()
	r := roster.Resolve(raw)
	payer, err := r.Payer(payerName)
	require.NoError(t, err)
	return NewEngine(r, payer, 42)
}

func row(amount string, assignee models.Assignee) models.NormalizedRow {
	return models.NormalizedRow{
		Date:        testDate,
		Amount:      d(amount),
		Description: "Court fee",
		Assignee:    assignee,
		Rationale:   "first name listed",
	}
}

func shareFor(t *testing.T, expense models.Expense, memberID int64) models.Share {
	t.Helper()
	for _, s := range expense.Shares {
		if s.MemberID == memberID {
			return s
		}
	}
	t.Fatalf("no share for member %d", memberID)
	return models.Share{}
}

func verifyZeroSum(t *testing.T, expense models.Expense) {
	t.Helper()
	paid, owed := decimal.Zero, decimal.Zero
	for _, s := range expense.Shares {
		paid = paid.Add(s.Paid)
		owed = owed.Add(s.Owed)
	}
	assert.True(t, paid.Equal(expense.Amount), "paid sum %s != amount %s", paid, expense.Amount)
	assert.True(t, owed.Equal(expense.Amount), "owed sum %s != amount %s", owed, expense.Amount)
}

func TestPairwiseAllocation(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
		"Unknown":     3,
	}, "Alice Smith")

	expense, err := engine.Allocate(row("15.00", models.NamedAssignee("Bob Jones")))
	require.NoError(t, err)

	require.Len(t, expense.Shares, 2)
	payerShare := shareFor(t, expense, 1)
	assert.Equal(t, "15.00", payerShare.Paid.StringFixed(2))
	assert.Equal(t, "0.00", payerShare.Owed.StringFixed(2))

	assigneeShare := shareFor(t, expense, 2)
	assert.Equal(t, "0.00", assigneeShare.Paid.StringFixed(2))
	assert.Equal(t, "15.00", assigneeShare.Owed.StringFixed(2))

	verifyZeroSum(t, expense)
	assert.Equal(t, "first name listed", expense.Details)
}

func TestPairwiseSelfChargeCollapses(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
	}, "Alice Smith")

	expense, err := engine.Allocate(row("25.00", models.NamedAssignee("Alice Smith")))
	require.NoError(t, err)

	require.Len(t, expense.Shares, 1)
	assert.Equal(t, "25.00", expense.Shares[0].Paid.StringFixed(2))
	assert.Equal(t, "25.00", expense.Shares[0].Owed.StringFixed(2))
	verifyZeroSum(t, expense)
}

func TestPairwiseUnknownMemberRejected(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
	}, "Alice Smith")

	_, err := engine.Allocate(row("15.00", models.NamedAssignee("Charlie Brown")))
	var unknown *allocerror.UnknownMemberError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Charlie Brown", unknown.Assignee)
	// The full roster rides along for diagnosis.
	assert.Contains(t, err.Error(), "Alice Smith")
	assert.Contains(t, err.Error(), "Bob Jones")
}

func TestEqualSplitExcludesUnknown(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
		"Unknown":     3,
	}, "Alice Smith")

	expense, err := engine.Allocate(row("60.00", models.AllMembersAssignee()))
	require.NoError(t, err)

	require.Len(t, expense.Shares, 2)
	assert.Equal(t, "60.00", expense.Amount.StringFixed(2))

	alice := shareFor(t, expense, 1)
	assert.Equal(t, "60.00", alice.Paid.StringFixed(2))
	assert.Equal(t, "30.00", alice.Owed.StringFixed(2))

	bob := shareFor(t, expense, 2)
	assert.Equal(t, "0.00", bob.Paid.StringFixed(2))
	assert.Equal(t, "30.00", bob.Owed.StringFixed(2))

	verifyZeroSum(t, expense)
	// No rounding happened, so no note is appended.
	assert.Equal(t, "first name listed", expense.Details)
}

func TestEqualSplitRoundingAdjustsTotal(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
		"Carla Diaz":  3,
	}, "Alice Smith")

	expense, err := engine.Allocate(row("100.00", models.AllMembersAssignee()))
	require.NoError(t, err)

	// 100.00 / 3 rounds to 33.33 per member; the submitted total becomes
	// 99.99 so that the shares sum exactly.
	assert.Equal(t, "99.99", expense.Amount.StringFixed(2))
	for _, share := range expense.Shares {
		assert.Equal(t, "33.33", share.Owed.StringFixed(2))
	}
	assert.Equal(t, "99.99", shareFor(t, expense, 1).Paid.StringFixed(2))

	verifyZeroSum(t, expense)
	assert.Equal(t, "first name listed, "+RoundingNote, expense.Details)
}

func TestEqualSplitRoundingNoteWithEmptyRationale(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
		"Carla Diaz":  3,
	}, "Alice Smith")

	r := row("100.00", models.AllMembersAssignee())
	r.Rationale = ""
	expense, err := engine.Allocate(r)
	require.NoError(t, err)
	assert.Equal(t, RoundingNote, expense.Details)
}

func TestEqualSplitRoundsUpWhenRemainderIsLarge(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
		"Carla Diaz":  3,
	}, "Alice Smith")

	expense, err := engine.Allocate(row("100.01", models.AllMembersAssignee()))
	require.NoError(t, err)

	// 100.01 / 3 = 33.336..., rounds to 33.34 per member, total 100.02.
	assert.Equal(t, "100.02", expense.Amount.StringFixed(2))
	verifyZeroSum(t, expense)

	// The effective amount stays within one cent of the charged amount.
	diff := expense.Amount.Sub(d("100.01")).Abs()
	assert.True(t, diff.LessThanOrEqual(d("0.01")))
}

func TestUnassignedRowRejected(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
	}, "Alice Smith")

	_, err := engine.Allocate(row("15.00", models.UnassignedAssignee()))
	var unassigned *allocerror.UnassignedRowError
	require.ErrorAs(t, err, &unassigned)
	assert.Contains(t, err.Error(), "manual handling")
}

func TestAllocateKeepsRowFieldsOnExpense(t *testing.T) {
	engine := newTestEngine(t, map[string]int64{
		"Alice Smith": 1,
		"Bob Jones":   2,
	}, "Alice Smith")

	expense, err := engine.Allocate(row("15.00", models.NamedAssignee("Bob Jones")))
	require.NoError(t, err)
	assert.Equal(t, "Court fee", expense.Description)
	assert.Equal(t, testDate, expense.Date)
	assert.Equal(t, int64(42), expense.GroupID)
}
