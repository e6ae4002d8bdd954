package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dxue2012/bayclub-to-splitwise/internal/allocerror"
	"github.com/dxue2012/bayclub-to-splitwise/internal/dateutils"
)

// Expense is one allocated charge ready for submission to the ledger.
// Immutable once constructed; NewExpense is the only constructor and refuses
// to build an expense that violates the zero-sum invariant.
type Expense struct {
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	GroupID     int64
	Shares      []Share
	Details     string
}

// NewExpense builds an Expense after verifying that the paid shares and the
// owed shares each sum exactly to the expense amount. A violation means a bug
// in the allocation engine and is reported as a ConsistencyError so it can
// never be submitted silently.
func NewExpense(amount decimal.Decimal, description string, date time.Time, groupID int64, shares []Share, details string) (Expense, error) {
	paidSum := decimal.Zero
	owedSum := decimal.Zero
	for _, share := range shares {
		paidSum = paidSum.Add(share.Paid)
		owedSum = owedSum.Add(share.Owed)
	}

	if !paidSum.Equal(amount) || !owedSum.Equal(amount) {
		return Expense{}, &allocerror.ConsistencyError{
			Amount:  amount.StringFixed(2),
			PaidSum: paidSum.StringFixed(2),
			OwedSum: owedSum.StringFixed(2),
		}
	}

	return Expense{
		Amount:      amount,
		Description: description,
		Date:        date,
		GroupID:     groupID,
		Shares:      shares,
		Details:     details,
	}, nil
}

// String renders the expense for dry-run inspection.
func (e Expense) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s", dateutils.ToISODate(e.Date), e.Amount.StringFixed(2), e.Description)
	for _, share := range e.Shares {
		fmt.Fprintf(&b, "\n  member %d: paid=%s owed=%s",
			share.MemberID, share.Paid.StringFixed(2), share.Owed.StringFixed(2))
	}
	if e.Details != "" {
		fmt.Fprintf(&b, "\n  details: %s", e.Details)
	}
	return b.String()
}
