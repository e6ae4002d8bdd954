// Package allocate converts normalized statement rows into per-member
// paid/owed shares. This is the core of the application: every expense it
// produces satisfies the zero-sum invariant (sum of paid shares == sum of owed
// shares == expense amount, exact to the cent) or is never produced at all.
package allocate

import (
	"github.com/shopspring/decimal"

	"github.com/dxue2012/bayclub-to-splitwise/internal/allocerror"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
	"github.com/dxue2012/bayclub-to-splitwise/internal/roster"
)

// RoundingNote is appended to a row's rationale when the charged total had to
// be adjusted so per-member shares sum exactly to it.
const RoundingNote = "cost rounded so that individual amounts add up to the total"

// Engine allocates rows against a fixed roster snapshot, payer and group.
type Engine struct {
	roster  *roster.Roster
	payer   models.Member
	groupID int64
}

// NewEngine creates an allocation engine. The payer must already be resolved
// against the same roster (see roster.Payer).
func NewEngine(r *roster.Roster, payer models.Member, groupID int64) *Engine {
	return &Engine{roster: r, payer: payer, groupID: groupID}
}

// Allocate applies the allocation policy selected by the row's assignee and
// returns the resulting expense. Row-level failures (unknown member,
// unassigned bucket) return typed errors so the caller can skip the row and
// continue the batch.
func (e *Engine) Allocate(row models.NormalizedRow) (models.Expense, error) {
	switch row.Assignee.Kind() {
	case models.AssigneeAllMembers:
		return e.equalSplit(row)
	case models.AssigneeNamed:
		return e.pairwise(row)
	default:
		return models.Expense{}, &allocerror.UnassignedRowError{Description: row.Description}
	}
}

// equalSplit distributes the charge evenly across every member except the
// reserved Unknown bucket. Each share is rounded to two decimals
// (half away from zero); when the rounded shares no longer sum to the charged
// total, the total itself is replaced by their sum and the rationale says so.
// The ledger only has two decimals of precision, so the submitted amount must
// equal the owed sum exactly rather than silently mismatch.
func (e *Engine) equalSplit(row models.NormalizedRow) (models.Expense, error) {
	members := e.roster.MembersExcludingUnknown()
	count := decimal.NewFromInt(int64(len(members)))

	perMemberOwed := row.Amount.Div(count).Round(2)
	reconstructedTotal := perMemberOwed.Mul(count)

	amount := row.Amount
	details := row.Rationale
	if !reconstructedTotal.Equal(amount) {
		amount = reconstructedTotal
		if details == "" {
			details = RoundingNote
		} else {
			details += ", " + RoundingNote
		}
	}

	shares := make([]models.Share, 0, len(members))
	for _, member := range members {
		paid := decimal.Zero
		if member.ID == e.payer.ID {
			paid = amount
		}
		shares = append(shares, models.Share{MemberID: member.ID, Paid: paid, Owed: perMemberOwed})
	}

	return models.NewExpense(amount, row.Description, row.Date, e.groupID, shares, details)
}

// pairwise charges the full amount between the payer and the named member.
// A payer charging themselves collapses to a single share with
// paid == owed == amount, a net-zero entry that is still recorded.
func (e *Engine) pairwise(row models.NormalizedRow) (models.Expense, error) {
	assignee, ok := e.roster.Lookup(row.Assignee.Label())
	if !ok || assignee.Name == models.UnknownMemberKey {
		return models.Expense{}, &allocerror.UnknownMemberError{
			Assignee: row.Assignee.Label(),
			Names:    e.roster.Names(),
		}
	}

	var shares []models.Share
	if assignee.ID == e.payer.ID {
		shares = []models.Share{
			{MemberID: e.payer.ID, Paid: row.Amount, Owed: row.Amount},
		}
	} else {
		shares = []models.Share{
			{MemberID: e.payer.ID, Paid: row.Amount, Owed: decimal.Zero},
			{MemberID: assignee.ID, Paid: decimal.Zero, Owed: row.Amount},
		}
	}

	return models.NewExpense(row.Amount, row.Description, row.Date, e.groupID, shares, row.Rationale)
}
