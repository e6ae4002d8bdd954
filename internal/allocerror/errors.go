// Package allocerror defines the error taxonomy for statement processing.
//
// Pre-flight errors (UnresolvedPayerError) abort the batch before any row is
// touched. Row-level errors (RowSkipError, UnknownMemberError,
// UnassignedRowError) skip the offending row and let the batch continue.
// ConsistencyError marks a broken internal invariant and must never reach the
// submission boundary.
package allocerror

import (
	"fmt"
	"strings"
)

// UnresolvedPayerError indicates the configured payer name is not a member of
// the roster. Raised before any allocation work begins.
type UnresolvedPayerError struct {
	Payer string
	Names []string
}

func (e *UnresolvedPayerError) Error() string {
	return fmt.Sprintf("payer '%s' not found in the group (members: %s)",
		e.Payer, strings.Join(e.Names, ", "))
}

// RowSkipError indicates a row failed structural validation (unparsable or
// non-positive amount, unparsable date) and was skipped.
type RowSkipError struct {
	Field string
	Value string
	Err   error
}

func (e *RowSkipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row skipped: failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("row skipped: invalid %s='%s'", e.Field, e.Value)
}

func (e *RowSkipError) Unwrap() error {
	return e.Err
}

// UnknownMemberError indicates a row's assignee label does not resolve to any
// roster member. The full roster is carried for diagnosis.
type UnknownMemberError struct {
	Assignee string
	Names    []string
}

func (e *UnknownMemberError) Error() string {
	return fmt.Sprintf("could not find member '%s' in the group, known members are: %s",
		e.Assignee, strings.Join(e.Names, ", "))
}

// UnassignedRowError indicates a row was assigned to the reserved Unknown
// bucket upstream and needs manual handling instead of automatic allocation.
type UnassignedRowError struct {
	Description string
}

func (e *UnassignedRowError) Error() string {
	return fmt.Sprintf("row '%s' is assigned to Unknown and requires manual handling", e.Description)
}

// ConsistencyError indicates the zero-sum invariant was violated after
// allocation. This is a programming-contract violation, not a user error.
type ConsistencyError struct {
	Amount    string
	PaidSum   string
	OwedSum   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("share sums do not match expense amount: amount=%s paid=%s owed=%s",
		e.Amount, e.PaidSum, e.OwedSum)
}
