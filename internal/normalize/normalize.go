// Package normalize turns raw extraction rows into typed statement rows.
// Normalization is structural only: amounts must parse and be positive, dates
// must parse to a calendar day, and the assignee label is tagged but not yet
// resolved against the roster. Semantic validation belongs to the allocation
// engine.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dxue2012/bayclub-to-splitwise/internal/allocerror"
	"github.com/dxue2012/bayclub-to-splitwise/internal/dateutils"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

// amountReplacer strips thousands separators and currency decoration that the
// extraction service occasionally leaves in textual amounts.
var amountReplacer = strings.NewReplacer(",", "", "$", "", " ", "")

// Row validates one raw row and produces its typed form. Failures return a
// RowSkipError; the caller logs it and continues with the rest of the batch.
func Row(raw models.RawRow) (models.NormalizedRow, error) {
	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return models.NormalizedRow{}, err
	}

	date, err := dateutils.ParseDateString(raw.Date)
	if err != nil {
		return models.NormalizedRow{}, &allocerror.RowSkipError{Field: "date", Value: raw.Date, Err: err}
	}

	return models.NormalizedRow{
		Date:        date,
		Amount:      amount,
		Description: strings.TrimSpace(raw.Description),
		Assignee:    tagAssignee(raw.AssignedMember),
		Rationale:   strings.TrimSpace(raw.Reason),
	}, nil
}

// parseAmount parses a textual amount into a decimal, rejecting rows whose
// amount is missing, unparsable, zero or negative. Credits and refunds show up
// as non-positive amounts and are out of scope for automated splitting.
func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := amountReplacer.Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return decimal.Decimal{}, &allocerror.RowSkipError{Field: "amount", Value: value}
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &allocerror.RowSkipError{Field: "amount", Value: value, Err: err}
	}

	// The ledger's precision is two decimals; fix it here so every later
	// comparison is exact to the cent.
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Decimal{}, &allocerror.RowSkipError{Field: "amount", Value: value}
	}

	return amount, nil
}

// tagAssignee recognizes the reserved sentinels exactly once. Every other
// label is carried as-is for the allocation engine to resolve. An empty label
// means the extraction service could not decide, same as Unknown.
func tagAssignee(label string) models.Assignee {
	label = strings.TrimSpace(label)
	switch label {
	case models.AllMembersKey:
		return models.AllMembersAssignee()
	case models.UnknownMemberKey, "":
		return models.UnassignedAssignee()
	default:
		return models.NamedAssignee(label)
	}
}
