// Package models defines the domain types shared across the application:
// members, statement rows, assignees, shares and expenses.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reserved assignee labels emitted by the extraction service.
const (
	AllMembersKey    = "All"
	UnknownMemberKey = "Unknown"
)

// Member is one person in the expense group. The ID is the opaque identifier
// issued by the expense ledger; Name is the display name used on statements.
type Member struct {
	ID   int64
	Name string
}

// RawRow is one row of the extraction service's output, untouched. All fields
// are free-form strings; the normalizer turns them into a NormalizedRow.
type RawRow struct {
	Date           string `json:"date"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
	AssignedMember string `json:"assigned_member"`
	Reason         string `json:"reason"`
}

// AssigneeKind distinguishes the three allocation targets a row can carry.
type AssigneeKind int

const (
	// AssigneeNamed points at a single member by display name.
	AssigneeNamed AssigneeKind = iota
	// AssigneeAllMembers requests an equal split across the group.
	AssigneeAllMembers
	// AssigneeUnassigned marks a charge whose responsible party is unknown.
	AssigneeUnassigned
)

// Assignee is the tagged variant replacing raw sentinel-string comparison.
// It is produced once during normalization; the allocation engine switches on
// Kind instead of comparing strings.
type Assignee struct {
	kind  AssigneeKind
	label string
}

// NamedAssignee creates an assignee pointing at a specific member label.
// The label is resolved against the roster by the allocation engine.
func NamedAssignee(label string) Assignee {
	return Assignee{kind: AssigneeNamed, label: label}
}

// AllMembersAssignee creates the equal-split assignee.
func AllMembersAssignee() Assignee {
	return Assignee{kind: AssigneeAllMembers}
}

// UnassignedAssignee creates the unknown-responsibility assignee.
func UnassignedAssignee() Assignee {
	return Assignee{kind: AssigneeUnassigned}
}

// Kind returns the variant tag.
func (a Assignee) Kind() AssigneeKind {
	return a.kind
}

// Label returns the member label for AssigneeNamed, empty otherwise.
func (a Assignee) Label() string {
	return a.label
}

// String returns the sentinel form used in logs.
func (a Assignee) String() string {
	switch a.kind {
	case AssigneeAllMembers:
		return AllMembersKey
	case AssigneeUnassigned:
		return UnknownMemberKey
	default:
		return a.label
	}
}

// NormalizedRow is a statement row after structural validation: a calendar
// date, a strictly positive amount and a typed assignee. Rationale carries the
// extraction service's reasoning and may be extended with a rounding note
// during allocation.
type NormalizedRow struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Assignee    Assignee
	Rationale   string
}

// Share is one member's part of an expense. Paid and Owed are both >= 0 and
// fixed to two decimal places when submitted.
type Share struct {
	MemberID int64
	Paid     decimal.Decimal
	Owed     decimal.Decimal
}
