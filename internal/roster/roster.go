// Package roster builds the immutable member snapshot used for one allocation
// batch. It maps member display names, as they appear on statements, to the
// opaque identifiers issued by the expense ledger.
package roster

import (
	"sort"
	"strings"

	"github.com/dxue2012/bayclub-to-splitwise/internal/allocerror"
	"github.com/dxue2012/bayclub-to-splitwise/internal/models"
)

// Roster is an immutable snapshot of group membership. Member order is fixed
// at construction (name-sorted) so that equal-split computations are
// reproducible across runs with identical input.
type Roster struct {
	members []models.Member
	byName  map[string]models.Member
}

// Resolve builds a Roster from the ledger's name-to-identifier mapping.
//
// The ledger reports the reserved unassigned pseudo-member with a missing last
// name, which the membership endpoint concatenates into "Unknown None". Any
// such form is normalized to the single reserved "Unknown" key. Names are
// unique within a snapshot; on a duplicate the last write wins.
func Resolve(raw map[string]int64) *Roster {
	byName := make(map[string]models.Member, len(raw))
	for name, id := range raw {
		name = normalizeName(name)
		byName[name] = models.Member{ID: id, Name: name}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	members := make([]models.Member, 0, len(names))
	for _, name := range names {
		members = append(members, byName[name])
	}

	return &Roster{members: members, byName: byName}
}

// normalizeName collapses the malformed first+missing-last concatenation of
// the unassigned pseudo-member into the reserved key.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if strings.TrimSuffix(name, " None") == models.UnknownMemberKey {
		return models.UnknownMemberKey
	}
	return name
}

// Lookup resolves a display name to a member.
func (r *Roster) Lookup(name string) (models.Member, bool) {
	member, ok := r.byName[name]
	return member, ok
}

// Members returns every member, including the reserved Unknown bucket, in
// deterministic order.
func (r *Roster) Members() []models.Member {
	out := make([]models.Member, len(r.members))
	copy(out, r.members)
	return out
}

// MembersExcludingUnknown returns the members eligible for equal splits and
// payer duty, in deterministic order.
func (r *Roster) MembersExcludingUnknown() []models.Member {
	out := make([]models.Member, 0, len(r.members))
	for _, member := range r.members {
		if member.Name == models.UnknownMemberKey {
			continue
		}
		out = append(out, member)
	}
	return out
}

// Names returns every member display name in deterministic order, for
// diagnostics when an assignee cannot be resolved.
func (r *Roster) Names() []string {
	names := make([]string, len(r.members))
	for i, member := range r.members {
		names[i] = member.Name
	}
	return names
}

// Payer resolves the configured payer name, failing fast with an
// UnresolvedPayerError before any allocation work begins. The reserved
// Unknown bucket is not payer-eligible.
func (r *Roster) Payer(name string) (models.Member, error) {
	member, ok := r.byName[name]
	if !ok || member.Name == models.UnknownMemberKey {
		return models.Member{}, &allocerror.UnresolvedPayerError{Payer: name, Names: r.Names()}
	}
	return member, nil
}
