// Package identity implements contact equality and deduplication for
// a backing store that happily keeps duplicate (name, email, phone)
// rows. Duplicate detection, reference counting and clone naming live
// here as pure functions; the desk service runs the resulting plans
// through the optimistic engine so they stay all-or-nothing.
package identity

import (
	"fmt"
	"strings"

	"eventdesk/internal/models"
)

// Key is the canonical form of a contact used for equality. Name is
// trimmed but case-preserving (display text), email is trimmed and
// lower-cased, phone drops all spaces. Empty email/phone compare
// equal to absent.
type Key struct {
	Name  string
	Email string
	Phone string
}

// Canonical reduces a contact to its equality key.
func Canonical(c models.Contact) Key {
	return Key{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: strings.ReplaceAll(strings.TrimSpace(c.Phone), " ", ""),
	}
}

// Equal reports whether two contacts are the same person under the
// canonical key.
func Equal(a, b models.Contact) bool {
	return Canonical(a) == Canonical(b)
}

// FindDuplicate returns the first existing contact structurally equal
// to candidate.
func FindDuplicate(contacts []models.Contact, candidate models.Contact) (models.Contact, bool) {
	want := Canonical(candidate)
	for _, c := range contacts {
		if c.ID == candidate.ID {
			continue
		}
		if Canonical(c) == want {
			return c, true
		}
	}
	return models.Contact{}, false
}

// UsageCount counts references to a contact across ticket guest,
// ticket billing and coupon holder fields.
func UsageCount(tickets []models.Ticket, coupons []models.Coupon, contactID string) int {
	count := 0
	for _, t := range tickets {
		if t.GuestContactID == contactID {
			count++
		}
		if t.BillingContactID == contactID {
			count++
		}
	}
	for _, c := range coupons {
		if c.ContactID == contactID {
			count++
		}
	}
	return count
}

// CopyName produces the display name for a contact clone: the base
// name with " (kópia N)" appended, using the smallest N >= 1 not
// already taken among existing names. Cloning a clone reuses the
// original base rather than nesting suffixes.
func CopyName(existing []string, base string) string {
	base = stripCopySuffix(strings.TrimSpace(base))
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[strings.TrimSpace(name)] = struct{}{}
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (kópia %d)", base, n)
		if _, used := taken[candidate]; !used {
			return candidate
		}
	}
}

func stripCopySuffix(name string) string {
	open := strings.LastIndex(name, " (kópia ")
	if open < 0 || !strings.HasSuffix(name, ")") {
		return name
	}
	digits := name[open+len(" (kópia ") : len(name)-1]
	if digits == "" {
		return name
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return name
		}
	}
	return name[:open]
}

// MergePlan lists the references that repoint from the source
// contacts to the merge target.
type MergePlan struct {
	GuestTicketIDs   []string
	BillingTicketIDs []string
	CouponIDs        []string
}

// Empty reports whether the merge would touch nothing.
func (p MergePlan) Empty() bool {
	return len(p.GuestTicketIDs) == 0 && len(p.BillingTicketIDs) == 0 && len(p.CouponIDs) == 0
}

// PlanMerge computes which ticket/coupon references currently point
// at any of the source contacts. Tickets are scanned once; a ticket
// can appear in both lists when guest and billing both reference a
// source.
func PlanMerge(tickets []models.Ticket, coupons []models.Coupon, sourceIDs []string) MergePlan {
	sources := make(map[string]struct{}, len(sourceIDs))
	for _, id := range sourceIDs {
		sources[id] = struct{}{}
	}
	var plan MergePlan
	for _, t := range tickets {
		if _, ok := sources[t.GuestContactID]; ok {
			plan.GuestTicketIDs = append(plan.GuestTicketIDs, t.ID)
		}
		if _, ok := sources[t.BillingContactID]; ok {
			plan.BillingTicketIDs = append(plan.BillingTicketIDs, t.ID)
		}
	}
	for _, c := range coupons {
		if _, ok := sources[c.ContactID]; ok {
			plan.CouponIDs = append(plan.CouponIDs, c.ID)
		}
	}
	return plan
}
