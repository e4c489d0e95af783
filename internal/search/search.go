// Package search turns a free-text query into a filtered event list
// with leaf-level ticket highlighting. The two phases are deliberate:
// the coarse pass decides which events survive at all, the fine pass
// recovers exactly which tickets matched so siblings in the same
// billing group stay visible but unhighlighted.
package search

import (
	"strings"

	"eventdesk/internal/models"
	"eventdesk/internal/store"
)

// ContactLookup resolves a contact id against the cache.
type ContactLookup func(id string) (models.Contact, bool)

// Result is the outcome of one search: the events to show and the
// tickets to highlight within them. Tickets of a visible event that
// are not highlighted still render.
type Result struct {
	VisibleEvents        []store.EventView `json:"visibleEvents"`
	HighlightedTicketIDs []string          `json:"highlightedTicketIds"`
}

// Search filters events by a free-text query. Matching is fuzzy,
// case-insensitive and diacritic-tolerant across ticket id and the
// guest/billing contact's name, email and phone, over active and
// cancelled tickets alike. An empty query returns all events with no
// highlights without touching the matcher. A query starting with "="
// switches to exact id matching against a "|"-delimited id list.
//
// The function is pure: it never mutates its inputs and identical
// inputs always produce identical results.
func Search(events []store.EventView, contacts ContactLookup, query string, m Matcher) Result {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Result{VisibleEvents: events, HighlightedTicketIDs: []string{}}
	}

	if strings.HasPrefix(trimmed, "=") {
		return searchExactIDs(events, trimmed[1:])
	}

	tokens := strings.Fields(trimmed)
	patterns := make([][]rune, 0, len(tokens))
	for _, token := range tokens {
		patterns = append(patterns, Pattern(token))
	}

	match := func(t models.Ticket) bool {
		return ticketMatches(t, contacts, patterns, m)
	}

	// Phase 1: coarse filter. An event survives when at least one of
	// its tickets (active or cancelled) matches.
	var visible []store.EventView
	for _, ev := range events {
		if anyTicketMatches(ev, match) {
			visible = append(visible, ev)
		}
	}

	// Phase 2: fine highlight. Re-run the same matching scoped to
	// each surviving event to recover the exact matched ticket ids.
	highlighted := []string{}
	for _, ev := range visible {
		for _, t := range ev.Tickets {
			if match(t) {
				highlighted = append(highlighted, t.ID)
			}
		}
		for _, t := range ev.Cancelled {
			if match(t) {
				highlighted = append(highlighted, t.ID)
			}
		}
	}

	if visible == nil {
		visible = []store.EventView{}
	}
	return Result{VisibleEvents: visible, HighlightedTicketIDs: highlighted}
}

// searchExactIDs handles the "=" deep-link mode: literal membership
// against the listed ticket ids, no fuzzy engine involved.
func searchExactIDs(events []store.EventView, list string) Result {
	wanted := make(map[string]struct{})
	for _, id := range strings.Split(list, "|") {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = struct{}{}
		}
	}

	visible := []store.EventView{}
	highlighted := []string{}
	for _, ev := range events {
		hit := false
		for _, t := range append(append([]models.Ticket{}, ev.Tickets...), ev.Cancelled...) {
			if _, ok := wanted[t.ID]; ok {
				highlighted = append(highlighted, t.ID)
				hit = true
			}
		}
		if hit {
			visible = append(visible, ev)
		}
	}
	return Result{VisibleEvents: visible, HighlightedTicketIDs: highlighted}
}

func anyTicketMatches(ev store.EventView, match func(models.Ticket) bool) bool {
	for _, t := range ev.Tickets {
		if match(t) {
			return true
		}
	}
	for _, t := range ev.Cancelled {
		if match(t) {
			return true
		}
	}
	return false
}

// ticketMatches requires every query token to match at least one
// searchable field of the ticket.
func ticketMatches(t models.Ticket, contacts ContactLookup, patterns [][]rune, m Matcher) bool {
	fields := searchFields(t, contacts)
	for _, pattern := range patterns {
		matched := false
		for _, field := range fields {
			if m.Match(field, pattern) > 0 {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func searchFields(t models.Ticket, contacts ContactLookup) []string {
	fields := make([]string, 0, 7)
	fields = append(fields, t.ID)
	if guest, ok := contacts(t.GuestContactID); ok {
		fields = append(fields, guest.Name, guest.Email, guest.Phone)
	}
	if billing, ok := contacts(t.BillingContactID); ok {
		fields = append(fields, billing.Name, billing.Email, billing.Phone)
	}
	return fields
}
