package desk

import (
	"fmt"

	"eventdesk/internal/derive"
	"eventdesk/internal/models"
)

// TypeSummary is the per-ticket-type sales line rendered in an
// event's header.
type TypeSummary struct {
	Type         models.TicketType `json:"type"`
	Sold         int               `json:"sold"`
	OverCapacity bool              `json:"overCapacity"`
}

// EventTypeSummaries computes sold counts and capacity state for
// every ticket type of the event's service. Cancelled tickets do not
// count.
func (s *Service) EventTypeSummaries(eventID string) ([]TypeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.store.EventByID(eventID)
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	svc, ok := s.store.Service(view.ServiceID)
	if !ok {
		return nil, fmt.Errorf("service %s: %w", view.ServiceID, ErrNotFound)
	}

	all := append(append([]models.Ticket(nil), view.Tickets...), view.Cancelled...)
	summaries := make([]TypeSummary, 0, len(svc.TicketTypes))
	for _, tt := range svc.TicketTypes {
		sold := derive.SoldCount(all, tt.ID)
		summaries = append(summaries, TypeSummary{
			Type:         tt,
			Sold:         sold,
			OverCapacity: derive.IsOverCapacity(tt, sold),
		})
	}
	return summaries, nil
}

// BillingGroups returns the event's active tickets grouped by billing
// contact, with each group's total.
func (s *Service) BillingGroups(eventID string) ([][]models.Ticket, []float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.store.EventByID(eventID)
	if !ok {
		return nil, nil, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	groups := derive.BillingGroups(view.Tickets)
	totals := make([]float64, len(groups))
	for i, group := range groups {
		totals[i] = derive.GroupTotal(group)
	}
	return groups, totals, nil
}
