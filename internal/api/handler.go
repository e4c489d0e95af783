// Package api is the JSON surface the dashboard UI talks to. It is a
// thin translation layer: decode, call the desk service, wrap the
// result in the standard envelope. Error classification maps the desk
// taxonomy onto status codes; remote error text passes through
// verbatim.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"eventdesk/internal/desk"
	"eventdesk/internal/locks"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/internal/utils"
)

type Handler struct {
	Desk  *desk.Service
	Locks *locks.EventLocks
	Log   *logger.Logger
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, resp utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) ok(w http.ResponseWriter, message string, data interface{}) {
	h.writeJSON(w, http.StatusOK, utils.SuccessResponse(message, data))
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, desk.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, desk.ErrValidation),
		errors.Is(err, desk.ErrEventHasTickets),
		errors.Is(err, desk.ErrServiceInUse),
		errors.Is(err, desk.ErrContactNotShared),
		errors.Is(err, desk.ErrCouponInvalid),
		errors.Is(err, desk.ErrMergeTargetIsSource):
		status = http.StatusBadRequest
	case errors.Is(err, desk.ErrDuplicateContact),
		errors.Is(err, desk.ErrDuplicateCouponCode):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.Log.Error("API", err.Error())
	}
	h.writeJSON(w, status, utils.ErrorResponse("request failed", err.Error()))
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ---------------- events & search ----------------

// GetEvents answers GET /api/events?q=... with the filtered event
// views and the highlighted ticket ids.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	result := h.Desk.Search(r.URL.Query().Get("q"))
	h.ok(w, "events", result)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Desk.Refresh(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "refreshed", nil)
}

type createEventRequest struct {
	ServiceID string    `json:"serviceId"`
	StartsAt  time.Time `json:"startsAt"`
	IsPublic  bool      `json:"isPublic"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ev, err := h.Desk.CreateEvent(r.Context(), req.ServiceID, req.StartsAt, req.IsPublic)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "event created", ev)
}

func (h *Handler) PatchEvent(w http.ResponseWriter, r *http.Request) {
	var patch models.EventPatch
	if err := decode(r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.PatchEvent(r.Context(), chi.URLParam(r, "eventID"), patch); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "event updated", nil)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Desk.DeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "event deleted", nil)
}

type flagsRequest struct {
	Expanded      *bool `json:"expanded"`
	ShowCancelled *bool `json:"showCancelled"`
	LockedArrived *bool `json:"lockedArrived"`
}

func (h *Handler) SetEventFlags(w http.ResponseWriter, r *http.Request) {
	var req flagsRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	eventID := chi.URLParam(r, "eventID")
	if req.Expanded != nil {
		h.Desk.SetExpanded(eventID, *req.Expanded)
	}
	if req.ShowCancelled != nil {
		h.Desk.SetShowCancelled(eventID, *req.ShowCancelled)
	}
	if req.LockedArrived != nil {
		h.Desk.SetLockedArrived(eventID, *req.LockedArrived)
	}
	h.ok(w, "flags updated", nil)
}

func (h *Handler) EventSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Desk.EventTypeSummaries(chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "summaries", summaries)
}

type billingGroup struct {
	Tickets []models.Ticket `json:"tickets"`
	Total   float64         `json:"total"`
}

func (h *Handler) EventBillingGroups(w http.ResponseWriter, r *http.Request) {
	groups, totals, err := h.Desk.BillingGroups(chi.URLParam(r, "eventID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]billingGroup, len(groups))
	for i := range groups {
		out[i] = billingGroup{Tickets: groups[i], Total: totals[i]}
	}
	h.ok(w, "billing groups", out)
}

// ---------------- event edit locks ----------------

type lockRequest struct {
	Owner string `json:"owner"`
}

func (h *Handler) LockEvent(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	acquired, err := h.Locks.Acquire(r.Context(), chi.URLParam(r, "eventID"), req.Owner)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !acquired {
		holder, _ := h.Locks.Holder(r.Context(), chi.URLParam(r, "eventID"))
		h.writeJSON(w, http.StatusConflict, utils.ErrorResponse("event is being edited", holder))
		return
	}
	h.ok(w, "locked", nil)
}

func (h *Handler) UnlockEvent(w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Locks.Release(r.Context(), chi.URLParam(r, "eventID"), req.Owner); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "unlocked", nil)
}

// ---------------- tickets ----------------

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var t models.Ticket
	if err := decode(r, &t); err != nil {
		h.fail(w, err)
		return
	}
	created, err := h.Desk.CreateTicket(r.Context(), t)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "ticket created", created)
}

func (h *Handler) PatchTicket(w http.ResponseWriter, r *http.Request) {
	var patch models.TicketPatch
	if err := decode(r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.PatchTicket(r.Context(), chi.URLParam(r, "ticketID"), patch); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "ticket updated", nil)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := h.Desk.DeleteTicket(r.Context(), chi.URLParam(r, "ticketID")); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "ticket deleted", nil)
}

type statusRequest struct {
	IDs    []string             `json:"ids"`
	Status models.PaymentStatus `json:"status"`
}

func (h *Handler) SetTicketsStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.SetTicketsStatus(r.Context(), req.IDs, req.Status); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "status updated", nil)
}

type arrivedRequest struct {
	Arrived bool `json:"arrived"`
}

func (h *Handler) SetArrived(w http.ResponseWriter, r *http.Request) {
	var req arrivedRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.SetArrived(r.Context(), chi.URLParam(r, "ticketID"), req.Arrived); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "arrival updated", nil)
}

type selectionRequest struct {
	Select   []string `json:"select"`
	Deselect []string `json:"deselect"`
	Clear    bool     `json:"clear"`
}

func (h *Handler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.Clear {
		h.Desk.ClearSelection()
	}
	h.Desk.SelectTickets(req.Select)
	h.Desk.DeselectTickets(req.Deselect)
	h.ok(w, "selection updated", h.Desk.SelectedTicketIDs())
}

// TicketQR answers with a PNG QR code of the ticket id for door
// check-in scanners.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	if _, ok := h.Desk.Ticket(ticketID); !ok {
		h.writeJSON(w, http.StatusNotFound, utils.ErrorResponse("request failed", "ticket not found"))
		return
	}
	png, err := qrcode.Encode(ticketID, qrcode.Medium, 256)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

type convertRequest struct {
	IDs        []string   `json:"ids"`
	ContactID  string     `json:"contactId"`
	ValidUntil *time.Time `json:"validUntil"`
}

func (h *Handler) ConvertTickets(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	coupon, err := h.Desk.ConvertTicketsToCoupon(r.Context(), req.IDs, req.ContactID, req.ValidUntil)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "tickets converted", coupon)
}
