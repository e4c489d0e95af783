package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventdesk/internal/desk"
	"eventdesk/internal/models"
	"eventdesk/internal/utils"
)

// ---------------- services ----------------

type createServiceRequest struct {
	Name string `json:"name"`
}

func (h *Handler) GetServices(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "services", h.Desk.Services())
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	svc, err := h.Desk.CreateService(r.Context(), req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "service created", svc)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.Desk.DeleteService(r.Context(), chi.URLParam(r, "serviceID")); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "service deleted", nil)
}

type ticketTypeRequest struct {
	Label    string  `json:"label"`
	Price    float64 `json:"price"`
	Capacity *int    `json:"capacity"`
	IsVIP    bool    `json:"isVip"`
}

func (h *Handler) AddTicketType(w http.ResponseWriter, r *http.Request) {
	var req ticketTypeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	tt, err := h.Desk.AddTicketType(r.Context(), chi.URLParam(r, "serviceID"), req.Label, req.Price, req.Capacity, req.IsVIP)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "ticket type added", tt)
}

// ---------------- contacts ----------------

func (h *Handler) GetContacts(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "contacts", h.Desk.Contacts())
}

type createContactRequest struct {
	models.Contact
	Force bool `json:"force"`
}

// CreateContact refuses a canonical duplicate unless force is set; the
// conflict response carries the existing contact so the UI can offer
// reuse.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	contact, err := h.Desk.CreateContact(r.Context(), req.Contact, req.Force)
	if errors.Is(err, desk.ErrDuplicateContact) {
		h.writeJSON(w, http.StatusConflict, utils.APIResponse{
			Success: false,
			Message: "duplicate contact",
			Data:    contact,
			Error:   err.Error(),
		})
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "contact created", contact)
}

func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var patch models.ContactPatch
	if err := decode(r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.UpdateContact(r.Context(), chi.URLParam(r, "contactID"), patch); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "contact updated", nil)
}

type mergeRequest struct {
	TargetID  string   `json:"targetId"`
	SourceIDs []string `json:"sourceIds"`
}

func (h *Handler) MergeContacts(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.MergeContacts(r.Context(), req.TargetID, req.SourceIDs); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "contacts merged", nil)
}

func (h *Handler) ContactUsage(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "usage", h.Desk.ContactUsage(chi.URLParam(r, "contactID")))
}

type unlinkRequest struct {
	Role string `json:"role"`
}

func (h *Handler) UnlinkContact(w http.ResponseWriter, r *http.Request) {
	var req unlinkRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	role := desk.RoleGuest
	if req.Role == "billing" {
		role = desk.RoleBilling
	}
	clone, err := h.Desk.UnlinkContact(r.Context(), chi.URLParam(r, "ticketID"), role)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "contact unlinked", clone)
}

// ---------------- coupons ----------------

func (h *Handler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "coupons", h.Desk.Coupons())
}

type createCouponRequest struct {
	Amount     float64    `json:"amount"`
	ValidUntil *time.Time `json:"validUntil"`
	ContactID  string     `json:"contactId"`
	Note       string     `json:"note"`
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	coupon, err := h.Desk.CreateCoupon(r.Context(), req.Amount, req.ValidUntil, req.ContactID, req.Note)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "coupon created", coupon)
}

func (h *Handler) PatchCoupon(w http.ResponseWriter, r *http.Request) {
	var patch models.CouponPatch
	if err := decode(r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Desk.PatchCoupon(r.Context(), chi.URLParam(r, "couponID"), patch); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "coupon updated", nil)
}

func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.Desk.DeleteCoupon(r.Context(), chi.URLParam(r, "couponID")); err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "coupon deleted", nil)
}

type redeemRequest struct {
	TicketIDs []string `json:"ticketIds"`
}

func (h *Handler) RedeemCoupon(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	discount, err := h.Desk.RedeemCoupon(r.Context(), chi.URLParam(r, "couponID"), req.TicketIDs)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, "coupon redeemed", map[string]float64{"discount": discount})
}
