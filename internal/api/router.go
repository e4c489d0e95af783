package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventdesk/internal/logger"
)

func requestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			lg.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
		})
	}
}

// NewRouter mounts the dashboard API.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/refresh", h.Refresh)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.GetEvents)
			r.Post("/", h.CreateEvent)
			r.Patch("/{eventID}", h.PatchEvent)
			r.Delete("/{eventID}", h.DeleteEvent)
			r.Put("/{eventID}/flags", h.SetEventFlags)
			r.Get("/{eventID}/summaries", h.EventSummaries)
			r.Get("/{eventID}/groups", h.EventBillingGroups)
			r.Post("/{eventID}/lock", h.LockEvent)
			r.Post("/{eventID}/unlock", h.UnlockEvent)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", h.CreateTicket)
			r.Put("/selection", h.UpdateSelection)
			r.Put("/status", h.SetTicketsStatus)
			r.Post("/convert", h.ConvertTickets)
			r.Patch("/{ticketID}", h.PatchTicket)
			r.Delete("/{ticketID}", h.DeleteTicket)
			r.Put("/{ticketID}/arrived", h.SetArrived)
			r.Post("/{ticketID}/unlink", h.UnlinkContact)
			r.Get("/{ticketID}/qr", h.TicketQR)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.GetServices)
			r.Post("/", h.CreateService)
			r.Delete("/{serviceID}", h.DeleteService)
			r.Post("/{serviceID}/types", h.AddTicketType)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.GetContacts)
			r.Post("/", h.CreateContact)
			r.Post("/merge", h.MergeContacts)
			r.Patch("/{contactID}", h.UpdateContact)
			r.Get("/{contactID}/usage", h.ContactUsage)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", h.GetCoupons)
			r.Post("/", h.CreateCoupon)
			r.Patch("/{couponID}", h.PatchCoupon)
			r.Delete("/{couponID}", h.DeleteCoupon)
			r.Post("/{couponID}/redeem", h.RedeemCoupon)
		})
	})

	return r
}
