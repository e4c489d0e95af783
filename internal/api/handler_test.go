package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/desk"
	"eventdesk/internal/locks"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/internal/optimistic"
	"eventdesk/internal/store"
	"eventdesk/internal/utils"
)

// testServer wires the read-only surface over a seeded cache; the
// mutation paths are covered by the desk package tests.
func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := store.New()
	s.UpsertContacts([]models.Contact{{ID: "ana", Name: "Ana Novak", Email: "ana@example.com"}})
	s.UpsertServices([]models.Service{{
		ID:          "svc",
		Name:        "Gala",
		TicketTypes: []models.TicketType{{ID: "std", ServiceID: "svc", Label: "Standard", Price: 30}},
	}})
	s.UpsertEvents([]models.Event{{ID: "ev1", ServiceID: "svc", StartsAt: time.Date(2026, 5, 1, 19, 0, 0, 0, time.UTC)}})
	s.UpsertTickets([]models.Ticket{
		{ID: "t1", EventID: "ev1", TypeID: "std", GuestContactID: "ana", BillingContactID: "ana", Price: 30, PaymentStatus: models.PaymentPaid},
	})

	lg := logger.New(io.Discard, false)
	service := desk.New(s, nil, optimistic.New(s, lg, nil), lg)
	handler := &Handler{Desk: service, Locks: locks.New(nil, time.Minute, lg), Log: lg}

	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (int, utils.APIResponse) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func TestGetEvents(t *testing.T) {
	srv := testServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/events")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, envelope.Success)
}

func TestGetEventsWithQuery(t *testing.T) {
	srv := testServer(t)

	status, envelope := getJSON(t, srv.URL+"/api/events?q=ana")
	require.Equal(t, http.StatusOK, status)

	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"t1"`)

	// A miss returns an empty result, not an error.
	status, _ = getJSON(t, srv.URL+"/api/events?q=nobody")
	assert.Equal(t, http.StatusOK, status)
}

func TestTicketQR(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/tickets/t1/qr")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	png, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	resp, err = http.Get(srv.URL + "/api/tickets/ghost/qr")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetEventFlags(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/events/ev1/flags", strings.NewReader(`{"expanded":true}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, envelope := getJSON(t, srv.URL+"/api/events")
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"expanded":true`)
}

func TestUpdateSelection(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/tickets/selection", strings.NewReader(`{"select":["t1"]}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `["t1"]`, string(payload))
}

func TestLockEndpointsFailOpen(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/events/ev1/lock", "application/json", strings.NewReader(`{"owner":"desk-a"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
