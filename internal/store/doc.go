// Package store is the in-memory cache of the dashboard's entities:
// services, events, tickets, contacts and coupons, plus the ephemeral
// UI state attached to them (expansion flags, selection, highlight
// set). It is the single source of truth the UI renders from.
//
// The store is a pure data structure with no I/O and no concurrency
// control; the desk service serializes access. Mutations happen only
// through the optimistic engine so that every change is covered by a
// revert snapshot.
//
// Invariant maintained by every mutator: each event's active and
// cancelled ticket lists partition that event's tickets exactly by
// payment status and stay sorted by billing contact name, VIP before
// non-VIP, then guest contact name.
package store
