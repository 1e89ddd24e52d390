// Package store defines the persistence interfaces for users, decks and
// cards, the sentinel errors they return, and the transaction helper the
// services build on. Implementations live in internal/platform/sqlstore.
//
// All deck and card operations take the owner's id and filter on it; the
// package never exposes an unscoped read of another user's records.
package store
