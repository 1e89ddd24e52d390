// Package service implements the application operations on decks, cards,
// reviews and users.
//
// Every mutation of an owner's records runs through Runner.InOwnerTx: it
// takes an in-process lock for the owner, opens one database transaction and
// locks the owner's user row before doing anything else. The aggregate
// counters on the user are updated inside that same transaction, so a
// mutation and its counter change commit or roll back together.
package service
