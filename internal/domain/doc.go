// Package domain contains the core entities of recode: users with their
// aggregate study statistics, decks, cards with their repetition schedule,
// and the import/export snapshot document. It is independent of storage
// and transport; every constructor takes the current time explicitly so
// behaviour is reproducible in tests.
package domain
