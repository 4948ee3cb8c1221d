// Package store defines the persistence interfaces for users, decks,
// items, review history, invitations, study sessions, stats, and live
// quiz sessions, along with the sentinel errors they return. Services
// depend on these interfaces only; each store's WithTx method rebinds
// it to a transaction so multi-store operations commit atomically.
package store
