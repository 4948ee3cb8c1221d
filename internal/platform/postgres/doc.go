// Package postgres implements the internal/store interfaces on
// PostgreSQL. Each store wraps a shared DBTX so it runs against either
// the connection pool or a transaction, scans rows into domain
// entities, and maps driver errors to the store package's sentinels.
// JSONB columns back the roster and answer payloads of live sessions.
package postgres

