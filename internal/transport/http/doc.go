// Package http exposes the derived election views as a read-only JSON
// API. Responses carry plain tabular or scalar structures so any
// rendering layer (web dashboard, terminal table, chart library) can
// consume them without adaptation; errors are RFC 7807 problem details.
package http
