// Package result holds the caller-facing search result shapes. They are plain
// data structures so the routing layer can serialize them directly.
package result

import "github.com/bzuer/ethnos-api/internal/domain/pagination"

// Engine identifies which backend combination produced a result set.
type Engine string

const (
	// IndexPlusStore means the full-text index ranked the ids and the
	// relational store hydrated them. Totals are exact.
	IndexPlusStore Engine = "index+store"
	// StoreFallback means the index was unavailable and a direct relational
	// substring search produced the items. Totals are approximate: at least
	// offset + returned rows, possibly more.
	StoreFallback Engine = "store_fallback"
)

// Provenance describes how a result set was produced. It is observability
// metadata only and never affects item content or order.
type Provenance struct {
	Engine    Engine           `json:"engine" msgpack:"engine"`
	QueryType string           `json:"query_type" msgpack:"query_type"`
	Timings   map[string]int64 `json:"timings_ms" msgpack:"timings_ms"`
}

// Page is one page of hydrated search results. Item order matches the order
// returned by whichever backend produced the identifier list.
type Page[T any] struct {
	Items      []T             `json:"items" msgpack:"items"`
	Total      int             `json:"total" msgpack:"total"`
	Pagination pagination.Meta `json:"pagination" msgpack:"pagination"`
	Provenance Provenance      `json:"provenance" msgpack:"provenance"`
}
